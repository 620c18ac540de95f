package conf

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/ValentinKolb/dConf/cmd/util"
	"github.com/ValentinKolb/dConf/lib/common"
	"github.com/ValentinKolb/dConf/lib/dynconf"
	gometrics "github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	perfTestCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Performance testing tool for the configured storage",
		RunE:    runPerf,
		PreRunE: processPerfConfig,
	}
	perfNamespace  = "perf"
	perfNumThreads = 10
	perfKeySpread  = 100
	perfSkip       = make([]string, 0)
)

// perfResult holds the benchmark result and the latency distribution of one test
type perfResult struct {
	bench   testing.BenchmarkResult
	latency gometrics.Timer
}

func init() {
	key := "skip"
	perfTestCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. set,get)"))
	key = "threads"
	perfTestCmd.Flags().Int(key, 10, util.WrapString("Number of threads to use for the benchmark"))
	key = "keys"
	perfTestCmd.Flags().Int(key, 100, util.WrapString("How many different keys to use for the tests"))
	key = "perf-namespace"
	perfTestCmd.Flags().String(key, "perf", util.WrapString("Namespace the test keys are written to"))
	key = "csv"
	perfTestCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	perfKeySpread = max(viper.GetInt("keys"), 1)
	perfNumThreads = max(viper.GetInt("threads"), 1)
	perfNamespace = viper.GetString("perf-namespace")
	perfSkip = strings.Split(viper.GetString("skip"), ",")

	return nil
}

func runPerf(_ *cobra.Command, _ []string) error {
	fmt.Println("Performance testing tool for dConf storages")

	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println(storageConfig.String())
	fmt.Printf("Threads: %d\n", perfNumThreads)
	fmt.Printf("Keys: %d (namespace %q)\n", perfKeySpread, perfNamespace)
	fmt.Println()

	fmt.Println("starting tests...")

	section := configuration.Section(perfNamespace)
	results := make(map[string]perfResult)

	tests := []struct {
		name    string
		prepare bool
		op      func(key string, counter int) error
	}{
		{"set", false, func(key string, counter int) error {
			return section.Set(key, strconv.Itoa(counter))
		}},
		{"get", true, func(key string, _ int) error {
			_, _, err := section.Get(key)
			return err
		}},
		{"get-multiple", true, func(key string, _ int) error {
			_, err := section.GetMultiple([]dynconf.KeyRef{dynconf.Alias("a", key), dynconf.Alias("b", "not-set")})
			return err
		}},
		{"increment", true, func(key string, _ int) error {
			_, err := section.Increment(key, 1)
			return err
		}},
		{"remove", true, func(key string, _ int) error {
			return section.Remove(key)
		}},
		{"mixed", true, func(key string, counter int) error {
			var err error
			switch counter % 4 {
			case 0:
				err = section.Set(key, strconv.Itoa(counter))
			case 1:
				_, _, err = section.Get(key)
			case 2:
				_, err = section.Increment(key, 1)
			case 3:
				err = section.Remove(key)
			}
			return err
		}},
	}

	for _, test := range tests {
		if shouldSkip(test.name) {
			results[test.name] = perfResult{latency: gometrics.NilTimer{}}
			printResult(test.name, results[test.name])
			continue
		}

		timer := gometrics.NewTimer()
		bench := testing.Benchmark(func(b *testing.B) {
			getKey, iter := getKeys(test.name)

			if test.prepare {
				iter(func(k string) {
					if err := section.Set(k, "0"); err != nil {
						log.Errorf("(%s) - error setting key: %v", test.name, err)
					}
				})
			}

			b.Cleanup(func() {
				iter(func(k string) {
					if err := section.Remove(k); err != nil {
						log.Errorf("(%s) - error deleting key: %v", test.name, err)
					}
				})
			})

			b.SetParallelism(perfNumThreads)

			b.ResetTimer()

			b.RunParallel(func(pb *testing.PB) {
				counter := 0
				for pb.Next() {
					start := time.Now()
					if err := test.op(getKey(counter), counter); err != nil {
						log.Errorf("(%s) - error: %v", test.name, err)
					}
					timer.UpdateSince(start)
					counter++
				}
			})
		})
		timer.Stop()

		results[test.name] = perfResult{bench: bench, latency: timer.Snapshot()}
		printResult(test.name, results[test.name])
	}

	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, results, storageConfig); err != nil {
			return fmt.Errorf("failed to export results to CSV: %v", err)
		}
		fmt.Println("Export complete")
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func shouldSkip(test string) bool {
	for _, skip := range perfSkip {
		if test == skip {
			return true
		}
	}
	return false
}

// creates an array of test keys and functions to work with them
func getKeys(prefix string) (func(int) string, func(func(string))) {
	keys := make([]string, perfKeySpread)
	for i := 0; i < perfKeySpread; i++ {
		keys[i] = fmt.Sprintf("%s-%d", prefix, i)
	}

	getKey := func(i int) string {
		return keys[i%perfKeySpread]
	}

	iterateKeys := func(fn func(string)) {
		for _, key := range keys {
			fn(key)
		}
	}

	return getKey, iterateKeys
}

// opsPerSec converts a benchmark result to (ns/op, ops/sec)
func opsPerSec(result testing.BenchmarkResult) (float64, float64) {
	nsPerOp := math.Max(float64(result.NsPerOp()), 1) // prevent division by zero
	return nsPerOp, 1.0 / (nsPerOp / 1e9)
}

// printResult prints the result of a benchmark test in a formatted way
func printResult(test string, result perfResult) {
	if result.bench.NsPerOp() == 0 {
		fmt.Printf("%-20sskipped\n", test)
		return
	}

	nsPerOp, ops := opsPerSec(result.bench)
	ps := result.latency.Percentiles([]float64{0.5, 0.99})
	fmt.Printf("%-20s%.0fns/op (%s/op)\t%.0f ops/sec\tp50 %s\tp99 %s\n",
		test, nsPerOp, time.Duration(nsPerOp), ops, time.Duration(ps[0]), time.Duration(ps[1]))
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results map[string]perfResult, config *common.StorageConfig) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{
		"Test", "NsPerOp", "DurationPerOp", "OpsPerSec", "P50Ns", "P99Ns", "Skipped",
		"Storage", "CacheTTLMs", "Threads", "Keys Count",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	for test, result := range results {
		var (
			nsPerOp, ops float64
			skipped      = "true"
		)
		if result.bench.NsPerOp() != 0 {
			skipped = "false"
			nsPerOp, ops = opsPerSec(result.bench)
		}
		ps := result.latency.Percentiles([]float64{0.5, 0.99})

		row := []string{
			test,
			fmt.Sprintf("%.0f", nsPerOp),
			time.Duration(nsPerOp).String(),
			fmt.Sprintf("%.0f", ops),
			fmt.Sprintf("%.0f", ps[0]),
			fmt.Sprintf("%.0f", ps[1]),
			skipped,
			string(config.Backend),
			strconv.FormatInt(config.CacheTTL.Milliseconds(), 10),
			strconv.Itoa(perfNumThreads),
			strconv.Itoa(perfKeySpread),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %v", test, err)
		}
	}

	return nil
}
