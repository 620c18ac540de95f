package conf

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/dConf/cmd/util"
	"github.com/ValentinKolb/dConf/lib/common"
	"github.com/ValentinKolb/dConf/lib/dynconf"
	"github.com/VictoriaMetrics/metrics"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	log = logger.GetLogger("cli")

	configuration *dynconf.Configuration
	storageConfig *common.StorageConfig
	metricSet     *metrics.Set
	closeStorage  func() error

	// Commands lists every configuration command. They share setupConfiguration and teardown.
	Commands = []*cobra.Command{
		getCmd,
		setCmd,
		delCmd,
		incrCmd,
		mgetCmd,
		dumpCmd,
		perfTestCmd,
	}
)

func init() {
	for _, cmd := range Commands {
		cmd.PreRunE = closeOnError(chain(setupConfiguration, cmd.PreRunE))
		cmd.RunE = withTeardown(cmd.RunE)
	}
}

// SetupFlags adds the flags shared by all configuration commands to cmd (usually the root command)
func SetupFlags(cmd *cobra.Command) {
	cobra.OnInitialize(util.InitConfig)
	util.SetupStorageFlags(cmd)
	cmd.PersistentFlags().StringP("namespace", "n", "", util.WrapString("Namespace of the keys (empty for the global namespace)"))
}

// setupConfiguration builds the storage backend and the configuration for a command
func setupConfiguration(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	var err error
	storageConfig, err = util.GetStorageConfig()
	if err != nil {
		return err
	}
	if err := common.InitLoggers(storageConfig.LogLevel); err != nil {
		return err
	}
	log.Debugf("configuration: %s", storageConfig)

	metricSet = metrics.NewSet()
	s, closeFn, err := util.GetStorage(storageConfig, metricSet)
	if err != nil {
		return fmt.Errorf("unable to open %s storage: %w", storageConfig.Backend, err)
	}
	closeStorage = closeFn
	configuration = dynconf.New(s)
	return nil
}

// teardown prints the metrics (if requested) and closes the storage
func teardown() error {
	if storageConfig != nil && storageConfig.Metrics && metricSet != nil {
		fmt.Fprintln(os.Stderr)
		metricSet.WritePrometheus(os.Stderr)
	}
	if closeStorage == nil {
		return nil
	}
	closeFn := closeStorage
	closeStorage = nil
	return closeFn()
}

// withTeardown runs teardown after run, also when run fails
func withTeardown(run func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		defer func() {
			if closeErr := teardown(); err == nil {
				err = closeErr
			}
		}()
		return run(cmd, args)
	}
}

// closeOnError runs teardown if hook fails, cobra skips RunE in that case
func closeOnError(hook func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := hook(cmd, args); err != nil {
			_ = teardown()
			return err
		}
		return nil
	}
}

// namespace returns the namespace selected with --namespace
func namespace() string {
	return viper.GetString("namespace")
}

// chain runs the given hooks in order, nil hooks are skipped
func chain(hooks ...func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		for _, hook := range hooks {
			if hook == nil {
				continue
			}
			if err := hook(cmd, args); err != nil {
				return err
			}
		}
		return nil
	}
}
