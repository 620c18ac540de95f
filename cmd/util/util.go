package util

import (
	"fmt"
	"strings"
	"time"

	"github.com/ValentinKolb/dConf/lib/common"
	"github.com/ValentinKolb/dConf/lib/storage"
	"github.com/ValentinKolb/dConf/lib/storage/bstore"
	"github.com/ValentinKolb/dConf/lib/storage/fstore"
	"github.com/ValentinKolb/dConf/lib/storage/mstore"
	"github.com/ValentinKolb/dConf/lib/storage/rstore"
	"github.com/VictoriaMetrics/metrics"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// SetupStorageFlags adds the storage and logging flags to a command
func SetupStorageFlags(cmd *cobra.Command) {
	key := "storage"
	cmd.PersistentFlags().String(key, string(common.BackendFile), WrapString("The storage backend to use (file, memory, bolt, redis)"))

	key = "data-dir"
	cmd.PersistentFlags().String(key, "data/dconf", WrapString("Directory of the namespace files (file storage)"))

	key = "cache-ttl"
	cmd.PersistentFlags().Int(key, int(fstore.DefaultTTL.Milliseconds()), WrapString("Lifetime of cached namespace files in milliseconds (file storage)"))

	key = "bolt-path"
	cmd.PersistentFlags().String(key, "data/dconf.db", WrapString("Path of the database file (bolt storage)"))

	key = "redis-addr"
	cmd.PersistentFlags().String(key, "localhost:6379", WrapString("Address of the redis server (redis storage)"))

	key = "redis-password"
	cmd.PersistentFlags().String(key, "", WrapString("Password of the redis server (redis storage)"))

	key = "redis-db"
	cmd.PersistentFlags().Int(key, 0, WrapString("Redis database number (redis storage)"))

	key = "redis-prefix"
	cmd.PersistentFlags().String(key, rstore.DefaultPrefix, WrapString("Prefix of the namespace hashes (redis storage)"))

	key = "log-level"
	cmd.PersistentFlags().String(key, "warn", WrapString("The log level (debug, info, warn, error)"))

	key = "metrics"
	cmd.PersistentFlags().Bool(key, false, WrapString("Print storage metrics in the Prometheus text format after the command"))
}

// InitConfig initializes configuration from environment variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("dconf")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

// GetStorageConfig reads the storage configuration from viper
func GetStorageConfig() (*common.StorageConfig, error) {
	backend, err := common.ParseStorageBackend(viper.GetString("storage"))
	if err != nil {
		return nil, err
	}

	return &common.StorageConfig{
		Backend:       backend,
		DataDir:       viper.GetString("data-dir"),
		CacheTTL:      time.Duration(viper.GetInt("cache-ttl")) * time.Millisecond,
		BoltPath:      viper.GetString("bolt-path"),
		RedisAddr:     viper.GetString("redis-addr"),
		RedisPassword: viper.GetString("redis-password"),
		RedisDB:       viper.GetInt("redis-db"),
		RedisPrefix:   viper.GetString("redis-prefix"),
		LogLevel:      viper.GetString("log-level"),
		Metrics:       viper.GetBool("metrics"),
	}, nil
}

// GetStorage creates the storage backend described by conf. Every operation is
// recorded in set. The returned close function releases the backend.
func GetStorage(conf *common.StorageConfig, set *metrics.Set) (storage.Storage, func() error, error) {
	var s storage.Storage
	closeFn := func() error { return nil }

	switch conf.Backend {
	case common.BackendFile:
		fs, err := fstore.NewFileStorage(conf.DataDir, fstore.WithTTL(conf.CacheTTL), fstore.WithMetrics(set))
		if err != nil {
			return nil, nil, err
		}
		s = fs
	case common.BackendMemory:
		s = mstore.NewMemoryStorage()
	case common.BackendBolt:
		bs, err := bstore.NewBoltStorage(conf.BoltPath)
		if err != nil {
			return nil, nil, err
		}
		s, closeFn = bs, bs.Close
	case common.BackendRedis:
		rs, err := rstore.NewRedisStorage(rstore.Config{
			Addr:     conf.RedisAddr,
			Password: conf.RedisPassword,
			DB:       conf.RedisDB,
			Prefix:   conf.RedisPrefix,
		})
		if err != nil {
			return nil, nil, err
		}
		s, closeFn = rs, rs.Close
	default:
		return nil, nil, fmt.Errorf("invalid storage %s", conf.Backend)
	}

	return Instrument(s, set, string(conf.Backend)), closeFn, nil
}
