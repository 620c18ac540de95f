package common

import (
	"bytes"
	"testing"
	"time"

	"github.com/lni/dragonboat/v4/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	for in, want := range map[string]logger.LogLevel{
		"debug":   logger.DEBUG,
		"INFO":    logger.INFO,
		"warn":    logger.WARNING,
		"warning": logger.WARNING,
		"error":   logger.ERROR,
	} {
		got, err := ParseLogLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLogLevel("verbose")
	assert.Error(t, err)
	assert.Error(t, InitLoggers("verbose"))
}

func TestInitLoggersTwice(t *testing.T) {
	require.NoError(t, InitLoggers("warn"))
	require.NotPanics(t, func() {
		require.NoError(t, InitLoggers("debug"))
	})
	assert.Error(t, InitLoggers("verbose"))
}

func TestLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	old := output
	output = &buf
	defer func() { output = old }()

	l := CreateLogger("fstore")
	l.Infof("created %s", "gtm.json")
	l.Debugf("not printed")
	assert.Empty(t, buf.String(), "default level is warning")

	l.SetLevel(logger.DEBUG)
	l.Infof("created %s", "gtm.json")
	l.Debugf("reloaded")
	assert.Contains(t, buf.String(), "INFO  | fstore   | created gtm.json")
	assert.Contains(t, buf.String(), "DEBUG | fstore   | reloaded")

	buf.Reset()
	l.SetLevel(logger.ERROR)
	l.Warningf("dropped")
	l.Errorf("malformed")
	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "ERROR | fstore   | malformed")
}

func TestParseStorageBackend(t *testing.T) {
	b, err := ParseStorageBackend("Redis")
	require.NoError(t, err)
	assert.Equal(t, BackendRedis, b)

	_, err = ParseStorageBackend("sqlite")
	assert.Error(t, err)
}

func TestStorageConfigString(t *testing.T) {
	conf := &StorageConfig{
		Backend:  BackendFile,
		DataDir:  "data/dconf",
		CacheTTL: 500 * time.Millisecond,
		LogLevel: "warn",
	}
	s := conf.String()
	assert.Contains(t, s, "STORAGE")
	assert.Contains(t, s, "Data Directory        : data/dconf")
	assert.Contains(t, s, "Cache TTL             : 500 ms")
	assert.NotContains(t, s, "Address")

	conf = &StorageConfig{
		Backend:       BackendRedis,
		RedisAddr:     "localhost:6379",
		RedisPassword: "secret",
		RedisPrefix:   "dconf:",
		LogLevel:      "info",
	}
	s = conf.String()
	assert.Contains(t, s, "Address               : localhost:6379")
	assert.NotContains(t, s, "secret")
	assert.NotContains(t, s, "Data Directory")
}
