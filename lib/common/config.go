package common

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Storage backends
// --------------------------------------------------------------------------

type StorageBackend string

const (
	BackendFile   StorageBackend = "file"
	BackendMemory StorageBackend = "memory"
	BackendBolt   StorageBackend = "bolt"
	BackendRedis  StorageBackend = "redis"
)

// Backends lists every supported storage backend
var Backends = []StorageBackend{BackendFile, BackendMemory, BackendBolt, BackendRedis}

// ParseStorageBackend converts a backend name (case-insensitive) to a StorageBackend
func ParseStorageBackend(name string) (StorageBackend, error) {
	for _, b := range Backends {
		if strings.EqualFold(name, string(b)) {
			return b, nil
		}
	}
	return "", fmt.Errorf("invalid storage %q. must be one of file, memory, bolt, redis", name)
}

// --------------------------------------------------------------------------
// Storage configuration struct
// --------------------------------------------------------------------------

// StorageConfig holds everything required to build a storage backend.
type StorageConfig struct {
	Backend StorageBackend

	// file backend
	DataDir  string
	CacheTTL time.Duration

	// bolt backend
	BoltPath string

	// redis backend
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	// Logging configuration
	LogLevel string

	// print metrics after each command
	Metrics bool
}

// String returns a formatted string representation of the configuration
func (c *StorageConfig) String() string {
	var sb strings.Builder

	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("Storage")
	addField("Backend", string(c.Backend))

	switch c.Backend {
	case BackendFile:
		addField("Data Directory", c.DataDir)
		addField("Cache TTL", fmt.Sprintf("%d ms", c.CacheTTL.Milliseconds()))
	case BackendBolt:
		addField("Database File", c.BoltPath)
	case BackendRedis:
		addField("Address", c.RedisAddr)
		addField("Database", strconv.Itoa(c.RedisDB))
		addField("Key Prefix", c.RedisPrefix)
		if c.RedisPassword != "" {
			addField("Password", "********")
		}
	}

	addSection("Logging")
	addField("Log Level", c.LogLevel)
	addField("Metrics", strconv.FormatBool(c.Metrics))

	return sb.String()
}
