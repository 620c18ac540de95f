package rstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ValentinKolb/dConf/lib/storage"
	"github.com/ValentinKolb/dConf/lib/storage/keys"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/redis/go-redis/v9"
)

const (
	// DefaultPrefix is prepended to every namespace hash.
	DefaultPrefix = "dconf:"
	// DefaultTimeout bounds every single Redis round trip.
	DefaultTimeout = 5 * time.Second

	scanCount = 100
)

var log = logger.GetLogger("rstore")

// Config holds the connection parameters of the Redis storage.
type Config struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	Timeout  time.Duration
}

// Store is a storage.Storage backed by Redis. Every namespace is one hash named <prefix><namespace>.
type Store struct {
	client  *redis.Client
	prefix  string
	timeout time.Duration
}

// NewRedisStorage connects to Redis and verifies the connection with a PING.
func NewRedisStorage(conf Config) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Addr,
		Password: conf.Password,
		DB:       conf.DB,
	})

	s := NewRedisStorageWithClient(client, conf.Prefix, conf.Timeout)

	ctx, cancel := s.ctx()
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, storage.WrapError(storage.RetCInternalError, "unable to connect to redis at "+conf.Addr, err)
	}

	log.Infof("connected to redis %s (db %d, prefix %q)", conf.Addr, conf.DB, s.prefix)
	return s, nil
}

// NewRedisStorageWithClient creates a storage on top of an existing client.
// An empty prefix selects DefaultPrefix, a zero timeout DefaultTimeout.
func NewRedisStorageWithClient(client *redis.Client, prefix string, timeout time.Duration) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Store{
		client:  client,
		prefix:  prefix,
		timeout: timeout,
	}
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

// --------------------------------------------------------------------------
// Interface Methods (docu see storage/interface.go)
// --------------------------------------------------------------------------

func (s *Store) LoadAll() (map[string]string, error) {
	ctx, cancel := s.ctx()
	defer cancel()

	all := make(map[string]string)
	iter := s.client.Scan(ctx, 0, s.prefix+"*", scanCount).Iterator()
	for iter.Next(ctx) {
		hash := iter.Val()
		namespace := strings.TrimPrefix(hash, s.prefix)

		fields, err := s.client.HGetAll(ctx, hash).Result()
		if err != nil {
			return nil, storage.WrapError(storage.RetCInternalError, "unable to read "+hash, err)
		}
		for key, value := range fields {
			all[keys.Join(namespace, key)] = value
		}
	}
	if err := iter.Err(); err != nil {
		return nil, storage.WrapError(storage.RetCInternalError, "unable to scan redis keys", err)
	}
	return all, nil
}

func (s *Store) Get(key string) (string, bool, error) {
	ctx, cancel := s.ctx()
	defer cancel()

	namespace, local := keys.Parse(key)
	value, err := s.client.HGet(ctx, s.hash(namespace), local).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, storage.WrapError(storage.RetCInternalError, "unable to read "+key, err)
	}
	return value, true, nil
}

// GetMultiple sends one HGET per key in a single pipeline.
func (s *Store) GetMultiple(combined []string) (map[string]*string, error) {
	values := make(map[string]*string, len(combined))
	if len(combined) == 0 {
		return values, nil
	}

	ctx, cancel := s.ctx()
	defer cancel()

	cmds := make([]*redis.StringCmd, len(combined))
	_, err := s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, key := range combined {
			namespace, local := keys.Parse(key)
			cmds[i] = pipe.HGet(ctx, s.hash(namespace), local)
		}
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, storage.WrapError(storage.RetCInternalError, "unable to read keys", err)
	}

	for i, key := range combined {
		value, err := cmds[i].Result()
		switch {
		case errors.Is(err, redis.Nil):
			values[key] = nil
		case err != nil:
			return nil, storage.WrapError(storage.RetCInternalError, "unable to read "+key, err)
		default:
			values[key] = &value
		}
	}
	return values, nil
}

func (s *Store) Save(key, value string) error {
	ctx, cancel := s.ctx()
	defer cancel()

	namespace, local := keys.Parse(key)
	if err := s.client.HSet(ctx, s.hash(namespace), local, value).Err(); err != nil {
		return storage.WrapError(storage.RetCInternalError, "unable to write "+key, err)
	}
	return nil
}

func (s *Store) Remove(key string) error {
	ctx, cancel := s.ctx()
	defer cancel()

	namespace, local := keys.Parse(key)
	if err := s.client.HDel(ctx, s.hash(namespace), local).Err(); err != nil {
		return storage.WrapError(storage.RetCInternalError, "unable to remove "+key, err)
	}
	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func (s *Store) hash(namespace string) string {
	return s.prefix + namespace
}

func (s *Store) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.timeout)
}
