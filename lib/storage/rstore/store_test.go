package rstore

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/ValentinKolb/dConf/lib/storage"
	storagetesting "github.com/ValentinKolb/dConf/lib/storage/testing"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore connects to the Redis server named by DCONF_TEST_REDIS_ADDR and
// returns a storage with a unique prefix. The test is skipped without a server.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	addr := os.Getenv("DCONF_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("DCONF_TEST_REDIS_ADDR not set")
	}

	prefix := fmt.Sprintf("test:dconf:%d:", time.Now().UnixNano())
	s, err := NewRedisStorage(Config{Addr: addr, DB: 15, Prefix: prefix})
	if err != nil {
		t.Skip("Redis is not available for testing:", err)
	}

	t.Cleanup(func() {
		ctx := context.Background()
		iter := s.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
		for iter.Next(ctx) {
			s.client.Del(ctx, iter.Val())
		}
		_ = s.Close()
	})
	return s
}

func Test(t *testing.T) {
	storagetesting.RunStorageTests(t, "RedisStorage", func(t *testing.T) storage.Storage {
		return newTestStore(t)
	})
}

func TestHashLayout(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save("gtm__token", "abc"))

	value, err := s.client.HGet(context.Background(), s.prefix+"gtm", "token").Result()
	require.NoError(t, err)
	assert.Equal(t, "abc", value)
}

func TestDefaults(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	defer client.Close()

	s := NewRedisStorageWithClient(client, "", 0)
	assert.Equal(t, DefaultPrefix, s.prefix)
	assert.Equal(t, DefaultTimeout, s.timeout)
	assert.Equal(t, "dconf:gtm", s.hash("gtm"))
}
