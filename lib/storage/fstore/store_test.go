package fstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ValentinKolb/dConf/lib/storage"
	storagetesting "github.com/ValentinKolb/dConf/lib/storage/testing"
	"github.com/VictoriaMetrics/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func newStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	s, err := NewFileStorage(t.TempDir(), opts...)
	require.NoError(t, err)
	return s
}

func writeFile(t *testing.T, s *Store, namespace, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), namespace+".json"), []byte(content), 0o644))
}

func readFile(t *testing.T, s *Store, namespace string) string {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join(s.Dir(), namespace+".json"))
	require.NoError(t, err)
	return string(raw)
}

func Test(t *testing.T) {
	storagetesting.RunStorageTests(t, "FileStorage", func(t *testing.T) storage.Storage {
		return newStore(t)
	})
}

func TestNewFileStorageCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data", "baraja.json-storage")

	s, err := NewFileStorage(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, dir, s.Dir())
}

func TestFileFormat(t *testing.T) {
	s := newStore(t)

	t.Run("created empty on first access", func(t *testing.T) {
		_, found, err := s.Get("fresh__key")
		require.NoError(t, err)
		assert.False(t, found)
		assert.Equal(t, "{}", readFile(t, s, "fresh"))
	})

	t.Run("pretty printed with sorted keys", func(t *testing.T) {
		require.NoError(t, s.Save("gtm__token", "abc"))
		require.NoError(t, s.Save("gtm__id", "GTM-1234"))
		assert.Equal(t, "{\n    \"id\": \"GTM-1234\",\n    \"token\": \"abc\"\n}\n", readFile(t, s, "gtm"))
	})

	t.Run("html characters are not escaped", func(t *testing.T) {
		require.NoError(t, s.Save("html__snippet", "<b>&</b>"))
		assert.Contains(t, readFile(t, s, "html"), `"<b>&</b>"`)
	})

	t.Run("keys without namespace go to global.json", func(t *testing.T) {
		require.NoError(t, s.Save("name", "dConf"))
		assert.Contains(t, readFile(t, s, "global"), `"name": "dConf"`)
	})

	t.Run("remove of absent key keeps content", func(t *testing.T) {
		before := readFile(t, s, "gtm")
		require.NoError(t, s.Remove("gtm__missing"))
		assert.Equal(t, before, readFile(t, s, "gtm"))
	})
}

func TestMalformedData(t *testing.T) {
	s := newStore(t)
	writeFile(t, s, "broken", "{not json")

	_, _, err := s.Get("broken__key")
	require.Error(t, err)
	assert.True(t, errors.Is(err, storage.ErrMalformedData))

	var syntaxErr *json.SyntaxError
	assert.True(t, errors.As(err, &syntaxErr), "the json error should be chained")

	_, err = s.LoadAll()
	assert.True(t, errors.Is(err, storage.ErrMalformedData))

	err = s.Save("broken__key", "value")
	assert.True(t, errors.Is(err, storage.ErrMalformedData))
	assert.Equal(t, "{not json", readFile(t, s, "broken"), "a failed load must not overwrite the file")
}

func TestNonStringValuesAreMalformed(t *testing.T) {
	s := newStore(t)
	writeFile(t, s, "typed", `{"count": 5}`)

	_, _, err := s.Get("typed__count")
	assert.True(t, errors.Is(err, storage.ErrMalformedData))
}

func TestInvalidNamespace(t *testing.T) {
	s := newStore(t)

	for _, key := range []string{"..__key", "a/b__key", `a\b__key`} {
		err := s.Save(key, "value")
		require.Error(t, err, key)
		assert.True(t, errors.Is(err, storage.ErrInternal), key)
	}
}

func TestLoadAll(t *testing.T) {
	s := newStore(t)
	writeFile(t, s, "nsA", `{"k1": "v1"}`)
	writeFile(t, s, "nsB", `{"k2": "v2", "k3": "v3"}`)
	writeFile(t, s, "empty", `null`)
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "notes.txt"), []byte("ignored"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(s.Dir(), "dir.json"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), ".json"), []byte(`{"x": "y"}`), 0o644))

	all, err := s.LoadAll()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"nsA__k1": "v1",
		"nsB__k2": "v2",
		"nsB__k3": "v3",
	}, all)
}

func TestCacheFreshness(t *testing.T) {
	clock := newClock()
	s := newStore(t, WithClock(clock.Now))
	writeFile(t, s, "ns", `{"k": "v1"}`)

	// first access loads the file and starts the window
	value, _, err := s.Get("ns__k")
	require.NoError(t, err)
	assert.Equal(t, "v1", value)
	assert.Equal(t, uint64(1), s.loads.Get())

	t.Run("reloads while inside the window", func(t *testing.T) {
		writeFile(t, s, "ns", `{"k": "v2"}`)
		clock.Advance(100 * time.Millisecond)

		value, _, err := s.Get("ns__k")
		require.NoError(t, err)
		assert.Equal(t, "v2", value)
		assert.Equal(t, uint64(2), s.loads.Get())
	})

	t.Run("reload at the exact expiration instant", func(t *testing.T) {
		writeFile(t, s, "ns", `{"k": "v3"}`)
		clock.Advance(DefaultTTL)

		value, _, err := s.Get("ns__k")
		require.NoError(t, err)
		assert.Equal(t, "v3", value)
	})

	t.Run("serves the cached bucket once the window elapsed", func(t *testing.T) {
		writeFile(t, s, "ns", `{"k": "v4"}`)
		clock.Advance(DefaultTTL + time.Millisecond)

		loads := s.loads.Get()
		value, _, err := s.Get("ns__k")
		require.NoError(t, err)
		assert.Equal(t, "v3", value)
		assert.Equal(t, loads, s.loads.Get())
	})

	t.Run("mutations always reload first", func(t *testing.T) {
		require.NoError(t, s.Save("ns__other", "x"))

		assert.Equal(t, "{\n    \"k\": \"v4\",\n    \"other\": \"x\"\n}\n", readFile(t, s, "ns"))

		value, _, err := s.Get("ns__k")
		require.NoError(t, err)
		assert.Equal(t, "v4", value)
	})
}

func TestCreatedBucketHasNoWindow(t *testing.T) {
	clock := newClock()
	s := newStore(t, WithClock(clock.Now))

	// the file does not exist yet: it is created and cached without an expiration
	_, found, err := s.Get("late__k")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, uint64(1), s.created.Get())

	// an external write is not picked up by reads
	writeFile(t, s, "late", `{"k": "v"}`)
	_, found, err = s.Get("late__k")
	require.NoError(t, err)
	assert.False(t, found)

	// but by the next mutation
	require.NoError(t, s.Save("late__other", "x"))
	value, found, err := s.Get("late__k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v", value)
}

func TestCustomTTL(t *testing.T) {
	clock := newClock()
	s := newStore(t, WithClock(clock.Now), WithTTL(time.Minute))
	writeFile(t, s, "ns", `{"k": "v1"}`)

	_, _, err := s.Get("ns__k")
	require.NoError(t, err)

	writeFile(t, s, "ns", `{"k": "v2"}`)
	clock.Advance(30 * time.Second)

	value, _, err := s.Get("ns__k")
	require.NoError(t, err)
	assert.Equal(t, "v2", value)
}

func TestMetrics(t *testing.T) {
	set := metrics.NewSet()
	s := newStore(t, WithMetrics(set))

	require.NoError(t, s.Save("ns__a", "1"))
	require.NoError(t, s.Save("ns__b", "2"))
	_, _, err := s.Get("ns__a")
	require.NoError(t, err)
	_, err = s.GetMultiple([]string{"ns__a", "ns__b", "ns__c"})
	require.NoError(t, err)

	assert.Equal(t, uint64(2), s.writes.Get())
	assert.Equal(t, uint64(4), s.reads.Get())
	assert.Equal(t, uint64(1), s.created.Get())
	assert.Same(t, set, s.Metrics())

	var buf bytes.Buffer
	set.WritePrometheus(&buf)
	assert.Contains(t, buf.String(), "dconf_fstore_writes_total 2")
	assert.Contains(t, buf.String(), "dconf_fstore_reads_total 4")
}

func TestMultipleInstancesShareFiles(t *testing.T) {
	dir := t.TempDir()
	a, err := NewFileStorage(dir)
	require.NoError(t, err)
	b, err := NewFileStorage(dir)
	require.NoError(t, err)

	require.NoError(t, a.Save("shared__k", "from-a"))

	value, found, err := b.Get("shared__k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "from-a", value)
}
