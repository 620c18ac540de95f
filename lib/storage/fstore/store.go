package fstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ValentinKolb/dConf/lib/storage"
	"github.com/ValentinKolb/dConf/lib/storage/keys"
	"github.com/VictoriaMetrics/metrics"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
)

const (
	// DefaultTTL is the lifetime of a cached namespace bucket.
	DefaultTTL = 500 * time.Millisecond

	fileExt  = ".json"
	dirPerm  = 0o755
	filePerm = 0o644
)

var log = logger.GetLogger("fstore")

// Store is a storage.Storage persisting one JSON file per namespace.
type Store struct {
	dir   string
	ttl   time.Duration
	now   func() time.Time
	cache *xsync.MapOf[string, *bucket]

	metrics *metrics.Set
	reads   *metrics.Counter
	writes  *metrics.Counter
	loads   *metrics.Counter
	created *metrics.Counter
}

// Option configures the file storage.
type Option func(*Store)

// WithTTL overrides the lifetime of cached namespace buckets (default DefaultTTL).
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithClock overrides the clock used for cache bookkeeping (useful in tests).
func WithClock(fn func() time.Time) Option {
	return func(s *Store) {
		if fn != nil {
			s.now = fn
		}
	}
}

// WithMetrics registers the storage counters in the given set instead of a private one.
func WithMetrics(set *metrics.Set) Option {
	return func(s *Store) {
		if set != nil {
			s.metrics = set
		}
	}
}

// NewFileStorage creates a file storage rooted at dir. The directory is created if it does not exist.
func NewFileStorage(dir string, opts ...Option) (*Store, error) {
	s := &Store{
		dir:     dir,
		ttl:     DefaultTTL,
		now:     time.Now,
		cache:   xsync.NewMapOf[string, *bucket](),
		metrics: metrics.NewSet(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.reads = s.metrics.GetOrCreateCounter("dconf_fstore_reads_total")
	s.writes = s.metrics.GetOrCreateCounter("dconf_fstore_writes_total")
	s.loads = s.metrics.GetOrCreateCounter("dconf_fstore_loads_total")
	s.created = s.metrics.GetOrCreateCounter("dconf_fstore_created_total")

	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, storage.WrapError(storage.RetCInternalError, "can not create storage directory "+dir, err)
	}
	return s, nil
}

// Dir returns the storage root directory.
func (s *Store) Dir() string {
	return s.dir
}

// Metrics returns the metric set holding the storage counters.
func (s *Store) Metrics() *metrics.Set {
	return s.metrics
}

// --------------------------------------------------------------------------
// Interface Methods (docu see storage/interface.go)
// --------------------------------------------------------------------------

func (s *Store) LoadAll() (map[string]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, storage.WrapError(storage.RetCInternalError, "can not list storage directory "+s.dir, err)
	}

	all := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		namespace := strings.TrimSuffix(name, fileExt)
		if namespace == name || namespace == "" {
			continue
		}

		path := filepath.Join(s.dir, name)
		if info, err := os.Stat(path); err != nil || !info.Mode().IsRegular() {
			continue
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, storage.WrapError(storage.RetCInternalError, "can not read "+path, err)
		}
		data, err := decode(raw)
		if err != nil {
			log.Errorf("invalid json in %s: %v", path, err)
			return nil, err
		}
		for key, value := range data {
			all[keys.Join(namespace, key)] = value
		}
	}
	return all, nil
}

func (s *Store) Get(key string) (string, bool, error) {
	namespace, local := keys.Parse(key)
	data, err := s.loadBucket(namespace)
	if err != nil {
		return "", false, err
	}
	s.reads.Inc()
	value, ok := data[local]
	return value, ok, nil
}

func (s *Store) GetMultiple(combined []string) (map[string]*string, error) {
	values := make(map[string]*string, len(combined))
	for _, key := range combined {
		value, ok, err := s.Get(key)
		if err != nil {
			return nil, err
		}
		if ok {
			values[key] = &value
		} else {
			values[key] = nil
		}
	}
	return values, nil
}

func (s *Store) Save(key, value string) error {
	namespace, local := keys.Parse(key)
	return s.update(namespace, func(data map[string]string) {
		data[local] = value
	})
}

func (s *Store) Remove(key string) error {
	namespace, local := keys.Parse(key)
	return s.update(namespace, func(data map[string]string) {
		delete(data, local)
	})
}

// --------------------------------------------------------------------------
// Persistence
// --------------------------------------------------------------------------

// path returns the file of a namespace bucket.
func (s *Store) path(namespace string) (string, error) {
	if namespace == "." || namespace == ".." || strings.ContainsAny(namespace, `/\`) {
		return "", storage.NewErrorf(storage.RetCInternalError, "invalid namespace %q", namespace)
	}
	return filepath.Join(s.dir, namespace+fileExt), nil
}

// flush writes the full bucket to its file.
func (s *Store) flush(namespace string, data map[string]string) error {
	path, err := s.path(namespace)
	if err != nil {
		return err
	}
	raw, err := encode(data)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, raw, filePerm); err != nil {
		return storage.WrapError(storage.RetCInternalError, "can not write "+path, err)
	}
	s.writes.Inc()
	return nil
}

// decode parses the content of a bucket file.
func decode(raw []byte) (map[string]string, error) {
	var data map[string]string
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, storage.WrapError(storage.RetCMalformedData, "invalid json in storage", err)
	}
	if data == nil {
		data = make(map[string]string)
	}
	return data, nil
}

// encode renders a bucket as pretty-printed JSON with sorted keys.
func encode(data map[string]string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(data); err != nil {
		return nil, storage.WrapError(storage.RetCMalformedData, "can not serialize json", err)
	}
	return buf.Bytes(), nil
}

// isNotExist reports whether err means the bucket file does not exist.
func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
