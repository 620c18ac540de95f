package mstore

import (
	"github.com/ValentinKolb/dConf/lib/storage"
	"github.com/ValentinKolb/dConf/lib/storage/keys"
	"github.com/puzpuzpuz/xsync/v3"
)

type storeImpl struct {
	data *xsync.MapOf[string, string]
}

// NewMemoryStorage creates a new in-memory storage instance.
// Nothing is persisted, the content is lost when the instance is dropped.
func NewMemoryStorage() storage.Storage {
	return &storeImpl{
		data: xsync.NewMapOf[string, string](),
	}
}

// normalize maps a combined key to its canonical form "namespace__key",
// so "name" and "global__name" address the same entry like in every other backend.
func normalize(key string) string {
	return keys.Join(keys.Parse(key))
}

// --------------------------------------------------------------------------
// Interface Methods (docu see storage/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) LoadAll() (map[string]string, error) {
	entries := make(map[string]string, s.data.Size())
	s.data.Range(func(key string, value string) bool {
		entries[key] = value
		return true
	})
	return entries, nil
}

func (s *storeImpl) Get(key string) (string, bool, error) {
	value, ok := s.data.Load(normalize(key))
	return value, ok, nil
}

func (s *storeImpl) GetMultiple(combined []string) (map[string]*string, error) {
	values := make(map[string]*string, len(combined))
	for _, key := range combined {
		if value, ok := s.data.Load(normalize(key)); ok {
			values[key] = &value
		} else {
			values[key] = nil
		}
	}
	return values, nil
}

func (s *storeImpl) Save(key, value string) error {
	s.data.Store(normalize(key), value)
	return nil
}

func (s *storeImpl) Remove(key string) error {
	s.data.Delete(normalize(key))
	return nil
}
