package bstore

import (
	"bytes"
	"os"
	"path/filepath"
	"time"

	"github.com/ValentinKolb/dConf/lib/storage"
	"github.com/ValentinKolb/dConf/lib/storage/keys"
	"github.com/lni/dragonboat/v4/logger"
	bolt "go.etcd.io/bbolt"
)

var log = logger.GetLogger("bstore")

// Store is a storage.Storage backed by a bbolt database. Every namespace is a top level bucket.
type Store struct {
	path string
	db   *bolt.DB
}

// NewBoltStorage opens (or creates) the bbolt database at path.
// The parent directory is created if it does not exist.
func NewBoltStorage(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, storage.WrapError(storage.RetCInternalError, "unable to create directory for "+path, err)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, storage.WrapError(storage.RetCInternalError, "unable to open boltdb file "+path, err)
	}

	log.Infof("opened bolt storage %s", path)
	return &Store{path: path, db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// --------------------------------------------------------------------------
// Interface Methods (docu see storage/interface.go)
// --------------------------------------------------------------------------

func (s *Store) LoadAll() (map[string]string, error) {
	all := make(map[string]string)
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.ForEach(func(name []byte, b *bolt.Bucket) error {
			namespace := string(name)
			return b.ForEach(func(k, v []byte) error {
				if v != nil {
					all[keys.Join(namespace, string(k))] = string(v)
				}
				return nil
			})
		})
	})
	if err != nil {
		return nil, storage.WrapError(storage.RetCInternalError, "unable to read bolt storage", err)
	}
	return all, nil
}

func (s *Store) Get(key string) (string, bool, error) {
	var (
		value string
		found bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		value, found = lookup(tx, key)
		return nil
	})
	if err != nil {
		return "", false, storage.WrapError(storage.RetCInternalError, "unable to read bolt storage", err)
	}
	return value, found, nil
}

func (s *Store) GetMultiple(combined []string) (map[string]*string, error) {
	values := make(map[string]*string, len(combined))
	err := s.db.View(func(tx *bolt.Tx) error {
		for _, key := range combined {
			if value, ok := lookup(tx, key); ok {
				values[key] = &value
			} else {
				values[key] = nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, storage.WrapError(storage.RetCInternalError, "unable to read bolt storage", err)
	}
	return values, nil
}

func (s *Store) Save(key, value string) error {
	namespace, local := keys.Parse(key)
	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(namespace))
		if err != nil {
			return err
		}
		return b.Put([]byte(local), []byte(value))
	})
	if err != nil {
		return storage.WrapError(storage.RetCInternalError, "unable to write "+key, err)
	}
	return nil
}

func (s *Store) Remove(key string) error {
	namespace, local := keys.Parse(key)
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(namespace))
		if b == nil {
			return nil
		}
		return b.Delete([]byte(local))
	})
	if err != nil {
		return storage.WrapError(storage.RetCInternalError, "unable to remove "+key, err)
	}
	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// lookup reads a combined key within a transaction.
// A cursor is used so that empty values are reported as found.
func lookup(tx *bolt.Tx, key string) (string, bool) {
	namespace, local := keys.Parse(key)
	b := tx.Bucket([]byte(namespace))
	if b == nil {
		return "", false
	}
	k, v := b.Cursor().Seek([]byte(local))
	if k == nil || !bytes.Equal(k, []byte(local)) || v == nil {
		// v == nil marks a nested bucket
		return "", false
	}
	return string(v), true
}
