package fstore

import (
	"os"
	"time"

	"github.com/ValentinKolb/dConf/lib/storage"
)

// bucket is the cached content of one namespace file.
// data is never modified after the bucket was stored in the cache, writers replace the whole bucket.
type bucket struct {
	data    map[string]string
	expires time.Time
}

// loadBucket returns the content of a namespace, loading it from disk if required.
func (s *Store) loadBucket(namespace string) (map[string]string, error) {
	var (
		data map[string]string
		err  error
	)
	s.cache.Compute(namespace, func(cached *bucket, loaded bool) (*bucket, bool) {
		b, loadErr := s.load(namespace, cached, loaded, false)
		if loadErr != nil {
			err = loadErr
			return cached, !loaded
		}
		data = b.data
		return b, false
	})
	return data, err
}

// update force-loads a namespace, applies mutate to a copy of its content and persists the result.
// The namespace is locked in the cache for the whole operation.
func (s *Store) update(namespace string, mutate func(data map[string]string)) error {
	var err error
	s.cache.Compute(namespace, func(cached *bucket, loaded bool) (*bucket, bool) {
		b, loadErr := s.load(namespace, cached, loaded, true)
		if loadErr != nil {
			err = loadErr
			return cached, !loaded
		}

		data := make(map[string]string, len(b.data)+1)
		for k, v := range b.data {
			data[k] = v
		}
		mutate(data)

		if flushErr := s.flush(namespace, data); flushErr != nil {
			err = flushErr
			return b, false
		}
		return &bucket{data: data, expires: b.expires}, false
	})
	return err
}

// load returns the bucket of a namespace.
//
// NOTE: the freshness check forces a reload while the cached bucket is still
// inside its TTL window and keeps serving the cached bucket once the window
// has elapsed. This is the inverse of a conventional TTL cache and is kept
// until the intended semantics are confirmed.
//
// A missing bucket file is created as an empty object. The expiration of an
// already cached bucket is kept in that case.
func (s *Store) load(namespace string, cached *bucket, loaded bool, force bool) (*bucket, error) {
	now := s.now()
	if loaded && !now.After(cached.expires) {
		force = true
	}
	if loaded && !force {
		return cached, nil
	}

	path, err := s.path(namespace)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if isNotExist(err) {
		if err := os.WriteFile(path, []byte("{}"), filePerm); err != nil {
			return nil, storage.WrapError(storage.RetCInternalError, "can not create "+path, err)
		}
		s.created.Inc()
		log.Infof("created namespace file %s", path)

		b := &bucket{data: make(map[string]string)}
		if loaded {
			b.expires = cached.expires
		}
		return b, nil
	}
	if err != nil {
		return nil, storage.WrapError(storage.RetCInternalError, "can not read "+path, err)
	}

	data, err := decode(raw)
	if err != nil {
		log.Errorf("invalid json in %s: %v", path, err)
		return nil, err
	}
	s.loads.Inc()
	log.Debugf("loaded namespace %s (%d keys)", namespace, len(data))

	return &bucket{data: data, expires: now.Add(s.ttl)}, nil
}
