package util

import (
	"fmt"
	"time"

	"github.com/ValentinKolb/dConf/lib/storage"
	"github.com/VictoriaMetrics/metrics"
)

// instrumented records the duration and error count of every storage call.
type instrumented struct {
	storage.Storage
	set     *metrics.Set
	backend string
}

// Instrument wraps s so that every call is recorded in set as
// dconf_storage_duration_seconds and dconf_storage_errors_total, labeled by backend and operation.
func Instrument(s storage.Storage, set *metrics.Set, backend string) storage.Storage {
	if set == nil {
		return s
	}
	return &instrumented{Storage: s, set: set, backend: backend}
}

func (i *instrumented) observe(op string, start time.Time, err error) {
	labels := fmt.Sprintf(`{backend=%q,op=%q}`, i.backend, op)
	i.set.GetOrCreateHistogram("dconf_storage_duration_seconds" + labels).Update(time.Since(start).Seconds())
	if err != nil {
		i.set.GetOrCreateCounter("dconf_storage_errors_total" + labels).Inc()
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see storage/interface.go)
// --------------------------------------------------------------------------

func (i *instrumented) LoadAll() (map[string]string, error) {
	start := time.Now()
	all, err := i.Storage.LoadAll()
	i.observe("load_all", start, err)
	return all, err
}

func (i *instrumented) Get(key string) (string, bool, error) {
	start := time.Now()
	value, found, err := i.Storage.Get(key)
	i.observe("get", start, err)
	return value, found, err
}

func (i *instrumented) GetMultiple(combined []string) (map[string]*string, error) {
	start := time.Now()
	values, err := i.Storage.GetMultiple(combined)
	i.observe("get_multiple", start, err)
	return values, err
}

func (i *instrumented) Save(key, value string) error {
	start := time.Now()
	err := i.Storage.Save(key, value)
	i.observe("save", start, err)
	return err
}

func (i *instrumented) Remove(key string) error {
	start := time.Now()
	err := i.Storage.Remove(key)
	i.observe("remove", start, err)
	return err
}
