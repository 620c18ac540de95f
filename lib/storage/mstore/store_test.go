package mstore

import (
	"testing"

	"github.com/ValentinKolb/dConf/lib/storage"
	storagetesting "github.com/ValentinKolb/dConf/lib/storage/testing"
)

func Test(t *testing.T) {
	storagetesting.RunStorageTests(t, "MemoryStorage", func(t *testing.T) storage.Storage {
		return NewMemoryStorage()
	})
}
