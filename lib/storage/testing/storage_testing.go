package testing

import (
	"fmt"
	"testing"

	"github.com/ValentinKolb/dConf/lib/storage"
)

// StorageFactory creates a new, empty instance of a Storage implementation.
// The test is passed so that factories can use t.TempDir, t.Cleanup and friends.
type StorageFactory func(t *testing.T) storage.Storage

// RunStorageTests runs a comprehensive test suite for a Storage implementation.
func RunStorageTests(t *testing.T, name string, factory StorageFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Save&Get", func(t *testing.T) {
			testSaveGet(t, factory(t))
		})

		t.Run("Overwrite", func(t *testing.T) {
			testOverwrite(t, factory(t))
		})

		t.Run("NamespaceIsolation", func(t *testing.T) {
			testNamespaceIsolation(t, factory(t))
		})

		t.Run("GlobalNamespace", func(t *testing.T) {
			testGlobalNamespace(t, factory(t))
		})

		t.Run("GetMultiple", func(t *testing.T) {
			testGetMultiple(t, factory(t))
		})

		t.Run("Remove", func(t *testing.T) {
			testRemove(t, factory(t))
		})

		t.Run("RemoveAbsent", func(t *testing.T) {
			testRemoveAbsent(t, factory(t))
		})

		t.Run("LoadAll", func(t *testing.T) {
			testLoadAll(t, factory(t))
		})

		t.Run("EdgeCases", func(t *testing.T) {
			testEdgeCases(t, factory(t))
		})

		t.Run("RealisticUsage", func(t *testing.T) {
			testRealisticUsage(t, factory(t))
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

func mustSave(t *testing.T, s storage.Storage, key, value string) {
	t.Helper()
	if err := s.Save(key, value); err != nil {
		t.Fatalf("Save(%q) failed: %v", key, err)
	}
}

func expectValue(t *testing.T, s storage.Storage, key, want string) {
	t.Helper()
	got, found, err := s.Get(key)
	if err != nil {
		t.Fatalf("Get(%q) failed: %v", key, err)
	}
	if !found {
		t.Errorf("Expected key %s to exist", key)
		return
	}
	if got != want {
		t.Errorf("Expected value %q for key %s, got %q", want, key, got)
	}
}

func expectAbsent(t *testing.T, s storage.Storage, key string) {
	t.Helper()
	got, found, err := s.Get(key)
	if err != nil {
		t.Fatalf("Get(%q) failed: %v", key, err)
	}
	if found {
		t.Errorf("Expected key %s to be absent, got %q", key, got)
	}
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testSaveGet(t *testing.T, s storage.Storage) {
	mustSave(t, s, "gtm__token", "abc")
	expectValue(t, s, "gtm__token", "abc")
	expectAbsent(t, s, "gtm__nonexistent")
	expectAbsent(t, s, "nonexistent__token")
}

func testOverwrite(t *testing.T, s storage.Storage) {
	mustSave(t, s, "app__mode", "dev")
	mustSave(t, s, "app__mode", "prod")
	expectValue(t, s, "app__mode", "prod")

	all, err := s.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("Expected exactly one entry after overwrite, got %d (%v)", len(all), all)
	}
}

func testNamespaceIsolation(t *testing.T, s storage.Storage) {
	mustSave(t, s, "gtm__token", "abc")
	mustSave(t, s, "shop__token", "xyz")

	expectValue(t, s, "gtm__token", "abc")
	expectValue(t, s, "shop__token", "xyz")
	expectAbsent(t, s, "token")
	expectAbsent(t, s, "global__token")
}

func testGlobalNamespace(t *testing.T, s storage.Storage) {
	mustSave(t, s, "name", "dConf")

	// a bare key lives in the global namespace
	expectValue(t, s, "name", "dConf")
	expectValue(t, s, "global__name", "dConf")

	all, err := s.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if all["global__name"] != "dConf" {
		t.Errorf("Expected LoadAll to report global__name=dConf, got %v", all)
	}
}

func testGetMultiple(t *testing.T, s storage.Storage) {
	mustSave(t, s, "ns__a", "1")
	mustSave(t, s, "ns__b", "2")
	mustSave(t, s, "other__c", "3")

	requested := []string{"ns__a", "ns__b", "other__c", "ns__missing", "missing"}
	values, err := s.GetMultiple(requested)
	if err != nil {
		t.Fatalf("GetMultiple failed: %v", err)
	}

	if len(values) != len(requested) {
		t.Errorf("Expected %d entries, got %d", len(requested), len(values))
	}

	expected := map[string]string{"ns__a": "1", "ns__b": "2", "other__c": "3"}
	for _, key := range requested {
		value, ok := values[key]
		if !ok {
			t.Errorf("Expected an entry for requested key %s", key)
			continue
		}
		want, present := expected[key]
		switch {
		case present && value == nil:
			t.Errorf("Expected value %q for key %s, got absent", want, key)
		case present && *value != want:
			t.Errorf("Expected value %q for key %s, got %q", want, key, *value)
		case !present && value != nil:
			t.Errorf("Expected key %s to be absent, got %q", key, *value)
		}
	}

	empty, err := s.GetMultiple(nil)
	if err != nil {
		t.Fatalf("GetMultiple(nil) failed: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("Expected no entries for an empty request, got %v", empty)
	}
}

func testRemove(t *testing.T, s storage.Storage) {
	mustSave(t, s, "ns__a", "1")
	mustSave(t, s, "ns__b", "2")

	if err := s.Remove("ns__a"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	expectAbsent(t, s, "ns__a")
	expectValue(t, s, "ns__b", "2")
}

func testRemoveAbsent(t *testing.T, s storage.Storage) {
	mustSave(t, s, "ns__a", "1")

	if err := s.Remove("ns__missing"); err != nil {
		t.Errorf("Expected no error when removing an absent key, got %v", err)
	}
	if err := s.Remove("unknown__missing"); err != nil {
		t.Errorf("Expected no error when removing from an unknown namespace, got %v", err)
	}

	all, err := s.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if len(all) != 1 || all["ns__a"] != "1" {
		t.Errorf("Expected the bucket to be unchanged, got %v", all)
	}
}

func testLoadAll(t *testing.T, s storage.Storage) {
	all, err := s.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("Expected an empty storage, got %v", all)
	}

	mustSave(t, s, "nsA__k1", "v1")
	mustSave(t, s, "nsB__k2", "v2")

	all, err = s.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if all["nsA__k1"] != "v1" || all["nsB__k2"] != "v2" {
		t.Errorf("Expected {nsA__k1:v1, nsB__k2:v2}, got %v", all)
	}
	if len(all) != 2 {
		t.Errorf("Expected 2 entries, got %d", len(all))
	}
}

func testEdgeCases(t *testing.T, s storage.Storage) {
	// empty value
	mustSave(t, s, "ns__empty", "")
	expectValue(t, s, "ns__empty", "")

	// unicode value
	mustSave(t, s, "ns__unicode", "Příliš žluťoučký kůň 🐴")
	expectValue(t, s, "ns__unicode", "Příliš žluťoučký kůň 🐴")

	// local key containing the separator
	mustSave(t, s, "ns__a__b", "nested")
	expectValue(t, s, "ns__a__b", "nested")

	// characters that need escaping in JSON
	mustSave(t, s, "ns__quote", `"quoted" \ back`)
	expectValue(t, s, "ns__quote", `"quoted" \ back`)
}

func testRealisticUsage(t *testing.T, s storage.Storage) {
	const namespaces = 5
	const perNamespace = 20

	for n := 0; n < namespaces; n++ {
		for k := 0; k < perNamespace; k++ {
			mustSave(t, s, fmt.Sprintf("ns%d__key%d", n, k), fmt.Sprintf("value-%d-%d", n, k))
		}
	}

	// remove every second key of the first namespace
	for k := 0; k < perNamespace; k += 2 {
		if err := s.Remove(fmt.Sprintf("ns0__key%d", k)); err != nil {
			t.Fatalf("Remove failed: %v", err)
		}
	}

	all, err := s.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if want := namespaces*perNamespace - perNamespace/2; len(all) != want {
		t.Errorf("Expected %d entries, got %d", want, len(all))
	}

	expectAbsent(t, s, "ns0__key0")
	expectValue(t, s, "ns0__key1", "value-0-1")
	expectValue(t, s, "ns4__key19", "value-4-19")
}
