// Package testing provides a conformance test suite for storage.Storage
// implementations.
//
// Every backend runs the suite from its own tests:
//
//	func Test(t *testing.T) {
//		storagetesting.RunStorageTests(t, "FileStorage", func(t *testing.T) storage.Storage {
//			s, err := fstore.NewFileStorage(t.TempDir())
//			if err != nil {
//				t.Fatal(err)
//			}
//			return s
//		})
//	}
//
// The suite covers basic reads and writes, namespace isolation, the global
// namespace, batch lookups, removal of present and absent keys, LoadAll and a
// handful of edge cases (empty, unicode and JSON-escaped values).
package testing
