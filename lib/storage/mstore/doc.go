// Package mstore implements a local, in-memory storage.Storage. Data is kept in
// a concurrent map and is not persisted between process restarts.
//
// Keys are normalized to "namespace__key" on every access, so a bare key and
// its "global__" form address the same entry and LoadAll reports keys the same
// way the file backend does.
//
// Usage Example:
//
//	conf := dynconf.New(mstore.NewMemoryStorage())
//	_ = conf.Set("token", "abc", "gtm")
//
// Suitable Use Cases:
//
//   - Tests of code that depends on dynconf.Configuration
//   - Ephemeral configuration within a single process
package mstore
