// Package storage defines the contract between the configuration facade and its
// persistence backends, together with the error taxonomy shared by all layers.
//
// The package focuses on:
//   - A unified interface (Storage) for reading and writing short string values
//   - A structured error type (Error) with return codes instead of ad-hoc strings
//
// Key Components:
//
//   - Storage Interface: The only extension point of the system. Every backend
//     works on combined keys ("namespace__key") which are produced by the keys
//     package. Any conforming implementation can be swapped in without touching
//     the dynconf facade.
//
//   - Error System: Every failure is reported as *Error carrying a RetCode.
//     Callers can branch on the code directly or use errors.Is with one of the
//     sentinel values (ErrKeyTooLong, ErrMissingKeys, ...). Errors caused by
//     lower layers (file system, JSON decoding, database drivers) are chained
//     and reachable with errors.Unwrap.
//
// Implementations:
//
//   - File Storage (fstore): one pretty-printed JSON file per namespace with a
//     short-lived in-memory cache per namespace. This is the default backend.
//   - Memory Storage (mstore): a non-persistent backend for tests and ephemeral use.
//   - Bolt Storage (bstore): a bbolt database with one bucket per namespace.
//   - Redis Storage (rstore): one Redis hash per namespace.
//
// The storage/testing package provides a conformance suite that every backend runs.
package storage
