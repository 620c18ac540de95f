// Package bstore implements storage.Storage on top of a bbolt database file.
//
// Every namespace is a top level bucket and every local key a key inside that
// bucket, so the layout mirrors the one file per namespace of the fstore
// package. Writes are transactional per key; there is no cache in front of the
// database because bbolt reads are served from the memory mapped file.
//
// A bbolt file can only be opened by one process at a time. Opening a file that
// is locked by another process fails after one second.
package bstore
