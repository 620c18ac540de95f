// Package rstore implements storage.Storage on top of Redis.
//
// Every namespace is stored as one Redis hash named <prefix><namespace>
// (default prefix "dconf:"), every local key is a field of that hash.
// LoadAll scans all hashes with the prefix. GetMultiple pipelines its reads.
//
// The storage API has no context parameter, so every Redis round trip runs
// with its own timeout (Config.Timeout, default five seconds).
package rstore
