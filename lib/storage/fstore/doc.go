// Package fstore implements storage.Storage with one JSON file per namespace.
//
// File Layout:
//
// The storage root directory (created by NewFileStorage if absent) holds one
// file <namespace>.json per namespace. Keys without a namespace live in
// global.json. Each file is a flat JSON object of local key to string value,
// pretty-printed with four spaces and sorted keys:
//
//	{
//	    "id": "GTM-1234",
//	    "token": "abc"
//	}
//
// A file is created as {} on the first access to its namespace. LoadAll reads
// every *.json file of the directory and prefixes the keys with
// "<namespace>__". Content that is not such an object fails with
// storage.RetCMalformedData, the decoding error is chained.
//
// Caching:
//
// Every namespace has a cached bucket with an expiration of now + TTL
// (DefaultTTL, 500ms, see WithTTL). Save and Remove always reload the bucket,
// write the whole file and keep the written content in the cache. Mutations of
// one namespace are serialized within the process; nothing guards against
// other processes writing the same files.
//
// NOTE: the freshness check is inverted. An access while the cached bucket is
// still inside its TTL window reloads the file, an access after the window
// serves the cached bucket. A freshly created bucket has no window and is
// served from the cache until the next mutation. Use WithClock to control
// time in tests.
//
// Metrics:
//
// The counters dconf_fstore_reads_total, dconf_fstore_writes_total,
// dconf_fstore_loads_total and dconf_fstore_created_total are registered in a
// VictoriaMetrics set (private, or the one given with WithMetrics).
package fstore
