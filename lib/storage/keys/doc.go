// Package keys implements the mapping between (key, namespace) pairs and the
// flat combined keys used by every storage backend.
//
// A combined key is "namespace__key", or just "key" when no namespace is given.
// Keys that already contain the "__" separator are passed through unchanged.
// Parse reverses the mapping; keys without a namespace prefix belong to the
// "global" namespace.
package keys
