package storage

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// Factory is a function type that creates a new storage backend.
// It is used by the wiring layer to abstract the creation of the backend from its consumers.
type Factory func() (Storage, error)

// Storage is the contract every configuration backend implements.
// All keys passed to a Storage are combined keys (see the keys package), i.e.
// "namespace__key" or a bare key which belongs to the global namespace.
// Write operations return only an error (nil on success),
// read operations return the requested data along with an error (nil on success).
type Storage interface {
	// LoadAll returns every stored entry across all namespaces as combined key -> value.
	LoadAll() (entries map[string]string, err error)
	// Get returns the value for a combined key. The boolean return value indicates whether a value was found.
	Get(key string) (value string, found bool, err error)
	// GetMultiple returns an entry for every requested key. Absent keys map to nil.
	GetMultiple(keys []string) (values map[string]*string, err error)
	// Save inserts or updates a key–value pair.
	Save(key, value string) (err error)
	// Remove deletes a key–value pair. Removing an absent key is not an error.
	Remove(key string) (err error)
}
