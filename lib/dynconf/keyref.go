package dynconf

import "sort"

// KeyRef requests one local key in a batch lookup. The value is reported under Alias,
// or under Key itself when Alias is empty.
type KeyRef struct {
	Alias string
	Key   string
}

// Key creates a positional KeyRef, the result is reported under the key itself.
func Key(key string) KeyRef {
	return KeyRef{Key: key}
}

// Alias creates a KeyRef that reports the value of key under alias.
func Alias(alias, key string) KeyRef {
	return KeyRef{Alias: alias, Key: key}
}

// Keys creates one positional KeyRef per key.
func Keys(keys ...string) []KeyRef {
	refs := make([]KeyRef, len(keys))
	for i, k := range keys {
		refs[i] = Key(k)
	}
	return refs
}

// Aliases converts an alias -> key map into KeyRefs, sorted by alias.
func Aliases(m map[string]string) []KeyRef {
	refs := make([]KeyRef, 0, len(m))
	for alias, key := range m {
		refs = append(refs, Alias(alias, key))
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Alias < refs[j].Alias })
	return refs
}

// Name returns the name the value is reported under: the alias, or the key if there is none.
func (r KeyRef) Name() string {
	if r.Alias == "" {
		return r.Key
	}
	return r.Alias
}
