package dynconf

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ValentinKolb/dConf/lib/storage"
	"github.com/ValentinKolb/dConf/lib/storage/keys"
	"github.com/lni/dragonboat/v4/logger"
)

// MaxValueLength is the maximal length of a stored value in characters.
const MaxValueLength = 512

var log = logger.GetLogger("dynconf")

// Configuration reads and writes namespaced values through a storage.Storage.
// The zero value has no storage and fails every operation with storage.RetCStorageUnavailable.
type Configuration struct {
	storage storage.Storage
}

// New creates a Configuration that exclusively owns s.
func New(s storage.Storage) *Configuration {
	return &Configuration{storage: s}
}

// Storage returns the attached storage or a RetCStorageUnavailable error.
func (c *Configuration) Storage() (storage.Storage, error) {
	if c == nil || c.storage == nil {
		return nil, storage.NewError(storage.RetCStorageUnavailable,
			"configuration storage does not exist, did you configure a storage backend?")
	}
	return c.storage, nil
}

// Section returns a view of the configuration bound to namespace.
func (c *Configuration) Section(namespace string) *Section {
	return &Section{conf: c, namespace: namespace}
}

// LoadAll returns every stored value keyed by its combined key.
func (c *Configuration) LoadAll() (map[string]string, error) {
	s, err := c.Storage()
	if err != nil {
		return nil, err
	}
	return s.LoadAll()
}

// Get returns the value of key in namespace. The boolean is false if the key does not exist.
func (c *Configuration) Get(key, namespace string) (string, bool, error) {
	s, err := c.Storage()
	if err != nil {
		return "", false, err
	}
	combined, err := keys.Format(key, namespace)
	if err != nil {
		return "", false, err
	}
	return s.Get(combined)
}

// GetMultiple looks up all refs in namespace with a single storage call.
// The result holds one entry per ref, keyed by its alias; absent values are nil.
// Two refs that resolve to the same combined key, or share one alias, fail with storage.RetCDuplicateKey.
func (c *Configuration) GetMultiple(refs []KeyRef, namespace string) (map[string]*string, error) {
	s, err := c.Storage()
	if err != nil {
		return nil, err
	}

	combined, err := resolve(refs, namespace)
	if err != nil {
		return nil, err
	}

	found, err := s.GetMultiple(combined)
	if err != nil {
		return nil, err
	}

	result := make(map[string]*string, len(refs))
	for i, ref := range refs {
		result[ref.Name()] = found[combined[i]]
	}
	return result, nil
}

// GetMultipleMandatory works like GetMultiple but requires every value to exist.
// If any are absent, the returned error (storage.RetCMissingKeys) lists all missing aliases in request order.
func (c *Configuration) GetMultipleMandatory(refs []KeyRef, namespace string) (map[string]string, error) {
	found, err := c.GetMultiple(refs, namespace)
	if err != nil {
		return nil, err
	}

	result := make(map[string]string, len(found))
	var missing []string
	for _, ref := range refs {
		name := ref.Name()
		if v := found[name]; v != nil {
			result[name] = *v
		} else {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		return nil, missingKeysError(missing, namespace)
	}
	return result, nil
}

// Set stores value under key in namespace. Nothing is written if the stored value is already equal.
func (c *Configuration) Set(key, value, namespace string) error {
	s, err := c.Storage()
	if err != nil {
		return err
	}
	if length := utf8.RuneCountInString(value); length > MaxValueLength {
		return storage.NewErrorf(storage.RetCValueTooLong,
			"maximal value length is %d characters, but %d given", MaxValueLength, length)
	}
	combined, err := keys.Format(key, namespace)
	if err != nil {
		return err
	}

	current, found, err := s.Get(combined)
	if err != nil {
		return err
	}
	if found && current == value {
		log.Debugf("value of %s unchanged, skipping write", combined)
		return nil
	}
	return s.Save(combined, value)
}

// Save stores value under key in namespace, a nil value removes the key.
func (c *Configuration) Save(key string, value *string, namespace string) error {
	if value == nil {
		return c.Remove(key, namespace)
	}
	return c.Set(key, *value, namespace)
}

// Remove deletes key from namespace. Removing an absent key is not an error.
func (c *Configuration) Remove(key, namespace string) error {
	s, err := c.Storage()
	if err != nil {
		return err
	}
	combined, err := keys.Format(key, namespace)
	if err != nil {
		return err
	}
	return s.Remove(combined)
}

// Increment adds count to the numeric value of key and returns the new value.
// An absent key counts as "0". Fractions are truncated before adding.
// A result outside the int64 range fails with storage.RetCNonNumeric and nothing is written.
func (c *Configuration) Increment(key string, count int64, namespace string) (int64, error) {
	current, found, err := c.Get(key, namespace)
	if err != nil {
		return 0, err
	}
	if !found {
		current = "0"
	}

	n, err := integerPart(current)
	if err != nil {
		combined, _ := keys.Format(key, namespace)
		return 0, storage.WrapError(storage.RetCNonNumeric,
			"constant \""+combined+"\" should be numeric, but value \""+current+"\" given", err)
	}

	if (count > 0 && n > math.MaxInt64-count) || (count < 0 && n < math.MinInt64-count) {
		combined, _ := keys.Format(key, namespace)
		return 0, storage.NewErrorf(storage.RetCNonNumeric,
			"incrementing constant %q (value %d) by %d overflows a 64 bit integer", combined, n, count)
	}

	n += count
	if err := c.Set(key, strconv.FormatInt(n, 10), namespace); err != nil {
		return 0, err
	}
	return n, nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// resolve formats every ref and returns the combined keys in request order.
func resolve(refs []KeyRef, namespace string) ([]string, error) {
	combined := make([]string, len(refs))
	byKey := make(map[string]struct{}, len(refs))
	byName := make(map[string]struct{}, len(refs))

	for i, ref := range refs {
		realKey, err := keys.Format(ref.Key, namespace)
		if err != nil {
			return nil, err
		}
		if _, ok := byKey[realKey]; ok {
			return nil, &storage.Error{
				Code: storage.RetCDuplicateKey,
				Msg:  "key \"" + realKey + "\" already exist in key map, because \"" + ref.Key + "\" (or alias \"" + ref.Name() + "\") is duplicated",
				Keys: []string{realKey},
			}
		}
		if _, ok := byName[ref.Name()]; ok {
			return nil, &storage.Error{
				Code: storage.RetCDuplicateKey,
				Msg:  "alias \"" + ref.Name() + "\" already exist in result map, because it is used for \"" + ref.Key + "\" again",
				Keys: []string{ref.Name()},
			}
		}
		byKey[realKey] = struct{}{}
		byName[ref.Name()] = struct{}{}
		combined[i] = realKey
	}
	return combined, nil
}

func missingKeysError(missing []string, namespace string) *storage.Error {
	var sb strings.Builder
	sb.WriteString("all mandatory keys must exist, but key")
	if len(missing) > 1 {
		sb.WriteString("s")
	}
	sb.WriteString(" ")
	sb.WriteString(storage.QuoteKeys(missing))
	if namespace != "" {
		sb.WriteString(" (in namespace \"" + namespace + "\")")
	}
	sb.WriteString(" missing, did you check your configuration?")

	return &storage.Error{
		Code: storage.RetCMissingKeys,
		Msg:  sb.String(),
		Keys: missing,
	}
}

// integerPart parses the integer part of a numeric value ("3.9" -> 3, "-.5" -> 0).
func integerPart(value string) (int64, error) {
	if !keys.IsNumeric(value) {
		return 0, strconv.ErrSyntax
	}
	if i := strings.IndexByte(value, '.'); i >= 0 {
		value = value[:i]
	}
	switch value {
	case "", "+", "-":
		return 0, nil
	}
	return strconv.ParseInt(value, 10, 64)
}
