package keys

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ValentinKolb/dConf/lib/storage"
)

const (
	// Separator joins namespace and local key into a combined key.
	Separator = "__"
	// GlobalNamespace is the namespace of every key without an explicit namespace.
	GlobalNamespace = "global"
	// MaxKeyLength is the maximal length of a combined key in characters.
	MaxKeyLength = 128
)

var numericPattern = regexp.MustCompile(`^[+-]?\d*\.?\d+$`)

// Format combines a local key and a namespace into a single storage key.
//
//	| Key      | Namespace | Result        |
//	|----------|-----------|---------------|
//	| name     | e-shop    | e-shop__name  |
//	| token-cs | gtm       | gtm__token-cs |
//	| a__key   | a         | a__key        |
//	| b__key   | a         | b__key        |
//	| c__key   | ""        | c__key        |
//	| name     | ""        | name          |
//	| name     | "null"    | name          |
//	| name     | "false"   | name          |
//
// A key that already contains the separator is treated as combined and the namespace is ignored.
// The result must not be longer than MaxKeyLength characters.
func Format(key, namespace string) (string, error) {
	if strings.Contains(key, Separator) {
		return validateLength(key)
	}
	if !hasNamespace(namespace) {
		return validateLength(key)
	}
	return validateLength(namespace + Separator + key)
}

// Parse splits a combined key into namespace and local key.
// The namespace is the leading run of non-underscore characters followed by the separator.
// Keys without such a prefix belong to the GlobalNamespace.
func Parse(combined string) (namespace, key string) {
	i := strings.IndexByte(combined, '_')
	if i > 0 && strings.HasPrefix(combined[i:], Separator) && len(combined) > i+len(Separator) {
		return combined[:i], combined[i+len(Separator):]
	}
	return GlobalNamespace, combined
}

// Join combines namespace and local key without any validation.
// Backends use it to re-prefix keys read from a namespace bucket.
func Join(namespace, key string) string {
	return namespace + Separator + key
}

// IsNumeric reports whether value is a decimal number (optionally signed, optionally with a fraction).
func IsNumeric(value string) bool {
	return numericPattern.MatchString(value)
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// hasNamespace reports whether namespace denotes an actual namespace.
// Empty strings and the literals "null" and "false" (any case) mean "no namespace".
func hasNamespace(namespace string) bool {
	return namespace != "" && !strings.EqualFold(namespace, "null") && !strings.EqualFold(namespace, "false")
}

func validateLength(key string) (string, error) {
	if length := utf8.RuneCountInString(key); length > MaxKeyLength {
		return "", storage.NewErrorf(storage.RetCKeyTooLong,
			"maximal key length with namespace is %d characters, but %d given", MaxKeyLength, length)
	}
	return key, nil
}
