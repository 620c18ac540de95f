package storage

import (
	"fmt"
	"strings"
)

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a custom error type that wraps a return code (of type RetCode),
// an error message and optionally the underlying cause.
type Error struct {
	Code RetCode  // The return code
	Msg  string   // The error message
	Keys []string // Keys the error refers to (e.g. every missing key of a mandatory lookup)
	Err  error    // The underlying error, if any
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("ConfigError (code %s): %s", e.Code, e.Msg)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error so errors.Is and errors.As can reach it.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error with the same return code.
// This allows checks like errors.Is(err, storage.ErrKeyTooLong).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NewError creates a new Error with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// NewErrorf creates a new Error with the given code and a formatted message.
func NewErrorf(code RetCode, format string, args ...interface{}) *Error {
	return NewError(code, fmt.Sprintf(format, args...))
}

// WrapError creates a new Error with the given code and message that chains err.
func WrapError(code RetCode, msg string, err error) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
		Err:  err,
	}
}

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess            RetCode = iota // 0: Operation executed successfully.
	RetCInternalError                     // 1: Operation failed due to an internal (I/O or backend) error.
	RetCKeyTooLong                        // 2: Combined key exceeds the maximal key length.
	RetCValueTooLong                      // 3: Value exceeds the maximal value length.
	RetCDuplicateKey                      // 4: Two requested keys of a batch resolve to the same key or alias.
	RetCMissingKeys                       // 5: One or more mandatory keys are missing.
	RetCNonNumeric                        // 6: Value is not numeric but a numeric operation was requested.
	RetCStorageUnavailable                // 7: No storage backend is configured.
	RetCMalformedData                     // 8: Persisted data can not be decoded or encoded.
)

func (c RetCode) String() string {
	switch c {
	case RetCSuccess:
		return "Success"
	case RetCInternalError:
		return "InternalError"
	case RetCKeyTooLong:
		return "KeyTooLong"
	case RetCValueTooLong:
		return "ValueTooLong"
	case RetCDuplicateKey:
		return "DuplicateKey"
	case RetCMissingKeys:
		return "MissingKeys"
	case RetCNonNumeric:
		return "NonNumeric"
	case RetCStorageUnavailable:
		return "StorageUnavailable"
	case RetCMalformedData:
		return "MalformedData"
	default:
		return "Unknown"
	}
}

// Sentinel values for errors.Is checks. They only carry a code.
var (
	ErrInternal           = &Error{Code: RetCInternalError}
	ErrKeyTooLong         = &Error{Code: RetCKeyTooLong}
	ErrValueTooLong       = &Error{Code: RetCValueTooLong}
	ErrDuplicateKey       = &Error{Code: RetCDuplicateKey}
	ErrMissingKeys        = &Error{Code: RetCMissingKeys}
	ErrNonNumeric         = &Error{Code: RetCNonNumeric}
	ErrStorageUnavailable = &Error{Code: RetCStorageUnavailable}
	ErrMalformedData      = &Error{Code: RetCMalformedData}
)

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// QuoteKeys renders keys as a comma-separated list of quoted strings ("a", "b").
func QuoteKeys(keys []string) string {
	quoted := make([]string, len(keys))
	for i, k := range keys {
		quoted[i] = fmt.Sprintf("%q", k)
	}
	return strings.Join(quoted, ", ")
}
