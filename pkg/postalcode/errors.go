package postalcode

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPostalCode indicates the input does not normalize to 8 digits.
	// It is raised before any network call.
	ErrInvalidPostalCode = errors.New("invalid postal code")

	// ErrPostalCodeNotFound indicates the directory has no match for a
	// well-formed code.
	ErrPostalCodeNotFound = errors.New("postal code not found")

	// ErrPostalCodeLookup indicates the directory could not be reached or
	// answered with something unusable.
	ErrPostalCodeLookup = errors.New("postal code lookup failed")
)

// Error is a postal code resolution failure. Kind is one of the sentinel
// errors above.
type Error struct {
	Kind  error
	Code  string
	Cause error
}

func newError(kind error, code string, cause error) *Error {
	return &Error{Kind: kind, Code: code, Cause: cause}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%v %q: %v", e.Kind, e.Code, e.Cause)
	}
	return fmt.Sprintf("%v %q", e.Kind, e.Code)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is the error's kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}
