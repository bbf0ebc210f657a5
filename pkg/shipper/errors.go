package shipper

import (
	"errors"
	"fmt"
)

// ProviderError represents a failure of a rate-quoting provider.
type ProviderError struct {
	Provider   string
	Code       string
	Message    string
	StatusCode int
	Cause      error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s error (%s): %s: %v", e.Provider, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s error (%s): %s", e.Provider, e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is ErrProviderUnavailable or a ProviderError
// with the same code. Every ProviderError is a provider outage.
func (e *ProviderError) Is(target error) bool {
	if target == ErrProviderUnavailable {
		return true
	}
	t, ok := target.(*ProviderError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewProviderError creates a new ProviderError.
func NewProviderError(provider, code, message string) *ProviderError {
	return &ProviderError{
		Provider: provider,
		Code:     code,
		Message:  message,
	}
}

// WithCause adds a cause to the error.
func (e *ProviderError) WithCause(err error) *ProviderError {
	e.Cause = err
	return e
}

// WithStatusCode adds an HTTP status code to the error.
func (e *ProviderError) WithStatusCode(code int) *ProviderError {
	e.StatusCode = code
	return e
}

// Provider error codes.
const (
	CodeTransport       = "TRANSPORT"
	CodeTimeout         = "TIMEOUT"
	CodeBadStatus       = "BAD_STATUS"
	CodeInvalidResponse = "INVALID_RESPONSE"
	CodeEmptyResponse   = "EMPTY_RESPONSE"
)

var (
	// ErrProviderUnavailable indicates the rate provider failed, timed out or
	// returned unusable data. It is always absorbed by the fallback path.
	ErrProviderUnavailable = errors.New("rate provider unavailable")

	// ErrInternalComputation indicates the fallback model received values
	// outside its contract, such as a non-positive weight.
	ErrInternalComputation = errors.New("internal computation error")

	// ErrInvalidPackage indicates package dimensions or weight are invalid.
	ErrInvalidPackage = errors.New("invalid package")

	// ErrProviderNotFound indicates the requested provider is not registered.
	ErrProviderNotFound = errors.New("provider not found")
)

// ErrorCode returns the ProviderError code of err, or "UNKNOWN".
func ErrorCode(err error) string {
	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return providerErr.Code
	}
	return "UNKNOWN"
}
