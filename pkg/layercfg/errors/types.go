package errors

import (
	"fmt"
	"strings"
)

// ProviderError reports that a provider failed to produce its fragment.
// Later providers were not consulted.
type ProviderError struct {
	// Provider is the name of the failing provider.
	Provider string
	// Err is the source error returned by the provider.
	Err error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

// Unwrap returns the underlying source error.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrProviderFailed.
func (e *ProviderError) Is(target error) bool {
	return target == ErrProviderFailed
}

// MissingFieldError reports a required field that no provider set.
type MissingFieldError struct {
	// Path is the dotted key path of the field.
	Path string
}

// Error implements the error interface.
func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: missing field", e.Path)
}

// Is reports whether target is ErrMissingField.
func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}

// TypeMismatchError reports a value that cannot be converted to the
// declared type of its field.
type TypeMismatchError struct {
	// Path is the dotted key path of the field.
	Path string
	// Expected names the declared type ("integer", "duration", ...).
	Expected string
	// Found names the kind of value supplied ("string", "mapping", ...).
	Found string
	// Provider is the provider that supplied the value, when known.
	Provider string
	// Err carries extra detail from a custom unmarshaler, if any.
	Err error
}

// Error implements the error interface.
func (e *TypeMismatchError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: invalid type: found %s, expected %s", e.Path, e.Found, e.Expected)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if e.Provider != "" {
		fmt.Fprintf(&b, " (from %s)", e.Provider)
	}
	return b.String()
}

// Unwrap returns the detail error, if any.
func (e *TypeMismatchError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrTypeMismatch.
func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}

// UnknownFieldError reports a key that the schema does not declare.
// Only raised in strict mode.
type UnknownFieldError struct {
	// Path is the dotted key path of the unexpected key.
	Path string
	// Provider is the provider that supplied the key, when known.
	Provider string
}

// Error implements the error interface.
func (e *UnknownFieldError) Error() string {
	if e.Provider != "" {
		return fmt.Sprintf("%s: unknown field (from %s)", e.Path, e.Provider)
	}
	return fmt.Sprintf("%s: unknown field", e.Path)
}

// Is reports whether target is ErrUnknownField.
func (e *UnknownFieldError) Is(target error) bool {
	return target == ErrUnknownField
}

// CancelledError reports that the context was done before resolution
// finished. Any partially merged tree was discarded.
type CancelledError struct {
	// Provider is the provider being fetched, or about to be fetched.
	Provider string
	// Cause is context.Canceled or context.DeadlineExceeded.
	Cause error
}

// Error implements the error interface.
func (e *CancelledError) Error() string {
	if e.Provider == "" {
		return fmt.Sprintf("resolution cancelled: %v", e.Cause)
	}
	return fmt.Sprintf("resolution cancelled at provider %s: %v", e.Provider, e.Cause)
}

// Unwrap returns the cancellation cause for errors.Is support.
func (e *CancelledError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is ErrCancelled.
func (e *CancelledError) Is(target error) bool {
	return target == ErrCancelled
}
