// Package errors defines the failures a configuration resolution can report.
//
// Every resolution failure carries enough context to act on it without
// re-running: the provider name for source failures, the dotted key path
// for decoding failures, and both when the offending value's provider is
// known. Use errors.Is with the sentinels, errors.As with the typed errors,
// or ReasonOf to classify.
package errors

import (
	"errors"
)

// Sentinel errors matched by the typed errors' Is methods.
var (
	// ErrProviderFailed matches *ProviderError.
	ErrProviderFailed = errors.New("provider failed")

	// ErrMissingField matches *MissingFieldError.
	ErrMissingField = errors.New("missing field")

	// ErrTypeMismatch matches *TypeMismatchError.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrUnknownField matches *UnknownFieldError.
	ErrUnknownField = errors.New("unknown field")

	// ErrCancelled matches *CancelledError.
	ErrCancelled = errors.New("resolution cancelled")
)

// Reason classifies a resolution failure.
type Reason int

const (
	// ReasonUnknown is returned for errors not produced by a resolution.
	ReasonUnknown Reason = iota

	// ReasonProviderFailed indicates a provider could not produce its fragment.
	ReasonProviderFailed

	// ReasonMissingField indicates a required field had no value.
	ReasonMissingField

	// ReasonTypeMismatch indicates a value of the wrong type.
	ReasonTypeMismatch

	// ReasonUnknownField indicates an undeclared key in strict mode.
	ReasonUnknownField

	// ReasonCancelled indicates the context was done.
	ReasonCancelled
)

// String returns the reason name.
func (r Reason) String() string {
	switch r {
	case ReasonProviderFailed:
		return "provider_failed"
	case ReasonMissingField:
		return "missing_field"
	case ReasonTypeMismatch:
		return "type_mismatch"
	case ReasonUnknownField:
		return "unknown_field"
	case ReasonCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// ReasonOf classifies err. Cancellation takes priority so that a provider
// failing because its context was cancelled reports ReasonCancelled.
func ReasonOf(err error) Reason {
	if err == nil {
		return ReasonUnknown
	}

	var cancelled *CancelledError
	if errors.As(err, &cancelled) {
		return ReasonCancelled
	}

	var provider *ProviderError
	if errors.As(err, &provider) {
		return ReasonProviderFailed
	}

	var missing *MissingFieldError
	if errors.As(err, &missing) {
		return ReasonMissingField
	}

	var mismatch *TypeMismatchError
	if errors.As(err, &mismatch) {
		return ReasonTypeMismatch
	}

	var unknown *UnknownFieldError
	if errors.As(err, &unknown) {
		return ReasonUnknownField
	}

	return ReasonUnknown
}

// Path returns the dotted key path carried by err, if any.
func Path(err error) string {
	var missing *MissingFieldError
	if errors.As(err, &missing) {
		return missing.Path
	}
	var mismatch *TypeMismatchError
	if errors.As(err, &mismatch) {
		return mismatch.Path
	}
	var unknown *UnknownFieldError
	if errors.As(err, &unknown) {
		return unknown.Path
	}
	return ""
}

// Provider returns the provider name carried by err, if any.
func Provider(err error) string {
	var cancelled *CancelledError
	if errors.As(err, &cancelled) {
		return cancelled.Provider
	}
	var provider *ProviderError
	if errors.As(err, &provider) {
		return provider.Provider
	}
	var mismatch *TypeMismatchError
	if errors.As(err, &mismatch) {
		return mismatch.Provider
	}
	var unknown *UnknownFieldError
	if errors.As(err, &unknown) {
		return unknown.Provider
	}
	return ""
}
