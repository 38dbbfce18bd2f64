package provider

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/randalmurphal/layercfg/pkg/layercfg/value"
)

// Provider produces one configuration fragment from a single source.
//
// Implementations hold no mutable state after construction, so a Provider
// may be fetched from any number of resolutions. Fetch returns a mapping
// (an empty mapping contributes nothing) or an error, typically a
// *SourceError.
type Provider interface {
	// Name identifies the provider in errors and provenance,
	// e.g. "defaults", "file:/etc/app.yaml", "environment".
	Name() string

	// Fetch reads the source and returns its fragment.
	Fetch(ctx context.Context) (value.Value, error)
}

// ErrorKind classifies a SourceError.
type ErrorKind int

const (
	// KindNotFound means a mandatory source does not exist.
	KindNotFound ErrorKind = iota + 1

	// KindParseFailure means the source exists but could not be read as
	// a configuration tree.
	KindParseFailure

	// KindPermissionDenied means the source exists but cannot be read.
	KindPermissionDenied
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindParseFailure:
		return "parse_failure"
	case KindPermissionDenied:
		return "permission_denied"
	default:
		return "unknown"
	}
}

// Sentinel errors matched by SourceError.Is.
var (
	ErrNotFound         = errors.New("source not found")
	ErrParseFailure     = errors.New("source parse failure")
	ErrPermissionDenied = errors.New("source permission denied")
)

// SourceError is returned by a provider whose source cannot be turned into
// a tree.
type SourceError struct {
	Kind    ErrorKind
	Source  string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *SourceError) Error() string {
	switch e.Kind {
	case KindNotFound:
		return fmt.Sprintf("%s: not found", e.Source)
	case KindPermissionDenied:
		return fmt.Sprintf("%s: permission denied", e.Source)
	default:
		return fmt.Sprintf("%s: parse failure: %s", e.Source, e.Message)
	}
}

// Unwrap returns the underlying cause.
func (e *SourceError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's kind.
func (e *SourceError) Is(target error) bool {
	switch e.Kind {
	case KindNotFound:
		return target == ErrNotFound
	case KindParseFailure:
		return target == ErrParseFailure
	case KindPermissionDenied:
		return target == ErrPermissionDenied
	}
	return false
}

// ParseFailure returns a KindParseFailure error for source carrying
// err's message. Custom providers use it to report malformed input.
func ParseFailure(source string, err error) *SourceError {
	return &SourceError{Kind: KindParseFailure, Source: source, Message: err.Error(), Err: err}
}

// NotFound returns a KindNotFound error for source.
func NotFound(source string, err error) *SourceError {
	return &SourceError{Kind: KindNotFound, Source: source, Message: "not found", Err: err}
}

// PermissionDenied returns a KindPermissionDenied error for source.
func PermissionDenied(source string, err error) *SourceError {
	return &SourceError{Kind: KindPermissionDenied, Source: source, Message: "permission denied", Err: err}
}

// ioError maps a filesystem error onto the source error taxonomy.
func ioError(source string, err error) *SourceError {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return NotFound(source, err)
	case errors.Is(err, fs.ErrPermission):
		return PermissionDenied(source, err)
	default:
		return ParseFailure(source, err)
	}
}

// FetchFunc fetches a fragment.
type FetchFunc func(ctx context.Context) (value.Value, error)

type funcProvider struct {
	name string
	fn   FetchFunc
}

// Func adapts fn into a Provider called name.
func Func(name string, fn FetchFunc) Provider {
	return &funcProvider{name: name, fn: fn}
}

func (p *funcProvider) Name() string { return p.name }

func (p *funcProvider) Fetch(ctx context.Context) (value.Value, error) {
	return p.fn(ctx)
}

type namedProvider struct {
	Provider
	name string
}

// Named returns p reporting name instead of its own.
func Named(p Provider, name string) Provider {
	return &namedProvider{Provider: p, name: name}
}

func (p *namedProvider) Name() string { return p.name }
