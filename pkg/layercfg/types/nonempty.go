package types

import (
	"errors"
	"strings"
)

var (
	// ErrEmptyString is returned by NonEmptyString for "".
	ErrEmptyString = errors.New("string must be non-empty")

	// ErrBlankString is returned by TrimmedNonEmptyString for strings of
	// only whitespace.
	ErrBlankString = errors.New("string must contain non-whitespace characters")
)

// NonEmptyString is a string that is never "".
type NonEmptyString string

// NewNonEmptyString validates s.
func NewNonEmptyString(s string) (NonEmptyString, error) {
	if s == "" {
		return "", ErrEmptyString
	}
	return NonEmptyString(s), nil
}

func (s NonEmptyString) String() string { return string(s) }

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *NonEmptyString) UnmarshalText(text []byte) error {
	v, err := NewNonEmptyString(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// TrimmedNonEmptyString is a string with surrounding whitespace removed
// that still has at least one character.
type TrimmedNonEmptyString string

// NewTrimmedNonEmptyString trims and validates s.
func NewTrimmedNonEmptyString(s string) (TrimmedNonEmptyString, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "", ErrBlankString
	}
	return TrimmedNonEmptyString(trimmed), nil
}

func (s TrimmedNonEmptyString) String() string { return string(s) }

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *TrimmedNonEmptyString) UnmarshalText(text []byte) error {
	v, err := NewTrimmedNonEmptyString(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
