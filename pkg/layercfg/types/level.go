package types

import (
	"fmt"
	"log/slog"
	"strings"
)

// LevelFilter is the most verbose log level to emit, or LevelOff.
//
// It parses "off", "error", "warn", "info", "debug" and "trace" in any
// case, and the numbers 0 (off) to 5 (trace).
type LevelFilter int

// Filters ordered from least to most verbose.
const (
	LevelOff LevelFilter = iota
	LevelError
	LevelWarn
	LevelInfo
	LevelDebug
	LevelTrace
)

// SlogLevelTrace is the slog level used for trace output.
const SlogLevelTrace = slog.LevelDebug - 4

var levelNames = [...]string{"off", "error", "warn", "info", "debug", "trace"}

// ParseLevelFilter parses a filter name or number.
func ParseLevelFilter(s string) (LevelFilter, error) {
	s = strings.TrimSpace(s)
	for i, name := range levelNames {
		if strings.EqualFold(s, name) || s == fmt.Sprint(i) {
			return LevelFilter(i), nil
		}
	}
	return 0, fmt.Errorf("invalid level filter %q, expected one of %s", s, strings.Join(levelNames[:], ", "))
}

// String returns the filter name.
func (l LevelFilter) String() string {
	if l < LevelOff || l > LevelTrace {
		return fmt.Sprintf("LevelFilter(%d)", int(l))
	}
	return levelNames[l]
}

// Level returns the minimum slog level passed by l. For LevelOff it is
// above slog.LevelError, so nothing passes.
func (l LevelFilter) Level() slog.Level {
	switch l {
	case LevelOff:
		return slog.LevelError + 4
	case LevelError:
		return slog.LevelError
	case LevelWarn:
		return slog.LevelWarn
	case LevelInfo:
		return slog.LevelInfo
	case LevelDebug:
		return slog.LevelDebug
	default:
		return SlogLevelTrace
	}
}

// Enabled reports whether records at level pass l.
func (l LevelFilter) Enabled(level slog.Level) bool {
	return l != LevelOff && level >= l.Level()
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *LevelFilter) UnmarshalText(text []byte) error {
	parsed, err := ParseLevelFilter(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (l LevelFilter) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}
