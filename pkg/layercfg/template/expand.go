package template

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/randalmurphal/layercfg/pkg/layercfg/value"
)

// Regular expressions for variable patterns.
var (
	// bracePattern matches ${NAME} and ${NAME:-fallback}.
	bracePattern = regexp.MustCompile(`\$\{([a-zA-Z_][a-zA-Z0-9_]*)(?::-([^}]*))?\}`)

	// dollarPattern matches $NAME where NAME is followed by a non-word character
	// or end of string. This prevents $PORT from matching inside $PORTS.
	dollarPattern = regexp.MustCompile(`\$([a-zA-Z_][a-zA-Z0-9_]*)(?:\b|$)`)
)

// LookupFunc resolves a variable name.
type LookupFunc func(name string) (string, bool)

// EnvLookup resolves variables from the process environment.
var EnvLookup LookupFunc = os.LookupEnv

// MapLookup resolves variables from a fixed map.
func MapLookup(vars map[string]string) LookupFunc {
	return func(name string) (string, bool) {
		v, ok := vars[name]
		return v, ok
	}
}

// Expander expands variable placeholders in configuration strings.
//
// Create with NewExpander() and configure with Option functions.
// Expander is safe for concurrent use after construction.
type Expander struct {
	missingAction MissingAction
	dollarStyle   bool
}

// NewExpander creates a new Expander with the given options.
//
// Default configuration:
//   - MissingAction: MissingKeep (keep placeholders as-is)
//   - DollarStyle: disabled (only ${VAR})
func NewExpander(opts ...Option) *Expander {
	e := &Expander{
		missingAction: MissingKeep,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Expand expands variable placeholders in s using lookup.
//
// Errors are only returned when MissingAction is MissingError and
// a variable is not found.
//
// Example:
//
//	exp := NewExpander()
//	result, err := exp.Expand("postgres://${DB_HOST:-localhost}/app", EnvLookup)
func (e *Expander) Expand(s string, lookup LookupFunc) (string, error) {
	if s == "" || !strings.Contains(s, "$") {
		return s, nil
	}
	if lookup == nil {
		lookup = MapLookup(nil)
	}

	var missingVars []string
	missing := func(name, match string) string {
		switch e.missingAction {
		case MissingEmpty:
			return ""
		case MissingError:
			missingVars = append(missingVars, name)
			return match
		default:
			return match
		}
	}

	result := bracePattern.ReplaceAllStringFunc(s, func(match string) string {
		groups := bracePattern.FindStringSubmatch(match)
		name := groups[1]
		if val, ok := lookup(name); ok {
			return val
		}
		if strings.Contains(match, ":-") {
			return groups[2]
		}
		return missing(name, match)
	})

	if e.dollarStyle {
		result = dollarPattern.ReplaceAllStringFunc(result, func(match string) string {
			name := match[1:]
			if val, ok := lookup(name); ok {
				return val
			}
			return missing(name, match)
		})
	}

	if len(missingVars) > 0 {
		return result, &UndefinedVariableError{Names: missingVars}
	}
	return result, nil
}

// ExpandValue expands placeholders in every string scalar of v.
//
// Mapping keys, numbers and booleans are left alone. Sources recorded on
// the expanded strings are kept. On error (with MissingError) the first
// error is returned, prefixed with the dotted path of the offending string.
func (e *Expander) ExpandValue(v value.Value, lookup LookupFunc) (value.Value, error) {
	return e.expandValue(v, nil, lookup)
}

func (e *Expander) expandValue(v value.Value, path []string, lookup LookupFunc) (value.Value, error) {
	switch v.Kind() {
	case value.KindString:
		s, _ := v.AsString()
		expanded, err := e.Expand(s, lookup)
		if err != nil {
			return value.Value{}, fmt.Errorf("%s: %w", value.JoinPath(path...), err)
		}
		if expanded == s {
			return v, nil
		}
		return value.String(expanded).WithSource(v.Source()), nil
	case value.KindSequence:
		items := v.Items()
		for i, item := range items {
			expanded, err := e.expandValue(item, append(path[:len(path):len(path)], strconv.Itoa(i)), lookup)
			if err != nil {
				return value.Value{}, err
			}
			items[i] = expanded
		}
		return value.Sequence(items...).WithSource(v.Source()), nil
	case value.KindMapping:
		out := v
		for _, k := range v.Keys() {
			child, _ := v.Get(k)
			expanded, err := e.expandValue(child, append(path[:len(path):len(path)], k), lookup)
			if err != nil {
				return value.Value{}, err
			}
			out = out.Set([]string{k}, expanded)
		}
		return out, nil
	default:
		return v, nil
	}
}

// UndefinedVariableError is returned when MissingError is set and
// one or more variables are not found.
type UndefinedVariableError struct {
	// Names is the list of undefined variable names.
	Names []string
}

// Error implements the error interface.
func (e *UndefinedVariableError) Error() string {
	if len(e.Names) == 1 {
		return fmt.Sprintf("undefined variable: %s", e.Names[0])
	}
	return fmt.Sprintf("undefined variables: %s", strings.Join(e.Names, ", "))
}

// defaultExpander is the package-level expander with default settings.
var defaultExpander = NewExpander()

// Expand expands ${VAR} placeholders in s with the default expander.
// Missing variables stay as-is.
func Expand(s string, lookup LookupFunc) string {
	// Default expander never returns errors (MissingKeep).
	result, _ := defaultExpander.Expand(s, lookup)
	return result
}
