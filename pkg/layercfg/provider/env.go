package provider

import (
	"context"
	"os"
	"sort"
	"strings"

	"github.com/randalmurphal/layercfg/pkg/layercfg/value"
)

// EnvName is the name reported by the Environment provider.
const EnvName = "environment"

// DefaultSeparator splits an environment key into nested segments.
const DefaultSeparator = "__"

// Environment builds a fragment from prefixed environment variables.
//
// With prefix "APP_" and the default separator, APP_DATABASE__HOST=db
// becomes database.host = "db". Values are always strings; turning them
// into numbers or booleans is left to the decoder.
type Environment struct {
	prefix  string
	sep     string
	environ func() []string
}

// EnvOption configures an Environment.
type EnvOption func(*Environment)

// WithSeparator sets the nested key separator. Default: "__".
func WithSeparator(sep string) EnvOption {
	return func(e *Environment) {
		e.sep = sep
	}
}

// WithEnviron replaces os.Environ as the source of KEY=value entries.
func WithEnviron(fn func() []string) EnvOption {
	return func(e *Environment) {
		e.environ = fn
	}
}

// Env returns an Environment provider for variables starting with prefix.
// Prefix matching is case-insensitive.
func Env(prefix string, opts ...EnvOption) *Environment {
	e := &Environment{
		prefix:  prefix,
		sep:     DefaultSeparator,
		environ: os.Environ,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements Provider.
func (e *Environment) Name() string {
	return EnvName
}

// Prefix returns the configured key prefix.
func (e *Environment) Prefix() string {
	return e.prefix
}

type envEntry struct {
	key  string
	path []string
	val  string
}

// Fetch implements Provider.
// Entries are applied in sorted key order, so when APP_A and APP_A__B
// both exist the nested one wins.
func (e *Environment) Fetch(ctx context.Context) (value.Value, error) {
	if err := ctx.Err(); err != nil {
		return value.Value{}, err
	}

	var entries []envEntry
	for _, kv := range e.environ() {
		key, val, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			continue
		}
		path, ok := e.path(key)
		if !ok {
			continue
		}
		entries = append(entries, envEntry{key: key, path: path, val: val})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].key < entries[j].key
	})

	tree := value.EmptyMapping()
	for _, ent := range entries {
		tree = tree.Set(ent.path, value.String(ent.val))
	}
	return tree, nil
}

// path strips the prefix from key and splits the rest into lowercased
// segments. Keys with an empty segment are rejected.
func (e *Environment) path(key string) ([]string, bool) {
	if len(key) < len(e.prefix) || !strings.EqualFold(key[:len(e.prefix)], e.prefix) {
		return nil, false
	}
	rest := key[len(e.prefix):]
	if rest == "" {
		return nil, false
	}

	var segs []string
	if e.sep == "" {
		segs = []string{rest}
	} else {
		segs = strings.Split(rest, e.sep)
	}
	for i, s := range segs {
		if s == "" {
			return nil, false
		}
		segs[i] = strings.ToLower(s)
	}
	return segs, true
}
