package provider

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/randalmurphal/layercfg/pkg/layercfg/value"
)

// Parser turns document bytes into a tree.
type Parser func(data []byte) (value.Value, error)

// Built-in format names.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// formatRegistry is a thread-safe registry of parsers indexed by format
// name, plus a file extension index.
type formatRegistry struct {
	mu      sync.RWMutex
	parsers map[string]Parser
	exts    map[string]string
}

var formats = func() *formatRegistry {
	r := &formatRegistry{
		parsers: make(map[string]Parser),
		exts:    make(map[string]string),
	}
	r.register(FormatYAML, value.FromYAML, ".yaml", ".yml")
	r.register(FormatJSON, value.FromJSON, ".json")
	return r
}()

func (r *formatRegistry) register(name string, p Parser, exts ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parsers[name] = p
	for _, ext := range exts {
		r.exts[strings.ToLower(ext)] = name
	}
}

func (r *formatRegistry) get(name string) (Parser, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.parsers[name]
	return p, ok
}

// forPath returns the format registered for path's extension, or YAML.
func (r *formatRegistry) forPath(path string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if name, ok := r.exts[strings.ToLower(filepath.Ext(path))]; ok {
		return name
	}
	return FormatYAML
}

func (r *formatRegistry) names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.parsers))
	for name := range r.parsers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RegisterFormat adds or replaces the parser for format name and maps the
// given file extensions (with leading dot) to it. Call it during init.
func RegisterFormat(name string, parser Parser, extensions ...string) {
	formats.register(name, parser, extensions...)
}

// Formats returns the registered format names in sorted order.
func Formats() []string {
	return formats.names()
}
