package provider

import (
	"context"

	"github.com/randalmurphal/layercfg/pkg/layercfg/value"
)

// DefaultsName is the name reported by the Defaults provider.
const DefaultsName = "defaults"

// OverrideName is the name reported by the Override provider.
const OverrideName = "test-override"

// literal serves a tree fixed at construction.
type literal struct {
	name string
	tree value.Value
}

func (p *literal) Name() string { return p.name }

func (p *literal) Fetch(context.Context) (value.Value, error) {
	return p.tree, nil
}

// Defaults serves tree as the lowest layer of a resolution. It never fails.
func Defaults(tree value.Value) Provider {
	return &literal{name: DefaultsName, tree: tree}
}

// DefaultsMap is Defaults over plain Go data.
// It panics if m holds a type value.FromAny cannot convert.
func DefaultsMap(m map[string]any) Provider {
	return Defaults(value.MustFromAny(m))
}

// Override serves tree as-is, bypassing any parsing. Placed last in a
// provider list it pins values for tests without touching the
// environment or the filesystem.
func Override(tree value.Value) Provider {
	return &literal{name: OverrideName, tree: tree}
}

// OverrideNamed is Override with a caller-chosen name.
func OverrideNamed(name string, tree value.Value) Provider {
	return &literal{name: name, tree: tree}
}

// OverrideMap is Override over plain Go data.
// It panics if m holds a type value.FromAny cannot convert.
func OverrideMap(m map[string]any) Provider {
	return Override(value.MustFromAny(m))
}
