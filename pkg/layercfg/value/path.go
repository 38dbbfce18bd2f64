package value

import "strings"

// PathSeparator joins path segments in dotted key paths.
const PathSeparator = "."

// SplitPath splits a dotted key path into segments.
// The empty path has no segments.
func SplitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, PathSeparator)
}

// JoinPath joins segments into a dotted key path, skipping empty segments.
func JoinPath(segments ...string) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, PathSeparator)
}

// Lookup returns the value found by descending through mappings along path.
// An empty path returns v itself.
func (v Value) Lookup(path ...string) (Value, bool) {
	cur := v
	for _, seg := range path {
		next, ok := cur.Get(seg)
		if !ok {
			return Value{}, false
		}
		cur = next
	}
	return cur, true
}

// Set returns a copy of v with nv stored at path.
//
// Missing intermediate mappings are created; a non-mapping found on the
// way is replaced by a mapping. An empty path returns nv.
func (v Value) Set(path []string, nv Value) Value {
	if len(path) == 0 {
		return nv
	}
	base := v
	if base.kind != KindMapping {
		base = EmptyMapping()
	}
	child, _ := base.Get(path[0])
	return base.with(path[0], child.Set(path[1:], nv))
}

// Walk calls fn for every leaf of v in depth-first key order.
//
// Leaves are scalars, nulls, sequences (which are atomic) and empty
// mappings below the root. Walk stops early when fn returns false.
func (v Value) Walk(fn func(path []string, leaf Value) bool) {
	if v.kind == KindMapping && len(v.keys) == 0 {
		return
	}
	v.walk(nil, fn)
}

func (v Value) walk(prefix []string, fn func([]string, Value) bool) bool {
	if v.kind != KindMapping || len(v.keys) == 0 {
		return fn(prefix, v)
	}
	for _, k := range v.keys {
		path := append(append([]string(nil), prefix...), k)
		if !v.fields[k].walk(path, fn) {
			return false
		}
	}
	return true
}
