package value

// Merge overlays overlay on top of base and returns the result.
//
// Rules:
//   - a key absent from overlay keeps base's value;
//   - two mappings merge key by key, recursively;
//   - a sequence in overlay replaces base's sequence entirely;
//   - any other combination (scalars, differing kinds, null) takes overlay,
//     including an empty mapping over a scalar below the root.
//
// An empty mapping overlay at the root has no keys and therefore leaves
// base unchanged, whatever base holds. Neither input is modified.
func Merge(base, overlay Value) Value {
	if overlay.kind == KindMapping && len(overlay.keys) == 0 {
		return base
	}
	return merge(base, overlay)
}

func merge(base, overlay Value) Value {
	if overlay.kind != KindMapping || base.kind != KindMapping {
		return overlay
	}
	if len(overlay.keys) == 0 {
		return base
	}

	out := Value{
		kind:   KindMapping,
		keys:   make([]string, len(base.keys), len(base.keys)+len(overlay.keys)),
		fields: make(map[string]Value, len(base.fields)+len(overlay.fields)),
		source: overlay.source,
	}
	copy(out.keys, base.keys)
	for k, v := range base.fields {
		out.fields[k] = v
	}
	for _, k := range overlay.keys {
		ov := overlay.fields[k]
		if bv, ok := out.fields[k]; ok {
			out.fields[k] = merge(bv, ov)
			continue
		}
		out.keys = append(out.keys, k)
		out.fields[k] = ov
	}
	return out
}

// MergeAll folds values left to right, starting from an empty mapping.
// Later values take precedence over earlier ones.
func MergeAll(values ...Value) Value {
	acc := EmptyMapping()
	for _, v := range values {
		acc = Merge(acc, v)
	}
	return acc
}
