package value

import (
	"math"
	"strconv"
	"strings"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	// KindNull is the zero Kind: an explicit null or an unset Value.
	KindNull Kind = iota

	// KindBool holds true or false.
	KindBool

	// KindNumber holds an integer or floating point number.
	KindNumber

	// KindString holds text.
	KindString

	// KindSequence holds an ordered list of Values.
	KindSequence

	// KindMapping holds string keys mapped to Values.
	KindMapping
)

// String returns the kind name used in error messages.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "unknown"
	}
}

// Value is an immutable node of the configuration tree.
//
// The zero Value is Null. Numbers keep their canonical decimal text so that
// 64-bit integers survive the trip through the tree without rounding.
type Value struct {
	kind   Kind
	b      bool
	text   string
	seq    []Value
	keys   []string
	fields map[string]Value
	source string
}

// Entry is a key/value pair used to build mappings in order.
type Entry struct {
	Key   string
	Value Value
}

// Null returns the null Value.
func Null() Value {
	return Value{}
}

// Bool returns a boolean Value.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Int returns a number Value holding i.
func Int(i int64) Value {
	return Value{kind: KindNumber, text: strconv.FormatInt(i, 10)}
}

// Uint returns a number Value holding u.
func Uint(u uint64) Value {
	return Value{kind: KindNumber, text: strconv.FormatUint(u, 10)}
}

// Float returns a number Value holding f.
// Integral floats are stored in integer form, so Float(3) equals Int(3).
func Float(f float64) Value {
	return Value{kind: KindNumber, text: strconv.FormatFloat(f, 'g', -1, 64)}
}

// String returns a string Value.
func String(s string) Value {
	return Value{kind: KindString, text: s}
}

// Number returns a number Value from decimal text.
// Reports false if text is not a valid finite number.
func Number(text string) (Value, bool) {
	text = strings.TrimSpace(text)
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		if _, err := strconv.ParseUint(text, 10, 64); err != nil {
			return Value{}, false
		}
	} else if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}, false
	}
	return Value{kind: KindNumber, text: text}, true
}

// Sequence returns a sequence Value holding a copy of items.
func Sequence(items ...Value) Value {
	seq := make([]Value, len(items))
	copy(seq, items)
	return Value{kind: KindSequence, seq: seq}
}

// Mapping returns a mapping Value with entries in the given order.
// A repeated key keeps its first position and its last value.
func Mapping(entries ...Entry) Value {
	v := Value{
		kind:   KindMapping,
		keys:   make([]string, 0, len(entries)),
		fields: make(map[string]Value, len(entries)),
	}
	for _, e := range entries {
		if _, ok := v.fields[e.Key]; !ok {
			v.keys = append(v.keys, e.Key)
		}
		v.fields[e.Key] = e.Value
	}
	return v
}

// EmptyMapping returns a mapping with no keys.
func EmptyMapping() Value {
	return Mapping()
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether v is null.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Source returns the name of the provider that supplied v, if known.
func (v Value) Source() string {
	return v.source
}

// WithSource returns a copy of v with src recorded on v and every descendant.
func (v Value) WithSource(src string) Value {
	out := v
	out.source = src
	switch v.kind {
	case KindSequence:
		out.seq = make([]Value, len(v.seq))
		for i, item := range v.seq {
			out.seq[i] = item.WithSource(src)
		}
	case KindMapping:
		out.keys = append([]string(nil), v.keys...)
		out.fields = make(map[string]Value, len(v.fields))
		for k, child := range v.fields {
			out.fields[k] = child.WithSource(src)
		}
	}
	return out
}

// AsBool returns the boolean held by v.
func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// AsString returns the string held by v.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.text, true
}

// AsInt returns v as an int64.
// Floats convert only when they have no fractional part and fit the range.
func (v Value) AsInt() (int64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	if i, err := strconv.ParseInt(v.text, 10, 64); err == nil {
		return i, true
	}
	f, err := strconv.ParseFloat(v.text, 64)
	if err != nil || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// AsUint returns v as a uint64. Negative numbers do not convert.
func (v Value) AsUint() (uint64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	if u, err := strconv.ParseUint(v.text, 10, 64); err == nil {
		return u, true
	}
	f, err := strconv.ParseFloat(v.text, 64)
	if err != nil || f != math.Trunc(f) || f < 0 || f >= math.MaxUint64 {
		return 0, false
	}
	return uint64(f), true
}

// AsFloat returns v as a float64.
func (v Value) AsFloat() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	f, err := strconv.ParseFloat(v.text, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ScalarText returns the textual form of a bool, number or string.
func (v Value) ScalarText() (string, bool) {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b), true
	case KindNumber, KindString:
		return v.text, true
	default:
		return "", false
	}
}

// Items returns a copy of the elements of a sequence.
func (v Value) Items() []Value {
	if v.kind != KindSequence {
		return nil
	}
	out := make([]Value, len(v.seq))
	copy(out, v.seq)
	return out
}

// Keys returns the keys of a mapping in insertion order.
func (v Value) Keys() []string {
	if v.kind != KindMapping {
		return nil
	}
	return append([]string(nil), v.keys...)
}

// Get returns the value stored under key in a mapping.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindMapping {
		return Value{}, false
	}
	child, ok := v.fields[key]
	return child, ok
}

// Len returns the number of elements of a sequence or keys of a mapping.
func (v Value) Len() int {
	switch v.kind {
	case KindSequence:
		return len(v.seq)
	case KindMapping:
		return len(v.keys)
	default:
		return 0
	}
}

// with returns a copy of mapping v with key set to child.
// An existing key keeps its position.
func (v Value) with(key string, child Value) Value {
	out := Value{
		kind:   KindMapping,
		keys:   make([]string, len(v.keys), len(v.keys)+1),
		fields: make(map[string]Value, len(v.fields)+1),
		source: v.source,
	}
	copy(out.keys, v.keys)
	for k, c := range v.fields {
		out.fields[k] = c
	}
	if _, ok := out.fields[key]; !ok {
		out.keys = append(out.keys, key)
	}
	out.fields[key] = child
	return out
}

// Equal reports whether a and b hold the same data.
// Sources and mapping key order are ignored; numbers compare by value.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindString:
		return a.text == b.text
	case KindNumber:
		if a.text == b.text {
			return true
		}
		if ai, ok := a.AsInt(); ok {
			bi, ok := b.AsInt()
			return ok && ai == bi
		}
		af, aok := a.AsFloat()
		bf, bok := b.AsFloat()
		return aok && bok && af == bf
	case KindSequence:
		if len(a.seq) != len(b.seq) {
			return false
		}
		for i := range a.seq {
			if !Equal(a.seq[i], b.seq[i]) {
				return false
			}
		}
		return true
	case KindMapping:
		if len(a.fields) != len(b.fields) {
			return false
		}
		for k, av := range a.fields {
			bv, ok := b.fields[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	}
	return false
}
