package decode

import (
	"encoding"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	cfgerr "github.com/randalmurphal/layercfg/pkg/layercfg/errors"
	"github.com/randalmurphal/layercfg/pkg/layercfg/schema"
	"github.com/randalmurphal/layercfg/pkg/layercfg/value"
)

// Unmarshaler is implemented by types that decode themselves from a node.
type Unmarshaler = schema.Unmarshaler

// RootPath names the root of the tree in errors.
const RootPath = "(root)"

// Usage errors, returned before any field is looked at.
var (
	ErrInvalidMode    = errors.New("decode: invalid mode")
	ErrInvalidTarget  = errors.New("decode: target must be a non-nil pointer to a struct")
	ErrSchemaMismatch = errors.New("decode: schema does not describe target type")
)

// Decode validates tree against sch and builds a T from it.
//
// Fields are visited depth-first in declaration order and the first
// failure is returned: a *errors.MissingFieldError, *errors.TypeMismatchError
// or, in Strict mode, *errors.UnknownFieldError. A nil sch is derived from T.
func Decode[T any](tree value.Value, sch *schema.Schema, mode Mode) (*T, error) {
	out := new(T)
	if err := Into(tree, sch, mode, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Into is Decode for a caller-allocated target. The target is only
// written when decoding succeeds.
func Into(tree value.Value, sch *schema.Schema, mode Mode, target any) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidMode, int(mode))
	}
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return ErrInvalidTarget
	}
	t := rv.Elem().Type()
	if sch == nil {
		var err error
		if sch, err = schema.ForType(t); err != nil {
			return err
		}
	}
	if sch.GoType != t {
		return fmt.Errorf("%w: schema for %s, target %s", ErrSchemaMismatch, sch.GoType, t)
	}

	switch tree.Kind() {
	case value.KindNull:
		tree = value.EmptyMapping()
	case value.KindMapping:
	default:
		return mismatch(nil, "mapping", tree, nil)
	}

	out := reflect.New(t).Elem()
	d := &decoder{mode: mode}
	if err := d.structInto(out, sch.Fields, tree, nil); err != nil {
		return err
	}
	rv.Elem().Set(out)
	return nil
}

type decoder struct {
	mode Mode
	// allowMissing skips required fields below an absent optional struct.
	allowMissing bool
}

func (d *decoder) structInto(rv reflect.Value, fields []*schema.Field, node value.Value, path []string) error {
	for _, f := range fields {
		child, present := node.Get(f.Name)
		fpath := appendPath(path, f.Name)
		if err := d.field(rv.FieldByIndex(f.Index), f, child, present, fpath); err != nil {
			return err
		}
	}

	if d.mode != Strict {
		return nil
	}
	declared := make(map[string]bool, len(fields))
	for _, f := range fields {
		declared[f.Name] = true
	}
	for _, k := range node.Keys() {
		if declared[k] {
			continue
		}
		child, _ := node.Get(k)
		return &cfgerr.UnknownFieldError{
			Path:     joinPath(appendPath(path, k)),
			Provider: child.Source(),
		}
	}
	return nil
}

// field decodes a struct field, applying defaults and presence rules.
func (d *decoder) field(target reflect.Value, f *schema.Field, v value.Value, present bool, path []string) error {
	if present && v.IsNull() && (f.Type == schema.TypeRaw || f.Type == schema.TypeAny) {
		return d.element(target, f, v, path)
	}

	if !present || v.IsNull() {
		switch {
		case f.HasDefault:
			v = f.Default
		case f.Pointer:
			return nil
		case f.Type == schema.TypeStruct:
			sub := d
			if f.Optional {
				sub = &decoder{mode: d.mode, allowMissing: true}
			}
			return sub.structInto(target, f.Fields, value.EmptyMapping(), path)
		case f.Optional || d.allowMissing:
			return nil
		default:
			return &cfgerr.MissingFieldError{Path: joinPath(path)}
		}
	}
	return d.element(target, f, v, path)
}

// element decodes a non-absent node, allocating pointers.
func (d *decoder) element(target reflect.Value, f *schema.Field, v value.Value, path []string) error {
	if v.IsNull() {
		switch {
		case f.Type == schema.TypeRaw:
			target.Set(reflect.ValueOf(v))
			return nil
		case f.Pointer || f.Type == schema.TypeAny:
			return nil
		default:
			return mismatch(path, f.Expected(), v, nil)
		}
	}
	if f.Pointer {
		p := reflect.New(f.GoType)
		if err := d.value(p.Elem(), f, v, path); err != nil {
			return err
		}
		target.Set(p)
		return nil
	}
	return d.value(target, f, v, path)
}

func (d *decoder) value(target reflect.Value, f *schema.Field, v value.Value, path []string) error {
	switch f.Type {
	case schema.TypeRaw:
		target.Set(reflect.ValueOf(v))
	case schema.TypeAny:
		if x := v.ToAny(); x != nil {
			target.Set(reflect.ValueOf(x))
		}
	case schema.TypeCustom:
		return d.custom(target, f, v, path)
	case schema.TypeText:
		text, ok := v.ScalarText()
		if !ok {
			return mismatch(path, f.Expected(), v, nil)
		}
		u := target.Addr().Interface().(encoding.TextUnmarshaler)
		if err := u.UnmarshalText([]byte(text)); err != nil {
			return mismatch(path, f.Expected(), v, err)
		}
	case schema.TypeString:
		text, ok := v.ScalarText()
		if !ok {
			return mismatch(path, f.Expected(), v, nil)
		}
		target.SetString(text)
	case schema.TypeBool:
		b, err := toBool(v)
		if err != nil {
			return mismatch(path, f.Expected(), v, err)
		}
		target.SetBool(b)
	case schema.TypeInt:
		i, err := toInt(v)
		if err == nil && target.OverflowInt(i) {
			err = errOutOfRange
		}
		if err != nil {
			return mismatch(path, f.Expected(), v, err)
		}
		target.SetInt(i)
	case schema.TypeUint:
		u, err := toUint(v)
		if err == nil && target.OverflowUint(u) {
			err = errOutOfRange
		}
		if err != nil {
			return mismatch(path, f.Expected(), v, err)
		}
		target.SetUint(u)
	case schema.TypeFloat:
		fl, err := toFloat(v)
		if err == nil && target.OverflowFloat(fl) {
			err = errOutOfRange
		}
		if err != nil {
			return mismatch(path, f.Expected(), v, err)
		}
		target.SetFloat(fl)
	case schema.TypeDuration:
		dur, err := toDuration(v)
		if err != nil {
			return mismatch(path, f.Expected(), v, err)
		}
		target.SetInt(int64(dur))
	case schema.TypeSequence:
		return d.sequence(target, f, v, path)
	case schema.TypeMapping:
		return d.mapping(target, f, v, path)
	case schema.TypeStruct:
		if v.Kind() != value.KindMapping {
			return mismatch(path, f.Expected(), v, nil)
		}
		return d.structInto(target, f.Fields, v, path)
	default:
		return mismatch(path, f.Expected(), v, nil)
	}
	return nil
}

func (d *decoder) custom(target reflect.Value, f *schema.Field, v value.Value, path []string) error {
	u := target.Addr().Interface().(Unmarshaler)
	err := u.UnmarshalConfig(v)
	if err == nil {
		return nil
	}
	if cfgerr.ReasonOf(err) != cfgerr.ReasonUnknown {
		return err
	}
	return mismatch(path, f.Expected(), v, err)
}

func (d *decoder) sequence(target reflect.Value, f *schema.Field, v value.Value, path []string) error {
	var items []value.Value
	switch {
	case v.Kind() == value.KindSequence:
		items = v.Items()
	case v.Kind() == value.KindString && isScalar(f.Elem.Type):
		items = splitList(v)
	default:
		return mismatch(path, f.Expected(), v, nil)
	}

	if target.Kind() == reflect.Array {
		if len(items) > target.Len() {
			return mismatch(path, f.Expected(), v, fmt.Errorf("expected at most %d elements, found %d", target.Len(), len(items)))
		}
		for i, item := range items {
			if err := d.element(target.Index(i), f.Elem, item, appendPath(path, strconv.Itoa(i))); err != nil {
				return err
			}
		}
		return nil
	}

	out := reflect.MakeSlice(target.Type(), len(items), len(items))
	for i, item := range items {
		if err := d.element(out.Index(i), f.Elem, item, appendPath(path, strconv.Itoa(i))); err != nil {
			return err
		}
	}
	target.Set(out)
	return nil
}

func (d *decoder) mapping(target reflect.Value, f *schema.Field, v value.Value, path []string) error {
	if v.Kind() != value.KindMapping {
		return mismatch(path, f.Expected(), v, nil)
	}
	t := target.Type()
	out := reflect.MakeMapWithSize(t, v.Len())
	for _, k := range v.Keys() {
		child, _ := v.Get(k)
		elem := reflect.New(t.Elem()).Elem()
		if err := d.element(elem, f.Elem, child, appendPath(path, k)); err != nil {
			return err
		}
		out.SetMapIndex(reflect.ValueOf(k).Convert(t.Key()), elem)
	}
	target.Set(out)
	return nil
}

var (
	errOutOfRange = errors.New("value out of range")

	// errWrongKind marks a node of a kind that can never convert; the
	// mismatch message already says everything.
	errWrongKind = errors.New("wrong kind")
)

func toBool(v value.Value) (bool, error) {
	if b, ok := v.AsBool(); ok {
		return b, nil
	}
	if s, ok := v.AsString(); ok {
		return strconv.ParseBool(strings.TrimSpace(s))
	}
	return false, errWrongKind
}

// numeric returns v as a number node, parsing strings.
func numeric(v value.Value) (value.Value, bool) {
	if v.Kind() == value.KindNumber {
		return v, true
	}
	if s, ok := v.AsString(); ok {
		return value.Number(s)
	}
	return value.Value{}, false
}

func toInt(v value.Value) (int64, error) {
	n, ok := numeric(v)
	if !ok {
		return 0, notNumber(v)
	}
	i, ok := n.AsInt()
	if !ok {
		return 0, fmt.Errorf("%s is not an integer", n.String())
	}
	return i, nil
}

func toUint(v value.Value) (uint64, error) {
	n, ok := numeric(v)
	if !ok {
		return 0, notNumber(v)
	}
	u, ok := n.AsUint()
	if !ok {
		return 0, fmt.Errorf("%s is not an unsigned integer", n.String())
	}
	return u, nil
}

func toFloat(v value.Value) (float64, error) {
	n, ok := numeric(v)
	if !ok {
		return 0, notNumber(v)
	}
	f, _ := n.AsFloat()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errOutOfRange
	}
	return f, nil
}

// toDuration accepts Go duration strings ("1m30s") and numbers of seconds.
func toDuration(v value.Value) (time.Duration, error) {
	if s, ok := v.AsString(); ok {
		if d, err := time.ParseDuration(strings.TrimSpace(s)); err == nil {
			return d, nil
		}
	}
	n, ok := numeric(v)
	if !ok {
		if s, isString := v.AsString(); isString {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		return 0, errWrongKind
	}
	secs, _ := n.AsFloat()
	nanos := secs * float64(time.Second)
	if math.IsNaN(nanos) || math.Abs(nanos) >= math.MaxInt64 {
		return 0, errOutOfRange
	}
	return time.Duration(nanos), nil
}

func notNumber(v value.Value) error {
	if s, ok := v.AsString(); ok {
		return fmt.Errorf("invalid number %q", s)
	}
	return errWrongKind
}

func isScalar(t schema.Type) bool {
	switch t {
	case schema.TypeString, schema.TypeBool, schema.TypeInt, schema.TypeUint,
		schema.TypeFloat, schema.TypeDuration, schema.TypeText:
		return true
	}
	return false
}

// splitList turns "a, b,c" into three string nodes. The empty string is
// the empty list.
func splitList(v value.Value) []value.Value {
	s, _ := v.AsString()
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	items := make([]value.Value, len(parts))
	for i, p := range parts {
		items[i] = value.String(strings.TrimSpace(p)).WithSource(v.Source())
	}
	return items
}

func mismatch(path []string, expected string, v value.Value, err error) error {
	if errors.Is(err, errWrongKind) {
		err = nil
	}
	return &cfgerr.TypeMismatchError{
		Path:     joinPath(path),
		Expected: expected,
		Found:    v.Kind().String(),
		Provider: v.Source(),
		Err:      err,
	}
}

func appendPath(path []string, seg string) []string {
	return append(path[:len(path):len(path)], seg)
}

func joinPath(path []string) string {
	if len(path) == 0 {
		return RootPath
	}
	return strings.Join(path, value.PathSeparator)
}
