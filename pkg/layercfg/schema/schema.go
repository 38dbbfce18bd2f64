package schema

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/randalmurphal/layercfg/pkg/layercfg/value"
)

// Struct tags read by Of.
const (
	TagName     = "config"
	TagDefault  = "default"
	TagOptional = "optional"
	TagSecret   = "secret"
)

// DefaultSource is the provenance recorded on default values.
const DefaultSource = "default"

// Type is the expected type tag of a field.
type Type int

const (
	TypeString Type = iota + 1
	TypeBool
	TypeInt
	TypeUint
	TypeFloat
	TypeDuration
	TypeSequence
	TypeMapping
	TypeStruct
	TypeAny
	TypeRaw
	TypeText
	TypeCustom
)

// String returns the type name used in error messages.
func (t Type) String() string {
	switch t {
	case TypeString, TypeText:
		return "string"
	case TypeBool:
		return "boolean"
	case TypeInt:
		return "integer"
	case TypeUint:
		return "unsigned integer"
	case TypeFloat:
		return "float"
	case TypeDuration:
		return "duration"
	case TypeSequence:
		return "sequence"
	case TypeMapping, TypeStruct:
		return "mapping"
	case TypeAny, TypeRaw:
		return "any value"
	case TypeCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// Unmarshaler is implemented by types that decode themselves from a tree
// node. Return a plain error to have it reported as a type mismatch.
type Unmarshaler interface {
	UnmarshalConfig(v value.Value) error
}

var (
	valueType       = reflect.TypeOf(value.Value{})
	durationType    = reflect.TypeOf(time.Duration(0))
	unmarshalerType = reflect.TypeOf((*Unmarshaler)(nil)).Elem()
	textType        = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

// Field describes one expected key.
type Field struct {
	// Name is the key in the tree.
	Name string

	// GoName is the struct field name. Empty for element descriptors.
	GoName string

	// Path is the dotted path from the root. Empty for element descriptors.
	Path []string

	// Index locates the struct field for reflect.Value.FieldByIndex.
	Index []int

	Type   Type
	GoType reflect.Type

	// Pointer is set when the Go field is a pointer to GoType.
	Pointer bool

	HasDefault bool
	Default    value.Value

	Optional bool
	Secret   bool

	// Fields lists nested fields of a TypeStruct in declaration order.
	Fields []*Field

	// Elem describes sequence elements and mapping values.
	Elem *Field
}

// Required reports whether the field must be present in the tree.
func (f *Field) Required() bool {
	return !f.Optional && !f.Pointer && !f.HasDefault
}

// Expected returns the type name reported when a value does not fit.
func (f *Field) Expected() string {
	if f.Type == TypeCustom {
		return f.GoType.String()
	}
	return f.Type.String()
}

// Key returns the dotted path.
func (f *Field) Key() string {
	return value.JoinPath(f.Path...)
}

// Schema describes the fields of a configuration struct.
type Schema struct {
	GoType reflect.Type
	Fields []*Field
}

// Of derives the schema of struct type T from its field tags:
//
//	config:"name"   key name (default: snake_case field name), "-" skips
//	default:"text"  default value, coerced like provider values
//	optional:"true" may be absent
//	secret:"true"   masked when printed
//
// Pointer fields are optional. Anonymous struct fields without a config
// tag are flattened into the parent.
func Of[T any]() (*Schema, error) {
	return ForType(reflect.TypeOf((*T)(nil)).Elem())
}

// MustOf is like Of but panics on error.
func MustOf[T any]() *Schema {
	s, err := Of[T]()
	if err != nil {
		panic(err)
	}
	return s
}

// ForType derives the schema of struct type t.
func ForType(t reflect.Type) (*Schema, error) {
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("schema: %s is not a struct", t)
	}
	b := &builder{visiting: map[reflect.Type]bool{}}
	fields, err := b.structFields(t, nil, nil)
	if err != nil {
		return nil, err
	}
	return &Schema{GoType: t, Fields: fields}, nil
}

// FieldAt returns the field describing path. Any key under a mapping
// field matches its element descriptor.
func (s *Schema) FieldAt(path []string) (*Field, bool) {
	fields := s.Fields
	var cur *Field
	for _, seg := range path {
		if cur != nil && cur.Type == TypeMapping {
			cur = cur.Elem
			fields = cur.Fields
			continue
		}
		var next *Field
		for _, f := range fields {
			if f.Name == seg {
				next = f
				break
			}
		}
		if next == nil {
			return nil, false
		}
		cur = next
		fields = cur.Fields
	}
	return cur, cur != nil
}

// IsSecret reports whether path is, or lies below, a secret field.
func (s *Schema) IsSecret(path []string) bool {
	for i := 1; i <= len(path); i++ {
		if f, ok := s.FieldAt(path[:i]); ok && f.Secret {
			return true
		}
	}
	return false
}

// Defaults returns a tree holding every declared default.
// Fields below pointer-to-struct fields are left out.
func (s *Schema) Defaults() value.Value {
	tree := value.EmptyMapping()
	var walk func(prefix []string, fields []*Field)
	walk = func(prefix []string, fields []*Field) {
		for _, f := range fields {
			path := append(prefix[:len(prefix):len(prefix)], f.Name)
			if f.HasDefault {
				tree = tree.Set(path, f.Default)
			}
			if !f.Pointer {
				walk(path, f.Fields)
			}
		}
	}
	walk(nil, s.Fields)
	return tree
}

type builder struct {
	visiting map[reflect.Type]bool
}

func (b *builder) structFields(t reflect.Type, prefix []string, index []int) ([]*Field, error) {
	if b.visiting[t] {
		return nil, fmt.Errorf("schema: recursive type %s", t)
	}
	b.visiting[t] = true
	defer delete(b.visiting, t)

	var fields []*Field
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag, hasTag := sf.Tag.Lookup(TagName)
		if tag == "-" {
			continue
		}
		idx := append(index[:len(index):len(index)], i)

		if sf.Anonymous && !hasTag && sf.Type.Kind() == reflect.Struct {
			embedded, err := b.structFields(sf.Type, prefix, idx)
			if err != nil {
				return nil, err
			}
			fields = append(fields, embedded...)
			continue
		}
		if !sf.IsExported() {
			continue
		}

		name := tag
		if name == "" {
			name = SnakeCase(sf.Name)
		}
		f, err := b.field(sf.Type, append(prefix[:len(prefix):len(prefix)], name))
		if err != nil {
			return nil, fmt.Errorf("schema: field %s.%s: %w", t, sf.Name, err)
		}
		f.Name = name
		f.GoName = sf.Name
		f.Index = idx
		f.Optional, err = boolTag(sf, TagOptional)
		if err != nil {
			return nil, err
		}
		f.Secret, err = boolTag(sf, TagSecret)
		if err != nil {
			return nil, err
		}
		if def, ok := sf.Tag.Lookup(TagDefault); ok {
			f.HasDefault = true
			f.Default = defaultValue(f.Type, def)
		}
		fields = append(fields, f)
	}
	return fields, nil
}

// field describes type t found at path. Element descriptors get a nil path.
func (b *builder) field(t reflect.Type, path []string) (*Field, error) {
	f := &Field{Path: path}
	if t.Kind() == reflect.Pointer {
		f.Pointer = true
		t = t.Elem()
		if t.Kind() == reflect.Pointer {
			return nil, fmt.Errorf("unsupported type *%s", t)
		}
	}
	f.GoType = t

	switch {
	case t == valueType:
		f.Type = TypeRaw
		return f, nil
	case reflect.PointerTo(t).Implements(unmarshalerType):
		f.Type = TypeCustom
		return f, nil
	case reflect.PointerTo(t).Implements(textType):
		f.Type = TypeText
		return f, nil
	case t == durationType:
		f.Type = TypeDuration
		return f, nil
	}

	switch t.Kind() {
	case reflect.String:
		f.Type = TypeString
	case reflect.Bool:
		f.Type = TypeBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		f.Type = TypeInt
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		f.Type = TypeUint
	case reflect.Float32, reflect.Float64:
		f.Type = TypeFloat
	case reflect.Slice, reflect.Array:
		f.Type = TypeSequence
		elem, err := b.field(t.Elem(), nil)
		if err != nil {
			return nil, err
		}
		f.Elem = elem
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return nil, fmt.Errorf("unsupported map key type %s", t.Key())
		}
		f.Type = TypeMapping
		elem, err := b.field(t.Elem(), nil)
		if err != nil {
			return nil, err
		}
		f.Elem = elem
	case reflect.Struct:
		f.Type = TypeStruct
		fields, err := b.structFields(t, path, nil)
		if err != nil {
			return nil, err
		}
		f.Fields = fields
	case reflect.Interface:
		if t.NumMethod() != 0 {
			return nil, fmt.Errorf("unsupported interface type %s", t)
		}
		f.Type = TypeAny
	default:
		return nil, fmt.Errorf("unsupported type %s", t)
	}
	return f, nil
}

// defaultValue turns default tag text into a tree node. Sequences and
// mappings accept YAML flow syntax; everything else stays a string for
// the decoder to coerce.
func defaultValue(t Type, text string) value.Value {
	trimmed := strings.TrimSpace(text)
	if (t == TypeSequence && strings.HasPrefix(trimmed, "[")) ||
		((t == TypeMapping || t == TypeAny) && strings.HasPrefix(trimmed, "{")) {
		if v, err := value.FromYAML([]byte(trimmed)); err == nil {
			return v.WithSource(DefaultSource)
		}
	}
	return value.String(text).WithSource(DefaultSource)
}

func boolTag(sf reflect.StructField, name string) (bool, error) {
	raw, ok := sf.Tag.Lookup(name)
	if !ok {
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("schema: field %s: invalid %s tag %q", sf.Name, name, raw)
	}
	return b, nil
}

// SnakeCase converts a Go identifier to snake_case, keeping acronyms
// together: HTTPPort becomes http_port, DatabaseURL becomes database_url.
func SnakeCase(name string) string {
	runes := []rune(name)
	var sb strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					sb.WriteByte('_')
				}
			}
			sb.WriteRune(unicode.ToLower(r))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
