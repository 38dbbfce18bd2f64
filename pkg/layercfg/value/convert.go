package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// FromAny converts decoded Go data into a Value.
//
// Accepts nil, bool, string, all integer and float kinds, json.Number,
// time.Time (as RFC 3339 text), Value, and maps with string keys and
// slices of any of these. Map keys are sorted since Go maps carry no order.
func FromAny(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case int:
		return Int(int64(t)), nil
	case int8:
		return Int(int64(t)), nil
	case int16:
		return Int(int64(t)), nil
	case int32:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case uint:
		return Uint(uint64(t)), nil
	case uint8:
		return Uint(uint64(t)), nil
	case uint16:
		return Uint(uint64(t)), nil
	case uint32:
		return Uint(uint64(t)), nil
	case uint64:
		return Uint(t), nil
	case float32:
		return Float(float64(t)), nil
	case float64:
		return Float(t), nil
	case json.Number:
		v, ok := Number(t.String())
		if !ok {
			return Value{}, fmt.Errorf("invalid number %q", t.String())
		}
		return v, nil
	case time.Time:
		return String(t.Format(time.RFC3339Nano)), nil
	}

	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null(), nil
		}
		return FromAny(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return Null(), nil
		}
		items := make([]Value, rv.Len())
		for i := range items {
			item, err := FromAny(rv.Index(i).Interface())
			if err != nil {
				return Value{}, fmt.Errorf("[%d]: %w", i, err)
			}
			items[i] = item
		}
		return Value{kind: KindSequence, seq: items}, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Value{}, fmt.Errorf("unsupported map key type %s", rv.Type().Key())
		}
		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		entries := make([]Entry, 0, len(keys))
		for _, k := range keys {
			child, err := FromAny(rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key())).Interface())
			if err != nil {
				return Value{}, fmt.Errorf("%s: %w", k, err)
			}
			entries = append(entries, Entry{Key: k, Value: child})
		}
		return Mapping(entries...), nil
	}
	return Value{}, fmt.Errorf("unsupported type %T", x)
}

// MustFromAny is like FromAny but panics on error.
// Intended for literals in tests and defaults.
func MustFromAny(x any) Value {
	v, err := FromAny(x)
	if err != nil {
		panic(err)
	}
	return v
}

// ToAny converts v into plain Go data: nil, bool, int64, float64, string,
// []any and map[string]any.
func (v Value) ToAny() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		if i, ok := v.AsInt(); ok {
			return i
		}
		f, _ := v.AsFloat()
		return f
	case KindString:
		return v.text
	case KindSequence:
		out := make([]any, len(v.seq))
		for i, item := range v.seq {
			out[i] = item.ToAny()
		}
		return out
	case KindMapping:
		out := make(map[string]any, len(v.fields))
		for k, child := range v.fields {
			out[k] = child.ToAny()
		}
		return out
	default:
		return nil
	}
}

// maxAliasNodes caps the nodes produced by expanding aliases in one
// document.
const maxAliasNodes = 100000

// FromYAML parses a YAML document into a Value, keeping mapping key order.
// An empty document yields Null. Recursive aliases and documents whose
// aliases expand beyond maxAliasNodes nodes are rejected.
func FromYAML(data []byte) (Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Value{}, err
	}
	if doc.Kind == 0 {
		return Null(), nil
	}
	c := &nodeConverter{expanding: make(map[*yaml.Node]bool)}
	return c.fromNode(&doc)
}

// nodeConverter turns a yaml.Node tree into a Value, tracking alias
// expansion.
type nodeConverter struct {
	// expanding holds the anchors whose aliases are being expanded.
	expanding map[*yaml.Node]bool
	depth     int
	expanded  int
}

func (c *nodeConverter) fromNode(n *yaml.Node) (Value, error) {
	if c.depth > 0 {
		c.expanded++
		if c.expanded > maxAliasNodes {
			return Value{}, fmt.Errorf("line %d: aliases expand to more than %d nodes", n.Line, maxAliasNodes)
		}
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Null(), nil
		}
		return c.fromNode(n.Content[0])
	case yaml.AliasNode:
		return c.fromAlias(n)
	case yaml.SequenceNode:
		items := make([]Value, len(n.Content))
		for i, child := range n.Content {
			item, err := c.fromNode(child)
			if err != nil {
				return Value{}, err
			}
			items[i] = item
		}
		return Value{kind: KindSequence, seq: items}, nil
	case yaml.MappingNode:
		return c.fromMappingNode(n)
	case yaml.ScalarNode:
		return fromScalarNode(n)
	}
	return Value{}, fmt.Errorf("line %d: unsupported yaml node", n.Line)
}

func (c *nodeConverter) fromAlias(n *yaml.Node) (Value, error) {
	if n.Alias == nil {
		return Value{}, fmt.Errorf("line %d: unknown alias", n.Line)
	}
	if c.expanding[n.Alias] {
		return Value{}, fmt.Errorf("line %d: recursive alias", n.Line)
	}
	c.expanding[n.Alias] = true
	c.depth++
	v, err := c.fromNode(n.Alias)
	c.depth--
	delete(c.expanding, n.Alias)
	return v, err
}

func (c *nodeConverter) fromMappingNode(n *yaml.Node) (Value, error) {
	var entries []Entry
	var merged []Value
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if k.Kind != yaml.ScalarNode {
			return Value{}, fmt.Errorf("line %d: mapping keys must be scalars", k.Line)
		}
		child, err := c.fromNode(v)
		if err != nil {
			return Value{}, err
		}
		if k.ShortTag() == "!!merge" {
			switch child.kind {
			case KindMapping:
				merged = append(merged, child)
			case KindSequence:
				merged = append(merged, child.seq...)
			default:
				return Value{}, fmt.Errorf("line %d: merge key needs a mapping", k.Line)
			}
			continue
		}
		entries = append(entries, Entry{Key: k.Value, Value: child})
	}

	// Explicit keys win over merged ones; earlier merge sources win over later.
	out := EmptyMapping()
	for i := len(merged) - 1; i >= 0; i-- {
		for _, key := range merged[i].keys {
			out = out.with(key, merged[i].fields[key])
		}
	}
	for _, e := range entries {
		out = out.with(e.Key, e.Value)
	}
	return out, nil
}

func fromScalarNode(n *yaml.Node) (Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return Null(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return Value{}, err
		}
		return Bool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return Int(i), nil
		}
		var u uint64
		if err := n.Decode(&u); err == nil {
			return Uint(u), nil
		}
		return Value{}, fmt.Errorf("line %d: integer %q out of range", n.Line, n.Value)
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return Value{}, err
		}
		return Float(f), nil
	default:
		return String(n.Value), nil
	}
}

// FromJSON parses a JSON document into a Value.
// Numbers keep their exact text; object keys are sorted.
func FromJSON(data []byte) (Value, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Null(), nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return Value{}, err
	}
	if dec.More() {
		return Value{}, fmt.Errorf("unexpected data after top-level value")
	}
	return FromAny(raw)
}

// MarshalYAML implements yaml.Marshaler, keeping mapping key order.
func (v Value) MarshalYAML() (any, error) {
	return v.toNode(), nil
}

func (v Value) toNode() *yaml.Node {
	switch v.kind {
	case KindBool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: fmt.Sprint(v.b)}
	case KindNumber:
		tag := "!!int"
		if strings.ContainsAny(v.text, ".eEnN") {
			tag = "!!float"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: v.text}
	case KindString:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.text}
	case KindSequence:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v.seq {
			n.Content = append(n.Content, item.toNode())
		}
		return n
	case KindMapping:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, k := range v.keys {
			n.Content = append(n.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
				v.fields[k].toNode(),
			)
		}
		return n
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}

// String renders v as YAML.
func (v Value) String() string {
	out, err := yaml.Marshal(v)
	if err != nil {
		return "<" + v.kind.String() + ">"
	}
	return strings.TrimSuffix(string(out), "\n")
}
