package value_test

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/randalmurphal/layercfg/pkg/layercfg/value"
)

// TestKindString verifies kind names used in error messages.
func TestKindString(t *testing.T) {
	tests := []struct {
		kind value.Kind
		want string
	}{
		{value.KindNull, "null"},
		{value.KindBool, "boolean"},
		{value.KindNumber, "number"},
		{value.KindString, "string"},
		{value.KindSequence, "sequence"},
		{value.KindMapping, "mapping"},
		{value.Kind(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.String())
		})
	}
}

func TestZeroValueIsNull(t *testing.T) {
	var v value.Value
	assert.True(t, v.IsNull())
	assert.Equal(t, value.KindNull, v.Kind())
}

// TestNumberAccessors verifies integer and float conversions.
func TestNumberAccessors(t *testing.T) {
	tests := []struct {
		name    string
		v       value.Value
		wantInt int64
		intOK   bool
		wantF   float64
		floatOK bool
	}{
		{"int", value.Int(42), 42, true, 42, true},
		{"negative int", value.Int(-7), -7, true, -7, true},
		{"integral float", value.Float(3), 3, true, 3, true},
		{"fractional float", value.Float(2.5), 0, false, 2.5, true},
		{"string is not a number", value.String("1"), 0, false, 0, false},
		{"bool is not a number", value.Bool(true), 0, false, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i, ok := tt.v.AsInt()
			assert.Equal(t, tt.intOK, ok)
			assert.Equal(t, tt.wantInt, i)

			f, ok := tt.v.AsFloat()
			assert.Equal(t, tt.floatOK, ok)
			assert.Equal(t, tt.wantF, f)
		})
	}
}

func TestUintKeepsPrecision(t *testing.T) {
	v := value.Uint(18446744073709551615)
	u, ok := v.AsUint()
	require.True(t, ok)
	assert.Equal(t, uint64(18446744073709551615), u)

	_, ok = v.AsInt()
	assert.False(t, ok, "max uint64 does not fit int64")

	_, ok = value.Int(-1).AsUint()
	assert.False(t, ok)
}

func TestNumber(t *testing.T) {
	v, ok := value.Number("1e3")
	require.True(t, ok)
	i, ok := v.AsInt()
	require.True(t, ok)
	assert.Equal(t, int64(1000), i)

	for _, text := range []string{"abc", "NaN", "Inf", "-inf", "1e400"} {
		_, ok = value.Number(text)
		assert.False(t, ok, text)
	}
}

func TestMappingKeepsOrder(t *testing.T) {
	v := value.Mapping(
		value.Entry{Key: "z", Value: value.Int(1)},
		value.Entry{Key: "a", Value: value.Int(2)},
		value.Entry{Key: "z", Value: value.Int(3)},
	)

	assert.Equal(t, []string{"z", "a"}, v.Keys())
	z, ok := v.Get("z")
	require.True(t, ok)
	assert.True(t, value.Equal(value.Int(3), z))
	assert.Equal(t, 2, v.Len())
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b value.Value
		want bool
	}{
		{"nulls", value.Null(), value.Null(), true},
		{"int and integral float", value.Int(1), value.Float(1), true},
		{"different numbers", value.Int(1), value.Int(2), false},
		{"different kinds", value.Int(1), value.String("1"), false},
		{
			"mapping order ignored",
			value.MustFromAny(map[string]any{"a": 1, "b": 2}),
			value.Mapping(
				value.Entry{Key: "b", Value: value.Int(2)},
				value.Entry{Key: "a", Value: value.Int(1)},
			),
			true,
		},
		{
			"sequence order matters",
			value.Sequence(value.Int(1), value.Int(2)),
			value.Sequence(value.Int(2), value.Int(1)),
			false,
		},
		{
			"sources ignored",
			value.String("x").WithSource("env"),
			value.String("x").WithSource("file"),
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, value.Equal(tt.a, tt.b))
		})
	}
}

func TestWithSource(t *testing.T) {
	v := value.MustFromAny(map[string]any{
		"db":    map[string]any{"host": "x"},
		"hosts": []any{"a"},
	}).WithSource("defaults")

	host, ok := v.Lookup("db", "host")
	require.True(t, ok)
	assert.Equal(t, "defaults", host.Source())

	hosts, ok := v.Get("hosts")
	require.True(t, ok)
	assert.Equal(t, "defaults", hosts.Items()[0].Source())
}

func TestScalarText(t *testing.T) {
	s, ok := value.Bool(true).ScalarText()
	assert.True(t, ok)
	assert.Equal(t, "true", s)

	s, ok = value.Float(1.5).ScalarText()
	assert.True(t, ok)
	assert.Equal(t, "1.5", s)

	_, ok = value.EmptyMapping().ScalarText()
	assert.False(t, ok)
}

func TestFromAny(t *testing.T) {
	t.Run("nested data", func(t *testing.T) {
		v, err := value.FromAny(map[string]any{
			"name":    "svc",
			"port":    8080,
			"ratio":   0.5,
			"enabled": true,
			"tags":    []string{"a", "b"},
			"nested":  map[string]string{"k": "v"},
			"nothing": nil,
		})
		require.NoError(t, err)
		assert.Equal(t, value.KindMapping, v.Kind())
		assert.Equal(t, []string{"enabled", "name", "nested", "nothing", "port", "ratio", "tags"}, v.Keys())

		tags, _ := v.Get("tags")
		assert.Equal(t, 2, tags.Len())
		nothing, _ := v.Get("nothing")
		assert.True(t, nothing.IsNull())
	})

	t.Run("json number", func(t *testing.T) {
		v, err := value.FromAny(json.Number("9007199254740993"))
		require.NoError(t, err)
		i, ok := v.AsInt()
		require.True(t, ok)
		assert.Equal(t, int64(9007199254740993), i)
	})

	t.Run("time", func(t *testing.T) {
		ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
		v, err := value.FromAny(ts)
		require.NoError(t, err)
		s, _ := v.AsString()
		assert.Equal(t, "2025-01-02T03:04:05Z", s)
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := value.FromAny(make(chan int))
		assert.Error(t, err)

		_, err = value.FromAny(map[int]string{1: "x"})
		assert.Error(t, err)
	})
}

func TestToAny(t *testing.T) {
	v := value.MustFromAny(map[string]any{
		"port":  8080,
		"ratio": 0.25,
		"tags":  []any{"a", true},
	})

	assert.Equal(t, map[string]any{
		"port":  int64(8080),
		"ratio": 0.25,
		"tags":  []any{"a", true},
	}, v.ToAny())
}

func TestFromYAML(t *testing.T) {
	t.Run("keeps key order and types", func(t *testing.T) {
		v, err := value.FromYAML([]byte(`
server:
  port: 8080
  host: localhost
debug: true
ratio: 1.5
missing: ~
tags: [a, b]
date: 2025-01-01
quoted: "123"
`))
		require.NoError(t, err)
		assert.Equal(t, []string{"server", "debug", "ratio", "missing", "tags", "date", "quoted"}, v.Keys())

		server, _ := v.Get("server")
		assert.Equal(t, []string{"port", "host"}, server.Keys())

		port, _ := server.Get("port")
		assert.Equal(t, value.KindNumber, port.Kind())

		debug, _ := v.Get("debug")
		assert.Equal(t, value.KindBool, debug.Kind())

		missing, _ := v.Get("missing")
		assert.True(t, missing.IsNull())

		date, _ := v.Get("date")
		s, ok := date.AsString()
		require.True(t, ok)
		assert.Equal(t, "2025-01-01", s)

		quoted, _ := v.Get("quoted")
		assert.Equal(t, value.KindString, quoted.Kind())
	})

	t.Run("empty document", func(t *testing.T) {
		v, err := value.FromYAML([]byte("   \n"))
		require.NoError(t, err)
		assert.True(t, v.IsNull())
	})

	t.Run("anchors and merge keys", func(t *testing.T) {
		v, err := value.FromYAML([]byte(`
base: &base
  host: x
  port: 1
db:
  <<: *base
  port: 2
`))
		require.NoError(t, err)
		want := value.MustFromAny(map[string]any{
			"base": map[string]any{"host": "x", "port": 1},
			"db":   map[string]any{"host": "x", "port": 2},
		})
		assert.True(t, value.Equal(want, v), "got %s", v)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := value.FromYAML([]byte("a: [1, 2"))
		assert.Error(t, err)
	})

	t.Run("recursive alias", func(t *testing.T) {
		for _, doc := range []string{
			"a: &x [1, *x]\n",
			"a: &x {b: *x}\n",
		} {
			_, err := value.FromYAML([]byte(doc))
			assert.ErrorContains(t, err, "recursive alias", doc)
		}
	})

	t.Run("repeated alias is not recursive", func(t *testing.T) {
		v, err := value.FromYAML([]byte("a: &x [1]\nb: [*x, *x]\n"))
		require.NoError(t, err)
		b, _ := v.Get("b")
		assert.Equal(t, 2, b.Len())
	})

	t.Run("alias expansion limit", func(t *testing.T) {
		var doc strings.Builder
		doc.WriteString("l0: &l0 [x, x, x, x, x, x, x, x, x, x]\n")
		for i := 1; i <= 6; i++ {
			fmt.Fprintf(&doc, "l%d: &l%d [", i, i)
			for j := 0; j < 10; j++ {
				if j > 0 {
					doc.WriteString(", ")
				}
				fmt.Fprintf(&doc, "*l%d", i-1)
			}
			doc.WriteString("]\n")
		}

		_, err := value.FromYAML([]byte(doc.String()))
		assert.ErrorContains(t, err, "aliases expand to more than")
	})
}

func TestFromJSON(t *testing.T) {
	v, err := value.FromJSON([]byte(`{"b": {"n": 12345678901234567}, "a": [1, "x"]}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, v.Keys())

	n, ok := v.Lookup("b", "n")
	require.True(t, ok)
	i, ok := n.AsInt()
	require.True(t, ok)
	assert.Equal(t, int64(12345678901234567), i)

	_, err = value.FromJSON([]byte(`{"a": 1} {"b": 2}`))
	assert.Error(t, err)

	_, err = value.FromJSON([]byte(`{"a": `))
	assert.Error(t, err)
}

func TestMarshalYAMLRoundTrip(t *testing.T) {
	src := value.Mapping(
		value.Entry{Key: "zeta", Value: value.String("123")},
		value.Entry{Key: "alpha", Value: value.Int(7)},
		value.Entry{Key: "list", Value: value.Sequence(value.Bool(false), value.Float(0.5))},
		value.Entry{Key: "none", Value: value.Null()},
	)

	out, err := yaml.Marshal(src)
	require.NoError(t, err)

	back, err := value.FromYAML(out)
	require.NoError(t, err)
	assert.True(t, value.Equal(src, back), "round trip changed value:\n%s", out)
	assert.Equal(t, []string{"zeta", "alpha", "list", "none"}, back.Keys())

	zeta, _ := back.Get("zeta")
	assert.Equal(t, value.KindString, zeta.Kind(), "numeric-looking strings stay strings")
}
