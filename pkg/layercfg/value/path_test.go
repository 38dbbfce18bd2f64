package value_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/layercfg/pkg/layercfg/value"
)

func TestSplitJoinPath(t *testing.T) {
	assert.Nil(t, value.SplitPath(""))
	assert.Equal(t, []string{"database", "host"}, value.SplitPath("database.host"))
	assert.Equal(t, "database.host", value.JoinPath("database", "", "host"))
	assert.Equal(t, "", value.JoinPath())
}

func TestSet(t *testing.T) {
	t.Run("creates intermediate mappings", func(t *testing.T) {
		v := value.EmptyMapping().Set([]string{"database", "host"}, value.String("db"))
		got, ok := v.Lookup("database", "host")
		require.True(t, ok)
		s, _ := got.AsString()
		assert.Equal(t, "db", s)
	})

	t.Run("replaces scalar on the way", func(t *testing.T) {
		v := value.MustFromAny(map[string]any{"database": "x"})
		v = v.Set([]string{"database", "port"}, value.String("5432"))

		db, _ := v.Get("database")
		assert.Equal(t, value.KindMapping, db.Kind())
	})

	t.Run("keeps siblings", func(t *testing.T) {
		v := value.MustFromAny(map[string]any{"database": map[string]any{"host": "x"}})
		v = v.Set([]string{"database", "port"}, value.Int(1))

		_, ok := v.Lookup("database", "host")
		assert.True(t, ok)
		_, ok = v.Lookup("database", "port")
		assert.True(t, ok)
	})

	t.Run("empty path returns new value", func(t *testing.T) {
		v := value.Int(1).Set(nil, value.String("x"))
		assert.Equal(t, value.KindString, v.Kind())
	})

	t.Run("original untouched", func(t *testing.T) {
		orig := value.EmptyMapping()
		_ = orig.Set([]string{"a"}, value.Int(1))
		assert.Equal(t, 0, orig.Len())
	})
}

func TestLookup(t *testing.T) {
	v := value.MustFromAny(map[string]any{"a": map[string]any{"b": 1}})

	_, ok := v.Lookup("a", "missing")
	assert.False(t, ok)

	_, ok = v.Lookup("a", "b", "c")
	assert.False(t, ok, "cannot descend into a scalar")

	root, ok := v.Lookup()
	assert.True(t, ok)
	assert.True(t, value.Equal(v, root))
}

func TestWalk(t *testing.T) {
	v := value.Mapping(
		value.Entry{Key: "server", Value: value.Mapping(
			value.Entry{Key: "port", Value: value.Int(80)},
			value.Entry{Key: "tls", Value: value.EmptyMapping()},
		)},
		value.Entry{Key: "hosts", Value: value.Sequence(value.String("a"))},
	)

	var paths []string
	v.Walk(func(path []string, leaf value.Value) bool {
		paths = append(paths, strings.Join(path, "."))
		return true
	})
	assert.Equal(t, []string{"server.port", "server.tls", "hosts"}, paths)

	var count int
	v.Walk(func([]string, value.Value) bool {
		count++
		return false
	})
	assert.Equal(t, 1, count)

	value.EmptyMapping().Walk(func([]string, value.Value) bool {
		t.Fatal("empty root has no leaves")
		return true
	})
}
