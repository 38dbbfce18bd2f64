package provider_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/layercfg/pkg/layercfg/provider"
	"github.com/randalmurphal/layercfg/pkg/layercfg/value"
)

func environ(entries ...string) provider.EnvOption {
	return provider.WithEnviron(func() []string { return entries })
}

func TestEnv(t *testing.T) {
	p := provider.Env("APP_", environ(
		"APP_DATABASE__HOST=db",
		"APP_DATABASE__PORT=5432",
		"APP_DEBUG=true",
		"OTHER_VAR=ignored",
		"PATH=/usr/bin",
	))
	assert.Equal(t, "environment", p.Name())
	assert.Equal(t, "APP_", p.Prefix())

	tree, err := p.Fetch(context.Background())
	require.NoError(t, err)

	want := value.MustFromAny(map[string]any{
		"database": map[string]any{"host": "db", "port": "5432"},
		"debug":    "true",
	})
	assert.True(t, value.Equal(want, tree), "got %s", tree)

	port, _ := tree.Lookup("database", "port")
	assert.Equal(t, value.KindString, port.Kind(), "values are never coerced")
}

func TestEnv_Matching(t *testing.T) {
	tests := []struct {
		name    string
		prefix  string
		opts    []provider.EnvOption
		entries []string
		want    any
	}{
		{
			"prefix is case-insensitive",
			"app_",
			nil,
			[]string{"APP_NAME=svc"},
			map[string]any{"name": "svc"},
		},
		{
			"single underscore separator",
			"APP_",
			[]provider.EnvOption{provider.WithSeparator("_")},
			[]string{"APP_DATABASE_HOST=db"},
			map[string]any{"database": map[string]any{"host": "db"}},
		},
		{
			"empty segments skipped",
			"APP_",
			nil,
			[]string{"APP_A____B=x", "APP___A=y", "APP_OK=z"},
			map[string]any{"ok": "z"},
		},
		{
			"bare prefix skipped",
			"APP_",
			nil,
			[]string{"APP_=x"},
			map[string]any{},
		},
		{
			"malformed entries skipped",
			"APP_",
			nil,
			[]string{"APP_NOEQUALS", "=hidden", "APP_V=a=b"},
			map[string]any{"v": "a=b"},
		},
		{
			"nested key wins over scalar",
			"APP_",
			nil,
			[]string{"APP_DB__HOST=h", "APP_DB=flat"},
			map[string]any{"db": map[string]any{"host": "h"}},
		},
		{
			"empty value kept",
			"APP_",
			nil,
			[]string{"APP_EMPTY="},
			map[string]any{"empty": ""},
		},
		{
			"empty prefix takes everything",
			"",
			nil,
			[]string{"HOME=/root"},
			map[string]any{"home": "/root"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := append([]provider.EnvOption{environ(tt.entries...)}, tt.opts...)
			tree, err := provider.Env(tt.prefix, opts...).Fetch(context.Background())
			require.NoError(t, err)
			assert.True(t, value.Equal(value.MustFromAny(tt.want), tree), "got %s", tree)
		})
	}
}

func TestEnv_Deterministic(t *testing.T) {
	a := provider.Env("APP_", environ("APP_B=2", "APP_A=1"))
	b := provider.Env("APP_", environ("APP_A=1", "APP_B=2"))

	ta, err := a.Fetch(context.Background())
	require.NoError(t, err)
	tb, err := b.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, ta.Keys(), tb.Keys())
	assert.Equal(t, []string{"a", "b"}, ta.Keys())
}

func TestEnv_ProcessEnvironment(t *testing.T) {
	t.Setenv("LAYERCFG_PROVIDER_TEST__LEVEL", "debug")

	tree, err := provider.Env("LAYERCFG_PROVIDER_TEST__").Fetch(context.Background())
	require.NoError(t, err)
	level, ok := tree.Get("level")
	require.True(t, ok)
	s, _ := level.AsString()
	assert.Equal(t, "debug", s)
}
