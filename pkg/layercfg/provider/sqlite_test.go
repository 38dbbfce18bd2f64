package provider_test

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/layercfg/pkg/layercfg/provider"
	"github.com/randalmurphal/layercfg/pkg/layercfg/value"
)

// createDB writes rows into a fresh database and returns its path.
func createDB(t *testing.T, table string, rows map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.db")

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE "` + table + `" (key TEXT PRIMARY KEY, value TEXT)`)
	require.NoError(t, err)
	for k, v := range rows {
		_, err = db.Exec(`INSERT INTO "`+table+`" (key, value) VALUES (?, ?)`, k, v)
		require.NoError(t, err)
	}
	return path
}

func TestSQLite(t *testing.T) {
	path := createDB(t, "config", map[string]any{
		"database.host": "db",
		"database.port": "5432",
		"debug":         "true",
		"nothing":       nil,
	})

	p := provider.SQLite(path)
	assert.Equal(t, "sqlite:"+path, p.Name())

	tree, err := p.Fetch(context.Background())
	require.NoError(t, err)

	want := value.MustFromAny(map[string]any{
		"database": map[string]any{"host": "db", "port": "5432"},
		"debug":    "true",
		"nothing":  nil,
	})
	assert.True(t, value.Equal(want, tree), "got %s", tree)
	assert.Equal(t, []string{"database", "debug", "nothing"}, tree.Keys(), "rows are read in key order")
}

func TestSQLite_CustomTable(t *testing.T) {
	path := createDB(t, "settings", map[string]any{"name": "svc"})

	tree, err := provider.SQLite(path, provider.WithTable("settings")).Fetch(context.Background())
	require.NoError(t, err)
	name, ok := tree.Get("name")
	require.True(t, ok)
	s, _ := name.AsString()
	assert.Equal(t, "svc", s)

	_, err = provider.SQLite(path).Fetch(context.Background())
	require.Error(t, err, "default table does not exist")
	assert.True(t, errors.Is(err, provider.ErrParseFailure))
}

func TestSQLite_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.db")

	_, err := provider.SQLite(path).Fetch(context.Background())
	assert.True(t, errors.Is(err, provider.ErrNotFound))

	tree, err := provider.SQLite(path, provider.SQLiteOptional()).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, tree.Len())

	_, err = provider.SQLite(path).Fetch(context.Background())
	assert.True(t, errors.Is(err, provider.ErrNotFound), "fetching must not create the file")
}

func TestSQLite_PermissionDenied(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("file modes are not enforced here")
	}
	path := createDB(t, "config", map[string]any{"a": "1"})
	require.NoError(t, os.Chmod(path, 0o000))

	_, err := provider.SQLite(path, provider.SQLiteOptional()).Fetch(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, provider.ErrPermissionDenied), "got %v", err)
}

func TestSQLite_InvalidInput(t *testing.T) {
	path := createDB(t, "config", map[string]any{"a..b": "x"})

	_, err := provider.SQLite(path).Fetch(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, provider.ErrParseFailure))
	assert.Contains(t, err.Error(), `invalid key "a..b"`)

	_, err = provider.SQLite(path, provider.WithTable("config; DROP TABLE config")).Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid table name")
}

func TestSQLite_Cancelled(t *testing.T) {
	path := createDB(t, "config", map[string]any{"a": "1"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := provider.SQLite(path).Fetch(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
