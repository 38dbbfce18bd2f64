package provider

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"regexp"
	"strings"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/randalmurphal/layercfg/pkg/layercfg/value"
)

// DefaultTable is the table read by the SQLite provider.
const DefaultTable = "config"

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLiteSource reads dotted key/value rows from a local SQLite database.
//
// The table has two text columns:
//
//	CREATE TABLE config (key TEXT PRIMARY KEY, value TEXT);
//
// A row ("database.port", "5432") becomes database.port = "5432". NULL
// values become null in the tree. The database is only ever queried.
type SQLiteSource struct {
	path     string
	table    string
	optional bool
}

// SQLiteOption configures a SQLiteSource.
type SQLiteOption func(*SQLiteSource)

// WithTable sets the table to read. Default: "config".
func WithTable(name string) SQLiteOption {
	return func(s *SQLiteSource) {
		s.table = name
	}
}

// SQLiteOptional makes a missing database file contribute an empty tree.
func SQLiteOptional() SQLiteOption {
	return func(s *SQLiteSource) {
		s.optional = true
	}
}

// SQLite returns a provider named "sqlite:<path>" reading the database at path.
func SQLite(path string, opts ...SQLiteOption) *SQLiteSource {
	s := &SQLiteSource{path: path, table: DefaultTable}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name implements Provider.
func (s *SQLiteSource) Name() string {
	return "sqlite:" + s.path
}

// Fetch implements Provider.
func (s *SQLiteSource) Fetch(ctx context.Context) (value.Value, error) {
	if err := ctx.Err(); err != nil {
		return value.Value{}, err
	}
	if !tableName.MatchString(s.table) {
		return value.Value{}, ParseFailure(s.Name(), fmt.Errorf("invalid table name %q", s.table))
	}

	// The driver creates missing files on open and reports unreadable
	// ones as query errors, so check access up front.
	f, err := os.Open(s.path)
	if err != nil {
		if s.optional && os.IsNotExist(err) {
			return value.EmptyMapping(), nil
		}
		return value.Value{}, ioError(s.Name(), err)
	}
	f.Close()

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return value.Value{}, ParseFailure(s.Name(), fmt.Errorf("open database: %w", err))
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA query_only = ON"); err != nil {
		return value.Value{}, s.queryError(ctx, fmt.Errorf("set query_only: %w", err))
	}

	rows, err := db.QueryContext(ctx, fmt.Sprintf(`SELECT "key", "value" FROM %q ORDER BY "key"`, s.table))
	if err != nil {
		return value.Value{}, s.queryError(ctx, fmt.Errorf("query %s: %w", s.table, err))
	}
	defer rows.Close()

	tree := value.EmptyMapping()
	for rows.Next() {
		var key string
		var val sql.NullString
		if err := rows.Scan(&key, &val); err != nil {
			return value.Value{}, s.queryError(ctx, fmt.Errorf("scan row: %w", err))
		}
		path := value.SplitPath(key)
		if len(path) == 0 || strings.Contains(key, "..") || strings.HasPrefix(key, ".") || strings.HasSuffix(key, ".") {
			return value.Value{}, ParseFailure(s.Name(), fmt.Errorf("invalid key %q", key))
		}
		v := value.Null()
		if val.Valid {
			v = value.String(val.String)
		}
		tree = tree.Set(path, v)
	}
	if err := rows.Err(); err != nil {
		return value.Value{}, s.queryError(ctx, fmt.Errorf("iterate rows: %w", err))
	}
	return tree, nil
}

// queryError reports cancellation as-is and anything else as a parse failure.
func (s *SQLiteSource) queryError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return ParseFailure(s.Name(), err)
}
