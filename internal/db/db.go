package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"
	_ "modernc.org/sqlite"

	sqlc "github.com/Joseda-hg/todobreeze/internal/db/sqlc"
)

//go:embed schema.sql
var schemaFS embed.FS

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Open connects to the given driver and applies the schema. For sqlite the
// dsn is a file path (or ":memory:"), for postgres a connection string.
func Open(driver, dsn string) (*sql.DB, error) {
	driver = strings.TrimSpace(strings.ToLower(driver))
	if driver == "" {
		driver = DriverSQLite
	}
	if dsn == "" {
		if driver == DriverPostgres {
			return nil, fmt.Errorf("db dsn is required for postgres")
		}
		return nil, fmt.Errorf("db path is required")
	}

	switch driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	if driver == DriverSQLite {
		// One connection keeps ":memory:" databases shared and serializes writers.
		db.SetMaxOpenConns(1)
		if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("enable foreign keys: %w", err)
		}
	} else if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := applySchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

func applySchema(ctx context.Context, db *sql.DB) error {
	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}

	if _, err := db.ExecContext(ctx, string(schemaSQL)); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func isPostgres(db *sql.DB) bool {
	_, ok := db.Driver().(*pq.Driver)
	return ok
}

// rebinder rewrites "?" placeholders to "$n" for postgres.
type rebinder struct {
	inner sqlc.DBTX
}

func (r rebinder) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return r.inner.ExecContext(ctx, rebind(query), args...)
}

func (r rebinder) PrepareContext(ctx context.Context, query string) (*sql.Stmt, error) {
	return r.inner.PrepareContext(ctx, rebind(query))
}

func (r rebinder) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return r.inner.QueryContext(ctx, rebind(query), args...)
}

func (r rebinder) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return r.inner.QueryRowContext(ctx, rebind(query), args...)
}

func rebind(query string) string {
	var builder strings.Builder
	builder.Grow(len(query) + 16)

	index := 0
	inQuote := false
	for _, ch := range query {
		switch {
		case ch == '\'':
			inQuote = !inQuote
			builder.WriteRune(ch)
		case ch == '?' && !inQuote:
			index++
			builder.WriteByte('$')
			builder.WriteString(strconv.Itoa(index))
		default:
			builder.WriteRune(ch)
		}
	}
	return builder.String()
}
