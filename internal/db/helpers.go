package db

import (
	"context"
	"database/sql"
)

type QueryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// HasTable reports whether table exists in the current schema. Any query
// error counts as absent.
func HasTable(ctx context.Context, q QueryRower, table string) bool {
	var name sql.NullString
	err := q.QueryRowContext(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = DATABASE()
		  AND table_name = ?
		LIMIT 1
	`, table).Scan(&name)
	if err != nil {
		return false
	}
	return name.Valid && name.String != ""
}

// NullIfEmpty stores optional strings as NULL.
func NullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
