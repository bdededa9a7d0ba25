// Package repository hides SQL behind typed operations over the catalog
// schema. Every statement is a prepared, parameterized query; no
// user-supplied value is ever interpolated into SQL text.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"catalogcore/internal/catalogerr"
)

// Querier is satisfied by both *sql.DB and *sql.Tx, letting read helpers
// run either against the shared read pool or inside a write transaction.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// mapDBError translates raw database/sql and SQLite errors into the
// catalog engine's tagged error taxonomy.
func mapDBError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return catalogerr.NotFound("resource not found")
	}
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") {
		return catalogerr.AlreadyExists("resource already exists")
	}
	if strings.Contains(msg, "FOREIGN KEY constraint failed") {
		return catalogerr.InvalidArgument("referenced resource does not exist")
	}
	return catalogerr.Internal(err)
}
