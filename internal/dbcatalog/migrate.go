package dbcatalog

import (
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

// RunMigrations applies every pending embedded migration to db, then
// initializes the search index (FTS5 virtual table and triggers, or the
// LIKE-based fallback, depending on build tags).
func RunMigrations(db *sql.DB) error {
	goose.SetBaseFS(embedMigrations)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	if err := InitSearchIndex(db); err != nil {
		return fmt.Errorf("init search index: %w", err)
	}
	return nil
}

// ResetSchema drops every table (including catalog_meta) and re-applies
// migrations from scratch. Used by the CLI's `init --force`.
func ResetSchema(db *sql.DB) error {
	goose.SetBaseFS(embedMigrations)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	// The search index is created outside the migrations, so the down
	// migration does not remove it.
	if _, err := db.Exec(`DROP TABLE IF EXISTS dataset_search`); err != nil {
		return fmt.Errorf("drop search index: %w", err)
	}
	if err := goose.DownTo(db, "migrations", 0); err != nil {
		return fmt.Errorf("reset migrations: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return InitSearchIndex(db)
}
