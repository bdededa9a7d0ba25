package dbcatalog

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// dsn builds a mattn/go-sqlite3 connection string with the pragmas the
// catalog engine relies on: WAL journaling, a busy timeout so concurrent
// local readers don't spuriously fail, foreign key enforcement, and (for
// the write handle) immediate transaction locking so BEGIN acquires the
// write lock up front instead of on first write.
func dsn(path string, write bool) string {
	v := url.Values{}
	v.Set("_journal_mode", "WAL")
	v.Set("_busy_timeout", "5000")
	v.Set("_synchronous", "NORMAL")
	v.Set("_foreign_keys", "on")
	if write {
		v.Set("_txlock", "immediate")
	}
	return fmt.Sprintf("file:%s?%s", path, v.Encode())
}

// OpenSQLitePair opens a single-connection write pool and a multi-connection
// read pool against the same file. SQLite's single-writer model makes a
// pool of more than one write connection actively harmful under WAL, so the
// write pool is pinned to MaxOpenConns(1); the read pool may fan out.
func OpenSQLitePair(path string, readMaxOpen int) (writeDB, readDB *sql.DB, err error) {
	writeDB, err = sql.Open("sqlite3", dsn(path, true))
	if err != nil {
		return nil, nil, fmt.Errorf("open write handle: %w", err)
	}
	writeDB.SetMaxOpenConns(1)

	readDB, err = sql.Open("sqlite3", dsn(path, false))
	if err != nil {
		writeDB.Close()
		return nil, nil, fmt.Errorf("open read handle: %w", err)
	}
	if readMaxOpen > 0 {
		readDB.SetMaxOpenConns(readMaxOpen)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := writeDB.PingContext(ctx); err != nil {
		writeDB.Close()
		readDB.Close()
		return nil, nil, fmt.Errorf("ping write handle: %w", err)
	}
	if err := readDB.PingContext(ctx); err != nil {
		writeDB.Close()
		readDB.Close()
		return nil, nil, fmt.Errorf("ping read handle: %w", err)
	}

	return writeDB, readDB, nil
}

// OpenSQLite opens a single read-write handle, useful for the CLI and for
// one-shot maintenance operations that don't need a split pool.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dsn(path, true))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return db, nil
}
