package backend

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"catalogcore/internal/catalogerr"
	"catalogcore/internal/dbcatalog"
)

// localBackend stores the catalog as a plain file on the local filesystem.
// Even though there is no network round trip, it follows the same
// copy-mutate-swap discipline as the object-store backends so that the
// whole-artifact-swap invariant (readers never see a partially written
// file) holds uniformly across every variant.
type localBackend struct {
	path string
}

func newLocalBackend(path string) *localBackend {
	return &localBackend{path: path}
}

func (b *localBackend) Exists(ctx context.Context) (bool, error) {
	_, err := os.Stat(b.path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, catalogerr.StorageUnavailable(err)
}

func (b *localBackend) Initialize(ctx context.Context) error {
	exists, err := b.Exists(ctx)
	if err != nil {
		return err
	}
	if exists {
		return catalogerr.AlreadyExists("catalog already exists at %s", b.path)
	}
	if dir := filepath.Dir(b.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return catalogerr.StorageUnavailable(err)
		}
	}
	db, err := dbcatalog.OpenSQLite(b.path)
	if err != nil {
		return catalogerr.StorageUnavailable(err)
	}
	defer db.Close()
	if err := dbcatalog.RunMigrations(db); err != nil {
		return catalogerr.StorageUnavailable(err)
	}
	return nil
}

func (b *localBackend) Open(ctx context.Context) (*Connection, error) {
	exists, err := b.Exists(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, catalogerr.NotFound("catalog artifact at %s", b.path)
	}

	working, err := copyToWorkingFile(b.path)
	if err != nil {
		return nil, catalogerr.StorageUnavailable(err)
	}

	db, err := dbcatalog.OpenSQLite(working)
	if err != nil {
		os.Remove(working)
		return nil, catalogerr.StorageUnavailable(err)
	}

	token, err := readVersionToken(db)
	if err != nil {
		db.Close()
		os.Remove(working)
		return nil, err
	}

	return &Connection{
		DB:       db,
		Token:    token,
		pathHint: working,
		release:  safeRelease(db, working),
	}, nil
}

func (b *localBackend) Commit(ctx context.Context, conn *Connection) (CommitStatus, error) {
	remoteToken, err := readCanonicalVersionToken(b.path)
	if err != nil {
		return 0, err
	}
	if remoteToken != conn.Token {
		return CommitConflict, nil
	}

	workingPath, err := workingPathOf(conn)
	if err != nil {
		return 0, catalogerr.Internal(err)
	}
	if err := conn.DB.Close(); err != nil {
		return 0, catalogerr.StorageUnavailable(err)
	}
	if err := os.Rename(workingPath, b.path); err != nil {
		return 0, catalogerr.StorageUnavailable(err)
	}
	conn.release = nil
	return CommitOK, nil
}

func readCanonicalVersionToken(path string) (string, error) {
	db, err := sql.Open("sqlite3", "file:"+path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return "", catalogerr.StorageUnavailable(err)
	}
	defer db.Close()
	return readVersionToken(db)
}

func readVersionToken(db *sql.DB) (string, error) {
	var version int64
	err := db.QueryRow(`SELECT version FROM catalog_meta WHERE id = 1`).Scan(&version)
	if err != nil {
		return "", catalogerr.Corrupt("cannot read catalog_meta.version: %v", err)
	}
	return fmt.Sprintf("%d", version), nil
}
