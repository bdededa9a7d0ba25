package backend

import (
	"database/sql"
	"os"
)

// safeRelease returns a release func that closes db and removes path,
// tolerating either already having happened (a prior Commit call may have
// closed db and renamed/uploaded path away already).
func safeRelease(db *sql.DB, path string) func() error {
	return func() error {
		_ = db.Close()
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}
}
