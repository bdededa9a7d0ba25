package backend

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// copyToWorkingFile copies src into a new private temp file in the same
// directory (so a later os.Rename back over src stays within one
// filesystem) and returns the temp file's path.
func copyToWorkingFile(src string) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer in.Close()

	dir := filepath.Dir(src)
	tmp, err := os.CreateTemp(dir, ".catalog-working-*.sqlite")
	if err != nil {
		return "", err
	}
	defer tmp.Close()

	if _, err := io.Copy(tmp, in); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Sync(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}

// workingPathOf recovers the temp file path backing conn, so Commit can
// rename it after closing the underlying *sql.DB.
func workingPathOf(conn *Connection) (string, error) {
	if conn.pathHint == "" {
		return "", fmt.Errorf("connection has no working path recorded")
	}
	return conn.pathHint, nil
}
