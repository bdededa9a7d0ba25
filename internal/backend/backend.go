// Package backend implements the storage-backend abstraction: locating,
// downloading, opening, and atomically publishing the catalog artifact,
// whether it lives on the local filesystem, in S3, or in Google Cloud
// Storage. Every backend variant is addressed through the same narrow
// Backend interface so the concurrency controller never branches on which
// one it is talking to.
package backend

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// CommitStatus is the outcome of a Backend.Commit call.
type CommitStatus int

const (
	CommitOK CommitStatus = iota
	CommitConflict
)

// Connection is a live handle to a downloaded (or in-place, for local)
// working copy of the catalog artifact. Token is the concurrency
// precondition observed when the connection was opened: a version string
// for the local backend, an ETag for S3, a generation number for GCS.
type Connection struct {
	DB    *sql.DB
	Token string

	pathHint string
	release  func() error
}

// Release closes the database handle and removes any temporary working
// file. It is safe to call more than once.
func (c *Connection) Release() error {
	if c.release == nil {
		return nil
	}
	err := c.release()
	c.release = nil
	return err
}

// Backend is the capability record every storage variant implements.
type Backend interface {
	// Exists reports whether a catalog artifact is present at the
	// configured location.
	Exists(ctx context.Context) (bool, error)

	// Initialize creates a brand new catalog artifact with a freshly
	// migrated schema. It fails if one already exists.
	Initialize(ctx context.Context) error

	// Open returns a live, migrated connection to the catalog, downloading
	// it to a private working file first if the backend is remote.
	Open(ctx context.Context) (*Connection, error)

	// Commit publishes conn's working file back to the configured
	// location, succeeding only if the remote copy is still at the token
	// observed when conn was opened.
	Commit(ctx context.Context, conn *Connection) (CommitStatus, error)
}

// New dispatches on CATALOG_PATH's URI scheme to construct the right
// backend variant: a bare path or file:// prefix selects the local
// backend, s3:// selects S3, gs:// selects GCS.
func New(ctx context.Context, path string, cfg Config) (Backend, error) {
	switch {
	case strings.HasPrefix(path, "s3://"):
		return newS3Backend(ctx, path, cfg)
	case strings.HasPrefix(path, "gs://"):
		return newGCSBackend(ctx, path, cfg)
	case strings.HasPrefix(path, "file://"):
		return newLocalBackend(strings.TrimPrefix(path, "file://")), nil
	default:
		return newLocalBackend(path), nil
	}
}

// Config carries the credentials backends other than local need. It is
// deliberately a plain struct rather than depending on internal/config, so
// backend stays importable without pulling in environment parsing.
type Config struct {
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSRegion          string
	AWSEndpointURL     *string
	GCSCredentialsFile *string
}

func parseBucketKey(uri, scheme string) (bucket, key string, err error) {
	trimmed := strings.TrimPrefix(uri, scheme)
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid %s path %q, expected %sbucket/key", scheme, uri, scheme)
	}
	return parts[0], parts[1], nil
}
