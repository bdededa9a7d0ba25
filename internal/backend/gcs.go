package backend

import (
	"context"
	"errors"
	"io"
	"os"
	"strconv"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"catalogcore/internal/catalogerr"
	"catalogcore/internal/dbcatalog"
)

// gcsBackend stores the catalog object in a Google Cloud Storage bucket,
// gated by a conditional write on the object's generation number, the GCS
// analogue of S3's ETag precondition. The client uses
// option.WithCredentialsFile when a credentials file is configured, and
// the default credentials otherwise.
type gcsBackend struct {
	client *storage.Client
	bucket string
	object string
}

func newGCSBackend(ctx context.Context, path string, cfg Config) (*gcsBackend, error) {
	bucket, object, err := parseBucketKey(path, "gs://")
	if err != nil {
		return nil, catalogerr.InvalidArgument("%v", err)
	}

	var opts []option.ClientOption
	if cfg.GCSCredentialsFile != nil {
		opts = append(opts, option.WithCredentialsFile(*cfg.GCSCredentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, catalogerr.StorageUnavailable(err)
	}

	return &gcsBackend{client: client, bucket: bucket, object: object}, nil
}

func (b *gcsBackend) handle() *storage.ObjectHandle {
	return b.client.Bucket(b.bucket).Object(b.object)
}

func (b *gcsBackend) Exists(ctx context.Context) (bool, error) {
	_, err := b.handle().Attrs(ctx)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, storage.ErrObjectNotExist) {
		return false, nil
	}
	return false, catalogerr.StorageUnavailable(err)
}

func (b *gcsBackend) Initialize(ctx context.Context) error {
	exists, err := b.Exists(ctx)
	if err != nil {
		return err
	}
	if exists {
		return catalogerr.AlreadyExists("catalog already exists at gs://%s/%s", b.bucket, b.object)
	}

	tmp, err := os.CreateTemp("", "catalog-init-*.sqlite")
	if err != nil {
		return catalogerr.StorageUnavailable(err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	db, err := dbcatalog.OpenSQLite(tmpPath)
	if err != nil {
		return catalogerr.StorageUnavailable(err)
	}
	if err := dbcatalog.RunMigrations(db); err != nil {
		db.Close()
		return catalogerr.StorageUnavailable(err)
	}
	db.Close()

	f, err := os.Open(tmpPath)
	if err != nil {
		return catalogerr.StorageUnavailable(err)
	}
	defer f.Close()

	w := b.handle().If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)
	if _, err := io.Copy(w, f); err != nil {
		w.Close()
		return catalogerr.StorageUnavailable(err)
	}
	if err := w.Close(); err != nil {
		if isPreconditionErr(err) {
			return catalogerr.AlreadyExists("catalog already exists at gs://%s/%s", b.bucket, b.object)
		}
		return catalogerr.StorageUnavailable(err)
	}
	return nil
}

func (b *gcsBackend) Open(ctx context.Context) (*Connection, error) {
	r, err := b.handle().NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, catalogerr.NotFound("catalog artifact at gs://%s/%s", b.bucket, b.object)
		}
		return nil, catalogerr.StorageUnavailable(err)
	}
	defer r.Close()

	generation := r.Attrs.Generation

	tmp, err := os.CreateTemp("", "catalog-working-*.sqlite")
	if err != nil {
		return nil, catalogerr.StorageUnavailable(err)
	}
	tmpPath := tmp.Name()
	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return nil, catalogerr.StorageUnavailable(err)
	}
	tmp.Close()

	db, err := dbcatalog.OpenSQLite(tmpPath)
	if err != nil {
		os.Remove(tmpPath)
		return nil, catalogerr.StorageUnavailable(err)
	}

	return &Connection{
		DB:       db,
		Token:    generationToken(generation),
		pathHint: tmpPath,
		release:  safeRelease(db, tmpPath),
	}, nil
}

func (b *gcsBackend) Commit(ctx context.Context, conn *Connection) (CommitStatus, error) {
	if err := conn.DB.Close(); err != nil {
		return 0, catalogerr.StorageUnavailable(err)
	}
	f, err := os.Open(conn.pathHint)
	if err != nil {
		return 0, catalogerr.StorageUnavailable(err)
	}
	defer f.Close()

	generation, ok := parseGenerationToken(conn.Token)
	var w *storage.Writer
	if ok {
		w = b.handle().If(storage.Conditions{GenerationMatch: generation}).NewWriter(ctx)
	} else {
		w = b.handle().If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)
	}

	if _, err := io.Copy(w, f); err != nil {
		w.Close()
		return 0, catalogerr.StorageUnavailable(err)
	}
	if err := w.Close(); err != nil {
		if isPreconditionErr(err) {
			return CommitConflict, nil
		}
		return 0, catalogerr.StorageUnavailable(err)
	}
	os.Remove(conn.pathHint)
	conn.release = nil
	return CommitOK, nil
}

func generationToken(generation int64) string {
	return strconv.FormatInt(generation, 10)
}

func parseGenerationToken(token string) (int64, bool) {
	if token == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(token, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func isPreconditionErr(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == 412
	}
	return false
}
