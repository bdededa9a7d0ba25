package backend

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"catalogcore/internal/catalogerr"
	"catalogcore/internal/dbcatalog"
)

// s3Backend stores the catalog object in an S3-compatible bucket,
// gated by a conditional PUT (If-Match/If-None-Match) precondition on the
// object's ETag, downloaded and cached locally for the duration of one
// logical operation. The client is built directly with
// s3.New(s3.Options{...}) plus static credentials, rather than the
// higher-level config.LoadDefaultConfig helper, so no extra AWS config
// module is required.
type s3Backend struct {
	client *s3.Client
	bucket string
	key    string
}

func newS3Backend(ctx context.Context, path string, cfg Config) (*s3Backend, error) {
	bucket, key, err := parseBucketKey(path, "s3://")
	if err != nil {
		return nil, catalogerr.InvalidArgument("%v", err)
	}

	opts := s3.Options{
		Region:       cfg.AWSRegion,
		UsePathStyle: true,
	}
	if cfg.AWSAccessKeyID != "" {
		opts.Credentials = credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, "")
	}
	if cfg.AWSEndpointURL != nil {
		opts.BaseEndpoint = aws.String(*cfg.AWSEndpointURL)
	}

	return &s3Backend{
		client: s3.New(opts),
		bucket: bucket,
		key:    key,
	}, nil
}

func (b *s3Backend) Exists(ctx context.Context) (bool, error) {
	_, err := b.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.key),
	})
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, catalogerr.StorageUnavailable(err)
}

func (b *s3Backend) Initialize(ctx context.Context) error {
	exists, err := b.Exists(ctx)
	if err != nil {
		return err
	}
	if exists {
		return catalogerr.AlreadyExists("catalog already exists at s3://%s/%s", b.bucket, b.key)
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

	data, err := os.ReadFile(tmpPath)
	if err != nil {
		return catalogerr.StorageUnavailable(err)
	}

	_, err = b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(b.key),
		Body:        bytes.NewReader(data),
		IfNoneMatch: aws.String("*"),
	})
	if err != nil {
		if isPreconditionFailed(err) {
			return catalogerr.AlreadyExists("catalog already exists at s3://%s/%s", b.bucket, b.key)
		}
		return catalogerr.StorageUnavailable(err)
	}
	return nil
}

func (b *s3Backend) Open(ctx context.Context) (*Connection, error) {
	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, catalogerr.NotFound("catalog artifact at s3://%s/%s", b.bucket, b.key)
		}
		return nil, catalogerr.StorageUnavailable(err)
	}
	defer out.Body.Close()

	tmp, err := os.CreateTemp("", "catalog-working-*.sqlite")
	if err != nil {
		return nil, catalogerr.StorageUnavailable(err)
	}
	tmpPath := tmp.Name()
	if _, err := io.Copy(tmp, out.Body); err != nil {
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

	etag := ""
	if out.ETag != nil {
		etag = *out.ETag
	}

	return &Connection{
		DB:       db,
		Token:    etag,
		pathHint: tmpPath,
		release:  safeRelease(db, tmpPath),
	}, nil
}

func (b *s3Backend) Commit(ctx context.Context, conn *Connection) (CommitStatus, error) {
	if err := conn.DB.Close(); err != nil {
		return 0, catalogerr.StorageUnavailable(err)
	}
	data, err := os.ReadFile(conn.pathHint)
	if err != nil {
		return 0, catalogerr.StorageUnavailable(err)
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.key),
		Body:   bytes.NewReader(data),
	}
	if conn.Token != "" {
		input.IfMatch = aws.String(conn.Token)
	} else {
		input.IfNoneMatch = aws.String("*")
	}

	_, err = b.client.PutObject(ctx, input)
	if err != nil {
		if isPreconditionFailed(err) {
			return CommitConflict, nil
		}
		return 0, catalogerr.StorageUnavailable(err)
	}
	os.Remove(conn.pathHint)
	conn.release = nil
	return CommitOK, nil
}

func isNotFound(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey", "404":
			return true
		}
	}
	return false
}

func isPreconditionFailed(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "PreconditionFailed", "412":
			return true
		}
	}
	return false
}
