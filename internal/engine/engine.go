// Package engine wires the storage backend, concurrency controller,
// repository, emitter, and query engine into the operations a transport
// layer (HTTP or CLI) calls. It is the top-level entry point of the
// catalog module.
package engine

import (
	"context"
	"database/sql"
	"log/slog"
	"sync"

	"catalogcore/internal/backend"
	"catalogcore/internal/catalog"
	"catalogcore/internal/catalogerr"
	"catalogcore/internal/config"
	"catalogcore/internal/dbcatalog"
	"catalogcore/internal/emitter"
	"catalogcore/internal/query"
	"catalogcore/internal/repository"
)

// Engine is a live handle on one catalog: it owns the backend, a shared
// read connection pool used by every query operation, and the retry
// parameters the commit loop uses for every mutation.
type Engine struct {
	be     backend.Backend
	path   string
	logger *slog.Logger

	retryAttempts  int
	retryBackoffMS int

	// mu serializes commit loops issued concurrently against this handle
	// and guards readDB/query, which refreshReadPool swaps out after every
	// mutation while withQuery reads them for every query.
	mu     sync.RWMutex
	readDB *sql.DB
	query  *query.Engine
}

// Open constructs an Engine from cfg. It does not create the catalog
// artifact; callers that need a fresh catalog should call Init first.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = slog.Default()
	}

	be, err := backend.New(ctx, cfg.CatalogPath, backend.Config{
		AWSAccessKeyID:     cfg.AWSAccessKeyID,
		AWSSecretAccessKey: cfg.AWSSecretAccessKey,
		AWSRegion:          cfg.AWSRegion,
		AWSEndpointURL:     cfg.AWSEndpointURL,
		GCSCredentialsFile: cfg.GCSCredentialsFile,
	})
	if err != nil {
		return nil, err
	}

	var readDB *sql.DB
	if exists, existsErr := be.Exists(ctx); existsErr == nil && exists {
		readDB, err = openReadPool(cfg.CatalogPath)
		if err != nil {
			logger.Warn("read pool unavailable at startup, queries will read through the backend instead", "error", err)
		}
	}

	e := &Engine{
		be:             be,
		path:           cfg.CatalogPath,
		readDB:         readDB,
		logger:         logger,
		retryAttempts:  cfg.RetryAttempts,
		retryBackoffMS: cfg.RetryBackoffMS,
	}
	if readDB != nil {
		e.query = query.New(readDB)
	}
	return e, nil
}

// openReadPool opens a read pool against the catalog file for local
// catalogs. Remote catalogs (S3/GCS) have no persistent local read pool:
// for them it returns a nil pool, and withQuery downloads a fresh copy
// through the backend for each query instead.
func openReadPool(path string) (*sql.DB, error) {
	if isRemotePath(path) {
		return nil, nil
	}
	_, readDB, err := dbcatalog.OpenSQLitePair(path, 4)
	if err != nil {
		return nil, err
	}
	return readDB, nil
}

func isRemotePath(path string) bool {
	return len(path) >= 5 && (path[:5] == "s3://" || path[:5] == "gs://")
}

// Close releases the read connection pool.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.readDB != nil {
		return e.readDB.Close()
	}
	return nil
}

// Init creates a brand new catalog artifact. If force is true and one
// already exists, it is dropped and recreated first.
func (e *Engine) Init(ctx context.Context, force bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	exists, err := e.be.Exists(ctx)
	if err != nil {
		return err
	}
	if exists && !force {
		return catalogerr.AlreadyExists("catalog already exists at %s", e.path)
	}
	if exists && force {
		conn, err := e.be.Open(ctx)
		if err != nil {
			return err
		}
		defer conn.Release()

		if err := dbcatalog.ResetSchema(conn.DB); err != nil {
			return catalogerr.StorageUnavailable(err)
		}
		status, err := e.be.Commit(ctx, conn)
		if err != nil {
			return err
		}
		if status != backend.CommitOK {
			return catalogerr.Conflict(1)
		}
	} else {
		if err := e.be.Initialize(ctx); err != nil {
			return err
		}
	}
	return e.refreshReadPoolLocked()
}

// refreshReadPoolLocked closes and reopens the read pool. Callers must
// already hold mu for writing.
func (e *Engine) refreshReadPoolLocked() error {
	if isRemotePath(e.path) {
		return nil
	}
	if e.readDB != nil {
		e.readDB.Close()
	}
	readDB, err := openReadPool(e.path)
	if err != nil {
		return catalogerr.StorageUnavailable(err)
	}
	e.readDB = readDB
	e.query = query.New(readDB)
	return nil
}

// Emit runs the emitter inside the commit loop: idempotent dataset +
// schema + lineage + tag registration, committed as a single atomic unit.
func (e *Engine) Emit(ctx context.Context, in catalog.EmitInput) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, err := runCommitLoop(ctx, e.be, e.retryAttempts, e.retryBackoffMS,
		func(ctx context.Context, tx *sql.Tx, _ int64) error {
			return emitter.Emit(ctx, tx, in)
		})
	if err != nil {
		return err
	}
	return e.refreshReadPoolLocked()
}

// DeleteDataset removes a dataset and every row that references it.
func (e *Engine) DeleteDataset(ctx context.Context, name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, err := runCommitLoop(ctx, e.be, e.retryAttempts, e.retryBackoffMS,
		func(ctx context.Context, tx *sql.Tx, _ int64) error {
			return repository.DeleteDataset(ctx, tx, name)
		})
	if err != nil {
		return err
	}
	return e.refreshReadPoolLocked()
}

// TagsAdd adds tags to an existing dataset.
func (e *Engine) TagsAdd(ctx context.Context, datasetName string, tags []string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, err := runCommitLoop(ctx, e.be, e.retryAttempts, e.retryBackoffMS,
		func(ctx context.Context, tx *sql.Tx, _ int64) error {
			id, ok, err := repository.LookupDatasetID(ctx, tx, datasetName)
			if err != nil {
				return err
			}
			if !ok {
				return catalogerr.NotFound("dataset %q", datasetName)
			}
			return repository.AddTags(ctx, tx, id, tags)
		})
	if err != nil {
		return err
	}
	return e.refreshReadPoolLocked()
}

// TagsRemove removes tags from an existing dataset; unknown tags are
// silently ignored.
func (e *Engine) TagsRemove(ctx context.Context, datasetName string, tags []string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, err := runCommitLoop(ctx, e.be, e.retryAttempts, e.retryBackoffMS,
		func(ctx context.Context, tx *sql.Tx, _ int64) error {
			id, ok, err := repository.LookupDatasetID(ctx, tx, datasetName)
			if err != nil {
				return err
			}
			if !ok {
				return catalogerr.NotFound("dataset %q", datasetName)
			}
			return repository.RemoveTags(ctx, tx, id, tags)
		})
	if err != nil {
		return err
	}
	return e.refreshReadPoolLocked()
}

// GlossaryUpsert registers or updates a business glossary term.
func (e *Engine) GlossaryUpsert(ctx context.Context, term, definition string, domain, owner *string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, err := runCommitLoop(ctx, e.be, e.retryAttempts, e.retryBackoffMS,
		func(ctx context.Context, tx *sql.Tx, _ int64) error {
			_, err := repository.UpsertGlossaryTerm(ctx, tx, term, definition, domain, owner)
			return err
		})
	if err != nil {
		return err
	}
	return e.refreshReadPoolLocked()
}

// GlossaryLink associates a glossary term with a dataset, optionally scoped
// to one column. When strict is false, either side failing to resolve is a
// silent no-op; when strict is true, an unresolved side is a NotFound error.
func (e *Engine) GlossaryLink(ctx context.Context, term, datasetName string, column *string, strict bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, err := runCommitLoop(ctx, e.be, e.retryAttempts, e.retryBackoffMS,
		func(ctx context.Context, tx *sql.Tx, _ int64) error {
			return repository.LinkGlossaryTerm(ctx, tx, term, datasetName, column, strict)
		})
	if err != nil {
		return err
	}
	return e.refreshReadPoolLocked()
}

// withQuery runs fn against a query.Engine over the current snapshot: the
// cached local read pool if there is one, or otherwise a fresh read-through
// download from the backend, released once fn returns. Queries never
// invoke the commit loop.
func (e *Engine) withQuery(ctx context.Context, fn func(q *query.Engine) error) error {
	e.mu.RLock()
	q := e.query
	e.mu.RUnlock()

	if q != nil {
		return fn(q)
	}

	conn, err := e.be.Open(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()
	return fn(query.New(conn.DB))
}

// Get, List, Search, Traverse, and Stats delegate to the read-only query
// engine.
func (e *Engine) Get(ctx context.Context, name string) (catalog.DatasetRecord, error) {
	var out catalog.DatasetRecord
	err := e.withQuery(ctx, func(q *query.Engine) (err error) {
		out, err = q.Get(ctx, name)
		return err
	})
	return out, err
}

func (e *Engine) List(ctx context.Context, filter catalog.ListFilter) ([]catalog.DatasetSummary, error) {
	var out []catalog.DatasetSummary
	err := e.withQuery(ctx, func(q *query.Engine) (err error) {
		out, err = q.List(ctx, filter)
		return err
	})
	return out, err
}

func (e *Engine) Search(ctx context.Context, q string, limit int) ([]catalog.SearchHit, error) {
	var out []catalog.SearchHit
	err := e.withQuery(ctx, func(qe *query.Engine) (err error) {
		out, err = qe.Search(ctx, q, limit)
		return err
	})
	return out, err
}

func (e *Engine) Traverse(ctx context.Context, name string, dir catalog.Direction, maxDepth int) (catalog.TraversalResult, error) {
	var out catalog.TraversalResult
	err := e.withQuery(ctx, func(q *query.Engine) (err error) {
		out, err = q.Traverse(ctx, name, dir, maxDepth)
		return err
	})
	return out, err
}

func (e *Engine) Stats(ctx context.Context) (catalog.Stats, error) {
	var out catalog.Stats
	err := e.withQuery(ctx, func(q *query.Engine) (err error) {
		out, err = q.Stats(ctx)
		return err
	})
	return out, err
}
