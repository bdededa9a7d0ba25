package engine

import (
	"context"
	"database/sql"
	"math/rand"
	"time"

	"catalogcore/internal/backend"
	"catalogcore/internal/catalogerr"
)

// MutateFunc runs one mutation's SQL statements against tx. observedVersion
// is the catalog_meta.version read at the start of this attempt; the
// commit loop bumps it to observedVersion+1 after mutate returns
// successfully, so mutate itself must not touch catalog_meta.
type MutateFunc func(ctx context.Context, tx *sql.Tx, observedVersion int64) error

// runCommitLoop implements the read-version / mutate / conditionally-publish
// / retry-on-conflict protocol: open the catalog, run mutate inside one
// transaction, bump the version, ask the backend to publish, and retry with
// full-jitter backoff on conflict up to maxAttempts times.
func runCommitLoop(ctx context.Context, be backend.Backend, maxAttempts int, backoffBaseMS int, mutate MutateFunc) (newVersion int64, err error) {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		version, ok, loopErr := attemptCommit(ctx, be, mutate)
		if loopErr != nil {
			return 0, loopErr
		}
		if ok {
			return version, nil
		}

		if attempt == maxAttempts {
			break
		}
		if err := sleepJitter(ctx, backoffBaseMS, attempt); err != nil {
			return 0, err
		}
	}
	return 0, catalogerr.Conflict(maxAttempts)
}

// attemptCommit runs exactly one open/mutate/commit cycle. ok is true only
// when the backend accepted the commit; a false, nil-error return means the
// caller should retry (conflict).
func attemptCommit(ctx context.Context, be backend.Backend, mutate MutateFunc) (version int64, ok bool, err error) {
	conn, err := be.Open(ctx)
	if err != nil {
		return 0, false, err
	}
	defer conn.Release()

	observed, err := currentVersion(ctx, conn.DB)
	if err != nil {
		return 0, false, err
	}

	tx, err := conn.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, false, catalogerr.StorageUnavailable(err)
	}

	if err := mutate(ctx, tx, observed); err != nil {
		_ = tx.Rollback()
		return 0, false, err
	}

	if _, err := tx.ExecContext(ctx, `UPDATE catalog_meta SET version = ? WHERE id = 1`, observed+1); err != nil {
		_ = tx.Rollback()
		return 0, false, catalogerr.Internal(err)
	}

	if err := tx.Commit(); err != nil {
		return 0, false, catalogerr.StorageUnavailable(err)
	}

	status, err := be.Commit(ctx, conn)
	if err != nil {
		return 0, false, err
	}
	if status == backend.CommitConflict {
		return 0, false, nil
	}
	return observed + 1, true, nil
}

func currentVersion(ctx context.Context, db *sql.DB) (int64, error) {
	var version int64
	err := db.QueryRowContext(ctx, `SELECT version FROM catalog_meta WHERE id = 1`).Scan(&version)
	if err != nil {
		return 0, catalogerr.Corrupt("cannot read catalog_meta.version: %v", err)
	}
	return version, nil
}

// sleepJitter waits a random duration in [0, base*2^attempt) milliseconds,
// full-jitter exponential backoff, honoring context cancellation.
func sleepJitter(ctx context.Context, baseMS, attempt int) error {
	maxMS := baseMS << uint(attempt)
	if maxMS <= 0 {
		maxMS = baseMS
	}
	wait := time.Duration(rand.Intn(maxMS)) * time.Millisecond
	select {
	case <-time.After(wait):
		return nil
	case <-ctx.Done():
		return catalogerr.Internal(ctx.Err())
	}
}
