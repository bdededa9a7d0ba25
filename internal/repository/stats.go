package repository

import (
	"context"
	"database/sql"
	"time"

	"golang.org/x/sync/errgroup"

	"catalogcore/internal/catalog"
	"catalogcore/internal/catalogerr"
)

// CollectStats runs the fixed set of aggregate counts plus the current
// version and last-modification timestamp. Each count is a single query,
// so the number of queries is fixed regardless of catalog size; they run
// concurrently over a bounded
// worker group since they are independent reads against the same pool.
func CollectStats(ctx context.Context, db *sql.DB) (catalog.Stats, error) {
	var stats catalog.Stats

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	g.Go(func() error {
		return countInto(gctx, db, `SELECT COUNT(*) FROM datasets`, &stats.Datasets)
	})
	g.Go(func() error {
		return countInto(gctx, db, `SELECT COUNT(*) FROM fields`, &stats.Fields)
	})
	g.Go(func() error {
		return countInto(gctx, db, `SELECT COUNT(*) FROM lineage`, &stats.LineageEdges)
	})
	g.Go(func() error {
		return countInto(gctx, db, `SELECT COUNT(*) FROM tags`, &stats.Tags)
	})
	g.Go(func() error {
		return countInto(gctx, db, `SELECT COUNT(*) FROM glossary_terms`, &stats.GlossaryTerms)
	})
	g.Go(func() error {
		return db.QueryRowContext(gctx, `SELECT version FROM catalog_meta WHERE id = 1`).Scan(&stats.Version)
	})
	g.Go(func() error {
		var ts sql.NullString
		if err := db.QueryRowContext(gctx, `SELECT MAX(updated_at) FROM datasets`).Scan(&ts); err != nil {
			return err
		}
		if ts.Valid {
			parsed, err := parseSQLiteTimestamp(ts.String)
			if err != nil {
				return err
			}
			stats.LastModifiedAt = parsed
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return catalog.Stats{}, mapDBError(err)
	}
	if stats.LastModifiedAt.IsZero() {
		stats.LastModifiedAt = time.Time{}
	}
	return stats, nil
}

func countInto(ctx context.Context, db *sql.DB, query string, dst *int64) error {
	if err := db.QueryRowContext(ctx, query).Scan(dst); err != nil {
		return catalogerr.Internal(err)
	}
	return nil
}

// parseSQLiteTimestamp parses a timestamp string as returned by the sqlite3
// driver when the declared column type affinity is lost, such as inside an
// aggregate expression (e.g. MAX(updated_at)).
func parseSQLiteTimestamp(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02T15:04:05.999999999-07:00",
		"2006-01-02 15:04:05.999999999",
		"2006-01-02T15:04:05.999999999",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04",
		"2006-01-02T15:04",
		"2006-01-02",
	}
	var lastErr error
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		} else {
			lastErr = err
		}
	}
	return time.Time{}, lastErr
}
