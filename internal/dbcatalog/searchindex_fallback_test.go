//go:build !sqlite_fts5

package dbcatalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"catalogcore/internal/dbcatalog"
)

func TestSearchLikeFallbackMatchesNameAndTag(t *testing.T) {
	writeDB, readDB := dbcatalog.OpenTestSQLite(t)
	ctx := context.Background()

	tx, err := writeDB.BeginTx(ctx, nil)
	require.NoError(t, err)
	var id int64
	require.NoError(t, tx.QueryRowContext(ctx, `
		INSERT INTO datasets (name, path, format, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP) RETURNING id
	`, "raw_orders", "s3://bucket/raw_orders", "parquet").Scan(&id))
	_, err = tx.ExecContext(ctx, `INSERT INTO tags (dataset_id, tag) VALUES (?, ?)`, id, "gold")
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	hits, err := dbcatalog.Search(readDB, "raw", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	require.Equal(t, "raw_orders", hits[0].Name)

	hits, err = dbcatalog.Search(readDB, "gold", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)

	hits, err = dbcatalog.Search(readDB, "nonexistent-term", 10)
	require.NoError(t, err)
	require.Empty(t, hits)
}
