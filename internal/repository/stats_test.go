package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"catalogcore/internal/dbcatalog"
	"catalogcore/internal/repository"
)

func TestCollectStatsCountsEverything(t *testing.T) {
	writeDB, _ := dbcatalog.OpenTestSQLite(t)
	ctx := context.Background()

	tx, err := writeDB.BeginTx(ctx, nil)
	require.NoError(t, err)
	id, err := repository.UpsertDataset(ctx, tx, sampleInput("payments"))
	require.NoError(t, err)
	require.NoError(t, repository.ReplaceFields(ctx, tx, id, sampleInput("payments").Schema))
	require.NoError(t, repository.AddTags(ctx, tx, id, []string{"pii"}))
	_, err = repository.UpsertGlossaryTerm(ctx, tx, "GMV", "Gross merchandise value", nil, nil)
	require.NoError(t, err)
	_, err = tx.ExecContext(ctx, `UPDATE catalog_meta SET version = 1 WHERE id = 1`)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	stats, err := repository.CollectStats(ctx, writeDB)
	require.NoError(t, err)
	require.Equal(t, int64(1), stats.Datasets)
	require.Equal(t, int64(2), stats.Fields)
	require.Equal(t, int64(1), stats.Tags)
	require.Equal(t, int64(1), stats.GlossaryTerms)
	require.Equal(t, int64(1), stats.Version)
	require.False(t, stats.LastModifiedAt.IsZero())
}
