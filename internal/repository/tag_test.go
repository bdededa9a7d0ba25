package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"catalogcore/internal/dbcatalog"
	"catalogcore/internal/repository"
)

func TestTagsAddIsAdditiveNotReplacing(t *testing.T) {
	writeDB, readDB := dbcatalog.OpenTestSQLite(t)
	ctx := context.Background()

	tx, err := writeDB.BeginTx(ctx, nil)
	require.NoError(t, err)
	id, err := repository.UpsertDataset(ctx, tx, sampleInput("customers"))
	require.NoError(t, err)
	require.NoError(t, repository.AddTags(ctx, tx, id, []string{"pii", "gold"}))
	require.NoError(t, tx.Commit())

	tx, err = writeDB.BeginTx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, repository.AddTags(ctx, tx, id, []string{"pii", "curated"}))
	require.NoError(t, tx.Commit())

	tags, err := repository.ListTags(ctx, readDB, id)
	require.NoError(t, err)
	require.Equal(t, []string{"curated", "gold", "pii"}, tags)
}

func TestRemoveTagsIgnoresUnknown(t *testing.T) {
	writeDB, readDB := dbcatalog.OpenTestSQLite(t)
	ctx := context.Background()

	tx, err := writeDB.BeginTx(ctx, nil)
	require.NoError(t, err)
	id, err := repository.UpsertDataset(ctx, tx, sampleInput("suppliers"))
	require.NoError(t, err)
	require.NoError(t, repository.AddTags(ctx, tx, id, []string{"pii"}))
	require.NoError(t, tx.Commit())

	tx, err = writeDB.BeginTx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, repository.RemoveTags(ctx, tx, id, []string{"pii", "never-added"}))
	require.NoError(t, tx.Commit())

	tags, err := repository.ListTags(ctx, readDB, id)
	require.NoError(t, err)
	require.Empty(t, tags)
}
