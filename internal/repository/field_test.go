package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"catalogcore/internal/catalog"
	"catalogcore/internal/dbcatalog"
	"catalogcore/internal/repository"
)

func TestReplaceFieldsPreservesOrdinalAndReplacesWholesale(t *testing.T) {
	writeDB, readDB := dbcatalog.OpenTestSQLite(t)
	ctx := context.Background()

	tx, err := writeDB.BeginTx(ctx, nil)
	require.NoError(t, err)
	datasetID, err := repository.UpsertDataset(ctx, tx, sampleInput("events"))
	require.NoError(t, err)
	require.NoError(t, repository.ReplaceFields(ctx, tx, datasetID, []catalog.FieldInput{
		{Name: "id", DataType: "bigint"},
		{Name: "ts", DataType: "timestamp"},
	}))
	require.NoError(t, tx.Commit())

	fields, err := repository.ListFields(ctx, readDB, datasetID)
	require.NoError(t, err)
	require.Len(t, fields, 2)
	require.Equal(t, "id", fields[0].Name)
	require.Equal(t, 0, fields[0].Ordinal)
	require.Equal(t, "ts", fields[1].Name)
	require.Equal(t, 1, fields[1].Ordinal)

	tx, err = writeDB.BeginTx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, repository.ReplaceFields(ctx, tx, datasetID, []catalog.FieldInput{
		{Name: "user_id", DataType: "bigint"},
	}))
	require.NoError(t, tx.Commit())

	fields, err = repository.ListFields(ctx, readDB, datasetID)
	require.NoError(t, err)
	require.Len(t, fields, 1)
	require.Equal(t, "user_id", fields[0].Name)
}
