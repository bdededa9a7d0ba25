package emitter_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"catalogcore/internal/catalog"
	"catalogcore/internal/catalogerr"
	"catalogcore/internal/dbcatalog"
	"catalogcore/internal/emitter"
	"catalogcore/internal/repository"
)

func strp(s string) *string { return &s }

func baseInput(name string) catalog.EmitInput {
	return catalog.EmitInput{
		Name:   name,
		Path:   "s3://bucket/" + name,
		Format: "parquet",
		Schema: []catalog.FieldInput{
			{Name: "id", DataType: "bigint"},
		},
	}
}

func TestEmitRejectsInvalidInput(t *testing.T) {
	writeDB, _ := dbcatalog.OpenTestSQLite(t)
	ctx := context.Background()

	cases := []catalog.EmitInput{
		{Name: "", Path: "p", Format: "f", Schema: []catalog.FieldInput{{Name: "a", DataType: "int"}}},
		{Name: "ok-name", Path: "", Format: "f", Schema: []catalog.FieldInput{{Name: "a", DataType: "int"}}},
		{Name: "ok-name", Path: "p", Format: "", Schema: []catalog.FieldInput{{Name: "a", DataType: "int"}}},
		{Name: "ok-name", Path: "p", Format: "f", Schema: nil},
		{Name: "-leading-hyphen", Path: "p", Format: "f", Schema: []catalog.FieldInput{{Name: "a", DataType: "int"}}},
	}
	for _, in := range cases {
		tx, err := writeDB.BeginTx(ctx, nil)
		require.NoError(t, err)
		err = emitter.Emit(ctx, tx, in)
		require.Error(t, err)
		require.True(t, catalogerr.Is(err, catalogerr.KindInvalidArgument))
		require.NoError(t, tx.Rollback())
	}
}

func TestEmitRegistersDatasetSchemaLineageAndTags(t *testing.T) {
	writeDB, readDB := dbcatalog.OpenTestSQLite(t)
	ctx := context.Background()

	tx, err := writeDB.BeginTx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, emitter.Emit(ctx, tx, baseInput("raw_orders")))
	require.NoError(t, tx.Commit())

	downstream := baseInput("clean_orders")
	downstream.Upstream = []string{"raw_orders", "does-not-exist"}
	downstream.Tags = []string{"curated"}

	tx, err = writeDB.BeginTx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, emitter.Emit(ctx, tx, downstream))
	require.NoError(t, tx.Commit())

	id, ok, err := repository.LookupDatasetID(ctx, readDB, "clean_orders")
	require.NoError(t, err)
	require.True(t, ok)

	upstream, err := repository.UpstreamNames(ctx, readDB, id)
	require.NoError(t, err)
	require.Equal(t, []string{"raw_orders"}, upstream)

	tags, err := repository.ListTags(ctx, readDB, id)
	require.NoError(t, err)
	require.Equal(t, []string{"curated"}, tags)
}

func TestEmitIsIdempotentAndReplacesFieldsWholesale(t *testing.T) {
	writeDB, readDB := dbcatalog.OpenTestSQLite(t)
	ctx := context.Background()

	in := baseInput("sessions")
	in.Schema = append(in.Schema, catalog.FieldInput{Name: "user_id", DataType: "bigint"})

	tx, err := writeDB.BeginTx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, emitter.Emit(ctx, tx, in))
	require.NoError(t, tx.Commit())

	in.Schema = []catalog.FieldInput{{Name: "id", DataType: "bigint"}}
	tx, err = writeDB.BeginTx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, emitter.Emit(ctx, tx, in))
	require.NoError(t, tx.Commit())

	id, ok, err := repository.LookupDatasetID(ctx, readDB, "sessions")
	require.NoError(t, err)
	require.True(t, ok)
	fields, err := repository.ListFields(ctx, readDB, id)
	require.NoError(t, err)
	require.Len(t, fields, 1)
	require.Equal(t, "id", fields[0].Name)
}
