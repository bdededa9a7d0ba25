package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"catalogcore/internal/catalog"
	"catalogcore/internal/catalogerr"
	"catalogcore/internal/dbcatalog"
	"catalogcore/internal/repository"
)

func strp(s string) *string { return &s }
func i64p(n int64) *int64   { return &n }

func sampleInput(name string) catalog.EmitInput {
	return catalog.EmitInput{
		Name:   name,
		Path:   "s3://bucket/" + name,
		Format: "parquet",
		Tenant: strp("acme"),
		Domain: strp("sales"),
		Owner:  strp("data-eng"),
		Schema: []catalog.FieldInput{
			{Name: "id", DataType: "bigint", Nullable: false},
			{Name: "amount", DataType: "double", Nullable: true},
		},
	}
}

func TestUpsertDatasetInsertsThenUpdates(t *testing.T) {
	writeDB, _ := dbcatalog.OpenTestSQLite(t)
	ctx := context.Background()

	tx, err := writeDB.BeginTx(ctx, nil)
	require.NoError(t, err)
	id1, err := repository.UpsertDataset(ctx, tx, sampleInput("orders"))
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	in2 := sampleInput("orders")
	in2.Owner = strp("finance")
	in2.RowCount = i64p(42)

	tx, err = writeDB.BeginTx(ctx, nil)
	require.NoError(t, err)
	id2, err := repository.UpsertDataset(ctx, tx, in2)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	require.Equal(t, id1, id2)

	d, err := repository.GetDatasetByName(ctx, writeDB, "orders")
	require.NoError(t, err)
	require.Equal(t, "finance", *d.Owner)
	require.Equal(t, int64(42), *d.RowCount)
}

func TestDeleteDatasetNotFound(t *testing.T) {
	writeDB, _ := dbcatalog.OpenTestSQLite(t)
	ctx := context.Background()

	tx, err := writeDB.BeginTx(ctx, nil)
	require.NoError(t, err)
	err = repository.DeleteDataset(ctx, tx, "missing")
	require.Error(t, err)
	require.True(t, catalogerr.Is(err, catalogerr.KindNotFound))
	require.NoError(t, tx.Rollback())
}

func TestListDatasetsFiltersByTenantAndDomain(t *testing.T) {
	writeDB, readDB := dbcatalog.OpenTestSQLite(t)
	ctx := context.Background()

	insert := func(name, tenant, domain string) {
		in := sampleInput(name)
		in.Tenant = strp(tenant)
		in.Domain = strp(domain)
		tx, err := writeDB.BeginTx(ctx, nil)
		require.NoError(t, err)
		_, err = repository.UpsertDataset(ctx, tx, in)
		require.NoError(t, err)
		require.NoError(t, tx.Commit())
	}
	insert("orders", "acme", "sales")
	insert("invoices", "acme", "finance")
	insert("shipments", "globex", "sales")

	out, err := repository.ListDatasets(ctx, readDB, catalog.ListFilter{Tenant: strp("acme")})
	require.NoError(t, err)
	require.Len(t, out, 2)

	out, err = repository.ListDatasets(ctx, readDB, catalog.ListFilter{Domain: strp("sales")})
	require.NoError(t, err)
	require.Len(t, out, 2)

	out, err = repository.ListDatasets(ctx, readDB, catalog.ListFilter{})
	require.NoError(t, err)
	require.Len(t, out, 3)
}

func TestLookupDatasetIDMissingIsNotAnError(t *testing.T) {
	_, readDB := dbcatalog.OpenTestSQLite(t)
	id, ok, err := repository.LookupDatasetID(context.Background(), readDB, "nope")
	require.NoError(t, err)
	require.False(t, ok)
	require.Zero(t, id)
}
