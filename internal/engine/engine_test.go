package engine_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"catalogcore/internal/catalog"
	"catalogcore/internal/catalogerr"
	"catalogcore/internal/config"
	"catalogcore/internal/engine"
)

func newTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	cfg := &config.Config{
		CatalogPath:    filepath.Join(t.TempDir(), "catalog.sqlite"),
		RetryAttempts:  5,
		RetryBackoffMS: 5,
	}
	eng, err := engine.Open(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = eng.Close() })
	return eng
}

func strp(s string) *string { return &s }

func TestEngineInitEmitGetStats(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t)

	require.NoError(t, eng.Init(ctx, false))

	err := eng.Init(ctx, false)
	require.Error(t, err)
	require.True(t, catalogerr.Is(err, catalogerr.KindAlreadyExists))

	require.NoError(t, eng.Emit(ctx, catalog.EmitInput{
		Name:   "orders",
		Path:   "s3://bucket/orders",
		Format: "parquet",
		Schema: []catalog.FieldInput{{Name: "id", DataType: "bigint"}},
		Tags:   []string{"gold"},
	}))

	rec, err := eng.Get(ctx, "orders")
	require.NoError(t, err)
	require.Equal(t, "orders", rec.Dataset.Name)
	require.Equal(t, []string{"gold"}, rec.Tags)

	stats, err := eng.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), stats.Datasets)
	require.Equal(t, int64(1), stats.Version)
}

func TestEngineInitForceResetsCatalog(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t)

	require.NoError(t, eng.Init(ctx, false))
	require.NoError(t, eng.Emit(ctx, catalog.EmitInput{
		Name:   "orders",
		Path:   "s3://bucket/orders",
		Format: "parquet",
		Schema: []catalog.FieldInput{{Name: "id", DataType: "bigint"}},
	}))

	require.NoError(t, eng.Init(ctx, true))

	_, err := eng.Get(ctx, "orders")
	require.Error(t, err)
	require.True(t, catalogerr.Is(err, catalogerr.KindNotFound))

	stats, err := eng.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(0), stats.Datasets)
	require.Equal(t, int64(0), stats.Version)
}

func TestEngineTagsAddRemoveAndGlossary(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t)
	require.NoError(t, eng.Init(ctx, false))
	require.NoError(t, eng.Emit(ctx, catalog.EmitInput{
		Name:   "customers",
		Path:   "s3://bucket/customers",
		Format: "parquet",
		Schema: []catalog.FieldInput{{Name: "id", DataType: "bigint"}},
	}))

	require.NoError(t, eng.TagsAdd(ctx, "customers", []string{"pii"}))
	rec, err := eng.Get(ctx, "customers")
	require.NoError(t, err)
	require.Equal(t, []string{"pii"}, rec.Tags)

	require.NoError(t, eng.TagsRemove(ctx, "customers", []string{"pii"}))
	rec, err = eng.Get(ctx, "customers")
	require.NoError(t, err)
	require.Empty(t, rec.Tags)

	err = eng.TagsAdd(ctx, "does-not-exist", []string{"x"})
	require.Error(t, err)
	require.True(t, catalogerr.Is(err, catalogerr.KindNotFound))

	require.NoError(t, eng.GlossaryUpsert(ctx, "CAC", "Customer acquisition cost", strp("finance"), nil))
	require.NoError(t, eng.GlossaryLink(ctx, "CAC", "customers", nil, false))
	stats, err := eng.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), stats.GlossaryTerms)
}

func TestEngineDeleteDataset(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t)
	require.NoError(t, eng.Init(ctx, false))
	require.NoError(t, eng.Emit(ctx, catalog.EmitInput{
		Name:   "temp_table",
		Path:   "s3://bucket/temp_table",
		Format: "parquet",
		Schema: []catalog.FieldInput{{Name: "id", DataType: "bigint"}},
	}))

	require.NoError(t, eng.DeleteDataset(ctx, "temp_table"))

	_, err := eng.Get(ctx, "temp_table")
	require.Error(t, err)
	require.True(t, catalogerr.Is(err, catalogerr.KindNotFound))

	err = eng.DeleteDataset(ctx, "temp_table")
	require.Error(t, err)
	require.True(t, catalogerr.Is(err, catalogerr.KindNotFound))
}
