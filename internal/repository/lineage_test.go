package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"catalogcore/internal/dbcatalog"
	"catalogcore/internal/repository"
)

func TestAddLineageEdgeSkipsUnresolvedUpstream(t *testing.T) {
	writeDB, readDB := dbcatalog.OpenTestSQLite(t)
	ctx := context.Background()

	tx, err := writeDB.BeginTx(ctx, nil)
	require.NoError(t, err)
	downstreamID, err := repository.UpsertDataset(ctx, tx, sampleInput("reports"))
	require.NoError(t, err)
	require.NoError(t, repository.AddLineageEdgeByUpstreamName(ctx, tx, "does-not-exist", downstreamID))
	require.NoError(t, tx.Commit())

	upstream, err := repository.UpstreamNames(ctx, readDB, downstreamID)
	require.NoError(t, err)
	require.Empty(t, upstream)
}

func TestAddLineageEdgeResolvesAndRejectsSelfEdge(t *testing.T) {
	writeDB, readDB := dbcatalog.OpenTestSQLite(t)
	ctx := context.Background()

	tx, err := writeDB.BeginTx(ctx, nil)
	require.NoError(t, err)
	rawID, err := repository.UpsertDataset(ctx, tx, sampleInput("raw_events"))
	require.NoError(t, err)
	reportsID, err := repository.UpsertDataset(ctx, tx, sampleInput("reports2"))
	require.NoError(t, err)
	require.NoError(t, repository.AddLineageEdgeByUpstreamName(ctx, tx, "raw_events", reportsID))
	// self-edge: silently absorbed by the CHECK constraint + INSERT OR IGNORE
	require.NoError(t, repository.AddLineageEdgeByUpstreamName(ctx, tx, "reports2", reportsID))
	require.NoError(t, tx.Commit())

	upstream, err := repository.UpstreamNames(ctx, readDB, reportsID)
	require.NoError(t, err)
	require.Equal(t, []string{"raw_events"}, upstream)

	downstream, err := repository.DownstreamNames(ctx, readDB, rawID)
	require.NoError(t, err)
	require.Equal(t, []string{"reports2"}, downstream)
}
