package backend_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"catalogcore/internal/backend"
	"catalogcore/internal/catalogerr"
)

func TestLocalBackendInitializeExistsOpenCommit(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "catalog.sqlite")

	be, err := backend.New(ctx, path, backend.Config{})
	require.NoError(t, err)

	exists, err := be.Exists(ctx)
	require.NoError(t, err)
	require.False(t, exists)

	require.NoError(t, be.Initialize(ctx))

	exists, err = be.Exists(ctx)
	require.NoError(t, err)
	require.True(t, exists)

	err = be.Initialize(ctx)
	require.Error(t, err)
	require.True(t, catalogerr.Is(err, catalogerr.KindAlreadyExists))

	conn, err := be.Open(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, conn.Token)

	_, err = conn.DB.ExecContext(ctx, `UPDATE catalog_meta SET version = 1 WHERE id = 1`)
	require.NoError(t, err)

	status, err := be.Commit(ctx, conn)
	require.NoError(t, err)
	require.Equal(t, backend.CommitOK, status)
	require.NoError(t, conn.Release())
}

func TestLocalBackendCommitConflictWhenRemoteAdvanced(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "catalog.sqlite")

	be, err := backend.New(ctx, path, backend.Config{})
	require.NoError(t, err)
	require.NoError(t, be.Initialize(ctx))

	connA, err := be.Open(ctx)
	require.NoError(t, err)
	connB, err := be.Open(ctx)
	require.NoError(t, err)

	_, err = connA.DB.ExecContext(ctx, `UPDATE catalog_meta SET version = 1 WHERE id = 1`)
	require.NoError(t, err)
	status, err := be.Commit(ctx, connA)
	require.NoError(t, err)
	require.Equal(t, backend.CommitOK, status)

	_, err = connB.DB.ExecContext(ctx, `UPDATE catalog_meta SET version = 1 WHERE id = 1`)
	require.NoError(t, err)
	status, err = be.Commit(ctx, connB)
	require.NoError(t, err)
	require.Equal(t, backend.CommitConflict, status)
	require.NoError(t, connB.Release())
}
