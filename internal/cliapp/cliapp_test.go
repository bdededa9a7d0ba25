package cliapp_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"catalogcore/internal/cliapp"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := cliapp.NewRootCmd()
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCLIInitListShowStats(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CATALOG_ENV_FILE", filepath.Join(dir, ".env-does-not-exist"))
	t.Setenv("CATALOG_PATH", filepath.Join(dir, "catalog.sqlite"))

	out, err := runCLI(t, "init")
	require.NoError(t, err)
	require.Contains(t, out, "catalog initialized")

	out, err = runCLI(t, "list", "--output", "json")
	require.NoError(t, err)
	require.Equal(t, "null\n", out)

	_, err = runCLI(t, "show", "missing-dataset")
	require.Error(t, err)

	out, err = runCLI(t, "stats")
	require.NoError(t, err)
	require.Contains(t, out, "datasets:")
}

func TestCLIRejectsInvalidOutputFormat(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CATALOG_ENV_FILE", filepath.Join(dir, ".env-does-not-exist"))
	t.Setenv("CATALOG_PATH", filepath.Join(dir, "catalog.sqlite"))

	_, err := runCLI(t, "list", "--output", "xml")
	require.Error(t, err)
}
