// Package emitter implements the idempotent dataset+schema+lineage+tag
// registration operation. Emit runs entirely inside the caller's
// transaction; the surrounding commit loop is responsible for opening the
// catalog, bumping catalog_meta.version, and publishing the result.
package emitter

import (
	"context"
	"database/sql"

	"catalogcore/internal/catalog"
	"catalogcore/internal/repository"
)

// Emit registers in, replacing the named dataset's fields wholesale,
// adding an edge for every upstream name that resolves to an existing
// dataset (unresolved names are silently skipped), and adding every tag
// (existing tags not present in in.Tags are left untouched).
func Emit(ctx context.Context, tx *sql.Tx, in catalog.EmitInput) error {
	if err := validateEmitInput(in); err != nil {
		return err
	}

	datasetID, err := repository.UpsertDataset(ctx, tx, in)
	if err != nil {
		return err
	}

	if err := repository.ReplaceFields(ctx, tx, datasetID, in.Schema); err != nil {
		return err
	}

	for _, upstreamName := range in.Upstream {
		if err := repository.AddLineageEdgeByUpstreamName(ctx, tx, upstreamName, datasetID); err != nil {
			return err
		}
	}

	if err := repository.AddTags(ctx, tx, datasetID, in.Tags); err != nil {
		return err
	}

	return nil
}
