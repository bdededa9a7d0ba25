package repository

import (
	"context"
	"database/sql"

	"catalogcore/internal/catalog"
	"catalogcore/internal/catalogerr"
)

// AddLineageEdgeByUpstreamName resolves upstreamName to a dataset id and
// inserts the edge upstream -> downstreamID. If upstreamName does not
// resolve, or would create a self-edge, the call is a silent no-op: the
// emitter's documented policy treats unresolved upstream references as
// ignored rather than errors, and the schema's CHECK constraint plus
// INSERT OR IGNORE absorb the self-edge case the same way.
func AddLineageEdgeByUpstreamName(ctx context.Context, tx *sql.Tx, upstreamName string, downstreamID int64) error {
	upstreamID, ok, err := LookupDatasetID(ctx, tx, upstreamName)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	_, err = tx.ExecContext(ctx, `
		INSERT OR IGNORE INTO lineage (upstream_id, downstream_id) VALUES (?, ?)
	`, upstreamID, downstreamID)
	if err != nil {
		return mapDBError(err)
	}
	return nil
}

// UpstreamNames returns the names of datasets that feed datasetID directly,
// sorted.
func UpstreamNames(ctx context.Context, q Querier, datasetID int64) ([]string, error) {
	return neighborNames(ctx, q, `
		SELECT d.name FROM lineage l JOIN datasets d ON d.id = l.upstream_id
		WHERE l.downstream_id = ? ORDER BY d.name
	`, datasetID)
}

// DownstreamNames returns the names of datasets fed directly by datasetID,
// sorted.
func DownstreamNames(ctx context.Context, q Querier, datasetID int64) ([]string, error) {
	return neighborNames(ctx, q, `
		SELECT d.name FROM lineage l JOIN datasets d ON d.id = l.downstream_id
		WHERE l.upstream_id = ? ORDER BY d.name
	`, datasetID)
}

func neighborNames(ctx context.Context, q Querier, query string, datasetID int64) ([]string, error) {
	rows, err := q.QueryContext(ctx, query, datasetID)
	if err != nil {
		return nil, mapDBError(err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, catalogerr.Internal(err)
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// UpstreamEdges returns the (id, name) pairs of datasets directly upstream
// of datasetID; used by lineage traversal to walk the graph one hop at a
// time without re-resolving names.
func UpstreamEdges(ctx context.Context, q Querier, datasetID int64) ([]catalog.NamedNode, error) {
	return namedNeighbors(ctx, q, `
		SELECT d.id, d.name FROM lineage l JOIN datasets d ON d.id = l.upstream_id
		WHERE l.downstream_id = ?
	`, datasetID)
}

// DownstreamEdges returns the (id, name) pairs of datasets directly
// downstream of datasetID.
func DownstreamEdges(ctx context.Context, q Querier, datasetID int64) ([]catalog.NamedNode, error) {
	return namedNeighbors(ctx, q, `
		SELECT d.id, d.name FROM lineage l JOIN datasets d ON d.id = l.downstream_id
		WHERE l.upstream_id = ?
	`, datasetID)
}

func namedNeighbors(ctx context.Context, q Querier, query string, datasetID int64) ([]catalog.NamedNode, error) {
	rows, err := q.QueryContext(ctx, query, datasetID)
	if err != nil {
		return nil, mapDBError(err)
	}
	defer rows.Close()

	var out []catalog.NamedNode
	for rows.Next() {
		var n catalog.NamedNode
		if err := rows.Scan(&n.ID, &n.Name); err != nil {
			return nil, catalogerr.Internal(err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
