package repository

import (
	"context"
	"database/sql"

	"catalogcore/internal/catalog"
	"catalogcore/internal/catalogerr"
)

// UpsertDataset inserts a dataset row if name is absent, otherwise updates
// its mutable columns and bumps updated_at. Returns the row's surrogate id.
func UpsertDataset(ctx context.Context, tx *sql.Tx, in catalog.EmitInput) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx, `
		INSERT INTO datasets (name, path, format, tenant, domain, owner, description, row_count, size_bytes, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET
			path = excluded.path,
			format = excluded.format,
			tenant = excluded.tenant,
			domain = excluded.domain,
			owner = excluded.owner,
			description = excluded.description,
			row_count = excluded.row_count,
			size_bytes = excluded.size_bytes,
			updated_at = CURRENT_TIMESTAMP
		RETURNING id
	`, in.Name, in.Path, in.Format, in.Tenant, in.Domain, in.Owner, in.Description, in.RowCount, in.SizeBytes).Scan(&id)
	if err != nil {
		return 0, mapDBError(err)
	}
	return id, nil
}

// DeleteDataset removes the dataset named name and, via ON DELETE CASCADE,
// every field, tag, and lineage edge that references it. Returns NotFound
// if no such dataset exists.
func DeleteDataset(ctx context.Context, tx *sql.Tx, name string) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM datasets WHERE name = ?`, name)
	if err != nil {
		return mapDBError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return catalogerr.Internal(err)
	}
	if n == 0 {
		return catalogerr.NotFound("dataset %q", name)
	}
	return nil
}

// GetDatasetByName fetches the dataset row, or NotFound if absent.
func GetDatasetByName(ctx context.Context, q Querier, name string) (catalog.Dataset, error) {
	var d catalog.Dataset
	err := q.QueryRowContext(ctx, `
		SELECT id, name, path, format, tenant, domain, owner, description, row_count, size_bytes, created_at, updated_at
		FROM datasets WHERE name = ?
	`, name).Scan(&d.ID, &d.Name, &d.Path, &d.Format, &d.Tenant, &d.Domain, &d.Owner, &d.Description, &d.RowCount, &d.SizeBytes, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return catalog.Dataset{}, mapDBError(err)
	}
	return d, nil
}

// LookupDatasetID resolves a dataset name to its surrogate id. Returns
// ok=false, not an error, when the name does not resolve, matching the
// emitter's silent-skip policy for unresolved lineage/glossary targets.
func LookupDatasetID(ctx context.Context, q Querier, name string) (id int64, ok bool, err error) {
	err = q.QueryRowContext(ctx, `SELECT id FROM datasets WHERE name = ?`, name).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, catalogerr.Internal(err)
	}
	return id, true, nil
}

// ListDatasets returns dataset summaries matching filter, ordered by name.
func ListDatasets(ctx context.Context, q Querier, filter catalog.ListFilter) ([]catalog.DatasetSummary, error) {
	query := `
		SELECT name, path, format, tenant, domain, owner, description, updated_at
		FROM datasets
		WHERE (? IS NULL OR tenant = ?)
		  AND (? IS NULL OR domain = ?)
		ORDER BY name
	`
	rows, err := q.QueryContext(ctx, query, filter.Tenant, filter.Tenant, filter.Domain, filter.Domain)
	if err != nil {
		return nil, mapDBError(err)
	}
	defer rows.Close()

	var out []catalog.DatasetSummary
	for rows.Next() {
		var s catalog.DatasetSummary
		if err := rows.Scan(&s.Name, &s.Path, &s.Format, &s.Tenant, &s.Domain, &s.Owner, &s.Description, &s.UpdatedAt); err != nil {
			return nil, catalogerr.Internal(err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
