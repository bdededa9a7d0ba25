package repository

import (
	"context"
	"database/sql"

	"catalogcore/internal/catalogerr"
)

// AddTags inserts one row per tag for datasetID, ignoring duplicates.
func AddTags(ctx context.Context, tx *sql.Tx, datasetID int64, tags []string) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO tags (dataset_id, tag) VALUES (?, ?)`)
	if err != nil {
		return catalogerr.Internal(err)
	}
	defer stmt.Close()

	for _, tag := range tags {
		if _, err := stmt.ExecContext(ctx, datasetID, tag); err != nil {
			return mapDBError(err)
		}
	}
	return nil
}

// RemoveTags deletes matching tag rows for datasetID; tags not present are
// silently ignored.
func RemoveTags(ctx context.Context, tx *sql.Tx, datasetID int64, tags []string) error {
	stmt, err := tx.PrepareContext(ctx, `DELETE FROM tags WHERE dataset_id = ? AND tag = ?`)
	if err != nil {
		return catalogerr.Internal(err)
	}
	defer stmt.Close()

	for _, tag := range tags {
		if _, err := stmt.ExecContext(ctx, datasetID, tag); err != nil {
			return mapDBError(err)
		}
	}
	return nil
}

// ListTags returns every tag attached to datasetID, sorted.
func ListTags(ctx context.Context, q Querier, datasetID int64) ([]string, error) {
	rows, err := q.QueryContext(ctx, `SELECT tag FROM tags WHERE dataset_id = ? ORDER BY tag`, datasetID)
	if err != nil {
		return nil, mapDBError(err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, catalogerr.Internal(err)
		}
		out = append(out, tag)
	}
	return out, rows.Err()
}
