package repository

import (
	"context"
	"database/sql"

	"catalogcore/internal/catalog"
	"catalogcore/internal/catalogerr"
)

// ReplaceFields deletes every existing field row for datasetID and inserts
// fields in order, preserving each entry's position as its ordinal.
func ReplaceFields(ctx context.Context, tx *sql.Tx, datasetID int64, fields []catalog.FieldInput) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM fields WHERE dataset_id = ?`, datasetID); err != nil {
		return mapDBError(err)
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO fields (dataset_id, name, data_type, nullable, ordinal) VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return catalogerr.Internal(err)
	}
	defer stmt.Close()

	for i, f := range fields {
		if _, err := stmt.ExecContext(ctx, datasetID, f.Name, f.DataType, f.Nullable, i); err != nil {
			return mapDBError(err)
		}
	}
	return nil
}

// ListFields returns a dataset's fields ordered by ordinal.
func ListFields(ctx context.Context, q Querier, datasetID int64) ([]catalog.Field, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT dataset_id, name, data_type, nullable, ordinal
		FROM fields WHERE dataset_id = ? ORDER BY ordinal
	`, datasetID)
	if err != nil {
		return nil, mapDBError(err)
	}
	defer rows.Close()

	var out []catalog.Field
	for rows.Next() {
		var f catalog.Field
		if err := rows.Scan(&f.DatasetID, &f.Name, &f.DataType, &f.Nullable, &f.Ordinal); err != nil {
			return nil, catalogerr.Internal(err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
