package repository

import (
	"context"
	"database/sql"

	"catalogcore/internal/catalogerr"
)

// UpsertGlossaryTerm inserts a term if absent, otherwise updates its
// definition, domain, and owner.
func UpsertGlossaryTerm(ctx context.Context, tx *sql.Tx, term, definition string, domain, owner *string) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx, `
		INSERT INTO glossary_terms (term, definition, domain, owner) VALUES (?, ?, ?, ?)
		ON CONFLICT(term) DO UPDATE SET definition = excluded.definition, domain = excluded.domain, owner = excluded.owner
		RETURNING id
	`, term, definition, domain, owner).Scan(&id)
	if err != nil {
		return 0, mapDBError(err)
	}
	return id, nil
}

// LinkGlossaryTerm associates term with dataset, optionally scoped to a
// column. When strict is false, either side failing to resolve is a silent
// no-op, matching the lineage-add policy; when strict is true, an
// unresolved side returns a NotFound error instead.
func LinkGlossaryTerm(ctx context.Context, tx *sql.Tx, term, datasetName string, column *string, strict bool) error {
	var termID int64
	err := tx.QueryRowContext(ctx, `SELECT id FROM glossary_terms WHERE term = ?`, term).Scan(&termID)
	if err == sql.ErrNoRows {
		if strict {
			return catalogerr.NotFound("glossary term %q", term)
		}
		return nil
	}
	if err != nil {
		return mapDBError(err)
	}

	datasetID, ok, err := LookupDatasetID(ctx, tx, datasetName)
	if err != nil {
		return err
	}
	if !ok {
		if strict {
			return catalogerr.NotFound("dataset %q", datasetName)
		}
		return nil
	}

	// column_name may be NULL, and SQLite treats NULLs in the primary key as
	// distinct, so duplicates are filtered explicitly with IS.
	_, err = tx.ExecContext(ctx, `
		INSERT OR IGNORE INTO term_links (term_id, dataset_id, column_name)
		SELECT ?, ?, ?
		WHERE NOT EXISTS (
			SELECT 1 FROM term_links WHERE term_id = ? AND dataset_id = ? AND column_name IS ?
		)
	`, termID, datasetID, column, termID, datasetID, column)
	if err != nil {
		return mapDBError(err)
	}
	return nil
}

// CountGlossaryTerms returns the number of glossary term rows.
func CountGlossaryTerms(ctx context.Context, q Querier) (int64, error) {
	var n int64
	err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM glossary_terms`).Scan(&n)
	if err != nil {
		return 0, mapDBError(err)
	}
	return n, nil
}
