//go:build sqlite_fts5

package dbcatalog

import (
	"database/sql"
	"fmt"

	"catalogcore/internal/catalog"
)

// InitSearchIndex creates the dataset_search FTS5 virtual table and the
// triggers that keep it in sync with datasets, fields, and tags. Only
// compiled in when the sqlite_fts5 build tag is set, which is also what
// enables FTS5 support in the mattn/go-sqlite3 driver itself.
func InitSearchIndex(db *sql.DB) error {
	stmts := []string{
		`CREATE VIRTUAL TABLE IF NOT EXISTS dataset_search USING fts5(
			name,
			path,
			domain,
			field_names,
			tags,
			tokenize = 'unicode61 remove_diacritics 2'
		)`,

		`CREATE TRIGGER IF NOT EXISTS trg_datasets_ai AFTER INSERT ON datasets BEGIN
			INSERT INTO dataset_search(rowid, name, path, domain, field_names, tags)
			VALUES (new.id, new.name, new.path, coalesce(new.domain, ''), '', '');
		END`,

		`CREATE TRIGGER IF NOT EXISTS trg_datasets_ad AFTER DELETE ON datasets BEGIN
			DELETE FROM dataset_search WHERE rowid = old.id;
		END`,

		`CREATE TRIGGER IF NOT EXISTS trg_datasets_au AFTER UPDATE ON datasets BEGIN
			UPDATE dataset_search
			SET name = new.name, path = new.path, domain = coalesce(new.domain, '')
			WHERE rowid = new.id;
		END`,

		`CREATE TRIGGER IF NOT EXISTS trg_fields_ai AFTER INSERT ON fields BEGIN
			UPDATE dataset_search
			SET field_names = (SELECT group_concat(name, ' ') FROM fields WHERE dataset_id = new.dataset_id)
			WHERE rowid = new.dataset_id;
		END`,

		`CREATE TRIGGER IF NOT EXISTS trg_fields_ad AFTER DELETE ON fields BEGIN
			UPDATE dataset_search
			SET field_names = (SELECT coalesce(group_concat(name, ' '), '') FROM fields WHERE dataset_id = old.dataset_id)
			WHERE rowid = old.dataset_id;
		END`,

		`CREATE TRIGGER IF NOT EXISTS trg_tags_ai AFTER INSERT ON tags BEGIN
			UPDATE dataset_search
			SET tags = (SELECT group_concat(tag, ' ') FROM tags WHERE dataset_id = new.dataset_id)
			WHERE rowid = new.dataset_id;
		END`,

		`CREATE TRIGGER IF NOT EXISTS trg_tags_ad AFTER DELETE ON tags BEGIN
			UPDATE dataset_search
			SET tags = (SELECT coalesce(group_concat(tag, ' '), '') FROM tags WHERE dataset_id = old.dataset_id)
			WHERE rowid = old.dataset_id;
		END`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("init search index: %w", err)
		}
	}
	return nil
}

// Search runs an FTS5 MATCH query against dataset_search and returns hits
// ordered by descending relevance (ascending bm25 rank).
func Search(db *sql.DB, query string, limit int) ([]catalog.SearchHit, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Query(`
		SELECT d.name, d.path, d.domain, d.owner, bm25(dataset_search) AS rank
		FROM dataset_search
		JOIN datasets d ON d.id = dataset_search.rowid
		WHERE dataset_search MATCH ?
		ORDER BY rank
		LIMIT ?
	`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("fts search: %w", err)
	}
	defer rows.Close()

	var hits []catalog.SearchHit
	for rows.Next() {
		var h catalog.SearchHit
		if err := rows.Scan(&h.Name, &h.Path, &h.Domain, &h.Owner, &h.Rank); err != nil {
			return nil, fmt.Errorf("fts search scan: %w", err)
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}
