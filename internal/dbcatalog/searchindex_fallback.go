//go:build !sqlite_fts5

package dbcatalog

import (
	"database/sql"
	"fmt"
	"strings"

	"catalogcore/internal/catalog"
)

// InitSearchIndex is a no-op when the driver was not built with FTS5
// support: Search below falls back to LIKE matching over the base tables,
// so no auxiliary index or triggers are needed.
func InitSearchIndex(db *sql.DB) error {
	return nil
}

// Search performs a substring match over name, path, domain, field names,
// and tags when the FTS5 extension is unavailable, returning hits ordered
// by name with a zero Rank. It supports only plain
// token containment, not the AND/OR/phrase/prefix grammar of the FTS5
// path; query sanitization upstream still applies the same length limits.
func Search(db *sql.DB, query string, limit int) ([]catalog.SearchHit, error) {
	if limit <= 0 {
		limit = 50
	}
	like := "%" + strings.ToLower(query) + "%"
	rows, err := db.Query(`
		SELECT DISTINCT d.name, d.path, d.domain, d.owner
		FROM datasets d
		LEFT JOIN fields f ON f.dataset_id = d.id
		LEFT JOIN tags t ON t.dataset_id = d.id
		WHERE lower(d.name) LIKE ?
		   OR lower(d.path) LIKE ?
		   OR lower(coalesce(d.domain, '')) LIKE ?
		   OR lower(coalesce(f.name, '')) LIKE ?
		   OR lower(coalesce(t.tag, '')) LIKE ?
		ORDER BY d.name
		LIMIT ?
	`, like, like, like, like, like, limit)
	if err != nil {
		return nil, fmt.Errorf("like search: %w", err)
	}
	defer rows.Close()

	var hits []catalog.SearchHit
	for rows.Next() {
		var h catalog.SearchHit
		if err := rows.Scan(&h.Name, &h.Path, &h.Domain, &h.Owner); err != nil {
			return nil, fmt.Errorf("like search scan: %w", err)
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}
