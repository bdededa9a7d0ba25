// Package query implements the read-only catalog operations: get-by-name,
// filtered list, full-text search, N-hop lineage traversal, and aggregate
// stats. None of these open the commit loop; they run against the shared
// read connection pool.
package query

import (
	"context"
	"database/sql"
	"fmt"

	"catalogcore/internal/catalog"
	"catalogcore/internal/catalogerr"
	"catalogcore/internal/dbcatalog"
	"catalogcore/internal/repository"
)

const (
	minTraverseDepth = 1
	maxTraverseDepth = 10
)

// Engine answers read-only catalog queries against readDB.
type Engine struct {
	readDB *sql.DB
}

// New builds a query Engine over a read connection pool.
func New(readDB *sql.DB) *Engine {
	return &Engine{readDB: readDB}
}

// Get returns the dataset record for name, including its fields in ordinal
// order and its tags and immediate upstream/downstream neighbor names,
// sorted. Fails with NotFound if name is absent.
func (e *Engine) Get(ctx context.Context, name string) (catalog.DatasetRecord, error) {
	dataset, err := repository.GetDatasetByName(ctx, e.readDB, name)
	if err != nil {
		return catalog.DatasetRecord{}, err
	}

	fields, err := repository.ListFields(ctx, e.readDB, dataset.ID)
	if err != nil {
		return catalog.DatasetRecord{}, err
	}
	tags, err := repository.ListTags(ctx, e.readDB, dataset.ID)
	if err != nil {
		return catalog.DatasetRecord{}, err
	}
	upstream, err := repository.UpstreamNames(ctx, e.readDB, dataset.ID)
	if err != nil {
		return catalog.DatasetRecord{}, err
	}
	downstream, err := repository.DownstreamNames(ctx, e.readDB, dataset.ID)
	if err != nil {
		return catalog.DatasetRecord{}, err
	}

	return catalog.DatasetRecord{
		Dataset:    dataset,
		Fields:     fields,
		Tags:       tags,
		Upstream:   upstream,
		Downstream: downstream,
	}, nil
}

// List returns dataset summaries matching filter, ordered by name.
func (e *Engine) List(ctx context.Context, filter catalog.ListFilter) ([]catalog.DatasetSummary, error) {
	return repository.ListDatasets(ctx, e.readDB, filter)
}

// Search sanitizes q for the FTS grammar and returns matching datasets,
// ordered by descending relevance when built with FTS5 and by name under
// the LIKE fallback.
func (e *Engine) Search(ctx context.Context, q string, limit int) ([]catalog.SearchHit, error) {
	sanitized, err := SanitizeFTSQuery(q)
	if err != nil {
		return nil, err
	}
	hits, err := dbcatalog.Search(e.readDB, sanitized, limit)
	if err != nil {
		return nil, catalogerr.Internal(err)
	}
	return hits, nil
}

// Stats computes aggregate counts plus the current version and last
// modification timestamp.
func (e *Engine) Stats(ctx context.Context) (catalog.Stats, error) {
	return repository.CollectStats(ctx, e.readDB)
}

// Traverse performs a breadth-first walk of the lineage graph from name in
// the given direction, up to maxDepth hops, guarded against cycles by a
// visited set. maxDepth must be in [1, 10].
func (e *Engine) Traverse(ctx context.Context, name string, dir catalog.Direction, maxDepth int) (catalog.TraversalResult, error) {
	if maxDepth < minTraverseDepth || maxDepth > maxTraverseDepth {
		return catalog.TraversalResult{}, catalogerr.InvalidArgument(
			"max_depth must be between %d and %d, got %d", minTraverseDepth, maxTraverseDepth, maxDepth)
	}

	startID, ok, err := repository.LookupDatasetID(ctx, e.readDB, name)
	if err != nil {
		return catalog.TraversalResult{}, err
	}
	if !ok {
		return catalog.TraversalResult{}, catalogerr.NotFound("dataset %q", name)
	}

	neighborsOf := repository.UpstreamEdges
	if dir == catalog.Downstream {
		neighborsOf = repository.DownstreamEdges
	}

	visited := map[int64]bool{startID: true}
	seenEdges := map[string]bool{}
	var nodes []string
	var edges []catalog.LineageEdge

	frontier := []catalog.NamedNode{{ID: startID, Name: name}}
	for depth := 0; depth < maxDepth && len(frontier) > 0; depth++ {
		var next []catalog.NamedNode
		for _, cur := range frontier {
			neighbors, err := neighborsOf(ctx, e.readDB, cur.ID)
			if err != nil {
				return catalog.TraversalResult{}, err
			}
			for _, nb := range neighbors {
				edge := edgeFor(dir, cur.ID, nb.ID)
				key := fmt.Sprintf("%d->%d", edge.UpstreamID, edge.DownstreamID)
				if !seenEdges[key] {
					seenEdges[key] = true
					edges = append(edges, edge)
				}
				if !visited[nb.ID] {
					visited[nb.ID] = true
					nodes = append(nodes, nb.Name)
					next = append(next, nb)
				}
			}
		}
		frontier = next
	}

	return catalog.TraversalResult{Nodes: nodes, Edges: edges}, nil
}

func edgeFor(dir catalog.Direction, current, neighbor int64) catalog.LineageEdge {
	if dir == catalog.Upstream {
		return catalog.LineageEdge{UpstreamID: neighbor, DownstreamID: current}
	}
	return catalog.LineageEdge{UpstreamID: current, DownstreamID: neighbor}
}
