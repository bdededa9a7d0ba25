// Package httpapi is the thin HTTP dispatcher over the catalog engine: it
// parses requests, calls the engine, and renders JSON. It carries no
// catalog business logic of its own.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"catalogcore/internal/engine"
	"catalogcore/internal/requestid"
)

// NewRouter builds the chi router exposing the read-only HTTP surface plus
// the emit endpoint, backed by eng.
func NewRouter(eng *engine.Engine, logger *slog.Logger) http.Handler {
	h := &handler{engine: eng, logger: logger}

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.health)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/datasets", h.listDatasets)
		r.Post("/datasets", h.emitDataset)
		r.Get("/datasets/{name}", h.getDataset)
		r.Get("/datasets/{name}/lineage", h.getLineage)
		r.Get("/search", h.search)
		r.Get("/stats", h.stats)
	})

	return r
}
