package httpapi

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"catalogcore/internal/catalog"
	"catalogcore/internal/catalogerr"
	"catalogcore/internal/engine"
)

type handler struct {
	engine *engine.Engine
	logger *slog.Logger
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) listDatasets(w http.ResponseWriter, r *http.Request) {
	filter := catalog.ListFilter{
		Tenant: optionalQueryParam(r, "tenant"),
		Domain: optionalQueryParam(r, "domain"),
	}
	out, err := h.engine.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handler) getDataset(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	out, err := h.engine.Get(r.Context(), name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handler) getLineage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	dir := catalog.Upstream
	if r.URL.Query().Get("direction") == "downstream" {
		dir = catalog.Downstream
	}

	depth := 3
	if raw := r.URL.Query().Get("depth"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, catalogerr.InvalidArgument("depth must be an integer"))
			return
		}
		depth = parsed
	}

	out, err := h.engine.Traverse(r.Context(), name, dir, depth)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handler) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, catalogerr.InvalidArgument("q is required"))
		return
	}
	out, err := h.engine.Search(r.Context(), q, 50)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handler) stats(w http.ResponseWriter, r *http.Request) {
	out, err := h.engine.Stats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

type emitRequest struct {
	Name        string               `json:"name"`
	Path        string               `json:"path"`
	Format      string               `json:"format"`
	Tenant      *string              `json:"tenant,omitempty"`
	Domain      *string              `json:"domain,omitempty"`
	Owner       *string              `json:"owner,omitempty"`
	Description *string              `json:"description,omitempty"`
	RowCount    *int64               `json:"row_count,omitempty"`
	SizeBytes   *int64               `json:"size_bytes,omitempty"`
	Schema      []catalog.FieldInput `json:"schema"`
	Upstream    []string             `json:"upstream"`
	Tags        []string             `json:"tags"`
}

func (h *handler) emitDataset(w http.ResponseWriter, r *http.Request) {
	var req emitRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, catalogerr.InvalidArgument("invalid request body: %v", err))
		return
	}

	in := catalog.EmitInput{
		Name:        req.Name,
		Path:        req.Path,
		Format:      req.Format,
		Tenant:      req.Tenant,
		Domain:      req.Domain,
		Owner:       req.Owner,
		Description: req.Description,
		RowCount:    req.RowCount,
		SizeBytes:   req.SizeBytes,
		Schema:      req.Schema,
		Upstream:    req.Upstream,
		Tags:        req.Tags,
	}

	if err := h.engine.Emit(r.Context(), in); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func optionalQueryParam(r *http.Request, key string) *string {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil
	}
	return &v
}
