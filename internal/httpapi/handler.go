package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/cryptadb/crypta/internal/auth"
	"github.com/cryptadb/crypta/internal/directory"
	"github.com/cryptadb/crypta/internal/domain"
	"github.com/cryptadb/crypta/internal/query"

	"go.uber.org/zap"
)

// DirectoryService is the slice of the directory service the HTTP layer
// needs.
type DirectoryService interface {
	FilterTree(ctx context.Context, grants []domain.Grant, base domain.EntityKind, filters map[string][]string) (*directory.FilterTree, error)
	Grid(ctx context.Context, grants []domain.Grant, base domain.EntityKind, filters map[string][]string, statBounds map[string]string) (*directory.Grid, error)
	Search(ctx context.Context, grants []domain.Grant, term string) (*directory.SearchResults, error)
}

type Handler struct {
	service DirectoryService
	logger  *zap.Logger
}

func NewHandler(service DirectoryService, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: service, logger: logger}
}

// reservedParams are query parameters with fixed meaning; everything else
// on the results endpoint is treated as a statistics bound.
var reservedParams = map[string]bool{
	"base":    true,
	"filters": true,
	"q":       true,
}

func (h *Handler) handleFilterTree(w http.ResponseWriter, r *http.Request) {
	base := domain.ParseEntityKind(r.URL.Query().Get("base"))
	filters := query.Normalize(r.URL.Query()["filters"])

	tree, err := h.service.FilterTree(r.Context(), auth.GrantsFromContext(r.Context()), base, filters)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tree)
}

// resultsResponse is the full database-page payload: the projected grid
// plus the filter tree describing the same filtered set.
type resultsResponse struct {
	Columns []domain.Column          `json:"columns"`
	Records []domain.ProjectedRecord `json:"records"`
	Facets  []domain.FacetEntry      `json:"filterTree"`
	Stats   []domain.StatInfo        `json:"statsInfo"`
}

func (h *Handler) handleResults(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	base := domain.ParseEntityKind(params.Get("base"))
	filters := query.Normalize(params["filters"])
	grants := auth.GrantsFromContext(r.Context())

	statBounds := make(map[string]string)
	for key, values := range params {
		if reservedParams[key] || len(values) == 0 {
			continue
		}
		statBounds[key] = values[0]
	}

	grid, err := h.service.Grid(r.Context(), grants, base, filters, statBounds)
	if err != nil {
		h.writeError(w, err)
		return
	}
	tree, err := h.service.FilterTree(r.Context(), grants, base, filters)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resultsResponse{
		Columns: grid.Columns,
		Records: grid.Records,
		Facets:  tree.Facets,
		Stats:   tree.Stats,
	})
}

// handleSearch answers one name search over both bases at once; each side
// is scoped by the caller's grants independently.
func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	term := strings.TrimSpace(r.URL.Query().Get("q"))
	if term == "" {
		http.Error(w, "q is required", http.StatusBadRequest)
		return
	}

	results, err := h.service.Search(r.Context(), auth.GrantsFromContext(r.Context()), term)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeError maps unknown field paths to 400 and everything else to 500;
// internal error details are logged, not leaked.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, query.ErrUnknownField) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.logger.Error("request failed", zap.Error(err))
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
