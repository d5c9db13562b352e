package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Qwwn/capstone-sangar/pkg/httputil"

	"github.com/Qwwn/capstone-sangar/internal/service"
)

// SearchHandler handles HTTP requests for catalog search endpoints.
type SearchHandler struct {
	search *service.SearchService
	logger *slog.Logger
}

// NewSearchHandler creates a new search HTTP handler.
func NewSearchHandler(search *service.SearchService, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{
		search: search,
		logger: logger,
	}
}

// Search handles GET /api/v1/flowers/search?q=term&seller_id=...
// An optional seller_id scopes the first search tier to that seller.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	if term == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "q is required"},
		})
		return
	}

	var scope *string
	if v := r.URL.Query().Get("seller_id"); v != "" {
		scope = &v
	}

	results, err := h.search.Search(r.Context(), term, scope)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: results})
}

// GetFlower handles GET /api/v1/flowers/{id}, resolving a flower by its
// global id enriched with its seller.
func (h *SearchHandler) GetFlower(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.search.FindByID(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}
