package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Qwwn/capstone-sangar/pkg/httputil"
	"github.com/Qwwn/capstone-sangar/pkg/validator"

	"github.com/Qwwn/capstone-sangar/internal/asset"
	"github.com/Qwwn/capstone-sangar/internal/repository"
	"github.com/Qwwn/capstone-sangar/internal/service"
)

// FlowerHandler handles HTTP requests for catalog endpoints.
type FlowerHandler struct {
	catalog        *service.CatalogService
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewFlowerHandler creates a new flower HTTP handler.
func NewFlowerHandler(catalog *service.CatalogService, maxUploadBytes int64, logger *slog.Logger) *FlowerHandler {
	return &FlowerHandler{
		catalog:        catalog,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// --- Request DTOs ---

// CreateFlowerRequest is the multipart form payload for creating a flower.
// The cover image travels as a separate file part.
type CreateFlowerRequest struct {
	ID        string `json:"id" validate:"omitempty,max=128"`
	Name      string `json:"name" validate:"required,min=1,max=128"`
	LocalName string `json:"local_name" validate:"max=128"`
}

// UpdateFlowerRequest is the multipart form payload for updating a flower.
type UpdateFlowerRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=1,max=128"`
	LocalName *string `json:"local_name" validate:"omitempty,max=128"`
}

// --- Handlers ---

// ListFlowers handles GET /api/v1/flowers
func (h *FlowerHandler) ListFlowers(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseListFilter(w, r)
	if !ok {
		return
	}

	flowers, total, err := h.catalog.ListFlowers(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginatedResponse(flowers, total, filter.Page, filter.PerPage))
}

// ListSellerFlowers handles GET /api/v1/sellers/{sellerId}/flowers
func (h *FlowerHandler) ListSellerFlowers(w http.ResponseWriter, r *http.Request) {
	sellerID := chi.URLParam(r, "sellerId")

	filter, ok := parseListFilter(w, r)
	if !ok {
		return
	}

	flowers, total, err := h.catalog.ListSellerFlowers(r.Context(), sellerID, filter)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginatedResponse(flowers, total, filter.Page, filter.PerPage))
}

// GetSellerFlower handles GET /api/v1/sellers/{sellerId}/flowers/{id}
func (h *FlowerHandler) GetSellerFlower(w http.ResponseWriter, r *http.Request) {
	sellerID := chi.URLParam(r, "sellerId")
	id := chi.URLParam(r, "id")

	flower, err := h.catalog.GetSellerFlower(r.Context(), sellerID, id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: flower})
}

// CreateFlower handles POST /api/v1/sellers/{sellerId}/flowers
// The body is multipart/form-data: text fields plus an optional "cover" file.
func (h *FlowerHandler) CreateFlower(w http.ResponseWriter, r *http.Request) {
	sellerID := chi.URLParam(r, "sellerId")

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "failed to parse multipart form: " + err.Error()},
		})
		return
	}

	req := CreateFlowerRequest{
		ID:        r.FormValue("id"),
		Name:      r.FormValue("name"),
		LocalName: r.FormValue("local_name"),
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	cover, cleanup, ok := h.coverFromForm(w, r)
	if !ok {
		return
	}
	defer cleanup()

	flower, err := h.catalog.CreateFlower(r.Context(), sellerID, &service.CreateFlowerInput{
		ID:        req.ID,
		Name:      req.Name,
		LocalName: req.LocalName,
	}, cover)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: flower})
}

// UpdateFlower handles PUT /api/v1/sellers/{sellerId}/flowers/{id}
func (h *FlowerHandler) UpdateFlower(w http.ResponseWriter, r *http.Request) {
	sellerID := chi.URLParam(r, "sellerId")
	id := chi.URLParam(r, "id")

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "failed to parse multipart form: " + err.Error()},
		})
		return
	}

	var req UpdateFlowerRequest
	if r.Form.Has("name") {
		v := r.FormValue("name")
		req.Name = &v
	}
	if r.Form.Has("local_name") {
		v := r.FormValue("local_name")
		req.LocalName = &v
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	cover, cleanup, ok := h.coverFromForm(w, r)
	if !ok {
		return
	}
	defer cleanup()

	flower, err := h.catalog.UpdateFlower(r.Context(), sellerID, id, &service.UpdateFlowerInput{
		Name:      req.Name,
		LocalName: req.LocalName,
	}, cover)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: flower})
}

// DeleteFlower handles DELETE /api/v1/sellers/{sellerId}/flowers/{id}
func (h *FlowerHandler) DeleteFlower(w http.ResponseWriter, r *http.Request) {
	sellerID := chi.URLParam(r, "sellerId")
	id := chi.URLParam(r, "id")

	if err := h.catalog.DeleteFlower(r.Context(), sellerID, id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// coverFromForm extracts the optional "cover" file part. The third return is
// false when a response has already been written.
func (h *FlowerHandler) coverFromForm(w http.ResponseWriter, r *http.Request) (*asset.UploadInput, func(), bool) {
	file, header, err := r.FormFile("cover")
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, func() {}, true
		}
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid cover file: " + err.Error()},
		})
		return nil, nil, false
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return &asset.UploadInput{
		Filename:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
		Data:        file,
	}, func() { _ = file.Close() }, true
}

func parseListFilter(w http.ResponseWriter, r *http.Request) (repository.ListFilter, bool) {
	filter := repository.ListFilter{
		Page:    1,
		PerPage: 20,
	}

	if v := r.URL.Query().Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "page must be a valid positive integer"},
			})
			return filter, false
		}
		filter.Page = page
	}
	if v := r.URL.Query().Get("per_page"); v != "" {
		perPage, err := strconv.Atoi(v)
		if err != nil || perPage < 1 || perPage > 100 {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "per_page must be a valid integer between 1 and 100"},
			})
			return filter, false
		}
		filter.PerPage = perPage
	}

	return filter, true
}
