package handler

import (
	"log/slog"
	"net/http"

	"blogapi/internal/domain/services"
	"blogapi/internal/httputil"
)

// CategoryHandler handles category HTTP requests
type CategoryHandler struct {
	categoryService services.CategoryService
	logger          *slog.Logger
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(categoryService services.CategoryService, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		logger:          logger,
	}
}

// ListCategories returns every category
// GET /api/v1/categories/
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryService.List(r.Context(), httputil.GetPrincipal(r))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, categories)
}

// CreateCategory creates a category
// POST /api/v1/categories/
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.categoryService.Authorize(r.Context(), httputil.GetPrincipal(r), services.OpCreate, 0); err != nil {
		handleError(w, h.logger, err)
		return
	}

	var req services.CategoryInput
	if !decodeBody(w, r, &req) {
		return
	}

	category, err := h.categoryService.Create(r.Context(), httputil.GetPrincipal(r), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, category)
}

// GetCategory retrieves a category by ID
// GET /api/v1/categories/{id}/
func (h *CategoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	category, err := h.categoryService.Retrieve(r.Context(), httputil.GetPrincipal(r), id)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, category)
}

// UpdateCategory renames a category
// PUT|PATCH /api/v1/categories/{id}/
func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.categoryService.Authorize(r.Context(), httputil.GetPrincipal(r), updateOp(r), id); err != nil {
		handleError(w, h.logger, err)
		return
	}

	var req services.CategoryInput
	if !decodeBody(w, r, &req) {
		return
	}

	category, err := h.categoryService.Update(r.Context(), httputil.GetPrincipal(r), id, &req, isPartial(r))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, category)
}

// DeleteCategory deletes a category
// DELETE /api/v1/categories/{id}/
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.categoryService.Destroy(r.Context(), httputil.GetPrincipal(r), id); err != nil {
		handleError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
