package handler

import (
	"log/slog"
	"net/http"

	"blogapi/internal/domain/services"
	"blogapi/internal/httputil"
)

// PostHandler handles post HTTP requests
type PostHandler struct {
	postService services.PostService
	logger      *slog.Logger
}

// NewPostHandler creates a new post handler
func NewPostHandler(postService services.PostService, logger *slog.Logger) *PostHandler {
	return &PostHandler{
		postService: postService,
		logger:      logger,
	}
}

// ListPosts returns posts newest first
// GET /api/v1/posts/
func (h *PostHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.postService.List(r.Context(), httputil.GetPrincipal(r))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, posts)
}

// CreatePost creates a post owned by the caller.
// Any owner in the payload is ignored.
// POST /api/v1/posts/
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	if err := h.postService.Authorize(r.Context(), httputil.GetPrincipal(r), services.OpCreate, 0); err != nil {
		handleError(w, h.logger, err)
		return
	}

	var req services.PostInput
	if !decodeBody(w, r, &req) {
		return
	}

	post, err := h.postService.Create(r.Context(), httputil.GetPrincipal(r), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, post)
}

// GetPost retrieves a post by ID
// GET /api/v1/posts/{id}/
func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	post, err := h.postService.Retrieve(r.Context(), httputil.GetPrincipal(r), id)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, post)
}

// UpdatePost updates title, body or categories
// PUT|PATCH /api/v1/posts/{id}/
func (h *PostHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.postService.Authorize(r.Context(), httputil.GetPrincipal(r), updateOp(r), id); err != nil {
		handleError(w, h.logger, err)
		return
	}

	var req services.PostInput
	if !decodeBody(w, r, &req) {
		return
	}

	post, err := h.postService.Update(r.Context(), httputil.GetPrincipal(r), id, &req, isPartial(r))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, post)
}

// DeletePost deletes a post and its comments
// DELETE /api/v1/posts/{id}/
func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.postService.Destroy(r.Context(), httputil.GetPrincipal(r), id); err != nil {
		handleError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
