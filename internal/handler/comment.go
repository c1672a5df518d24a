package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"blogapi/internal/domain/models"
	"blogapi/internal/domain/services"
	"blogapi/internal/httputil"
)

// CommentHandler handles comment HTTP requests
type CommentHandler struct {
	commentService services.CommentService
	logger         *slog.Logger
}

// NewCommentHandler creates a new comment handler
func NewCommentHandler(commentService services.CommentService, logger *slog.Logger) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		logger:         logger,
	}
}

// ListComments returns comments oldest first, optionally for one post
// GET /api/v1/comments/?post={id}
func (h *CommentHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	principal := httputil.GetPrincipal(r)

	var (
		comments []models.Comment
		err      error
	)
	if raw := r.URL.Query().Get("post"); raw != "" {
		postID, parseErr := strconv.ParseInt(raw, 10, 64)
		if parseErr != nil || postID <= 0 {
			httputil.RespondValidationError(w, map[string]string{"post": "A valid integer is required."})
			return
		}
		comments, err = h.commentService.ListByPost(r.Context(), principal, postID)
	} else {
		comments, err = h.commentService.List(r.Context(), principal)
	}
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, comments)
}

// ListPostComments returns one post's comments oldest first
// GET /api/v1/posts/{id}/comments/
func (h *CommentHandler) ListPostComments(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r)
	if !ok {
		return
	}

	comments, err := h.commentService.ListByPost(r.Context(), httputil.GetPrincipal(r), postID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, comments)
}

// CreateComment creates a comment owned by the caller
// POST /api/v1/comments/
func (h *CommentHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	if err := h.commentService.Authorize(r.Context(), httputil.GetPrincipal(r), services.OpCreate, 0); err != nil {
		handleError(w, h.logger, err)
		return
	}

	var req services.CommentInput
	if !decodeBody(w, r, &req) {
		return
	}

	comment, err := h.commentService.Create(r.Context(), httputil.GetPrincipal(r), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, comment)
}

// GetComment retrieves a comment by ID
// GET /api/v1/comments/{id}/
func (h *CommentHandler) GetComment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	comment, err := h.commentService.Retrieve(r.Context(), httputil.GetPrincipal(r), id)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, comment)
}

// UpdateComment updates a comment body
// PUT|PATCH /api/v1/comments/{id}/
func (h *CommentHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.commentService.Authorize(r.Context(), httputil.GetPrincipal(r), updateOp(r), id); err != nil {
		handleError(w, h.logger, err)
		return
	}

	var req services.CommentInput
	if !decodeBody(w, r, &req) {
		return
	}

	comment, err := h.commentService.Update(r.Context(), httputil.GetPrincipal(r), id, &req, isPartial(r))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, comment)
}

// DeleteComment deletes a comment
// DELETE /api/v1/comments/{id}/
func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.commentService.Destroy(r.Context(), httputil.GetPrincipal(r), id); err != nil {
		handleError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
