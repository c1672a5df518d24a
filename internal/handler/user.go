package handler

import (
	"log/slog"
	"net/http"

	"blogapi/internal/domain/services"
	"blogapi/internal/httputil"
)

// UserHandler handles user account HTTP requests
type UserHandler struct {
	userService services.UserService
	logger      *slog.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService services.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// ListUsers returns all accounts to any authenticated caller
// GET /api/v1/users/
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context(), httputil.GetPrincipal(r))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, users)
}

// CreateUser creates an account (admin only).
// Returns 201 if created, 200 with the existing account if the username is taken.
// POST /api/v1/users/
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	if err := h.userService.Authorize(r.Context(), httputil.GetPrincipal(r), services.OpCreate, 0); err != nil {
		handleError(w, h.logger, err)
		return
	}

	var req services.UserInput
	if !decodeBody(w, r, &req) {
		return
	}

	user, created, err := h.userService.Create(r.Context(), httputil.GetPrincipal(r), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	httputil.RespondJSON(w, status, user)
}

// GetUser retrieves an account; callers see only their own unless admin
// GET /api/v1/users/{id}/
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	user, err := h.userService.Retrieve(r.Context(), httputil.GetPrincipal(r), id)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, user)
}

// UpdateUser updates profile fields or password
// PUT|PATCH /api/v1/users/{id}/
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.userService.Authorize(r.Context(), httputil.GetPrincipal(r), updateOp(r), id); err != nil {
		handleError(w, h.logger, err)
		return
	}

	var req services.UserInput
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.userService.Update(r.Context(), httputil.GetPrincipal(r), id, &req, isPartial(r))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, user)
}

// DeleteUser deletes an account and everything it owns (admin only)
// DELETE /api/v1/users/{id}/
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.userService.Destroy(r.Context(), httputil.GetPrincipal(r), id); err != nil {
		handleError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
