package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"blogapi/internal/domain"
	"blogapi/internal/httputil"
)

// handleError converts domain errors to HTTP responses.
// Client-facing messages are fixed; wrapped detail stays in the logs.
func handleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var validationErr *domain.ValidationError

	switch {
	case errors.As(err, &validationErr):
		httputil.RespondValidationError(w, validationErr.Fields)
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthenticated):
		httputil.RespondError(w, http.StatusUnauthorized, domain.MsgNotAuthenticated)
	case errors.Is(err, domain.ErrForbidden):
		logger.Debug("permission denied", "error", err)
		httputil.RespondError(w, http.StatusForbidden, domain.MsgForbidden)
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, domain.MsgNotFound)
	default:
		logger.Error("request failed", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, domain.MsgServerError)
	}
}
