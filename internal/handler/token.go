package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"blogapi/internal/auth"
	"blogapi/internal/domain"
	"blogapi/internal/domain/services"
	"blogapi/internal/httputil"
)

const msgBadCredentials = "No active account found with the given credentials"

// TokenHandler exchanges credentials for an access token
type TokenHandler struct {
	authenticator services.Authenticator
	issuer        auth.TokenIssuer
	logger        *slog.Logger
}

// NewTokenHandler creates a new token handler
func NewTokenHandler(authenticator services.Authenticator, issuer auth.TokenIssuer, logger *slog.Logger) *TokenHandler {
	return &TokenHandler{
		authenticator: authenticator,
		issuer:        issuer,
		logger:        logger,
	}
}

type tokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Access string `json:"access"`
}

// ObtainToken checks username and password and returns a signed access token
// POST /token/
func (h *TokenHandler) ObtainToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if !decodeBody(w, r, &req) {
		return
	}

	fields := map[string]string{}
	if req.Username == "" {
		fields["username"] = "This field is required."
	}
	if req.Password == "" {
		fields["password"] = "This field is required."
	}
	if len(fields) > 0 {
		httputil.RespondValidationError(w, fields)
		return
	}

	principal, err := h.authenticator.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthenticated) {
			h.logger.Info("token request rejected", "username", req.Username)
			httputil.RespondError(w, http.StatusUnauthorized, msgBadCredentials)
			return
		}
		handleError(w, h.logger, err)
		return
	}

	access, err := h.issuer.IssueAccessToken(principal)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, tokenResponse{Access: access})
}
