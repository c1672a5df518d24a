package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"blogapi/internal/auth"
	"blogapi/internal/domain"
	"blogapi/internal/domain/models"
	"blogapi/internal/domain/services"
	"blogapi/internal/httputil"
)

// Authenticate resolves the bearer token on each request into a principal.
// Requests without an Authorization header, or with a non-bearer scheme,
// continue as anonymous; the policy decides what they may do. A bearer token
// that fails verification, or names a user that no longer exists, is
// rejected with 401.
func Authenticate(verifier auth.JWTVerifier, authenticator services.Authenticator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			scheme, token, found := strings.Cut(header, " ")
			if header == "" || !found || !strings.EqualFold(scheme, "Bearer") {
				next.ServeHTTP(w, httputil.WithPrincipal(r, models.Anonymous()))
				return
			}

			claims, err := verifier.VerifyToken(strings.TrimSpace(token))
			if err != nil {
				httputil.RespondError(w, http.StatusUnauthorized, domain.MsgInvalidToken)
				return
			}

			userID, err := auth.SubjectUserID(claims)
			if err != nil {
				httputil.RespondError(w, http.StatusUnauthorized, domain.MsgInvalidToken)
				return
			}

			principal, err := authenticator.ResolvePrincipal(r.Context(), userID)
			if err != nil {
				if !errors.Is(err, domain.ErrUnauthenticated) {
					logger.Error("resolve principal", "user_id", userID, "error", err)
					httputil.RespondError(w, http.StatusInternalServerError, domain.MsgServerError)
					return
				}
				httputil.RespondError(w, http.StatusUnauthorized, domain.MsgInvalidToken)
				return
			}

			next.ServeHTTP(w, httputil.WithPrincipal(r, principal))
		})
	}
}
