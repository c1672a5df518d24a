package app

import (
	"log/slog"
	"net/http"

	"blogapi/internal/auth"
	"blogapi/internal/handler"
	"blogapi/internal/middleware"
)

// HTTPDeps are the collaborators of the HTTP boundary.
// Issuer and Limiter may be nil.
type HTTPDeps struct {
	Services *Services
	Verifier auth.JWTVerifier
	Issuer   auth.TokenIssuer
	Limiter  *middleware.RateLimiter
	Metrics  *middleware.Metrics
	Logger   *slog.Logger
}

// NewHTTPHandler builds the routed handler with its middleware chain.
// Order, outermost first: Recovery → RequestLogger → Authenticate → Metrics → Routes.
// Metrics sits next to the mux so it sees the matched pattern.
func NewHTTPHandler(d HTTPDeps) http.Handler {
	routes := &handler.Routes{
		Categories: handler.NewCategoryHandler(d.Services.Categories, d.Logger),
		Posts:      handler.NewPostHandler(d.Services.Posts, d.Logger),
		Comments:   handler.NewCommentHandler(d.Services.Comments, d.Logger),
		Users:      handler.NewUserHandler(d.Services.Users, d.Logger),
	}
	if d.Issuer != nil {
		routes.Token = handler.NewTokenHandler(d.Services.Users, d.Issuer, d.Logger)
		if d.Limiter != nil {
			routes.TokenLimit = d.Limiter.Limit
		}
	}

	mux := http.NewServeMux()
	routes.Register(mux)

	var h http.Handler = mux
	if d.Metrics != nil {
		h = d.Metrics.Instrument(h)
	}
	h = middleware.Authenticate(d.Verifier, d.Services.Users, d.Logger)(h)

	// /metrics stays outside authentication
	outer := http.NewServeMux()
	if d.Metrics != nil {
		outer.Handle("GET /metrics", d.Metrics.Handler())
	}
	outer.Handle("/", h)

	var root http.Handler = outer
	root = middleware.RequestLogger(d.Logger)(root)
	root = middleware.Recovery(d.Logger)(root)
	return root
}
