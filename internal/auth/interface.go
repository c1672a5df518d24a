package auth

import "blogapi/internal/domain/models"

// JWTVerifier validates bearer tokens.
// This abstraction keeps the middleware agnostic to how keys are obtained.
type JWTVerifier interface {
	// VerifyToken validates a JWT token string and returns the parsed claims.
	// Returns domain.ErrUnauthenticated if the token is invalid, expired, or has an invalid signature.
	VerifyToken(tokenString string) (*models.AccessClaims, error)

	// Close releases any resources held by the verifier.
	Close() error
}

// TokenIssuer signs access tokens for authenticated principals.
type TokenIssuer interface {
	IssueAccessToken(principal models.Principal) (string, error)
}
