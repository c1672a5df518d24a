package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"blogapi/internal/domain"
	"blogapi/internal/domain/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	issuer          = "blogapi"
	accessTokenType = "access"
)

// HMACAuthority signs and verifies HS256 access tokens with a shared secret.
type HMACAuthority struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger
}

var (
	_ JWTVerifier = (*HMACAuthority)(nil)
	_ TokenIssuer = (*HMACAuthority)(nil)
)

// NewHMACAuthority creates a signer/verifier pair for self-issued tokens.
func NewHMACAuthority(secret string, ttl time.Duration, logger *slog.Logger) (*HMACAuthority, error) {
	if secret == "" {
		return nil, errors.New("JWT secret cannot be empty")
	}
	if ttl <= 0 {
		return nil, errors.New("token ttl must be greater than zero")
	}
	return &HMACAuthority{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
		logger: logger,
	}, nil
}

// IssueAccessToken signs a token whose subject is the principal's user id.
func (a *HMACAuthority) IssueAccessToken(principal models.Principal) (string, error) {
	if !principal.IsAuthenticated {
		return "", errors.New("cannot issue a token for an anonymous principal")
	}

	now := a.now().UTC()
	claims := models.AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatInt(principal.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
			ID:        uuid.NewString(),
		},
		TokenType: accessTokenType,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken validates signature, issuer, expiry and token type.
func (a *HMACAuthority) VerifyToken(tokenString string) (*models.AccessClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.AccessClaims{},
		func(*jwt.Token) (any, error) { return a.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		a.logger.Debug("token parse failed", "error", err.Error())
		return nil, domain.ErrUnauthenticated
	}

	return checkClaims(token, a.logger)
}

func (a *HMACAuthority) Close() error { return nil }

// SubjectUserID parses the numeric user id carried in the subject claim.
func SubjectUserID(claims *models.AccessClaims) (int64, error) {
	id, err := strconv.ParseInt(claims.GetUserID(), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrUnauthenticated
	}
	return id, nil
}
