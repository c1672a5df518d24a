package models

import "github.com/golang-jwt/jwt/v5"

// AccessClaims is the claim set carried by access tokens.
// The subject is the decimal user id.
type AccessClaims struct {
	jwt.RegisteredClaims
	TokenType string `json:"token_type"`
}

// GetUserID returns the user ID from the JWT subject claim.
func (c *AccessClaims) GetUserID() string {
	return c.Subject
}
