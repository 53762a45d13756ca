package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims defines the custom claims for access tokens. The subject is the member email.
type Claims struct {
	Roles    []string `json:"roles"`
	Provider string   `json:"provider,omitempty"`
	jwt.RegisteredClaims
}

// TokenService defines the interface for generating and validating JWTs.
type TokenService interface {
	// GenerateAccessToken signs an access token for email carrying the given authorities.
	GenerateAccessToken(email string, authorities []string, provider string) (token string, expiresAt time.Time, err error)

	// ValidateToken parses and verifies an access token.
	ValidateToken(tokenString string) (*Claims, error)
}
