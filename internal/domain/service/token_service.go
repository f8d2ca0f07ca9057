package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token types carried in the "type" claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims defines the custom claims for the JWT tokens.
type Claims struct {
	UserID uuid.UUID `json:"id"`
	Type   string    `json:"type"`
	jwt.RegisteredClaims
}

// TokenPair is the access/refresh token couple issued on login.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// TokenService issues and validates stateless session tokens.
type TokenService interface {
	// IssueAccessToken signs a short-lived access token for userID.
	IssueAccessToken(userID uuid.UUID) (string, error)

	// IssueRefreshToken signs a long-lived refresh token for userID.
	IssueRefreshToken(userID uuid.UUID) (string, error)

	// IssuePair signs both tokens.
	IssuePair(userID uuid.UUID) (*TokenPair, error)

	// ValidateAccessToken checks signature, expiry and token type.
	ValidateAccessToken(tokenString string) (*Claims, error)

	// ValidateRefreshToken checks a refresh token with the refresh secret.
	ValidateRefreshToken(tokenString string) (*Claims, error)

	AccessTTL() time.Duration
	RefreshTTL() time.Duration
}
