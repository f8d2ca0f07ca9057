package service

import (
	"context"
	"errors"
)

var (
	// ErrOAuthStateInvalid is returned when a callback state is unknown, expired or reused.
	ErrOAuthStateInvalid = errors.New("oauth state invalid")
	// ErrOAuthUnavailable is returned when the provider circuit breaker is open.
	ErrOAuthUnavailable = errors.New("oauth provider unavailable")
	// ErrOAuthNotConfigured is returned when no client id is configured.
	ErrOAuthNotConfigured = errors.New("oauth provider not configured")
)

// OAuthUser holds the verified claims of a federated identity.
type OAuthUser struct {
	ID            string // Provider subject id (Google 'sub' claim)
	Email         string
	Name          string
	AvatarURL     string
	EmailVerified bool
}

// IDTokenVerifier verifies provider ID tokens.
type IDTokenVerifier interface {
	// VerifyIDToken checks signature, audience, issuer and expiry of idToken.
	VerifyIDToken(ctx context.Context, idToken string) (*OAuthUser, error)
}

// OAuthService drives the authorization-code flow with the identity provider.
type OAuthService interface {
	// AuthCodeURL builds the consent screen URL carrying state.
	AuthCodeURL(state string) (string, error)

	// Exchange trades an authorization code for tokens and returns the verified identity.
	Exchange(ctx context.Context, code string) (*OAuthUser, error)
}

// OAuthStateStore issues single-use CSRF state values for the redirect flow.
type OAuthStateStore interface {
	// Issue creates and stores a fresh state value.
	Issue(ctx context.Context) (string, error)

	// Consume removes state and returns ErrOAuthStateInvalid if it was unknown or expired.
	Consume(ctx context.Context, state string) error
}
