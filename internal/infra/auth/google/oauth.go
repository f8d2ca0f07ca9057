package google

import (
	"context"
	"log/slog"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/oauth2"
	googleendpoint "golang.org/x/oauth2/google"

	"pricetracker/config"
	"pricetracker/internal/domain/service"
	"pricetracker/internal/errors"
)

// Scopes requested on the consent screen.
var Scopes = []string{"profile", "email"}

// ErrMissingIDToken is returned when the token endpoint response has no id_token.
var ErrMissingIDToken = errors.New("token response has no id_token")

// OAuthService drives Google's authorization-code flow.
type OAuthService struct {
	config   *oauth2.Config
	verifier service.IDTokenVerifier
	breaker  *gobreaker.CircuitBreaker[*oauth2.Token]
	logger   *slog.Logger
}

// NewOAuthService creates a new Google OAuth service
func NewOAuthService(cfg *config.Config, verifier service.IDTokenVerifier, logger *slog.Logger) service.OAuthService {
	return newOAuthService(cfg, verifier, logger, googleendpoint.Endpoint)
}

func newOAuthService(cfg *config.Config, verifier service.IDTokenVerifier, logger *slog.Logger, endpoint oauth2.Endpoint) *OAuthService {
	googleCfg := cfg.GoogleOAuth
	if googleCfg == nil {
		googleCfg = &config.GoogleOAuthConfig{}
	}

	return &OAuthService{
		config: &oauth2.Config{
			ClientID:     googleCfg.ClientID,
			ClientSecret: googleCfg.ClientSecret,
			RedirectURL:  googleCfg.RedirectURI,
			Scopes:       Scopes,
			Endpoint:     endpoint,
		},
		verifier: verifier,
		breaker:  newBreaker[*oauth2.Token]("google_token_exchange", cfg.CircuitBreaker, logger),
		logger:   logger,
	}
}

// AuthCodeURL builds the consent URL with offline access and the CSRF state.
func (s *OAuthService) AuthCodeURL(state string) (string, error) {
	if s.config.ClientID == "" || s.config.RedirectURL == "" {
		return "", service.ErrOAuthNotConfigured
	}

	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce), nil
}

// Exchange trades the authorization code for Google tokens and verifies the
// returned ID token.
func (s *OAuthService) Exchange(ctx context.Context, code string) (*service.OAuthUser, error) {
	if s.config.ClientID == "" || s.config.ClientSecret == "" {
		return nil, service.ErrOAuthNotConfigured
	}

	token, err := s.breaker.Execute(func() (*oauth2.Token, error) {
		return s.config.Exchange(ctx, code)
	})
	if err != nil {
		return nil, errors.Wrap(translateBreakerError(err), "exchange authorization code")
	}

	idToken, _ := token.Extra("id_token").(string)
	if idToken == "" {
		return nil, ErrMissingIDToken
	}

	user, err := s.verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, errors.Wrap(err, "verify exchanged id token")
	}

	s.logger.DebugContext(ctx, "Google authorization code exchanged", slog.String("google_id", user.ID))

	return user, nil
}
