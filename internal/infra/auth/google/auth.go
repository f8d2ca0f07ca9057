package google

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/sony/gobreaker/v2"
	"google.golang.org/api/idtoken"

	"pricetracker/config"
	"pricetracker/internal/domain/service"
	"pricetracker/internal/errors"
)

// ErrIDTokenRejected is returned when a token parses but its claims are not acceptable.
var ErrIDTokenRejected = errors.New("google id token rejected")

var validIssuers = map[string]struct{}{
	"accounts.google.com":         {},
	"https://accounts.google.com": {},
}

// validateFunc matches idtoken.Validate.
type validateFunc func(ctx context.Context, idToken string, audience string) (*idtoken.Payload, error)

// IDTokenVerifier checks Google ID tokens against Google's published keys.
type IDTokenVerifier struct {
	clientID string
	validate validateFunc
	breaker  *gobreaker.CircuitBreaker[*idtoken.Payload]
	logger   *slog.Logger
}

// NewIDTokenVerifier creates the verifier used by both Google sign-in flows.
func NewIDTokenVerifier(cfg *config.Config, logger *slog.Logger) service.IDTokenVerifier {
	return newIDTokenVerifier(cfg, logger, idtoken.Validate)
}

func newIDTokenVerifier(cfg *config.Config, logger *slog.Logger, validate validateFunc) *IDTokenVerifier {
	var clientID string
	if cfg.GoogleOAuth != nil {
		clientID = cfg.GoogleOAuth.ClientID
	}

	return &IDTokenVerifier{
		clientID: clientID,
		validate: validate,
		breaker:  newBreaker[*idtoken.Payload]("google_idtoken", cfg.CircuitBreaker, logger),
		logger:   logger,
	}
}

// VerifyIDToken implements service.IDTokenVerifier.
func (v *IDTokenVerifier) VerifyIDToken(ctx context.Context, idToken string) (*service.OAuthUser, error) {
	if v.clientID == "" {
		return nil, service.ErrOAuthNotConfigured
	}

	payload, err := v.breaker.Execute(func() (*idtoken.Payload, error) {
		return v.validate(ctx, idToken, v.clientID)
	})
	if err != nil {
		err = translateBreakerError(err)
		if errors.Is(err, service.ErrOAuthUnavailable) || isUpstreamFailure(err) {
			return nil, errors.Wrap(err, "validate google id token")
		}

		return nil, errors.Wrap(ErrIDTokenRejected, err.Error())
	}

	user, err := v.userFromPayload(payload)
	if err != nil {
		v.logger.WarnContext(ctx, "Google ID token claims rejected", slog.Any("error", err))

		return nil, err
	}

	return user, nil
}

func (v *IDTokenVerifier) userFromPayload(payload *idtoken.Payload) (*service.OAuthUser, error) {
	if _, ok := validIssuers[payload.Issuer]; !ok {
		return nil, errors.Wrapf(ErrIDTokenRejected, "invalid issuer %q", payload.Issuer)
	}
	if payload.Audience != v.clientID {
		return nil, errors.Wrapf(ErrIDTokenRejected, "invalid audience %q", payload.Audience)
	}
	if payload.Subject == "" {
		return nil, errors.Wrap(ErrIDTokenRejected, "missing subject")
	}

	email := stringClaim(payload.Claims, "email")
	if email == "" {
		return nil, errors.Wrap(ErrIDTokenRejected, "missing email claim")
	}
	if !boolClaim(payload.Claims, "email_verified") {
		return nil, errors.Wrap(ErrIDTokenRejected, "email not verified")
	}

	return &service.OAuthUser{
		ID:            payload.Subject,
		Email:         email,
		Name:          stringClaim(payload.Claims, "name"),
		AvatarURL:     stringClaim(payload.Claims, "picture"),
		EmailVerified: true,
	}, nil
}

func stringClaim(claims map[string]any, key string) string {
	s, _ := claims[key].(string)

	return s
}

// boolClaim accepts both JSON booleans and the "true" string Google used historically.
func boolClaim(claims map[string]any, key string) bool {
	switch v := claims[key].(type) {
	case bool:
		return v
	case string:
		b, err := strconv.ParseBool(v)

		return err == nil && b
	default:
		return false
	}
}
