package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"pricetracker/internal/delivery/api/sessioncookie"
	deliverycontext "pricetracker/internal/delivery/context"
	domainerrors "pricetracker/internal/domain/errors"
	"pricetracker/internal/errors"
	"pricetracker/internal/infra/metrics"
	"pricetracker/internal/usecase"
)

const (
	modeRequired = "required"
	modeOptional = "optional"

	bearerPrefix = "Bearer "
)

// TokenExtractor pulls a raw access token from a request. It returns "" when
// the source carries none.
type TokenExtractor func(c echo.Context) string

// CookieExtractor reads the token from the named cookie.
func CookieExtractor(name string) TokenExtractor {
	return func(c echo.Context) string {
		cookie, err := c.Cookie(name)
		if err != nil {
			return ""
		}

		return cookie.Value
	}
}

// BearerExtractor reads "Authorization: Bearer <token>".
func BearerExtractor(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if !strings.HasPrefix(header, bearerPrefix) {
		return ""
	}

	return strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
}

// DefaultExtractors is the lookup order: the access cookie, then the
// Authorization header.
func DefaultExtractors() []TokenExtractor {
	return []TokenExtractor{
		CookieExtractor(sessioncookie.AccessTokenCookie),
		BearerExtractor,
	}
}

// AuthMiddleware resolves the session behind a request.
type AuthMiddleware struct {
	sessions   usecase.SessionUsecase
	extractors []TokenExtractor
}

func NewAuthMiddleware(sessions usecase.SessionUsecase) *AuthMiddleware {
	return &AuthMiddleware{
		sessions:   sessions,
		extractors: DefaultExtractors(),
	}
}

func (m *AuthMiddleware) extract(c echo.Context) string {
	for _, extract := range m.extractors {
		if token := extract(c); token != "" {
			return token
		}
	}

	return ""
}

// Authenticate rejects requests without a valid session.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := m.extract(c)
		if token == "" {
			metrics.ObserveTokenCheck(modeRequired, metrics.TokenMissing)

			return domainerrors.ErrNoToken
		}

		user, err := m.sessions.Authenticate(c.Request().Context(), token)
		if err != nil {
			metrics.ObserveTokenCheck(modeRequired, tokenOutcome(err))

			return err
		}

		metrics.ObserveTokenCheck(modeRequired, metrics.TokenValid)
		deliverycontext.SetUser(c, user)

		return next(c)
	}
}

// Optional attaches the session when one is valid and otherwise lets the
// request through anonymously.
func (m *AuthMiddleware) Optional(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := m.extract(c)
		if token == "" {
			metrics.ObserveTokenCheck(modeOptional, metrics.TokenMissing)

			return next(c)
		}

		user, err := m.sessions.Authenticate(c.Request().Context(), token)
		if err != nil {
			metrics.ObserveTokenCheck(modeOptional, tokenOutcome(err))

			return next(c)
		}

		metrics.ObserveTokenCheck(modeOptional, metrics.TokenValid)
		deliverycontext.SetUser(c, user)

		return next(c)
	}
}

func tokenOutcome(err error) string {
	switch {
	case errors.Is(err, domainerrors.ErrSessionUserGone):
		return metrics.TokenOrphan
	case errors.Is(err, domainerrors.ErrInvalidAccessToken):
		return metrics.TokenInvalid
	default:
		return metrics.TokenError
	}
}
