// Package sessioncookie carries session tokens in HTTP-only cookies.
package sessioncookie

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"pricetracker/config"
	"pricetracker/internal/domain/service"
)

const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"

	sessionMaxAge    = 7 * 24 * time.Hour
	rememberMeMaxAge = 30 * 24 * time.Hour
)

// Writer sets and clears the auth cookie pair.
type Writer struct {
	secure bool
}

func NewWriter(cfg *config.Config) *Writer {
	return &Writer{secure: cfg.IsProduction()}
}

// AccessMaxAge is 30 days with rememberMe and 7 days otherwise.
func AccessMaxAge(rememberMe bool) time.Duration {
	if rememberMe {
		return rememberMeMaxAge
	}

	return sessionMaxAge
}

// Set writes both cookies. The refresh cookie always lives 30 days.
func (w *Writer) Set(c echo.Context, tokens *service.TokenPair, rememberMe bool) {
	c.SetCookie(w.cookie(AccessTokenCookie, tokens.AccessToken, AccessMaxAge(rememberMe)))
	c.SetCookie(w.cookie(RefreshTokenCookie, tokens.RefreshToken, rememberMeMaxAge))
}

// Clear expires both cookies.
func (w *Writer) Clear(c echo.Context) {
	for _, name := range []string{AccessTokenCookie, RefreshTokenCookie} {
		cookie := w.cookie(name, "", 0)
		cookie.MaxAge = -1
		cookie.Expires = time.Unix(0, 0)
		c.SetCookie(cookie)
	}
}

func (w *Writer) cookie(name, value string, maxAge time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   w.secure,
		SameSite: http.SameSiteStrictMode,
	}
}
