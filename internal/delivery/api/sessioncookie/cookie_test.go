package sessioncookie

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricetracker/config"
	"pricetracker/internal/domain/service"
)

func setCookies(t *testing.T, env string, rememberMe bool) map[string]*http.Cookie {
	t.Helper()

	cfg := &config.Config{}
	cfg.Env.Env = env

	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)
	NewWriter(cfg).Set(c, &service.TokenPair{AccessToken: "a", RefreshToken: "r"}, rememberMe)

	cookies := map[string]*http.Cookie{}
	for _, ck := range rec.Result().Cookies() {
		cookies[ck.Name] = ck
	}
	require.Len(t, cookies, 2)

	return cookies
}

func TestWriter_Set(t *testing.T) {
	cookies := setCookies(t, "development", false)

	access := cookies[AccessTokenCookie]
	assert.Equal(t, "a", access.Value)
	assert.Equal(t, 7*24*60*60, access.MaxAge)
	assert.Equal(t, "/", access.Path)
	assert.True(t, access.HttpOnly)
	assert.False(t, access.Secure)
	assert.Equal(t, http.SameSiteStrictMode, access.SameSite)

	refresh := cookies[RefreshTokenCookie]
	assert.Equal(t, "r", refresh.Value)
	assert.Equal(t, 30*24*60*60, refresh.MaxAge)
}

func TestWriter_SetRememberMe(t *testing.T) {
	cookies := setCookies(t, "development", true)
	assert.Equal(t, 30*24*60*60, cookies[AccessTokenCookie].MaxAge)
}

func TestWriter_SecureInProduction(t *testing.T) {
	cookies := setCookies(t, "production", false)
	assert.True(t, cookies[AccessTokenCookie].Secure)
	assert.True(t, cookies[RefreshTokenCookie].Secure)
}

func TestWriter_Clear(t *testing.T) {
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)
	NewWriter(&config.Config{}).Clear(c)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 2)
	for _, ck := range cookies {
		assert.Empty(t, ck.Value)
		assert.Equal(t, -1, ck.MaxAge)
	}
}
