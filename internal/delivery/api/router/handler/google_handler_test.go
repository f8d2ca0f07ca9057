package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pricetracker/config"
	domainerrors "pricetracker/internal/domain/errors"
	mockUsecase "pricetracker/internal/mocks/usecase"
	"pricetracker/internal/usecase"
)

func newGoogleHandler(t *testing.T) (*GoogleHandler, *mockUsecase.MockFederatedUsecase) {
	t.Helper()

	federated := mockUsecase.NewMockFederatedUsecase(t)
	cfg := &config.Config{}
	cfg.Frontend.BaseURL = "http://app.example"

	return NewGoogleHandler(GoogleHandlerParams{
		Federated: federated,
		Cookies:   newTestCookies(),
		Config:    cfg,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}), federated
}

func TestGoogleHandler_AuthURL(t *testing.T) {
	h, federated := newGoogleHandler(t)
	federated.EXPECT().GoogleAuthURL(mock.Anything).Return("https://accounts.google.com/o/oauth2/auth?state=s", nil)

	c, rec := newJSONContext(newTestEcho(), http.MethodGet, "/api/v1/auth/google", "")

	require.NoError(t, h.AuthURL(c))

	var data map[string]string
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &data))
	assert.Equal(t, "https://accounts.google.com/o/oauth2/auth?state=s", data["authUrl"])
}

func TestGoogleHandler_AuthURL_NotConfigured(t *testing.T) {
	h, federated := newGoogleHandler(t)
	federated.EXPECT().GoogleAuthURL(mock.Anything).Return("", domainerrors.ErrOAuthNotConfigured)

	c, _ := newJSONContext(newTestEcho(), http.MethodGet, "/api/v1/auth/google", "")

	assert.ErrorIs(t, h.AuthURL(c), domainerrors.ErrOAuthNotConfigured)
}

func TestGoogleHandler_Callback(t *testing.T) {
	t.Run("success redirects with token and user", func(t *testing.T) {
		h, federated := newGoogleHandler(t)
		user := newTestUser()
		federated.EXPECT().GoogleCallback(mock.Anything, "code-1", "state-1").
			Return(&usecase.AuthOutput{User: user, Tokens: testTokens()}, nil)

		c, rec := newJSONContext(newTestEcho(), http.MethodGet, "/api/v1/auth/google/callback?code=code-1&state=state-1", "")

		require.NoError(t, h.Callback(c))
		assert.Equal(t, http.StatusFound, rec.Code)

		location, err := url.Parse(rec.Header().Get("Location"))
		require.NoError(t, err)
		assert.Equal(t, "app.example", location.Host)
		assert.Equal(t, "/auth/callback", location.Path)
		assert.Equal(t, "true", location.Query().Get("success"))
		assert.Equal(t, "access-token", location.Query().Get("token"))

		var view UserView
		require.NoError(t, json.Unmarshal([]byte(location.Query().Get("user")), &view))
		assert.Equal(t, user.ID, view.ID)

		assert.Contains(t, cookiesByName(rec), "accessToken")
	})

	t.Run("failure redirects with the error message", func(t *testing.T) {
		h, federated := newGoogleHandler(t)
		federated.EXPECT().GoogleCallback(mock.Anything, "", "state-1").Return(nil, domainerrors.ErrOAuthCodeMissing)

		c, rec := newJSONContext(newTestEcho(), http.MethodGet, "/api/v1/auth/google/callback?state=state-1", "")

		require.NoError(t, h.Callback(c))
		assert.Equal(t, http.StatusFound, rec.Code)

		location, err := url.Parse(rec.Header().Get("Location"))
		require.NoError(t, err)
		assert.Equal(t, "false", location.Query().Get("success"))
		assert.Equal(t, "Authorization code missing", location.Query().Get("error"))
		assert.Empty(t, location.Query().Get("token"))
		assert.Empty(t, cookiesByName(rec))
	})

	t.Run("unexpected errors use the generic message", func(t *testing.T) {
		h, federated := newGoogleHandler(t)
		federated.EXPECT().GoogleCallback(mock.Anything, "c", "s").Return(nil, io.ErrUnexpectedEOF)

		c, rec := newJSONContext(newTestEcho(), http.MethodGet, "/api/v1/auth/google/callback?code=c&state=s", "")

		require.NoError(t, h.Callback(c))

		location, err := url.Parse(rec.Header().Get("Location"))
		require.NoError(t, err)
		assert.Equal(t, "Google authentication failed", location.Query().Get("error"))
	})
}

func TestGoogleHandler_TokenLogin(t *testing.T) {
	t.Run("signs in with an id token", func(t *testing.T) {
		h, federated := newGoogleHandler(t)
		federated.EXPECT().GoogleTokenLogin(mock.Anything, "id-token").
			Return(&usecase.AuthOutput{User: newTestUser(), Tokens: testTokens()}, nil)

		c, rec := newJSONContext(newTestEcho(), http.MethodPost, "/api/v1/auth/google/token", `{"idToken":"id-token"}`)

		require.NoError(t, h.TokenLogin(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Google authentication successful", decodeEnvelope(t, rec).Message)
		assert.Contains(t, cookiesByName(rec), "refreshToken")
	})

	t.Run("missing token", func(t *testing.T) {
		h, federated := newGoogleHandler(t)
		federated.EXPECT().GoogleTokenLogin(mock.Anything, "").Return(nil, domainerrors.ErrIDTokenRequired)

		c, _ := newJSONContext(newTestEcho(), http.MethodPost, "/api/v1/auth/google/token", `{}`)

		assert.ErrorIs(t, h.TokenLogin(c), domainerrors.ErrIDTokenRequired)
	})
}

func TestHealthEndpoints(t *testing.T) {
	e := newTestEcho()

	c, rec := newJSONContext(e, http.MethodGet, "/", "")
	require.NoError(t, Index(c))
	assert.Contains(t, rec.Body.String(), `"auth":"/api/v1/auth"`)

	c, rec = newJSONContext(e, http.MethodGet, "/health", "")
	require.NoError(t, HealthCheck(c))
	assert.Contains(t, rec.Body.String(), `"status":"OK"`)
}
