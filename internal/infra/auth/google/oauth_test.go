package google

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"pricetracker/internal/domain/service"
	mockSvc "pricetracker/internal/mocks/service"
)

func newTokenServer(t *testing.T, body string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.Form.Get("grant_type"))
		assert.Equal(t, "auth-code", r.Form.Get("code"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return srv
}

func TestOAuthService_AuthCodeURL(t *testing.T) {
	svc := newOAuthService(newGoogleConfig(), mockSvc.NewMockIDTokenVerifier(t), newDiscardLogger(), oauth2.Endpoint{
		AuthURL:  "https://accounts.google.com/o/oauth2/auth",
		TokenURL: "https://oauth2.googleapis.com/token",
	})

	raw, err := svc.AuthCodeURL("state-123")
	require.NoError(t, err)

	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	q := parsed.Query()

	assert.Equal(t, "accounts.google.com", parsed.Host)
	assert.Equal(t, testClientID, q.Get("client_id"))
	assert.Equal(t, "state-123", q.Get("state"))
	assert.Equal(t, "profile email", q.Get("scope"))
	assert.Equal(t, "offline", q.Get("access_type"))
	assert.Equal(t, "consent", q.Get("prompt"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "http://localhost:8000/api/v1/auth/google/callback", q.Get("redirect_uri"))
}

func TestOAuthService_AuthCodeURLNotConfigured(t *testing.T) {
	cfg := newGoogleConfig()
	cfg.GoogleOAuth.ClientID = ""

	svc := NewOAuthService(cfg, mockSvc.NewMockIDTokenVerifier(t), newDiscardLogger())

	_, err := svc.AuthCodeURL("state")
	assert.ErrorIs(t, err, service.ErrOAuthNotConfigured)
}

func TestOAuthService_Exchange(t *testing.T) {
	srv := newTokenServer(t, `{"access_token":"at","token_type":"Bearer","expires_in":3600,"id_token":"google-id-token"}`)

	verifier := mockSvc.NewMockIDTokenVerifier(t)
	verifier.EXPECT().
		VerifyIDToken(mock.Anything, "google-id-token").
		Return(&service.OAuthUser{ID: "sub-1", Email: "alice@example.com", EmailVerified: true}, nil)

	svc := newOAuthService(newGoogleConfig(), verifier, newDiscardLogger(), oauth2.Endpoint{
		AuthURL:  srv.URL + "/auth",
		TokenURL: srv.URL + "/token",
	})

	user, err := svc.Exchange(context.Background(), "auth-code")
	require.NoError(t, err)
	assert.Equal(t, "sub-1", user.ID)
}

func TestOAuthService_ExchangeWithoutIDToken(t *testing.T) {
	srv := newTokenServer(t, `{"access_token":"at","token_type":"Bearer","expires_in":3600}`)

	svc := newOAuthService(newGoogleConfig(), mockSvc.NewMockIDTokenVerifier(t), newDiscardLogger(), oauth2.Endpoint{
		TokenURL: srv.URL + "/token",
	})

	_, err := svc.Exchange(context.Background(), "auth-code")
	assert.ErrorIs(t, err, ErrMissingIDToken)
}

func TestOAuthService_ExchangeRejectedCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	t.Cleanup(srv.Close)

	svc := newOAuthService(newGoogleConfig(), mockSvc.NewMockIDTokenVerifier(t), newDiscardLogger(), oauth2.Endpoint{
		TokenURL: srv.URL + "/token",
	})

	_, err := svc.Exchange(context.Background(), "bad-code")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid_grant")
	assert.NotErrorIs(t, err, service.ErrOAuthUnavailable)
}

func TestOAuthService_ExchangeServerErrorOpensBreaker(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"backend_error"}`))
	}))
	t.Cleanup(srv.Close)

	svc := newOAuthService(newGoogleConfig(), mockSvc.NewMockIDTokenVerifier(t), newDiscardLogger(), oauth2.Endpoint{
		TokenURL: srv.URL + "/token",
	})

	for range 2 {
		_, err := svc.Exchange(context.Background(), "auth-code")
		require.ErrorIs(t, err, service.ErrOAuthUnavailable)
	}
	assert.Equal(t, gobreaker.StateOpen, svc.breaker.State())

	before := hits.Load()
	_, err := svc.Exchange(context.Background(), "auth-code")
	require.ErrorIs(t, err, service.ErrOAuthUnavailable)
	assert.Equal(t, before, hits.Load())
}
