package handler

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/idtoken"

	"pricetracker/config"
	"pricetracker/internal/domain/service"
	"pricetracker/internal/infra/pubsub"
)

func newTestHandler(buf *bytes.Buffer) *PushHandler {
	cfg := &config.Config{}

	return NewPushHandler(PushHandlerParams{
		Config: cfg,
		Logger: slog.New(slog.NewJSONHandler(buf, nil)),
	})
}

func pushBody(t *testing.T, event any, attributes map[string]string) string {
	t.Helper()

	data, err := json.Marshal(event)
	require.NoError(t, err)

	var msg pubsub.PushMessage
	msg.Message.Data = base64.StdEncoding.EncodeToString(data)
	msg.Message.MessageID = "msg-1"
	msg.Message.Attributes = attributes
	msg.Subscription = "projects/local/subscriptions/user-events"

	body, err := json.Marshal(msg)
	require.NoError(t, err)

	return string(body)
}

func serve(h *PushHandler, body string, mutate ...func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/events", bytes.NewBufferString(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, fn := range mutate {
		fn(req)
	}
	rec := httptest.NewRecorder()
	_ = h.HandlePush(echo.New().NewContext(req, rec))

	return rec
}

func TestHandlePush(t *testing.T) {
	event := &service.UserEvent{
		RequestID:  "req-from-event",
		Type:       service.UserEventSignedUp,
		UserID:     "0190f0a0-0000-7000-8000-000000000001",
		Provider:   "local",
		OccurredAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}

	t.Run("logs a known event", func(t *testing.T) {
		var buf bytes.Buffer
		rec := serve(newTestHandler(&buf), pushBody(t, event, map[string]string{"request_id": "req-from-attr"}))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, buf.String(), "User event received")
		assert.Contains(t, buf.String(), `"request_id":"req-from-attr"`)
		assert.Contains(t, buf.String(), `"type":"user.signed_up"`)
	})

	t.Run("falls back to the payload request id", func(t *testing.T) {
		var buf bytes.Buffer
		rec := serve(newTestHandler(&buf), pushBody(t, event, nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, buf.String(), `"request_id":"req-from-event"`)
	})

	t.Run("acknowledges unknown types", func(t *testing.T) {
		var buf bytes.Buffer
		rec := serve(newTestHandler(&buf), pushBody(t, map[string]string{"type": "user.deleted"}, nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, buf.String(), "Ignoring unknown user event type")
	})

	t.Run("rejects undecodable data", func(t *testing.T) {
		var buf bytes.Buffer
		rec := serve(newTestHandler(&buf), `{"message":{"data":"%%%","messageId":"m"}}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects a malformed body", func(t *testing.T) {
		var buf bytes.Buffer
		rec := serve(newTestHandler(&buf), `{`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandlePush_VerifiesGoogleTokens(t *testing.T) {
	body := pushBody(t, &service.UserEvent{Type: service.UserEventFederatedLinked}, nil)

	newVerifying := func(payload *idtoken.Payload, err error) (*PushHandler, *string) {
		var gotAudience string
		h := newTestHandler(&bytes.Buffer{})
		h.verifyPushAuth = true
		h.validate = func(_ context.Context, _ string, audience string) (*idtoken.Payload, error) {
			gotAudience = audience

			return payload, err
		}

		return h, &gotAudience
	}
	withToken := func(req *http.Request) {
		req.Header.Set(echo.HeaderAuthorization, "Bearer push-token")
	}

	t.Run("missing header", func(t *testing.T) {
		h, _ := newVerifying(&idtoken.Payload{Issuer: "accounts.google.com"}, nil)

		assert.Equal(t, http.StatusUnauthorized, serve(h, body).Code)
	})

	t.Run("valid token", func(t *testing.T) {
		h, audience := newVerifying(&idtoken.Payload{Issuer: "https://accounts.google.com"}, nil)

		assert.Equal(t, http.StatusOK, serve(h, body, withToken).Code)
		assert.Equal(t, "http://example.com/events", *audience)
	})

	t.Run("configured audience", func(t *testing.T) {
		h, audience := newVerifying(&idtoken.Payload{Issuer: "accounts.google.com"}, nil)
		h.audience = "https://worker.example/events"

		assert.Equal(t, http.StatusOK, serve(h, body, withToken).Code)
		assert.Equal(t, "https://worker.example/events", *audience)
	})

	t.Run("foreign issuer", func(t *testing.T) {
		h, _ := newVerifying(&idtoken.Payload{Issuer: "https://evil.example"}, nil)

		assert.Equal(t, http.StatusUnauthorized, serve(h, body, withToken).Code)
	})

	t.Run("unverified email", func(t *testing.T) {
		h, _ := newVerifying(&idtoken.Payload{
			Issuer: "accounts.google.com",
			Claims: map[string]any{"email_verified": false},
		}, nil)

		assert.Equal(t, http.StatusUnauthorized, serve(h, body, withToken).Code)
	})

	t.Run("validation failure", func(t *testing.T) {
		h, _ := newVerifying(nil, io.ErrUnexpectedEOF)

		assert.Equal(t, http.StatusUnauthorized, serve(h, body, withToken).Code)
	})
}

func TestNewPushHandler_VerifiesOnlyGoogleInProduction(t *testing.T) {
	cfg := &config.Config{PubSub: &config.PubSubConfig{Provider: config.PubSubProviderGoogle}}
	cfg.Env.Env = config.EnvProduction
	assert.True(t, NewPushHandler(PushHandlerParams{Config: cfg, Logger: slog.Default()}).verifyPushAuth)

	cfg.PubSub.Provider = config.PubSubProviderLocal
	assert.False(t, NewPushHandler(PushHandlerParams{Config: cfg, Logger: slog.Default()}).verifyPushAuth)
}
