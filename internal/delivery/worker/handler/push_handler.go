package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"google.golang.org/api/idtoken"

	"pricetracker/config"
	deliverycontext "pricetracker/internal/delivery/context"
	"pricetracker/internal/domain/service"
	"pricetracker/internal/infra/metrics"
	"pricetracker/internal/infra/pubsub"
)

const (
	resultProcessed = "processed"
	resultRejected  = "rejected"
	resultIgnored   = "ignored"
)

// TokenValidator checks a Google-signed push token for audience.
type TokenValidator func(ctx context.Context, token, audience string) (*idtoken.Payload, error)

// PushHandler receives user events in the Pub/Sub push format and records
// them as audit log entries.
type PushHandler struct {
	verifyPushAuth bool
	audience       string
	validate       TokenValidator
	logger         *slog.Logger
}

// PushHandlerParams holds dependencies for the PushHandler
type PushHandlerParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// NewPushHandler creates a new Pub/Sub push handler. Push tokens are only
// checked for the Google provider in production.
func NewPushHandler(params PushHandlerParams) *PushHandler {
	verifyPushAuth := params.Config.PubSub != nil &&
		params.Config.PubSub.Provider == config.PubSubProviderGoogle &&
		params.Config.IsProduction()

	return &PushHandler{
		verifyPushAuth: verifyPushAuth,
		audience:       params.Config.Worker.PushAudience,
		validate:       idtoken.Validate,
		logger:         params.Logger,
	}
}

// HandlePush handles incoming Pub/Sub push messages. Malformed messages are
// answered with 400, unknown event types are acknowledged and skipped.
func (h *PushHandler) HandlePush(c echo.Context) error {
	ctx := c.Request().Context()
	logger := deliverycontext.GetLoggerOrDefault(ctx, h.logger)

	if h.verifyPushAuth {
		if err := h.verifyPushToken(c.Request()); err != nil {
			logger.Warn("[Worker] Invalid Pub/Sub token", slog.Any("error", err))

			return c.NoContent(http.StatusUnauthorized)
		}
	}

	var pushMsg pubsub.PushMessage
	if err := c.Bind(&pushMsg); err != nil {
		logger.Error("[Worker] Failed to parse push message", slog.Any("error", err))
		metrics.ObserveUserEventReceived("unknown", resultRejected)

		return c.NoContent(http.StatusBadRequest)
	}

	event, err := decodeUserEvent(&pushMsg)
	if err != nil {
		logger.Error("[Worker] Failed to decode user event",
			slog.String("message_id", pushMsg.Message.MessageID),
			slog.Any("error", err),
		)
		metrics.ObserveUserEventReceived("unknown", resultRejected)

		return c.NoContent(http.StatusBadRequest)
	}

	requestID := h.extractRequestID(ctx, &pushMsg, event)
	reqLogger := h.logger.With(slog.String("request_id", requestID))

	if !knownEventType(event.Type) {
		reqLogger.Warn("[Worker] Ignoring unknown user event type",
			slog.String("type", event.Type),
			slog.String("message_id", pushMsg.Message.MessageID),
		)
		metrics.ObserveUserEventReceived(event.Type, resultIgnored)

		return c.NoContent(http.StatusOK)
	}

	reqLogger.Info("[Worker] User event received",
		slog.String("type", event.Type),
		slog.String("user_id", event.UserID),
		slog.String("provider", event.Provider),
		slog.Time("occurred_at", event.OccurredAt),
		slog.String("message_id", pushMsg.Message.MessageID),
		slog.String("subscription", pushMsg.Subscription),
	)
	metrics.ObserveUserEventReceived(event.Type, resultProcessed)

	return c.NoContent(http.StatusOK)
}

func decodeUserEvent(pushMsg *pubsub.PushMessage) (*service.UserEvent, error) {
	data, err := base64.StdEncoding.DecodeString(pushMsg.Message.Data)
	if err != nil {
		return nil, errors.Wrap(err, "decode message data")
	}

	var event service.UserEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, errors.Wrap(err, "unmarshal user event")
	}
	if event.Type == "" {
		event.Type = pushMsg.Message.Attributes["type"]
	}

	return &event, nil
}

func knownEventType(eventType string) bool {
	switch eventType {
	case service.UserEventSignedUp, service.UserEventFederatedCreated, service.UserEventFederatedLinked:
		return true
	default:
		return false
	}
}

// extractRequestID prefers the message attribute, then the event payload,
// then the X-Request-Id of the push request itself.
func (h *PushHandler) extractRequestID(ctx context.Context, pushMsg *pubsub.PushMessage, event *service.UserEvent) string {
	if requestID := pushMsg.Message.Attributes["request_id"]; requestID != "" {
		return requestID
	}

	if event.RequestID != "" {
		return event.RequestID
	}

	if requestID := deliverycontext.GetRequestIDFromContext(ctx); requestID != "" {
		return requestID
	}

	return uuid.New().String()
}

// verifyPushToken validates the OIDC token Google attaches to push requests.
// Reference: https://cloud.google.com/pubsub/docs/push#authenticating_standard_push_requests
func (h *PushHandler) verifyPushToken(req *http.Request) error {
	authHeader := req.Header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		return errors.New("missing authorization header")
	}

	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return errors.New("invalid authorization header format")
	}
	token := strings.TrimPrefix(authHeader, bearerPrefix)

	audience := h.audience
	if audience == "" {
		scheme := "https"
		if req.TLS == nil {
			scheme = "http"
		}
		audience = fmt.Sprintf("%s://%s%s", scheme, req.Host, req.URL.Path)
	}

	payload, err := h.validate(req.Context(), token, audience)
	if err != nil {
		return errors.Wrap(err, "failed to validate token")
	}

	if payload.Issuer != "accounts.google.com" && payload.Issuer != "https://accounts.google.com" {
		return errors.Errorf("invalid issuer: %s", payload.Issuer)
	}

	if emailVerified, ok := payload.Claims["email_verified"].(bool); ok && !emailVerified {
		return errors.New("email not verified")
	}

	return nil
}
