package service

import (
	"context"
	"time"
)

// User event types.
const (
	UserEventSignedUp         = "user.signed_up"
	UserEventFederatedCreated = "user.federated_created"
	UserEventFederatedLinked  = "user.federated_linked"
)

// UserEvent is published after an account is created or linked.
type UserEvent struct {
	RequestID  string    `json:"request_id,omitempty"`
	Type       string    `json:"type"`
	UserID     string    `json:"user_id"`
	Email      string    `json:"email"`
	Username   string    `json:"username"`
	Provider   string    `json:"provider"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishUserEvent publishes a user lifecycle event.
	PublishUserEvent(ctx context.Context, event *UserEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
