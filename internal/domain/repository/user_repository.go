// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"pricetracker/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrUserNotFound is returned when no user matches a lookup.
var ErrUserNotFound = errors.New("user not found")

// ErrNoAuthMethod is returned when a user is persisted without a password hash
// or a federated identity.
var ErrNoAuthMethod = errors.New("user has no authentication method")

// Unique fields of a user record.
const (
	FieldEmail    = "email"
	FieldUsername = "username"
	FieldGoogleID = "googleId"
)

// ConflictError reports which unique field a write collided on.
type ConflictError struct {
	Field string
	Err   error
}

func (e *ConflictError) Error() string {
	if e.Err == nil {
		return "unique constraint violated on " + e.Field
	}

	return "unique constraint violated on " + e.Field + ": " + e.Err.Error()
}

func (e *ConflictError) Unwrap() error {
	return e.Err
}

// UserRepository is the credential store.
type UserRepository interface {
	// FindByID retrieves a single user by their unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByEmailOrUsername matches identifier against the email or the username.
	FindByEmailOrUsername(ctx context.Context, identifier string) (*entity.User, error)

	// FindByEmail retrieves a single user by their email address.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByGoogleID retrieves the user linked to a Google subject id.
	FindByGoogleID(ctx context.Context, googleID string) (*entity.User, error)

	// ExistsByEmailOrUsername returns the first unique field already taken, or "".
	ExistsByEmailOrUsername(ctx context.Context, email, username string) (string, error)

	// Create persists a new user. Uniqueness violations return *ConflictError.
	Create(ctx context.Context, user *entity.User) error

	// LinkGoogleID attaches a Google subject id to an existing user.
	LinkGoogleID(ctx context.Context, userID uuid.UUID, googleID string) error
}
