// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"pricetracker/internal/domain/entity"
	"pricetracker/internal/domain/service"
)

// --- Input DTOs ---

// SignupInput defines the data required to create a local account.
// Field format is validated by the delivery layer.
type SignupInput struct {
	Email    string
	Username string
	Password string
	Name     string
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	EmailOrUsername string
	Password        string
	RememberMe      bool
}

// --- Output DTOs ---

// AuthOutput is returned by every operation that starts a session.
type AuthOutput struct {
	User   *entity.User
	Tokens *service.TokenPair
}

// AuthUsecase covers local account signup and password login.
type AuthUsecase interface {
	Signup(ctx context.Context, input *SignupInput) (*AuthOutput, error)
	Login(ctx context.Context, input *LoginInput) (*AuthOutput, error)
}

// FederatedUsecase covers Google sign-in, both the redirect flow and the
// direct ID token flow.
type FederatedUsecase interface {
	// GoogleAuthURL returns the consent screen URL with a fresh CSRF state.
	GoogleAuthURL(ctx context.Context) (string, error)

	// GoogleCallback completes the redirect flow.
	GoogleCallback(ctx context.Context, code, state string) (*AuthOutput, error)

	// GoogleTokenLogin signs in with an ID token obtained by the client.
	GoogleTokenLogin(ctx context.Context, idToken string) (*AuthOutput, error)
}
