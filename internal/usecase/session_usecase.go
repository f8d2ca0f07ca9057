package usecase

import (
	"context"

	"pricetracker/internal/domain/entity"
)

// SessionUsecase resolves the user behind an access token.
type SessionUsecase interface {
	// Authenticate validates an access token and loads its user. Any token
	// problem, including a user that no longer exists, is reported as an
	// invalid access token.
	Authenticate(ctx context.Context, accessToken string) (*entity.User, error)
}
