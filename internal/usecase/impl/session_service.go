package impl

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	deliverycontext "pricetracker/internal/delivery/context"
	"pricetracker/internal/domain/entity"
	domainerrors "pricetracker/internal/domain/errors"
	"pricetracker/internal/domain/repository"
	"pricetracker/internal/domain/service"
	"pricetracker/internal/errors"
	"pricetracker/internal/usecase"
)

// sessionService implements the SessionUsecase interface.
type sessionService struct {
	userRepo repository.UserRepository
	tokens   service.TokenService
	logger   *slog.Logger
}

type SessionServiceParams struct {
	fx.In

	UserRepo repository.UserRepository
	Tokens   service.TokenService
	Logger   *slog.Logger
}

func NewSessionService(params SessionServiceParams) usecase.SessionUsecase {
	return &sessionService{
		userRepo: params.UserRepo,
		tokens:   params.Tokens,
		logger:   params.Logger,
	}
}

func (srv *sessionService) Authenticate(ctx context.Context, accessToken string) (*entity.User, error) {
	claims, err := srv.tokens.ValidateAccessToken(accessToken)
	if err != nil {
		deliverycontext.GetLoggerOrDefault(ctx, srv.logger).Debug("Access token rejected", slog.Any("error", err))

		return nil, domainerrors.ErrInvalidAccessToken.WithDetails(err.Error())
	}

	user, err := srv.userRepo.FindByID(ctx, claims.UserID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, domainerrors.ErrSessionUserGone.WithDetails(claims.UserID.String())
	}
	if err != nil {
		return nil, domainerrors.NewInternalError(err, "failed to load session user")
	}

	return user, nil
}
