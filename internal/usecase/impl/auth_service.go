// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"

	deliverycontext "pricetracker/internal/delivery/context"
	"pricetracker/internal/domain/entity"
	domainerrors "pricetracker/internal/domain/errors"
	"pricetracker/internal/domain/repository"
	"pricetracker/internal/domain/service"
	"pricetracker/internal/errors"
	"pricetracker/internal/infra/metrics"
	"pricetracker/internal/infra/tracing"
	"pricetracker/internal/usecase"
)

// authService implements the AuthUsecase interface.
type authService struct {
	txManager repository.TransactionManager
	userRepo  repository.UserRepository
	hasher    service.PasswordHasher
	tokens    service.TokenService
	events    service.EventPublisher
	tracer    trace.Tracer
	now       func() time.Time
	logger    *slog.Logger
}

// AuthServiceParams holds dependencies for AuthService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	UserRepo  repository.UserRepository
	Hasher    service.PasswordHasher
	Tokens    service.TokenService
	Events    service.EventPublisher
	Logger    *slog.Logger
}

func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		txManager: params.TxManager,
		userRepo:  params.UserRepo,
		hasher:    params.Hasher,
		tokens:    params.Tokens,
		events:    params.Events,
		tracer:    tracing.Tracer(),
		now:       time.Now,
		logger:    params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Signup creates a local account and starts a session for it.
func (srv *authService) Signup(ctx context.Context, input *usecase.SignupInput) (out *usecase.AuthOutput, err error) {
	ctx, span := srv.tracer.Start(ctx, "auth.Signup")
	defer func() {
		endSpan(span, err)
		metrics.ObserveAuthAttempt(metrics.OpSignup, err)
	}()

	email := entity.NormalizeEmail(input.Email)

	taken, err := srv.userRepo.ExistsByEmailOrUsername(ctx, email, input.Username)
	if err != nil {
		return nil, domainerrors.NewInternalError(err, "failed to check existing accounts")
	}
	if taken != "" {
		srv.log(ctx).Info("Signup rejected, field already taken", slog.String("field", taken))

		return nil, conflictFor(taken)
	}

	hash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, domainerrors.NewInternalError(err, "failed to hash password")
	}

	name := input.Name
	if name == "" {
		name = input.Username
	}
	user := &entity.User{
		Email:        email,
		Username:     input.Username,
		Name:         name,
		PasswordHash: &hash,
	}

	// Two concurrent signups can both pass the check above; the unique
	// constraints decide and the loser gets the conflict.
	if err := srv.userRepo.Create(ctx, user); err != nil {
		return nil, translateStoreError(err, "failed to create user")
	}
	span.SetAttributes(attribute.String("user.id", user.ID.String()))

	tokens, err := srv.tokens.IssuePair(user.ID)
	if err != nil {
		return nil, domainerrors.NewInternalError(err, "failed to issue tokens")
	}

	srv.log(ctx).Info("User signed up", slog.String("userID", user.ID.String()))
	publishUserEvent(ctx, srv.events, srv.log(ctx), service.UserEventSignedUp, user, "local", srv.now())

	return &usecase.AuthOutput{User: user, Tokens: tokens}, nil
}

// Login authenticates by email or username and password. Unknown identifiers,
// federation-only accounts and wrong passwords are indistinguishable.
func (srv *authService) Login(ctx context.Context, input *usecase.LoginInput) (out *usecase.AuthOutput, err error) {
	ctx, span := srv.tracer.Start(ctx, "auth.Login")
	defer func() {
		endSpan(span, err)
		metrics.ObserveAuthAttempt(metrics.OpLogin, err)
	}()

	user, err := srv.userRepo.FindByEmailOrUsername(ctx, input.EmailOrUsername)
	if errors.Is(err, repository.ErrUserNotFound) {
		srv.log(ctx).Info("Login failed, unknown identifier")

		return nil, domainerrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, domainerrors.NewInternalError(err, "failed to look up user")
	}

	if !user.HasPassword() || !srv.hasher.Check(input.Password, *user.PasswordHash) {
		srv.log(ctx).Info("Login failed, password mismatch", slog.String("userID", user.ID.String()))

		return nil, domainerrors.ErrInvalidCredentials
	}

	tokens, err := srv.tokens.IssuePair(user.ID)
	if err != nil {
		return nil, domainerrors.NewInternalError(err, "failed to issue tokens")
	}

	return &usecase.AuthOutput{User: user, Tokens: tokens}, nil
}

// conflictFor maps a taken unique field onto its user-facing error.
func conflictFor(field string) error {
	switch field {
	case repository.FieldEmail:
		return domainerrors.ErrEmailTaken
	case repository.FieldUsername:
		return domainerrors.ErrUsernameTaken
	case repository.FieldGoogleID:
		return domainerrors.ErrGoogleAccountTaken
	default:
		return domainerrors.NewInternalError(nil, "unknown unique field "+field)
	}
}

// translateStoreError converts store failures into application errors.
// Application errors pass through untouched.
func translateStoreError(err error, details string) error {
	if _, ok := domainerrors.AsAppError(err); ok {
		return err
	}

	var conflict *repository.ConflictError
	if errors.As(err, &conflict) {
		return conflictFor(conflict.Field)
	}

	return domainerrors.NewInternalError(err, details)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// publishUserEvent publishes after the write committed. Failures are logged
// only.
func publishUserEvent(
	ctx context.Context,
	events service.EventPublisher,
	logger *slog.Logger,
	eventType string,
	user *entity.User,
	provider string,
	at time.Time,
) {
	if events == nil {
		return
	}

	event := &service.UserEvent{
		RequestID:  deliverycontext.GetRequestIDFromContext(ctx),
		Type:       eventType,
		UserID:     user.ID.String(),
		Email:      user.Email,
		Username:   user.Username,
		Provider:   provider,
		OccurredAt: at.UTC(),
	}
	if err := events.PublishUserEvent(ctx, event); err != nil {
		logger.Warn("Failed to publish user event",
			slog.String("type", eventType),
			slog.String("userID", event.UserID),
			slog.Any("error", err),
		)
	}
}
