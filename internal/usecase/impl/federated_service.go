package impl

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
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

const (
	providerGoogle = "google"

	// usernamePrefixLen keeps generated usernames within 30 characters:
	// prefix + "_" + 13 digit Unix milliseconds.
	usernamePrefixLen = 16
)

// federatedService implements the FederatedUsecase interface.
type federatedService struct {
	txManager repository.TransactionManager
	oauth     service.OAuthService
	verifier  service.IDTokenVerifier
	states    service.OAuthStateStore
	tokens    service.TokenService
	events    service.EventPublisher
	tracer    trace.Tracer
	now       func() time.Time
	logger    *slog.Logger
}

// FederatedServiceParams holds dependencies for FederatedService, injected by Fx.
type FederatedServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	OAuth     service.OAuthService
	Verifier  service.IDTokenVerifier
	States    service.OAuthStateStore
	Tokens    service.TokenService
	Events    service.EventPublisher
	Logger    *slog.Logger
}

func NewFederatedService(params FederatedServiceParams) usecase.FederatedUsecase {
	return &federatedService{
		txManager: params.TxManager,
		oauth:     params.OAuth,
		verifier:  params.Verifier,
		states:    params.States,
		tokens:    params.Tokens,
		events:    params.Events,
		tracer:    tracing.Tracer(),
		now:       time.Now,
		logger:    params.Logger,
	}
}

func (srv *federatedService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *federatedService) GoogleAuthURL(ctx context.Context) (string, error) {
	state, err := srv.states.Issue(ctx)
	if err != nil {
		return "", domainerrors.NewInternalError(err, "failed to issue oauth state")
	}

	authURL, err := srv.oauth.AuthCodeURL(state)
	if err != nil {
		return "", translateOAuthError(err)
	}

	return authURL, nil
}

func (srv *federatedService) GoogleCallback(ctx context.Context, code, state string) (out *usecase.AuthOutput, err error) {
	ctx, span := srv.tracer.Start(ctx, "auth.GoogleCallback")
	defer func() {
		endSpan(span, err)
		metrics.ObserveAuthAttempt(metrics.OpGoogleCallback, err)
	}()

	if code == "" {
		return nil, domainerrors.ErrOAuthCodeMissing
	}

	if err := srv.states.Consume(ctx, state); err != nil {
		if errors.Is(err, service.ErrOAuthStateInvalid) {
			srv.log(ctx).Warn("Rejected OAuth callback with invalid state")

			return nil, domainerrors.ErrOAuthStateInvalid
		}

		return nil, domainerrors.NewInternalError(err, "failed to consume oauth state")
	}

	claims, err := srv.oauth.Exchange(ctx, code)
	if err != nil {
		srv.log(ctx).Warn("Google code exchange failed", slog.Any("error", err))

		return nil, translateOAuthError(err)
	}

	return srv.signIn(ctx, claims)
}

func (srv *federatedService) GoogleTokenLogin(ctx context.Context, idToken string) (out *usecase.AuthOutput, err error) {
	ctx, span := srv.tracer.Start(ctx, "auth.GoogleTokenLogin")
	defer func() {
		endSpan(span, err)
		metrics.ObserveAuthAttempt(metrics.OpGoogleToken, err)
	}()

	if strings.TrimSpace(idToken) == "" {
		return nil, domainerrors.ErrIDTokenRequired
	}

	claims, err := srv.verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		srv.log(ctx).Warn("Google ID token rejected", slog.Any("error", err))

		return nil, translateOAuthError(err)
	}

	return srv.signIn(ctx, claims)
}

// signIn reconciles verified claims with the store and issues tokens.
func (srv *federatedService) signIn(ctx context.Context, claims *service.OAuthUser) (*usecase.AuthOutput, error) {
	user, branch, err := srv.reconcile(ctx, claims)
	if err != nil {
		return nil, err
	}
	metrics.ObserveReconciliation(branch)
	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String("user.id", user.ID.String()),
		attribute.String("auth.reconcile_branch", branch),
	)

	tokens, err := srv.tokens.IssuePair(user.ID)
	if err != nil {
		return nil, domainerrors.NewInternalError(err, "failed to issue tokens")
	}

	switch branch {
	case metrics.BranchCreated:
		publishUserEvent(ctx, srv.events, srv.log(ctx), service.UserEventFederatedCreated, user, providerGoogle, srv.now())
	case metrics.BranchLinked:
		publishUserEvent(ctx, srv.events, srv.log(ctx), service.UserEventFederatedLinked, user, providerGoogle, srv.now())
	}

	return &usecase.AuthOutput{User: user, Tokens: tokens}, nil
}

// reconcile finds the account for a Google subject: an already linked user,
// else a user with the same email (which gets linked), else a new
// passwordless user. It runs in one store transaction.
func (srv *federatedService) reconcile(ctx context.Context, claims *service.OAuthUser) (*entity.User, string, error) {
	var (
		user   *entity.User
		branch string
	)

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()

		existing, err := userRepo.FindByGoogleID(ctx, claims.ID)
		if err == nil {
			user, branch = existing, metrics.BranchExisting

			return nil
		}
		if !errors.Is(err, repository.ErrUserNotFound) {
			return errors.Wrap(err, "failed to find user by google id")
		}

		byEmail, err := userRepo.FindByEmail(ctx, claims.Email)
		switch {
		case err == nil:
			if byEmail.HasGoogleIdentity() {
				// the email belongs to an account linked to a different Google subject
				return domainerrors.ErrGoogleAccountTaken.WithDetails("email already linked to another google account")
			}
			if err := userRepo.LinkGoogleID(ctx, byEmail.ID, claims.ID); err != nil {
				return err
			}
			googleID := claims.ID
			byEmail.GoogleID = &googleID
			user, branch = byEmail, metrics.BranchLinked

			return nil

		case errors.Is(err, repository.ErrUserNotFound):
			created := srv.newFederatedUser(claims)
			if err := userRepo.Create(ctx, created); err != nil {
				return err
			}
			user, branch = created, metrics.BranchCreated

			return nil

		default:
			return errors.Wrap(err, "failed to find user by email")
		}
	})
	if err != nil {
		srv.log(ctx).Error("Federated reconciliation failed", slog.Any("error", err))

		return nil, "", translateStoreError(err, "failed to reconcile federated identity")
	}

	srv.log(ctx).Info("Federated sign-in",
		slog.String("userID", user.ID.String()),
		slog.String("branch", branch),
	)

	return user, branch, nil
}

func (srv *federatedService) newFederatedUser(claims *service.OAuthUser) *entity.User {
	local := entity.EmailLocalPart(entity.NormalizeEmail(claims.Email))

	name := strings.TrimSpace(claims.Name)
	if name == "" {
		name = local
	}

	googleID := claims.ID

	return &entity.User{
		Email:    claims.Email,
		Username: generateUsername(local, srv.now()),
		Name:     name,
		GoogleID: &googleID,
	}
}

// generateUsername derives a username from an email local part. Two sign-ups
// from the same local part in the same millisecond collide; the second gets a
// username conflict.
func generateUsername(localPart string, at time.Time) string {
	prefix := []rune(localPart)
	if len(prefix) > usernamePrefixLen {
		prefix = prefix[:usernamePrefixLen]
	}

	return string(prefix) + "_" + strconv.FormatInt(at.UnixMilli(), 10)
}

// translateOAuthError maps provider failures onto application errors.
func translateOAuthError(err error) error {
	switch {
	case errors.Is(err, service.ErrOAuthNotConfigured):
		return domainerrors.ErrOAuthNotConfigured.WithDetails(err.Error())
	case errors.Is(err, service.ErrOAuthUnavailable):
		return domainerrors.ErrOAuthUnavailable.WithDetails(err.Error())
	default:
		return domainerrors.ErrOAuthFailed.WithDetails(err.Error())
	}
}
