package impl

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"pricetracker/config"
	"pricetracker/internal/domain/service"
	"pricetracker/internal/infra/auth"
	"pricetracker/internal/infra/persistence/memory"
	mockSvc "pricetracker/internal/mocks/service"
)

const testAccessSecret = "test-access-secret"

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestTokens(t *testing.T) service.TokenService {
	t.Helper()

	cfg := &config.Config{}
	cfg.SecretKey.Access = testAccessSecret
	tokens, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	return tokens
}

// authFixtures wires the services over the in-memory store with real hashing
// and tokens. Provider calls and events are mocked.
type authFixtures struct {
	store    *memory.Store
	hasher   service.PasswordHasher
	tokens   service.TokenService
	events   *mockSvc.MockEventPublisher
	oauth    *mockSvc.MockOAuthService
	verifier *mockSvc.MockIDTokenVerifier
	states   *mockSvc.MockOAuthStateStore

	auth      *authService
	federated *federatedService
	session   *sessionService
}

func newAuthFixtures(t *testing.T) *authFixtures {
	t.Helper()

	f := &authFixtures{
		store:    memory.NewStore(),
		hasher:   auth.NewBcryptHasherWithCost(bcrypt.MinCost),
		tokens:   newTestTokens(t),
		events:   mockSvc.NewMockEventPublisher(t),
		oauth:    mockSvc.NewMockOAuthService(t),
		verifier: mockSvc.NewMockIDTokenVerifier(t),
		states:   mockSvc.NewMockOAuthStateStore(t),
	}
	logger := newDiscardLogger()

	f.auth = NewAuthService(AuthServiceParams{
		TxManager: f.store,
		UserRepo:  f.store.Users(),
		Hasher:    f.hasher,
		Tokens:    f.tokens,
		Events:    f.events,
		Logger:    logger,
	}).(*authService)
	f.auth.now = func() time.Time { return fixedNow }

	f.federated = NewFederatedService(FederatedServiceParams{
		TxManager: f.store,
		OAuth:     f.oauth,
		Verifier:  f.verifier,
		States:    f.states,
		Tokens:    f.tokens,
		Events:    f.events,
		Logger:    logger,
	}).(*federatedService)
	f.federated.now = func() time.Time { return fixedNow }

	f.session = NewSessionService(SessionServiceParams{
		UserRepo: f.store.Users(),
		Tokens:   f.tokens,
		Logger:   logger,
	}).(*sessionService)

	return f
}
