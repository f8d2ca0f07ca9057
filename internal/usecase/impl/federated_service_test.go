package impl

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pricetracker/internal/domain/entity"
	domainerrors "pricetracker/internal/domain/errors"
	"pricetracker/internal/domain/service"
)

func googleClaims() *service.OAuthUser {
	return &service.OAuthUser{
		ID:            "google-sub-123",
		Email:         "bob.builder@example.com",
		Name:          "Bob Builder",
		EmailVerified: true,
	}
}

func eventOfType(eventType string) any {
	return mock.MatchedBy(func(e *service.UserEvent) bool {
		return e.Type == eventType && e.Provider == "google"
	})
}

func TestFederatedService_TokenLogin_CreatesThenReuses(t *testing.T) {
	f := newAuthFixtures(t)
	ctx := context.Background()

	f.verifier.EXPECT().VerifyIDToken(mock.Anything, "id-token").Return(googleClaims(), nil).Twice()
	f.events.EXPECT().PublishUserEvent(mock.Anything, eventOfType(service.UserEventFederatedCreated)).Return(nil).Once()

	first, err := f.federated.GoogleTokenLogin(ctx, "id-token")
	require.NoError(t, err)
	assert.False(t, first.User.HasPassword())
	require.True(t, first.User.HasGoogleIdentity())
	assert.Equal(t, "google-sub-123", *first.User.GoogleID)
	assert.Equal(t, "Bob Builder", first.User.Name)
	assert.Equal(t, "bob.builder_1714564800000", first.User.Username)

	second, err := f.federated.GoogleTokenLogin(ctx, "id-token")
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, second.User.ID)
	assert.Equal(t, 1, f.store.Len())

	claims, err := f.tokens.ValidateAccessToken(second.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, claims.UserID)
}

func TestFederatedService_TokenLogin_LinksExistingEmail(t *testing.T) {
	f := newAuthFixtures(t)
	ctx := context.Background()

	hash, err := f.hasher.Hash("correct-horse")
	require.NoError(t, err)
	local := &entity.User{Email: "bob.builder@example.com", Username: "bob", Name: "Bob", PasswordHash: &hash}
	require.NoError(t, f.store.Users().Create(ctx, local))

	f.verifier.EXPECT().VerifyIDToken(mock.Anything, "id-token").Return(googleClaims(), nil)
	f.events.EXPECT().PublishUserEvent(mock.Anything, eventOfType(service.UserEventFederatedLinked)).Return(nil).Once()

	out, err := f.federated.GoogleTokenLogin(ctx, "id-token")
	require.NoError(t, err)
	assert.Equal(t, local.ID, out.User.ID)
	assert.Equal(t, 1, f.store.Len())

	stored, err := f.store.Users().FindByID(ctx, local.ID)
	require.NoError(t, err)
	assert.True(t, stored.HasPassword())
	require.True(t, stored.HasGoogleIdentity())
	assert.Equal(t, "google-sub-123", *stored.GoogleID)
	assert.Equal(t, "Bob", stored.Name)
}

func TestFederatedService_TokenLogin_EmailLinkedToAnotherSubject(t *testing.T) {
	f := newAuthFixtures(t)
	ctx := context.Background()

	other := "google-sub-other"
	require.NoError(t, f.store.Users().Create(ctx, &entity.User{
		Email: "bob.builder@example.com", Username: "bob", Name: "Bob", GoogleID: &other,
	}))

	f.verifier.EXPECT().VerifyIDToken(mock.Anything, "id-token").Return(googleClaims(), nil)

	_, err := f.federated.GoogleTokenLogin(ctx, "id-token")
	require.ErrorIs(t, err, domainerrors.ErrGoogleAccountTaken)

	stored, err := f.store.Users().FindByGoogleID(ctx, other)
	require.NoError(t, err)
	assert.Equal(t, "bob", stored.Username)
}

func TestFederatedService_TokenLogin_Errors(t *testing.T) {
	tests := []struct {
		name      string
		verifyErr error
		wantErr   error
		wantKind  domainerrors.Kind
	}{
		{
			name:      "rejected token",
			verifyErr: errors.New("audience mismatch"),
			wantErr:   domainerrors.ErrOAuthFailed,
			wantKind:  domainerrors.KindUpstream,
		},
		{
			name:      "breaker open",
			verifyErr: errors.Wrap(service.ErrOAuthUnavailable, "circuit open"),
			wantErr:   domainerrors.ErrOAuthUnavailable,
			wantKind:  domainerrors.KindUpstream,
		},
		{
			name:      "not configured",
			verifyErr: service.ErrOAuthNotConfigured,
			wantErr:   domainerrors.ErrOAuthNotConfigured,
			wantKind:  domainerrors.KindInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixtures(t)
			f.verifier.EXPECT().VerifyIDToken(mock.Anything, "id-token").Return(nil, tt.verifyErr)

			_, err := f.federated.GoogleTokenLogin(context.Background(), "id-token")
			require.ErrorIs(t, err, tt.wantErr)

			appErr, ok := domainerrors.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantKind, appErr.Kind())
			assert.Equal(t, 0, f.store.Len())
		})
	}
}

func TestFederatedService_TokenLogin_MissingToken(t *testing.T) {
	f := newAuthFixtures(t)

	_, err := f.federated.GoogleTokenLogin(context.Background(), "  ")
	require.ErrorIs(t, err, domainerrors.ErrIDTokenRequired)

	appErr, ok := domainerrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.HTTPCode())
}

func TestFederatedService_GoogleAuthURL(t *testing.T) {
	f := newAuthFixtures(t)
	ctx := context.Background()

	f.states.EXPECT().Issue(ctx).Return("state-1", nil)
	f.oauth.EXPECT().AuthCodeURL("state-1").Return("https://accounts.google.com/o/oauth2/auth?state=state-1", nil)

	authURL, err := f.federated.GoogleAuthURL(ctx)
	require.NoError(t, err)
	assert.Contains(t, authURL, "state=state-1")
}

func TestFederatedService_GoogleAuthURL_NotConfigured(t *testing.T) {
	f := newAuthFixtures(t)
	ctx := context.Background()

	f.states.EXPECT().Issue(ctx).Return("state-1", nil)
	f.oauth.EXPECT().AuthCodeURL("state-1").Return("", service.ErrOAuthNotConfigured)

	_, err := f.federated.GoogleAuthURL(ctx)
	assert.ErrorIs(t, err, domainerrors.ErrOAuthNotConfigured)
}

func TestFederatedService_GoogleCallback(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		f := newAuthFixtures(t)
		ctx := context.Background()

		f.states.EXPECT().Consume(mock.Anything, "state-1").Return(nil)
		f.oauth.EXPECT().Exchange(mock.Anything, "code-1").Return(googleClaims(), nil)
		f.events.EXPECT().PublishUserEvent(mock.Anything, eventOfType(service.UserEventFederatedCreated)).Return(nil)

		out, err := f.federated.GoogleCallback(ctx, "code-1", "state-1")
		require.NoError(t, err)
		assert.Equal(t, "bob.builder@example.com", out.User.Email)
		assert.NotEmpty(t, out.Tokens.AccessToken)
	})

	t.Run("missing code", func(t *testing.T) {
		f := newAuthFixtures(t)

		_, err := f.federated.GoogleCallback(context.Background(), "", "state-1")
		assert.ErrorIs(t, err, domainerrors.ErrOAuthCodeMissing)
	})

	t.Run("invalid state never reaches google", func(t *testing.T) {
		f := newAuthFixtures(t)
		ctx := context.Background()

		f.states.EXPECT().Consume(mock.Anything, "forged").Return(service.ErrOAuthStateInvalid)

		_, err := f.federated.GoogleCallback(ctx, "code-1", "forged")
		assert.ErrorIs(t, err, domainerrors.ErrOAuthStateInvalid)
	})

	t.Run("exchange failure leaves store untouched", func(t *testing.T) {
		f := newAuthFixtures(t)
		ctx := context.Background()

		f.states.EXPECT().Consume(mock.Anything, "state-1").Return(nil)
		f.oauth.EXPECT().Exchange(mock.Anything, "code-1").Return(nil, errors.New("invalid_grant"))

		_, err := f.federated.GoogleCallback(ctx, "code-1", "state-1")
		assert.ErrorIs(t, err, domainerrors.ErrOAuthFailed)
		assert.Equal(t, 0, f.store.Len())
	})
}

func TestGenerateUsername(t *testing.T) {
	at := time.UnixMilli(1714564800000)

	assert.Equal(t, "bob_1714564800000", generateUsername("bob", at))

	long := generateUsername("averyveryverylongemailaddress", at)
	assert.Equal(t, "averyveryverylon_1714564800000", long)
	assert.LessOrEqual(t, len(long), 30)
	assert.True(t, strings.HasPrefix(long, "averyveryverylon_"))
}
