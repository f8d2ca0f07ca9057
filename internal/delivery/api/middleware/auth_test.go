package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pricetracker/internal/delivery/api/sessioncookie"
	deliverycontext "pricetracker/internal/delivery/context"
	"pricetracker/internal/domain/entity"
	domainerrors "pricetracker/internal/domain/errors"
	mockUsecase "pricetracker/internal/mocks/usecase"
)

func newRequestContext(req *http.Request) echo.Context {
	return echo.New().NewContext(req, httptest.NewRecorder())
}

// reached records whether the wrapped handler ran and with which user.
func reached(ran *bool, user **entity.User) echo.HandlerFunc {
	return func(c echo.Context) error {
		*ran = true
		*user, _ = deliverycontext.GetUser(c)

		return nil
	}
}

func TestExtractors(t *testing.T) {
	tests := []struct {
		name   string
		cookie string
		header string
		want   string
	}{
		{name: "none"},
		{name: "cookie", cookie: "from-cookie", want: "from-cookie"},
		{name: "bearer", header: "Bearer from-header", want: "from-header"},
		{name: "cookie wins", cookie: "from-cookie", header: "Bearer from-header", want: "from-cookie"},
		{name: "non bearer scheme", header: "Basic abc"},
		{name: "empty bearer", header: "Bearer "},
	}

	m := NewAuthMiddleware(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: sessioncookie.AccessTokenCookie, Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}

			assert.Equal(t, tt.want, m.extract(newRequestContext(req)))
		})
	}
}

func TestAuthenticate(t *testing.T) {
	user := &entity.User{ID: uuid.New(), Email: "ada@example.com", Username: "ada"}

	t.Run("no token", func(t *testing.T) {
		sessions := mockUsecase.NewMockSessionUsecase(t)
		var ran bool
		var got *entity.User

		err := NewAuthMiddleware(sessions).Authenticate(reached(&ran, &got))(
			newRequestContext(httptest.NewRequest(http.MethodGet, "/", nil)))

		assert.ErrorIs(t, err, domainerrors.ErrNoToken)
		assert.False(t, ran)
	})

	t.Run("valid token", func(t *testing.T) {
		sessions := mockUsecase.NewMockSessionUsecase(t)
		sessions.EXPECT().Authenticate(mock.Anything, "good").Return(user, nil)
		var ran bool
		var got *entity.User

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer good")
		c := newRequestContext(req)

		require.NoError(t, NewAuthMiddleware(sessions).Authenticate(reached(&ran, &got))(c))
		assert.True(t, ran)
		assert.Equal(t, user, got)

		identity, ok := deliverycontext.IdentityFromContext(c.Request().Context())
		require.True(t, ok)
		assert.Equal(t, user.ID, identity.UserID)
	})

	t.Run("invalid token", func(t *testing.T) {
		sessions := mockUsecase.NewMockSessionUsecase(t)
		sessions.EXPECT().Authenticate(mock.Anything, "bad").Return(nil, domainerrors.ErrInvalidAccessToken)
		var ran bool
		var got *entity.User

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: sessioncookie.AccessTokenCookie, Value: "bad"})

		err := NewAuthMiddleware(sessions).Authenticate(reached(&ran, &got))(newRequestContext(req))
		assert.ErrorIs(t, err, domainerrors.ErrInvalidAccessToken)
		assert.False(t, ran)
	})
}

func TestOptional(t *testing.T) {
	user := &entity.User{ID: uuid.New()}

	t.Run("anonymous", func(t *testing.T) {
		sessions := mockUsecase.NewMockSessionUsecase(t)
		var ran bool
		var got *entity.User

		err := NewAuthMiddleware(sessions).Optional(reached(&ran, &got))(
			newRequestContext(httptest.NewRequest(http.MethodGet, "/", nil)))

		require.NoError(t, err)
		assert.True(t, ran)
		assert.Nil(t, got)
	})

	t.Run("invalid token continues anonymously", func(t *testing.T) {
		sessions := mockUsecase.NewMockSessionUsecase(t)
		sessions.EXPECT().Authenticate(mock.Anything, "bad").Return(nil, domainerrors.ErrSessionUserGone)
		var ran bool
		var got *entity.User

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer bad")

		require.NoError(t, NewAuthMiddleware(sessions).Optional(reached(&ran, &got))(newRequestContext(req)))
		assert.True(t, ran)
		assert.Nil(t, got)
	})

	t.Run("valid token attaches the user", func(t *testing.T) {
		sessions := mockUsecase.NewMockSessionUsecase(t)
		sessions.EXPECT().Authenticate(mock.Anything, "good").Return(user, nil)
		var ran bool
		var got *entity.User

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer good")

		require.NoError(t, NewAuthMiddleware(sessions).Optional(reached(&ran, &got))(newRequestContext(req)))
		assert.Equal(t, user, got)
	})
}

func TestTokenOutcome(t *testing.T) {
	assert.Equal(t, "orphan", tokenOutcome(domainerrors.ErrSessionUserGone.WithDetails("x")))
	assert.Equal(t, "invalid", tokenOutcome(domainerrors.ErrInvalidAccessToken))
	assert.Equal(t, "error", tokenOutcome(domainerrors.NewInternalError(nil, "db down")))
}
