package context

import (
	"context"

	"github.com/labstack/echo/v4"

	"pricetracker/internal/domain/entity"
)

// SetUser attaches the authenticated user to the echo context and its identity
// to the request context.
func SetUser(c echo.Context, user *entity.User) {
	identity := user.Identity()

	c.Set(string(KeyUser), user)
	c.Set(string(KeyIdentity), identity)
	c.SetRequest(c.Request().WithContext(WithIdentity(c.Request().Context(), identity)))
}

// GetUser returns the authenticated user, if any.
func GetUser(c echo.Context) (*entity.User, bool) {
	user, ok := c.Get(string(KeyUser)).(*entity.User)

	return user, ok && user != nil
}

// GetIdentity returns the authenticated principal, if any.
func GetIdentity(c echo.Context) (*entity.Identity, bool) {
	identity, ok := c.Get(string(KeyIdentity)).(*entity.Identity)

	return identity, ok && identity != nil
}

// WithIdentity returns a new context carrying identity.
func WithIdentity(ctx context.Context, identity *entity.Identity) context.Context {
	return context.WithValue(ctx, KeyIdentity, identity)
}

// IdentityFromContext extracts the principal stored by WithIdentity.
func IdentityFromContext(ctx context.Context) (*entity.Identity, bool) {
	identity, ok := ctx.Value(KeyIdentity).(*entity.Identity)

	return identity, ok && identity != nil
}
