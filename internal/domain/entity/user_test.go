package entity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestUserAuthMethods(t *testing.T) {
	local := &User{PasswordHash: strPtr("$2a$10$hash")}
	assert.True(t, local.HasPassword())
	assert.False(t, local.HasGoogleIdentity())
	assert.True(t, local.HasAuthMethod())

	federated := &User{GoogleID: strPtr("google-sub")}
	assert.False(t, federated.HasPassword())
	assert.True(t, federated.HasAuthMethod())

	empty := &User{PasswordHash: strPtr("")}
	assert.False(t, empty.HasAuthMethod())
}

func TestUserIdentity(t *testing.T) {
	id := uuid.New()
	u := &User{ID: id, Email: "a@x.io", Username: "alice", Name: "Alice", GoogleID: strPtr("sub")}

	identity := u.Identity()
	assert.Equal(t, id, identity.UserID)
	assert.Equal(t, "alice", identity.Username)
	assert.True(t, identity.GoogleLinked)
}

func TestEmailHelpers(t *testing.T) {
	assert.Equal(t, "bob@x.io", NormalizeEmail("  Bob@X.io "))
	assert.Equal(t, "bob", EmailLocalPart("bob@x.io"))
	assert.Equal(t, "no-at-sign", EmailLocalPart("no-at-sign"))
}
