// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is an account of the price tracker. A user authenticates with a local
// password, a linked Google identity, or both.
type User struct {
	ID           uuid.UUID // Global unique identifier.
	Email        string    // Unique, compared case-insensitively.
	Username     string    // Unique, 3 to 30 characters.
	Name         string    // Display name.
	PasswordHash *string   // Nil for federation-only accounts.
	GoogleID     *string   // Google subject id, unique when present.
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPassword reports whether the account can log in with a local password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// HasGoogleIdentity reports whether a Google account is linked.
func (u *User) HasGoogleIdentity() bool {
	return u.GoogleID != nil && *u.GoogleID != ""
}

// HasAuthMethod reports whether at least one way to authenticate exists.
func (u *User) HasAuthMethod() bool {
	return u.HasPassword() || u.HasGoogleIdentity()
}

// Identity projects the fields attached to an authenticated request.
func (u *User) Identity() *Identity {
	return &Identity{
		UserID:       u.ID,
		Email:        u.Email,
		Username:     u.Username,
		Name:         u.Name,
		GoogleLinked: u.HasGoogleIdentity(),
	}
}

// Identity is the authenticated principal of a request.
type Identity struct {
	UserID       uuid.UUID
	Email        string
	Username     string
	Name         string
	GoogleLinked bool
}

// NormalizeEmail lowercases and trims an email address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// EmailLocalPart returns the portion of an email address before the '@'.
func EmailLocalPart(email string) string {
	local, _, found := strings.Cut(email, "@")
	if !found {
		return email
	}

	return local
}
