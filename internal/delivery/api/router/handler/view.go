package handler

import (
	"time"

	"github.com/google/uuid"

	"pricetracker/internal/domain/entity"
)

// UserView is the public projection of a user. It never carries the
// password hash.
type UserView struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	Name         string    `json:"name"`
	GoogleLinked bool      `json:"googleLinked"`
	CreatedAt    time.Time `json:"createdAt"`
}

func newUserView(u *entity.User) *UserView {
	return &UserView{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		Name:         u.Name,
		GoogleLinked: u.HasGoogleIdentity(),
		CreatedAt:    u.CreatedAt,
	}
}

// SessionData is returned by every endpoint that starts a session.
type SessionData struct {
	User        *UserView `json:"user"`
	AccessToken string    `json:"accessToken"`
}
