// Package model holds the GORM persistence models. They are exported so the
// GORM Gen tool can generate query code from them.
package model

import (
	"time"

	"github.com/google/uuid"
)

// Unique constraint names on the users table.
const (
	ConstraintUsersEmail    = "users_email_key"
	ConstraintUsersUsername = "users_username_key"
	ConstraintUsersGoogleID = "users_google_id_key"
)

// UserModel mirrors the 'users' table.
type UserModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex:users_email_key"`
	Username     string    `gorm:"type:varchar(30);not null;uniqueIndex:users_username_key"`
	Name         string    `gorm:"type:varchar(100)"`
	PasswordHash *string   `gorm:"type:varchar(255)"`
	GoogleID     *string   `gorm:"column:google_id;type:varchar(255);uniqueIndex:users_google_id_key"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}
