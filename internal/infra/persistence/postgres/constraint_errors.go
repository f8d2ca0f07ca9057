package postgres

import (
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"pricetracker/internal/domain/repository"
	"pricetracker/internal/infra/persistence/model"
)

const pgUniqueViolation = "23505"

var constraintFields = map[string]string{
	model.ConstraintUsersEmail:    repository.FieldEmail,
	model.ConstraintUsersUsername: repository.FieldUsername,
	model.ConstraintUsersGoogleID: repository.FieldGoogleID,
}

// asConflict converts a unique violation into a *repository.ConflictError
// naming the colliding field.
func asConflict(err error) (*repository.ConflictError, bool) {
	if err == nil {
		return nil, false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code != pgUniqueViolation {
			return nil, false
		}

		return &repository.ConflictError{Field: fieldForConstraint(pgErr.ConstraintName, pgErr.Detail), Err: err}, true
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &repository.ConflictError{Field: fieldForConstraint("", err.Error()), Err: err}, true
	}

	return nil, false
}

// fieldForConstraint prefers the constraint name and falls back to the
// "Key (column)=(value)" detail text.
func fieldForConstraint(constraint, detail string) string {
	if field, ok := constraintFields[constraint]; ok {
		return field
	}

	lowered := strings.ToLower(detail)
	switch {
	case strings.Contains(lowered, "google_id"):
		return repository.FieldGoogleID
	case strings.Contains(lowered, "username"):
		return repository.FieldUsername
	case strings.Contains(lowered, "email"):
		return repository.FieldEmail
	default:
		return ""
	}
}
