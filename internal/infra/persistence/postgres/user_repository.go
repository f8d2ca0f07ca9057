// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"pricetracker/internal/domain/entity"
	"pricetracker/internal/domain/repository"
	"pricetracker/internal/infra/persistence/model"
)

// userRepository implements repository.UserRepository on the users table.
type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (repo *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return repo.first(ctx, "find user by id", "id = ?", id)
}

func (repo *userRepository) FindByEmailOrUsername(ctx context.Context, identifier string) (*entity.User, error) {
	return repo.first(ctx, "find user by email or username",
		"email = ? OR username = ?", entity.NormalizeEmail(identifier), identifier)
}

func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return repo.first(ctx, "find user by email", "email = ?", entity.NormalizeEmail(email))
}

func (repo *userRepository) FindByGoogleID(ctx context.Context, googleID string) (*entity.User, error) {
	return repo.first(ctx, "find user by google id", "google_id = ?", googleID)
}

func (repo *userRepository) ExistsByEmailOrUsername(ctx context.Context, email, username string) (string, error) {
	var found []model.UserModel
	err := repo.db.WithContext(ctx).
		Select("email", "username").
		Where("email = ? OR username = ?", entity.NormalizeEmail(email), username).
		Limit(2).
		Find(&found).Error
	if err != nil {
		return "", errors.Wrap(err, "failed to check user uniqueness")
	}

	normalized := entity.NormalizeEmail(email)
	for _, m := range found {
		if m.Email == normalized {
			return repository.FieldEmail, nil
		}
	}
	if len(found) > 0 {
		return repository.FieldUsername, nil
	}

	return "", nil
}

func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	if !user.HasAuthMethod() {
		return repository.ErrNoAuthMethod
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.Must(uuid.NewV7())
	}
	user.Email = entity.NormalizeEmail(user.Email)

	userM := fromUserDomain(user)
	if err := repo.db.WithContext(ctx).Create(userM).Error; err != nil {
		if conflict, ok := asConflict(err); ok {
			return conflict
		}

		return errors.Wrap(err, "failed to create user")
	}

	user.CreatedAt = userM.CreatedAt
	user.UpdatedAt = userM.UpdatedAt

	return nil
}

func (repo *userRepository) LinkGoogleID(ctx context.Context, userID uuid.UUID, googleID string) error {
	result := repo.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("id = ?", userID).
		Updates(map[string]any{"google_id": googleID, "updated_at": time.Now()})
	if result.Error != nil {
		if conflict, ok := asConflict(result.Error); ok {
			return conflict
		}

		return errors.Wrap(result.Error, "failed to link google id")
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

func (repo *userRepository) first(ctx context.Context, op string, query string, args ...any) (*entity.User, error) {
	var userM model.UserModel
	if err := repo.db.WithContext(ctx).Where(query, args...).Take(&userM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to "+op)
	}

	return toUserDomain(&userM), nil
}

func toUserDomain(m *model.UserModel) *entity.User {
	return &entity.User{
		ID:           m.ID,
		Email:        m.Email,
		Username:     m.Username,
		Name:         m.Name,
		PasswordHash: m.PasswordHash,
		GoogleID:     m.GoogleID,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func fromUserDomain(u *entity.User) *model.UserModel {
	return &model.UserModel{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		GoogleID:     u.GoogleID,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}
