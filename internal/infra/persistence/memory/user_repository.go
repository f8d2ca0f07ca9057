package memory

import (
	"context"

	"github.com/google/uuid"

	"pricetracker/internal/domain/entity"
	"pricetracker/internal/domain/repository"
)

type userRepo struct {
	s    *Store
	inTx bool
}

func (r *userRepo) lockWrites() func() {
	if r.inTx {
		return func() {}
	}
	r.s.writeMu.Lock()

	return r.s.writeMu.Unlock
}

func (r *userRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.byID(id)
}

func (r *userRepo) FindByEmailOrUsername(_ context.Context, identifier string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if id, ok := r.s.byEmail[entity.NormalizeEmail(identifier)]; ok {
		return r.byID(id)
	}
	if id, ok := r.s.byUsername[identifier]; ok {
		return r.byID(id)
	}

	return nil, repository.ErrUserNotFound
}

func (r *userRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.byIndex(r.s.byEmail, entity.NormalizeEmail(email))
}

func (r *userRepo) FindByGoogleID(_ context.Context, googleID string) (*entity.User, error) {
	return r.byIndex(r.s.byGoogleID, googleID)
}

func (r *userRepo) ExistsByEmailOrUsername(_ context.Context, email, username string) (string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if _, ok := r.s.byEmail[entity.NormalizeEmail(email)]; ok {
		return repository.FieldEmail, nil
	}
	if _, ok := r.s.byUsername[username]; ok {
		return repository.FieldUsername, nil
	}

	return "", nil
}

func (r *userRepo) Create(_ context.Context, user *entity.User) error {
	if !user.HasAuthMethod() {
		return repository.ErrNoAuthMethod
	}

	unlock := r.lockWrites()
	defer unlock()

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	email := entity.NormalizeEmail(user.Email)
	if _, ok := r.s.byEmail[email]; ok {
		return &repository.ConflictError{Field: repository.FieldEmail}
	}
	if _, ok := r.s.byUsername[user.Username]; ok {
		return &repository.ConflictError{Field: repository.FieldUsername}
	}
	if user.HasGoogleIdentity() {
		if _, ok := r.s.byGoogleID[*user.GoogleID]; ok {
			return &repository.ConflictError{Field: repository.FieldGoogleID}
		}
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.Must(uuid.NewV7())
	}
	now := r.s.now()
	user.Email = email
	user.CreatedAt = now
	user.UpdatedAt = now

	stored := copyUser(user)
	r.s.users[stored.ID] = stored
	r.s.byEmail[stored.Email] = stored.ID
	r.s.byUsername[stored.Username] = stored.ID
	if stored.HasGoogleIdentity() {
		r.s.byGoogleID[*stored.GoogleID] = stored.ID
	}

	return nil
}

func (r *userRepo) LinkGoogleID(_ context.Context, userID uuid.UUID, googleID string) error {
	unlock := r.lockWrites()
	defer unlock()

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	if owner, taken := r.s.byGoogleID[googleID]; taken && owner != userID {
		return &repository.ConflictError{Field: repository.FieldGoogleID}
	}

	if u.GoogleID != nil {
		delete(r.s.byGoogleID, *u.GoogleID)
	}
	linked := googleID
	u.GoogleID = &linked
	u.UpdatedAt = r.s.now()
	r.s.byGoogleID[googleID] = userID

	return nil
}

// byID must be called with mu held.
func (r *userRepo) byID(id uuid.UUID) (*entity.User, error) {
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return copyUser(u), nil
}

func (r *userRepo) byIndex(index map[string]uuid.UUID, key string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := index[key]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return r.byID(id)
}
