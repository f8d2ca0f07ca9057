// Package memory is an in-process credential store. It enforces the same
// uniqueness rules as the PostgreSQL schema and backs local runs and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"pricetracker/internal/domain/entity"
	"pricetracker/internal/domain/repository"
)

// Store holds users in maps keyed by each unique field.
type Store struct {
	writeMu sync.Mutex // serializes writers and transactions
	mu      sync.RWMutex

	users      map[uuid.UUID]*entity.User
	byEmail    map[string]uuid.UUID
	byUsername map[string]uuid.UUID
	byGoogleID map[string]uuid.UUID

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:      make(map[uuid.UUID]*entity.User),
		byEmail:    make(map[string]uuid.UUID),
		byUsername: make(map[string]uuid.UUID),
		byGoogleID: make(map[string]uuid.UUID),
		now:        time.Now,
	}
}

// Users returns a repository outside any transaction.
func (s *Store) Users() repository.UserRepository {
	return &userRepo{s: s}
}

// Execute runs fn with exclusive write access and restores the previous
// contents if fn fails or panics.
func (s *Store) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) (err error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	snap := s.snapshot()
	defer func() {
		if r := recover(); r != nil {
			s.restore(snap)
			panic(r)
		}
	}()

	if err = fn(&factory{repo: &userRepo{s: s, inTx: true}}); err != nil {
		s.restore(snap)
	}

	return err
}

// Len reports the number of stored users. It exists for tests asserting that a
// failed operation left the store untouched.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.users)
}

type factory struct {
	repo *userRepo
}

func (f *factory) NewUserRepository() repository.UserRepository {
	return f.repo
}

type snapshot struct {
	users      map[uuid.UUID]entity.User
	byEmail    map[string]uuid.UUID
	byUsername map[string]uuid.UUID
	byGoogleID map[string]uuid.UUID
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := snapshot{
		users:      make(map[uuid.UUID]entity.User, len(s.users)),
		byEmail:    cloneIndex(s.byEmail),
		byUsername: cloneIndex(s.byUsername),
		byGoogleID: cloneIndex(s.byGoogleID),
	}
	for id, u := range s.users {
		snap.users[id] = *u
	}

	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = make(map[uuid.UUID]*entity.User, len(snap.users))
	for id, u := range snap.users {
		s.users[id] = &u
	}
	s.byEmail = snap.byEmail
	s.byUsername = snap.byUsername
	s.byGoogleID = snap.byGoogleID
}

func cloneIndex(src map[string]uuid.UUID) map[string]uuid.UUID {
	dst := make(map[string]uuid.UUID, len(src))
	for k, v := range src {
		dst[k] = v
	}

	return dst
}

func copyUser(u *entity.User) *entity.User {
	c := *u
	if u.PasswordHash != nil {
		h := *u.PasswordHash
		c.PasswordHash = &h
	}
	if u.GoogleID != nil {
		g := *u.GoogleID
		c.GoogleID = &g
	}

	return &c
}
