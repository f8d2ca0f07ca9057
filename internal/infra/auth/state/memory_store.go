package state

import (
	"context"
	"sync"
	"time"

	"pricetracker/internal/domain/service"
)

// MemoryStore keeps states in process. Suitable for a single instance only.
type MemoryStore struct {
	ttl    time.Duration
	now    func() time.Time
	mu     sync.Mutex
	states map[string]time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:    ttl,
		now:    time.Now,
		states: make(map[string]time.Time),
	}
}

func (s *MemoryStore) Issue(_ context.Context) (string, error) {
	state, err := generateState()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.cleanupExpired(now)
	s.states[state] = now.Add(s.ttl)

	return state, nil
}

func (s *MemoryStore) Consume(_ context.Context, state string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, ok := s.states[state]
	if !ok {
		return service.ErrOAuthStateInvalid
	}
	delete(s.states, state)

	if s.now().After(expiry) {
		return service.ErrOAuthStateInvalid
	}

	return nil
}

// cleanupExpired must be called with mu held.
func (s *MemoryStore) cleanupExpired(now time.Time) {
	for state, expiry := range s.states {
		if now.After(expiry) {
			delete(s.states, state)
		}
	}
}
