package oauth

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"shop/config"
	"shop/internal/domain/service"
)

const defaultStateTTL = 10 * time.Minute

// stateStore keeps issued state values in memory until they are consumed or expire.
type stateStore struct {
	mu     sync.Mutex
	states map[string]time.Time
	ttl    time.Duration
	now    func() time.Time
}

// NewStateStore creates the in-process OAuth state store.
func NewStateStore(cfg *config.Config) service.OAuthStateStore {
	ttl := defaultStateTTL
	if cfg.OAuth != nil && cfg.OAuth.StateTTL > 0 {
		ttl = cfg.OAuth.StateTTL
	}

	return newStateStore(ttl, time.Now)
}

func newStateStore(ttl time.Duration, now func() time.Time) *stateStore {
	return &stateStore{
		states: make(map[string]time.Time),
		ttl:    ttl,
		now:    now,
	}
}

func (s *stateStore) Issue() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", errors.Wrap(err, "failed to generate state")
	}
	state := id.String()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cleanupExpired()
	s.states[state] = s.now().Add(s.ttl)

	return state, nil
}

func (s *stateStore) Consume(state string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, ok := s.states[state]
	if !ok {
		return false
	}
	delete(s.states, state)

	return !s.now().After(expiry)
}

func (s *stateStore) cleanupExpired() {
	now := s.now()
	for state, expiry := range s.states {
		if now.After(expiry) {
			delete(s.states, state)
		}
	}
}
