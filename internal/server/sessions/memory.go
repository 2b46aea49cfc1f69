package sessions

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps sessions in a mutex-guarded map. Expired sessions are
// dropped lazily on Get and in bulk by the janitor.
type MemoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]*Session
	now      func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:      ttl,
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

func (m *MemoryStore) Create(identityID int64, adminElevated bool) (*Session, error) {
	s := &Session{
		Token:         uuid.NewString(),
		IdentityID:    identityID,
		AdminElevated: adminElevated,
		ExpiresAt:     m.now().Add(m.ttl),
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.Token] = s

	return s, nil
}

func (m *MemoryStore) Get(token string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[token]
	if !ok {
		return nil, false
	}
	if s.Expired(m.now()) {
		delete(m.sessions, token)
		return nil, false
	}

	// Copy so callers cannot mutate stored state.
	c := *s
	return &c, true
}

func (m *MemoryStore) Delete(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
}

// Len reports how many sessions are currently held, expired ones included.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep removes every expired session and returns how many were dropped.
func (m *MemoryStore) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	dropped := 0
	for token, s := range m.sessions {
		if s.Expired(now) {
			delete(m.sessions, token)
			dropped++
		}
	}
	return dropped
}

// Janitor sweeps expired sessions at the given interval until ctx is done.
func (m *MemoryStore) Janitor(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			m.Sweep()
		}
	}
}
