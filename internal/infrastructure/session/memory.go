// Package session holds the in-process session store used when no Redis
// address is configured.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/recordkeep/records-system/internal/core/domain"
)

type entry struct {
	session   domain.Session
	expiresAt time.Time
}

// MemoryStore implements ports.SessionStore in process memory. Sessions do
// not survive a restart.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

func (m *MemoryStore) Save(_ context.Context, s *domain.Session, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[s.ID] = entry{session: *s, expiresAt: m.now().Add(ttl)}
	return nil
}

func (m *MemoryStore) Find(_ context.Context, id string) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[id]
	if !ok {
		return nil, domain.ErrSessionInvalid
	}
	if !m.now().Before(e.expiresAt) {
		delete(m.entries, id)
		return nil, domain.ErrSessionInvalid
	}
	s := e.session
	return &s, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, id)
	return nil
}

// Ping satisfies the readiness check; the store is always available.
func (m *MemoryStore) Ping(context.Context) error { return nil }
