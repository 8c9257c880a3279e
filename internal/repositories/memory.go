package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/desertthunder/harmony/internal/models"
	"github.com/desertthunder/harmony/internal/shared"
)

// MemorySessionStore implements [models.SessionStore] with an in-process map.
//
// Sessions are copied on the way in and out. Expired entries are hidden from Get immediately and removed
// from the map by a background sweep every cleanupInterval.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
	now      func() time.Time

	stop      chan struct{}
	closeOnce sync.Once
}

// NewMemorySessionStore creates a [MemorySessionStore]. A cleanupInterval of zero disables the sweep.
func NewMemorySessionStore(cleanupInterval time.Duration) *MemorySessionStore {
	s := &MemorySessionStore{
		sessions: make(map[string]*models.Session),
		now:      time.Now,
		stop:     make(chan struct{}),
	}

	if cleanupInterval > 0 {
		go s.sweep(cleanupInterval)
	}

	return s
}

func (s *MemorySessionStore) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Purge(context.Background(), s.now())
		case <-s.stop:
			return
		}
	}
}

// Close stops the background sweep.
func (s *MemorySessionStore) Close() error {
	s.closeOnce.Do(func() { close(s.stop) })
	return nil
}

func (s *MemorySessionStore) Create(_ context.Context, session *models.Session) error {
	if err := session.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[session.ID()]; ok {
		return fmt.Errorf("session already exists: %s", session.ID())
	}
	s.sessions[session.ID()] = session.Clone()
	return nil
}

func (s *MemorySessionStore) Get(_ context.Context, id string) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", shared.ErrSessionNotFound, id)
	}
	if session.Expired(s.now()) {
		return nil, fmt.Errorf("%w: %s", shared.ErrSessionExpired, id)
	}
	return session.Clone(), nil
}

func (s *MemorySessionStore) Update(_ context.Context, session *models.Session) error {
	if err := session.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[session.ID()]; !ok {
		return fmt.Errorf("%w: %s", shared.ErrSessionNotFound, session.ID())
	}

	session.SetUpdatedAt(s.now().UTC())
	s.sessions[session.ID()] = session.Clone()
	return nil
}

func (s *MemorySessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

func (s *MemorySessionStore) Purge(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	for id, session := range s.sessions {
		if session.Expired(now) {
			delete(s.sessions, id)
			n++
		}
	}
	return n, nil
}

// Len returns the number of stored sessions, expired or not.
func (s *MemorySessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
