// Package auth keeps session tokens usable, refreshing them shortly before they expire.
package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/harmony/internal/models"
	"github.com/desertthunder/harmony/internal/shared"
)

// Refresher exchanges a refresh token for a new token.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*models.Token, error)
}

// TokenManager hands out valid tokens for sessions.
//
// Refreshes for one session are serialized so concurrent requests refresh at most once.
type TokenManager struct {
	store     models.SessionStore
	refresher Refresher
	logger    *log.Logger
	now       func() time.Time

	mu    sync.Mutex
	locks map[string]*sessionLock
}

// sessionLock serializes refreshes for one session. The entry lives only while a refresh holds or awaits it.
type sessionLock struct {
	sync.Mutex
	refs int
}

// NewTokenManager creates a [TokenManager] that persists refreshed tokens through store.
func NewTokenManager(store models.SessionStore, refresher Refresher, logger *log.Logger) *TokenManager {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &TokenManager{
		store:     store,
		refresher: refresher,
		logger:    shared.WithLogger(logger, "component", "auth"),
		now:       time.Now,
		locks:     make(map[string]*sessionLock),
	}
}

// SetClock replaces the time source.
func (m *TokenManager) SetClock(now func() time.Time) {
	m.now = now
}

// ValidToken returns a usable token for session, or nil when the caller must treat the session as unauthenticated.
//
// A token within [models.RefreshWindow] of expiry is refreshed first and the merged result is written back to
// session and the store. Missing refresh tokens and refresh failures are logged and yield nil.
func (m *TokenManager) ValidToken(ctx context.Context, session *models.Session) *models.Token {
	if session == nil || !session.Authenticated() {
		return nil
	}

	if !session.Token().NeedsRefresh(m.now()) {
		return session.Token()
	}

	lock := m.acquire(session.ID())
	defer m.release(session.ID(), lock)

	logger := m.logger.With("session", shortID(session.ID()))

	// Another request may have refreshed while this one waited.
	if current, err := m.store.Get(ctx, session.ID()); err == nil && current.Authenticated() &&
		!current.Token().NeedsRefresh(m.now()) {
		session.SetToken(current.Token())
		return session.Token()
	}

	tok := session.Token()
	if tok.RefreshToken == "" {
		logger.Error("token expired and no refresh token available")
		return nil
	}
	if m.refresher == nil {
		logger.Error("token expired and no refresher is configured")
		return nil
	}

	fresh, err := m.refresher.Refresh(ctx, tok.RefreshToken)
	if err == nil && (fresh == nil || fresh.AccessToken == "") {
		err = errors.New("refresh response without access token")
	}
	if err != nil {
		logger.Error("failed to refresh token", "error", err)
		return nil
	}

	tok.Merge(fresh)
	session.SetToken(tok)

	if err := m.store.Update(ctx, session); err != nil {
		logger.Warn("refreshed token could not be persisted", "error", err)
	} else {
		logger.Debug("token refreshed", "expires_at", time.Unix(tok.ExpiresAt, 0))
	}

	return tok
}

func (m *TokenManager) acquire(sessionID string) *sessionLock {
	m.mu.Lock()
	l, ok := m.locks[sessionID]
	if !ok {
		l = &sessionLock{}
		m.locks[sessionID] = l
	}
	l.refs++
	m.mu.Unlock()

	l.Lock()
	return l
}

func (m *TokenManager) release(sessionID string, l *sessionLock) {
	l.Unlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	if l.refs--; l.refs == 0 {
		delete(m.locks, sessionID)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
