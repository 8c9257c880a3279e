package models

import (
	"fmt"
	"time"

	"github.com/desertthunder/harmony/internal/shared"
)

// Session is server-side state for one browser, keyed by an opaque id carried in the session cookie.
type Session struct {
	id        string
	state     string
	token     *Token
	createdAt time.Time
	updatedAt time.Time
	expiresAt time.Time
}

// NewSession creates a [Session] with a fresh id that lives for ttl.
func NewSession(ttl time.Duration) *Session {
	now := time.Now().UTC()
	return &Session{
		id:        shared.GenerateID(),
		createdAt: now,
		updatedAt: now,
		expiresAt: now.Add(ttl),
	}
}

// RestoreSession rebuilds a [Session] loaded from storage.
func RestoreSession(id, state string, token *Token, createdAt, updatedAt, expiresAt time.Time) *Session {
	return &Session{
		id:        id,
		state:     state,
		token:     token,
		createdAt: createdAt,
		updatedAt: updatedAt,
		expiresAt: expiresAt,
	}
}

func (s *Session) ID() string           { return s.id }
func (s *Session) CreatedAt() time.Time { return s.createdAt }
func (s *Session) UpdatedAt() time.Time { return s.updatedAt }
func (s *Session) ExpiresAt() time.Time { return s.expiresAt }
func (s *Session) State() string        { return s.state }

// Token returns the session's token, or nil when the user has not logged in.
func (s *Session) Token() *Token { return s.token }

func (s *Session) SetID(id string)          { s.id = id }
func (s *Session) SetUpdatedAt(t time.Time) { s.updatedAt = t }
func (s *Session) SetState(state string)    { s.state = state }
func (s *Session) SetToken(token *Token)    { s.token = token }
func (s *Session) SetExpiresAt(t time.Time) { s.expiresAt = t }

// Authenticated reports whether the session holds an access token.
func (s *Session) Authenticated() bool {
	return s.token != nil && s.token.AccessToken != ""
}

// Expired reports whether the session has outlived its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.expiresAt.IsZero() && !now.Before(s.expiresAt)
}

// Clear drops the token and any pending OAuth state.
func (s *Session) Clear() {
	s.token = nil
	s.state = ""
}

// Clone returns a deep copy so stores never share token pointers with callers.
func (s *Session) Clone() *Session {
	c := *s
	if s.token != nil {
		tok := *s.token
		c.token = &tok
	}
	return &c
}

// Validate checks that the session can be persisted.
func (s *Session) Validate() error {
	if s.id == "" {
		return fmt.Errorf("%w: session id is required", shared.ErrInvalidSession)
	}
	if s.expiresAt.IsZero() {
		return fmt.Errorf("%w: session expiry is required", shared.ErrInvalidSession)
	}
	if s.token != nil && s.token.AccessToken == "" {
		return fmt.Errorf("%w: token without access token", shared.ErrInvalidSession)
	}
	return nil
}
