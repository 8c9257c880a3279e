package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/desertthunder/harmony/internal/shared"
)

func TestToken(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	t.Run("NeedsRefresh", func(t *testing.T) {
		tests := []struct {
			name      string
			expiresAt int64
			want      bool
		}{
			{"30 seconds left", now.Unix() + 30, true},
			{"120 seconds left", now.Unix() + 120, false},
			{"exactly 60 seconds left", now.Unix() + 60, false},
			{"59 seconds left", now.Unix() + 59, true},
			{"already expired", now.Unix() - 10, true},
			{"unknown expiry", 0, false},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				tok := &Token{AccessToken: "a", ExpiresAt: tt.expiresAt}
				assert.Equal(t, tt.want, tok.NeedsRefresh(now))
			})
		}
	})

	t.Run("Merge keeps refresh token and scope", func(t *testing.T) {
		tok := &Token{AccessToken: "old", RefreshToken: "rt", Scope: "user-read-private", ExpiresAt: 1}
		tok.Merge(&Token{AccessToken: "new", ExpiresAt: 2})

		assert.Equal(t, "new", tok.AccessToken)
		assert.Equal(t, int64(2), tok.ExpiresAt)
		assert.Equal(t, "rt", tok.RefreshToken)
		assert.Equal(t, "user-read-private", tok.Scope)
	})

	t.Run("Merge replaces rotated refresh token", func(t *testing.T) {
		tok := &Token{AccessToken: "old", RefreshToken: "rt"}
		tok.Merge(&Token{AccessToken: "new", RefreshToken: "rt2"})

		assert.Equal(t, "rt2", tok.RefreshToken)
	})

	t.Run("OAuth round trip", func(t *testing.T) {
		expiry := now.Add(time.Hour)
		src := (&oauth2.Token{AccessToken: "a", RefreshToken: "r", TokenType: "Bearer", Expiry: expiry}).
			WithExtra(map[string]any{"scope": "playlist-read-private"})

		tok := TokenFromOAuth(src)
		require.NotNil(t, tok)
		assert.Equal(t, expiry.Unix(), tok.ExpiresAt)
		assert.Equal(t, "playlist-read-private", tok.Scope)

		back := tok.OAuth()
		assert.Equal(t, "a", back.AccessToken)
		assert.Equal(t, "r", back.RefreshToken)
		assert.True(t, back.Expiry.Equal(time.Unix(expiry.Unix(), 0)))
	})

	t.Run("TokenFromOAuth without expiry", func(t *testing.T) {
		tok := TokenFromOAuth(&oauth2.Token{AccessToken: "a"})
		assert.Zero(t, tok.ExpiresAt)
		assert.True(t, tok.OAuth().Expiry.IsZero())
		assert.Nil(t, TokenFromOAuth(nil))
	})
}

func TestSession(t *testing.T) {
	t.Run("NewSession", func(t *testing.T) {
		s := NewSession(time.Hour)

		assert.NotEmpty(t, s.ID())
		assert.False(t, s.Authenticated())
		assert.False(t, s.Expired(time.Now()))
		assert.True(t, s.Expired(time.Now().Add(2*time.Hour)))
		assert.NoError(t, s.Validate())
	})

	t.Run("Clone does not share token", func(t *testing.T) {
		s := NewSession(time.Hour)
		s.SetToken(&Token{AccessToken: "a"})

		c := s.Clone()
		c.Token().AccessToken = "b"

		assert.Equal(t, "a", s.Token().AccessToken)
	})

	t.Run("Clear", func(t *testing.T) {
		s := NewSession(time.Hour)
		s.SetState("state")
		s.SetToken(&Token{AccessToken: "a"})
		s.Clear()

		assert.False(t, s.Authenticated())
		assert.Empty(t, s.State())
	})

	t.Run("Validate", func(t *testing.T) {
		s := RestoreSession("", "", nil, time.Now(), time.Now(), time.Now())
		assert.True(t, errors.Is(s.Validate(), shared.ErrInvalidSession))

		s = NewSession(time.Hour)
		s.SetToken(&Token{})
		assert.ErrorIs(t, s.Validate(), shared.ErrInvalidSession)
	})
}
