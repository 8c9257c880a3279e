package auth

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desertthunder/harmony/internal/models"
	"github.com/desertthunder/harmony/internal/repositories"
	"github.com/desertthunder/harmony/internal/shared"
)

type fakeRefresher struct {
	calls atomic.Int32
	token *models.Token
	err   error
	delay time.Duration
}

func (f *fakeRefresher) Refresh(_ context.Context, refreshToken string) (*models.Token, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return nil, f.err
	}
	tok := *f.token
	return &tok, nil
}

var now = time.Unix(1_700_000_000, 0)

func setup(t *testing.T, tok *models.Token, refresher *fakeRefresher) (*TokenManager, *repositories.MemorySessionStore, *models.Session) {
	t.Helper()

	store := repositories.NewMemorySessionStore(0)
	t.Cleanup(func() { store.Close() })

	session := models.NewSession(time.Hour)
	session.SetToken(tok)
	require.NoError(t, store.Create(context.Background(), session))

	m := NewTokenManager(store, refresher, shared.NewLogger(io.Discard))
	m.SetClock(func() time.Time { return now })
	return m, store, session
}

func TestValidToken(t *testing.T) {
	ctx := context.Background()

	t.Run("refreshes with 30 seconds left", func(t *testing.T) {
		refresher := &fakeRefresher{token: &models.Token{AccessToken: "fresh", ExpiresAt: now.Unix() + 3600}}
		m, store, session := setup(t, &models.Token{AccessToken: "old", RefreshToken: "rt", ExpiresAt: now.Unix() + 30}, refresher)

		tok := m.ValidToken(ctx, session)
		require.NotNil(t, tok)
		assert.Equal(t, int32(1), refresher.calls.Load())
		assert.Equal(t, "fresh", tok.AccessToken)
		assert.Equal(t, "rt", tok.RefreshToken, "refresh token kept when the response omits it")

		stored, err := store.Get(ctx, session.ID())
		require.NoError(t, err)
		assert.Equal(t, "fresh", stored.Token().AccessToken, "refreshed token is persisted")
	})

	t.Run("does not refresh with 120 seconds left", func(t *testing.T) {
		refresher := &fakeRefresher{token: &models.Token{AccessToken: "fresh"}}
		m, _, session := setup(t, &models.Token{AccessToken: "old", RefreshToken: "rt", ExpiresAt: now.Unix() + 120}, refresher)

		tok := m.ValidToken(ctx, session)
		require.NotNil(t, tok)
		assert.Equal(t, "old", tok.AccessToken)
		assert.Zero(t, refresher.calls.Load())
	})

	t.Run("unknown expiry is used as is", func(t *testing.T) {
		refresher := &fakeRefresher{token: &models.Token{AccessToken: "fresh"}}
		m, _, session := setup(t, &models.Token{AccessToken: "old"}, refresher)

		assert.Equal(t, "old", m.ValidToken(ctx, session).AccessToken)
		assert.Zero(t, refresher.calls.Load())
	})

	t.Run("no token", func(t *testing.T) {
		m, _, session := setup(t, nil, &fakeRefresher{})

		assert.Nil(t, m.ValidToken(ctx, session))
		assert.Nil(t, m.ValidToken(ctx, nil))
	})

	t.Run("stale without refresh token", func(t *testing.T) {
		refresher := &fakeRefresher{token: &models.Token{AccessToken: "fresh"}}
		m, _, session := setup(t, &models.Token{AccessToken: "old", ExpiresAt: now.Unix() + 10}, refresher)

		assert.Nil(t, m.ValidToken(ctx, session))
		assert.Zero(t, refresher.calls.Load())
	})

	t.Run("refresh failure yields nil", func(t *testing.T) {
		refresher := &fakeRefresher{err: errors.New("invalid_grant")}
		m, _, session := setup(t, &models.Token{AccessToken: "old", RefreshToken: "rt", ExpiresAt: now.Unix() + 10}, refresher)

		assert.Nil(t, m.ValidToken(ctx, session))
		assert.Equal(t, int32(1), refresher.calls.Load())
	})

	t.Run("empty refresh response yields nil", func(t *testing.T) {
		refresher := &fakeRefresher{token: &models.Token{}}
		m, _, session := setup(t, &models.Token{AccessToken: "old", RefreshToken: "rt", ExpiresAt: now.Unix() + 10}, refresher)

		assert.Nil(t, m.ValidToken(ctx, session))
	})

	t.Run("concurrent requests refresh once", func(t *testing.T) {
		refresher := &fakeRefresher{
			token: &models.Token{AccessToken: "fresh", ExpiresAt: now.Unix() + 3600},
			delay: 20 * time.Millisecond,
		}
		m, store, session := setup(t, &models.Token{AccessToken: "old", RefreshToken: "rt", ExpiresAt: now.Unix() + 5}, refresher)

		var wg sync.WaitGroup
		results := make([]*models.Token, 8)
		for i := range results {
			s, err := store.Get(ctx, session.ID())
			require.NoError(t, err)

			wg.Add(1)
			go func(i int, s *models.Session) {
				defer wg.Done()
				results[i] = m.ValidToken(ctx, s)
			}(i, s)
		}
		wg.Wait()

		assert.Equal(t, int32(1), refresher.calls.Load())
		for _, tok := range results {
			require.NotNil(t, tok)
			assert.Equal(t, "fresh", tok.AccessToken)
		}
		assert.Empty(t, m.locks, "refresh locks outlived the requests")
	})

	t.Run("refresh locks are released", func(t *testing.T) {
		refresher := &fakeRefresher{err: errors.New("revoked")}
		m, _, session := setup(t, &models.Token{AccessToken: "old", RefreshToken: "rt", ExpiresAt: now.Unix() + 5}, refresher)

		assert.Nil(t, m.ValidToken(ctx, session))
		assert.Empty(t, m.locks)

		held := m.acquire(session.ID())
		waiting := make(chan struct{})
		go func() {
			l := m.acquire(session.ID())
			m.release(session.ID(), l)
			close(waiting)
		}()

		require.Eventually(t, func() bool {
			m.mu.Lock()
			defer m.mu.Unlock()
			return m.locks[session.ID()] != nil && m.locks[session.ID()].refs == 2
		}, time.Second, time.Millisecond)

		m.release(session.ID(), held)
		<-waiting
		assert.Empty(t, m.locks)
	})
}
