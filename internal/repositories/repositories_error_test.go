package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/desertthunder/harmony/internal/models"
	"github.com/desertthunder/harmony/internal/shared"
)

func TestSessionStoreErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("Create", func(t *testing.T) {
		t.Run("ValidationError", func(t *testing.T) {
			storeCases(t, func(t *testing.T, store models.SessionStore) {
				session := models.RestoreSession("", "", nil, time.Now(), time.Now(), time.Now().Add(time.Hour))

				if err := store.Create(ctx, session); !errors.Is(err, shared.ErrInvalidSession) {
					t.Fatalf("expected ErrInvalidSession, got %v", err)
				}
			})
		})

		t.Run("DuplicateID", func(t *testing.T) {
			storeCases(t, func(t *testing.T, store models.SessionStore) {
				session := models.NewSession(time.Hour)
				if err := store.Create(ctx, session); err != nil {
					t.Fatalf("failed to create session: %v", err)
				}

				if err := store.Create(ctx, session); err == nil {
					t.Fatal("expected error when creating a session twice")
				}
			})
		})
	})

	t.Run("Get", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			storeCases(t, func(t *testing.T, store models.SessionStore) {
				_, err := store.Get(ctx, "nonexistent-id")
				if !errors.Is(err, shared.ErrSessionNotFound) {
					t.Fatalf("expected ErrSessionNotFound, got %v", err)
				}
			})
		})

		t.Run("Expired", func(t *testing.T) {
			storeCases(t, func(t *testing.T, store models.SessionStore) {
				session := models.NewSession(time.Hour)
				session.SetExpiresAt(time.Now().Add(-time.Second))
				if err := store.Create(ctx, session); err != nil {
					t.Fatalf("failed to create session: %v", err)
				}

				_, err := store.Get(ctx, session.ID())
				if !errors.Is(err, shared.ErrSessionExpired) {
					t.Fatalf("expected ErrSessionExpired, got %v", err)
				}
			})
		})
	})

	t.Run("Update", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			storeCases(t, func(t *testing.T, store models.SessionStore) {
				session := models.NewSession(time.Hour)

				if err := store.Update(ctx, session); !errors.Is(err, shared.ErrSessionNotFound) {
					t.Fatalf("expected ErrSessionNotFound, got %v", err)
				}
			})
		})
	})

	t.Run("NewSessionStore", func(t *testing.T) {
		t.Run("UnknownStore", func(t *testing.T) {
			cfg := shared.DefaultConfig()
			cfg.Session.Store = "redis"

			if _, _, err := NewSessionStore(ctx, cfg); !errors.Is(err, shared.ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	})
}
