// package repositories provides persistence implementations for server-side sessions.
package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/harmony/internal/models"
	"github.com/desertthunder/harmony/internal/shared"
)

var (
	_ models.SessionStore = (*SessionRepository)(nil)
	_ models.SessionStore = (*MemorySessionStore)(nil)
)

// NewSessionStore selects the session store named by cfg.Session.Store.
//
// The returned close function releases the store's resources (database handle or sweep goroutine).
func NewSessionStore(ctx context.Context, cfg *shared.Config) (models.SessionStore, func() error, error) {
	switch cfg.Session.Store {
	case "", "memory":
		store := NewMemorySessionStore(10 * time.Minute)
		return store, store.Close, nil
	case "sqlite":
		db, err := shared.OpenDatabase(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		return NewSessionRepository(db), db.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown session store %q", shared.ErrInvalidConfig, cfg.Session.Store)
	}
}
