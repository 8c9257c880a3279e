// package models defines the data model for the harmony analysis service
package models

import (
	"context"
	"time"
)

// Model defines the base interface for all persistent models in the analysis service.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// SessionStore defines data access operations for server-side sessions.
// Implementations return errors wrapping [shared.ErrSessionNotFound] for unknown or expired ids.
type SessionStore interface {
	// Create inserts a new session
	Create(ctx context.Context, session *Session) error
	// Get retrieves a live session by its ID
	Get(ctx context.Context, id string) (*Session, error)
	// Update replaces the stored state of an existing session
	Update(ctx context.Context, session *Session) error
	// Delete removes a session by its ID
	Delete(ctx context.Context, id string) error
	// Purge removes sessions expired at now and returns how many were removed
	Purge(ctx context.Context, now time.Time) (int, error)
}
