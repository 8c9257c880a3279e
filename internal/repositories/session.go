package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/harmony/internal/models"
	"github.com/desertthunder/harmony/internal/shared"
)

// SessionRepository implements [models.SessionStore] on the SQLite sessions table.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new [SessionRepository] with the given database connection
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a new session
func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	if err := session.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO sessions (
			id, oauth_state, access_token, refresh_token, token_type, scope, token_expires_at,
			created_at, updated_at, expires_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	access, refresh, tokenType, scope, tokenExpires := tokenColumns(session.Token())
	_, err := r.db.ExecContext(ctx, query,
		session.ID(), session.State(), access, refresh, tokenType, scope, tokenExpires,
		session.CreatedAt().UTC(), session.UpdatedAt().UTC(), session.ExpiresAt().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	return nil
}

// Get retrieves a session by ID, treating expired rows as missing
func (r *SessionRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	query := `
		SELECT id, oauth_state, access_token, refresh_token, token_type, scope, token_expires_at,
			created_at, updated_at, expires_at
		FROM sessions
		WHERE id = ?
	`

	var (
		sessionID    string
		state        string
		access       sql.NullString
		refresh      sql.NullString
		tokenType    sql.NullString
		scope        sql.NullString
		tokenExpires sql.NullInt64
		createdAt    time.Time
		updatedAt    time.Time
		expiresAt    time.Time
	)

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&sessionID, &state, &access, &refresh, &tokenType, &scope, &tokenExpires,
		&createdAt, &updatedAt, &expiresAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrSessionNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}

	var token *models.Token
	if access.Valid && access.String != "" {
		token = &models.Token{
			AccessToken:  access.String,
			RefreshToken: refresh.String,
			TokenType:    tokenType.String,
			Scope:        scope.String,
			ExpiresAt:    tokenExpires.Int64,
		}
	}

	session := models.RestoreSession(sessionID, state, token, createdAt, updatedAt, expiresAt)
	if session.Expired(time.Now()) {
		return nil, fmt.Errorf("%w: %s", shared.ErrSessionExpired, id)
	}

	return session, nil
}

// Update writes the session's state and token back to the database
func (r *SessionRepository) Update(ctx context.Context, session *models.Session) error {
	if err := session.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now().UTC()
	session.SetUpdatedAt(now)

	query := `
		UPDATE sessions
		SET oauth_state = ?, access_token = ?, refresh_token = ?, token_type = ?, scope = ?,
			token_expires_at = ?, updated_at = ?, expires_at = ?
		WHERE id = ?
	`

	access, refresh, tokenType, scope, tokenExpires := tokenColumns(session.Token())
	result, err := r.db.ExecContext(ctx, query,
		session.State(), access, refresh, tokenType, scope, tokenExpires, now, session.ExpiresAt().UTC(), session.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrSessionNotFound, session.ID())
	}

	return nil
}

// Delete removes a session. Deleting a missing session is not an error.
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Purge removes every session that expired at or before now
func (r *SessionRepository) Purge(ctx context.Context, now time.Time) (int, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE expires_at <= ?", now.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to purge sessions: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return int(rows), nil
}

func tokenColumns(t *models.Token) (access, refresh, tokenType, scope sql.NullString, expires sql.NullInt64) {
	if t == nil {
		return
	}
	access = sql.NullString{String: t.AccessToken, Valid: true}
	refresh = sql.NullString{String: t.RefreshToken, Valid: t.RefreshToken != ""}
	tokenType = sql.NullString{String: t.TokenType, Valid: t.TokenType != ""}
	scope = sql.NullString{String: t.Scope, Valid: t.Scope != ""}
	expires = sql.NullInt64{Int64: t.ExpiresAt, Valid: true}
	return
}
