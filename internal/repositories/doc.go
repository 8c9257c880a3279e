// Package repositories implements storage for server-side sessions.
//
// Key Implementations:
//   - [SessionRepository] : SQLite persistence over the sessions table created by the embedded migrations
//   - [MemorySessionStore] : process-local map with expiry on read and a periodic sweep
//
// [NewSessionStore] picks one from configuration. Both implement [models.SessionStore] and return errors
// wrapping [shared.ErrSessionNotFound] or [shared.ErrSessionExpired] for ids that cannot be resumed.
package repositories
