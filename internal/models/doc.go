// Package models defines domain entities and persistence interfaces for the harmony analysis service.
//
// The package contains:
//   - [Token] : OAuth token material with the refresh-window rule ([Token.NeedsRefresh])
//   - [Session] : server-side session state keyed by an opaque id, implementing [Model]
//   - [SessionStore] : persistence contract implemented by the in-memory and SQLite stores
//
// Nothing here outlives a session; playlist and track data are transient and live in the services package.
package models
