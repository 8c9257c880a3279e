package shared

import (
	"errors"
	"fmt"
)

var (
	// Configuration errors
	ErrInvalidConfig      = errors.New("invalid configuration")
	ErrMissingCredentials = errors.New("missing credentials")

	// Authentication errors
	ErrAuthFailed       = errors.New("authentication failed")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrStateMismatch    = errors.New("oauth state mismatch")
	ErrRefreshFailed    = errors.New("token refresh failed")
	ErrNoRefreshToken   = errors.New("no refresh token available")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
	ErrInvalidSession  = errors.New("invalid session")

	// Input validation errors
	ErrInvalidInput    = errors.New("invalid input")
	ErrMissingArgument = errors.New("missing required argument")
	ErrInvalidArgument = errors.New("invalid argument")

	// Analysis errors. Both concrete empty results wrap ErrEmptyResult.
	ErrEmptyResult      = errors.New("empty result")
	ErrNoPlayableTracks = fmt.Errorf("%w: playlist contains no playable tracks", ErrEmptyResult)
	ErrNoAudioFeatures  = fmt.Errorf("%w: no audio features available for playlist tracks", ErrEmptyResult)

	// Upstream provider errors
	ErrUpstreamAuth        = errors.New("upstream authentication error")
	ErrUpstreamForbidden   = errors.New("upstream forbidden")
	ErrUpstreamNotFound    = errors.New("upstream resource not found")
	ErrUpstreamRateLimited = errors.New("upstream rate limited")
	ErrUpstream            = errors.New("upstream API error")
)
