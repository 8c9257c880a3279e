package services

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/harmony/internal/shared"
)

// ProviderError is a failed call to the music service.
//
// Status is the HTTP status of the response, or 0 when no response was received.
// RetryAfter holds the raw Retry-After header of a 429 response.
type ProviderError struct {
	Status     int
	Message    string
	RetryAfter string
	Endpoint   string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("spotify request to %s failed: %s", e.Endpoint, e.Message)
	}
	return fmt.Sprintf("spotify API error: status %d: %s", e.Status, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Is maps the status onto the shared upstream error taxonomy.
func (e *ProviderError) Is(target error) bool {
	switch e.Status {
	case http.StatusUnauthorized:
		return target == shared.ErrUpstreamAuth
	case http.StatusForbidden:
		return target == shared.ErrUpstreamForbidden
	case http.StatusNotFound:
		return target == shared.ErrUpstreamNotFound
	case http.StatusTooManyRequests:
		return target == shared.ErrUpstreamRateLimited
	default:
		return target == shared.ErrUpstream
	}
}

// RetryDelay parses RetryAfter as delta seconds or an HTTP date. Zero means no usable hint.
func (e *ProviderError) RetryDelay() time.Duration {
	v := strings.TrimSpace(e.RetryAfter)
	if v == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(v); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}

	if when, err := http.ParseTime(v); err == nil {
		if until := time.Until(when); until > 0 {
			return until
		}
	}

	return 0
}

// AsProviderError unwraps err into a [*ProviderError].
func AsProviderError(err error) (*ProviderError, bool) {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
