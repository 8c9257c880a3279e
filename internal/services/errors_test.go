package services

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/desertthunder/harmony/internal/shared"
)

func TestProviderError(t *testing.T) {
	t.Run("Is maps one sentinel per status", func(t *testing.T) {
		err := &ProviderError{Status: http.StatusNotFound}

		assert.ErrorIs(t, err, shared.ErrUpstreamNotFound)
		assert.False(t, errors.Is(err, shared.ErrUpstream))
		assert.False(t, errors.Is(err, shared.ErrUpstreamAuth))
	})

	t.Run("Unwrap exposes cause", func(t *testing.T) {
		cause := errors.New("dial tcp: connection refused")
		err := &ProviderError{Endpoint: "/me", Message: cause.Error(), Err: cause}

		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "/me")
	})

	t.Run("RetryDelay", func(t *testing.T) {
		assert.Equal(t, 7*time.Second, (&ProviderError{RetryAfter: "7"}).RetryDelay())
		assert.Zero(t, (&ProviderError{}).RetryDelay())
		assert.Zero(t, (&ProviderError{RetryAfter: "soon"}).RetryDelay())

		future := time.Now().Add(time.Minute).UTC().Format(http.TimeFormat)
		d := (&ProviderError{RetryAfter: future}).RetryDelay()
		assert.Greater(t, d, 30*time.Second)
	})

	t.Run("AsProviderError", func(t *testing.T) {
		_, ok := AsProviderError(errors.New("plain"))
		assert.False(t, ok)

		pe, ok := AsProviderError(&ProviderError{Status: 429})
		assert.True(t, ok)
		assert.Equal(t, 429, pe.Status)
	})
}
