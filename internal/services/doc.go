// Package services isolates all music-service I/O behind the [Provider] interface.
//
// # Provider Interface
//
// The analysis pipeline only needs four reads: playlist metadata, a page of playlist items, a batch of audio
// features and a batch of artists. Keeping the interface this narrow lets tests drive the pipeline with a fake.
//
// # Spotify Implementation
//
// [SpotifyService] owns the [oauth2.Config] and performs the authorization code exchange and token refresh.
// [SpotifyService.Client] returns a [SpotifyClient] bound to one session's token; it never refreshes on its own.
// All clients share one [rate.Limiter] so outbound requests are paced. Nothing is retried.
//
// # Error Handling
//
// Non-2xx responses and transport failures become [*ProviderError]. Its Is method maps the status onto the
// shared taxonomy:
//   - 401 : [shared.ErrUpstreamAuth]
//   - 403 : [shared.ErrUpstreamForbidden]
//   - 404 : [shared.ErrUpstreamNotFound]
//   - 429 : [shared.ErrUpstreamRateLimited], with the raw Retry-After header in RetryAfter
//   - anything else, including no response : [shared.ErrUpstream]
package services
