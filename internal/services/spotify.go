// Spotify Web API implementation of [Provider]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/desertthunder/harmony/internal/models"
	"github.com/desertthunder/harmony/internal/shared"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"
)

// Scopes requested at login.
var Scopes = []string{
	"playlist-read-private",
	"playlist-read-collaborative",
	"user-read-private",
}

// SpotifyService holds the OAuth2 configuration and shared transport for Spotify.
//
// It performs the authorization code flow and token refresh, and hands out per-session [SpotifyClient] values
// that implement [Provider].
type SpotifyService struct {
	config     *oauth2.Config
	apiURL     string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// NewSpotifyService creates a new Spotify service from configuration.
//
// httpClient is used for both token and API requests and defaults to a client with a 30 second timeout.
func NewSpotifyService(cfg shared.SpotifyConfig, httpClient *http.Client, logger *log.Logger) (*SpotifyService, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("%w: spotify client_id and client_secret are required", shared.ErrMissingCredentials)
	}

	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	authURL, tokenURL, apiURL := cfg.AuthURL, cfg.TokenURL, cfg.APIURL
	if authURL == "" {
		authURL = spotifyAuthURL
	}
	if tokenURL == "" {
		tokenURL = spotifyTokenURL
	}
	if apiURL == "" {
		apiURL = spotifyBaseURL
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &SpotifyService{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   authURL,
				TokenURL:  tokenURL,
				AuthStyle: oauth2.AuthStyleInHeader,
			},
		},
		apiURL:     strings.TrimRight(apiURL, "/"),
		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, 1),
		logger:     shared.WithLogger(logger, "service", "spotify"),
	}, nil
}

// AuthURL returns the authorization URL for user login. The consent dialog is always shown.
func (s *SpotifyService) AuthURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.SetAuthURLParam("show_dialog", "true"))
}

// Exchange trades an authorization code for a token.
func (s *SpotifyService) Exchange(ctx context.Context, code string) (*models.Token, error) {
	tok, err := s.config.Exchange(s.oauthContext(ctx), code)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to exchange auth code: %v", shared.ErrAuthFailed, err)
	}
	if tok.AccessToken == "" {
		return nil, fmt.Errorf("%w: token response without access token", shared.ErrAuthFailed)
	}
	return models.TokenFromOAuth(tok), nil
}

// Refresh obtains a new access token using refreshToken.
func (s *SpotifyService) Refresh(ctx context.Context, refreshToken string) (*models.Token, error) {
	if refreshToken == "" {
		return nil, shared.ErrNoRefreshToken
	}

	tok, err := s.config.TokenSource(s.oauthContext(ctx), &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
	}
	return models.TokenFromOAuth(tok), nil
}

// Client returns a [SpotifyClient] that authenticates every request with token.
//
// The client never refreshes on its own; callers pass a token that is already valid.
func (s *SpotifyService) Client(ctx context.Context, token *models.Token) *SpotifyClient {
	return &SpotifyClient{
		service:    s,
		httpClient: oauth2.NewClient(s.oauthContext(ctx), oauth2.StaticTokenSource(token.OAuth())),
	}
}

func (s *SpotifyService) oauthContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
}

// SpotifyClient is a bearer-authenticated Spotify Web API client implementing [Provider].
type SpotifyClient struct {
	service    *SpotifyService
	httpClient *http.Client
}

// doRequest performs an authenticated GET against endpoint, which is either a path below the API root or an
// absolute URL (pagination cursors). Non-2xx responses are returned as [*ProviderError].
func (c *SpotifyClient) doRequest(ctx context.Context, endpoint string, result any) error {
	apiURL := endpoint
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		apiURL = c.service.apiURL + endpoint
	}

	if err := c.service.limiter.Wait(ctx); err != nil {
		return &ProviderError{Endpoint: endpoint, Message: err.Error(), Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &ProviderError{Endpoint: endpoint, Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	c.service.logger.Debug("spotify request", "endpoint", endpoint, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseErrorResponse(resp, endpoint)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return &ProviderError{
				Status:   http.StatusBadGateway,
				Endpoint: endpoint,
				Message:  fmt.Sprintf("failed to decode response: %v", err),
				Err:      err,
			}
		}
	}

	return nil
}

// parseErrorResponse reads the Spotify error envelope, {"error": {"status": n, "message": "..."}}.
// Token endpoint errors use {"error": "code", "error_description": "..."} instead.
func parseErrorResponse(resp *http.Response, endpoint string) *ProviderError {
	pe := &ProviderError{
		Status:   resp.StatusCode,
		Endpoint: endpoint,
		Message:  http.StatusText(resp.StatusCode),
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		pe.RetryAfter = resp.Header.Get("Retry-After")
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil || len(body) == 0 {
		return pe
	}

	var envelope struct {
		Error            json.RawMessage `json:"error"`
		ErrorDescription string          `json:"error_description"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Error) == 0 {
		return pe
	}

	var detail struct {
		Message string `json:"message"`
	}
	var code string
	switch {
	case json.Unmarshal(envelope.Error, &detail) == nil && detail.Message != "":
		pe.Message = detail.Message
	case json.Unmarshal(envelope.Error, &code) == nil && code != "":
		pe.Message = code
		if envelope.ErrorDescription != "" {
			pe.Message = code + ": " + envelope.ErrorDescription
		}
	}

	return pe
}

// FetchPlaylist retrieves a playlist by ID.
func (c *SpotifyClient) FetchPlaylist(ctx context.Context, playlistID string) (*Playlist, error) {
	endpoint := fmt.Sprintf("/playlists/%s", url.PathEscape(playlistID))

	var playlist Playlist
	if err := c.doRequest(ctx, endpoint, &playlist); err != nil {
		return nil, err
	}

	return &playlist, nil
}

// FetchTracksPage retrieves one page of a playlist's items.
func (c *SpotifyClient) FetchTracksPage(ctx context.Context, playlistID string, limit int, cursor string) (*TrackPage, error) {
	endpoint := cursor
	if endpoint == "" {
		if limit <= 0 || limit > PageSize {
			limit = PageSize
		}
		endpoint = fmt.Sprintf("/playlists/%s/tracks?limit=%d&offset=0", url.PathEscape(playlistID), limit)
	}

	var page TrackPage
	if err := c.doRequest(ctx, endpoint, &page); err != nil {
		return nil, err
	}

	return &page, nil
}

// FetchAudioFeatures retrieves audio features for up to 100 tracks.
func (c *SpotifyClient) FetchAudioFeatures(ctx context.Context, ids []string) ([]*AudioFeatures, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if len(ids) > 100 {
		return nil, fmt.Errorf("%w: maximum 100 track IDs allowed, got %d", shared.ErrInvalidArgument, len(ids))
	}

	endpoint := fmt.Sprintf("/audio-features?ids=%s", url.QueryEscape(strings.Join(ids, ",")))

	var response struct {
		AudioFeatures []*AudioFeatures `json:"audio_features"`
	}
	if err := c.doRequest(ctx, endpoint, &response); err != nil {
		return nil, err
	}

	return response.AudioFeatures, nil
}

// FetchArtists retrieves up to 50 artists.
func (c *SpotifyClient) FetchArtists(ctx context.Context, ids []string) ([]*Artist, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if len(ids) > 50 {
		return nil, fmt.Errorf("%w: maximum 50 artist IDs allowed, got %d", shared.ErrInvalidArgument, len(ids))
	}

	endpoint := fmt.Sprintf("/artists?ids=%s", url.QueryEscape(strings.Join(ids, ",")))

	var response struct {
		Artists []*Artist `json:"artists"`
	}
	if err := c.doRequest(ctx, endpoint, &response); err != nil {
		return nil, err
	}

	return response.Artists, nil
}

// CurrentUser retrieves the current authenticated user's profile.
func (c *SpotifyClient) CurrentUser(ctx context.Context) (*User, error) {
	var user User
	if err := c.doRequest(ctx, "/me", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

var _ Provider = (*SpotifyClient)(nil)
