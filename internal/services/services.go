// package services defines the narrow [Provider] interface the analysis pipeline reads Spotify playlists through
package services

import (
	"context"
)

// PageSize is the number of playlist items requested per page.
const PageSize = 100

// Provider is the set of music-service reads the analysis pipeline depends on.
//
// Implementations convert non-success responses into [*ProviderError] so callers can classify failures
// without knowing about the transport.
type Provider interface {
	// FetchPlaylist retrieves playlist metadata by ID.
	FetchPlaylist(ctx context.Context, playlistID string) (*Playlist, error)

	// FetchTracksPage retrieves one page of playlist items.
	// An empty cursor requests the first page of limit items; otherwise cursor is the Next value of the previous page.
	FetchTracksPage(ctx context.Context, playlistID string, limit int, cursor string) (*TrackPage, error)

	// FetchAudioFeatures retrieves audio features for up to 100 track IDs.
	// The result is positionally aligned with ids; unavailable tracks yield nil entries.
	FetchAudioFeatures(ctx context.Context, ids []string) ([]*AudioFeatures, error)

	// FetchArtists retrieves up to 50 artists by ID. Unknown artists yield nil entries.
	FetchArtists(ctx context.Context, ids []string) ([]*Artist, error)
}

// Image represents an image resource.
type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// Owner is the user a playlist belongs to.
type Owner struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type trackTotal struct {
	Total int `json:"total"`
}

// Playlist represents playlist metadata.
type Playlist struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Owner       Owner      `json:"owner"`
	Public      *bool      `json:"public"`
	Images      []Image    `json:"images"`
	Tracks      trackTotal `json:"tracks"`
}

// ImageURL returns the first image URL, or nil when the playlist has no images.
func (p *Playlist) ImageURL() *string {
	if len(p.Images) == 0 || p.Images[0].URL == "" {
		return nil
	}
	u := p.Images[0].URL
	return &u
}

// TotalTracks returns the track count reported with the playlist metadata.
func (p *Playlist) TotalTracks() int {
	return p.Tracks.Total
}

// TrackPage is one page of playlist items. Next is nil on the last page.
type TrackPage struct {
	Items  []PlaylistItem `json:"items"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
	Next   *string        `json:"next"`
}

// HasNext reports whether another page follows.
func (p *TrackPage) HasNext() bool {
	return p.Next != nil && *p.Next != ""
}

// PlaylistItem represents a track within a playlist context. Track is nil for removed items.
type PlaylistItem struct {
	AddedAt string `json:"added_at"`
	Track   *Track `json:"track"`
}

// Track represents a playlist track. Local files have an empty ID.
type Track struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Artists []ArtistRef `json:"artists"`
	IsLocal bool        `json:"is_local"`
}

// ArtistRef is the simplified artist embedded in a track.
type ArtistRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Artist is a full artist record with genre tags.
type Artist struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Genres []string `json:"genres"`
}

// AudioFeatures is the per-track feature vector. Any value may be missing.
type AudioFeatures struct {
	ID           string   `json:"id"`
	Danceability *float64 `json:"danceability"`
	Energy       *float64 `json:"energy"`
	Valence      *float64 `json:"valence"`
	Tempo        *float64 `json:"tempo"`
	Acousticness *float64 `json:"acousticness"`
}

// User represents the authenticated user's profile.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Country     string `json:"country"`
	Product     string `json:"product"` // premium, free, etc.
}
