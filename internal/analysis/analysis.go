// Package analysis turns a playlist reference into averaged audio features, top genres and artists, and a mood.
package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/harmony/internal/playlist"
	"github.com/desertthunder/harmony/internal/services"
	"github.com/desertthunder/harmony/internal/shared"
)

const (
	FeatureBatchSize = 100
	ArtistBatchSize  = 50
	TopN             = 5
)

// PlaylistSummary is the playlist metadata echoed back with an analysis.
type PlaylistSummary struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Image       *string `json:"image"`
	TotalTracks int     `json:"total_tracks"`
}

// Result is the outcome of one analysis.
type Result struct {
	Playlist      PlaylistSummary `json:"playlist"`
	TopGenres     []Count         `json:"top_genres"`
	TopArtists    []Count         `json:"top_artists"`
	AudioFeatures Features        `json:"audio_features"`
	Mood          Mood            `json:"mood"`
}

// Analyzer runs the analysis pipeline against a [services.Provider].
type Analyzer struct {
	logger *log.Logger
}

func NewAnalyzer(logger *log.Logger) *Analyzer {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Analyzer{logger: shared.WithLogger(logger, "component", "analysis")}
}

// Analyze resolves input to a playlist and computes its [Result].
//
// Provider errors abort the run and are returned unchanged. Calls are made one at a time and never retried.
func (a *Analyzer) Analyze(ctx context.Context, input string, provider services.Provider) (*Result, error) {
	start := time.Now()

	playlistID, ok := playlist.ExtractID(input)
	if !ok {
		return nil, fmt.Errorf("%w: invalid playlist URL/ID %q", shared.ErrInvalidInput, input)
	}
	logger := a.logger.With("playlist", playlistID)

	meta, err := provider.FetchPlaylist(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	items, err := a.collectItems(ctx, provider, playlistID)
	if err != nil {
		return nil, err
	}

	trackIDs, artistIDs := collectIDs(items)
	if len(trackIDs) == 0 {
		return nil, shared.ErrNoPlayableTracks
	}

	features, err := a.fetchFeatures(ctx, provider, trackIDs)
	if err != nil {
		return nil, err
	}
	if len(features) == 0 {
		return nil, shared.ErrNoAudioFeatures
	}

	genres, err := a.countGenres(ctx, provider, artistIDs)
	if err != nil {
		return nil, err
	}

	averages := AverageFeatures(features)
	result := &Result{
		Playlist: PlaylistSummary{
			Name:        meta.Name,
			Description: meta.Description,
			Image:       meta.ImageURL(),
			TotalTracks: meta.TotalTracks(),
		},
		TopGenres:     genres.Top(TopN),
		TopArtists:    countArtistNames(items).Top(TopN),
		AudioFeatures: averages,
		Mood:          Classify(averages.Valence, averages.Energy, averages.Danceability),
	}

	logger.Info("analysis complete",
		"items", len(items), "tracks", len(trackIDs), "features", len(features), "artists", len(artistIDs),
		"genres", genres.Len(),
		"mood", result.Mood.Mood, "elapsed", time.Since(start))

	return result, nil
}

// collectItems follows the page cursor until it is exhausted.
func (a *Analyzer) collectItems(ctx context.Context, provider services.Provider, playlistID string) ([]services.PlaylistItem, error) {
	var (
		items  []services.PlaylistItem
		cursor string
	)

	for {
		page, err := provider.FetchTracksPage(ctx, playlistID, services.PageSize, cursor)
		if err != nil {
			return nil, err
		}
		items = append(items, page.Items...)

		if !page.HasNext() {
			return items, nil
		}
		cursor = *page.Next
	}
}

// collectIDs returns the playable track IDs and the unique artist IDs in first-seen order.
func collectIDs(items []services.PlaylistItem) (trackIDs, artistIDs []string) {
	seen := make(map[string]struct{})
	for _, item := range items {
		if item.Track == nil || item.Track.ID == "" {
			continue
		}
		trackIDs = append(trackIDs, item.Track.ID)

		for _, artist := range item.Track.Artists {
			if artist.ID == "" {
				continue
			}
			if _, ok := seen[artist.ID]; ok {
				continue
			}
			seen[artist.ID] = struct{}{}
			artistIDs = append(artistIDs, artist.ID)
		}
	}
	return trackIDs, artistIDs
}

// fetchFeatures requests features in batches, dropping null entries.
func (a *Analyzer) fetchFeatures(ctx context.Context, provider services.Provider, trackIDs []string) ([]*services.AudioFeatures, error) {
	features := make([]*services.AudioFeatures, 0, len(trackIDs))
	for _, batch := range Batches(trackIDs, FeatureBatchSize) {
		result, err := provider.FetchAudioFeatures(ctx, batch)
		if err != nil {
			return nil, err
		}
		for _, f := range result {
			if f != nil {
				features = append(features, f)
			}
		}
	}
	return features, nil
}

// countGenres requests artists in batches and tallies their genre tags.
func (a *Analyzer) countGenres(ctx context.Context, provider services.Provider, artistIDs []string) (*Counter, error) {
	genres := NewCounter()
	for _, batch := range Batches(artistIDs, ArtistBatchSize) {
		artists, err := provider.FetchArtists(ctx, batch)
		if err != nil {
			return nil, err
		}
		for _, artist := range artists {
			if artist == nil {
				continue
			}
			for _, genre := range artist.Genres {
				genres.Add(genre)
			}
		}
	}
	return genres, nil
}

// countArtistNames tallies artist display names over every item with a track, local files included.
// Distinct artists sharing a name are counted together.
func countArtistNames(items []services.PlaylistItem) *Counter {
	names := NewCounter()
	for _, item := range items {
		if item.Track == nil {
			continue
		}
		for _, artist := range item.Track.Artists {
			if artist.Name != "" {
				names.Add(artist.Name)
			}
		}
	}
	return names
}
