// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"sync"
	"testing"

	"github.com/desertthunder/harmony/internal/services"
)

// FakeProvider is an in-memory [services.Provider] that records every call.
//
// Items are served in pages of the requested limit with cursors of the form "offset:<n>".
// Features and Artists are looked up by ID; unknown IDs yield nil entries like the real API.
type FakeProvider struct {
	Playlist *services.Playlist
	Items    []services.PlaylistItem
	Features map[string]*services.AudioFeatures
	Artists  map[string]*services.Artist
	User     *services.User

	// Err, when set for a method name ("FetchPlaylist", "FetchTracksPage", ...), is returned by that method.
	Err map[string]error

	mu            sync.Mutex
	PageCalls     []string
	FeatureCalls  [][]string
	ArtistCalls   [][]string
	PlaylistCalls int
}

func (f *FakeProvider) fail(method string) error {
	if f.Err == nil {
		return nil
	}
	return f.Err[method]
}

func (f *FakeProvider) FetchPlaylist(_ context.Context, playlistID string) (*services.Playlist, error) {
	f.mu.Lock()
	f.PlaylistCalls++
	f.mu.Unlock()

	if err := f.fail("FetchPlaylist"); err != nil {
		return nil, err
	}
	if f.Playlist == nil {
		return &services.Playlist{ID: playlistID}, nil
	}
	return f.Playlist, nil
}

func (f *FakeProvider) FetchTracksPage(_ context.Context, _ string, limit int, cursor string) (*services.TrackPage, error) {
	f.mu.Lock()
	f.PageCalls = append(f.PageCalls, cursor)
	f.mu.Unlock()

	if err := f.fail("FetchTracksPage"); err != nil {
		return nil, err
	}

	offset := 0
	if cursor != "" {
		n, err := strconv.Atoi(cursor[len("offset:"):])
		if err != nil {
			return nil, fmt.Errorf("bad cursor %q", cursor)
		}
		offset = n
	}
	if limit <= 0 {
		limit = services.PageSize
	}

	end := min(offset+limit, len(f.Items))
	page := &services.TrackPage{
		Items:  f.Items[offset:end],
		Total:  len(f.Items),
		Limit:  limit,
		Offset: offset,
	}
	if end < len(f.Items) {
		next := fmt.Sprintf("offset:%d", end)
		page.Next = &next
	}
	return page, nil
}

func (f *FakeProvider) FetchAudioFeatures(_ context.Context, ids []string) ([]*services.AudioFeatures, error) {
	f.mu.Lock()
	f.FeatureCalls = append(f.FeatureCalls, append([]string(nil), ids...))
	f.mu.Unlock()

	if err := f.fail("FetchAudioFeatures"); err != nil {
		return nil, err
	}

	out := make([]*services.AudioFeatures, len(ids))
	for i, id := range ids {
		out[i] = f.Features[id]
	}
	return out, nil
}

func (f *FakeProvider) FetchArtists(_ context.Context, ids []string) ([]*services.Artist, error) {
	f.mu.Lock()
	f.ArtistCalls = append(f.ArtistCalls, append([]string(nil), ids...))
	f.mu.Unlock()

	if err := f.fail("FetchArtists"); err != nil {
		return nil, err
	}

	out := make([]*services.Artist, len(ids))
	for i, id := range ids {
		out[i] = f.Artists[id]
	}
	return out, nil
}

func (f *FakeProvider) CurrentUser(_ context.Context) (*services.User, error) {
	if err := f.fail("CurrentUser"); err != nil {
		return nil, err
	}
	if f.User == nil {
		return &services.User{ID: "fixture-user", DisplayName: "Fixture User", Product: "free"}, nil
	}
	return f.User, nil
}

// BatchSizes returns the length of each recorded batch.
func BatchSizes(calls [][]string) []int {
	sizes := make([]int, len(calls))
	for i, c := range calls {
		sizes[i] = len(c)
	}
	return sizes
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}

// TrackItem builds a playlist item for a track by the given artists.
func TrackItem(id string, artists ...services.ArtistRef) services.PlaylistItem {
	return services.PlaylistItem{Track: &services.Track{ID: id, Name: "Track " + id, Artists: artists}}
}

// NewFakeProvider builds a provider holding n tracks, each with its own artist and full audio features.
// Track i is "t<i>" by artist "a<i>" named "Artist <i>" tagged with genre "genre-<i%3>".
func NewFakeProvider(n int) *FakeProvider {
	f := &FakeProvider{
		Playlist: &services.Playlist{
			ID:          "abc123def456",
			Name:        "Fixture",
			Description: "A generated playlist",
			Images:      []services.Image{{URL: "https://img.example/cover.jpg"}},
		},
		Features: make(map[string]*services.AudioFeatures),
		Artists:  make(map[string]*services.Artist),
	}
	f.Playlist.Tracks.Total = n

	for i := range n {
		tid, aid := fmt.Sprintf("t%d", i), fmt.Sprintf("a%d", i)
		f.Items = append(f.Items, TrackItem(tid, services.ArtistRef{ID: aid, Name: fmt.Sprintf("Artist %d", i)}))
		f.Features[tid] = &services.AudioFeatures{
			ID:           tid,
			Danceability: Float(0.5),
			Energy:       Float(0.5),
			Valence:      Float(0.5),
			Tempo:        Float(120),
			Acousticness: Float(0.2),
		}
		f.Artists[aid] = &services.Artist{ID: aid, Genres: []string{fmt.Sprintf("genre-%d", i%3)}}
	}
	return f
}

var _ services.Provider = (*FakeProvider)(nil)

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

var _ io.ReadCloser = (*FCloser)(nil)

// MustChdir changes into dir and restores the previous working directory when the test ends.
func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if wd, err := os.Getwd(); err == nil {
		t.Cleanup(func() { _ = os.Chdir(wd) })
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
