package formatter

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/harmony/internal/analysis"
	th "github.com/desertthunder/harmony/internal/testing"
)

func fixture() *analysis.Result {
	cover := "https://img.example/cover.jpg"
	return &analysis.Result{
		Playlist: analysis.PlaylistSummary{
			Name:        "Late Night Drive",
			Description: "Synths and city lights",
			Image:       &cover,
			TotalTracks: 42,
		},
		TopGenres:  []analysis.Count{{Name: "synthwave", Count: 12}, {Name: "darkwave", Count: 4}},
		TopArtists: []analysis.Count{{Name: "Artist One", Count: 3}},
		AudioFeatures: analysis.Features{
			Danceability: 0.61,
			Energy:       0.72,
			Valence:      0.3,
			Tempo:        118.5,
			Acousticness: 0.05,
		},
		Mood: analysis.IntensePassionate,
	}
}

func TestExporters(t *testing.T) {
	result := fixture()

	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(result)
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{
			"Section,Name,Value",
			"playlist,name,Late Night Drive",
			"playlist,total_tracks,42",
			"genre,synthwave,12",
			"artist,Artist One,3",
			"feature,tempo,118.500",
			"mood,mood,Intense & Passionate",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("CSV missing %q, got: %s", want, output)
			}
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(result)
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)
		if !strings.HasPrefix(output, "# Late Night Drive\n") {
			t.Errorf("Markdown should start with the playlist title, got: %s", output)
		}
		if !strings.Contains(output, "![Cover](https://img.example/cover.jpg)") {
			t.Errorf("Markdown missing cover image")
		}
		if !strings.Contains(output, "## Mood: Intense & Passionate") {
			t.Errorf("Markdown missing mood heading")
		}
		if !strings.Contains(output, "1. synthwave (12)") {
			t.Errorf("Markdown missing top genre")
		}
		if !strings.Contains(output, "| energy | 0.720 |") {
			t.Errorf("Markdown missing feature table row")
		}
	})

	t.Run("ExportToMarkdown without image", func(t *testing.T) {
		r := fixture()
		r.Playlist.Image = nil
		r.TopArtists = nil

		data, err := ExportToMarkdown(r)
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}
		if strings.Contains(string(data), "![Cover]") {
			t.Errorf("Markdown should omit the cover when there is none")
		}
		if !strings.Contains(string(data), "(none)") {
			t.Errorf("Markdown should mark empty lists")
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(result)
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "Playlist: Late Night Drive") {
			t.Errorf("text missing playlist name")
		}
		if !strings.Contains(output, "Mood: Intense & Passionate - Strong emotional energy.") {
			t.Errorf("text missing mood line, got: %s", output)
		}
		if !strings.Contains(output, "1. Artist One (3)") {
			t.Errorf("text missing artist")
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(result)
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		var decoded map[string]any
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		for _, key := range []string{"playlist", "top_genres", "top_artists", "audio_features", "mood"} {
			if _, ok := decoded[key]; !ok {
				t.Errorf("JSON missing key %q", key)
			}
		}
	})
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"text", FormatText, false},
		{"TXT", FormatText, false},
		{"md", FormatMarkdown, false},
		{"markdown", FormatMarkdown, false},
		{" csv ", FormatCSV, false},
		{"json", FormatJSON, false},
		{"yaml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestWriteReport(t *testing.T) {
	result := fixture()

	t.Run("default filename", func(t *testing.T) {
		dir := t.TempDir()
		th.MustChdir(t, dir)

		path, err := WriteReport(result, FormatMarkdown, "")
		if err != nil {
			t.Fatalf("WriteReport failed: %v", err)
		}
		if path != "harmony_late_night_drive.md" {
			t.Errorf("unexpected default path %q", path)
		}
		th.AssertFileExists(t, filepath.Join(dir, path))
	})

	t.Run("explicit path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "report.csv")

		got, err := WriteReport(result, FormatCSV, path)
		if err != nil {
			t.Fatalf("WriteReport failed: %v", err)
		}
		if got != path {
			t.Errorf("WriteReport returned %q, want %q", got, path)
		}
		if content := th.MustReadFile(t, path); !strings.HasPrefix(content, "Section,Name,Value") {
			t.Errorf("unexpected CSV content: %s", content)
		}
	})

	t.Run("unwritable path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "report.txt")
		if _, err := WriteReport(result, FormatText, path); err == nil {
			t.Error("expected error for missing directory")
		}
	})
}

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"Late Night Drive": "late_night_drive",
		"  Chill!! Vibes ": "chill_vibes",
		"???":              "playlist",
		"":                 "playlist",
	}
	for in, want := range tests {
		if got := slug(in); got != want {
			t.Errorf("slug(%q) = %q, want %q", in, got, want)
		}
	}
}
