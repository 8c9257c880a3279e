// package formatter renders analysis results as plain text, Markdown, CSV or JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/harmony/internal/analysis"
)

// Format names an export format.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
)

// Formats lists the supported formats.
var Formats = []Format{FormatText, FormatMarkdown, FormatCSV, FormatJSON}

// ParseFormat resolves a format name. "md" is accepted for Markdown.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "text", "txt":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown format %q", name)
}

// Extension returns the file extension for f, without the dot.
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return "md"
	case FormatText:
		return "txt"
	default:
		return string(f)
	}
}

// Export renders result in format f.
func Export(result *analysis.Result, f Format) ([]byte, error) {
	switch f {
	case FormatText:
		return ExportToText(result)
	case FormatMarkdown:
		return ExportToMarkdown(result)
	case FormatCSV:
		return ExportToCSV(result)
	case FormatJSON:
		return ExportToJSON(result)
	}
	return nil, fmt.Errorf("unknown format %q", f)
}

// ExportToCSV writes one row per value with columns: Section, Name, Value
func ExportToCSV(result *analysis.Result) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	rows := [][]string{{"Section", "Name", "Value"}}
	rows = append(rows,
		[]string{"playlist", "name", result.Playlist.Name},
		[]string{"playlist", "total_tracks", strconv.Itoa(result.Playlist.TotalTracks)},
		[]string{"mood", "mood", result.Mood.Mood},
	)
	for _, g := range result.TopGenres {
		rows = append(rows, []string{"genre", g.Name, strconv.Itoa(g.Count)})
	}
	for _, a := range result.TopArtists {
		rows = append(rows, []string{"artist", a.Name, strconv.Itoa(a.Count)})
	}
	for _, f := range featureRows(result.AudioFeatures) {
		rows = append(rows, []string{"feature", f.name, formatFloat(f.value)})
	}

	for _, record := range rows {
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown renders a Markdown report with the cover image when the playlist has one
func ExportToMarkdown(result *analysis.Result) ([]byte, error) {
	var buf bytes.Buffer
	p := result.Playlist

	fmt.Fprintf(&buf, "# %s\n\n", p.Name)
	if p.Image != nil {
		fmt.Fprintf(&buf, "![Cover](%s)\n\n", *p.Image)
	}
	if p.Description != "" {
		fmt.Fprintf(&buf, "**Description**: %s\n\n", p.Description)
	}
	fmt.Fprintf(&buf, "**Tracks**: %d\n\n", p.TotalTracks)

	fmt.Fprintf(&buf, "## Mood: %s\n\n%s\n\n", result.Mood.Mood, result.Mood.Description)

	buf.WriteString("## Top Genres\n\n")
	writeCounts(&buf, result.TopGenres, "%d. %s (%d)\n")

	buf.WriteString("\n## Top Artists\n\n")
	writeCounts(&buf, result.TopArtists, "%d. %s (%d)\n")

	buf.WriteString("\n## Audio Features\n\n| Feature | Average |\n| --- | --- |\n")
	for _, f := range featureRows(result.AudioFeatures) {
		fmt.Fprintf(&buf, "| %s | %s |\n", f.name, formatFloat(f.value))
	}

	return buf.Bytes(), nil
}

// ExportToText renders a plain text report
func ExportToText(result *analysis.Result) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Playlist: %s\n", result.Playlist.Name)
	if result.Playlist.Description != "" {
		fmt.Fprintf(&buf, "Description: %s\n", result.Playlist.Description)
	}
	fmt.Fprintf(&buf, "Tracks: %d\n", result.Playlist.TotalTracks)
	fmt.Fprintf(&buf, "Mood: %s - %s\n\n", result.Mood.Mood, result.Mood.Description)

	buf.WriteString("Top genres:\n")
	writeCounts(&buf, result.TopGenres, "  %d. %s (%d)\n")
	buf.WriteString("Top artists:\n")
	writeCounts(&buf, result.TopArtists, "  %d. %s (%d)\n")

	buf.WriteString("Audio features:\n")
	for _, f := range featureRows(result.AudioFeatures) {
		fmt.Fprintf(&buf, "  %-13s %s\n", f.name, formatFloat(f.value))
	}

	return buf.Bytes(), nil
}

// ExportToJSON renders the result exactly as the API returns it
func ExportToJSON(result *analysis.Result) ([]byte, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteReport exports result to path in format f.
//
// Defaults to harmony_{playlist name}.{ext} as the filename.
func WriteReport(result *analysis.Result, f Format, path string) (string, error) {
	if path == "" {
		path = fmt.Sprintf("harmony_%s.%s", slug(result.Playlist.Name), f.Extension())
	}

	data, err := Export(result, f)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", f, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s file: %w", f, err)
	}

	return path, nil
}

type featureRow struct {
	name  string
	value float64
}

func featureRows(f analysis.Features) []featureRow {
	return []featureRow{
		{"danceability", f.Danceability},
		{"energy", f.Energy},
		{"valence", f.Valence},
		{"tempo", f.Tempo},
		{"acousticness", f.Acousticness},
	}
}

func writeCounts(buf *bytes.Buffer, counts []analysis.Count, layout string) {
	if len(counts) == 0 {
		buf.WriteString("  (none)\n")
		return
	}
	for i, c := range counts {
		fmt.Fprintf(buf, layout, i+1, c.Name, c.Count)
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

func slug(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case b.Len() > 0 && !strings.HasSuffix(b.String(), "_"):
			b.WriteByte('_')
		}
	}
	if s := strings.TrimSuffix(b.String(), "_"); s != "" {
		return s
	}
	return "playlist"
}
