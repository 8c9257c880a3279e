package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/desertthunder/harmony/internal/analysis"
)

const barWidth = 24

func Success(s string) string { return styles.ok.Render(s) }
func Error(s string) string   { return styles.err.Render(s) }
func Warn(s string) string    { return styles.warn.Render(s) }
func Help(s string) string    { return styles.help.Render(s) }

// RenderMood draws a mood card: the label in the gradient's first color, its description and a gradient swatch.
func RenderMood(m analysis.Mood) string {
	from, to := Hex(m.ColorFrom), Hex(m.ColorTo)

	title := NewBold(from).Render(m.Mood)
	body := lipgloss.JoinVertical(lipgloss.Left,
		title,
		m.Description,
		"",
		Swatch(from, to, barWidth),
		styles.help.Render(m.ColorFrom+" → "+m.ColorTo),
	)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(from)).
		Padding(0, 2).
		Render(body)
}

// Swatch renders width blocks blended from one color to the other.
func Swatch(from, to string, width int) string {
	var b strings.Builder
	for _, c := range Gradient(from, to, width) {
		b.WriteString(styles.On(" ", c))
	}
	return b.String()
}

// Bar renders v, clamped to [0, 1], as a filled bar of width cells.
func Bar(v float64, width int, color string) string {
	v = math.Max(0, math.Min(1, v))
	filled := int(math.Round(v * float64(width)))

	return NewStyle(color).Render(strings.Repeat("█", filled)) +
		styles.help.Render(strings.Repeat("░", width-filled))
}

// RenderFeatures draws one bar per 0-1 feature plus the tempo in BPM.
func RenderFeatures(f analysis.Features, color string) string {
	rows := []struct {
		name  string
		value float64
	}{
		{"danceability", f.Danceability},
		{"energy", f.Energy},
		{"valence", f.Valence},
		{"acousticness", f.Acousticness},
	}

	lines := make([]string, 0, len(rows)+1)
	for _, r := range rows {
		lines = append(lines, fmt.Sprintf("%s%s %.2f", styles.label.Render(r.name), Bar(r.value, barWidth, color), r.value))
	}
	lines = append(lines, fmt.Sprintf("%s%.0f BPM", styles.label.Render("tempo"), f.Tempo))

	return strings.Join(lines, "\n")
}

func renderCounts(title string, counts []analysis.Count) string {
	lines := []string{styles.ok.Render(title)}
	if len(counts) == 0 {
		lines = append(lines, styles.help.Render("  none"))
	}
	for i, c := range counts {
		lines = append(lines, fmt.Sprintf("  %d. %s %s", i+1, c.Name, styles.help.Render(fmt.Sprintf("(%d)", c.Count))))
	}
	return strings.Join(lines, "\n")
}

// RenderResult draws a full analysis report for the terminal.
func RenderResult(r *analysis.Result) string {
	header := styles.title.Render(fmt.Sprintf("%s · %d tracks", r.Playlist.Name, r.Playlist.TotalTracks))
	if r.Playlist.Description != "" {
		header = lipgloss.JoinVertical(lipgloss.Left, header, styles.help.Render(r.Playlist.Description))
	}

	lists := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().MarginRight(4).Render(renderCounts("Top genres", r.TopGenres)),
		renderCounts("Top artists", r.TopArtists),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		RenderMood(r.Mood),
		"",
		RenderFeatures(r.AudioFeatures, Hex(r.Mood.ColorFrom)),
		"",
		lists,
	)
}
