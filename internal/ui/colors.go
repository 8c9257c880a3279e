package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

var styles = NewPalette("#1DB954", "#04B575", "#FF0000", "#FFA500", "#626262")

// interface Painter defines coloring text with [lipgloss] styles
type Painter interface {
	On(string, lipgloss.Color) string // Sets background color
	As(string, lipgloss.Color) string // Sets foreground color
}

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
	label lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title: NewBold(t).MarginBottom(1),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(h),
		label: NewStyle(h).Width(14),
	}
}

func (p *Palette) On(s string, c lipgloss.Color) string {
	return lipgloss.NewStyle().Background(c).Render(s)
}

func (p *Palette) As(s string, c lipgloss.Color) string {
	return lipgloss.NewStyle().Foreground(c).Render(s)
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

// tailwind maps the Tailwind palette entries used by mood colors to hex values.
var tailwind = map[string]string{
	"yellow-300": "#fde047",
	"pink-400":   "#f472b6",
	"pink-500":   "#ec4899",
	"green-300":  "#86efac",
	"blue-300":   "#93c5fd",
	"red-400":    "#f87171",
	"purple-400": "#c084fc",
	"purple-500": "#a855f7",
	"indigo-400": "#818cf8",
	"slate-500":  "#64748b",
	"teal-300":   "#5eead4",
	"cyan-400":   "#22d3ee",
}

const fallbackHex = "#9ca3af"

// Hex resolves a gradient class such as "from-yellow-300" or "to-cyan-400" to a hex color.
// Unknown classes resolve to a neutral gray.
func Hex(class string) string {
	name := strings.TrimPrefix(strings.TrimPrefix(class, "from-"), "to-")
	if hex, ok := tailwind[name]; ok {
		return hex
	}
	return fallbackHex
}

// Gradient returns n colors blended from one hex color to another in Lab space.
func Gradient(from, to string, n int) []lipgloss.Color {
	if n <= 0 {
		return nil
	}

	a, errA := colorful.Hex(from)
	b, errB := colorful.Hex(to)
	if errA != nil || errB != nil {
		a, _ = colorful.Hex(fallbackHex)
		b = a
	}

	out := make([]lipgloss.Color, n)
	for i := range n {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		out[i] = lipgloss.Color(a.BlendLab(b, t).Clamped().Hex())
	}
	return out
}

var _ Painter = (*Palette)(nil)
