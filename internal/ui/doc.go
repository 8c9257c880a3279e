// Package ui renders analysis results for the terminal with lipgloss.
//
// Mood colors are Tailwind gradient classes meant for the web frontend ("from-yellow-300", "to-pink-400").
// [Hex] maps them onto hex values so [RenderMood] can draw the same gradient in the terminal.
package ui
