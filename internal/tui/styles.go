package tui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	header   lipgloss.Style
	panel    lipgloss.Style
	selected lipgloss.Style
	muted    lipgloss.Style
	self     lipgloss.Style
	peer     lipgloss.Style
	failed   lipgloss.Style
	info     lipgloss.Style
	error    lipgloss.Style
}

func newStyles() styles {
	accent := lipgloss.Color("#01cdfe")
	mint := lipgloss.Color("#05ffa1")
	pink := lipgloss.Color("#ff71ce")
	muted := lipgloss.Color("#9ca3d8")

	return styles{
		header: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Padding(0, 1),
		panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1),
		selected: lipgloss.NewStyle().Foreground(mint).Bold(true),
		muted:    lipgloss.NewStyle().Foreground(muted),
		self:     lipgloss.NewStyle().Foreground(mint).Bold(true),
		peer:     lipgloss.NewStyle().Foreground(accent).Bold(true),
		failed:   lipgloss.NewStyle().Foreground(pink),
		info:     lipgloss.NewStyle().Foreground(accent),
		error:    lipgloss.NewStyle().Foreground(pink).Bold(true),
	}
}
