package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/mrlokans/bookshelf/internal/theme"
)

type styles struct {
	app       lipgloss.Style
	title     lipgloss.Style
	secondary lipgloss.Style
	warning   lipgloss.Style
	panel     lipgloss.Style
	focused   lipgloss.Style
	button    lipgloss.Style
	disabled  lipgloss.Style
}

// newStyles derives every style from the theme's two colors, the same pair
// the web stylesheet uses.
func newStyles(t theme.Theme) styles {
	p := t.Palette()
	dark := lipgloss.Color(p.Dark.Hex())
	light := lipgloss.Color(p.Light.Hex())
	dim := lipgloss.AdaptiveColor{Light: "#6B6B75", Dark: "#9A9AA5"}

	return styles{
		app:       lipgloss.NewStyle().Foreground(dark).Background(light).Padding(1, 2),
		title:     lipgloss.NewStyle().Bold(true).Foreground(light).Background(dark).Padding(0, 1),
		secondary: lipgloss.NewStyle().Foreground(dim),
		warning:   lipgloss.NewStyle().Foreground(lipgloss.Color("#D9534F")),
		panel:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(dark).Padding(0, 1),
		focused:   lipgloss.NewStyle().Bold(true).Foreground(dark).Underline(true),
		button:    lipgloss.NewStyle().Foreground(light).Background(dark).Padding(0, 1),
		disabled:  lipgloss.NewStyle().Foreground(dim).Padding(0, 1),
	}
}
