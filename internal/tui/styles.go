// SPDX-License-Identifier: MPL-2.0

package tui

import "github.com/charmbracelet/lipgloss"

// Color palette shared with the CLI.
const (
	ColorPrimary   = lipgloss.Color("#7C3AED") // Purple - titles
	ColorHighlight = lipgloss.Color("#3B82F6") // Blue - prompt
	ColorError     = lipgloss.Color("#EF4444") // Red - errors
	ColorMuted     = lipgloss.Color("#6B7280") // Gray - hints
	ColorSeparator = lipgloss.Color("#374151") // Dark gray - rules
)

type styles struct {
	title     lipgloss.Style
	prompt    lipgloss.Style
	echo      lipgloss.Style
	err       lipgloss.Style
	muted     lipgloss.Style
	separator lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title:     r.NewStyle().Bold(true).Foreground(ColorPrimary),
		prompt:    r.NewStyle().Foreground(ColorHighlight).Bold(true),
		echo:      r.NewStyle().Foreground(ColorHighlight),
		err:       r.NewStyle().Foreground(ColorError),
		muted:     r.NewStyle().Foreground(ColorMuted),
		separator: r.NewStyle().Foreground(ColorSeparator),
	}
}
