// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/archsh/archsh/internal/tui"

	"github.com/charmbracelet/lipgloss"
)

// Base styles built from the shared palette.
var (
	// TitleStyle is for primary headers and section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(tui.ColorPrimary)

	// SubtitleStyle is for secondary headers and descriptions.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(tui.ColorMuted)

	// SuccessStyle is for success messages.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981"))

	// ErrorStyle is for error labels.
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(tui.ColorError)

	// CmdStyle is for keys, commands and paths.
	CmdStyle = lipgloss.NewStyle().
			Foreground(tui.ColorHighlight)
)
