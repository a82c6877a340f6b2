package repl

import (
	"github.com/charmbracelet/lipgloss"
)

// Colors
var (
	colorPrimary = lipgloss.Color("#7C3AED")
	colorMuted   = lipgloss.Color("#6B7280")
	colorAccent  = lipgloss.Color("#F59E0B")
)

// Styles
var (
	PromptStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	EchoStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	NoticeStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Italic(true)
)
