package theme

import (
	"charm.land/lipgloss/v2"
)

// Palette
var (
	Primary   = lipgloss.Color("#5B4FE9") // Indigo
	Secondary = lipgloss.Color("#38BDF8") // Sky
	Success   = lipgloss.Color("#22C55E")
	Warning   = lipgloss.Color("#EAB308")
	Error     = lipgloss.Color("#EF4444")
	Text      = lipgloss.Color("#F1F5F9")
	TextDim   = lipgloss.Color("#94A3B8")
	BgCard    = lipgloss.Color("#1E293B")
	Border    = lipgloss.Color("#334155")
)

var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)

	Bar = lipgloss.NewStyle().
		Background(BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border)
)

// Answer outcomes
var (
	Validated = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	Invalidated = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	Partial = lipgloss.NewStyle().
		Foreground(Warning)

	Unknown = lipgloss.NewStyle().
		Foreground(TextDim)
)

// ProgressFilled and ProgressEmpty draw the answered/remaining bar.
var (
	ProgressFilled = lipgloss.NewStyle().Background(Secondary)
	ProgressEmpty  = lipgloss.NewStyle().Background(Border)
)
