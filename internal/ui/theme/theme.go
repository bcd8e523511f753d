package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathgenius/internal/curriculum"
)

// Color palette: kid-friendly, bright but not garish.
var (
	Primary   = lipgloss.Color("#8B5CF6") // Vivid Purple
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F97316") // Orange
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgCard    = lipgloss.Color("#1E293B") // Dark Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// States
var (
	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)
)

// TierColor returns the badge color for a difficulty tier.
func TierColor(t curriculum.Tier) color.Color {
	switch t {
	case curriculum.TierEasy:
		return Success
	case curriculum.TierNormal:
		return Secondary
	case curriculum.TierAdvanced:
		return Primary
	case curriculum.TierExpert:
		return Accent
	default:
		return TextDim
	}
}

// TierBadge renders a tier name in its color.
func TierBadge(t curriculum.Tier) string {
	return lipgloss.NewStyle().Foreground(TierColor(t)).Bold(true).Render(t.String())
}
