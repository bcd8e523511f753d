package home

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathgenius/internal/calibration"
	"github.com/abhisek/mathgenius/internal/ui/theme"
)

// MascotVariant selects which mascot art to display.
type MascotVariant int

const (
	MascotIdle        MascotVariant = iota // Default purple
	MascotCelebrating                      // Star eyes: strong topics, nothing weak
	MascotAlert                            // Exclamation: weak topics to practice
)

const mascotIdle = `┌─────┐
│ ◉ ◉ │
│  ▽  │
│ ±×÷ │
└─────┘`

const mascotCelebrating = `┌─────┐
│ ★ ★ │
│  ▿  │
│ ±×÷ │
└─╥═╥─┘
  ╚═╝`

const mascotAlert = `┌─────┐
│ ◉ ◉ │ !
│  ▽  │
│ ±×÷ │
└─────┘`

// mascotFor picks the mascot mood from a calibration result.
func mascotFor(res *calibration.Result) MascotVariant {
	switch {
	case res == nil || res.Sample == 0:
		return MascotIdle
	case len(res.WeakCategories) > 0:
		return MascotAlert
	case len(res.StrongCategories) > 0:
		return MascotCelebrating
	}
	return MascotIdle
}

// RenderMascot returns the mascot ASCII art for the given variant.
func RenderMascot(v MascotVariant) string {
	art, fg := mascotIdle, theme.Primary
	switch v {
	case MascotCelebrating:
		art, fg = mascotCelebrating, theme.Success
	case MascotAlert:
		art, fg = mascotAlert, theme.Accent
	}
	return lipgloss.NewStyle().Foreground(fg).Render(art)
}
