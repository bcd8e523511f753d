package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathgenius/internal/router"
	"github.com/abhisek/mathgenius/internal/screen"
	"github.com/abhisek/mathgenius/internal/session"
	"github.com/abhisek/mathgenius/internal/ui/components"
	"github.com/abhisek/mathgenius/internal/ui/layout"
	"github.com/abhisek/mathgenius/internal/ui/theme"
)

// SummaryScreen displays the session summary.
type SummaryScreen struct {
	summary session.Summary
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(summary session.Summary) *SummaryScreen {
	return &SummaryScreen{summary: summary}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Session Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	var b strings.Builder

	title := "Session complete!"
	if !sum.Complete {
		title = "Session ended"
	}
	b.WriteString(center.Foreground(theme.Primary).Bold(true).Render(title))
	b.WriteString("\n\n")

	mins := int(sum.Duration.Minutes())
	secs := int(sum.Duration.Seconds()) % 60
	b.WriteString(center.Foreground(theme.TextDim).Render(
		fmt.Sprintf("%s  ·  Duration: %d:%02d", sum.Grade.DisplayName(), mins, secs)))
	b.WriteString("\n\n")

	statsLine := fmt.Sprintf("Answered: %d/%d        Correct: %d        Accuracy: %.0f%%",
		sum.Answered, sum.TotalQuestions, sum.Correct, sum.Accuracy*100)
	b.WriteString(center.Foreground(theme.Text).Render(statsLine))
	b.WriteString("\n")

	tierLine := "Level: " + theme.TierBadge(sum.FinalTier)
	if sum.StartTier != sum.FinalTier {
		tierLine = "Level: " + theme.TierBadge(sum.StartTier) + " → " + theme.TierBadge(sum.FinalTier)
	}
	b.WriteString(center.Foreground(theme.TextDim).Render(tierLine))
	b.WriteString("\n\n")

	if len(sum.Categories) == 0 {
		return b.String()
	}

	barWidth := min(width-8, 60)
	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(barWidth, 0)))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.TextDim).Render("Topics")))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n\n")

	for _, cr := range sum.Categories {
		if cr.Attempted == 0 {
			continue
		}
		label := fmt.Sprintf("%-16s %d/%d", cr.Category.DisplayName(), cr.Correct, cr.Attempted)
		bar := components.AccuracyBar(label, cr.Accuracy, barWidth)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
		b.WriteString("\n")
	}
	return b.String()
}
