package session

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathgenius/internal/ui/components"
	"github.com/abhisek/mathgenius/internal/ui/theme"
)

func centered(width int) lipgloss.Style {
	return lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
}

// renderQuestionView renders the active question display.
func (s *SessionScreen) renderQuestionView(width int) string {
	q := s.question
	if q == nil {
		return centered(width).Foreground(theme.TextDim).Render("\n\n  Loading question...")
	}

	var b strings.Builder
	answered, total := s.session.Progress()

	infoLeft := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  %s  ", q.Category.DisplayName())) + theme.TierBadge(s.session.Tier())

	timer := "--:--"
	if q.TimeLimitSecs > 0 {
		secs := int(s.remaining.Seconds())
		timer = fmt.Sprintf("%d:%02d", secs/60, secs%60)
	}
	timerStyle := lipgloss.NewStyle().Foreground(theme.Accent)
	if q.TimeLimitSecs > 0 && s.remaining.Seconds() <= 10 {
		timerStyle = timerStyle.Foreground(theme.Error).Bold(true)
	}
	infoRight := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("Q %d/%d  ", answered+1, total)) + timerStyle.Render(timer)

	infoLine := infoLeft
	if pad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 4; pad > 0 {
		infoLine += strings.Repeat(" ", pad) + infoRight
	}
	b.WriteString(infoLine)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Width(min(width-8, 70)).Foreground(theme.Text).Bold(true).Render(q.Text)))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.choice.View()))

	if s.typing {
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.input.View()))
	}
	if s.hint != "" {
		b.WriteString("\n")
		b.WriteString(centered(width).Inherit(theme.Hint).Render("Hint: " + s.hint))
	}
	if s.submitting {
		b.WriteString("\n")
		b.WriteString(centered(width).Foreground(theme.TextDim).Render("Checking..."))
	}

	b.WriteString("\n\n")
	bar := components.NewProgressBar("Progress", float64(answered)/float64(max(total, 1)), false, min(width-8, 60))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
	return b.String()
}

// renderFeedback renders the feedback overlay.
func (s *SessionScreen) renderFeedback(width int) string {
	fb := s.feedback

	var b strings.Builder
	b.WriteString("\n")
	switch {
	case fb.Correct:
		b.WriteString(centered(width).Inherit(theme.Correct).Render("Correct!"))
	case fb.TimedOut:
		b.WriteString(centered(width).Inherit(theme.Incorrect).Render("Time's up"))
	default:
		b.WriteString(centered(width).Inherit(theme.Incorrect).Render("Not quite"))
	}
	if !fb.Correct {
		b.WriteString("\n")
		b.WriteString(centered(width).Foreground(theme.TextDim).Render("Correct answer: " + fb.Answer))
	}
	b.WriteString("\n\n")

	if s.question != nil {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.choice.View()))
		b.WriteString("\n")
	}

	if fb.Explanation != "" {
		exp := lipgloss.NewStyle().Width(min(width-8, 70)).Foreground(theme.Text).Render(fb.Explanation)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, exp))
		b.WriteString("\n\n")
	}

	if fb.TierChanged() {
		msg := "Level up!"
		if fb.TierAfter < fb.TierBefore {
			msg = "Let's slow down a little."
		}
		b.WriteString(centered(width).Foreground(theme.Accent).Bold(true).Render(msg))
		b.WriteString("\n")
		b.WriteString(centered(width).Render(
			theme.TierBadge(fb.TierBefore) + lipgloss.NewStyle().Foreground(theme.TextDim).Render(" → ") + theme.TierBadge(fb.TierAfter)))
		b.WriteString("\n\n")
	}

	next := "Press any key to continue..."
	if fb.Complete {
		next = "Press any key to see your results..."
	}
	b.WriteString(centered(width).Foreground(theme.TextDim).Render(next))
	return b.String()
}

// renderQuitConfirm renders the quit confirmation dialog.
func renderQuitConfirm(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(centered(width).Foreground(theme.Text).Bold(true).Render("End session early?"))
	b.WriteString("\n")
	b.WriteString(centered(width).Foreground(theme.TextDim).Render("Your answers so far are saved."))
	b.WriteString("\n\n")
	b.WriteString(centered(width).Foreground(theme.Success).Render("[Y] Yes, end session"))
	b.WriteString("\n")
	b.WriteString(centered(width).Foreground(theme.Primary).Render("[N] No, keep going"))
	return b.String()
}

// renderLoading renders the loading state.
func renderLoading(width int) string {
	return centered(width).Foreground(theme.TextDim).Render("\n\n\n  Preparing your session...")
}

// renderError renders an error message.
func renderError(width int, errMsg string) string {
	return centered(width).
		Foreground(theme.Error).
		Render(fmt.Sprintf("\n\n\n  Error: %s\n\n  Press any key to go back.", errMsg))
}
