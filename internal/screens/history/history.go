// Package history lists a learner's finished practice sessions.
package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathgenius/internal/curriculum"
	"github.com/abhisek/mathgenius/internal/router"
	"github.com/abhisek/mathgenius/internal/screen"
	"github.com/abhisek/mathgenius/internal/store"
	"github.com/abhisek/mathgenius/internal/ui/layout"
	"github.com/abhisek/mathgenius/internal/ui/theme"
)

// maxEvents bounds how far back the screen looks. Start and end events
// alternate, so this covers roughly half as many sessions.
const maxEvents = 100

type historyLoadedMsg struct {
	Sessions []store.SessionEvent
	Err      error
}

// HistoryScreen displays past sessions, newest first.
type HistoryScreen struct {
	events   store.EventRepo
	learner  string
	sessions []store.SessionEvent
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

func New(events store.EventRepo, learnerID string) *HistoryScreen {
	return &HistoryScreen{
		events:   events,
		learner:  learnerID,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	events, learner := s.events, s.learner
	return func() tea.Msg {
		all, err := events.QuerySessionEvents(context.Background(), learner, store.QueryOpts{Limit: maxEvents})
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		return historyLoadedMsg{Sessions: endedSessions(all)}
	}
}

// endedSessions keeps only end events; they carry the final tallies.
func endedSessions(events []store.SessionEvent) []store.SessionEvent {
	var out []store.SessionEvent
	for _, e := range events {
		if e.Action == store.SessionActionEnd {
			out = append(out, e)
		}
	}
	return out
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.sessions = msg.Sessions
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.sessions)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	switch {
	case s.errMsg != "":
		return center.Foreground(theme.Error).Render("\n\nError: " + s.errMsg)
	case !s.loaded:
		return center.Foreground(theme.TextDim).Render("\n\n  Loading history...")
	case len(s.sessions) == 0:
		return center.Foreground(theme.TextDim).Italic(true).Render("\n\n  No sessions yet. Start practicing!")
	}

	var b strings.Builder
	b.WriteString("\n")
	for i, sess := range s.sessions {
		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			prefix = "> "
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(prefix+sessionLine(sess))))
		b.WriteString("\n")

		if s.expanded[i] {
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				lipgloss.NewStyle().Foreground(theme.TextDim).Render(planLine(sess.PlanSummary))))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func sessionLine(e store.SessionEvent) string {
	var accuracy float64
	if e.QuestionsServed > 0 {
		accuracy = float64(e.CorrectAnswers) / float64(e.QuestionsServed) * 100
	}
	return fmt.Sprintf("%s  %d:%02d  %s  %d/%d correct  %.0f%%",
		e.Timestamp.Local().Format("Jan 02, 2006"),
		e.DurationSecs/60, e.DurationSecs%60,
		e.Tier, e.CorrectAnswers, e.QuestionsServed, accuracy)
}

// planLine counts the session's plan slots per category.
func planLine(plan []store.PlanSlotSummary) string {
	if len(plan) == 0 {
		return "    No plan recorded"
	}
	counts := map[string]int{}
	var order []string
	for _, slot := range plan {
		if counts[slot.Category] == 0 {
			order = append(order, slot.Category)
		}
		counts[slot.Category]++
	}
	parts := make([]string, len(order))
	for i, c := range order {
		name := c
		if cat, ok := curriculum.ParseCategory(c); ok {
			name = cat.DisplayName()
		}
		parts[i] = fmt.Sprintf("%s ×%d", name, counts[c])
	}
	return "    " + strings.Join(parts, "  ·  ")
}
