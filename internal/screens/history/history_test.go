package history

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathgenius/internal/router"
	"github.com/abhisek/mathgenius/internal/store"
)

type fakeEvents struct {
	store.EventRepo
	events []store.SessionEvent
	err    error
}

func (f *fakeEvents) QuerySessionEvents(context.Context, string, store.QueryOpts) ([]store.SessionEvent, error) {
	return f.events, f.err
}

func sessionEvent(action string, correct int) store.SessionEvent {
	return store.SessionEvent{
		Timestamp: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC),
		SessionEventData: store.SessionEventData{
			SessionID:       "s1",
			Action:          action,
			Tier:            "normal",
			QuestionsServed: 10,
			CorrectAnswers:  correct,
			DurationSecs:    125,
			PlanSummary: []store.PlanSlotSummary{
				{Category: "addition", Tier: "normal"},
				{Category: "addition", Tier: "normal"},
				{Category: "fractions", Tier: "easy"},
			},
		},
	}
}

func loaded(t *testing.T, repo *fakeEvents) *HistoryScreen {
	t.Helper()
	s := New(repo, "ada")
	s.Update(s.Init()())
	return s
}

func TestHistory_ShowsEndedSessions(t *testing.T) {
	s := loaded(t, &fakeEvents{events: []store.SessionEvent{
		sessionEvent(store.SessionActionEnd, 7),
		sessionEvent(store.SessionActionStart, 0),
	}})

	if len(s.sessions) != 1 {
		t.Fatalf("sessions = %d, want only the end event", len(s.sessions))
	}
	view := s.View(100, 30)
	for _, want := range []string{"2:05", "7/10 correct", "70%"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if view := s.View(100, 30); !strings.Contains(view, "Addition ×2") || !strings.Contains(view, "Fractions ×1") {
		t.Errorf("expanded plan missing:\n%s", view)
	}
}

func TestHistory_Empty(t *testing.T) {
	s := loaded(t, &fakeEvents{})
	if !strings.Contains(s.View(80, 20), "No sessions yet") {
		t.Error("expected empty state")
	}
}

func TestHistory_Error(t *testing.T) {
	s := loaded(t, &fakeEvents{err: errors.New("disk I/O error")})
	if !strings.Contains(s.View(80, 20), "disk I/O error") {
		t.Error("expected error message")
	}
}

func TestHistory_EscPops(t *testing.T) {
	s := loaded(t, &fakeEvents{})
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("Esc should pop the screen")
	}
}

func TestPlanLine(t *testing.T) {
	if got := planLine(nil); !strings.Contains(got, "No plan") {
		t.Errorf("planLine(nil) = %q", got)
	}
	got := planLine([]store.PlanSlotSummary{{Category: "mystery"}})
	if !strings.Contains(got, "mystery ×1") {
		t.Errorf("unknown categories should print raw: %q", got)
	}
}
