package home

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathgenius/internal/calibration"
	"github.com/abhisek/mathgenius/internal/curriculum"
	"github.com/abhisek/mathgenius/internal/router"
	"github.com/abhisek/mathgenius/internal/session"
	"github.com/abhisek/mathgenius/internal/store"
)

type fakeObservations struct {
	store.ObservationRepo
	obs []calibration.Observation
	err error
}

func (f *fakeObservations) RecentWindow(context.Context, string, *curriculum.Category, int) ([]calibration.Observation, error) {
	return f.obs, f.err
}

func obsHistory(cat curriculum.Category, n int, correct bool) []calibration.Observation {
	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	out := make([]calibration.Observation, n)
	for i := range out {
		out[i] = calibration.Observation{Category: cat, Correct: correct, ResponseMs: 3000, Timestamp: base.Add(time.Duration(i) * time.Minute)}
	}
	return out
}

func TestHome_NoRepoSkipsCalibration(t *testing.T) {
	h := New(session.Deps{}, session.Options{LearnerID: "ada", Grade: curriculum.Grade3})
	if cmd := h.Init(); cmd != nil {
		t.Error("expected no calibration load without an observation log")
	}
	if view := h.View(100, 30); !strings.Contains(view, "Grade 3") || !strings.Contains(view, "START PRACTICE") {
		t.Errorf("unexpected view:\n%s", view)
	}
}

func TestHome_LoadsCalibration(t *testing.T) {
	repo := &fakeObservations{obs: obsHistory(curriculum.CategoryFractions, 8, false)}
	h := New(session.Deps{Observations: repo}, session.Options{LearnerID: "ada"})

	msg := h.Init()()
	h.Update(msg)

	if h.calibration == nil || h.calibration.Sample != 8 {
		t.Fatalf("calibration = %+v", h.calibration)
	}
	if mascotFor(h.calibration) != MascotAlert {
		t.Error("weak categories should alert the mascot")
	}
	if view := h.View(100, 30); !strings.Contains(view, "Let's practice: Fractions") {
		t.Errorf("weak category missing from view:\n%s", view)
	}
}

func TestHome_LoadError(t *testing.T) {
	repo := &fakeObservations{err: errors.New("database is locked")}
	h := New(session.Deps{Observations: repo}, session.Options{LearnerID: "ada"})

	h.Update(h.Resume()())

	if view := h.View(100, 30); !strings.Contains(view, "database is locked") {
		t.Error("load error not shown")
	}
}

func TestHome_StartPushesSession(t *testing.T) {
	h := New(session.Deps{}, session.Options{LearnerID: "ada"})

	// Move to "Focus: Subtraction" and select it.
	h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	if push.Screen.Title() != "Practice" {
		t.Errorf("pushed %q", push.Screen.Title())
	}
}

func TestMascotFor(t *testing.T) {
	tests := []struct {
		name string
		res  *calibration.Result
		want MascotVariant
	}{
		{"no result", nil, MascotIdle},
		{"empty history", &calibration.Result{}, MascotIdle},
		{"weak topics", &calibration.Result{Sample: 5, WeakCategories: []curriculum.Category{curriculum.CategoryAlgebra}}, MascotAlert},
		{"strong only", &calibration.Result{Sample: 5, StrongCategories: []curriculum.Category{curriculum.CategoryAddition}}, MascotCelebrating},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mascotFor(tt.res); got != tt.want {
				t.Errorf("mascotFor = %v, want %v", got, tt.want)
			}
		})
	}
}

type fakeEvents struct{ store.EventRepo }

func TestHome_HistoryMenu(t *testing.T) {
	if view := New(session.Deps{}, session.Options{LearnerID: "ada"}).View(100, 30); strings.Contains(view, "HISTORY") {
		t.Error("history needs an event log")
	}

	h := New(session.Deps{Events: fakeEvents{}}, session.Options{LearnerID: "ada"})
	// START, one entry per category, then HISTORY.
	for range curriculum.AllCategories() {
		h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
	h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok || push.Screen.Title() != "History" {
		t.Fatalf("got %#v, want history screen", cmd())
	}
}
