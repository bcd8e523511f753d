package session

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathgenius/internal/curriculum"
	"github.com/abhisek/mathgenius/internal/router"
	"github.com/abhisek/mathgenius/internal/screen"
	sess "github.com/abhisek/mathgenius/internal/session"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

// startedScreen returns a screen whose session has already started.
func startedScreen(t *testing.T, length int) *SessionScreen {
	t.Helper()
	s := New(sess.Deps{}, sess.Options{
		LearnerID: "ada",
		Grade:     curriculum.Grade3,
		Focus:     curriculum.CategoryMultiplication,
		Length:    length,
		Seed:      11,
	})
	msg := s.Init()()
	if _, ok := msg.(sessionStartedMsg); !ok {
		t.Fatalf("Init produced %T", msg)
	}
	s.Update(msg)
	if s.question == nil {
		t.Fatal("no question shown after start")
	}
	return s
}

// run executes cmd and feeds its message back into the screen.
func run(s *SessionScreen, cmd tea.Cmd) (screen.Screen, tea.Cmd) {
	if cmd == nil {
		return s, nil
	}
	return s.Update(cmd())
}

// collect runs cmd and flattens batches into their messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}
	var out []tea.Msg
	for _, c := range batch {
		out = append(out, collect(c)...)
	}
	return out
}

func TestSessionScreen_Loading(t *testing.T) {
	s := New(sess.Deps{}, sess.Options{LearnerID: "ada"})
	if !strings.Contains(s.View(80, 24), "Preparing") {
		t.Error("expected loading view before start")
	}
	if s.CapturesEscape() {
		t.Error("loading screen should let the app handle Esc")
	}
}

func TestSessionScreen_CorrectAnswer(t *testing.T) {
	s := startedScreen(t, 3)
	if !strings.Contains(s.View(100, 30), s.question.Options[0]) {
		t.Error("options not rendered")
	}

	key := rune('1' + s.question.CorrectIndex)
	_, cmd := s.Update(keyPress(key))
	if !s.submitting {
		t.Fatal("expected submit in flight")
	}
	run(s, cmd)

	if s.feedback == nil || !s.feedback.Correct {
		t.Fatalf("feedback = %+v", s.feedback)
	}
	if !strings.Contains(s.View(100, 30), "Correct!") {
		t.Error("feedback view missing")
	}

	first := s.question.ID
	s.Update(keyPress('x'))
	if s.feedback != nil || s.question.ID == first {
		t.Error("expected the next question after dismissing feedback")
	}
}

func TestSessionScreen_WrongAnswerShowsKey(t *testing.T) {
	s := startedScreen(t, 2)
	wrong := (s.question.CorrectIndex + 1) % len(s.question.Options)

	s.choice.Selected = wrong
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	run(s, cmd)

	if s.feedback == nil || s.feedback.Correct {
		t.Fatalf("feedback = %+v", s.feedback)
	}
	if !strings.Contains(s.View(100, 30), "Correct answer: "+s.question.Answer) {
		t.Error("correct answer not shown")
	}
}

func TestSessionScreen_Timeout(t *testing.T) {
	s := startedScreen(t, 2)
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	s.question.TimeLimitSecs = 5
	s.showQuestion(s.question)

	now = now.Add(2 * time.Second)
	s.Update(timerTickMsg(now))
	if s.submitting || s.remaining != 3*time.Second {
		t.Fatalf("remaining = %v submitting = %v", s.remaining, s.submitting)
	}

	now = now.Add(4 * time.Second)
	_, cmd := s.Update(timerTickMsg(now))
	if !s.submitting {
		t.Fatal("expected automatic submit at the time limit")
	}
	// The batch holds the submit and the next tick; run the submit.
	for _, c := range cmd().(tea.BatchMsg) {
		if msg, ok := c().(answerResultMsg); ok {
			s.Update(msg)
		}
	}
	if s.feedback == nil || !s.feedback.TimedOut || s.feedback.ChosenIndex != sess.NoAnswer {
		t.Fatalf("feedback = %+v", s.feedback)
	}
	if !strings.Contains(s.View(100, 30), "Time's up") {
		t.Error("timeout not shown")
	}
}

func TestSessionScreen_Hint(t *testing.T) {
	s := startedScreen(t, 2)
	s.question.Hint = "Count by fives."
	s.Update(keyPress('h'))
	if s.hint != "Count by fives." {
		t.Errorf("hint = %q", s.hint)
	}
	if !strings.Contains(s.View(100, 30), "Hint: Count by fives.") {
		t.Error("hint not rendered")
	}
}

func TestSessionScreen_QuitConfirm(t *testing.T) {
	s := startedScreen(t, 3)
	if !s.CapturesEscape() {
		t.Fatal("active session should capture Esc")
	}

	s.Update(specialKey(tea.KeyEscape))
	if !s.quitConfirm {
		t.Fatal("expected quit confirmation")
	}
	s.Update(keyPress('n'))
	if s.quitConfirm {
		t.Fatal("N should dismiss the confirmation")
	}

	s.Update(specialKey(tea.KeyEscape))
	_, cmd := s.Update(keyPress('y'))
	_, cmd = run(s, cmd)
	if cmd == nil {
		t.Fatal("expected navigation to the summary")
	}
	var replaced, cleared bool
	for _, msg := range collect(cmd) {
		switch msg := msg.(type) {
		case router.ReplaceScreenMsg:
			replaced = msg.Screen.Title() == "Session Summary"
		case router.StatusMsg:
			cleared = msg.Text == ""
		}
	}
	if !replaced || !cleared {
		t.Errorf("replaced=%v cleared=%v, want the summary and a cleared status", replaced, cleared)
	}
}

func TestSessionScreen_CompletesAfterLastAnswer(t *testing.T) {
	s := startedScreen(t, 2)

	for i := 0; i < 2; i++ {
		_, cmd := s.Update(keyPress(rune('1' + s.question.CorrectIndex)))
		run(s, cmd)
		if s.feedback == nil {
			t.Fatalf("answer %d: no feedback", i)
		}
		if i == 0 {
			s.Update(keyPress(' '))
		}
	}
	if !s.feedback.Complete {
		t.Fatal("expected the session to be complete")
	}
	if !strings.Contains(s.View(100, 30), "see your results") {
		t.Error("expected results prompt")
	}

	_, cmd := s.Update(keyPress(' '))
	msg := cmd()
	ended, ok := msg.(sessionEndedMsg)
	if !ok {
		t.Fatalf("expected sessionEndedMsg, got %T", msg)
	}
	if ended.Summary.Correct != 2 || !ended.Summary.Complete {
		t.Errorf("summary = %+v", ended.Summary)
	}
}

func TestSessionScreen_KeyHints(t *testing.T) {
	s := startedScreen(t, 2)
	if got := len(s.KeyHints()); got != 5 {
		t.Errorf("question hints = %d, want 5", got)
	}
	s.Update(specialKey(tea.KeyEscape))
	if got := s.KeyHints()[0].Key; got != "Y" {
		t.Errorf("confirm hint = %q", got)
	}
}

func TestSessionScreen_TypedAnswer(t *testing.T) {
	s := startedScreen(t, 2)

	s.Update(specialKey(tea.KeyTab))
	if !s.typing {
		t.Fatal("Tab should open the answer input")
	}
	if got := s.KeyHints()[0].Key; got != "Enter" {
		t.Errorf("typing hint = %q", got)
	}

	// Esc leaves typing mode without asking to quit.
	s.Update(specialKey(tea.KeyEscape))
	if s.typing || s.quitConfirm {
		t.Fatalf("typing=%v quitConfirm=%v after Esc", s.typing, s.quitConfirm)
	}

	s.Update(specialKey(tea.KeyTab))
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd != nil || !s.typing {
		t.Fatal("empty input should not submit")
	}

	for _, r := range s.question.Answer {
		s.Update(keyPress(r))
	}
	if !strings.Contains(s.View(100, 30), "Answer:") {
		t.Error("answer input not rendered")
	}
	_, cmd = s.Update(specialKey(tea.KeyEnter))
	run(s, cmd)

	if s.feedback == nil || !s.feedback.Correct {
		t.Fatalf("feedback = %+v", s.feedback)
	}
}

func TestTypedChoice(t *testing.T) {
	s := startedScreen(t, 1)
	q := s.question

	if got := typedChoice(q.Options[2], q); got != 2 {
		t.Errorf("by value = %d, want 2", got)
	}
	if got := typedChoice("not an option", q); got != sess.NoAnswer {
		t.Errorf("miss = %d, want NoAnswer", got)
	}
}
