package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func TestMultiChoice_NumberKeySubmits(t *testing.T) {
	m := NewMultiChoice([]string{"10", "12", "14", "16"})

	m, submitted := m.Update(tea.KeyPressMsg{Code: '3', Text: "3"})
	if !submitted || m.Selected != 2 {
		t.Errorf("got selected=%d submitted=%v, want 2 true", m.Selected, submitted)
	}

	_, submitted = m.Update(tea.KeyPressMsg{Code: '9', Text: "9"})
	if submitted {
		t.Error("out of range key should not submit")
	}
}

func TestMultiChoice_Navigation(t *testing.T) {
	m := NewMultiChoice([]string{"a", "b"})

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if m.Selected != 0 {
		t.Errorf("up at top moved to %d", m.Selected)
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if m.Selected != 1 {
		t.Errorf("selected = %d, want 1", m.Selected)
	}
	if _, ok := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter}); !ok {
		t.Error("enter should submit")
	}
}

func TestMultiChoice_RevealLocksInput(t *testing.T) {
	m := NewMultiChoice([]string{"a", "b"})
	m.Reveal(0, 1)

	if _, ok := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter}); ok {
		t.Error("revealed selector accepted input")
	}
	if strings.Contains(m.View(), "▸") {
		t.Error("revealed view still shows a cursor")
	}
}

func TestMenu_SkipsDisabled(t *testing.T) {
	var picked string
	m := NewMenu([]MenuItem{
		{Label: "locked", Disabled: true},
		{Label: "play", Action: func() tea.Cmd { picked = "play"; return nil }},
		{Label: "quit"},
	})
	if m.Selected != 1 {
		t.Fatalf("selected = %d, want first enabled item", m.Selected)
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if m.Selected != 2 {
		t.Errorf("up from the first enabled item should wrap to the last, got %d", m.Selected)
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if m.Selected != 1 {
		t.Errorf("down from the last item should wrap past the disabled one, got %d", m.Selected)
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyEnd})
	if m.Selected != 2 {
		t.Errorf("end selected %d", m.Selected)
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyHome})
	m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if picked != "play" {
		t.Errorf("action not run")
	}
}

func TestAccuracyBar(t *testing.T) {
	if AccuracyBar("x", 0.9, 30).Fill == nil {
		t.Error("high accuracy should set a fill color")
	}
	if AccuracyBar("x", 0.6, 30).Fill != nil {
		t.Error("middling accuracy should use the default fill")
	}
	if v := NewProgressBar("", 0.5, true, 20).View(); !strings.Contains(v, "50%") {
		t.Errorf("view = %q", v)
	}
}

func TestAnswerInput_Typing(t *testing.T) {
	a := NewAnswerInput("type a value")
	for _, r := range "3/4" {
		a, _ = a.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	if a.Value() != "3/4" {
		t.Errorf("Value = %q, want 3/4", a.Value())
	}
	if !strings.Contains(a.View(), "Answer:") {
		t.Error("view should show the prompt")
	}
}

func TestContentWidth(t *testing.T) {
	for _, tt := range []struct{ frame, want int }{{10, 20}, {50, 44}, {200, 60}} {
		if got := ContentWidth(tt.frame); got != tt.want {
			t.Errorf("ContentWidth(%d) = %d, want %d", tt.frame, got, tt.want)
		}
	}
}

func TestCard(t *testing.T) {
	out := Card("Level: Normal", 40)
	if !strings.Contains(out, "Level: Normal") || !strings.Contains(out, "╭") {
		t.Errorf("unexpected card:\n%s", out)
	}
}
