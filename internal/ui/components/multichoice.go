package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathgenius/internal/ui/theme"
)

// MultiChoice is a multiple-choice selector. Options are numbered from 1
// and the answer key stays hidden until Reveal.
type MultiChoice struct {
	Options  []string
	Selected int

	revealed     bool
	chosenIndex  int
	correctIndex int
}

// NewMultiChoice creates a selector with the first option highlighted.
func NewMultiChoice(options []string) MultiChoice {
	return MultiChoice{Options: options, chosenIndex: -1, correctIndex: -1}
}

// Update handles arrow navigation and number keys. It reports whether the
// learner committed to the selected option.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, bool) {
	if m.revealed {
		return m, false
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, false
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	case "enter":
		return m, len(m.Options) > 0
	default:
		if len(key) == 1 && key[0] >= '1' && int(key[0]-'1') < len(m.Options) {
			m.Selected = int(key[0] - '1')
			return m, true
		}
	}
	return m, false
}

// Reveal marks the chosen and correct options for the feedback view.
func (m *MultiChoice) Reveal(chosen, correct int) {
	m.revealed = true
	m.chosenIndex = chosen
	m.correctIndex = correct
}

// View renders the options.
func (m MultiChoice) View() string {
	var b strings.Builder
	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Selected && !m.revealed {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%d)  %s", prefix, i+1, opt)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case m.revealed && i == m.correctIndex:
			style = theme.Correct
		case m.revealed && i == m.chosenIndex:
			style = theme.Incorrect
		case m.revealed:
			style = style.Foreground(theme.TextDim)
		case i == m.Selected:
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
