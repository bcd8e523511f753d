package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathgenius/internal/ui/theme"
)

// answerCharLimit fits the longest option text the synthesizer produces.
const answerCharLimit = 16

// AnswerInput is a single-line field for typing an answer instead of
// picking an option.
type AnswerInput struct {
	model textinput.Model
}

// NewAnswerInput creates a focused, empty input.
func NewAnswerInput(placeholder string) AnswerInput {
	ti := textinput.New()
	ti.Prompt = "Answer: "
	ti.Placeholder = placeholder
	ti.CharLimit = answerCharLimit
	ti.SetWidth(answerCharLimit + 1)
	ti.Focus()
	return AnswerInput{model: ti}
}

// Update forwards key presses to the underlying input.
func (a AnswerInput) Update(msg tea.Msg) (AnswerInput, tea.Cmd) {
	var cmd tea.Cmd
	a.model, cmd = a.model.Update(msg)
	return a, cmd
}

// Value returns the typed text.
func (a AnswerInput) Value() string {
	return a.model.Value()
}

func (a AnswerInput) View() string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Padding(0, 1).
		Render(a.model.View())
}
