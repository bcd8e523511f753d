package session

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathgenius/internal/curriculum"
	"github.com/abhisek/mathgenius/internal/problemgen"
	"github.com/abhisek/mathgenius/internal/router"
	"github.com/abhisek/mathgenius/internal/screen"
	"github.com/abhisek/mathgenius/internal/screens/summary"
	sess "github.com/abhisek/mathgenius/internal/session"
	"github.com/abhisek/mathgenius/internal/ui/components"
	"github.com/abhisek/mathgenius/internal/ui/layout"
)

// SessionScreen implements screen.Screen for the active session.
type SessionScreen struct {
	deps sess.Deps
	opts sess.Options

	session  *sess.Session
	question *problemgen.Question
	choice   components.MultiChoice
	hint     string

	// typing is set while the learner types an answer instead of picking.
	typing bool
	input  components.AnswerInput

	shownAt  time.Time

	// remaining is the time left on the current question; zero when the
	// question has no limit.
	remaining time.Duration

	feedback    *sess.Feedback
	submitting  bool
	quitConfirm bool
	ending      bool
	errMsg      string

	now func() time.Time
}

var _ screen.Screen = (*SessionScreen)(nil)
var _ screen.KeyHintProvider = (*SessionScreen)(nil)
var _ screen.Modal = (*SessionScreen)(nil)

// New creates a new SessionScreen that starts a session with opts when
// it is pushed.
func New(deps sess.Deps, opts sess.Options) *SessionScreen {
	return &SessionScreen{deps: deps, opts: opts, now: time.Now}
}

func (s *SessionScreen) Init() tea.Cmd {
	deps, opts := s.deps, s.opts
	return func() tea.Msg {
		return sessionStartedMsg{Session: sess.Start(context.Background(), deps, opts)}
	}
}

func (s *SessionScreen) Title() string {
	return "Practice"
}

// CapturesEscape keeps Esc for the quit confirmation.
func (s *SessionScreen) CapturesEscape() bool {
	return s.errMsg == "" && s.session != nil
}

func (s *SessionScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.session == nil || s.errMsg != "":
		return nil
	case s.quitConfirm:
		return []layout.KeyHint{
			{Key: "Y", Description: "End session"},
			{Key: "N", Description: "Keep going"},
		}
	case s.feedback != nil:
		return []layout.KeyHint{
			{Key: "any key", Description: "Continue"},
		}
	case s.typing:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Submit"},
			{Key: "Esc", Description: "Back to choices"},
		}
	}
	return []layout.KeyHint{
		{Key: "1-4", Description: "Answer"},
		{Key: "↑↓ Enter", Description: "Pick"},
		{Key: "Tab", Description: "Type it"},
		{Key: "H", Description: "Hint"},
		{Key: "Esc", Description: "Quit"},
	}
}

func (s *SessionScreen) View(width, height int) string {
	switch {
	case s.errMsg != "":
		return renderError(width, s.errMsg)
	case s.session == nil:
		return renderLoading(width)
	case s.quitConfirm:
		return renderQuitConfirm(width)
	case s.feedback != nil:
		return s.renderFeedback(width)
	}
	return s.renderQuestionView(width)
}

func (s *SessionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionStartedMsg:
		return s.handleStarted(msg)

	case answerResultMsg:
		return s.handleAnswer(msg)

	case timerTickMsg:
		return s.handleTimerTick()

	case sessionEndedMsg:
		return s, tea.Batch(router.SetStatus(""), func() tea.Msg {
			return router.ReplaceScreenMsg{Screen: summary.New(msg.Summary)}
		})

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *SessionScreen) handleStarted(msg sessionStartedMsg) (screen.Screen, tea.Cmd) {
	s.session = msg.Session
	q := s.session.Current()
	if q == nil {
		s.errMsg = "no questions are available for this session"
		return s, nil
	}
	s.showQuestion(q)
	return s, tea.Batch(tickCmd(), tierStatus(s.session.Tier()))
}

// tierStatus shows the session's difficulty in the header.
func tierStatus(t curriculum.Tier) tea.Cmd {
	return router.SetStatus("Level: " + t.String())
}

func (s *SessionScreen) showQuestion(q *problemgen.Question) {
	s.question = q
	s.choice = components.NewMultiChoice(q.Options)
	s.hint = ""
	s.typing = false
	s.feedback = nil
	s.shownAt = s.now()
	s.remaining = time.Duration(q.TimeLimitSecs) * time.Second
}

func (s *SessionScreen) handleTimerTick() (screen.Screen, tea.Cmd) {
	if s.session == nil || s.ending || s.errMsg != "" {
		return s, nil
	}
	if s.question == nil || s.feedback != nil || s.submitting || s.question.TimeLimitSecs <= 0 {
		return s, tickCmd()
	}

	limit := time.Duration(s.question.TimeLimitSecs) * time.Second
	s.remaining = limit - s.now().Sub(s.shownAt)
	if s.remaining <= 0 {
		s.remaining = 0
		s.quitConfirm = false
		s.typing = false
		return s, tea.Batch(s.submit(sess.NoAnswer), tickCmd())
	}
	return s, tickCmd()
}

func (s *SessionScreen) handleAnswer(msg answerResultMsg) (screen.Screen, tea.Cmd) {
	s.submitting = false
	if msg.Err != nil {
		if errors.Is(msg.Err, sess.ErrSessionComplete) {
			return s, s.end()
		}
		s.errMsg = msg.Err.Error()
		return s, nil
	}
	fb := msg.Feedback
	s.feedback = &fb
	s.choice.Reveal(fb.ChosenIndex, fb.CorrectIndex)
	if fb.TierAfter != fb.TierBefore {
		return s, tierStatus(fb.TierAfter)
	}
	return s, nil
}

func (s *SessionScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	// Error state: any key goes back.
	if s.errMsg != "" {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	if s.session == nil || s.ending || s.submitting {
		return s, nil
	}

	if s.quitConfirm {
		switch key {
		case "y", "Y":
			s.quitConfirm = false
			return s, s.end()
		case "n", "N", "esc":
			s.quitConfirm = false
		}
		return s, nil
	}

	// Feedback overlay: any key moves on.
	if s.feedback != nil {
		if s.feedback.Complete {
			return s, s.end()
		}
		next := s.session.Current()
		if next == nil {
			return s, s.end()
		}
		s.showQuestion(next)
		return s, nil
	}

	if s.typing {
		return s.handleTypingKey(msg)
	}

	switch key {
	case "esc":
		s.quitConfirm = true
		return s, nil
	case "tab":
		s.typing = true
		s.input = components.NewAnswerInput("value or option number")
		return s, nil
	case "h", "H":
		s.showHint()
		return s, nil
	}

	var submitted bool
	s.choice, submitted = s.choice.Update(msg)
	if submitted {
		return s, s.submit(s.choice.Selected)
	}
	return s, nil
}

func (s *SessionScreen) handleTypingKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		s.typing = false
		return s, nil
	case "enter":
		if strings.TrimSpace(s.input.Value()) == "" {
			return s, nil
		}
		s.typing = false
		return s, s.submit(typedChoice(s.input.Value(), s.question))
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

// typedChoice resolves a typed answer to an option, by value first and
// then by 1-based position. Anything else is a miss.
func typedChoice(input string, q *problemgen.Question) int {
	if i, ok := problemgen.OptionIndex(input, q); ok {
		return i
	}
	if i, ok := problemgen.ChoiceIndex(input, q); ok {
		return i
	}
	return sess.NoAnswer
}

func (s *SessionScreen) showHint() {
	hint, err := s.session.Hint(s.question.ID)
	switch {
	case err != nil:
		s.hint = err.Error()
	case hint == "":
		s.hint = "No hints at this level. You've got this!"
	default:
		s.hint = hint
	}
}

// submit sends the answer off the UI goroutine since a recalibration may
// fetch new questions.
func (s *SessionScreen) submit(chosen int) tea.Cmd {
	s.submitting = true
	session, id := s.session, s.question.ID
	elapsed := s.now().Sub(s.shownAt)
	return func() tea.Msg {
		fb, err := session.Submit(context.Background(), id, chosen, elapsed)
		return answerResultMsg{Feedback: fb, Err: err}
	}
}

func (s *SessionScreen) end() tea.Cmd {
	s.ending = true
	session := s.session
	return func() tea.Msg {
		return sessionEndedMsg{Summary: session.End(context.Background())}
	}
}

// tickCmd returns a 1-second tick command.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return timerTickMsg(t)
	})
}
