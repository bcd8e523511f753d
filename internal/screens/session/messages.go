package session

import (
	"time"

	sess "github.com/abhisek/mathgenius/internal/session"
)

// sessionStartedMsg is sent once the session plan and questions are ready.
type sessionStartedMsg struct {
	Session *sess.Session
}

// answerResultMsg carries the outcome of a submitted answer.
type answerResultMsg struct {
	Feedback sess.Feedback
	Err      error
}

// timerTickMsg is sent every second to update the countdown.
type timerTickMsg time.Time

// sessionEndedMsg carries the final summary.
type sessionEndedMsg struct {
	Summary sess.Summary
}
