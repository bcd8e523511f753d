package session

import (
	"errors"
	"time"

	"github.com/abhisek/mathgenius/internal/curriculum"
)

var (
	// ErrUnknownQuestion is returned for a question ID not in the session.
	ErrUnknownQuestion = errors.New("session: unknown question")

	// ErrAlreadyAnswered is returned when a question is submitted twice.
	ErrAlreadyAnswered = errors.New("session: question already answered")

	// ErrSessionComplete is returned once every question is answered or
	// the session has been ended.
	ErrSessionComplete = errors.New("session: session complete")
)

// NoAnswer is the chosen index submitted when the learner did not answer,
// e.g. on timeout.
const NoAnswer = -1

// Feedback is the outcome of one submitted answer.
type Feedback struct {
	QuestionID   string `json:"question_id"`
	Correct      bool   `json:"correct"`
	ChosenIndex  int    `json:"chosen_index"`
	CorrectIndex int    `json:"correct_index"`
	Answer       string `json:"answer"`
	Explanation  string `json:"explanation"`

	// TimedOut is set when the response took longer than the question's
	// time limit.
	TimedOut bool `json:"timed_out"`

	// TierBefore and TierAfter differ when this answer triggered a
	// recalibration that moved the session tier.
	TierBefore curriculum.Tier `json:"tier_before"`
	TierAfter  curriculum.Tier `json:"tier_after"`

	Answered int  `json:"answered"`
	Total    int  `json:"total"`
	Complete bool `json:"complete"`
}

// TierChanged reports whether the answer moved the session tier.
func (f Feedback) TierChanged() bool {
	return f.TierBefore != f.TierAfter
}

// CategoryResult tracks one category's performance within a session.
type CategoryResult struct {
	Category       curriculum.Category `json:"category"`
	Attempted      int                 `json:"attempted"`
	Correct        int                 `json:"correct"`
	Accuracy       float64             `json:"accuracy"`
	MeanResponseMs float64             `json:"mean_response_ms"`

	totalMs int64
}

func (c *CategoryResult) record(correct bool, responseTime time.Duration) {
	c.Attempted++
	if correct {
		c.Correct++
	}
	c.totalMs += responseTime.Milliseconds()
	c.Accuracy = float64(c.Correct) / float64(c.Attempted)
	c.MeanResponseMs = float64(c.totalMs) / float64(c.Attempted)
}
