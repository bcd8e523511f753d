package session

import (
	"time"

	"github.com/abhisek/mathgenius/internal/curriculum"
)

// Summary holds the end-of-session report.
type Summary struct {
	SessionID      string           `json:"session_id"`
	LearnerID      string           `json:"learner_id"`
	Grade          curriculum.Grade `json:"grade"`
	StartTier      curriculum.Tier  `json:"start_tier"`
	FinalTier      curriculum.Tier  `json:"final_tier"`
	TotalQuestions int              `json:"total_questions"`
	Answered       int              `json:"answered"`
	Correct        int              `json:"correct"`
	Accuracy       float64          `json:"accuracy"`
	Duration       time.Duration    `json:"duration"`
	Complete       bool             `json:"complete"`

	// Categories lists per-category results in plan order.
	Categories []CategoryResult `json:"categories"`
}

// Summary reports the session so far. It may be called at any time.
func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summaryLocked()
}

func (s *Session) summaryLocked() Summary {
	sum := Summary{
		SessionID:      s.id,
		LearnerID:      s.learnerID,
		Grade:          s.grade,
		StartTier:      s.plan.Tier,
		FinalTier:      s.tier,
		TotalQuestions: len(s.queue),
		Answered:       len(s.answered),
		Correct:        s.correct,
		Duration:       s.elapsedLocked(),
		Complete:       s.completeLocked(),
		Categories:     []CategoryResult{},
	}
	if sum.Answered > 0 {
		sum.Accuracy = float64(s.correct) / float64(sum.Answered)
	}

	seen := make(map[curriculum.Category]bool)
	for _, c := range s.plan.Slots {
		if seen[c] {
			continue
		}
		seen[c] = true
		if cr, ok := s.results[c]; ok {
			sum.Categories = append(sum.Categories, *cr)
		}
	}
	return sum
}
