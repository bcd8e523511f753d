package store

import (
	"context"
	"time"

	"github.com/abhisek/mathgenius/internal/calibration"
	"github.com/abhisek/mathgenius/internal/curriculum"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// ObservationRecord is an observation plus the context it was made in.
type ObservationRecord struct {
	calibration.Observation
	SessionID  string
	QuestionID string
	Tier       curriculum.Tier
}

// ObservationRepo is the append-only log of answered questions that feeds
// calibration.
type ObservationRepo interface {
	// Record appends one observation for the learner.
	Record(ctx context.Context, learnerID string, rec ObservationRecord) error

	// RecentWindow returns up to limit of the learner's most recent
	// observations, oldest first. A nil category matches all categories;
	// a limit of zero or less returns the full history.
	RecentWindow(ctx context.Context, learnerID string, cat *curriculum.Category, limit int) ([]calibration.Observation, error)

	// CategoryAccuracy returns all-time per-category totals for the
	// learner in category enumeration order.
	CategoryAccuracy(ctx context.Context, learnerID string) ([]calibration.CategoryStat, error)

	// Learners lists every learner with at least one observation.
	Learners(ctx context.Context) ([]string, error)

	// Reset deletes the learner's observations and returns how many were
	// removed.
	Reset(ctx context.Context, learnerID string) (int64, error)
}

// PlanSlotSummary is the serialized form of one session plan slot.
type PlanSlotSummary struct {
	Category string `json:"category"`
	Tier     string `json:"tier"`
}

// Session event actions.
const (
	SessionActionStart = "start"
	SessionActionEnd   = "end"
)

// SessionEventData captures a session start or end.
type SessionEventData struct {
	SessionID       string
	LearnerID       string
	Action          string
	Grade           string
	Tier            string
	QuestionsServed int
	CorrectAnswers  int
	DurationSecs    int
	PlanSummary     []PlanSlotSummary
}

// SessionEvent is a stored session event.
type SessionEvent struct {
	Sequence  int64
	Timestamp time.Time
	SessionEventData
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// LLMRequestEvent is a stored LLM request event.
type LLMRequestEvent struct {
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// EventRepo provides append and query access to session and LLM events.
type EventRepo interface {
	// AppendSessionEvent records a session start or end.
	AppendSessionEvent(ctx context.Context, data SessionEventData) error

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QuerySessionEvents returns the learner's session events, newest first.
	QuerySessionEvents(ctx context.Context, learnerID string, opts QueryOpts) ([]SessionEvent, error)

	// QueryLLMEvents returns LLM request events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)
}
