// Package session runs an adaptive practice session: it calibrates the
// learner from their observation history, serves a mixed set of questions
// and re-calibrates the tier as answers come in.
package session

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/mathgenius/internal/calibration"
	"github.com/abhisek/mathgenius/internal/curriculum"
	"github.com/abhisek/mathgenius/internal/logging"
	"github.com/abhisek/mathgenius/internal/problemgen"
	"github.com/abhisek/mathgenius/internal/questions"
	"github.com/abhisek/mathgenius/internal/store"
)

// Deps are the collaborators of a session. Only Questions is required;
// a nil repo disables persistence of that kind.
type Deps struct {
	Questions    *questions.Service
	Observations store.ObservationRepo
	Events       store.EventRepo
	Calibrator   *calibration.Calibrator
	Log          *logrus.Entry

	// Now defaults to time.Now.
	Now func() time.Time
}

// Options configure a new session.
type Options struct {
	LearnerID string
	Grade     curriculum.Grade
	Focus     curriculum.Category

	// Tier, when set, overrides the calibrated starting tier.
	Tier *curriculum.Tier

	// Length is the number of questions. Zero uses DefaultLength.
	Length int

	// RecalibrateEvery re-runs calibration after that many answers.
	// Zero or less disables recalibration.
	RecalibrateEvery int

	// Seed makes question selection reproducible. Zero draws a random seed.
	Seed uint64
}

// Session is one practice session. It is safe for concurrent use.
type Session struct {
	mu sync.Mutex

	id        string
	learnerID string
	grade     curriculum.Grade
	focus     curriculum.Category
	tier      curriculum.Tier
	plan      *Plan

	queue    []*problemgen.Question
	index    map[string]int
	answered map[string]bool
	hinted   map[string]bool
	pos      int

	observations []calibration.Observation
	results      map[curriculum.Category]*CategoryResult
	correct      int

	recalibrateEvery int
	startedAt        time.Time
	endedAt          time.Time

	deps Deps
	log  *logrus.Entry
	r    *rand.Rand
}

// Start calibrates the learner from their recent history, builds the
// session plan and fetches its questions. History read errors are logged
// and treated as an empty history.
func Start(ctx context.Context, deps Deps, opts Options) *Session {
	if deps.Questions == nil {
		deps.Questions = questions.NewService(nil, nil)
	}
	if deps.Calibrator == nil {
		deps.Calibrator = calibration.NewCalibrator(calibration.DefaultConfig())
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Log == nil {
		deps.Log = logging.Discard()
	}
	if opts.Length <= 0 {
		opts.Length = DefaultLength
	}
	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	r := problemgen.NewRand(seed)

	s := &Session{
		id:               uuid.NewString(),
		learnerID:        opts.LearnerID,
		grade:            opts.Grade.Clamp(),
		focus:            opts.Focus.OrDefault(),
		index:            make(map[string]int),
		answered:         make(map[string]bool),
		hinted:           make(map[string]bool),
		results:          make(map[curriculum.Category]*CategoryResult),
		recalibrateEvery: opts.RecalibrateEvery,
		startedAt:        deps.Now(),
		deps:             deps,
		r:                r,
	}
	s.log = deps.Log.WithFields(logrus.Fields{
		"component":  "session",
		"session_id": s.id,
		"learner_id": s.learnerID,
	})

	history := s.loadHistory(ctx)
	res := deps.Calibrator.Recommend(history)
	s.tier = res.RecommendedTier.Clamp()
	if opts.Tier != nil {
		s.tier = opts.Tier.Clamp()
	}
	s.plan = BuildPlan(res, s.tier, opts.Length, s.focus, r)

	s.queue = deps.Questions.Mixed(ctx, s.grade, s.tier, s.plan.Slots, len(s.plan.Slots), r)
	for i, q := range s.queue {
		s.index[q.ID] = i
	}

	s.appendEvent(ctx, store.SessionActionStart)
	s.log.WithFields(logrus.Fields{
		"tier":      s.tier.String(),
		"questions": len(s.queue),
		"history":   len(history),
	}).Info("session started")
	return s
}

func (s *Session) loadHistory(ctx context.Context) []calibration.Observation {
	if s.deps.Observations == nil || s.learnerID == "" {
		return nil
	}
	window := s.deps.Calibrator.Config().Window
	obs, err := s.deps.Observations.RecentWindow(ctx, s.learnerID, nil, window)
	if err != nil {
		s.log.WithError(err).Warn("failed to load observation history")
		return nil
	}
	return obs
}

// ID returns the session's UUID.
func (s *Session) ID() string { return s.id }

// LearnerID returns the learner the session belongs to.
func (s *Session) LearnerID() string { return s.learnerID }

// Plan returns the plan the session was built from.
func (s *Session) Plan() *Plan { return s.plan }

// Tier returns the tier used for questions not yet answered.
func (s *Session) Tier() curriculum.Tier {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tier
}

// Current returns the next unanswered question, or nil once the session is
// complete.
func (s *Session) Current() *problemgen.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.completeLocked() {
		return nil
	}
	return s.queue[s.pos]
}

// Question returns the session question with the given ID, or nil.
func (s *Session) Question(questionID string) *problemgen.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i, ok := s.index[questionID]; ok {
		return s.queue[i]
	}
	return nil
}

// Progress returns the number of answered questions and the total.
func (s *Session) Progress() (answered, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.answered), len(s.queue)
}

// Complete reports whether the session has finished.
func (s *Session) Complete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completeLocked()
}

func (s *Session) completeLocked() bool {
	return !s.endedAt.IsZero() || s.pos >= len(s.queue)
}

// Hint returns the hint for an unanswered question and marks it used.
// Questions on tiers without hints return an empty string.
func (s *Session) Hint(questionID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, err := s.lookupLocked(questionID)
	if err != nil {
		return "", err
	}
	if q.Hint != "" {
		s.hinted[questionID] = true
	}
	return q.Hint, nil
}

func (s *Session) lookupLocked(questionID string) (*problemgen.Question, error) {
	if s.completeLocked() {
		return nil, ErrSessionComplete
	}
	i, ok := s.index[questionID]
	if !ok {
		return nil, ErrUnknownQuestion
	}
	if s.answered[questionID] {
		return nil, ErrAlreadyAnswered
	}
	return s.queue[i], nil
}

// Submit records the learner's choice for a question. chosenIndex is the
// zero-based option position, or NoAnswer. The observation is persisted
// best effort; a storage failure is logged and does not fail the submit.
func (s *Session) Submit(ctx context.Context, questionID string, chosenIndex int, responseTime time.Duration) (Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, err := s.lookupLocked(questionID)
	if err != nil {
		return Feedback{}, err
	}
	responseTime = max(responseTime, 0)
	timedOut := q.TimeLimitSecs > 0 && responseTime > time.Duration(q.TimeLimitSecs)*time.Second
	correct := !timedOut && problemgen.CheckChoice(q, chosenIndex)

	s.answered[questionID] = true
	if correct {
		s.correct++
	}
	for s.pos < len(s.queue) && s.answered[s.queue[s.pos].ID] {
		s.pos++
	}

	cr, ok := s.results[q.Category]
	if !ok {
		cr = &CategoryResult{Category: q.Category}
		s.results[q.Category] = cr
	}
	cr.record(correct, responseTime)

	obs := calibration.Observation{
		Category:   q.Category,
		Correct:    correct,
		ResponseMs: responseTime.Milliseconds(),
		Timestamp:  s.deps.Now(),
	}
	if s.hinted[questionID] {
		obs.HintsUsed = 1
	}
	s.observations = append(s.observations, obs)
	s.recordObservation(ctx, q, obs)

	fb := Feedback{
		QuestionID:   q.ID,
		Correct:      correct,
		ChosenIndex:  chosenIndex,
		CorrectIndex: q.CorrectIndex,
		Answer:       q.Answer,
		Explanation:  q.Explanation,
		TimedOut:     timedOut,
		TierBefore:   s.tier,
	}

	if s.recalibrateEvery > 0 && len(s.observations)%s.recalibrateEvery == 0 {
		s.recalibrateLocked(ctx)
	}
	fb.TierAfter = s.tier

	fb.Answered, fb.Total = len(s.answered), len(s.queue)
	if s.pos >= len(s.queue) {
		s.finishLocked(ctx)
	}
	fb.Complete = s.completeLocked()
	return fb, nil
}

func (s *Session) recordObservation(ctx context.Context, q *problemgen.Question, obs calibration.Observation) {
	if s.deps.Observations == nil || s.learnerID == "" {
		return
	}
	err := s.deps.Observations.Record(ctx, s.learnerID, store.ObservationRecord{
		Observation: obs,
		SessionID:   s.id,
		QuestionID:  q.ID,
		Tier:        q.Tier,
	})
	if err != nil {
		s.log.WithError(err).WithField("question_id", q.ID).Warn("failed to record observation")
	}
}

// recalibrateLocked scores the session's own answers and steps the tier.
// Unanswered questions are redrawn at the new tier.
func (s *Session) recalibrateLocked(ctx context.Context) {
	res := s.deps.Calibrator.Recommend(s.observations)
	next := s.deps.Calibrator.Step(s.tier, res)
	if next == s.tier {
		return
	}
	s.log.WithFields(logrus.Fields{
		"from":     s.tier.String(),
		"to":       next.String(),
		"accuracy": res.Accuracy,
	}).Info("session tier changed")
	s.tier = next

	var pending []int
	var cats []curriculum.Category
	for i := s.pos; i < len(s.queue); i++ {
		if !s.answered[s.queue[i].ID] {
			pending = append(pending, i)
			cats = append(cats, s.queue[i].Category)
		}
	}
	if len(pending) == 0 {
		return
	}

	fresh := s.deps.Questions.Mixed(ctx, s.grade, s.tier, cats, len(cats), s.r)
	for k, i := range pending {
		nq := fresh[k]
		if _, dup := s.index[nq.ID]; dup {
			continue
		}
		old := s.queue[i]
		delete(s.index, old.ID)
		delete(s.hinted, old.ID)
		s.queue[i] = nq
		s.index[nq.ID] = i
	}
}

// End finishes the session early. Unanswered questions stay unanswered.
// Ending an already finished session is a no-op.
func (s *Session) End(ctx context.Context) Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.endedAt.IsZero() {
		s.finishLocked(ctx)
	}
	return s.summaryLocked()
}

func (s *Session) finishLocked(ctx context.Context) {
	if !s.endedAt.IsZero() {
		return
	}
	s.endedAt = s.deps.Now()
	s.appendEvent(ctx, store.SessionActionEnd)
	s.log.WithFields(logrus.Fields{
		"answered": len(s.answered),
		"correct":  s.correct,
		"tier":     s.tier.String(),
	}).Info("session ended")
}

func (s *Session) elapsedLocked() time.Duration {
	end := s.endedAt
	if end.IsZero() {
		end = s.deps.Now()
	}
	return end.Sub(s.startedAt)
}

func (s *Session) appendEvent(ctx context.Context, action string) {
	if s.deps.Events == nil {
		return
	}
	data := store.SessionEventData{
		SessionID: s.id,
		LearnerID: s.learnerID,
		Action:    action,
		Grade:     s.grade.String(),
		Tier:      s.tier.String(),
	}
	switch action {
	case store.SessionActionStart:
		data.PlanSummary = s.plan.Summary()
	case store.SessionActionEnd:
		data.QuestionsServed = len(s.answered)
		data.CorrectAnswers = s.correct
		data.DurationSecs = int(s.elapsedLocked().Seconds())
	}
	if err := s.deps.Events.AppendSessionEvent(ctx, data); err != nil {
		s.log.WithError(err).WithField("action", action).Warn("failed to append session event")
	}
}
