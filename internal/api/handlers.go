package api

import (
	"errors"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/abhisek/mathgenius/internal/calibration"
	"github.com/abhisek/mathgenius/internal/curriculum"
	"github.com/abhisek/mathgenius/internal/problemgen"
	"github.com/abhisek/mathgenius/internal/questions"
	"github.com/abhisek/mathgenius/internal/session"
	"github.com/abhisek/mathgenius/internal/store"
)

const (
	defaultCount   = 5
	maxCount       = 100
	maxDistractors = 20
)

// questionView is a question as shown to a learner mid-session: it leaves
// out the answer key.
type questionView struct {
	ID                 string              `json:"id"`
	Text               string              `json:"text"`
	Options            []string            `json:"options"`
	Category           curriculum.Category `json:"category"`
	Tier               curriculum.Tier     `json:"tier"`
	Grade              curriculum.Grade    `json:"grade"`
	TimeLimitSecs      int                 `json:"time_limit_secs"`
	HasHint            bool                `json:"has_hint"`
	LearningObjectives []string            `json:"learning_objectives"`
}

func viewOf(q *problemgen.Question) *questionView {
	if q == nil {
		return nil
	}
	return &questionView{
		ID:                 q.ID,
		Text:               q.Text,
		Options:            q.Options,
		Category:           q.Category,
		Tier:               q.Tier,
		Grade:              q.Grade,
		TimeLimitSecs:      q.TimeLimitSecs,
		HasHint:            q.Hint != "",
		LearningObjectives: q.LearningObjectives,
	}
}

// rngFor seeds from the "seed" parameter when present.
func rngFor(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return problemgen.NewRand(seed)
}

// queryParams collects typed query parameters and per-field errors.
type queryParams struct {
	values url.Values
	fields map[string]string
}

func newQueryParams(r *http.Request) *queryParams {
	return &queryParams{values: r.URL.Query(), fields: make(map[string]string)}
}

func (p *queryParams) int(key string, def, lo, hi int) int {
	s := p.values.Get(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < lo || v > hi {
		p.fields[key] = key + " must be an integer between " + strconv.Itoa(lo) + " and " + strconv.Itoa(hi)
		return def
	}
	return v
}

func (p *queryParams) uint64(key string) uint64 {
	s := p.values.Get(key)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		p.fields[key] = key + " must be a non-negative integer"
	}
	return v
}

func (p *queryParams) grade(key string, def curriculum.Grade) curriculum.Grade {
	s := p.values.Get(key)
	if s == "" {
		return def
	}
	g, ok := curriculum.ParseGrade(s)
	if !ok {
		p.fields[key] = "unknown grade " + strconv.Quote(s)
	}
	return g
}

func (p *queryParams) category(key string, def curriculum.Category) curriculum.Category {
	s := p.values.Get(key)
	if s == "" {
		return def
	}
	c, ok := curriculum.ParseCategory(s)
	if !ok {
		p.fields[key] = "unknown category " + strconv.Quote(s)
	}
	return c
}

func (p *queryParams) tier(key string, def curriculum.Tier) curriculum.Tier {
	s := p.values.Get(key)
	if s == "" {
		return def
	}
	t, ok := curriculum.ParseTier(s)
	if !ok {
		p.fields[key] = "unknown tier " + strconv.Quote(s)
	}
	return t
}

func (p *queryParams) err() error {
	if len(p.fields) == 0 {
		return nil
	}
	return &FieldsError{Fields: p.fields}
}

type questionsResponse struct {
	Grade     curriculum.Grade       `json:"grade"`
	Category  curriculum.Category    `json:"category"`
	Tier      curriculum.Tier        `json:"tier"`
	Questions []*problemgen.Question `json:"questions"`
}

func (s *Server) getQuestions(w http.ResponseWriter, r *http.Request) {
	p := newQueryParams(r)
	req := questions.Request{
		Grade:    p.grade("grade", s.config.Grade),
		Category: p.category("category", curriculum.DefaultCategory),
		Tier:     p.tier("tier", s.config.Tier),
		Count:    p.int("count", defaultCount, 1, maxCount),
	}
	seed := p.uint64("seed")
	if err := p.err(); err != nil {
		writeBadRequest(w, err)
		return
	}

	qs := s.deps.Questions.Questions(r.Context(), req, rngFor(seed))
	writeJSON(w, http.StatusOK, questionsResponse{
		Grade:     req.Grade,
		Category:  req.Category,
		Tier:      req.Tier,
		Questions: qs,
	})
}

type distractorsResponse struct {
	Correct     int   `json:"correct"`
	Distractors []int `json:"distractors"`
}

func (s *Server) getDistractors(w http.ResponseWriter, r *http.Request) {
	p := newQueryParams(r)
	if p.values.Get("correct") == "" {
		p.fields["correct"] = "correct is required"
	}
	correct := p.int("correct", 1, 1, problemgen.MaxCorrectValue)
	count := p.int("count", 3, 1, maxDistractors)
	seed := p.uint64("seed")
	if err := p.err(); err != nil {
		writeBadRequest(w, err)
		return
	}

	writeJSON(w, http.StatusOK, distractorsResponse{
		Correct:     correct,
		Distractors: problemgen.GenerateDistractors(correct, count, rngFor(seed)),
	})
}

type calibrateRequest struct {
	Observations []calibration.Observation `json:"observations" validate:"dive"`
	CurrentTier  *curriculum.Tier          `json:"current_tier"`
}

type calibrateResponse struct {
	calibration.Result
	NextTier *curriculum.Tier `json:"next_tier,omitempty"`
}

func (s *Server) postCalibrate(w http.ResponseWriter, r *http.Request) {
	var req calibrateRequest
	if err := s.validate.DecodeAndValidate(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	if err := checkCategories(req.Observations); err != nil {
		writeBadRequest(w, err)
		return
	}

	resp := calibrateResponse{Result: s.deps.Calibrator.Recommend(req.Observations)}
	if req.CurrentTier != nil {
		next := s.deps.Calibrator.Step(*req.CurrentTier, resp.Result)
		resp.NextTier = &next
	}
	writeJSON(w, http.StatusOK, resp)
}

func checkCategories(obs []calibration.Observation) error {
	fields := make(map[string]string)
	for i, o := range obs {
		if !o.Category.Valid() {
			fields["observations["+strconv.Itoa(i)+"].category"] = "unknown category " + strconv.Quote(string(o.Category))
		}
	}
	if len(fields) > 0 {
		return &FieldsError{Fields: fields}
	}
	return nil
}

type observationInput struct {
	calibration.Observation
	SessionID  string          `json:"session_id"`
	QuestionID string          `json:"question_id"`
	Tier       curriculum.Tier `json:"tier"`
}

type observationsRequest struct {
	Observations []observationInput `json:"observations" validate:"required,min=1,max=1000,dive"`
}

func (s *Server) postObservation(w http.ResponseWriter, r *http.Request) {
	if s.deps.Observations == nil {
		writeError(w, http.StatusServiceUnavailable, "observation log is not configured")
		return
	}
	learner := mux.Vars(r)["learner"]

	var req observationsRequest
	if err := s.validate.DecodeAndValidate(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	obs := make([]calibration.Observation, len(req.Observations))
	for i, in := range req.Observations {
		obs[i] = in.Observation
	}
	if err := checkCategories(obs); err != nil {
		writeBadRequest(w, err)
		return
	}

	for _, in := range req.Observations {
		err := s.deps.Observations.Record(r.Context(), learner, store.ObservationRecord{
			Observation: in.Observation,
			SessionID:   in.SessionID,
			QuestionID:  in.QuestionID,
			Tier:        in.Tier,
		})
		if err != nil {
			s.log.WithError(err).WithField("learner_id", learner).Error("failed to record observation")
			writeError(w, http.StatusInternalServerError, "failed to record observation")
			return
		}
	}
	writeJSON(w, http.StatusCreated, map[string]int{"recorded": len(req.Observations)})
}

type learnerCalibrationResponse struct {
	LearnerID   string                     `json:"learner_id"`
	Calibration calibration.Result         `json:"calibration"`
	AllTime     []calibration.CategoryStat `json:"all_time"`
}

func (s *Server) getLearnerCalibration(w http.ResponseWriter, r *http.Request) {
	if s.deps.Observations == nil {
		writeError(w, http.StatusServiceUnavailable, "observation log is not configured")
		return
	}
	learner := mux.Vars(r)["learner"]

	window := s.deps.Calibrator.Config().Window
	obs, err := s.deps.Observations.RecentWindow(r.Context(), learner, nil, window)
	if err != nil {
		s.log.WithError(err).WithField("learner_id", learner).Error("failed to load observations")
		writeError(w, http.StatusInternalServerError, "failed to load observations")
		return
	}
	allTime, err := s.deps.Observations.CategoryAccuracy(r.Context(), learner)
	if err != nil {
		s.log.WithError(err).WithField("learner_id", learner).Error("failed to load category accuracy")
		writeError(w, http.StatusInternalServerError, "failed to load category accuracy")
		return
	}

	writeJSON(w, http.StatusOK, learnerCalibrationResponse{
		LearnerID:   learner,
		Calibration: s.deps.Calibrator.Recommend(obs),
		AllTime:     allTime,
	})
}

type sessionRequest struct {
	LearnerID        string              `json:"learner_id" validate:"required,max=128"`
	Grade            *curriculum.Grade   `json:"grade"`
	Focus            curriculum.Category `json:"focus"`
	Tier             *curriculum.Tier    `json:"tier"`
	Length           int                 `json:"length" validate:"gte=0,lte=100"`
	RecalibrateEvery *int                `json:"recalibrate_every" validate:"omitempty,gte=0"`
	Seed             uint64              `json:"seed"`
}

type sessionResponse struct {
	SessionID string                `json:"session_id"`
	LearnerID string                `json:"learner_id"`
	Tier      curriculum.Tier       `json:"tier"`
	Answered  int                   `json:"answered"`
	Total     int                   `json:"total"`
	Complete  bool                  `json:"complete"`
	Current   *questionView         `json:"current,omitempty"`
	Plan      []curriculum.Category `json:"plan"`
}

func sessionState(sess *session.Session) sessionResponse {
	answered, total := sess.Progress()
	return sessionResponse{
		SessionID: sess.ID(),
		LearnerID: sess.LearnerID(),
		Tier:      sess.Tier(),
		Answered:  answered,
		Total:     total,
		Complete:  sess.Complete(),
		Current:   viewOf(sess.Current()),
		Plan:      sess.Plan().Slots,
	}
}

func (s *Server) postSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := s.validate.DecodeAndValidate(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	if req.Focus != "" && !req.Focus.Valid() {
		writeBadRequest(w, &FieldsError{Fields: map[string]string{"focus": "unknown category " + strconv.Quote(string(req.Focus))}})
		return
	}

	opts := session.Options{
		LearnerID:        req.LearnerID,
		Grade:            s.config.Grade,
		Focus:            req.Focus,
		Tier:             req.Tier,
		Length:           req.Length,
		RecalibrateEvery: s.config.RecalibrateEvery,
		Seed:             req.Seed,
	}
	if req.Grade != nil {
		opts.Grade = *req.Grade
	}
	if opts.Length == 0 {
		opts.Length = s.config.SessionLength
	}
	if req.RecalibrateEvery != nil {
		opts.RecalibrateEvery = *req.RecalibrateEvery
	}

	sess := session.Start(r.Context(), session.Deps{
		Questions:    s.deps.Questions,
		Observations: s.deps.Observations,
		Events:       s.deps.Events,
		Calibrator:   s.deps.Calibrator,
		Log:          s.deps.Log,
	}, opts)
	s.sessions.add(sess)

	writeJSON(w, http.StatusCreated, sessionState(sess))
}

func (s *Server) lookupSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, ok := s.sessions.get(mux.Vars(r)["id"])
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
	}
	return sess, ok
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sessionState(sess))
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	sum := sess.End(r.Context())
	s.sessions.remove(sess.ID())
	writeJSON(w, http.StatusOK, sum)
}

type answerRequest struct {
	QuestionID  string `json:"question_id" validate:"required"`
	ChosenIndex *int   `json:"chosen_index" validate:"omitempty,gte=-1"`
	Answer      string `json:"answer" validate:"max=64"`
	ResponseMs  int64  `json:"response_ms" validate:"gte=0"`
}

type answerResponse struct {
	session.Feedback
	Next *questionView `json:"next,omitempty"`
}

func (s *Server) postAnswer(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	var req answerRequest
	if err := s.validate.DecodeAndValidate(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	var idx int
	switch {
	case req.ChosenIndex != nil:
		idx = *req.ChosenIndex
	case req.Answer != "":
		q := sess.Question(req.QuestionID)
		if q == nil {
			writeSessionError(w, session.ErrUnknownQuestion)
			return
		}
		idx = resolveAnswer(q, req.Answer)
	default:
		writeBadRequest(w, &FieldsError{Fields: map[string]string{"chosen_index": "chosen_index or answer is required"}})
		return
	}

	fb, err := sess.Submit(r.Context(), req.QuestionID, idx, time.Duration(req.ResponseMs)*time.Millisecond)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, answerResponse{Feedback: fb, Next: viewOf(sess.Current())})
}

// resolveAnswer maps a typed value to the option it equals. A value that
// names no option is scored as no answer.
func resolveAnswer(q *problemgen.Question, answer string) int {
	if idx, ok := problemgen.OptionIndex(answer, q); ok {
		return idx
	}
	return session.NoAnswer
}

func (s *Server) getHint(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	qid := r.URL.Query().Get("question_id")
	if qid == "" {
		writeBadRequest(w, &FieldsError{Fields: map[string]string{"question_id": "question_id is required"}})
		return
	}
	hint, err := sess.Hint(qid)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"question_id": qid, "hint": hint})
}

func (s *Server) getSummary(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.Summary())
}

func writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrUnknownQuestion):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, session.ErrAlreadyAnswered), errors.Is(err, session.ErrSessionComplete):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
