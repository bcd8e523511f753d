// Package api exposes question generation, calibration and practice
// sessions over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/mathgenius/internal/calibration"
	"github.com/abhisek/mathgenius/internal/curriculum"
	"github.com/abhisek/mathgenius/internal/logging"
	"github.com/abhisek/mathgenius/internal/questions"
	"github.com/abhisek/mathgenius/internal/store"
)

// Config tunes the HTTP layer.
type Config struct {
	AllowedOrigins []string
	SessionTTL     time.Duration
	MaxSessions    int

	// Grade, SessionLength and RecalibrateEvery are used when a request
	// leaves them unset. Tier is the default for question requests only;
	// sessions calibrate their own.
	Grade            curriculum.Grade
	Tier             curriculum.Tier
	SessionLength    int
	RecalibrateEvery int
}

// Deps are the services behind the API. Observations and Events may be nil.
type Deps struct {
	Questions    *questions.Service
	Calibrator   *calibration.Calibrator
	Observations store.ObservationRepo
	Events       store.EventRepo
	Log          *logrus.Entry
}

// Server routes API requests.
type Server struct {
	deps     Deps
	config   Config
	sessions *sessionRegistry
	validate *Validator
	log      *logrus.Entry
}

// New creates a Server.
func New(deps Deps, cfg Config) *Server {
	if deps.Questions == nil {
		deps.Questions = questions.NewService(nil, nil)
	}
	if deps.Calibrator == nil {
		deps.Calibrator = calibration.NewCalibrator(calibration.DefaultConfig())
	}
	if deps.Log == nil {
		deps.Log = logging.Discard()
	}

	return &Server{
		deps:     deps,
		config:   cfg,
		sessions: newSessionRegistry(cfg.SessionTTL, cfg.MaxSessions),
		validate: NewValidator(),
		log:      deps.Log.WithField("component", "api"),
	}
}

// Handler returns the routed handler wrapped in CORS, logging and panic
// recovery.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(recoverer(s.log), requestLogger(s.log))

	r.HandleFunc("/healthz", s.health).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/questions", s.getQuestions).Methods(http.MethodGet)
	v1.HandleFunc("/distractors", s.getDistractors).Methods(http.MethodGet)
	v1.HandleFunc("/calibrate", s.postCalibrate).Methods(http.MethodPost)

	v1.HandleFunc("/learners/{learner}/observations", s.postObservation).Methods(http.MethodPost)
	v1.HandleFunc("/learners/{learner}/calibration", s.getLearnerCalibration).Methods(http.MethodGet)

	v1.HandleFunc("/sessions", s.postSession).Methods(http.MethodPost)
	v1.HandleFunc("/sessions/{id}", s.getSession).Methods(http.MethodGet)
	v1.HandleFunc("/sessions/{id}", s.deleteSession).Methods(http.MethodDelete)
	v1.HandleFunc("/sessions/{id}/answers", s.postAnswer).Methods(http.MethodPost)
	v1.HandleFunc("/sessions/{id}/hint", s.getHint).Methods(http.MethodGet)
	v1.HandleFunc("/sessions/{id}/summary", s.getSummary).Methods(http.MethodGet)

	origins := s.config.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(r)
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.len(),
	})
}
