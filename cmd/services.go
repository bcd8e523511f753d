package cmd

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/abhisek/mathgenius/internal/cache"
	"github.com/abhisek/mathgenius/internal/calibration"
	"github.com/abhisek/mathgenius/internal/llm"
	"github.com/abhisek/mathgenius/internal/narrate"
	"github.com/abhisek/mathgenius/internal/problemgen"
	"github.com/abhisek/mathgenius/internal/questions"
	"github.com/abhisek/mathgenius/internal/session"
	"github.com/abhisek/mathgenius/internal/store"
)

// services bundles the domain services shared by play, serve and generate.
type services struct {
	questions  *questions.Service
	calibrator *calibration.Calibrator
	close      func() error
}

// buildServices wires the synthesizer, question cache and optional narrator.
// st may be nil, in which case LLM events are not recorded and the sqlite
// cache backend is unavailable. A misconfigured LLM is reported and the
// service runs without narration.
func buildServices(ctx context.Context, st *store.Store) (*services, error) {
	log := logger.WithField("learner", cfg.Learner)

	var (
		events llm.EventSink
		sqlite cache.Backend
	)
	if st != nil {
		events = st.EventRepo()
		sqlite = st.QuestionSetRepo()
	}

	qc, closeCache, err := cache.New(ctx, cfg.Cache, cache.Deps{SQLite: sqlite, Version: version, Log: log})
	if err != nil {
		return nil, fmt.Errorf("build question cache: %w", err)
	}

	opts := []questions.Option{
		questions.WithLogger(log),
		questions.WithSetSize(cfg.Questions.SetSize),
	}

	llmCfg, _ := cfg.LLM.Discover()
	provider, err := llm.NewProvider(ctx, llmCfg, events, log)
	switch {
	case err != nil:
		log.WithError(err).Warn("LLM provider not configured; word problems will not be narrated")
	case provider != nil:
		log.WithField("model", provider.ModelID()).Info("narrating word problems")
		opts = append(opts, questions.WithNarrator(narrate.New(provider, cfg.Narrate, log)))
	}

	synth := problemgen.NewSynthesizer(cfg.Questions.SynthConfig())
	return &services{
		questions:  questions.NewService(synth, qc, opts...),
		calibrator: calibration.NewCalibrator(cfg.Calibration),
		close:      closeCache,
	}, nil
}

// sessionDeps builds session collaborators backed by st.
func (s *services) sessionDeps(st *store.Store) session.Deps {
	deps := session.Deps{
		Questions:  s.questions,
		Calibrator: s.calibrator,
		Log:        logger.WithField("learner", cfg.Learner),
	}
	if st != nil {
		deps.Observations = st.ObservationRepo()
		deps.Events = st.EventRepo()
	}
	return deps
}

// seededRand returns a source for seed, or a random one when seed is zero.
func seededRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return problemgen.NewRand(seed)
}
