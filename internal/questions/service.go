// Package questions serves question sets, reusing cached sets where it can
// and synthesizing (and optionally narrating) fresh ones otherwise.
package questions

import (
	"context"
	"math/rand/v2"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/mathgenius/internal/cache"
	"github.com/abhisek/mathgenius/internal/curriculum"
	"github.com/abhisek/mathgenius/internal/logging"
	"github.com/abhisek/mathgenius/internal/narrate"
	"github.com/abhisek/mathgenius/internal/problemgen"
)

// DefaultSetSize is how many questions are synthesized and cached per key
// when the cache cannot serve a request.
const DefaultSetSize = 20

// Request selects the questions to serve.
type Request struct {
	Grade    curriculum.Grade    `json:"grade"`
	Category curriculum.Category `json:"category"`
	Tier     curriculum.Tier     `json:"tier"`
	Count    int                 `json:"count"`
}

// Service combines the synthesizer with a question cache and an optional
// narrator. Cache and narration failures never fail a request.
type Service struct {
	synth    *problemgen.Synthesizer
	cache    cache.QuestionCache
	narrator *narrate.Narrator
	log      *logrus.Entry
	setSize  int
}

// Option configures a Service.
type Option func(*Service)

// WithNarrator rewrites freshly synthesized word problems.
func WithNarrator(n *narrate.Narrator) Option {
	return func(s *Service) { s.narrator = n }
}

// WithLogger sets the logger used for collaborator warnings.
func WithLogger(log *logrus.Entry) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithSetSize sets how many questions are synthesized per cache key.
func WithSetSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.setSize = n
		}
	}
}

// NewService creates a Service. A nil synth uses the default config and a
// nil cache disables caching.
func NewService(synth *problemgen.Synthesizer, c cache.QuestionCache, opts ...Option) *Service {
	if synth == nil {
		synth = problemgen.NewSynthesizer(problemgen.DefaultConfig())
	}
	if c == nil {
		c = cache.Nop{}
	}
	s := &Service{
		synth:   synth,
		cache:   c,
		log:     logging.Discard(),
		setSize: DefaultSetSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithField("component", "questions")
	return s
}

// Questions returns req.Count questions for one grade, category and tier.
// A cached set holding at least Count questions is sampled without
// replacement; otherwise a new set is synthesized, narrated and stored.
// Count <= 0 returns an empty slice. A nil r uses a randomly seeded source.
func (s *Service) Questions(ctx context.Context, req Request, r *rand.Rand) []*problemgen.Question {
	if req.Count <= 0 {
		return []*problemgen.Question{}
	}
	if r == nil {
		r = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	grade, cat, tier := req.Grade.Clamp(), req.Category.OrDefault(), req.Tier.Clamp()
	key := cache.Key(grade, cat, tier)
	log := s.log.WithField("key", key)

	cached, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		log.WithError(err).Warn("question cache read failed")
	}
	if ok && len(cached) >= req.Count {
		log.Debug("question cache hit")
		return sample(cached, req.Count, r)
	}

	set := s.synth.SynthesizeBatch([]curriculum.Category{cat}, grade, tier, max(req.Count, s.setSize), r)
	if s.narrator != nil {
		set = s.narrator.NarrateAll(ctx, set)
	}
	if err := s.cache.Put(ctx, key, set); err != nil {
		log.WithError(err).Warn("question cache write failed")
	}
	return sample(set, req.Count, r)
}

// Mixed returns count questions whose categories follow cats in order,
// cycling when count exceeds len(cats). Each category is fetched once, so
// question IDs are unique within the result.
func (s *Service) Mixed(ctx context.Context, grade curriculum.Grade, tier curriculum.Tier, cats []curriculum.Category, count int, r *rand.Rand) []*problemgen.Question {
	if count <= 0 {
		return []*problemgen.Question{}
	}
	if len(cats) == 0 {
		cats = []curriculum.Category{curriculum.DefaultCategory}
	}

	slots := make([]curriculum.Category, count)
	need := make(map[curriculum.Category]int)
	var order []curriculum.Category
	for i := range slots {
		c := cats[i%len(cats)].OrDefault()
		slots[i] = c
		if need[c] == 0 {
			order = append(order, c)
		}
		need[c]++
	}

	pools := make(map[curriculum.Category][]*problemgen.Question, len(order))
	for _, c := range order {
		pools[c] = s.Questions(ctx, Request{Grade: grade, Category: c, Tier: tier, Count: need[c]}, r)
	}

	out := make([]*problemgen.Question, 0, count)
	for _, c := range slots {
		out = append(out, pools[c][0])
		pools[c] = pools[c][1:]
	}
	return out
}

// sample picks n distinct questions from qs in random order.
func sample(qs []*problemgen.Question, n int, r *rand.Rand) []*problemgen.Question {
	idx := r.Perm(len(qs))[:min(n, len(qs))]
	out := make([]*problemgen.Question, 0, len(idx))
	for _, i := range idx {
		out = append(out, qs[i])
	}
	return slices.Clip(out)
}
