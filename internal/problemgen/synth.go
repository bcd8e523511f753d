package problemgen

import (
	"cmp"
	"math"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/abhisek/mathgenius/internal/curriculum"
)

// Synthesizer builds questions procedurally from the category strategy
// table. It holds no mutable state and is safe for concurrent use as long
// as each caller supplies its own *rand.Rand.
type Synthesizer struct {
	config Config
}

// NewSynthesizer creates a Synthesizer with the given config.
func NewSynthesizer(cfg Config) *Synthesizer {
	return &Synthesizer{config: cfg}
}

var defaultSynthesizer = NewSynthesizer(DefaultConfig())

// Synthesize builds one question with the default config.
func Synthesize(cat curriculum.Category, grade curriculum.Grade, tier curriculum.Tier, r *rand.Rand) *Question {
	return defaultSynthesizer.Synthesize(cat, grade, tier, r)
}

// SynthesizeBatch builds n questions with the default config.
func SynthesizeBatch(cats []curriculum.Category, grade curriculum.Grade, tier curriculum.Tier, n int, r *rand.Rand) []*Question {
	return defaultSynthesizer.SynthesizeBatch(cats, grade, tier, n, r)
}

// Config returns the synthesizer's configuration.
func (s *Synthesizer) Config() Config {
	return s.config
}

// Synthesize builds one question. An unrecognised category falls back to
// addition, and grade and tier are clamped into range, so a question is
// always returned. A nil r uses a randomly seeded source.
func (s *Synthesizer) Synthesize(cat curriculum.Category, grade curriculum.Grade, tier curriculum.Tier, r *rand.Rand) *Question {
	if r == nil {
		r = randomRand()
	}
	cat = cat.OrDefault()
	grade = grade.Clamp()
	tier = tier.Clamp()

	var q *Question
	for range max(1, s.config.MaxValidationAttempts) {
		q = s.compose(cat, grade, tier, r)
		if Validate(q, s.config.Validators...) == nil {
			break
		}
	}
	return q
}

// SynthesizeBatch builds n questions, cycling through cats in order. A
// question whose prompt repeats one already in the batch is redrawn up to
// MaxDedupAttempts times. n <= 0 returns an empty slice.
func (s *Synthesizer) SynthesizeBatch(cats []curriculum.Category, grade curriculum.Grade, tier curriculum.Tier, n int, r *rand.Rand) []*Question {
	if n <= 0 {
		return []*Question{}
	}
	if len(cats) == 0 {
		cats = []curriculum.Category{curriculum.DefaultCategory}
	}
	if r == nil {
		r = randomRand()
	}

	out := make([]*Question, 0, n)
	seen := make(map[string]bool, n)
	for i := range n {
		cat := cats[i%len(cats)]
		q := s.Synthesize(cat, grade, tier, r)
		for attempt := 0; attempt < s.config.MaxDedupAttempts && seen[dedupKey(q.Text)]; attempt++ {
			q = s.Synthesize(cat, grade, tier, r)
		}
		seen[dedupKey(q.Text)] = true
		out = append(out, q)
	}
	return out
}

func (s *Synthesizer) compose(cat curriculum.Category, grade curriculum.Grade, tier curriculum.Tier, r *rand.Rand) *Question {
	spec := strategies[cat]
	id := newID(r)
	p := spec.compose(r, Range(cat, grade, tier), grade, tier)

	format := func(v int) string { return formatValue(spec.answerType, v, p.work.Denominator) }
	options, correctIndex := BuildOptions(p.work.Result, format, r)

	tc := s.tierConfig(tier)
	q := &Question{
		ID:                 id,
		Text:               p.text,
		Options:            options,
		CorrectIndex:       correctIndex,
		Answer:             format(p.work.Result),
		AnswerType:         spec.answerType,
		Category:           cat,
		Tier:               tier,
		Grade:              grade,
		Explanation:        p.explanation,
		TimeLimitSecs:      s.timeLimit(spec, grade, tc),
		LearningObjectives: slices.Clone(spec.objectives),
		Work:               p.work,
	}
	if tc.HintsAllowed {
		q.Hint = cmp.Or(p.hint, spec.hint)
	}
	return q
}

func (s *Synthesizer) tierConfig(tier curriculum.Tier) curriculum.TierConfig {
	tc := s.config.Tiers[tier.Clamp()]
	if tc.BaseTimeLimitSecs <= 0 {
		tc = curriculum.DefaultTierConfigs()[tier.Clamp()]
	}
	return tc
}

// timeLimit scales the tier's base limit by the category's time factor and
// adds the young-grade bonus.
func (s *Synthesizer) timeLimit(spec categorySpec, grade curriculum.Grade, tc curriculum.TierConfig) int {
	factor := spec.timeFactor
	if factor <= 0 {
		factor = 1
	}
	secs := int(math.Round(float64(tc.BaseTimeLimitSecs) * factor))
	if grade <= s.config.TimeBonusGrades {
		secs += secs * s.config.TimeBonusPercent / 100
	}
	return max(secs, 1)
}

// dedupKey normalizes prompt text for duplicate detection.
func dedupKey(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}
