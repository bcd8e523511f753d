// Package narrate rewrites word problems into short stories using an LLM.
// Narration is optional and never changes a question's answer: any
// rewrite that fails validation is discarded.
package narrate

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/mathgenius/internal/curriculum"
	"github.com/abhisek/mathgenius/internal/llm"
	"github.com/abhisek/mathgenius/internal/logging"
	"github.com/abhisek/mathgenius/internal/problemgen"
)

// Config holds narration settings.
type Config struct {
	MaxTokens   int     `mapstructure:"max_tokens" json:"max_tokens" validate:"gte=0"`
	Temperature float64 `mapstructure:"temperature" json:"temperature" validate:"gte=0,lte=1"`

	// Concurrency bounds parallel provider calls in NarrateAll.
	Concurrency int `mapstructure:"concurrency" json:"concurrency" validate:"gte=0"`
}

// DefaultConfig returns the recommended narration settings.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   300,
		Temperature: 0.7,
		Concurrency: 4,
	}
}

// Narrator rewrites word-problem prompts.
type Narrator struct {
	provider   llm.Provider
	config     Config
	validators []problemgen.Validator
	log        *logrus.Entry
}

// New creates a Narrator. A nil log discards output.
func New(provider llm.Provider, cfg Config, log *logrus.Entry) *Narrator {
	if log == nil {
		log = logging.Discard()
	}
	return &Narrator{
		provider: provider,
		config:   cfg,
		validators: []problemgen.Validator{
			&problemgen.StructuralValidator{},
			&problemgen.OperandsPreservedValidator{},
			&answerHiddenValidator{},
		},
		log: log.WithField("component", "narrate"),
	}
}

// Applies reports whether q is a candidate for narration.
func Applies(q *problemgen.Question) bool {
	return q != nil && q.Category == curriculum.CategoryWordProblems && len(q.Work.Operands) > 0
}

type storyOutput struct {
	Story string `json:"story"`
}

// Narrate returns a copy of q with its prompt rewritten as a story. The
// original question is returned unchanged when q is not a word problem or
// when the provider call or any validator fails.
func (n *Narrator) Narrate(ctx context.Context, q *problemgen.Question) *problemgen.Question {
	if n == nil || n.provider == nil || !Applies(q) {
		return q
	}
	out, err := n.rewrite(ctx, q)
	if err != nil {
		n.log.WithError(err).WithField("question_id", q.ID).Warn("narration discarded")
		return q
	}
	return out
}

func (n *Narrator) rewrite(ctx context.Context, q *problemgen.Question) (*problemgen.Question, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeNarrate)

	resp, err := n.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Messages:    llm.UserMessage(buildUserMessage(q)),
		Schema:      StorySchema,
		MaxTokens:   n.config.MaxTokens,
		Temperature: n.config.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("narration request failed: %w", err)
	}

	var raw storyOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse narration: %w", err)
	}

	out := *q
	out.Text = strings.TrimSpace(raw.Story)
	out.Options = slices.Clone(q.Options)
	out.LearningObjectives = slices.Clone(q.LearningObjectives)
	out.Work.Operands = slices.Clone(q.Work.Operands)

	if err := problemgen.Validate(&out, n.validators...); err != nil {
		return nil, err
	}
	return &out, nil
}

// NarrateAll narrates qs, at most Concurrency at a time, into a new slice.
// Order is preserved and questions that fail narration keep their original
// text.
func (n *Narrator) NarrateAll(ctx context.Context, qs []*problemgen.Question) []*problemgen.Question {
	out := slices.Clone(qs)
	if n == nil || n.provider == nil {
		return out
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, n.config.Concurrency))
	for i, q := range qs {
		if !Applies(q) {
			continue
		}
		g.Go(func() error {
			out[i] = n.Narrate(gctx, q)
			return nil
		})
	}
	_ = g.Wait()
	return out
}
