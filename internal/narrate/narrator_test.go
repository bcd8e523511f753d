package narrate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathgenius/internal/curriculum"
	"github.com/abhisek/mathgenius/internal/llm"
	"github.com/abhisek/mathgenius/internal/problemgen"
)

func wordProblem(id string) *problemgen.Question {
	return &problemgen.Question{
		ID:            id,
		Text:          "Sam has 12 apples and gives away 5. How many apples are left?",
		Options:       []string{"7", "8", "6", "9"},
		CorrectIndex:  0,
		Answer:        "7",
		AnswerType:    problemgen.AnswerTypeInteger,
		Category:      curriculum.CategoryWordProblems,
		Tier:          curriculum.TierEasy,
		Grade:         curriculum.Grade2,
		Explanation:   "Giving away means subtracting: 12 - 5 = 7.",
		TimeLimitSecs: 60,
		Work:          problemgen.Work{Op: problemgen.OpSubtract, Operands: []int{12, 5}, Result: 7},
	}
}

func story(s string) llm.MockResponse {
	return llm.MockJSON(map[string]any{"story": s})
}

func TestNarrate_Rewrites(t *testing.T) {
	mock := llm.NewMockProvider(story("At the school fair, Sam won 12 apples. Sam handed 5 of them to friends. How many apples does Sam have left?"))
	n := New(mock, DefaultConfig(), nil)

	q := wordProblem("q-1")
	got := n.Narrate(context.Background(), q)

	require.NotSame(t, q, got)
	assert.True(t, strings.HasPrefix(got.Text, "At the school fair"))
	assert.Equal(t, q.Answer, got.Answer)
	assert.Equal(t, q.Options, got.Options)
	assert.Equal(t, q.CorrectIndex, got.CorrectIndex)
	assert.Equal(t, "Sam has 12 apples and gives away 5. How many apples are left?", q.Text, "original must not change")

	require.Equal(t, 1, mock.CallCount())
	req := mock.Calls[0]
	assert.Equal(t, StorySchema, req.Schema)
	assert.Contains(t, req.Messages[0].Content, "Numbers to keep: 12 5")
	assert.Contains(t, req.Messages[0].Content, "Grade: Grade 2")
}

func TestNarrate_FallsBack(t *testing.T) {
	tests := []struct {
		name string
		resp llm.MockResponse
	}{
		{"provider error", llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}}},
		{"operand dropped", story("Sam had 12 apples and gave some away. How many are left?")},
		{"answer revealed", story("Sam has 12 apples and gives away 5, leaving 7. How many apples are left?")},
		{"empty story", story("   ")},
		{"schema violation", llm.MockJSON(map[string]any{"text": "Sam has 12 apples and gives away 5."})},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			n := New(llm.NewMockProvider(tc.resp), DefaultConfig(), nil)
			q := wordProblem("q-1")
			assert.Same(t, q, n.Narrate(context.Background(), q))
		})
	}
}

func TestNarrate_SkipsOtherCategories(t *testing.T) {
	mock := llm.NewMockProvider()
	n := New(mock, DefaultConfig(), nil)

	q := problemgen.Synthesize(curriculum.CategoryAddition, curriculum.Grade3, curriculum.TierNormal, problemgen.NewRand(1))
	assert.Same(t, q, n.Narrate(context.Background(), q))
	assert.Zero(t, mock.CallCount())
}

func TestNarrate_NilNarrator(t *testing.T) {
	var n *Narrator
	q := wordProblem("q-1")
	assert.Same(t, q, n.Narrate(context.Background(), q))
}

func TestNarrateAll_PreservesOrder(t *testing.T) {
	mock := llm.NewMockProvider(
		story("Sam picked 12 apples in the orchard and shared 5 with a neighbour. How many apples are left?"),
		story("Sam picked 12 apples in the orchard and shared 5 with a neighbour. How many apples are left?"),
	)
	cfg := DefaultConfig()
	cfg.Concurrency = 2
	n := New(mock, cfg, nil)

	add := problemgen.Synthesize(curriculum.CategoryAddition, curriculum.Grade3, curriculum.TierNormal, problemgen.NewRand(1))
	in := []*problemgen.Question{wordProblem("a"), add, wordProblem("b")}
	out := n.NarrateAll(context.Background(), in)

	require.Len(t, out, 3)
	assert.Equal(t, "a", out[0].ID)
	assert.Same(t, add, out[1])
	assert.Equal(t, "b", out[2].ID)
	assert.Contains(t, out[0].Text, "orchard")
	assert.Contains(t, out[2].Text, "orchard")
	assert.Equal(t, 2, mock.CallCount())
}

func TestAnswerHiddenValidator(t *testing.T) {
	v := &answerHiddenValidator{}

	q := wordProblem("q")
	assert.Nil(t, v.Validate(q))

	q.Text = "Sam has 12 apples, gives away 5 and keeps 7."
	assert.NotNil(t, v.Validate(q))

	// An answer equal to an operand may appear.
	q.Work = problemgen.Work{Op: problemgen.OpSubtract, Operands: []int{10, 5}, Result: 5}
	q.Text = "Sam has 10 apples and gives away 5. How many are left?"
	assert.Nil(t, v.Validate(q))
}
