package questions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathgenius/internal/cache"
	"github.com/abhisek/mathgenius/internal/curriculum"
	"github.com/abhisek/mathgenius/internal/llm"
	"github.com/abhisek/mathgenius/internal/narrate"
	"github.com/abhisek/mathgenius/internal/problemgen"
)

// countingCache records calls on top of an in-memory cache.
type countingCache struct {
	cache.QuestionCache
	gets, puts int
}

func (c *countingCache) Get(ctx context.Context, key string) ([]*problemgen.Question, bool, error) {
	c.gets++
	return c.QuestionCache.Get(ctx, key)
}

func (c *countingCache) Put(ctx context.Context, key string, qs []*problemgen.Question) error {
	c.puts++
	return c.QuestionCache.Put(ctx, key, qs)
}

type brokenCache struct{}

func (brokenCache) Get(context.Context, string) ([]*problemgen.Question, bool, error) {
	return nil, false, errors.New("connection refused")
}

func (brokenCache) Put(context.Context, string, []*problemgen.Question) error {
	return errors.New("connection refused")
}

func memoryCache() *countingCache {
	return &countingCache{QuestionCache: cache.NewVersioned(cache.NewMemory(time.Hour, 0), "1.0.0")}
}

func TestQuestions_NonPositiveCount(t *testing.T) {
	svc := NewService(nil, nil)
	for _, n := range []int{0, -3} {
		got := svc.Questions(context.Background(), Request{Count: n}, problemgen.NewRand(1))
		require.NotNil(t, got)
		assert.Empty(t, got)
	}
}

func TestQuestions_FillsThenHitsCache(t *testing.T) {
	c := memoryCache()
	svc := NewService(nil, c, WithSetSize(10))
	req := Request{Grade: curriculum.Grade3, Category: curriculum.CategoryMultiplication, Tier: curriculum.TierNormal, Count: 4}

	first := svc.Questions(context.Background(), req, problemgen.NewRand(1))
	require.Len(t, first, 4)
	assert.Equal(t, 1, c.puts)

	cached, ok, err := c.QuestionCache.Get(context.Background(), cache.Key(req.Grade, req.Category, req.Tier))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, cached, 10)

	second := svc.Questions(context.Background(), req, problemgen.NewRand(2))
	require.Len(t, second, 4)
	assert.Equal(t, 1, c.puts, "cache hit must not write")

	ids := make(map[string]bool)
	for _, q := range cached {
		ids[q.ID] = true
	}
	seen := make(map[string]bool)
	for _, q := range second {
		assert.True(t, ids[q.ID], "sampled question must come from the cached set")
		assert.False(t, seen[q.ID], "sample must not repeat")
		seen[q.ID] = true
		assert.Equal(t, curriculum.CategoryMultiplication, q.Category)
	}
}

func TestQuestions_SmallCachedSetRegenerates(t *testing.T) {
	c := memoryCache()
	svc := NewService(nil, c, WithSetSize(3))
	req := Request{Grade: curriculum.Grade2, Category: curriculum.CategoryAddition, Tier: curriculum.TierEasy, Count: 2}

	svc.Questions(context.Background(), req, problemgen.NewRand(1))
	req.Count = 5
	got := svc.Questions(context.Background(), req, problemgen.NewRand(1))
	assert.Len(t, got, 5)
	assert.Equal(t, 2, c.puts)
}

func TestQuestions_CacheFailuresAreWarnings(t *testing.T) {
	logger, hook := test.NewNullLogger()
	svc := NewService(nil, brokenCache{}, WithLogger(logrus.NewEntry(logger)))

	got := svc.Questions(context.Background(), Request{Grade: curriculum.Grade4, Category: curriculum.CategoryDivision, Count: 3}, problemgen.NewRand(9))
	require.Len(t, got, 3)
	for _, q := range got {
		assert.NoError(t, problemgen.Validate(q, &problemgen.StructuralValidator{}))
	}

	require.Len(t, hook.AllEntries(), 2)
	for _, e := range hook.AllEntries() {
		assert.Equal(t, logrus.WarnLevel, e.Level)
		assert.Equal(t, "g4:division:easy", e.Data["key"])
	}
}

func TestQuestions_InvalidInputsAreNormalised(t *testing.T) {
	svc := NewService(nil, nil)
	got := svc.Questions(context.Background(), Request{Grade: 40, Category: "origami", Tier: 9, Count: 1}, problemgen.NewRand(3))
	require.Len(t, got, 1)
	assert.Equal(t, curriculum.DefaultCategory, got[0].Category)
	assert.Equal(t, curriculum.Grade12, got[0].Grade)
	assert.Equal(t, curriculum.TierExpert, got[0].Tier)
}

func TestQuestions_NarratesWordProblems(t *testing.T) {
	mock := llm.NewMockProvider()
	svc := NewService(nil, nil, WithSetSize(2), WithNarrator(narrate.New(mock, narrate.DefaultConfig(), nil)))

	got := svc.Questions(context.Background(), Request{Grade: curriculum.Grade3, Category: curriculum.CategoryWordProblems, Count: 2}, problemgen.NewRand(5))
	require.Len(t, got, 2)
	// The mock has no responses queued, so each narration attempt fails
	// and the synthesized text is kept.
	assert.Equal(t, 2, mock.CallCount())
	for _, q := range got {
		assert.NotEmpty(t, q.Text)
	}
}

func TestMixed_FollowsSlots(t *testing.T) {
	c := memoryCache()
	svc := NewService(nil, c, WithSetSize(5))
	cats := []curriculum.Category{curriculum.CategoryDivision, curriculum.CategoryFractions, curriculum.CategoryGeometry}

	got := svc.Mixed(context.Background(), curriculum.Grade5, curriculum.TierNormal, cats, 7, problemgen.NewRand(11))
	require.Len(t, got, 7)

	ids := make(map[string]bool)
	for i, q := range got {
		assert.Equal(t, cats[i%len(cats)], q.Category, "slot %d", i)
		assert.False(t, ids[q.ID], "duplicate question id %s", q.ID)
		ids[q.ID] = true
	}
	assert.Equal(t, 3, c.gets, "one lookup per distinct category")
}

func TestMixed_Empty(t *testing.T) {
	svc := NewService(nil, nil)
	assert.Empty(t, svc.Mixed(context.Background(), curriculum.Grade1, curriculum.TierEasy, nil, 0, problemgen.NewRand(1)))

	got := svc.Mixed(context.Background(), curriculum.Grade1, curriculum.TierEasy, nil, 2, problemgen.NewRand(1))
	require.Len(t, got, 2)
	assert.Equal(t, curriculum.DefaultCategory, got[0].Category)
}
