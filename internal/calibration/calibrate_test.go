package calibration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathgenius/internal/curriculum"
)

func obsSeq(cat curriculum.Category, correct []bool, ms int64) []Observation {
	out := make([]Observation, len(correct))
	for i, c := range correct {
		out[i] = Observation{Category: cat, Correct: c, ResponseMs: ms}
	}
	return out
}

func bools(n, correct int) []bool {
	out := make([]bool, n)
	for i := 0; i < correct; i++ {
		out[i] = true
	}
	return out
}

func TestRecommend_TopTier(t *testing.T) {
	obs := obsSeq(curriculum.CategoryAddition, bools(10, 9), 12000)
	res := Recommend(obs, DefaultConfig())
	assert.Equal(t, curriculum.TierExpert, res.RecommendedTier)
	assert.InDelta(t, 0.9, res.Accuracy, 1e-9)
	assert.Equal(t, 10, res.Sample)
}

func TestRecommend_Ladder(t *testing.T) {
	tests := []struct {
		name    string
		correct int
		ms      int64
		want    curriculum.Tier
	}{
		{"fast and accurate", 10, 5000, curriculum.TierExpert},
		{"accurate but slow for expert", 10, 16000, curriculum.TierAdvanced},
		{"80 percent fast", 8, 10000, curriculum.TierAdvanced},
		{"80 percent too slow", 8, 25000, curriculum.TierNormal},
		{"70 percent", 7, 29000, curriculum.TierNormal},
		{"70 percent very slow", 7, 31000, curriculum.TierEasy},
		{"struggling", 5, 5000, curriculum.TierEasy},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			obs := obsSeq(curriculum.CategoryAddition, bools(10, tc.correct), tc.ms)
			assert.Equal(t, tc.want, Recommend(obs, DefaultConfig()).RecommendedTier)
		})
	}
}

func TestRecommend_Empty(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EmptyTier = curriculum.TierNormal
	res := Recommend(nil, cfg)
	assert.Equal(t, curriculum.TierNormal, res.RecommendedTier)
	assert.Zero(t, res.Sample)
	assert.NotNil(t, res.WeakCategories)
	assert.NotNil(t, res.StrongCategories)
}

func TestRecommend_Idempotent(t *testing.T) {
	obs := append(
		obsSeq(curriculum.CategoryFractions, bools(6, 2), 18000),
		obsSeq(curriculum.CategoryGeometry, bools(6, 6), 9000)...,
	)
	a := Recommend(obs, DefaultConfig())
	b := Recommend(obs, DefaultConfig())
	assert.Equal(t, a, b)
}

func TestRecommend_UsesMostRecentWindow(t *testing.T) {
	// 20 old misses followed by 20 fast correct answers.
	obs := append(
		obsSeq(curriculum.CategoryAddition, bools(20, 0), 40000),
		obsSeq(curriculum.CategoryAddition, bools(20, 20), 4000)...,
	)
	res := Recommend(obs, DefaultConfig())
	assert.Equal(t, curriculum.TierExpert, res.RecommendedTier)
	assert.Equal(t, DefaultWindow, res.Sample)
}

func TestRecommend_SortsByTimestamp(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	var obs []Observation
	// Newest (correct, fast) observations are listed first.
	for i := 0; i < 20; i++ {
		obs = append(obs, Observation{Category: curriculum.CategoryAddition, Correct: true, ResponseMs: 3000, Timestamp: base.Add(time.Hour + time.Duration(i)*time.Minute)})
	}
	for i := 0; i < 20; i++ {
		obs = append(obs, Observation{Category: curriculum.CategoryAddition, Correct: false, ResponseMs: 50000, Timestamp: base.Add(time.Duration(i) * time.Minute)})
	}
	res := Recommend(obs, DefaultConfig())
	assert.Equal(t, curriculum.TierExpert, res.RecommendedTier)
	assert.Equal(t, 1.0, res.Accuracy)
}

func TestRecommend_WeakAndStrong(t *testing.T) {
	// Subtraction and division tie at 0.2, addition and geometry at 1.0.
	// Patterns at 0.8 is neither weak nor strong, and measurement has too
	// few samples to count.
	var obs []Observation
	obs = append(obs, obsSeq(curriculum.CategoryDivision, bools(5, 1), 10000)...)
	obs = append(obs, obsSeq(curriculum.CategoryFractions, bools(5, 3), 10000)...)
	obs = append(obs, obsSeq(curriculum.CategorySubtraction, bools(5, 1), 10000)...)
	obs = append(obs, obsSeq(curriculum.CategoryGeometry, bools(5, 5), 10000)...)
	obs = append(obs, obsSeq(curriculum.CategoryAddition, bools(5, 5), 10000)...)
	obs = append(obs, obsSeq(curriculum.CategoryPatterns, bools(5, 4), 10000)...)
	obs = append(obs, obsSeq(curriculum.CategoryMeasurement, bools(2, 0), 10000)...)

	res := Recommend(obs, DefaultConfig())
	assert.Equal(t, []curriculum.Category{
		curriculum.CategorySubtraction,
		curriculum.CategoryDivision,
		curriculum.CategoryFractions,
	}, res.WeakCategories)
	assert.Equal(t, []curriculum.Category{
		curriculum.CategoryAddition,
		curriculum.CategoryGeometry,
	}, res.StrongCategories)

	require.Len(t, res.Categories, 7)
	assert.Equal(t, curriculum.CategoryAddition, res.Categories[0].Category)
}

func TestRecommend_MaxWeakCaps(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxWeak = 1
	var obs []Observation
	obs = append(obs, obsSeq(curriculum.CategoryDivision, bools(4, 0), 1000)...)
	obs = append(obs, obsSeq(curriculum.CategoryAlgebra, bools(4, 1), 1000)...)
	res := Recommend(obs, cfg)
	assert.Equal(t, []curriculum.Category{curriculum.CategoryDivision}, res.WeakCategories)
}

func TestRecommend_CategoryWindow(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CategoryWindow = 4
	obs := append(
		obsSeq(curriculum.CategoryAlgebra, bools(6, 0), 1000),
		obsSeq(curriculum.CategoryAlgebra, bools(4, 4), 1000)...,
	)
	res := Recommend(obs, cfg)
	require.Len(t, res.Categories, 1)
	assert.Equal(t, 4, res.Categories[0].Attempts)
	assert.Equal(t, 1.0, res.Categories[0].Accuracy)
}

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero window", func(c *Config) { c.Window = 0 }},
		{"tiers not descending", func(c *Config) { c.Ladder[1].Tier = curriculum.TierExpert }},
		{"accuracy increases", func(c *Config) { c.Ladder[2].MinAccuracy = 0.95 }},
		{"speed tightens", func(c *Config) { c.Ladder[1].MaxMeanResponse = 10 * time.Second }},
		{"weak above strong", func(c *Config) { c.WeakBelow = 0.9 }},
		{"accuracy above one", func(c *Config) { c.Ladder[0].MinAccuracy = 1.5 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
