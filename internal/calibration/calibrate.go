package calibration

import (
	"sort"
	"time"

	"github.com/abhisek/mathgenius/internal/curriculum"
)

// Observation is one answered question.
type Observation struct {
	Category   curriculum.Category `json:"category" validate:"required"`
	Correct    bool                `json:"correct"`
	ResponseMs int64               `json:"response_ms" validate:"gte=0"`
	HintsUsed  int                 `json:"hints_used" validate:"gte=0"`
	Timestamp  time.Time           `json:"timestamp"`
}

// CategoryStat is the rolling accuracy of one category.
type CategoryStat struct {
	Category       curriculum.Category `json:"category"`
	Attempts       int                 `json:"attempts"`
	Correct        int                 `json:"correct"`
	Accuracy       float64             `json:"accuracy"`
	MeanResponseMs float64             `json:"mean_response_ms"`
}

// Result is a derived recommendation. It is always recomputable from the
// observation log and is never authoritative state.
type Result struct {
	RecommendedTier  curriculum.Tier       `json:"recommended_tier"`
	Accuracy         float64               `json:"accuracy"`
	MeanResponseMs   float64               `json:"mean_response_ms"`
	Sample           int                   `json:"sample"`
	WeakCategories   []curriculum.Category `json:"weak_categories"`
	StrongCategories []curriculum.Category `json:"strong_categories"`
	Categories       []CategoryStat        `json:"categories"`
}

// Recommend scores the observations, oldest first, and recommends a tier
// and the weak and strong categories. It is a pure function: the same
// observations and config always give the same Result.
func Recommend(obs []Observation, cfg Config) Result {
	res := Result{
		RecommendedTier:  cfg.EmptyTier,
		WeakCategories:   []curriculum.Category{},
		StrongCategories: []curriculum.Category{},
		Categories:       []CategoryStat{},
	}
	ordered := chronological(obs)
	if len(ordered) == 0 {
		return res
	}

	recent := lastN(ordered, orDefault(cfg.Window, DefaultWindow))
	correct, totalMs := tally(recent)
	res.Sample = len(recent)
	res.Accuracy = float64(correct) / float64(len(recent))
	res.MeanResponseMs = float64(totalMs) / float64(len(recent))
	res.RecommendedTier = tierFor(cfg, res.Accuracy, res.MeanResponseMs)

	res.Categories = categoryStats(ordered, orDefault(cfg.CategoryWindow, DefaultCategoryWindow))
	res.WeakCategories, res.StrongCategories = partition(res.Categories, cfg)
	return res
}

// chronological returns a copy of obs ordered oldest first. When every
// observation carries a timestamp the copy is stably sorted by it;
// otherwise the caller's order is trusted.
func chronological(obs []Observation) []Observation {
	out := make([]Observation, len(obs))
	copy(out, obs)
	for _, o := range out {
		if o.Timestamp.IsZero() {
			return out
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

func lastN(obs []Observation, n int) []Observation {
	if len(obs) > n {
		return obs[len(obs)-n:]
	}
	return obs
}

func tally(obs []Observation) (correct int, totalMs int64) {
	for _, o := range obs {
		if o.Correct {
			correct++
		}
		totalMs += max(o.ResponseMs, 0)
	}
	return correct, totalMs
}

func tierFor(cfg Config, accuracy, meanMs float64) curriculum.Tier {
	for _, rung := range cfg.Ladder {
		if rung.matches(accuracy, meanMs) {
			return rung.Tier
		}
	}
	return cfg.FallbackTier
}

// categoryStats computes accuracy over each category's most recent window
// entries, in category enumeration order.
func categoryStats(obs []Observation, window int) []CategoryStat {
	byCat := make(map[curriculum.Category][]Observation)
	for _, o := range obs {
		byCat[o.Category] = append(byCat[o.Category], o)
	}

	stats := make([]CategoryStat, 0, len(byCat))
	for cat, list := range byCat {
		recent := lastN(list, window)
		correct, totalMs := tally(recent)
		stats = append(stats, CategoryStat{
			Category:       cat,
			Attempts:       len(recent),
			Correct:        correct,
			Accuracy:       float64(correct) / float64(len(recent)),
			MeanResponseMs: float64(totalMs) / float64(len(recent)),
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		return categoryLess(stats[i].Category, stats[j].Category)
	})
	return stats
}

// partition splits categories with enough samples into weak (lowest
// accuracy first) and strong (highest accuracy first). Ties keep category
// enumeration order.
func partition(stats []CategoryStat, cfg Config) (weak, strong []curriculum.Category) {
	var weakStats, strongStats []CategoryStat
	for _, s := range stats {
		if s.Attempts < cfg.MinCategorySamples {
			continue
		}
		switch {
		case s.Accuracy < cfg.WeakBelow:
			weakStats = append(weakStats, s)
		case s.Accuracy >= cfg.StrongAtLeast:
			strongStats = append(strongStats, s)
		}
	}

	sort.SliceStable(weakStats, func(i, j int) bool {
		return weakStats[i].Accuracy < weakStats[j].Accuracy
	})
	sort.SliceStable(strongStats, func(i, j int) bool {
		return strongStats[i].Accuracy > strongStats[j].Accuracy
	})

	return categoriesOf(weakStats, cfg.MaxWeak), categoriesOf(strongStats, cfg.MaxStrong)
}

func categoriesOf(stats []CategoryStat, limit int) []curriculum.Category {
	if limit > 0 && len(stats) > limit {
		stats = stats[:limit]
	}
	out := make([]curriculum.Category, len(stats))
	for i, s := range stats {
		out[i] = s.Category
	}
	return out
}

func categoryLess(a, b curriculum.Category) bool {
	if a.Index() != b.Index() {
		return a.Index() < b.Index()
	}
	return a < b
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
