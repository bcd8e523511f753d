package calibration

import (
	"fmt"
	"math"
	"time"

	"github.com/abhisek/mathgenius/internal/curriculum"
)

const (
	// DefaultWindow is the default number of recent observations scored.
	DefaultWindow = 20

	// DefaultCategoryWindow is the default per-category rolling window.
	DefaultCategoryWindow = 10
)

// Rung is one step of the tier ladder. It matches when accuracy is at least
// MinAccuracy and the mean response time is below MaxMeanResponse. A zero
// MaxMeanResponse places no speed requirement on the rung.
type Rung struct {
	MinAccuracy     float64         `json:"min_accuracy" mapstructure:"min_accuracy" validate:"gte=0,lte=1"`
	MaxMeanResponse time.Duration   `json:"max_mean_response" mapstructure:"max_mean_response" validate:"gte=0"`
	Tier            curriculum.Tier `json:"tier" mapstructure:"tier"`
}

// Config holds the calibration thresholds. The ladder cut-offs are tunable;
// nothing downstream depends on their exact values.
type Config struct {
	// Window is how many of the most recent observations are scored.
	Window int `json:"window" mapstructure:"window" validate:"gt=0"`

	// Ladder is checked top to bottom; the first matching rung wins.
	Ladder []Rung `json:"ladder" mapstructure:"ladder" validate:"dive"`

	// FallbackTier is recommended when no rung matches.
	FallbackTier curriculum.Tier `json:"fallback_tier" mapstructure:"fallback_tier"`

	// EmptyTier is recommended when there are no observations at all.
	EmptyTier curriculum.Tier `json:"empty_tier" mapstructure:"empty_tier"`

	// CategoryWindow is how many of each category's most recent
	// observations feed its accuracy.
	CategoryWindow int `json:"category_window" mapstructure:"category_window" validate:"gt=0"`

	// MinCategorySamples is the fewest observations a category needs before
	// it can be called weak or strong.
	MinCategorySamples int `json:"min_category_samples" mapstructure:"min_category_samples" validate:"gte=1"`

	// WeakBelow and StrongAtLeast partition categories by accuracy.
	WeakBelow     float64 `json:"weak_below" mapstructure:"weak_below" validate:"gte=0,lte=1"`
	StrongAtLeast float64 `json:"strong_at_least" mapstructure:"strong_at_least" validate:"gte=0,lte=1"`

	// MaxWeak and MaxStrong cap the returned lists. Zero means no cap.
	MaxWeak   int `json:"max_weak" mapstructure:"max_weak" validate:"gte=0"`
	MaxStrong int `json:"max_strong" mapstructure:"max_strong" validate:"gte=0"`

	// MaxStep is the most tiers Step may move at once.
	MaxStep int `json:"max_step" mapstructure:"max_step" validate:"gte=0"`
}

// DefaultConfig returns the standard ladder: 90% under 15s is expert, 80%
// under 20s is advanced, 70% under 30s is normal, anything else is easy.
func DefaultConfig() Config {
	return Config{
		Window: DefaultWindow,
		Ladder: []Rung{
			{MinAccuracy: 0.9, MaxMeanResponse: 15 * time.Second, Tier: curriculum.TierExpert},
			{MinAccuracy: 0.8, MaxMeanResponse: 20 * time.Second, Tier: curriculum.TierAdvanced},
			{MinAccuracy: 0.7, MaxMeanResponse: 30 * time.Second, Tier: curriculum.TierNormal},
		},
		FallbackTier:       curriculum.TierEasy,
		EmptyTier:          curriculum.TierEasy,
		CategoryWindow:     DefaultCategoryWindow,
		MinCategorySamples: 3,
		WeakBelow:          0.7,
		StrongAtLeast:      0.85,
		MaxWeak:            3,
		MaxStrong:          3,
		MaxStep:            1,
	}
}

// Validate rejects configs whose ladder is not monotone: each rung must
// name a lower tier than the one above it and must not demand more
// accuracy or speed.
func (c Config) Validate() error {
	if c.Window <= 0 {
		return fmt.Errorf("calibration: window must be positive, got %d", c.Window)
	}
	if c.CategoryWindow <= 0 {
		return fmt.Errorf("calibration: category window must be positive, got %d", c.CategoryWindow)
	}
	if c.WeakBelow > c.StrongAtLeast {
		return fmt.Errorf("calibration: weak threshold %.2f above strong threshold %.2f", c.WeakBelow, c.StrongAtLeast)
	}
	for _, t := range []curriculum.Tier{c.FallbackTier, c.EmptyTier} {
		if !t.Valid() {
			return fmt.Errorf("calibration: invalid tier %d", t)
		}
	}
	for i, r := range c.Ladder {
		if !r.Tier.Valid() {
			return fmt.Errorf("calibration: rung %d has invalid tier %d", i, r.Tier)
		}
		if r.MinAccuracy < 0 || r.MinAccuracy > 1 {
			return fmt.Errorf("calibration: rung %d accuracy %.2f outside [0, 1]", i, r.MinAccuracy)
		}
		if i == 0 {
			continue
		}
		prev := c.Ladder[i-1]
		if r.Tier >= prev.Tier {
			return fmt.Errorf("calibration: rung %d tier %s not below rung %d tier %s", i, r.Tier, i-1, prev.Tier)
		}
		if r.MinAccuracy > prev.MinAccuracy {
			return fmt.Errorf("calibration: rung %d demands more accuracy than rung %d", i, i-1)
		}
		if r.speedLimit() < prev.speedLimit() {
			return fmt.Errorf("calibration: rung %d demands more speed than rung %d", i, i-1)
		}
	}
	return nil
}

func (r Rung) speedLimit() time.Duration {
	if r.MaxMeanResponse <= 0 {
		return time.Duration(math.MaxInt64)
	}
	return r.MaxMeanResponse
}

func (r Rung) matches(accuracy, meanResponseMs float64) bool {
	if accuracy < r.MinAccuracy {
		return false
	}
	return r.MaxMeanResponse <= 0 || meanResponseMs < float64(r.MaxMeanResponse.Milliseconds())
}
