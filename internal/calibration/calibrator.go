package calibration

import "github.com/abhisek/mathgenius/internal/curriculum"

// Slot shares of a category mix, after the 60/30/10 session plan.
const (
	weakShare  = 6
	focusShare = 3
)

// Calibrator binds a Config to the calibration functions.
type Calibrator struct {
	config Config
}

// NewCalibrator creates a Calibrator. Call cfg.Validate first if the config
// comes from user input.
func NewCalibrator(cfg Config) *Calibrator {
	return &Calibrator{config: cfg}
}

// Config returns the calibrator's configuration.
func (c *Calibrator) Config() Config {
	return c.config
}

// Recommend runs Recommend with the calibrator's config.
func (c *Calibrator) Recommend(obs []Observation) Result {
	return Recommend(obs, c.config)
}

// Step moves from current toward the recommendation by at most the
// configured MaxStep tiers.
func (c *Calibrator) Step(current curriculum.Tier, res Result) curriculum.Tier {
	return Step(current, res, c.config.MaxStep)
}

// Step moves current toward res.RecommendedTier by at most maxStep tiers.
// A maxStep of zero or less jumps straight to the recommendation. With no
// observations behind the result the tier is left alone.
func Step(current curriculum.Tier, res Result, maxStep int) curriculum.Tier {
	current = current.Clamp()
	if res.Sample == 0 {
		return current
	}
	target := res.RecommendedTier.Clamp()
	if maxStep <= 0 {
		return target
	}
	switch {
	case target > current:
		return min(target, current+curriculum.Tier(maxStep))
	case target < current:
		return max(target, current-curriculum.Tier(maxStep))
	default:
		return current
	}
}

// Mix lays out total practice slots: 60% from the weak categories, 30%
// from focus and the rest from the strong categories. Buckets with no
// categories are filled from focus. Slots are ordered weak, focus, strong.
func Mix(res Result, total int, focus curriculum.Category) []curriculum.Category {
	if total <= 0 {
		return []curriculum.Category{}
	}
	focus = focus.OrDefault()

	weakN := total * weakShare / 10
	focusN := total * focusShare / 10
	strongN := total - weakN - focusN

	out := make([]curriculum.Category, 0, total)
	out = appendCycled(out, res.WeakCategories, weakN, focus)
	out = appendCycled(out, nil, focusN, focus)
	out = appendCycled(out, res.StrongCategories, strongN, focus)
	return out
}

// Mix runs Mix with the calibrator's result.
func (c *Calibrator) Mix(res Result, total int, focus curriculum.Category) []curriculum.Category {
	return Mix(res, total, focus)
}

func appendCycled(out, from []curriculum.Category, n int, fallback curriculum.Category) []curriculum.Category {
	for i := 0; i < n; i++ {
		if len(from) == 0 {
			out = append(out, fallback)
			continue
		}
		out = append(out, from[i%len(from)])
	}
	return out
}
