package session

import (
	"math/rand/v2"

	"github.com/abhisek/mathgenius/internal/calibration"
	"github.com/abhisek/mathgenius/internal/curriculum"
	"github.com/abhisek/mathgenius/internal/store"
)

const (
	// DefaultLength is the number of questions in a session.
	DefaultLength = 10

	// DefaultRecalibrateEvery is how many answers pass between tier
	// recalibrations.
	DefaultRecalibrateEvery = 5
)

// Plan is the category layout of a session.
type Plan struct {
	Slots []curriculum.Category
	Tier  curriculum.Tier

	// Calibration is the result the plan was built from.
	Calibration calibration.Result
}

// BuildPlan lays out length slots from the calibration result and shuffles
// them so weak and strong categories interleave.
func BuildPlan(res calibration.Result, tier curriculum.Tier, length int, focus curriculum.Category, r *rand.Rand) *Plan {
	slots := calibration.Mix(res, length, focus)
	r.Shuffle(len(slots), func(i, j int) { slots[i], slots[j] = slots[j], slots[i] })
	return &Plan{Slots: slots, Tier: tier, Calibration: res}
}

// Summary serializes the plan for the session start event.
func (p *Plan) Summary() []store.PlanSlotSummary {
	out := make([]store.PlanSlotSummary, 0, len(p.Slots))
	for _, c := range p.Slots {
		out = append(out, store.PlanSlotSummary{Category: string(c), Tier: p.Tier.String()})
	}
	return out
}
