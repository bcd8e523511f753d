package problemgen

import "github.com/abhisek/mathgenius/internal/curriculum"

// Config controls the behavior of the Synthesizer.
type Config struct {
	// Validators is the ordered list of validators to run on every
	// synthesized question. They execute in order; the first failure
	// stops the pipeline and the question is redrawn.
	Validators []Validator

	// MaxValidationAttempts bounds redraws of a question that fails
	// validation.
	MaxValidationAttempts int

	// MaxDedupAttempts bounds redraws of a batch question whose prompt
	// duplicates an earlier one in the same batch.
	MaxDedupAttempts int

	// TimeBonusGrades is the highest grade that receives extra time.
	TimeBonusGrades curriculum.Grade

	// TimeBonusPercent is the extra time granted, as a percentage of the
	// base limit.
	TimeBonusPercent int

	// Tiers holds the per-tier time limits and hint settings.
	Tiers [4]curriculum.TierConfig
}

// DefaultConfig returns a Config with the standard validator chain
// and recommended defaults.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&OptionsValidator{},
			&MathCheckValidator{},
		},
		MaxValidationAttempts: 3,
		MaxDedupAttempts:      5,
		TimeBonusGrades:       curriculum.Grade2,
		TimeBonusPercent:      50,
		Tiers:                 curriculum.DefaultTierConfigs(),
	}
}
