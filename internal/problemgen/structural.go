package problemgen

import "fmt"

const (
	maxTextLen        = 500
	maxExplanationLen = 1000

	// NumOptions is the number of options on every question.
	NumOptions = 4
)

// StructuralValidator checks that required fields are present, within
// length limits, and have valid enum values.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(q *Question) *ValidationError {
	fail := func(msg string) *ValidationError {
		return &ValidationError{Validator: v.Name(), Message: msg, Retryable: true}
	}
	if q == nil {
		return fail("question is nil")
	}
	if q.ID == "" {
		return fail("id is empty")
	}
	if q.Text == "" {
		return fail("question text is empty")
	}
	if len(q.Text) > maxTextLen {
		return fail(fmt.Sprintf("question text exceeds %d characters", maxTextLen))
	}
	if q.Explanation == "" {
		return fail("explanation is empty")
	}
	if len(q.Explanation) > maxExplanationLen {
		return fail(fmt.Sprintf("explanation exceeds %d characters", maxExplanationLen))
	}
	if len(q.Options) != NumOptions {
		return fail(fmt.Sprintf("must have exactly %d options, got %d", NumOptions, len(q.Options)))
	}
	if !q.AnswerType.Valid() {
		return fail("answer type must be \"integer\", \"decimal\", or \"fraction\"")
	}
	if !q.Category.Valid() {
		return fail(fmt.Sprintf("unknown category %q", q.Category))
	}
	if !q.Tier.Valid() {
		return fail(fmt.Sprintf("invalid tier %d", q.Tier))
	}
	if !q.Grade.Valid() {
		return fail(fmt.Sprintf("invalid grade %d", q.Grade))
	}
	if q.TimeLimitSecs <= 0 {
		return fail("time limit must be positive")
	}
	return nil
}
