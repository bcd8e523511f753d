package problemgen

import "fmt"

// Validator checks a question for correctness.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier for this validator (for error messages
	// and logging), e.g. "structural", "math-check", "options".
	Name() string

	// Validate checks the question and returns nil if it passes.
	Validate(q *Question) *ValidationError
}

// ValidationError describes why a question failed validation.
type ValidationError struct {
	Validator string // Name of the validator that failed
	Message   string // Human-readable description of the failure
	Retryable bool   // Whether regeneration is likely to fix this
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// Validate runs the validators in order. The first failure stops the chain
// and is returned.
func Validate(q *Question, validators ...Validator) error {
	for _, v := range validators {
		if verr := v.Validate(q); verr != nil {
			return verr
		}
	}
	return nil
}
