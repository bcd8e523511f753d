package problemgen

import (
	"fmt"
	"regexp"
)

var numberTokenRe = regexp.MustCompile(`\d+(?:\.\d+)?`)

// OperandsPreservedValidator checks that every worked operand still
// appears as a number in the prompt. It guards rewritten prompts against
// dropping or altering the values the answer was computed from.
type OperandsPreservedValidator struct{}

func (v *OperandsPreservedValidator) Name() string { return "operands-preserved" }

func (v *OperandsPreservedValidator) Validate(q *Question) *ValidationError {
	present := make(map[string]bool)
	for _, tok := range numberTokenRe.FindAllString(q.Text, -1) {
		present[tok] = true
	}
	for _, tok := range q.Work.tokens(q.AnswerType) {
		if !present[tok] {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("operand %s missing from question text", tok),
				Retryable: true,
			}
		}
	}
	return nil
}
