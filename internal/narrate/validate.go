package narrate

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/abhisek/mathgenius/internal/problemgen"
)

var numberRe = regexp.MustCompile(`\d+`)

// answerHiddenValidator rejects stories that state the answer, unless the
// answer is also one of the operands.
type answerHiddenValidator struct{}

func (v *answerHiddenValidator) Name() string { return "answer-hidden" }

func (v *answerHiddenValidator) Validate(q *problemgen.Question) *problemgen.ValidationError {
	answer := strconv.Itoa(q.Work.Result)
	for _, op := range q.Work.Operands {
		if strconv.Itoa(op) == answer {
			return nil
		}
	}
	for _, tok := range numberRe.FindAllString(q.Text, -1) {
		if tok == answer {
			return &problemgen.ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("story reveals the answer %s", answer),
				Retryable: true,
			}
		}
	}
	return nil
}
