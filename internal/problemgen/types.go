package problemgen

import "github.com/abhisek/mathgenius/internal/curriculum"

// Question represents a generated multiple-choice question ready for display.
// Questions are immutable once returned by the synthesizer.
type Question struct {
	// ID is a UUID drawn from the synthesizer's random source, so a fixed
	// seed reproduces it.
	ID string `json:"id"`

	// Text is the question prompt displayed to the learner,
	// e.g. "What is 345 + 278?".
	Text string `json:"text"`

	// Options holds exactly 4 choices, one of which is the correct answer.
	Options []string `json:"options"`

	// CorrectIndex is the position of the correct answer in Options.
	CorrectIndex int `json:"correct_index"`

	// Answer is the canonical string form of the correct value:
	// "623", "0.75", "3/4".
	Answer string `json:"answer"`

	// AnswerType describes the numeric type of the answer for validation.
	AnswerType AnswerType `json:"answer_type"`

	Category curriculum.Category `json:"category"`
	Tier     curriculum.Tier     `json:"tier"`
	Grade    curriculum.Grade    `json:"grade"`

	// Explanation is a brief worked solution shown after the learner answers.
	// Always present.
	Explanation string `json:"explanation"`

	// Hint is a short hint the learner can request. Empty on tiers that do
	// not allow hints.
	Hint string `json:"hint,omitempty"`

	TimeLimitSecs      int      `json:"time_limit_secs"`
	LearningObjectives []string `json:"learning_objectives"`

	// Work records how the answer was derived.
	Work Work `json:"work"`
}

// Work is the typed record of the values a question was built from.
type Work struct {
	// Op names the operation that connects the operands, e.g. "+", "÷",
	// "area". Empty for questions with no operands.
	Op string `json:"op,omitempty"`

	// Operands are the sampled values, in the same scaled form as Result.
	Operands []int `json:"operands,omitempty"`

	// Result is the positive integer answer key. Decimal answers are stored
	// in tenths and fraction answers as the numerator over Denominator.
	Result int `json:"result"`

	// Denominator is set for fraction answers only.
	Denominator int `json:"denominator,omitempty"`
}

// AnswerType describes the numeric representation of the correct answer.
type AnswerType string

const (
	AnswerTypeInteger  AnswerType = "integer"  // e.g. "623"
	AnswerTypeDecimal  AnswerType = "decimal"  // e.g. "3.7", "0.5"
	AnswerTypeFraction AnswerType = "fraction" // e.g. "3/4", "7/2", "2"
)

// Valid reports whether t is a known answer type.
func (t AnswerType) Valid() bool {
	switch t {
	case AnswerTypeInteger, AnswerTypeDecimal, AnswerTypeFraction:
		return true
	}
	return false
}

// Operation names used in Work.Op.
const (
	OpAdd          = "+"
	OpSubtract     = "-"
	OpMultiply     = "×"
	OpDivide       = "÷"
	OpPercentOf    = "percent-of"
	OpArea         = "area"
	OpPerimeter    = "perimeter"
	OpTriangleArea = "triangle-area"
	OpSides        = "sides"
	OpDerivative   = "derivative"
	OpArithmetic   = "arithmetic-sequence"
	OpGeometric    = "geometric-sequence"
	OpConvert      = "convert"
	OpMean         = "mean"
)

// OperandRange is an inclusive range of operand magnitudes.
type OperandRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}
