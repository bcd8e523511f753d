package problemgen

import (
	"errors"
	"testing"
)

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Validator: "test-validator",
		Message:   "something went wrong",
		Retryable: true,
	}
	expected := `validator "test-validator": something went wrong`
	if err.Error() != expected {
		t.Errorf("got %q, want %q", err.Error(), expected)
	}
}

func TestDefaultConfig_ValidatorChain(t *testing.T) {
	cfg := DefaultConfig()
	if len(cfg.Validators) != 3 {
		t.Fatalf("expected 3 validators, got %d", len(cfg.Validators))
	}
	names := []string{"structural", "options", "math-check"}
	for i, v := range cfg.Validators {
		if v.Name() != names[i] {
			t.Errorf("validator %d: expected %q, got %q", i, names[i], v.Name())
		}
	}
}

func TestDefaultConfig_Values(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.MaxDedupAttempts != 5 {
		t.Errorf("expected MaxDedupAttempts 5, got %d", cfg.MaxDedupAttempts)
	}
	if cfg.TimeBonusPercent != 50 {
		t.Errorf("expected TimeBonusPercent 50, got %d", cfg.TimeBonusPercent)
	}
	if cfg.Tiers[0].BaseTimeLimitSecs != 60 {
		t.Errorf("expected easy tier 60s, got %d", cfg.Tiers[0].BaseTimeLimitSecs)
	}
}

func TestValidate_FirstFailureWins(t *testing.T) {
	q := validQuestion()
	q.Text = ""
	q.Options = nil

	err := Validate(q, &StructuralValidator{}, &OptionsValidator{})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if verr.Validator != "structural" {
		t.Errorf("expected structural to fail first, got %q", verr.Validator)
	}
}

func TestValidate_NoValidators(t *testing.T) {
	if err := Validate(validQuestion()); err != nil {
		t.Fatalf("empty chain should pass, got %v", err)
	}
}

func TestOptions_Valid(t *testing.T) {
	if err := (&OptionsValidator{}).Validate(validQuestion()); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestOptions_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(q *Question)
	}{
		{"duplicate option", func(q *Question) { q.Options[2] = "612" }},
		{"answer missing", func(q *Question) { q.Options[1] = "624" }},
		{"answer twice", func(q *Question) { q.Options[0] = "0623" }},
		{"wrong index", func(q *Question) { q.CorrectIndex = 2 }},
		{"index out of range", func(q *Question) { q.CorrectIndex = 4 }},
		{"empty option", func(q *Question) { q.Options[3] = " " }},
		{"negative option", func(q *Question) { q.Options[3] = "-5" }},
		{"zero option", func(q *Question) { q.Options[3] = "0" }},
		{"not a number", func(q *Question) { q.Options[3] = "many" }},
	}

	v := &OptionsValidator{}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q := validQuestion()
			tc.mutate(q)
			if err := v.Validate(q); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestOptions_FractionNotReduced(t *testing.T) {
	q := validQuestion()
	q.AnswerType = AnswerTypeFraction
	q.Options = []string{"1/2", "2/4", "3/4", "1/4"}
	q.Answer = "1/2"
	q.CorrectIndex = 0
	if err := (&OptionsValidator{}).Validate(q); err == nil {
		t.Fatal("expected error for unreduced fraction")
	}
}

func TestOperandsPreserved(t *testing.T) {
	v := &OperandsPreservedValidator{}
	q := validQuestion()
	q.Text = "Maya collected 345 shells on Monday and 278 shells on Tuesday. How many shells did Maya collect?"
	if err := v.Validate(q); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}

	q.Text = "Maya collected 345 shells on Monday and some more on Tuesday. How many shells did Maya collect?"
	if err := v.Validate(q); err == nil {
		t.Fatal("expected error for dropped operand")
	}
}

func TestOperandsPreserved_Decimals(t *testing.T) {
	v := &OperandsPreservedValidator{}
	q := &Question{
		Text:       "What is 1.5 × 4?",
		AnswerType: AnswerTypeDecimal,
		Work:       Work{Op: OpMultiply, Operands: []int{15, 40}, Result: 60},
	}
	if err := v.Validate(q); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}
