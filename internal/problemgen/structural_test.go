package problemgen

import (
	"strings"
	"testing"

	"github.com/abhisek/mathgenius/internal/curriculum"
)

func validQuestion() *Question {
	return &Question{
		ID:            "3f1c2a9e-0000-4000-8000-000000000001",
		Text:          "What is 345 + 278?",
		Options:       []string{"612", "623", "633", "578"},
		CorrectIndex:  1,
		Answer:        "623",
		AnswerType:    AnswerTypeInteger,
		Category:      curriculum.CategoryAddition,
		Tier:          curriculum.TierNormal,
		Grade:         curriculum.Grade3,
		Hint:          "Try adding column by column.",
		Explanation:   "345 + 278 = 623",
		TimeLimitSecs: 45,
		Work:          Work{Op: OpAdd, Operands: []int{345, 278}, Result: 623},
	}
}

func TestStructural_ValidQuestion(t *testing.T) {
	v := &StructuralValidator{}
	if err := v.Validate(validQuestion()); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestStructural_EmptyQuestionText(t *testing.T) {
	v := &StructuralValidator{}
	q := validQuestion()
	q.Text = ""
	err := v.Validate(q)
	if err == nil {
		t.Fatal("expected error for empty question text")
	}
	if err.Validator != "structural" {
		t.Errorf("expected validator %q, got %q", "structural", err.Validator)
	}
	if !err.Retryable {
		t.Error("expected retryable")
	}
}

func TestStructural_QuestionTextTooLong(t *testing.T) {
	v := &StructuralValidator{}
	q := validQuestion()
	q.Text = strings.Repeat("a", 501)
	if err := v.Validate(q); err == nil {
		t.Fatal("expected error for long question text")
	}
}

func TestStructural_EmptyExplanation(t *testing.T) {
	v := &StructuralValidator{}
	q := validQuestion()
	q.Explanation = ""
	if err := v.Validate(q); err == nil {
		t.Fatal("expected error for empty explanation")
	}
}

func TestStructural_ExplanationTooLong(t *testing.T) {
	v := &StructuralValidator{}
	q := validQuestion()
	q.Explanation = strings.Repeat("a", 1001)
	if err := v.Validate(q); err == nil {
		t.Fatal("expected error for long explanation")
	}
}

func TestStructural_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(q *Question)
	}{
		{"missing id", func(q *Question) { q.ID = "" }},
		{"three options", func(q *Question) { q.Options = q.Options[:3] }},
		{"unknown answer type", func(q *Question) { q.AnswerType = "boolean" }},
		{"unknown category", func(q *Question) { q.Category = "astrology" }},
		{"tier out of range", func(q *Question) { q.Tier = curriculum.Tier(9) }},
		{"grade out of range", func(q *Question) { q.Grade = curriculum.Grade(-1) }},
		{"zero time limit", func(q *Question) { q.TimeLimitSecs = 0 }},
	}

	v := &StructuralValidator{}
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
