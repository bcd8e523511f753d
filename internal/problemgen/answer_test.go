package problemgen

import "testing"

// typedAnswerIsCorrect resolves a typed value to an option and checks it,
// the way typed answers are graded.
func typedAnswerIsCorrect(input string, q *Question) bool {
	idx, ok := OptionIndex(input, q)
	return ok && CheckChoice(q, idx)
}

func TestTypedAnswer_Integer(t *testing.T) {
	q := &Question{
		Options:      []string{"40", "41", "43", "42"},
		CorrectIndex: 3,
		Answer:       "42",
		AnswerType:   AnswerTypeInteger,
	}

	tests := []struct {
		input string
		want  bool
	}{
		{"42", true},
		{" 42 ", true},
		{"042", true},
		{"4", false}, // a position is not a value
		{"43", false},
		{"1", false},
		{"", false},
		{"abc", false},
	}

	for _, tc := range tests {
		got := typedAnswerIsCorrect(tc.input, q)
		if got != tc.want {
			t.Errorf("typed answer (%q, 42/integer) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestTypedAnswer_Decimal(t *testing.T) {
	q := &Question{
		Options:      []string{"3.5", "3.6", "2.5", "35"},
		CorrectIndex: 0,
		Answer:       "3.5",
		AnswerType:   AnswerTypeDecimal,
	}

	tests := []struct {
		input string
		want  bool
	}{
		{"3.5", true},
		{"3.50", true},
		{"3.500", true},
		{" 3.5 ", true},
		{"3.6", false},
	}

	for _, tc := range tests {
		got := typedAnswerIsCorrect(tc.input, q)
		if got != tc.want {
			t.Errorf("typed answer (%q, 3.5/decimal) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestTypedAnswer_Fraction(t *testing.T) {
	q := &Question{
		Options:      []string{"1/2", "3/4", "2/3", "1/4"},
		CorrectIndex: 0,
		Answer:       "1/2",
		AnswerType:   AnswerTypeFraction,
	}

	tests := []struct {
		input string
		want  bool
	}{
		{"1/2", true},
		{"2/4", true},
		{"3/6", true},
		{" 1/2 ", true},
		{"1/3", false},
		{"3/4", false},
	}

	for _, tc := range tests {
		got := typedAnswerIsCorrect(tc.input, q)
		if got != tc.want {
			t.Errorf("typed answer (%q, 1/2/fraction) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestTypedAnswer_WholeFraction(t *testing.T) {
	q := &Question{
		Options:      []string{"2", "5/2", "3/2", "7/4"},
		CorrectIndex: 0,
		Answer:       "2",
		AnswerType:   AnswerTypeFraction,
	}
	if !typedAnswerIsCorrect("4/2", q) {
		t.Error("expected 4/2 to match 2")
	}
}

func TestCheckChoice(t *testing.T) {
	q := validQuestion()
	if !CheckChoice(q, 1) {
		t.Error("expected correct index to match")
	}
	for _, idx := range []int{-1, 0, 2, 3, 4} {
		if CheckChoice(q, idx) {
			t.Errorf("CheckChoice(%d) = true, want false", idx)
		}
	}
	if CheckChoice(nil, 0) {
		t.Error("nil question should never match")
	}
}

func TestChoiceIndex(t *testing.T) {
	q := validQuestion()
	tests := []struct {
		input string
		want  int
		ok    bool
	}{
		{"1", 0, true},
		{"4", 3, true},
		{"623", 1, true},
		{" 578 ", 3, true},
		{"999", -1, false},
	}
	for _, tc := range tests {
		got, ok := ChoiceIndex(tc.input, q)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ChoiceIndex(%q) = (%d, %v), want (%d, %v)", tc.input, got, ok, tc.want, tc.ok)
		}
	}
}

func TestOptionIndex(t *testing.T) {
	q := validQuestion()
	frac := &Question{
		Options:      []string{"1/4", "1/2", "3/4", "1"},
		CorrectIndex: 1,
		Answer:       "1/2",
		AnswerType:   AnswerTypeFraction,
	}
	tests := []struct {
		name  string
		q     *Question
		input string
		want  int
		ok    bool
	}{
		{"exact text", q, "633", 2, true},
		{"leading zeros", q, "0623", 1, true},
		{"position is not a value", q, "2", -1, false},
		{"equivalent fraction", frac, "2/4", 1, true},
		{"whole number", frac, "4/4", 3, true},
		{"no match", frac, "7/8", -1, false},
		{"empty", q, " ", -1, false},
		{"nil question", nil, "1", -1, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := OptionIndex(tc.input, tc.q)
			if got != tc.want || ok != tc.ok {
				t.Errorf("OptionIndex(%q) = (%d, %v), want (%d, %v)", tc.input, got, ok, tc.want, tc.ok)
			}
		})
	}
}
