package problemgen

import (
	"strconv"
	"testing"

	"github.com/abhisek/mathgenius/internal/curriculum"
)

func checkDistractors(t *testing.T, correct, count int, got []int) {
	t.Helper()
	if len(got) != count {
		t.Fatalf("GenerateDistractors(%d, %d) returned %d values", correct, count, len(got))
	}
	seen := make(map[int]bool, len(got))
	for _, v := range got {
		if v <= 0 {
			t.Errorf("GenerateDistractors(%d, %d): non-positive %d", correct, count, v)
		}
		if v == correct {
			t.Errorf("GenerateDistractors(%d, %d): returned the correct answer", correct, count)
		}
		if seen[v] {
			t.Errorf("GenerateDistractors(%d, %d): duplicate %d", correct, count, v)
		}
		seen[v] = true
	}
}

func TestGenerateDistractors_Seven(t *testing.T) {
	for seed := uint64(0); seed < 200; seed++ {
		got := GenerateDistractors(7, 3, NewRand(seed))
		checkDistractors(t, 7, 3, got)
	}
}

func TestGenerateDistractors_Properties(t *testing.T) {
	r := NewRand(1)
	for _, correct := range []int{1, 2, 3, 9, 10, 11, 42, 99, 100, 623, 1000, 98765} {
		for _, count := range []int{1, 3, 5, 12} {
			checkDistractors(t, correct, count, GenerateDistractors(correct, count, r))
		}
	}
}

func TestGenerateDistractors_NonPositiveCount(t *testing.T) {
	for _, count := range []int{0, -1} {
		got := GenerateDistractors(7, count, NewRand(1))
		if got == nil || len(got) != 0 {
			t.Errorf("GenerateDistractors(7, %d) = %v, want empty slice", count, got)
		}
	}
}

func TestGenerateDistractors_FallbackTerminates(t *testing.T) {
	// More distractors than the randomized strategies can supply for a tiny
	// answer forces the sequential fallback.
	got := GenerateDistractors(1, 100, NewRand(3))
	checkDistractors(t, 1, 100, got)
}

func TestGenerateDistractors_Deterministic(t *testing.T) {
	a := GenerateDistractors(250, 3, NewRand(77))
	b := GenerateDistractors(250, 3, NewRand(77))
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed gave %v and %v", a, b)
		}
	}
}

func TestDigitShuffle_SingleDigitFallsBack(t *testing.T) {
	r := NewRand(5)
	for i := 0; i < 50; i++ {
		v := digitShuffleDistractor(4, r)
		if v == 4 || v < -6 || v > 14 {
			t.Fatalf("unexpected shuffle result %d for single digit", v)
		}
	}
}

func TestBuildOptions(t *testing.T) {
	r := NewRand(9)
	for i := 0; i < 100; i++ {
		options, idx := BuildOptions(42, strconv.Itoa, r)
		if len(options) != 4 {
			t.Fatalf("got %d options", len(options))
		}
		if options[idx] != "42" {
			t.Fatalf("options[%d] = %q, want 42", idx, options[idx])
		}
	}
}

func TestBuildOptions_Fractions(t *testing.T) {
	format := func(v int) string { return formatValue(AnswerTypeFraction, v, 8) }
	options, idx := BuildOptions(6, format, NewRand(4))
	if options[idx] != "3/4" {
		t.Fatalf("options[%d] = %q, want 3/4", idx, options[idx])
	}
	q := &Question{Options: options, CorrectIndex: idx, Answer: "3/4", AnswerType: AnswerTypeFraction}
	if err := (&OptionsValidator{}).Validate(q); err != nil {
		t.Fatalf("fraction options invalid: %v", err)
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		t    AnswerType
		v    int
		den  int
		want string
	}{
		{AnswerTypeInteger, 623, 0, "623"},
		{AnswerTypeDecimal, 35, 0, "3.5"},
		{AnswerTypeDecimal, 30, 0, "3"},
		{AnswerTypeDecimal, 1, 0, "0.1"},
		{AnswerTypeFraction, 6, 8, "3/4"},
		{AnswerTypeFraction, 8, 4, "2"},
		{AnswerTypeFraction, 5, 12, "5/12"},
	}
	for _, tc := range tests {
		if got := formatValue(tc.t, tc.v, tc.den); got != tc.want {
			t.Errorf("formatValue(%s, %d, %d) = %q, want %q", tc.t, tc.v, tc.den, got, tc.want)
		}
	}
}

func TestRange_MonotoneInGradeAndTier(t *testing.T) {
	for _, cat := range curriculum.AllCategories() {
		for _, grade := range curriculum.AllGrades() {
			for _, tier := range curriculum.AllTiers() {
				rg := Range(cat, grade, tier)
				if rg.Min < 1 || rg.Max <= rg.Min {
					t.Errorf("%s/%s/%s: bad range %+v", cat, grade, tier, rg)
				}
				if grade > curriculum.GradePreK {
					if prev := Range(cat, grade-1, tier); prev.Max > rg.Max {
						t.Errorf("%s: grade %s max %d < grade %s max %d", cat, grade, rg.Max, grade-1, prev.Max)
					}
				}
				if tier > curriculum.TierEasy {
					if prev := Range(cat, grade, tier-1); prev.Max > rg.Max {
						t.Errorf("%s: tier %s max %d < tier %s max %d", cat, tier, rg.Max, tier-1, prev.Max)
					}
				}
			}
		}
	}
}

func TestRange_UnknownCategoryUsesAddition(t *testing.T) {
	got := Range("astrology", curriculum.Grade3, curriculum.TierNormal)
	want := Range(curriculum.CategoryAddition, curriculum.Grade3, curriculum.TierNormal)
	if got != want {
		t.Errorf("Range(unknown) = %+v, want %+v", got, want)
	}
}
