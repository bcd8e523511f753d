package problemgen

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var fractionPattern = regexp.MustCompile(`^\d+(/\d+)?$`)

// OptionsValidator checks that the options are distinct, that exactly one
// of them is the answer, that CorrectIndex points to it and that every
// option is a positive value of the declared answer type.
type OptionsValidator struct{}

func (v *OptionsValidator) Name() string { return "options" }

func (v *OptionsValidator) Validate(q *Question) *ValidationError {
	fail := func(msg string) *ValidationError {
		return &ValidationError{Validator: v.Name(), Message: msg, Retryable: true}
	}

	if err := validatePositive(q.Answer, q.AnswerType); err != nil {
		return fail(fmt.Sprintf("invalid %s answer %q: %s", q.AnswerType, q.Answer, err))
	}

	seen := make(map[string]bool, len(q.Options))
	matches := 0
	for i, opt := range q.Options {
		opt = strings.TrimSpace(opt)
		if opt == "" {
			return fail(fmt.Sprintf("option %d is empty", i+1))
		}
		if err := validatePositive(opt, q.AnswerType); err != nil {
			return fail(fmt.Sprintf("option %d %q: %s", i+1, opt, err))
		}
		norm, _ := normalizeAnswer(opt, q.AnswerType)
		if seen[norm] {
			return fail(fmt.Sprintf("duplicate option %q", opt))
		}
		seen[norm] = true
		if answersEqual(opt, q.Answer, q.AnswerType) {
			matches++
		}
	}
	if matches != 1 {
		return fail(fmt.Sprintf("answer %q matches %d options, want exactly 1", q.Answer, matches))
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return fail(fmt.Sprintf("correct index %d out of range", q.CorrectIndex))
	}
	if !answersEqual(q.Options[q.CorrectIndex], q.Answer, q.AnswerType) {
		return fail(fmt.Sprintf("correct index %d points to %q, not %q", q.CorrectIndex, q.Options[q.CorrectIndex], q.Answer))
	}
	return nil
}

// validatePositive checks that s is a normalized, positive value of the
// given answer type.
func validatePositive(s string, t AnswerType) error {
	switch t {
	case AnswerTypeInteger:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fmt.Errorf("not a valid integer")
		}
		if strconv.FormatInt(n, 10) != s {
			return fmt.Errorf("has leading zeros")
		}
		if n <= 0 {
			return fmt.Errorf("not positive")
		}
	case AnswerTypeDecimal:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("not a valid decimal")
		}
		if normalized := strconv.FormatFloat(f, 'f', -1, 64); normalized != s {
			return fmt.Errorf("has trailing zeros or is not normalized (expected %q)", normalized)
		}
		if f <= 0 {
			return fmt.Errorf("not positive")
		}
	case AnswerTypeFraction:
		if !fractionPattern.MatchString(s) {
			return fmt.Errorf("does not match fraction pattern a/b")
		}
		num, den, err := parseFraction(s)
		if err != nil {
			return err
		}
		if den <= 0 {
			return fmt.Errorf("denominator must be positive")
		}
		if gcd(abs(num), den) != 1 {
			return fmt.Errorf("fraction is not in lowest terms")
		}
		if num <= 0 {
			return fmt.Errorf("not positive")
		}
	default:
		return fmt.Errorf("unknown answer type %q", t)
	}
	return nil
}
