package problemgen

import (
	"fmt"
	"strconv"
	"strings"
)

// CheckChoice reports whether the learner picked the correct option.
func CheckChoice(q *Question, chosenIndex int) bool {
	return q != nil && chosenIndex >= 0 && chosenIndex < len(q.Options) && chosenIndex == q.CorrectIndex
}

// ChoiceIndex resolves input to an option position, either by its 1-based
// index or by matching the option text. Index matching wins.
func ChoiceIndex(input string, question *Question) (int, bool) {
	input = strings.TrimSpace(input)
	if idx, err := strconv.Atoi(input); err == nil && idx >= 1 && idx <= len(question.Options) {
		return idx - 1, true
	}
	for i, opt := range question.Options {
		if strings.EqualFold(strings.TrimSpace(opt), input) {
			return i, true
		}
	}
	return -1, false
}

// OptionIndex resolves a typed value to the option it equals. Exact text
// wins; otherwise values are compared in normalized form so "2/4" finds
// "1/2". Unlike ChoiceIndex it never reads the input as a position.
func OptionIndex(input string, question *Question) (int, bool) {
	input = strings.TrimSpace(input)
	if input == "" || question == nil {
		return -1, false
	}
	for i, opt := range question.Options {
		if strings.EqualFold(strings.TrimSpace(opt), input) {
			return i, true
		}
	}
	want, err := normalizeAnswer(input, question.AnswerType)
	if err != nil {
		return -1, false
	}
	for i, opt := range question.Options {
		if got, err := normalizeAnswer(opt, question.AnswerType); err == nil && got == want {
			return i, true
		}
	}
	return -1, false
}

// normalizeAnswer normalizes an answer string for comparison.
func normalizeAnswer(answer string, answerType AnswerType) (string, error) {
	answer = strings.TrimSpace(answer)

	switch answerType {
	case AnswerTypeInteger:
		n, err := strconv.ParseInt(answer, 10, 64)
		if err != nil {
			return "", fmt.Errorf("invalid integer: %w", err)
		}
		return strconv.FormatInt(n, 10), nil

	case AnswerTypeDecimal:
		f, err := strconv.ParseFloat(answer, 64)
		if err != nil {
			return "", fmt.Errorf("invalid decimal: %w", err)
		}
		return strconv.FormatFloat(f, 'f', -1, 64), nil

	case AnswerTypeFraction:
		num, den, err := parseFraction(answer)
		if err != nil {
			return "", err
		}
		if den == 0 {
			return "", fmt.Errorf("zero denominator")
		}
		// Normalize sign: negative sign on numerator only.
		if den < 0 {
			num = -num
			den = -den
		}
		g := gcd(abs(num), den)
		if g > 1 {
			num /= g
			den /= g
		}
		return fmt.Sprintf("%d/%d", num, den), nil

	default:
		return answer, nil
	}
}

// parseFraction parses "a/b" into numerator and denominator. A bare
// integer is read as a/1.
func parseFraction(s string) (int64, int64, error) {
	parts := strings.SplitN(s, "/", 2)
	num, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid numerator: %w", err)
	}
	if len(parts) == 1 {
		return num, 1, nil
	}
	den, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid denominator: %w", err)
	}
	return num, den, nil
}

// gcd returns the greatest common divisor of a and b.
// Both a and b must be non-negative.
func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

// abs returns the absolute value of n.
func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
