package problemgen

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// MathCheckValidator independently recomputes the answer. The worked
// operands must reproduce the answer key, and for arithmetic categories the
// expression in the prompt text must as well. Prompts with no recognisable
// expression pass the text check silently.
type MathCheckValidator struct{}

func (v *MathCheckValidator) Name() string { return "math-check" }

func (v *MathCheckValidator) Validate(q *Question) *ValidationError {
	fail := func(msg string) *ValidationError {
		return &ValidationError{Validator: v.Name(), Message: msg, Retryable: true}
	}

	keyed := formatValue(q.AnswerType, q.Work.Result, q.Work.Denominator)
	if !answersEqual(keyed, q.Answer, q.AnswerType) {
		return fail(fmt.Sprintf("answer %q does not match worked result %q", q.Answer, keyed))
	}

	spec, ok := strategies[q.Category]
	if !ok {
		return nil
	}
	if spec.solve != nil {
		got, ok := spec.solve(q.Work)
		if !ok {
			return fail(fmt.Sprintf("operands %v do not give an exact %s result", q.Work.Operands, q.Category))
		}
		if got != q.Work.Result {
			return fail(fmt.Sprintf("recomputed %d but result is %d", got, q.Work.Result))
		}
	}
	if !spec.arithmetic {
		return nil
	}
	computed, err := computeAnswer(q.Text, q.AnswerType)
	if err != nil {
		return nil
	}
	if !answersEqual(computed, q.Answer, q.AnswerType) {
		return fail(fmt.Sprintf("computed %q from prompt but answer is %q", computed, q.Answer))
	}
	return nil
}

// Regex patterns for extracting arithmetic expressions from question text.
var (
	// Fraction arithmetic: "a/b + c/d", "a/b - c/d", "a/b * c/d", "a/b ÷ c/d"
	fractionArithRe = regexp.MustCompile(`(-?\d+)\s*/\s*(\d+)\s*([+\-*×÷])\s*(-?\d+)\s*/\s*(\d+)`)

	// Integer/decimal arithmetic with +, -, *, ×
	intArithRe = regexp.MustCompile(`(?:^|[^\d/.])(-?\d+(?:\.\d+)?)\s*([+\-*×])\s*(-?\d+(?:\.\d+)?)(?:[^\d/]|$)`)

	// Division requires spaces around the operator to distinguish from fractions (3/4 vs 144 / 12).
	intDivRe = regexp.MustCompile(`(-?\d+(?:\.\d+)?)\s+[/÷]\s+(-?\d+(?:\.\d+)?)`)
)

// computeAnswer attempts to extract and compute the answer from question text.
// Returns the computed answer as a string, or an error if not computable.
func computeAnswer(text string, answerType AnswerType) (string, error) {
	if answerType == AnswerTypeFraction || answerType == AnswerTypeInteger {
		if result, err := tryFractionArith(text); err == nil {
			return result, nil
		}
	}

	if answerType == AnswerTypeInteger || answerType == AnswerTypeDecimal {
		if result, err := tryIntArith(text, answerType); err == nil {
			return result, nil
		}
	}

	return "", fmt.Errorf("not computable")
}

// tryFractionArith tries to extract and compute fraction arithmetic.
func tryFractionArith(text string) (string, error) {
	matches := fractionArithRe.FindStringSubmatch(text)
	if matches == nil {
		return "", fmt.Errorf("no fraction expression found")
	}

	aN, _ := strconv.ParseInt(matches[1], 10, 64)
	aD, _ := strconv.ParseInt(matches[2], 10, 64)
	op := normalizeOp(matches[3])
	bN, _ := strconv.ParseInt(matches[4], 10, 64)
	bD, _ := strconv.ParseInt(matches[5], 10, 64)

	if aD == 0 || bD == 0 {
		return "", fmt.Errorf("zero denominator")
	}

	var rN, rD int64
	switch op {
	case "+":
		rN = aN*bD + bN*aD
		rD = aD * bD
	case "-":
		rN = aN*bD - bN*aD
		rD = aD * bD
	case "*":
		rN = aN * bN
		rD = aD * bD
	case "/":
		if bN == 0 {
			return "", fmt.Errorf("division by zero")
		}
		rN = aN * bD
		rD = aD * bN
	default:
		return "", fmt.Errorf("unsupported operator: %s", op)
	}

	if rD < 0 {
		rN = -rN
		rD = -rD
	}
	g := gcd(abs(rN), rD)
	rN /= g
	rD /= g

	if rD == 1 {
		return strconv.FormatInt(rN, 10), nil
	}
	return fmt.Sprintf("%d/%d", rN, rD), nil
}

// tryIntArith tries to extract and compute integer/decimal arithmetic.
func tryIntArith(text string, answerType AnswerType) (string, error) {
	if matches := intArithRe.FindStringSubmatch(text); matches != nil {
		return computeIntOp(matches[1], normalizeOp(matches[2]), matches[3], answerType)
	}
	if divMatches := intDivRe.FindStringSubmatch(text); divMatches != nil {
		return computeIntOp(divMatches[1], "/", divMatches[2], answerType)
	}
	return "", fmt.Errorf("no arithmetic expression found")
}

// computeIntOp evaluates a binary arithmetic operation on two number strings.
func computeIntOp(aStr, op, bStr string, answerType AnswerType) (string, error) {
	a, err := strconv.ParseFloat(aStr, 64)
	if err != nil {
		return "", err
	}
	b, err := strconv.ParseFloat(bStr, 64)
	if err != nil {
		return "", err
	}

	var result float64
	switch op {
	case "+":
		result = a + b
	case "-":
		result = a - b
	case "*":
		result = a * b
	case "/":
		if b == 0 {
			return "", fmt.Errorf("division by zero")
		}
		if answerType == AnswerTypeInteger && math.Mod(a, b) != 0 {
			return "", fmt.Errorf("%s / %s leaves a remainder", aStr, bStr)
		}
		result = a / b
	default:
		return "", fmt.Errorf("unsupported operator: %s", op)
	}

	if answerType == AnswerTypeInteger {
		return strconv.FormatInt(int64(result), 10), nil
	}
	// Round away binary noise such as 1.1 + 2.2 = 3.3000000000000003.
	result = math.Round(result*1e6) / 1e6
	return strconv.FormatFloat(result, 'f', -1, 64), nil
}

// normalizeOp normalizes multiplication and division symbols.
func normalizeOp(op string) string {
	switch op {
	case "×":
		return "*"
	case "÷":
		return "/"
	default:
		return op
	}
}

// answersEqual compares two answer strings for equality, with normalization.
func answersEqual(a, b string, answerType AnswerType) bool {
	na, err := normalizeAnswer(a, answerType)
	if err != nil {
		return strings.TrimSpace(a) == strings.TrimSpace(b)
	}
	nb, err := normalizeAnswer(b, answerType)
	if err != nil {
		return strings.TrimSpace(a) == strings.TrimSpace(b)
	}
	return na == nb
}
