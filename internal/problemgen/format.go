package problemgen

import (
	"fmt"
	"strconv"
)

// decimalScale is the fixed-point scale of decimal answer keys (tenths).
const decimalScale = 10

// formatValue renders an integer answer key in the form of its answer type.
// Distinct keys always render to distinct strings.
func formatValue(t AnswerType, v, denominator int) string {
	switch t {
	case AnswerTypeDecimal:
		return formatDecimal(v)
	case AnswerTypeFraction:
		return formatFraction(v, denominator)
	default:
		return strconv.Itoa(v)
	}
}

func formatDecimal(tenths int) string {
	return strconv.FormatFloat(float64(tenths)/decimalScale, 'f', -1, 64)
}

// formatFraction reduces num/den to lowest terms. Whole values render
// without a denominator.
func formatFraction(num, den int) string {
	if den <= 0 {
		return strconv.Itoa(num)
	}
	g := int(gcd(abs(int64(num)), int64(den)))
	if g > 1 {
		num /= g
		den /= g
	}
	if den == 1 {
		return strconv.Itoa(num)
	}
	return fmt.Sprintf("%d/%d", num, den)
}

// tokens returns the operands as they appear in the question text.
func (w Work) tokens(t AnswerType) []string {
	out := make([]string, 0, len(w.Operands))
	for _, op := range w.Operands {
		if t == AnswerTypeDecimal {
			out = append(out, formatDecimal(op))
			continue
		}
		out = append(out, strconv.Itoa(op))
	}
	return out
}

func lcm(a, b int) int {
	return a / int(gcd(int64(a), int64(b))) * b
}
