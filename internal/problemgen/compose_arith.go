package problemgen

import (
	"fmt"
	"math/rand/v2"

	"github.com/abhisek/mathgenius/internal/curriculum"
)

func composeAddition(r *rand.Rand, rg OperandRange, _ curriculum.Grade, _ curriculum.Tier) problem {
	a := randIn(r, rg.Min, rg.Max)
	b := randIn(r, rg.Min, rg.Max)
	return problem{
		text:        fmt.Sprintf("What is %d + %d?", a, b),
		explanation: fmt.Sprintf("%d + %d = %d", a, b, a+b),
		work:        Work{Op: OpAdd, Operands: []int{a, b}, Result: a + b},
	}
}

// composeSubtraction keeps the minuend strictly larger than the subtrahend.
func composeSubtraction(r *rand.Rand, rg OperandRange, _ curriculum.Grade, _ curriculum.Tier) problem {
	b := randIn(r, rg.Min, rg.Max-1)
	a := randIn(r, b+1, rg.Max)
	return problem{
		text:        fmt.Sprintf("What is %d - %d?", a, b),
		explanation: fmt.Sprintf("%d - %d = %d. Check: %d + %d = %d.", a, b, a-b, a-b, b, a),
		work:        Work{Op: OpSubtract, Operands: []int{a, b}, Result: a - b},
	}
}

func composeMultiplication(r *rand.Rand, rg OperandRange, _ curriculum.Grade, _ curriculum.Tier) problem {
	a := randIn(r, rg.Min, rg.Max)
	b := randIn(r, rg.Min, rg.Max)
	return problem{
		text:        fmt.Sprintf("What is %d × %d?", a, b),
		explanation: fmt.Sprintf("%d × %d = %d", a, b, a*b),
		work:        Work{Op: OpMultiply, Operands: []int{a, b}, Result: a * b},
	}
}

// composeDivision builds the dividend from divisor and quotient, so the
// division is always exact.
func composeDivision(r *rand.Rand, rg OperandRange, _ curriculum.Grade, _ curriculum.Tier) problem {
	divisor := randIn(r, max(2, rg.Min), max(2, rg.Max))
	quotient := randIn(r, rg.Min, rg.Max)
	dividend := divisor * quotient
	return problem{
		text:        fmt.Sprintf("What is %d ÷ %d?", dividend, divisor),
		explanation: fmt.Sprintf("%d ÷ %d = %d, because %d × %d = %d.", dividend, divisor, quotient, divisor, quotient, dividend),
		work:        Work{Op: OpDivide, Operands: []int{dividend, divisor}, Result: quotient},
	}
}

// solveBinary recomputes two-operand arithmetic. Subtraction and division
// must stay positive and exact.
func solveBinary(w Work) (int, bool) {
	if len(w.Operands) != 2 {
		return 0, false
	}
	a, b := w.Operands[0], w.Operands[1]
	var res int
	switch w.Op {
	case OpAdd:
		res = a + b
	case OpSubtract:
		res = a - b
	case OpMultiply:
		res = a * b
	case OpDivide:
		if b == 0 || a%b != 0 {
			return 0, false
		}
		res = a / b
	default:
		return 0, false
	}
	return res, res > 0
}

var denominators = []int{2, 3, 4, 5, 6, 8, 10, 12}

// composeFractions adds two fractions. Easy and normal tiers share a
// denominator; harder tiers need a common denominator first. The answer
// key is the numerator over the common denominator.
func composeFractions(r *rand.Rand, rg OperandRange, _ curriculum.Grade, tier curriculum.Tier) problem {
	pool := denominators[:min(len(denominators), 3+2*int(tier))]
	d1 := pick(r, pool)
	d2 := d1
	if tier >= curriculum.TierAdvanced {
		for d2 == d1 {
			d2 = pick(r, pool)
		}
	}
	a := randIn(r, rg.Min, rg.Max)
	b := randIn(r, rg.Min, rg.Max)
	common := lcm(d1, d2)
	x, y := a*(common/d1), b*(common/d2)
	num := x + y

	var explanation string
	if d1 == d2 {
		explanation = fmt.Sprintf("The denominators match, so add the numerators: %d/%d + %d/%d = %d/%d = %s.",
			a, d1, b, d2, num, common, formatFraction(num, common))
	} else {
		explanation = fmt.Sprintf("Use the common denominator %d: %d/%d + %d/%d = %d/%d + %d/%d = %s.",
			common, a, d1, b, d2, x, common, y, common, formatFraction(num, common))
	}
	return problem{
		text:        fmt.Sprintf("What is %d/%d + %d/%d?", a, d1, b, d2),
		explanation: explanation,
		work:        Work{Op: OpAdd, Operands: []int{a, d1, b, d2}, Result: num, Denominator: common},
	}
}

func solveFractions(w Work) (int, bool) {
	if len(w.Operands) != 4 || w.Op != OpAdd || w.Denominator <= 0 {
		return 0, false
	}
	a, d1, b, d2 := w.Operands[0], w.Operands[1], w.Operands[2], w.Operands[3]
	if d1 <= 0 || d2 <= 0 || w.Denominator%d1 != 0 || w.Denominator%d2 != 0 {
		return 0, false
	}
	res := a*(w.Denominator/d1) + b*(w.Denominator/d2)
	return res, res > 0
}

// composeDecimals works in tenths. Advanced tiers may scale a decimal by a
// whole number instead of adding two decimals.
func composeDecimals(r *rand.Rand, rg OperandRange, _ curriculum.Grade, tier curriculum.Tier) problem {
	a := randIn(r, rg.Min, rg.Max)
	if tier >= curriculum.TierAdvanced && r.IntN(2) == 0 {
		k := randIn(r, 2, 9)
		res := a * k
		return problem{
			text:        fmt.Sprintf("What is %s × %d?", formatDecimal(a), k),
			explanation: fmt.Sprintf("%s × %d = %s", formatDecimal(a), k, formatDecimal(res)),
			work:        Work{Op: OpMultiply, Operands: []int{a, k * decimalScale}, Result: res},
		}
	}
	b := randIn(r, rg.Min, rg.Max)
	return problem{
		text:        fmt.Sprintf("What is %s + %s?", formatDecimal(a), formatDecimal(b)),
		explanation: fmt.Sprintf("Line up the decimal points: %s + %s = %s", formatDecimal(a), formatDecimal(b), formatDecimal(a+b)),
		work:        Work{Op: OpAdd, Operands: []int{a, b}, Result: a + b},
	}
}

func solveDecimals(w Work) (int, bool) {
	if len(w.Operands) != 2 {
		return 0, false
	}
	a, b := w.Operands[0], w.Operands[1]
	switch w.Op {
	case OpAdd:
		return a + b, a+b > 0
	case OpMultiply:
		if (a*b)%decimalScale != 0 {
			return 0, false
		}
		res := a * b / decimalScale
		return res, res > 0
	}
	return 0, false
}

var percentsByTier = [4][]int{
	{10, 50},
	{10, 20, 25, 50},
	{5, 10, 15, 20, 25, 40, 50, 75},
	{5, 12, 15, 30, 35, 45, 60, 75, 80, 90},
}

// composePercentages picks the base as a multiple of 100/gcd(p, 100) so the
// result is a whole number.
func composePercentages(r *rand.Rand, rg OperandRange, _ curriculum.Grade, tier curriculum.Tier) problem {
	p := pick(r, percentsByTier[tier.Clamp()])
	unit := 100 / int(gcd(int64(p), 100))
	base := randIn(r, rg.Min, rg.Max) * unit
	res := base * p / 100
	return problem{
		text:        fmt.Sprintf("What is %d%% of %d?", p, base),
		explanation: fmt.Sprintf("%d%% of %d = %d × %d ÷ 100 = %d", p, base, p, base, res),
		work:        Work{Op: OpPercentOf, Operands: []int{p, base}, Result: res},
	}
}

func solvePercentages(w Work) (int, bool) {
	if len(w.Operands) != 2 || w.Op != OpPercentOf {
		return 0, false
	}
	prod := w.Operands[0] * w.Operands[1]
	if prod%100 != 0 {
		return 0, false
	}
	return prod / 100, prod > 0
}
