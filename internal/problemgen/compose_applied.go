package problemgen

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/abhisek/mathgenius/internal/curriculum"
)

// composeAlgebra solves for a positive x. Easy tier uses x + b = c, harder
// tiers a two-step equation ax + b = c or ax - b = c.
func composeAlgebra(r *rand.Rand, rg OperandRange, _ curriculum.Grade, tier curriculum.Tier) problem {
	x := randIn(r, rg.Min, rg.Max)
	if tier == curriculum.TierEasy {
		b := randIn(r, 1, rg.Max)
		c := x + b
		return problem{
			text:        fmt.Sprintf("Solve for x: x + %d = %d", b, c),
			explanation: fmt.Sprintf("Subtract %d from both sides: x = %d - %d = %d.", b, c, b, x),
			work:        Work{Op: OpAdd, Operands: []int{b, c}, Result: x},
		}
	}
	a := randIn(r, 2, 2+3*int(tier))
	if tier == curriculum.TierExpert && r.IntN(2) == 0 {
		b := randIn(r, 1, a*x-1)
		c := a*x - b
		return problem{
			text:        fmt.Sprintf("Solve for x: %dx - %d = %d", a, b, c),
			explanation: fmt.Sprintf("Add %d to both sides to get %dx = %d, then divide by %d: x = %d.", b, a, c+b, a, x),
			work:        Work{Op: OpSubtract, Operands: []int{a, b, c}, Result: x},
		}
	}
	b := randIn(r, 1, rg.Max)
	c := a*x + b
	return problem{
		text:        fmt.Sprintf("Solve for x: %dx + %d = %d", a, b, c),
		explanation: fmt.Sprintf("Subtract %d from both sides to get %dx = %d, then divide by %d: x = %d.", b, a, c-b, a, x),
		work:        Work{Op: OpAdd, Operands: []int{a, b, c}, Result: x},
	}
}

func solveAlgebra(w Work) (int, bool) {
	var a, b, c int
	switch len(w.Operands) {
	case 2:
		a, b, c = 1, w.Operands[0], w.Operands[1]
	case 3:
		a, b, c = w.Operands[0], w.Operands[1], w.Operands[2]
	default:
		return 0, false
	}
	var rhs int
	switch w.Op {
	case OpAdd:
		rhs = c - b
	case OpSubtract:
		rhs = c + b
	default:
		return 0, false
	}
	if a <= 0 || rhs%a != 0 {
		return 0, false
	}
	return rhs / a, rhs/a > 0
}

var polygons = []struct {
	name  string
	sides int
}{
	{"triangle", 3},
	{"square", 4},
	{"pentagon", 5},
	{"hexagon", 6},
	{"octagon", 8},
}

// composeGeometry counts polygon sides for the youngest grades and asks for
// area or perimeter otherwise.
func composeGeometry(r *rand.Rand, rg OperandRange, grade curriculum.Grade, tier curriculum.Tier) problem {
	if grade <= curriculum.GradeK {
		p := pick(r, polygons)
		return problem{
			text:        fmt.Sprintf("How many sides does a %s have?", p.name),
			explanation: fmt.Sprintf("A %s has %d sides.", p.name, p.sides),
			hint:        "Trace the shape with your finger and count each straight side.",
			work:        Work{Op: OpSides, Result: p.sides},
		}
	}

	kinds := []string{OpArea, OpPerimeter}
	if tier >= curriculum.TierAdvanced {
		kinds = append(kinds, OpTriangleArea)
	}
	w := randIn(r, rg.Min, rg.Max)
	h := randIn(r, rg.Min, rg.Max)

	switch pick(r, kinds) {
	case OpPerimeter:
		res := 2 * (w + h)
		return problem{
			text:        fmt.Sprintf("A rectangle is %d units wide and %d units long. What is its perimeter in units?", w, h),
			explanation: fmt.Sprintf("Perimeter = 2 × (%d + %d) = %d units.", w, h, res),
			work:        Work{Op: OpPerimeter, Operands: []int{w, h}, Result: res},
		}
	case OpTriangleArea:
		base := 2 * randIn(r, 1, max(1, rg.Max/2))
		res := base * h / 2
		return problem{
			text:        fmt.Sprintf("A triangle has a base of %d units and a height of %d units. What is its area in square units?", base, h),
			explanation: fmt.Sprintf("Area = %d × %d ÷ 2 = %d square units.", base, h, res),
			hint:        "A triangle covers half of the rectangle around it.",
			work:        Work{Op: OpTriangleArea, Operands: []int{base, h}, Result: res},
		}
	default:
		res := w * h
		return problem{
			text:        fmt.Sprintf("A rectangle is %d units wide and %d units long. What is its area in square units?", w, h),
			explanation: fmt.Sprintf("Area = %d × %d = %d square units.", w, h, res),
			work:        Work{Op: OpArea, Operands: []int{w, h}, Result: res},
		}
	}
}

func solveGeometry(w Work) (int, bool) {
	switch w.Op {
	case OpSides:
		return w.Result, len(w.Operands) == 0 && w.Result >= 3
	case OpArea, OpPerimeter, OpTriangleArea:
		if len(w.Operands) != 2 {
			return 0, false
		}
	default:
		return 0, false
	}
	a, b := w.Operands[0], w.Operands[1]
	var res int
	switch w.Op {
	case OpArea:
		res = a * b
	case OpPerimeter:
		res = 2 * (a + b)
	case OpTriangleArea:
		if (a*b)%2 != 0 {
			return 0, false
		}
		res = a * b / 2
	}
	return res, res > 0
}

// composeCalculus asks for the derivative of a·x^n at a point.
func composeCalculus(r *rand.Rand, rg OperandRange, _ curriculum.Grade, tier curriculum.Tier) problem {
	a := randIn(r, 2, max(2, min(rg.Max, 9)))
	n := randIn(r, 2, 2+int(tier))
	p := randIn(r, 1, max(1, min(rg.Max, 5)))
	res := a * n * ipow(p, n-1)

	deriv := fmt.Sprintf("%dx^%d", a*n, n-1)
	if n-1 == 1 {
		deriv = fmt.Sprintf("%dx", a*n)
	}
	return problem{
		text:        fmt.Sprintf("If f(x) = %dx^%d, what is f'(%d)?", a, n, p),
		explanation: fmt.Sprintf("By the power rule f'(x) = %s, so f'(%d) = %d × %d^%d = %d.", deriv, p, a*n, p, n-1, res),
		work:        Work{Op: OpDerivative, Operands: []int{a, n, p}, Result: res},
	}
}

func solveCalculus(w Work) (int, bool) {
	if len(w.Operands) != 3 || w.Op != OpDerivative {
		return 0, false
	}
	a, n, p := w.Operands[0], w.Operands[1], w.Operands[2]
	if n < 1 {
		return 0, false
	}
	res := a * n * ipow(p, n-1)
	return res, res > 0
}

func ipow(b, e int) int {
	out := 1
	for range e {
		out *= b
	}
	return out
}

var (
	storyNames  = []string{"Maya", "Leo", "Aisha", "Ben", "Sofia", "Kenji", "Priya", "Omar"}
	youngItems  = []string{"apples", "stickers", "crayons", "marbles", "shells"}
	olderItems  = []string{"books", "coins", "tickets", "stamps", "cards"}
	storyHolder = []string{"bags", "boxes", "baskets", "jars"}
)

// composeWordProblem wraps one operation in a short story. Harder tiers add
// grouping and sharing stories.
func composeWordProblem(r *rand.Rand, rg OperandRange, grade curriculum.Grade, tier curriculum.Tier) problem {
	name := pick(r, storyNames)
	items := youngItems
	if grade >= curriculum.Grade3 {
		items = olderItems
	}
	item := pick(r, items)

	ops := []string{OpAdd, OpSubtract}
	if tier >= curriculum.TierNormal {
		ops = append(ops, OpMultiply)
	}
	if tier >= curriculum.TierAdvanced {
		ops = append(ops, OpDivide)
	}
	small := max(2, rg.Max/2)

	switch pick(r, ops) {
	case OpSubtract:
		b := randIn(r, rg.Min, rg.Max-1)
		a := randIn(r, b+1, rg.Max)
		return problem{
			text:        fmt.Sprintf("%s has %d %s and gives away %d. How many %s are left?", name, a, item, b, item),
			explanation: fmt.Sprintf("Giving away means subtracting: %d - %d = %d.", a, b, a-b),
			work:        Work{Op: OpSubtract, Operands: []int{a, b}, Result: a - b},
		}
	case OpMultiply:
		groups := randIn(r, 2, small)
		each := randIn(r, 2, small)
		holder := pick(r, storyHolder)
		return problem{
			text:        fmt.Sprintf("%s has %d %s with %d %s in each. How many %s are there in total?", name, groups, holder, each, item, item),
			explanation: fmt.Sprintf("Equal groups means multiplying: %d × %d = %d.", groups, each, groups*each),
			work:        Work{Op: OpMultiply, Operands: []int{groups, each}, Result: groups * each},
		}
	case OpDivide:
		friends := randIn(r, 2, min(small, 12))
		each := randIn(r, 1, small)
		total := friends * each
		return problem{
			text:        fmt.Sprintf("%s shares %d %s equally among %d friends. How many %s does each friend get?", name, total, item, friends, item),
			explanation: fmt.Sprintf("Sharing equally means dividing: %d ÷ %d = %d.", total, friends, each),
			work:        Work{Op: OpDivide, Operands: []int{total, friends}, Result: each},
		}
	default:
		a := randIn(r, rg.Min, rg.Max)
		b := randIn(r, rg.Min, rg.Max)
		return problem{
			text:        fmt.Sprintf("%s has %d %s. Then %s finds %d more. How many %s does %s have now?", name, a, item, name, b, item, name),
			explanation: fmt.Sprintf("Finding more means adding: %d + %d = %d.", a, b, a+b),
			work:        Work{Op: OpAdd, Operands: []int{a, b}, Result: a + b},
		}
	}
}

// composePatterns extends an arithmetic sequence, or a geometric one on
// the expert tier.
func composePatterns(r *rand.Rand, rg OperandRange, _ curriculum.Grade, tier curriculum.Tier) problem {
	if tier == curriculum.TierExpert && r.IntN(2) == 0 {
		start := randIn(r, 1, 5)
		ratio := randIn(r, 2, 3)
		terms := []int{start, start * ratio, start * ratio * ratio, start * ratio * ratio * ratio}
		next := terms[3] * ratio
		return problem{
			text:        fmt.Sprintf("What number comes next in the pattern: %s, ...?", joinInts(terms)),
			explanation: fmt.Sprintf("Each number is %d times the one before, so the next is %d × %d = %d.", ratio, terms[3], ratio, next),
			work:        Work{Op: OpGeometric, Operands: terms, Result: next},
		}
	}
	start := randIn(r, rg.Min, rg.Max)
	step := randIn(r, 1, max(1, rg.Max/2))
	terms := []int{start, start + step, start + 2*step, start + 3*step}
	next := terms[3] + step
	return problem{
		text:        fmt.Sprintf("What number comes next in the pattern: %s, ...?", joinInts(terms)),
		explanation: fmt.Sprintf("Each number is %d more than the one before, so the next is %d + %d = %d.", step, terms[3], step, next),
		work:        Work{Op: OpArithmetic, Operands: terms, Result: next},
	}
}

func solvePatterns(w Work) (int, bool) {
	if len(w.Operands) < 2 {
		return 0, false
	}
	last := w.Operands[len(w.Operands)-1]
	switch w.Op {
	case OpArithmetic:
		res := last + (w.Operands[1] - w.Operands[0])
		return res, res > 0
	case OpGeometric:
		if w.Operands[0] == 0 || w.Operands[1]%w.Operands[0] != 0 {
			return 0, false
		}
		res := last * (w.Operands[1] / w.Operands[0])
		return res, res > 0
	}
	return 0, false
}

type conversion struct {
	big, bigPlural, small string
	factor                int
}

var conversions = []conversion{
	{"week", "weeks", "days", 7},
	{"yard", "yards", "feet", 3},
	{"foot", "feet", "inches", 12},
	{"dozen", "dozens", "eggs", 12},
	{"hour", "hours", "minutes", 60},
	{"minute", "minutes", "seconds", 60},
	{"meter", "meters", "centimeters", 100},
	{"dollar", "dollars", "cents", 100},
	{"kilogram", "kilograms", "grams", 1000},
	{"liter", "liters", "milliliters", 1000},
}

// composeMeasurement converts a whole number of large units into small
// units. The easy tier sticks to factors of twelve or less.
func composeMeasurement(r *rand.Rand, rg OperandRange, _ curriculum.Grade, tier curriculum.Tier) problem {
	pool := conversions
	if tier == curriculum.TierEasy {
		pool = conversions[:4]
	}
	c := pick(r, pool)
	n := randIn(r, rg.Min, rg.Max)
	unit := c.bigPlural
	if n == 1 {
		unit = c.big
	}
	res := n * c.factor
	return problem{
		text:        fmt.Sprintf("One %s is %d %s. How many %s are in %d %s?", c.big, c.factor, c.small, c.small, n, unit),
		explanation: fmt.Sprintf("%d × %d = %d %s.", n, c.factor, res, c.small),
		work:        Work{Op: OpConvert, Operands: []int{c.factor, n}, Result: res},
	}
}

func solveMeasurement(w Work) (int, bool) {
	if len(w.Operands) != 2 || w.Op != OpConvert {
		return 0, false
	}
	res := w.Operands[0] * w.Operands[1]
	return res, res > 0
}

// composeDataAnalysis builds a data set around a whole-number mean by
// pairing values symmetrically around it.
func composeDataAnalysis(r *rand.Rand, rg OperandRange, _ curriculum.Grade, tier curriculum.Tier) problem {
	k := 3 + int(tier)
	mean := randIn(r, max(2, rg.Min), rg.Max)
	values := make([]int, 0, k)
	for len(values)+1 < k {
		d := randIn(r, 0, mean-1)
		values = append(values, mean+d, mean-d)
	}
	if len(values) < k {
		values = append(values, mean)
	}
	r.Shuffle(len(values), func(i, j int) { values[i], values[j] = values[j], values[i] })

	sum := mean * k
	return problem{
		text:        fmt.Sprintf("What is the mean (average) of these numbers: %s?", joinInts(values)),
		explanation: fmt.Sprintf("The numbers add up to %d. There are %d of them, so the mean is %d ÷ %d = %d.", sum, k, sum, k, mean),
		work:        Work{Op: OpMean, Operands: values, Result: mean},
	}
}

func solveMean(w Work) (int, bool) {
	if len(w.Operands) == 0 || w.Op != OpMean {
		return 0, false
	}
	sum := 0
	for _, v := range w.Operands {
		sum += v
	}
	if sum%len(w.Operands) != 0 {
		return 0, false
	}
	res := sum / len(w.Operands)
	return res, res > 0
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.Itoa(x)
	}
	return strings.Join(parts, ", ")
}
