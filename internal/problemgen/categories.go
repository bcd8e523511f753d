package problemgen

import (
	"math/rand/v2"

	"github.com/abhisek/mathgenius/internal/curriculum"
)

// problem is the category-specific part of a question.
type problem struct {
	text        string
	explanation string
	hint        string // overrides the category hint when set
	work        Work
}

type composeFunc func(r *rand.Rand, rg OperandRange, grade curriculum.Grade, tier curriculum.Tier) problem

// solveFunc recomputes the answer key from the worked operands. It reports
// false when the operands cannot give an exact positive result.
type solveFunc func(w Work) (int, bool)

// categorySpec is one row of the strategy table.
type categorySpec struct {
	base       OperandRange
	cap        int
	compose    composeFunc
	solve      solveFunc
	hint       string
	objectives []string
	timeFactor float64
	answerType AnswerType
	arithmetic bool // prompt carries a bare expression MathCheckValidator can parse
}

// Range multipliers. Both are non-decreasing, so Range is monotone in grade
// and tier for every category.
var (
	gradeScale = [curriculum.NumGrades]int{1, 1, 2, 2, 3, 4, 5, 6, 8, 10, 12, 15, 18, 20}
	tierScale  = [4]int{1, 2, 3, 4}
)

var strategies = map[curriculum.Category]categorySpec{
	curriculum.CategoryAddition: {
		base:       OperandRange{Min: 1, Max: 10},
		cap:        100000,
		compose:    composeAddition,
		solve:      solveBinary,
		hint:       "Add the ones first, then the tens.",
		objectives: []string{"Add whole numbers", "Regroup when a column sums past nine"},
		timeFactor: 1.0,
		answerType: AnswerTypeInteger,
		arithmetic: true,
	},
	curriculum.CategorySubtraction: {
		base:       OperandRange{Min: 1, Max: 10},
		cap:        100000,
		compose:    composeSubtraction,
		solve:      solveBinary,
		hint:       "Start at the larger number and count back.",
		objectives: []string{"Subtract whole numbers", "Borrow across place values"},
		timeFactor: 1.0,
		answerType: AnswerTypeInteger,
		arithmetic: true,
	},
	curriculum.CategoryMultiplication: {
		base:       OperandRange{Min: 1, Max: 5},
		cap:        999,
		compose:    composeMultiplication,
		solve:      solveBinary,
		hint:       "Think of it as repeated addition.",
		objectives: []string{"Recall multiplication facts", "Multiply multi-digit numbers"},
		timeFactor: 1.1,
		answerType: AnswerTypeInteger,
		arithmetic: true,
	},
	curriculum.CategoryDivision: {
		base:       OperandRange{Min: 1, Max: 5},
		cap:        999,
		compose:    composeDivision,
		solve:      solveBinary,
		hint:       "Which number times the divisor gives the dividend?",
		objectives: []string{"Divide whole numbers exactly", "Relate division to multiplication"},
		timeFactor: 1.2,
		answerType: AnswerTypeInteger,
		arithmetic: true,
	},
	curriculum.CategoryFractions: {
		base:       OperandRange{Min: 1, Max: 3},
		cap:        24,
		compose:    composeFractions,
		solve:      solveFractions,
		hint:       "Rewrite both fractions over the same denominator, then add the numerators.",
		objectives: []string{"Add fractions", "Find a common denominator", "Simplify fractions"},
		timeFactor: 1.5,
		answerType: AnswerTypeFraction,
		arithmetic: true,
	},
	curriculum.CategoryDecimals: {
		base:       OperandRange{Min: 1, Max: 20},
		cap:        20000,
		compose:    composeDecimals,
		solve:      solveDecimals,
		hint:       "Line up the decimal points before you start.",
		objectives: []string{"Add decimals", "Multiply a decimal by a whole number"},
		timeFactor: 1.3,
		answerType: AnswerTypeDecimal,
		arithmetic: true,
	},
	curriculum.CategoryPercentages: {
		base:       OperandRange{Min: 1, Max: 4},
		cap:        60,
		compose:    composePercentages,
		solve:      solvePercentages,
		hint:       "Percent means per hundred. Find 1% or 10% first, then scale up.",
		objectives: []string{"Find a percentage of a quantity"},
		timeFactor: 1.3,
		answerType: AnswerTypeInteger,
	},
	curriculum.CategoryAlgebra: {
		base:       OperandRange{Min: 1, Max: 5},
		cap:        200,
		compose:    composeAlgebra,
		solve:      solveAlgebra,
		hint:       "Undo each operation on x, working backwards.",
		objectives: []string{"Solve one-step equations", "Solve two-step linear equations"},
		timeFactor: 1.5,
		answerType: AnswerTypeInteger,
	},
	curriculum.CategoryGeometry: {
		base:       OperandRange{Min: 2, Max: 5},
		cap:        80,
		compose:    composeGeometry,
		solve:      solveGeometry,
		hint:       "Area multiplies width by length. Perimeter adds up every side.",
		objectives: []string{"Compute area and perimeter", "Recognise polygons"},
		timeFactor: 1.3,
		answerType: AnswerTypeInteger,
	},
	curriculum.CategoryCalculus: {
		base:       OperandRange{Min: 1, Max: 3},
		cap:        12,
		compose:    composeCalculus,
		solve:      solveCalculus,
		hint:       "Power rule: bring the exponent down and lower it by one.",
		objectives: []string{"Apply the power rule", "Evaluate a derivative at a point"},
		timeFactor: 1.5,
		answerType: AnswerTypeInteger,
	},
	curriculum.CategoryWordProblems: {
		base:       OperandRange{Min: 1, Max: 8},
		cap:        500,
		compose:    composeWordProblem,
		solve:      solveBinary,
		hint:       "Find the numbers in the story and decide which operation connects them.",
		objectives: []string{"Translate a story into an equation", "Choose the right operation"},
		timeFactor: 1.6,
		answerType: AnswerTypeInteger,
	},
	curriculum.CategoryPatterns: {
		base:       OperandRange{Min: 1, Max: 5},
		cap:        200,
		compose:    composePatterns,
		solve:      solvePatterns,
		hint:       "Look at how each number changes from the one before.",
		objectives: []string{"Extend number sequences", "Identify the rule of a pattern"},
		timeFactor: 1.2,
		answerType: AnswerTypeInteger,
	},
	curriculum.CategoryMeasurement: {
		base:       OperandRange{Min: 1, Max: 5},
		cap:        100,
		compose:    composeMeasurement,
		solve:      solveMeasurement,
		hint:       "Multiply by how many small units fit in one large unit.",
		objectives: []string{"Convert between units"},
		timeFactor: 1.2,
		answerType: AnswerTypeInteger,
	},
	curriculum.CategoryDataAnalysis: {
		base:       OperandRange{Min: 2, Max: 10},
		cap:        500,
		compose:    composeDataAnalysis,
		solve:      solveMean,
		hint:       "Add all the numbers, then divide by how many there are.",
		objectives: []string{"Compute the mean of a data set"},
		timeFactor: 1.5,
		answerType: AnswerTypeInteger,
	},
}

func specFor(cat curriculum.Category) categorySpec {
	return strategies[cat.OrDefault()]
}

// Range returns the operand range for a category at the given grade and
// tier. Unknown categories use the default category, and out-of-range
// grades and tiers are clamped.
func Range(cat curriculum.Category, grade curriculum.Grade, tier curriculum.Tier) OperandRange {
	spec := specFor(cat)
	maxV := spec.base.Max * gradeScale[grade.Clamp()] * tierScale[tier.Clamp()]
	if spec.cap > 0 && maxV > spec.cap {
		maxV = spec.cap
	}
	if maxV <= spec.base.Min {
		maxV = spec.base.Min + 1
	}
	return OperandRange{Min: spec.base.Min, Max: maxV}
}
