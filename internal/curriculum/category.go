package curriculum

import "strings"

// Category represents a math content category.
type Category string

const (
	CategoryAddition       Category = "addition"
	CategorySubtraction    Category = "subtraction"
	CategoryMultiplication Category = "multiplication"
	CategoryDivision       Category = "division"
	CategoryFractions      Category = "fractions"
	CategoryDecimals       Category = "decimals"
	CategoryPercentages    Category = "percentages"
	CategoryAlgebra        Category = "algebra"
	CategoryGeometry       Category = "geometry"
	CategoryCalculus       Category = "calculus"
	CategoryWordProblems   Category = "word-problems"
	CategoryPatterns       Category = "patterns"
	CategoryMeasurement    Category = "measurement"
	CategoryDataAnalysis   Category = "data-analysis"
)

// DefaultCategory is used wherever an unknown category is requested.
const DefaultCategory = CategoryAddition

var allCategories = []Category{
	CategoryAddition,
	CategorySubtraction,
	CategoryMultiplication,
	CategoryDivision,
	CategoryFractions,
	CategoryDecimals,
	CategoryPercentages,
	CategoryAlgebra,
	CategoryGeometry,
	CategoryCalculus,
	CategoryWordProblems,
	CategoryPatterns,
	CategoryMeasurement,
	CategoryDataAnalysis,
}

var categoryIndex = func() map[Category]int {
	m := make(map[Category]int, len(allCategories))
	for i, c := range allCategories {
		m[c] = i
	}
	return m
}()

// AllCategories returns all categories in enumeration order. The order is
// also the tie-break order wherever categories are ranked.
func AllCategories() []Category {
	out := make([]Category, len(allCategories))
	copy(out, allCategories)
	return out
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	_, ok := categoryIndex[c]
	return ok
}

// Index returns the enumeration position of c, or len(AllCategories()) for
// unknown categories so they sort last.
func (c Category) Index() int {
	if i, ok := categoryIndex[c]; ok {
		return i
	}
	return len(allCategories)
}

// OrDefault returns c, or DefaultCategory when c is not recognised.
func (c Category) OrDefault() Category {
	if c.Valid() {
		return c
	}
	return DefaultCategory
}

// DisplayName returns a human-readable name for a category.
func (c Category) DisplayName() string {
	switch c {
	case CategoryAddition:
		return "Addition"
	case CategorySubtraction:
		return "Subtraction"
	case CategoryMultiplication:
		return "Multiplication"
	case CategoryDivision:
		return "Division"
	case CategoryFractions:
		return "Fractions"
	case CategoryDecimals:
		return "Decimals"
	case CategoryPercentages:
		return "Percentages"
	case CategoryAlgebra:
		return "Algebra"
	case CategoryGeometry:
		return "Geometry"
	case CategoryCalculus:
		return "Calculus"
	case CategoryWordProblems:
		return "Word Problems"
	case CategoryPatterns:
		return "Patterns"
	case CategoryMeasurement:
		return "Measurement"
	case CategoryDataAnalysis:
		return "Data Analysis"
	default:
		return string(c)
	}
}

// ParseCategory resolves a category name. Underscores, spaces and case are
// ignored, so "Word Problems" and "word_problems" both resolve.
func ParseCategory(s string) (Category, bool) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("_", "-", " ", "-").Replace(norm)
	switch norm {
	case "add":
		norm = string(CategoryAddition)
	case "sub":
		norm = string(CategorySubtraction)
	case "mul", "times":
		norm = string(CategoryMultiplication)
	case "div":
		norm = string(CategoryDivision)
	case "word", "words":
		norm = string(CategoryWordProblems)
	case "data":
		norm = string(CategoryDataAnalysis)
	}
	c := Category(norm)
	return c, c.Valid()
}
