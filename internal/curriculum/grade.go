package curriculum

import (
	"fmt"
	"strconv"
	"strings"
)

// Grade is a schooling stage from pre-kindergarten through grade 12.
// It selects numeric ranges and vocabulary only.
type Grade int

const (
	GradePreK Grade = iota
	GradeK
	Grade1
	Grade2
	Grade3
	Grade4
	Grade5
	Grade6
	Grade7
	Grade8
	Grade9
	Grade10
	Grade11
	Grade12
)

// NumGrades is the number of grade levels.
const NumGrades = int(Grade12) + 1

// AllGrades returns every grade in ascending order.
func AllGrades() []Grade {
	out := make([]Grade, 0, NumGrades)
	for g := GradePreK; g <= Grade12; g++ {
		out = append(out, g)
	}
	return out
}

// Valid reports whether g is within pre-K..12.
func (g Grade) Valid() bool {
	return g >= GradePreK && g <= Grade12
}

// Clamp forces g into the valid range.
func (g Grade) Clamp() Grade {
	switch {
	case g < GradePreK:
		return GradePreK
	case g > Grade12:
		return Grade12
	default:
		return g
	}
}

func (g Grade) String() string {
	switch g {
	case GradePreK:
		return "pre-k"
	case GradeK:
		return "k"
	default:
		if g.Valid() {
			return strconv.Itoa(int(g) - 1)
		}
		return "grade(" + strconv.Itoa(int(g)) + ")"
	}
}

// DisplayName returns e.g. "Pre-K", "Kindergarten", "Grade 3".
func (g Grade) DisplayName() string {
	switch g {
	case GradePreK:
		return "Pre-K"
	case GradeK:
		return "Kindergarten"
	default:
		return "Grade " + g.String()
	}
}

// GradeFromNumber maps a school year (0 = kindergarten, 1..12) to a Grade.
func GradeFromNumber(n int) Grade {
	return Grade(n + 1).Clamp()
}

// ParseGrade accepts "pre-k", "prek", "k", "kindergarten", "3", "grade3" and
// "grade 3".
func ParseGrade(s string) (Grade, bool) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.ReplaceAll(norm, " ", "")
	switch norm {
	case "pre-k", "prek", "pk", "preschool":
		return GradePreK, true
	case "k", "kindergarten", "grade0", "0":
		return GradeK, true
	}
	norm = strings.TrimPrefix(norm, "grade")
	n, err := strconv.Atoi(norm)
	if err != nil || n < 1 || n > 12 {
		return GradePreK, false
	}
	return Grade(n + 1), true
}

// MarshalText encodes the grade as "pre-k", "k" or the school year.
func (g Grade) MarshalText() ([]byte, error) {
	if !g.Valid() {
		return nil, fmt.Errorf("invalid grade %d", int(g))
	}
	return []byte(g.String()), nil
}

// UnmarshalText decodes any form accepted by ParseGrade.
func (g *Grade) UnmarshalText(b []byte) error {
	v, ok := ParseGrade(string(b))
	if !ok {
		return fmt.Errorf("unknown grade %q", string(b))
	}
	*g = v
	return nil
}
