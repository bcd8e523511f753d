package problemgen

import (
	"math"
	"math/rand/v2"
	"strconv"
)

const (
	// MaxDistractorAttempts bounds the randomized search before falling back
	// to sequential offsets.
	MaxDistractorAttempts = 64

	// DistractorOffset is the largest signed offset the offset strategy uses.
	DistractorOffset = 10

	// MaxCorrectValue is the largest correct value accepted from users
	// asking for distractors.
	MaxCorrectValue = 1_000_000_000
)

type distractorStrategy func(correct int, r *rand.Rand) int

var distractorStrategies = []distractorStrategy{
	offsetDistractor,
	scaleDistractor,
	digitShuffleDistractor,
	jitterDistractor,
}

// GenerateDistractors returns count distinct positive integers, none equal
// to correct. Each attempt picks a strategy at random; candidates that are
// non-positive, equal to correct, or already chosen are rejected. After
// MaxDistractorAttempts the remainder is filled with correct+1, correct+2,
// and so on, so the call always terminates.
func GenerateDistractors(correct, count int, r *rand.Rand) []int {
	if count <= 0 {
		return []int{}
	}
	if r == nil {
		r = randomRand()
	}

	out := make([]int, 0, count)
	seen := map[int]bool{correct: true}
	accept := func(v int) {
		if v > 0 && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}

	for attempt := 0; attempt < MaxDistractorAttempts && len(out) < count; attempt++ {
		strategy := distractorStrategies[r.IntN(len(distractorStrategies))]
		accept(strategy(correct, r))
	}
	for next := max(correct, 0) + 1; len(out) < count; next++ {
		accept(next)
	}
	return out
}

func offsetDistractor(correct int, r *rand.Rand) int {
	d := 1 + r.IntN(DistractorOffset)
	if r.IntN(2) == 0 {
		d = -d
	}
	return correct + d
}

func scaleDistractor(correct int, r *rand.Rand) int {
	f := 2 + r.IntN(2)
	if r.IntN(2) == 0 {
		return correct * f
	}
	return int(math.Round(float64(correct) / float64(f)))
}

// digitShuffleDistractor permutes the decimal digits of correct. Single
// digit answers fall back to an offset.
func digitShuffleDistractor(correct int, r *rand.Rand) int {
	s := strconv.Itoa(correct)
	if correct < 10 {
		return offsetDistractor(correct, r)
	}
	digits := []byte(s)
	r.Shuffle(len(digits), func(i, j int) { digits[i], digits[j] = digits[j], digits[i] })
	v, err := strconv.Atoi(string(digits))
	if err != nil {
		return 0
	}
	return v
}

// jitterDistractor samples uniformly within ±max(3, correct/4).
func jitterDistractor(correct int, r *rand.Rand) int {
	spread := max(3, correct/4)
	return correct - spread + r.IntN(2*spread+1)
}

// BuildOptions assembles the correct value and three distractors, shuffles
// them with r and returns the formatted options with the position of the
// correct one. format must map distinct values to distinct strings.
func BuildOptions(correct int, format func(int) string, r *rand.Rand) ([]string, int) {
	if format == nil {
		format = strconv.Itoa
	}
	if r == nil {
		r = randomRand()
	}
	values := append([]int{correct}, GenerateDistractors(correct, NumOptions-1, r)...)
	r.Shuffle(len(values), func(i, j int) { values[i], values[j] = values[j], values[i] })

	want := format(correct)
	options := make([]string, len(values))
	correctIndex := 0
	for i, v := range values {
		options[i] = format(v)
		if options[i] == want {
			correctIndex = i
		}
	}
	return options, correctIndex
}
