package problemgen

import (
	"math/rand/v2"

	"github.com/google/uuid"
)

const seedMix = 0x9e3779b97f4a7c15

// NewRand returns a PCG-backed generator. The same seed always yields the
// same sequence of questions.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^seedMix))
}

func randomRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// randReader adapts a *rand.Rand to io.Reader for uuid generation.
type randReader struct{ r *rand.Rand }

func (rr randReader) Read(p []byte) (int, error) {
	for i := 0; i < len(p); i += 8 {
		v := rr.r.Uint64()
		for j := 0; j < 8 && i+j < len(p); j++ {
			p[i+j] = byte(v >> (8 * j))
		}
	}
	return len(p), nil
}

func newID(r *rand.Rand) string {
	id, err := uuid.NewRandomFromReader(randReader{r})
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// randIn returns a uniform value in [lo, hi]. If hi < lo it returns lo.
func randIn(r *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.IntN(hi-lo+1)
}

func pick[T any](r *rand.Rand, xs []T) T {
	return xs[r.IntN(len(xs))]
}
