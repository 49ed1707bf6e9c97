package util

import (
	"math/rand/v2"
	"time"

	"github.com/seehuhn/mt19937"
)

// NewRand returns a generator backed by the 64-bit Mersenne Twister,
// usable both directly and as a rand/v2 source for gonum distributions.
func NewRand(seed int64) *rand.Rand {
	src := mt19937.New()
	src.Seed(seed)
	return rand.New(src)
}

// SeedOrNow resolves a zero seed to the current wall clock so callers can
// log the seed that actually drove a run.
func SeedOrNow(seed int64) int64 {
	if seed == 0 {
		return time.Now().UnixNano()
	}
	return seed
}
