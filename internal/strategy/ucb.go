package strategy

import "math"

// UCB keeps sample-average value estimates internally and publishes them
// with an upper-confidence exploration bonus that shrinks as an arm gets
// tried.
type UCB struct {
	c      float64
	time   int
	values []float64
}

// NewUCB builds the estimator for a known arm count. c scales the
// exploration bonus.
func NewUCB(c float64, arms int) *UCB {
	return &UCB{c: c, time: 1, values: make([]float64, arms)}
}

// Update advances the internal clock, refines the chosen arm's estimate and
// returns a fresh preference vector of estimate plus bonus per arm. An arm
// never tried divides by zero and scores +Inf, which makes a greedy caller
// try every arm once.
func (u *UCB) Update(prefs []float64, counts []int, arm int, reward float64) []float64 {
	u.time++
	u.values[arm] += (reward - u.values[arm]) / float64(counts[arm])
	out := make([]float64, len(u.values))
	for i, v := range u.values {
		out[i] = v + u.c*math.Sqrt(math.Log(float64(u.time))/float64(counts[i]))
	}
	return out
}
