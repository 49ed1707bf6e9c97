// Package strategy implements the value estimators a player can learn with.
// The set is closed: sample averages, constant step size, UCB and gradient
// preferences.
package strategy

// Strategy folds one observed reward into a player's preference vector.
//
// prefs is the current preference vector and counts the per-arm action
// counts, where counts[arm] already includes the pull being reported.
// Implementations return the vector the caller must keep: the in-place
// variants hand back prefs itself, UCB returns a freshly computed slice.
type Strategy interface {
	Update(prefs []float64, counts []int, arm int, reward float64) []float64
}

// SampleAverages estimates each arm by the running mean of its rewards.
type SampleAverages struct{}

// Update folds the reward into the chosen arm's running mean.
func (SampleAverages) Update(prefs []float64, counts []int, arm int, reward float64) []float64 {
	prefs[arm] += (reward - prefs[arm]) / float64(counts[arm])
	return prefs
}

// ConstantStepSize weighs recent rewards exponentially, letting the estimate
// track arms whose true values drift.
type ConstantStepSize struct {
	Alpha float64
}

// Update moves the chosen arm's estimate a fixed fraction toward the reward.
func (s ConstantStepSize) Update(prefs []float64, counts []int, arm int, reward float64) []float64 {
	prefs[arm] += s.Alpha * (reward - prefs[arm])
	return prefs
}
