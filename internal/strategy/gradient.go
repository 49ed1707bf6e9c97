package strategy

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Gradient learns soft-max action preferences against a running reward
// baseline instead of estimating arm values directly.
type Gradient struct {
	alpha      float64
	time       int
	meanReward float64
	probs      []float64
}

// NewGradient builds the estimator for a known arm count with step size
// alpha. Action probabilities start uniform.
func NewGradient(alpha float64, arms int) *Gradient {
	probs := make([]float64, arms)
	for i := range probs {
		probs[i] = 1 / float64(arms)
	}
	return &Gradient{alpha: alpha, probs: probs}
}

// Update folds the reward into the running baseline (the baseline includes
// the reward being reported), moves every preference against its current
// action probability, credits the chosen arm with the full advantage and
// re-derives the probabilities from the updated preferences.
func (g *Gradient) Update(prefs []float64, counts []int, arm int, reward float64) []float64 {
	g.time++
	g.meanReward += (reward - g.meanReward) / float64(g.time)
	adv := g.alpha * (reward - g.meanReward)
	for i := range prefs {
		prefs[i] -= adv * g.probs[i]
	}
	prefs[arm] += adv
	lse := floats.LogSumExp(prefs)
	for i := range g.probs {
		g.probs[i] = math.Exp(prefs[i] - lse)
	}
	return prefs
}

// Probs returns a copy of the action probabilities derived after the last
// update.
func (g *Gradient) Probs() []float64 {
	return append([]float64{}, g.probs...)
}
