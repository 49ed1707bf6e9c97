// Package bandit models a k-armed slot machine: every arm pays out normally
// distributed rewards around a hidden true value, and the true values can
// drift over time.
package bandit

import (
	"math/rand/v2"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat/distuv"
)

// Arm is a single reward source of a bandit.
type Arm struct {
	value float64
	drift float64
}

// Pull draws one reward from N(value, 1).
func (a *Arm) Pull(rng *rand.Rand) float64 {
	return norm(rng, a.value, 1)
}

// Walk perturbs the true value by N(0, drift). Stationary arms stay put.
func (a *Arm) Walk(rng *rand.Rand) {
	if a.drift <= 0 {
		return
	}
	a.value += norm(rng, 0, a.drift)
}

// Value reports the current true value.
func (a *Arm) Value() float64 {
	return a.value
}

func norm(rng *rand.Rand, mu, sigma float64) float64 {
	return distuv.Normal{Mu: mu, Sigma: sigma, Src: rng}.Rand()
}

// Bandit is a fixed, ordered collection of arms. It remembers how it was
// built so resets reproduce the construction-time distribution.
type Bandit struct {
	arms    []Arm
	initial []float64 // nil: resample fresh true values on every reset
	drift   float64
}

// New builds a bandit. When initial is nil the true values are sampled from
// the unit normal, on construction and again on every reset; otherwise its
// length must match the arm count and the given values are restored
// verbatim each time.
func New(arms int, initial []float64, drift float64, rng *rand.Rand) (*Bandit, error) {
	if initial != nil && len(initial) != arms {
		return nil, errors.Errorf("bandit: got %d initial values for %d arms", len(initial), arms)
	}
	b := &Bandit{
		arms:  make([]Arm, arms),
		drift: drift,
	}
	if initial != nil {
		b.initial = append([]float64{}, initial...)
	}
	b.Reset(rng)
	return b, nil
}

// Arms reports the arm count.
func (b *Bandit) Arms() int {
	return len(b.arms)
}

// Reset rebuilds every arm from the construction parameters.
func (b *Bandit) Reset(rng *rand.Rand) {
	for i := range b.arms {
		v := 0.0
		if b.initial != nil {
			v = b.initial[i]
		} else {
			v = norm(rng, 0, 1)
		}
		b.arms[i] = Arm{value: v, drift: b.drift}
	}
}

// Step advances the bandit one turn: every arm walks first, then the chosen
// arm is pulled, so the reward reflects the post-walk value.
func (b *Bandit) Step(arm int, rng *rand.Rand) float64 {
	for i := range b.arms {
		b.arms[i].Walk(rng)
	}
	return b.arms[arm].Pull(rng)
}

// TrueValues returns a copy of the current true values in arm order.
func (b *Bandit) TrueValues() []float64 {
	vals := make([]float64, len(b.arms))
	for i := range b.arms {
		vals[i] = b.arms[i].value
	}
	return vals
}

// Best reports the arm with the highest true value, lowest index on ties.
func (b *Bandit) Best() int {
	best := 0
	for i := 1; i < len(b.arms); i++ {
		if b.arms[i].value > b.arms[best].value {
			best = i
		}
	}
	return best
}
