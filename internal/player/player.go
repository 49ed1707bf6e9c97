// Package player runs one agent against its own private bandit.
package player

import (
	"math/rand/v2"

	"github.com/pkg/errors"

	"banditlab/internal/bandit"
	"banditlab/internal/strategy"
)

// Config describes one player: its bandit, its learning strategy and its
// exploration behavior.
type Config struct {
	Name    string
	Epsilon float64 // probability of a uniform random pull per step
	Steps   int

	Arms    int
	Initial []float64 // optional explicit true values, length must equal Arms
	Drift   float64

	Strategy strategy.Strategy
	Optimist bool
	Baseline float64 // starting preference for every arm when Optimist is set
}

// Player pulls a private bandit for a fixed number of steps per epoch,
// recording per-step rewards and letting its strategy refine the preference
// vector it chooses arms by. Nothing a player holds is shared with other
// players, so players can run concurrently without coordination.
type Player struct {
	name     string
	eps      float64
	steps    int
	strat    strategy.Strategy
	optimist bool
	baseline float64

	bandit  *bandit.Bandit
	rng     *rand.Rand
	rewards []float64
	prefs   []float64
	counts  []int
	pos     int
}

// New builds a player and its private bandit. The player takes ownership
// of rng.
func New(cfg Config, rng *rand.Rand) (*Player, error) {
	b, err := bandit.New(cfg.Arms, cfg.Initial, cfg.Drift, rng)
	if err != nil {
		return nil, errors.Wrapf(err, "player %q", cfg.Name)
	}
	p := &Player{
		name:     cfg.Name,
		eps:      cfg.Epsilon,
		steps:    cfg.Steps,
		strat:    cfg.Strategy,
		optimist: cfg.Optimist,
		baseline: cfg.Baseline,
		bandit:   b,
		rng:      rng,
		rewards:  make([]float64, cfg.Steps),
		prefs:    make([]float64, cfg.Arms),
		counts:   make([]int, cfg.Arms),
	}
	p.applyBaseline()
	return p, nil
}

func (p *Player) applyBaseline() {
	if !p.optimist {
		return
	}
	for i := range p.prefs {
		p.prefs[i] = p.baseline
	}
}

// choose picks the next arm: an epsilon-weighted coin decides between a
// uniform random arm and the preference argmax, ties broken by lowest index.
func (p *Player) choose() int {
	if p.rng.Float64() < p.eps {
		return p.rng.IntN(len(p.prefs))
	}
	best := 0
	for i, v := range p.prefs {
		if v > p.prefs[best] {
			best = i
		}
	}
	return best
}

// Step executes one pull and folds the observed reward into the preferences.
// The chosen arm's count is incremented before the strategy update, so the
// strategy sees a count that includes the current pull.
func (p *Player) Step() {
	arm := p.choose()
	p.counts[arm]++
	reward := p.bandit.Step(arm, p.rng)
	p.rewards[p.pos] = reward
	p.prefs = p.strat.Update(p.prefs, p.counts, arm, reward)
	p.pos++
}

// Run executes the player's full step budget in order.
func (p *Player) Run() {
	for i := 0; i < p.steps; i++ {
		p.Step()
	}
}

// Reset returns the player to its starting state: bandit reset, rewards and
// counts zeroed, preferences back at the optimistic baseline or zero, step
// cursor rewound. Strategy-internal state survives a reset; the estimator's
// clock keeps ticking across epochs.
func (p *Player) Reset() {
	p.bandit.Reset(p.rng)
	for i := range p.rewards {
		p.rewards[i] = 0
	}
	for i := range p.counts {
		p.counts[i] = 0
	}
	for i := range p.prefs {
		p.prefs[i] = 0
	}
	p.applyBaseline()
	p.pos = 0
}

// Name reports the player's display name.
func (p *Player) Name() string {
	return p.name
}

// Steps reports the per-epoch step budget.
func (p *Player) Steps() int {
	return p.steps
}

// Rewards exposes the reward trace of the current epoch, indexed by step.
// The slice is the player's own; callers must not mutate it.
func (p *Player) Rewards() []float64 {
	return p.rewards
}

// Counts returns a copy of the per-arm action counts.
func (p *Player) Counts() []int {
	return append([]int{}, p.counts...)
}

// Prefs returns a copy of the current preference vector.
func (p *Player) Prefs() []float64 {
	return append([]float64{}, p.prefs...)
}
