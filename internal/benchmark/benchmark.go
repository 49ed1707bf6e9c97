// Package benchmark averages player reward trajectories over many epochs so
// strategies can be compared on the same plot.
package benchmark

import (
	"sync"

	"gonum.org/v1/gonum/stat"

	"banditlab/internal/player"
)

// Result is one player's reward trajectory averaged across epochs.
type Result struct {
	Player     string
	AvgRewards []float64
}

// TailMean reports the mean of the last n averaged rewards, a cheap summary
// of where the trajectory settled. n is clamped to the trajectory length.
func (r Result) TailMean(n int) float64 {
	if n <= 0 || len(r.AvgRewards) == 0 {
		return 0
	}
	if n > len(r.AvgRewards) {
		n = len(r.AvgRewards)
	}
	return stat.Mean(r.AvgRewards[len(r.AvgRewards)-n:], nil)
}

// Benchmark runs a set of players for many epochs and keeps, per player, the
// running mean reward at every step position.
type Benchmark struct {
	// LogEvery fires OnProgress every LogEvery epochs and once after the
	// final epoch. Zero disables progress reporting.
	LogEvery int
	// Parallel runs each epoch's players on separate goroutines. Players
	// share nothing, so the results do not depend on scheduling.
	Parallel bool
	// OnProgress receives the epoch number just finished and a snapshot of
	// the running averages.
	OnProgress func(epoch int, results []Result)

	name    string
	epochs  int
	players []*player.Player
	avg     [][]float64
}

// New builds a benchmark over the given players.
func New(name string, players []*player.Player, epochs int) *Benchmark {
	avg := make([][]float64, len(players))
	for i, p := range players {
		avg[i] = make([]float64, p.Steps())
	}
	return &Benchmark{name: name, epochs: epochs, players: players, avg: avg}
}

// Name reports the benchmark's display name.
func (b *Benchmark) Name() string {
	return b.name
}

// Epochs reports the configured epoch count.
func (b *Benchmark) Epochs() int {
	return b.epochs
}

// Run executes all epochs. Each epoch runs every player through its full
// step budget, folds the reward trace into that player's running average
// with weight 1/epoch and resets the player for the next epoch.
func (b *Benchmark) Run() {
	for epoch := 1; epoch <= b.epochs; epoch++ {
		if b.Parallel {
			var wg sync.WaitGroup
			for i := range b.players {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					b.runPlayer(i, epoch)
				}(i)
			}
			wg.Wait()
		} else {
			for i := range b.players {
				b.runPlayer(i, epoch)
			}
		}
		if b.LogEvery > 0 && b.OnProgress != nil && (epoch%b.LogEvery == 0 || epoch == b.epochs) {
			b.OnProgress(epoch, b.Results())
		}
	}
}

func (b *Benchmark) runPlayer(i, epoch int) {
	p := b.players[i]
	p.Run()
	fold(b.avg[i], p.Rewards(), epoch)
	p.Reset()
}

// fold updates the running mean in place: after epoch n the average equals
// the direct mean of all n traces seen so far.
func fold(avg, trace []float64, epoch int) {
	for t := range avg {
		avg[t] += (trace[t] - avg[t]) / float64(epoch)
	}
}

// Results snapshots the averaged trajectories in player order.
func (b *Benchmark) Results() []Result {
	out := make([]Result, len(b.players))
	for i, p := range b.players {
		out[i] = Result{
			Player:     p.Name(),
			AvgRewards: append([]float64{}, b.avg[i]...),
		}
	}
	return out
}
