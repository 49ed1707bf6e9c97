package player

import (
	"testing"

	"banditlab/internal/strategy"
	"banditlab/internal/util"
)

func testConfig() Config {
	return Config{
		Name:     "test",
		Epsilon:  0.1,
		Steps:    100,
		Arms:     5,
		Drift:    0,
		Strategy: strategy.SampleAverages{},
	}
}

func TestNewRejectsBadBanditValues(t *testing.T) {
	cfg := testConfig()
	cfg.Initial = []float64{1, 2}
	if _, err := New(cfg, util.NewRand(1)); err == nil {
		t.Fatalf("expected error for %d initial values on %d arms", len(cfg.Initial), cfg.Arms)
	}
}

func TestGreedyChoosePrefersLowestIndexOnTies(t *testing.T) {
	cfg := testConfig()
	cfg.Epsilon = 0
	p, err := New(cfg, util.NewRand(1))
	if err != nil {
		t.Fatalf("new player: %v", err)
	}
	if got := p.choose(); got != 0 {
		t.Fatalf("all-zero preferences chose arm %d, want 0", got)
	}
	p.prefs = []float64{1, 3, 3, 0, 0}
	if got := p.choose(); got != 1 {
		t.Fatalf("chose arm %d, want first maximum 1", got)
	}
}

func TestEpsilonOneAlwaysExplores(t *testing.T) {
	cfg := testConfig()
	cfg.Epsilon = 1
	cfg.Steps = 300
	p, err := New(cfg, util.NewRand(2))
	if err != nil {
		t.Fatalf("new player: %v", err)
	}
	p.Run()
	for i, c := range p.Counts() {
		if c == 0 {
			t.Fatalf("arm %d never tried in %d random steps", i, cfg.Steps)
		}
	}
}

func TestRunExecutesFullBudget(t *testing.T) {
	p, err := New(testConfig(), util.NewRand(3))
	if err != nil {
		t.Fatalf("new player: %v", err)
	}
	p.Run()
	if p.pos != p.steps {
		t.Fatalf("cursor at %d after run, want %d", p.pos, p.steps)
	}
	total := 0
	for _, c := range p.Counts() {
		total += c
	}
	if total != p.steps {
		t.Fatalf("action counts sum to %d, want %d", total, p.steps)
	}
	if len(p.Rewards()) != p.steps {
		t.Fatalf("reward trace has %d entries, want %d", len(p.Rewards()), p.steps)
	}
}

func TestOptimisticBaselineSurvivesReset(t *testing.T) {
	cfg := testConfig()
	cfg.Optimist = true
	cfg.Baseline = 5
	p, err := New(cfg, util.NewRand(4))
	if err != nil {
		t.Fatalf("new player: %v", err)
	}
	for _, v := range p.Prefs() {
		if v != 5 {
			t.Fatalf("starting preference %v, want baseline 5", v)
		}
	}
	p.Run()
	p.Reset()
	for _, v := range p.Prefs() {
		if v != 5 {
			t.Fatalf("preference %v after reset, want baseline 5", v)
		}
	}
	if p.pos != 0 {
		t.Fatalf("cursor at %d after reset, want 0", p.pos)
	}
}

func TestResetClearsRewardsAndCounts(t *testing.T) {
	p, err := New(testConfig(), util.NewRand(5))
	if err != nil {
		t.Fatalf("new player: %v", err)
	}
	p.Run()
	p.Reset()
	for i, r := range p.Rewards() {
		if r != 0 {
			t.Fatalf("reward %d is %v after reset", i, r)
		}
	}
	for i, c := range p.Counts() {
		if c != 0 {
			t.Fatalf("count %d is %d after reset", i, c)
		}
	}
}

func TestUCBPlayerTriesEveryArmOnce(t *testing.T) {
	cfg := testConfig()
	cfg.Epsilon = 0
	cfg.Arms = 4
	cfg.Steps = 4
	cfg.Strategy = strategy.NewUCB(2, cfg.Arms)
	p, err := New(cfg, util.NewRand(6))
	if err != nil {
		t.Fatalf("new player: %v", err)
	}
	p.Run()
	for i, c := range p.Counts() {
		if c != 1 {
			t.Fatalf("arm %d tried %d times in the first %d steps, want exactly once", i, c, cfg.Steps)
		}
	}
}

func TestSameSeedSameTrajectory(t *testing.T) {
	a, err := New(testConfig(), util.NewRand(42))
	if err != nil {
		t.Fatalf("new player: %v", err)
	}
	b, err := New(testConfig(), util.NewRand(42))
	if err != nil {
		t.Fatalf("new player: %v", err)
	}
	a.Run()
	b.Run()
	for i := range a.Rewards() {
		if a.Rewards()[i] != b.Rewards()[i] {
			t.Fatalf("trajectories diverge at step %d: %v vs %v", i, a.Rewards()[i], b.Rewards()[i])
		}
	}
}
