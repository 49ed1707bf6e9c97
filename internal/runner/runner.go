// Package runner wires configuration, players, the benchmark loop and
// reporting into one experiment run.
package runner

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"

	"banditlab/internal/benchmark"
	"banditlab/internal/chart"
	"banditlab/internal/config"
	"banditlab/internal/player"
	"banditlab/internal/report"
	"banditlab/internal/strategy"
	"banditlab/internal/uploader"
	"banditlab/internal/util"
)

// tailWindow is how many trailing steps get averaged into the per-player
// summary figure used in progress logs and the manifest.
const tailWindow = 100

// Runner orchestrates one configured experiment end to end.
type Runner struct {
	cfg      config.Config
	seed     int64
	bench    *benchmark.Benchmark
	reporter *report.Reporter
	uploader uploader.Uploader
}

// New constructs a Runner. A zero config seed is resolved to the wall clock
// here so the manifest always records the seed that actually drove the run.
// Player k is seeded with the k-th draw from a seeder stream over that seed,
// so a player's randomness is fixed by its position and unaffected by the
// parallel flag.
func New(cfg config.Config) (*Runner, error) {
	if len(cfg.Players) == 0 {
		return nil, errors.New("config has no players")
	}
	seed := util.SeedOrNow(cfg.Seed)
	seeder := util.NewRand(seed)
	players := make([]*player.Player, 0, len(cfg.Players))
	for _, pc := range cfg.Players {
		strat, err := newStrategy(pc.Strategy, cfg.Bandit.Arms)
		if err != nil {
			return nil, errors.Wrapf(err, "player %q", pc.Name)
		}
		pcfg := player.Config{
			Name:     pc.Name,
			Epsilon:  pc.Epsilon,
			Steps:    pc.Steps,
			Arms:     cfg.Bandit.Arms,
			Initial:  cfg.Bandit.Initial,
			Drift:    cfg.Bandit.Drift,
			Strategy: strat,
			Optimist: pc.Optimist,
		}
		if pc.Baseline != nil {
			pcfg.Baseline = *pc.Baseline
		}
		p, err := player.New(pcfg, util.NewRand(seeder.Int64()))
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	up, err := uploader.FromConfig(cfg.Storage)
	if err != nil {
		return nil, errors.Wrap(err, "storage uploader")
	}
	bench := benchmark.New(cfg.Name, players, cfg.Epochs)
	bench.LogEvery = cfg.LogEvery
	bench.Parallel = cfg.Parallel
	return &Runner{
		cfg:      cfg,
		seed:     seed,
		bench:    bench,
		reporter: report.New(cfg.Output.Dir),
		uploader: up,
	}, nil
}

func newStrategy(sc config.StrategyConfig, arms int) (strategy.Strategy, error) {
	switch sc.Kind {
	case config.KindSampleAverages:
		return strategy.SampleAverages{}, nil
	case config.KindConstantStep:
		return strategy.ConstantStepSize{Alpha: sc.Alpha}, nil
	case config.KindUCB:
		return strategy.NewUCB(sc.Exploration, arms), nil
	case config.KindGradient:
		return strategy.NewGradient(sc.Alpha, arms), nil
	}
	return nil, errors.Errorf("unknown strategy kind %q", sc.Kind)
}

// Seed reports the seed driving this run.
func (r *Runner) Seed() int64 {
	return r.seed
}

// Run executes every epoch and writes the run artifacts.
func (r *Runner) Run(ctx context.Context) error {
	start := time.Now()
	util.Infof("run start name=%q seed=%d epochs=%d steps=%d arms=%d players=%d parallel=%t",
		r.cfg.Name, r.seed, r.cfg.Epochs, r.cfg.Steps, r.cfg.Bandit.Arms, len(r.cfg.Players), r.cfg.Parallel)
	r.bench.OnProgress = func(epoch int, results []benchmark.Result) {
		parts := make([]string, 0, len(results))
		for _, res := range results {
			parts = append(parts, fmt.Sprintf("%s=%.4f", res.Player, res.TailMean(tailWindow)))
		}
		util.Infof("epoch %d/%d elapsed=%s tail_mean: %s",
			epoch, r.cfg.Epochs, time.Since(start).Round(time.Millisecond), strings.Join(parts, " "))
	}
	r.bench.Run()

	run, err := r.report(ctx, r.bench.Results())
	if err != nil {
		return err
	}
	util.Infof("run complete id=%s dir=%s elapsed=%s", run.ID, run.Dir, time.Since(start).Round(time.Millisecond))
	return nil
}

// report writes the run directory: rewards, chart, manifest, archive, and
// finally the cloud copy when storage is configured.
func (r *Runner) report(ctx context.Context, results []benchmark.Result) (report.Run, error) {
	run, err := r.reporter.NewRun()
	if err != nil {
		return report.Run{}, errors.Wrap(err, "allocate run dir")
	}
	if err := r.reporter.WriteRewards(run, results); err != nil {
		return report.Run{}, errors.Wrap(err, "write rewards")
	}
	if r.cfg.Output.Charts {
		if err := chart.WriteFile(filepath.Join(run.Dir, report.ChartFileName), r.cfg.Name, results); err != nil {
			return report.Run{}, errors.Wrap(err, "write chart")
		}
	}

	manifest := r.manifest(run, results)
	archive := r.cfg.Output.Archive || r.cfg.Storage.CloudEnabled()
	if archive {
		manifest.ArchiveName = report.RunArchiveName
		manifest.ArchiveCodec = report.RunArchiveCodec
	}
	if err := r.reporter.WriteManifest(run, manifest); err != nil {
		return report.Run{}, errors.Wrap(err, "write manifest")
	}
	if archive {
		if _, _, archiveErr := r.reporter.ArchiveRun(run); archiveErr != nil {
			util.Warnf("run archive failed dir=%s err=%v", run.Dir, archiveErr)
			manifest.ArchiveName = ""
			manifest.ArchiveCodec = ""
			_ = r.reporter.WriteManifest(run, manifest)
		}
	}

	if r.uploader.Enabled() {
		location, upErr := r.uploader.UploadDir(ctx, run.Dir)
		if upErr != nil {
			util.Warnf("run upload failed dir=%s err=%v", run.Dir, upErr)
		} else if location != "" {
			manifest.UploadLocation = location
			_ = r.reporter.WriteManifest(run, manifest)
			util.Infof("run uploaded location=%s", location)
		}
	}
	return run, nil
}

func (r *Runner) manifest(run report.Run, results []benchmark.Result) report.Manifest {
	players := make([]report.PlayerSummary, 0, len(r.cfg.Players))
	for i, pc := range r.cfg.Players {
		s := report.PlayerSummary{
			Name:     pc.Name,
			Strategy: pc.Strategy.Kind,
			Epsilon:  pc.Epsilon,
			Steps:    pc.Steps,
			Optimist: pc.Optimist,
		}
		if pc.Optimist && pc.Baseline != nil {
			s.Baseline = *pc.Baseline
		}
		switch pc.Strategy.Kind {
		case config.KindConstantStep, config.KindGradient:
			s.Alpha = pc.Strategy.Alpha
		case config.KindUCB:
			s.Exploration = pc.Strategy.Exploration
		}
		if i < len(results) {
			s.TailMean = results[i].TailMean(tailWindow)
		}
		players = append(players, s)
	}
	return report.Manifest{
		RunID:     run.ID,
		Name:      r.cfg.Name,
		Seed:      r.seed,
		Epochs:    r.cfg.Epochs,
		Arms:      r.cfg.Bandit.Arms,
		Drift:     r.cfg.Bandit.Drift,
		Players:   players,
		RunInfo:   r.cfg.RunInfo,
		Timestamp: time.Now().Format(time.RFC3339),
	}
}
