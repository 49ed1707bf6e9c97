package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"banditlab/internal/benchmark"
	"banditlab/internal/report"
)

func writeRun(t *testing.T, reporter *report.Reporter, name, timestamp string) report.Run {
	t.Helper()
	run, err := reporter.NewRun()
	if err != nil {
		t.Fatalf("new run: %v", err)
	}
	results := []benchmark.Result{
		{Player: "greedy", AvgRewards: []float64{0.1, 0.2, 0.3}},
		{Player: "eps 0.1", AvgRewards: []float64{0.2, 0.4, 0.6}},
	}
	if err := reporter.WriteRewards(run, results); err != nil {
		t.Fatalf("write rewards: %v", err)
	}
	manifest := report.Manifest{
		RunID:  run.ID,
		Name:   name,
		Seed:   42,
		Epochs: 5,
		Arms:   3,
		Players: []report.PlayerSummary{
			{Name: "greedy", Strategy: "sample-averages", TailMean: 0.3},
			{Name: "eps 0.1", Strategy: "sample-averages", Epsilon: 0.1, TailMean: 0.6},
		},
		Timestamp: timestamp,
	}
	if err := reporter.WriteManifest(run, manifest); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return run
}

func TestLoadRunsSkipsIncompleteDirs(t *testing.T) {
	root := t.TempDir()
	reporter := report.New(root)
	writeRun(t, reporter, "experiment a", "2026-08-20T10:00:00Z")
	writeRun(t, reporter, "experiment b", "2026-08-21T10:00:00Z")

	noRewards := filepath.Join(root, "half-written")
	if err := os.MkdirAll(noRewards, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(noRewards, report.ManifestFileName), []byte(`{"run_id":"x"}`), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "stray.txt"), []byte("not a run"), 0o644); err != nil {
		t.Fatalf("write stray file: %v", err)
	}

	entries, err := loadRuns(root)
	if err != nil {
		t.Fatalf("load runs: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("loaded %d runs, want 2", len(entries))
	}
	for _, entry := range entries {
		if len(entry.Results) != 2 {
			t.Fatalf("run %s has %d players, want 2", entry.Dir, len(entry.Results))
		}
	}
}

func TestSortRunsNewestFirst(t *testing.T) {
	entries := []RunEntry{
		{Manifest: report.Manifest{Name: "older", Timestamp: "2026-08-19T08:00:00Z"}},
		{Manifest: report.Manifest{Name: "newest", Timestamp: "2026-08-21T08:00:00Z"}},
		{Manifest: report.Manifest{Name: "middle", Timestamp: "2026-08-20T08:00:00Z"}},
	}
	sortRuns(entries)
	got := []string{entries[0].Manifest.Name, entries[1].Manifest.Name, entries[2].Manifest.Name}
	want := []string{"newest", "middle", "older"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order %v, want %v", got, want)
		}
	}
}

func TestBuildSiteWritesArtifacts(t *testing.T) {
	root := t.TempDir()
	reporter := report.New(root)
	writeRun(t, reporter, "experiment a", "2026-08-20T10:00:00Z")
	writeRun(t, reporter, "experiment b", "2026-08-21T10:00:00Z")

	entries, err := loadRuns(root)
	if err != nil {
		t.Fatalf("load runs: %v", err)
	}
	sortRuns(entries)
	site := SiteData{GeneratedAt: "2026-08-21T12:00:00Z", Source: root, Runs: entries}

	out := filepath.Join(t.TempDir(), "site")
	if err := buildSite(out, &site); err != nil {
		t.Fatalf("build site: %v", err)
	}

	index, err := os.ReadFile(filepath.Join(out, "index.html"))
	if err != nil {
		t.Fatalf("read index: %v", err)
	}
	for _, want := range []string{"experiment a", "experiment b", "charts/"} {
		if !strings.Contains(string(index), want) {
			t.Fatalf("index is missing %q", want)
		}
	}

	data, err := os.ReadFile(filepath.Join(out, "runs.json"))
	if err != nil {
		t.Fatalf("read runs.json: %v", err)
	}
	var decoded SiteData
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("parse runs.json: %v", err)
	}
	if len(decoded.Runs) != 2 {
		t.Fatalf("runs.json has %d runs, want 2", len(decoded.Runs))
	}
	if decoded.Runs[0].Manifest.Name != "experiment b" {
		t.Fatalf("first run is %q, want the newest", decoded.Runs[0].Manifest.Name)
	}

	for _, entry := range site.Runs {
		if entry.Chart == "" {
			t.Fatalf("run %s has no chart reference", entry.Dir)
		}
		chartPath := filepath.Join(out, filepath.FromSlash(entry.Chart))
		page, err := os.ReadFile(chartPath)
		if err != nil {
			t.Fatalf("read chart %s: %v", entry.Chart, err)
		}
		if !strings.Contains(string(page), entry.Manifest.Name) {
			t.Fatalf("chart %s is missing the run name", entry.Chart)
		}
	}
}

func TestChartRelPathSanitizesSeparators(t *testing.T) {
	if got := chartRelPath("a/b:c"); got != "charts/a_b_c.html" {
		t.Fatalf("got %q", got)
	}
	if got := chartRelPath("0198c5a2-7b7e-7a30"); got != "charts/0198c5a2-7b7e-7a30.html" {
		t.Fatalf("got %q", got)
	}
}
