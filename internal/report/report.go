// Package report writes run artifacts: manifest, reward trajectories and a
// compressed archive of the run directory.
package report

import (
	"archive/tar"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"

	"banditlab/internal/benchmark"
	"banditlab/internal/runinfo"
	"banditlab/internal/util"
)

// Artifact names inside a run directory.
const (
	ManifestFileName = "manifest.json"
	RewardsFileName  = "rewards.csv"
	ChartFileName    = "chart.html"
	RunArchiveName   = "run.tar.zst"
	RunArchiveCodec  = "zstd"
)

// Reporter writes run artifacts to disk.
type Reporter struct {
	OutputDir string
}

// Run describes one run directory.
type Run struct {
	ID  string
	Dir string
}

// PlayerSummary captures one player's configuration and outcome.
type PlayerSummary struct {
	Name        string  `json:"name"`
	Strategy    string  `json:"strategy"`
	Epsilon     float64 `json:"epsilon"`
	Steps       int     `json:"steps"`
	Optimist    bool    `json:"optimist,omitempty"`
	Baseline    float64 `json:"baseline,omitempty"`
	Alpha       float64 `json:"alpha,omitempty"`
	Exploration float64 `json:"exploration,omitempty"`
	TailMean    float64 `json:"tail_mean"`
}

// Manifest captures the persisted metadata for a run.
type Manifest struct {
	RunID          string             `json:"run_id"`
	Name           string             `json:"name"`
	Seed           int64              `json:"seed"`
	Epochs         int                `json:"epochs"`
	Arms           int                `json:"arms"`
	Drift          float64            `json:"drift,omitempty"`
	Players        []PlayerSummary    `json:"players"`
	ArchiveName    string             `json:"archive_name,omitempty"`
	ArchiveCodec   string             `json:"archive_codec,omitempty"`
	UploadLocation string             `json:"upload_location,omitempty"`
	RunInfo        *runinfo.BasicInfo `json:"run_info,omitempty"`
	Timestamp      string             `json:"timestamp"`
}

// New creates a reporter that writes under outputDir.
func New(outputDir string) *Reporter {
	return &Reporter{OutputDir: outputDir}
}

// NewRun allocates a run directory named after the wall clock and a
// time-ordered UUID.
func (r *Reporter) NewRun() (Run, error) {
	runID := uuid.New().String()
	if v7, err := uuid.NewV7(); err == nil {
		runID = v7.String()
	}
	dir := filepath.Join(r.OutputDir, fmt.Sprintf("run_%s_%s", time.Now().Format("20060102_150405"), runID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Run{}, err
	}
	_ = os.WriteFile(filepath.Join(dir, "README.md"), []byte("# Bandit Run\n\n- manifest.json: run metadata and per-player summaries\n- rewards.csv: averaged reward per step, one column per player\n- chart.html: reward curves (when charts are enabled)\n"), 0o644)
	return Run{ID: runID, Dir: dir}, nil
}

// WriteManifest writes manifest.json into the run directory.
func (r *Reporter) WriteManifest(run Run, m Manifest) (err error) {
	f, err := os.Create(filepath.Join(run.Dir, ManifestFileName))
	if err != nil {
		return err
	}
	defer util.CloseWithErr(f, &err, "manifest output")
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(m)
}

// ReadManifest loads the manifest from a run directory.
func ReadManifest(dir string) (Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFileName))
	if err != nil {
		return Manifest{}, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, errors.Wrapf(err, "manifest in %s", dir)
	}
	return m, nil
}

// WriteRewards writes rewards.csv: a step column followed by one column of
// averaged rewards per player. Players with shorter step budgets leave their
// trailing cells empty.
func (r *Reporter) WriteRewards(run Run, results []benchmark.Result) (err error) {
	f, err := os.Create(filepath.Join(run.Dir, RewardsFileName))
	if err != nil {
		return err
	}
	defer util.CloseWithErr(f, &err, "rewards output")
	w := csv.NewWriter(f)
	header := make([]string, 0, len(results)+1)
	header = append(header, "step")
	steps := 0
	for _, res := range results {
		header = append(header, res.Player)
		if len(res.AvgRewards) > steps {
			steps = len(res.AvgRewards)
		}
	}
	if err := w.Write(header); err != nil {
		return err
	}
	row := make([]string, len(header))
	for t := 0; t < steps; t++ {
		row[0] = strconv.Itoa(t + 1)
		for i, res := range results {
			if t < len(res.AvgRewards) {
				row[i+1] = strconv.FormatFloat(res.AvgRewards[t], 'g', -1, 64)
			} else {
				row[i+1] = ""
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// ReadRewards loads the averaged trajectories back from a run directory.
func ReadRewards(dir string) (results []benchmark.Result, err error) {
	f, err := os.Open(filepath.Join(dir, RewardsFileName))
	if err != nil {
		return nil, err
	}
	defer util.CloseWithErr(f, &err, "rewards input")
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 || len(records[0]) < 2 {
		return nil, errors.Errorf("rewards file in %s has no player columns", dir)
	}
	names := records[0][1:]
	results = make([]benchmark.Result, len(names))
	for i, name := range names {
		results[i].Player = name
	}
	for _, row := range records[1:] {
		for j, cell := range row[1:] {
			if cell == "" {
				continue
			}
			v, perr := strconv.ParseFloat(cell, 64)
			if perr != nil {
				return nil, errors.Wrapf(perr, "rewards file in %s", dir)
			}
			results[j].AvgRewards = append(results[j].AvgRewards, v)
		}
	}
	return results, nil
}

// ArchiveRun creates a compressed archive of the run directory, next to the
// files it contains.
func (r *Reporter) ArchiveRun(run Run) (name string, codec string, err error) {
	archivePath := filepath.Join(run.Dir, RunArchiveName)
	if removeErr := os.Remove(archivePath); removeErr != nil && !os.IsNotExist(removeErr) {
		return "", "", removeErr
	}
	defer func() {
		if err != nil {
			_ = os.Remove(archivePath)
		}
	}()
	file, err := os.Create(archivePath)
	if err != nil {
		return "", "", err
	}
	defer util.CloseWithErr(file, &err, "archive output")

	zw, err := zstd.NewWriter(file)
	if err != nil {
		return "", "", err
	}
	defer func() {
		if closeErr := zw.Close(); err == nil && closeErr != nil {
			err = closeErr
		}
	}()

	tw := tar.NewWriter(zw)
	defer func() {
		if closeErr := tw.Close(); err == nil && closeErr != nil {
			err = closeErr
		}
	}()

	walkErr := filepath.WalkDir(run.Dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || path == archivePath {
			return nil
		}
		rel, err := filepath.Rel(run.Dir, path)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(rel)
		if err := tw.WriteHeader(header); err != nil {
			return err
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		if _, err := io.Copy(tw, src); err != nil {
			util.CloseWithErr(src, &err, "archive source")
			return err
		}
		var closeErr error
		util.CloseWithErr(src, &closeErr, "archive source")
		return closeErr
	})
	if walkErr != nil {
		return "", "", walkErr
	}
	return RunArchiveName, RunArchiveCodec, nil
}
