package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"banditlab/internal/runinfo"
)

// Config captures all runtime options for one experiment run.
type Config struct {
	Name     string             `yaml:"name"`
	Seed     int64              `yaml:"seed"`
	Epochs   int                `yaml:"epochs"`
	Steps    int                `yaml:"steps"`
	LogEvery int                `yaml:"log_every"`
	Parallel bool               `yaml:"parallel"`
	Bandit   BanditConfig       `yaml:"bandit"`
	Players  []PlayerConfig     `yaml:"players"`
	Output   OutputConfig       `yaml:"output"`
	Storage  StorageConfig      `yaml:"storage"`
	RunInfo  *runinfo.BasicInfo `yaml:"-"`
}

// BanditConfig describes the arm layout every player's private bandit is
// built from.
type BanditConfig struct {
	Arms    int       `yaml:"arms"`
	Initial []float64 `yaml:"initial"`
	Drift   float64   `yaml:"drift"`
}

// PlayerConfig describes one player of the experiment.
type PlayerConfig struct {
	Name     string         `yaml:"name"`
	Epsilon  float64        `yaml:"epsilon"`
	Steps    int            `yaml:"steps"` // zero falls back to the top-level default
	Optimist bool           `yaml:"optimist"`
	Baseline *float64       `yaml:"baseline"` // nil means 5, an explicit zero stays zero
	Strategy StrategyConfig `yaml:"strategy"`
}

// StrategyConfig selects and parameterizes a player's estimator.
type StrategyConfig struct {
	Kind        string  `yaml:"kind"`
	Alpha       float64 `yaml:"alpha"`
	Exploration float64 `yaml:"exploration"`
}

// Strategy kinds accepted in config files.
const (
	KindSampleAverages = "sample-averages"
	KindConstantStep   = "constant-step"
	KindUCB            = "ucb"
	KindGradient       = "gradient"
)

// OutputConfig controls run artifacts.
type OutputConfig struct {
	Dir     string `yaml:"dir"`
	Charts  bool   `yaml:"charts"`
	Archive bool   `yaml:"archive"`
}

// StorageConfig holds external storage settings.
type StorageConfig struct {
	S3  S3Config  `yaml:"s3"`
	GCS GCSConfig `yaml:"gcs"`
}

// CloudEnabled reports whether any cloud storage backend is enabled.
func (s StorageConfig) CloudEnabled() bool {
	return s.GCS.Enabled || s.S3.Enabled
}

// S3Config configures S3 uploads (AWS and S3-compatible endpoints).
type S3Config struct {
	Enabled         bool   `yaml:"enabled"`
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	Bucket          string `yaml:"bucket"`
	Prefix          string `yaml:"prefix"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	SessionToken    string `yaml:"session_token"`
	UsePathStyle    bool   `yaml:"use_path_style"`
}

// GCSConfig configures GCS uploads.
type GCSConfig struct {
	Enabled         bool   `yaml:"enabled"`
	Bucket          string `yaml:"bucket"`
	Prefix          string `yaml:"prefix"`
	CredentialsFile string `yaml:"credentials_file"`
}

// Load reads configuration from a YAML file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	normalizeConfig(&cfg)
	cfg.RunInfo = runinfo.FromEnv()
	return cfg, nil
}

const (
	epochsDefault      = 2000
	stepsDefault       = 1000
	armsDefault        = 10
	logEveryDefault    = 200
	alphaDefault       = 0.1
	explorationDefault = 2.0
	baselineDefault    = 5.0
)

func defaultConfig() Config {
	return Config{
		Name:     "bandit experiment",
		Epochs:   epochsDefault,
		Steps:    stepsDefault,
		LogEvery: logEveryDefault,
		Bandit:   BanditConfig{Arms: armsDefault},
		Output:   OutputConfig{Dir: "runs", Charts: true},
	}
}

func normalizeConfig(cfg *Config) {
	if cfg.Epochs <= 0 {
		cfg.Epochs = epochsDefault
	}
	if cfg.Steps <= 0 {
		cfg.Steps = stepsDefault
	}
	if cfg.Bandit.Arms <= 0 {
		if len(cfg.Bandit.Initial) > 0 {
			cfg.Bandit.Arms = len(cfg.Bandit.Initial)
		} else {
			cfg.Bandit.Arms = armsDefault
		}
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "runs"
	}
	for i := range cfg.Players {
		p := &cfg.Players[i]
		if p.Steps <= 0 {
			p.Steps = cfg.Steps
		}
		if p.Strategy.Kind == "" {
			p.Strategy.Kind = KindSampleAverages
		}
		if p.Strategy.Alpha <= 0 {
			p.Strategy.Alpha = alphaDefault
		}
		if p.Strategy.Exploration <= 0 {
			p.Strategy.Exploration = explorationDefault
		}
		if p.Baseline == nil {
			b := baselineDefault
			p.Baseline = &b
		}
		if p.Name == "" {
			p.Name = fmt.Sprintf("player-%d-%s", i+1, p.Strategy.Kind)
		}
	}
}
