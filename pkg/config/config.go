package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/boristopalov/mdpsim/pkg/layout"
)

// Environment variables that override file values.
const (
	EnvSlippery = "MDPSIM_SLIPPERY"
	EnvSeed     = "MDPSIM_SEED"
	EnvTopology = "MDPSIM_TOPOLOGY"
	EnvLogLevel = "MDPSIM_LOG_LEVEL"
	EnvWorkers  = "MDPSIM_WORKERS"
)

type ExperimentConfig struct {
	Name        string    `toml:"name"`
	Episodes    int       `toml:"episodes"`
	MaxSteps    int       `toml:"max_steps"`
	Workers     int       `toml:"workers"`
	Seed        int64     `toml:"seed"`
	History     int       `toml:"history"`
	Chart       string    `toml:"chart"`
	Environment EnvConfig `toml:"environment"`
	Logging     LogConfig `toml:"logging"`
}

type LogConfig struct {
	Level string `toml:"level"`
	Path  string `toml:"path"`
}

type EnvConfig struct {
	Topology        string   `toml:"topology"`
	Slippery        bool     `toml:"slippery"`
	SlipProbability float64  `toml:"slip_probability"`
	Layout          []string `toml:"layout"`
	// StartState overrides the S cell when set.
	StartState *int `toml:"start_state"`
}

// Default is the slippery 4x4 lake with a short random rollout.
func Default() *ExperimentConfig {
	return &ExperimentConfig{
		Name:     "frozen_lake",
		Episodes: 100,
		MaxSteps: 100,
		Workers:  4,
		Seed:     1,
		History:  256,
		Environment: EnvConfig{
			Topology:        "grid",
			Slippery:        true,
			SlipProbability: 0.2,
		},
		Logging: LogConfig{
			Level: "info",
		},
	}
}

// LoadConfig reads a TOML file on top of Default. Keys the file does not
// set keep their default; unknown keys are an error.
func LoadConfig(path string) (*ExperimentConfig, error) {
	cfg := Default()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	if err := toml.NewDecoder(f).DisallowUnknownFields().Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, layout.ConfigErrorf("file", "%s: %s", path, strict.String())
		}
		return nil, layout.ConfigErrorf("file", "%s: %v", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from MDPSIM_* variables that are set.
func (c *ExperimentConfig) ApplyEnv() error {
	if v, ok := os.LookupEnv(EnvSlippery); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return layout.ConfigErrorf(EnvSlippery, "%q is not a boolean", v)
		}
		c.Environment.Slippery = b
	}
	if v, ok := os.LookupEnv(EnvSeed); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return layout.ConfigErrorf(EnvSeed, "%q is not an integer", v)
		}
		c.Seed = n
	}
	if v, ok := os.LookupEnv(EnvTopology); ok {
		c.Environment.Topology = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		c.Logging.Level = v
	}
	if v, ok := os.LookupEnv(EnvWorkers); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return layout.ConfigErrorf(EnvWorkers, "%q is not an integer", v)
		}
		c.Workers = n
	}
	return nil
}

func (c *ExperimentConfig) Validate() error {
	if c.Episodes < 1 {
		return layout.ConfigErrorf("episodes", "must be at least 1, got %d", c.Episodes)
	}
	if c.MaxSteps < 1 {
		return layout.ConfigErrorf("max_steps", "must be at least 1, got %d", c.MaxSteps)
	}
	if c.Workers < 1 {
		return layout.ConfigErrorf("workers", "must be at least 1, got %d", c.Workers)
	}
	if c.History < 0 {
		return layout.ConfigErrorf("history", "must not be negative, got %d", c.History)
	}
	switch strings.ToLower(c.Environment.Topology) {
	case "", "grid", "corridor":
	default:
		return layout.ConfigErrorf("environment.topology", "unknown topology %q", c.Environment.Topology)
	}
	if p := c.Environment.SlipProbability; p < 0 || p > 1 {
		return layout.ConfigErrorf("environment.slip_probability", "%v is outside [0, 1]", p)
	}
	if s := c.Environment.StartState; s != nil && *s < 0 {
		return layout.ConfigErrorf("environment.start_state", "must not be negative, got %d", *s)
	}
	if _, err := c.Logging.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses Level. An empty level means info.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if l.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo, layout.ConfigErrorf("logging.level", "unknown level %q", l.Level)
	}
	return level, nil
}
