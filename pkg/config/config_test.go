package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boristopalov/mdpsim/pkg/layout"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "experiment.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.Environment.Slippery)
	assert.Equal(t, "grid", cfg.Environment.Topology)
	assert.Nil(t, cfg.Environment.StartState)
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
name = "corridor_walk"
episodes = 20
workers = 2
seed = 42

[environment]
topology = "corridor"
slippery = false
layout = ["HSFG"]
start_state = 2

[logging]
level = "debug"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "corridor_walk", cfg.Name)
	assert.Equal(t, 20, cfg.Episodes)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, 100, cfg.MaxSteps, "unset keys keep defaults")
	assert.Equal(t, 0.2, cfg.Environment.SlipProbability)
	assert.Equal(t, "corridor", cfg.Environment.Topology)
	assert.False(t, cfg.Environment.Slippery)
	assert.Equal(t, []string{"HSFG"}, cfg.Environment.Layout)
	require.NotNil(t, cfg.Environment.StartState)
	assert.Equal(t, 2, *cfg.Environment.StartState)

	level, err := cfg.Logging.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadConfigErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
	t.Run("unknown key", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "episodez = 3\n"))
		assert.ErrorIs(t, err, layout.ErrConfig)
	})
	t.Run("bad syntax", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "episodes = \n"))
		assert.ErrorIs(t, err, layout.ErrConfig)
	})
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvSlippery, "false")
	t.Setenv(EnvSeed, "99")
	t.Setenv(EnvTopology, " Corridor ")
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvWorkers, "8")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv())
	require.NoError(t, cfg.Validate())

	assert.False(t, cfg.Environment.Slippery)
	assert.Equal(t, int64(99), cfg.Seed)
	assert.Equal(t, "corridor", cfg.Environment.Topology)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, 8, cfg.Workers)
}

func TestApplyEnvRejectsBadValues(t *testing.T) {
	for _, key := range []string{EnvSlippery, EnvSeed, EnvWorkers} {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, "not-a-value")
			err := Default().ApplyEnv()
			assert.ErrorIs(t, err, layout.ErrConfig)
		})
	}
}

func TestValidate(t *testing.T) {
	neg := -3
	cases := []struct {
		name   string
		mutate func(*ExperimentConfig)
	}{
		{"episodes", func(c *ExperimentConfig) { c.Episodes = 0 }},
		{"max steps", func(c *ExperimentConfig) { c.MaxSteps = -1 }},
		{"workers", func(c *ExperimentConfig) { c.Workers = 0 }},
		{"history", func(c *ExperimentConfig) { c.History = -1 }},
		{"topology", func(c *ExperimentConfig) { c.Environment.Topology = "torus" }},
		{"slip probability", func(c *ExperimentConfig) { c.Environment.SlipProbability = 1.5 }},
		{"start state", func(c *ExperimentConfig) { c.Environment.StartState = &neg }},
		{"log level", func(c *ExperimentConfig) { c.Logging.Level = "loud" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), layout.ErrConfig)
		})
	}
}
