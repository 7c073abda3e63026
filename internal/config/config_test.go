package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blackjack.hcl")
	src := `
game {
  starting_balance = 500
  chip_values      = [5, 10, 25]
}

server {
  address = ":9000"
}

log {
  level = "debug"
  file  = "blackjack.log"
}
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 500, cfg.Game.StartingBalance)
	assert.Equal(t, []int{5, 10, 25}, cfg.Game.ChipValues)
	assert.Equal(t, ":9000", cfg.Server.Address)
	assert.Equal(t, 1800, cfg.Server.IdleTimeoutSeconds, "default kept")
	assert.Equal(t, log.DebugLevel, cfg.LogLevel())
	assert.Equal(t, "blackjack.log", cfg.Log.File)
	assert.Equal(t, Default().Simulation, cfg.Simulation, "missing block uses defaults")
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte(`game {`), "broken.hcl")
	assert.ErrorContains(t, err, "failed to parse")

	_, err = Parse([]byte(`game { starting_balance = "lots" }`), "typed.hcl")
	assert.ErrorContains(t, err, "failed to decode")

	_, err = Parse([]byte(`casino {}`), "unknown.hcl")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"non-positive balance", func(c *Config) { c.Game.StartingBalance = 0 }, "starting balance"},
		{"too many chips", func(c *Config) { c.Game.ChipValues = []int{1, 2, 3, 4, 5, 6, 7} }, "at most 6"},
		{"negative chip", func(c *Config) { c.Game.ChipValues = []int{-5, 10} }, "positive"},
		{"unsorted chips", func(c *Config) { c.Game.ChipValues = []int{50, 10} }, "ascending"},
		{"empty address", func(c *Config) { c.Server.Address = "" }, "address"},
		{"zero reap interval", func(c *Config) { c.Server.ReapIntervalSeconds = 0 }, "session timings"},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "log level"},
		{"zero rounds", func(c *Config) { c.Simulation.Rounds = 0 }, "rounds"},
		{"zero workers", func(c *Config) { c.Simulation.Workers = 0 }, "workers"},
		{"bet above balance", func(c *Config) { c.Simulation.Bet = 5000 }, "bet"},
		{"unknown strategy", func(c *Config) { c.Simulation.Strategy = "martingale" }, "invalid strategy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.errMsg)
		})
	}
}

func TestLogLevelFallback(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "nonsense"
	assert.Equal(t, log.InfoLevel, cfg.LogLevel())
}
