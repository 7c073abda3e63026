package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// DefaultFile is the config file looked up when none is given
const DefaultFile = "blackjack.hcl"

// Strategies the simulator knows how to play
var Strategies = []string{"basic", "dealer", "never-bust"}

// Config represents the complete blackjack configuration. Every block is
// optional in the file.
type Config struct {
	Game       *GameSettings       `hcl:"game,block"`
	Server     *ServerSettings     `hcl:"server,block"`
	Log        *LogSettings        `hcl:"log,block"`
	Simulation *SimulationSettings `hcl:"simulation,block"`
}

// GameSettings contains the table rules shared by every front end
type GameSettings struct {
	StartingBalance int   `hcl:"starting_balance,optional"`
	ChipValues      []int `hcl:"chip_values,optional"`
}

// ServerSettings contains websocket service configuration
type ServerSettings struct {
	Address             string `hcl:"address,optional"`
	IdleTimeoutSeconds  int    `hcl:"idle_timeout_seconds,optional"`
	ReapIntervalSeconds int    `hcl:"reap_interval_seconds,optional"`
}

// LogSettings controls the process logger
type LogSettings struct {
	Level string `hcl:"level,optional"`
	File  string `hcl:"file,optional"`
}

// SimulationSettings controls the headless simulator
type SimulationSettings struct {
	Rounds   int    `hcl:"rounds,optional"`
	Workers  int    `hcl:"workers,optional"`
	Bet      int    `hcl:"bet,optional"`
	Strategy string `hcl:"strategy,optional"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Game: &GameSettings{
			StartingBalance: 1000,
			ChipValues:      []int{10, 25, 50, 100, 250, 500},
		},
		Server: &ServerSettings{
			Address:             "localhost:8080",
			IdleTimeoutSeconds:  1800,
			ReapIntervalSeconds: 60,
		},
		Log: &LogSettings{
			Level: "info",
		},
		Simulation: &SimulationSettings{
			Rounds:   10000,
			Workers:  4,
			Bet:      10,
			Strategy: "basic",
		},
	}
}

// Load reads configuration from an HCL file. A missing file yields the
// defaults; values absent from the file keep their defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(src, filename)
}

// Parse decodes HCL source and applies defaults
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	def := Default()

	if c.Game == nil {
		c.Game = def.Game
	}
	if c.Game.StartingBalance == 0 {
		c.Game.StartingBalance = def.Game.StartingBalance
	}
	if len(c.Game.ChipValues) == 0 {
		c.Game.ChipValues = def.Game.ChipValues
	}

	if c.Server == nil {
		c.Server = def.Server
	}
	if c.Server.Address == "" {
		c.Server.Address = def.Server.Address
	}
	if c.Server.IdleTimeoutSeconds == 0 {
		c.Server.IdleTimeoutSeconds = def.Server.IdleTimeoutSeconds
	}
	if c.Server.ReapIntervalSeconds == 0 {
		c.Server.ReapIntervalSeconds = def.Server.ReapIntervalSeconds
	}

	if c.Log == nil {
		c.Log = def.Log
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}

	if c.Simulation == nil {
		c.Simulation = def.Simulation
	}
	if c.Simulation.Rounds == 0 {
		c.Simulation.Rounds = def.Simulation.Rounds
	}
	if c.Simulation.Workers == 0 {
		c.Simulation.Workers = def.Simulation.Workers
	}
	if c.Simulation.Bet == 0 {
		c.Simulation.Bet = def.Simulation.Bet
	}
	if c.Simulation.Strategy == "" {
		c.Simulation.Strategy = def.Simulation.Strategy
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Game.StartingBalance <= 0 {
		return fmt.Errorf("starting balance must be positive: %d", c.Game.StartingBalance)
	}
	if len(c.Game.ChipValues) > 6 {
		return fmt.Errorf("at most 6 chip values are supported, got %d", len(c.Game.ChipValues))
	}
	for _, v := range c.Game.ChipValues {
		if v <= 0 {
			return fmt.Errorf("chip values must be positive: %d", v)
		}
	}
	if !slices.IsSorted(c.Game.ChipValues) {
		return fmt.Errorf("chip values must be in ascending order: %v", c.Game.ChipValues)
	}

	if c.Server.Address == "" {
		return fmt.Errorf("server address is required")
	}
	if c.Server.IdleTimeoutSeconds < 0 || c.Server.ReapIntervalSeconds <= 0 {
		return fmt.Errorf("invalid session timings: idle %ds, reap %ds",
			c.Server.IdleTimeoutSeconds, c.Server.ReapIntervalSeconds)
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Log.Level, err)
	}

	if c.Simulation.Rounds <= 0 {
		return fmt.Errorf("simulation rounds must be positive: %d", c.Simulation.Rounds)
	}
	if c.Simulation.Workers <= 0 {
		return fmt.Errorf("simulation workers must be positive: %d", c.Simulation.Workers)
	}
	if c.Simulation.Bet <= 0 || c.Simulation.Bet > c.Game.StartingBalance {
		return fmt.Errorf("simulation bet must be between 1 and %d: %d", c.Game.StartingBalance, c.Simulation.Bet)
	}
	if !slices.Contains(Strategies, c.Simulation.Strategy) {
		return fmt.Errorf("invalid strategy %s (valid: %s)", c.Simulation.Strategy, strings.Join(Strategies, ", "))
	}

	return nil
}

// LogLevel returns the parsed log level, falling back to info
func (c *Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return level
}
