package main

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/tui"
)

// PlayCmd runs the interactive terminal game
type PlayCmd struct {
	StartingBalance int    `env:"BLACKJACK_STARTING_BALANCE" help:"Starting chip balance (overrides config)"`
	Seed            *int64 `help:"Deterministic shuffle seed"`
	NoColor         bool   `env:"BLACKJACK_NO_COLOR" help:"Render without colors"`
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	if c.StartingBalance != 0 {
		cfg.Game.StartingBalance = c.StartingBalance
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Logs would tear the screen, so they are dropped unless a file is set
	logger, closeLog, err := g.newLogger(cfg, io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()

	if c.NoColor {
		tui.DisableColor()
	}

	seed := randutil.Seed(c.Seed)
	logger.Info("Starting game", "seed", seed, "balance", cfg.Game.StartingBalance)

	engine := game.NewEngine(
		game.WithLogger(logger),
		game.WithRNG(randutil.New(seed)),
		game.WithStartingBalance(cfg.Game.StartingBalance),
	)
	return tui.Run(engine, cfg.Game.ChipValues, logger, tea.WithAltScreen())
}
