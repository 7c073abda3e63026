package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/simulator"
)

// SimulateCmd plays rounds headlessly and prints the statistics
type SimulateCmd struct {
	Rounds   int    `short:"n" env:"BLACKJACK_ROUNDS" help:"Rounds to play (overrides config)"`
	Workers  int    `short:"w" env:"BLACKJACK_WORKERS" help:"Parallel workers (overrides config)"`
	Bet      int    `short:"b" env:"BLACKJACK_BET" help:"Flat bet per round (overrides config)"`
	Strategy string `short:"s" env:"BLACKJACK_STRATEGY" help:"Strategy: basic, dealer or never-bust (overrides config)"`
	Seed     *int64 `help:"Deterministic RNG seed"`
	Report   string `help:"Write a JSON report to this path"`
}

func (c *SimulateCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	sim := cfg.Simulation
	if c.Rounds != 0 {
		sim.Rounds = c.Rounds
	}
	if c.Workers != 0 {
		sim.Workers = c.Workers
	}
	if c.Bet != 0 {
		sim.Bet = c.Bet
	}
	if c.Strategy != "" {
		sim.Strategy = c.Strategy
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, closeLog, err := g.newLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := simulator.New(simulator.Config{
		Rounds:          sim.Rounds,
		Workers:         sim.Workers,
		Bet:             sim.Bet,
		Strategy:        sim.Strategy,
		Seed:            randutil.Seed(c.Seed),
		StartingBalance: cfg.Game.StartingBalance,
		Logger:          logger,
	})
	if err != nil {
		return err
	}

	result, err := s.Run(ctx)
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	fmt.Print(result.Summary())

	if c.Report != "" {
		if err := result.WriteReport(c.Report); err != nil {
			return err
		}
		logger.Info("Wrote report", "path", c.Report)
	}
	return nil
}
