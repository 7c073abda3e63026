package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coder/quartz"

	"github.com/lox/blackjack/internal/server"
)

// ServeCmd runs the WebSocket service
type ServeCmd struct {
	Addr        string        `env:"BLACKJACK_ADDR" help:"Listen address (overrides config)"`
	IdleTimeout time.Duration `env:"BLACKJACK_IDLE_TIMEOUT" help:"Drop sessions idle for this long (overrides config)"`
}

func (c *ServeCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	if c.Addr != "" {
		cfg.Server.Address = c.Addr
	}
	if c.IdleTimeout > 0 {
		cfg.Server.IdleTimeoutSeconds = int(c.IdleTimeout / time.Second)
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

	srv := server.NewServer(server.Config{
		Address:         cfg.Server.Address,
		StartingBalance: cfg.Game.StartingBalance,
		ChipValues:      cfg.Game.ChipValues,
		IdleTimeout:     time.Duration(cfg.Server.IdleTimeoutSeconds) * time.Second,
		ReapInterval:    time.Duration(cfg.Server.ReapIntervalSeconds) * time.Second,
	}, logger, quartz.NewReal())

	logger.Info("Starting blackjack server",
		"address", cfg.Server.Address,
		"starting_balance", cfg.Game.StartingBalance,
		"idle_timeout", time.Duration(cfg.Server.IdleTimeoutSeconds)*time.Second)

	return srv.Start(ctx)
}
