package main

import (
	"fmt"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/lox/blackjack/internal/config"
)

// version is set by ldflags during build
var version = "dev"

// Globals are flags shared by every command
type Globals struct {
	Config  string `short:"c" default:"${config_file}" env:"BLACKJACK_CONFIG" help:"HCL config file (missing file means defaults)"`
	Debug   bool   `env:"BLACKJACK_DEBUG" help:"Enable debug logging"`
	LogFile string `env:"BLACKJACK_LOG_FILE" help:"Write logs to this file"`
}

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" default:"1" help:"Play blackjack in the terminal"`
	Serve    ServeCmd         `cmd:"" help:"Serve blackjack sessions over WebSocket"`
	Simulate SimulateCmd      `cmd:"" help:"Play rounds headlessly with a fixed strategy"`
}

// loadConfig reads the config file. Commands apply their flag overrides and
// then call Validate.
func (g *Globals) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", g.Config, err)
	}
	return cfg, nil
}

func main() {
	// A missing .env is fine
	_ = godotenv.Load()

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("blackjack"),
		kong.Description("Single-player blackjack against the dealer"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version":     version,
			"config_file": config.DefaultFile,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
