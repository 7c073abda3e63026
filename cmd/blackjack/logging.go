package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/config"
)

// newLogger builds the process logger. Logs go to the configured file when
// there is one, otherwise to fallback. The returned func closes the file.
func (g *Globals) newLogger(cfg *config.Config, fallback io.Writer) (*log.Logger, func(), error) {
	level := cfg.LogLevel()
	if g.Debug {
		level = log.DebugLevel
	}

	path := cfg.Log.File
	if g.LogFile != "" {
		path = g.LogFile
	}

	w := fallback
	closeFn := func() {}
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w = f
		closeFn = func() { _ = f.Close() }
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           level,
	})
	return logger, closeFn, nil
}
