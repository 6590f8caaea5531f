package build

import (
	"io"
	"os"

	"github.com/btcsuite/btclog/v2"
)

// NewDefaultLoggers returns the handlers configured by cfg: a console handler
// writing to stdout and, when rotator is non-nil, a handler writing to the
// rotating log file. Disabled loggers are left out.
func NewDefaultLoggers(cfg *LogConfig,
	rotator *RotatingLogWriter) []btclog.Handler {

	return newLoggers(cfg, os.Stdout, rotator)
}

// newLoggers is NewDefaultLoggers with the console writer injected.
func newLoggers(cfg *LogConfig, console io.Writer,
	rotator *RotatingLogWriter) []btclog.Handler {

	var handlers []btclog.Handler
	if !cfg.Console.Disable {
		handlers = append(handlers, btclog.NewDefaultHandler(
			console, cfg.Console.HandlerOptions()...,
		))
	}

	if rotator != nil && !cfg.File.Disable {
		handlers = append(handlers, btclog.NewDefaultHandler(
			rotator, cfg.File.HandlerOptions()...,
		))
	}

	return handlers
}
