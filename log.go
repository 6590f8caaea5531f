package btckit

import (
	"fmt"

	"github.com/blockchaincommons/btckit/btcfg"
	"github.com/blockchaincommons/btckit/build"
	"github.com/blockchaincommons/btckit/chain"
	"github.com/blockchaincommons/btckit/codec"
	"github.com/blockchaincommons/btckit/eckey"
	"github.com/blockchaincommons/btckit/hdkey"
	"github.com/blockchaincommons/btckit/keychain"
	"github.com/blockchaincommons/btckit/mnemonic"
	"github.com/btcsuite/btclog/v2"
)

// Subsystem defines the logging code for this subsystem.
const Subsystem = "BKIT"

// log is a logger that is initialized with the btclog.Disabled logger.
var log btclog.Logger

// The default amount of logging is none.
func init() {
	UseLogger(build.NewSubLogger(Subsystem, nil))
}

// DisableLog disables all logging output.
func DisableLog() {
	UseLogger(btclog.Disabled)
}

// UseLogger uses a specified Logger to output package logging info.
func UseLogger(logger btclog.Logger) {
	log = logger
}

// SetupLoggers initializes all package-global logger variables.
func SetupLoggers(root *build.SubLoggerManager) {
	AddSubLogger(root, Subsystem, UseLogger)
	AddSubLogger(root, codec.Subsystem, codec.UseLogger)
	AddSubLogger(root, eckey.Subsystem, eckey.UseLogger)
	AddSubLogger(root, hdkey.Subsystem, hdkey.UseLogger)
	AddSubLogger(root, mnemonic.Subsystem, mnemonic.UseLogger)
	AddSubLogger(root, chain.Subsystem, chain.UseLogger)
	AddSubLogger(root, keychain.Subsystem, keychain.UseLogger)
}

// AddSubLogger is a helper method to conveniently create and register the
// logger of one or more sub systems.
func AddSubLogger(root *build.SubLoggerManager, subsystem string,
	useLoggers ...func(btclog.Logger)) {

	// Create and register just a single logger to prevent them from
	// overwriting each other internally.
	logger := root.GenSubLogger(subsystem)
	SetSubLogger(root, subsystem, logger, useLoggers...)
}

// SetSubLogger is a helper method to conveniently register the logger of a
// sub system.
func SetSubLogger(root *build.SubLoggerManager, subsystem string,
	logger btclog.Logger, useLoggers ...func(btclog.Logger)) {

	root.RegisterSubLogger(subsystem, logger)
	for _, useLogger := range useLoggers {
		useLogger(logger)
	}
}

// Logging bundles the sub-logger manager built from a config with the log
// file writer feeding it.
type Logging struct {
	// Manager holds every registered subsystem logger.
	Manager *build.SubLoggerManager

	rotator *build.RotatingLogWriter
}

// NewLogging builds the console and rotating file handlers described by
// cfg, registers every subsystem logger on them and applies the configured
// debug level. The file handler is only added when a log directory is set.
func NewLogging(cfg *btcfg.Config) (*Logging, error) {
	var rotator *build.RotatingLogWriter
	if logFile := cfg.LogFile(); logFile != "" {
		rotator = build.NewRotatingLogWriter()
		err := rotator.InitLogRotator(cfg.Log.File, logFile)
		if err != nil {
			return nil, fmt.Errorf("unable to init log rotator: %w",
				err)
		}
	}

	manager := build.NewSubLoggerManager(
		build.NewDefaultLoggers(cfg.Log, rotator)...,
	)
	SetupLoggers(manager)

	err := build.ParseAndSetDebugLevels(cfg.DebugLevel, manager)
	if err != nil {
		if rotator != nil {
			_ = rotator.Close()
		}

		return nil, err
	}

	return &Logging{
		Manager: manager,
		rotator: rotator,
	}, nil
}

// SetLogLevels applies a debug level string such as "info" or
// "debug,HDKY=trace" to the registered loggers.
func (l *Logging) SetLogLevels(level string) error {
	return build.ParseAndSetDebugLevels(level, l.Manager)
}

// Close flushes and closes the log file, if any.
func (l *Logging) Close() error {
	if l.rotator == nil {
		return nil
	}

	return l.rotator.Close()
}
