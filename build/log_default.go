//go:build !stdlog && !nolog
// +build !stdlog,!nolog

package build

// LoggingType is a log type used by an application embedding the
// packages: sub-loggers come from its SubLoggerManager.
const LoggingType = LogTypeDefault
