//go:build !trace && !debug && !warn && !error && !critical && !off
// +build !trace,!debug,!warn,!error,!critical,!off

package build

// LogLevel specifies a default log level of info.
var LogLevel = "info"
