//go:build warn
// +build warn

package build

// LogLevel specifies a default log level of warn.
var LogLevel = "warn"
