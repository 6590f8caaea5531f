//go:build critical
// +build critical

package build

// LogLevel specifies a default log level of critical.
var LogLevel = "critical"
