//go:build off
// +build off

package build

// LogLevel specifies a default log level of off.
var LogLevel = "off"
