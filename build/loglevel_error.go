//go:build error
// +build error

package build

// LogLevel specifies a default log level of error.
var LogLevel = "error"
