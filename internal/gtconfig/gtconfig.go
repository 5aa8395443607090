// Package gtconfig reads the codec's two environment-driven defaults.
// Everything else about the codec is an explicit function argument;
// these are the only ambient knobs, matching the original tool's
// choice to hardcode them as compiled-in defaults (spec.md §4.1).
package gtconfig

import "github.com/xyproto/env/v2"

const (
	stripROMv1Var = "GT1Z_STRIP_ROMV1"
	logLevelVar   = "GT1Z_LOG_LEVEL"
)

// StripROMv1 reports whether GT1 loading should strip the ROMv1
// loader patch by default (spec.md §4.1). Defaults to true.
func StripROMv1() bool {
	return env.Bool(stripROMv1Var, true)
}

// LogLevel returns the default logging severity name ("debug",
// "info", or "warn"). Defaults to "warn", matching the original
// tool's default verbosity of 0.
func LogLevel() string {
	return env.Str(logLevelVar, "warn")
}
