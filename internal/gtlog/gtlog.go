// Package gtlog provides the leveled, non-fatal diagnostics the codec
// emits while loading, compressing, and decoding images: excess bytes
// at end of file, ROMv1 patch stripping, bytes written, and a
// per-segment trace. None of these affect control flow;
// they are purely informational, matching spec.md §7.
package gtlog

import "go.uber.org/zap"

// Logger is a nil-safe wrapper around a *zap.SugaredLogger. The zero
// value discards everything, so callers that don't care about
// diagnostics can simply pass an uninitialized Logger.
type Logger struct {
	s *zap.SugaredLogger
}

// New wraps an existing sugared logger. Passing nil is equivalent to
// the zero value.
func New(s *zap.SugaredLogger) Logger {
	return Logger{s: s}
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return Logger{}
}

// Warn logs a level-0 diagnostic: conditions the original C++ tool
// reports regardless of verbosity (excess bytes in file).
func (l Logger) Warn(format string, args ...any) {
	if l.s == nil {
		return
	}
	l.s.Warnf(format, args...)
}

// Info logs a level-1 diagnostic: high-level progress (ROMv1 patch
// stripped, bytes written).
func (l Logger) Info(format string, args ...any) {
	if l.s == nil {
		return
	}
	l.s.Infof(format, args...)
}

// Debug logs a level-2 diagnostic: per-segment trace, the
// written/predicted byte-count cross-check.
func (l Logger) Debug(format string, args ...any) {
	if l.s == nil {
		return
	}
	l.s.Debugf(format, args...)
}
