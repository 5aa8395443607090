// Package gt1z implements the GT1/GT1Z codec pair: a loader/saver for
// the sparse GT1 program-image format used by the Gigatron TTL
// computer toolchain, and a compressor/decompressor for its GT1Z
// container, which preserves every byte of every segment and the
// entry point while exploiting in-page byte runs and recurring
// 2-byte sequences.
package gt1z

import (
	"errors"
	"fmt"
)

// ErrCorruptInput is returned when a GT1 or GT1Z stream violates the
// format's structural invariants (a record overrunning its page, a
// missing magic number, a truncated token stream, an offset with the
// high bit set in long form, or an offset whose source would cross a
// page boundary).
var ErrCorruptInput = errors.New("gt1z: corrupt input")

// ErrIO wraps an underlying read/write failure. Use errors.Is(err,
// ErrIO) to detect it; errors.Unwrap recovers the original error.
var ErrIO = errors.New("gt1z: i/o error")

// ErrVerifyMismatch is returned by Verify when a decoded GT1Z stream
// does not match the reference GT1 image byte-for-byte.
var ErrVerifyMismatch = errors.New("gt1z: verify mismatch")

// corruptf builds an ErrCorruptInput-wrapping error with detail.
func corruptf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCorruptInput, fmt.Sprintf(format, args...))
}

// ioErrf wraps an I/O failure with context. Both ErrIO and the
// original cause satisfy errors.Is against the returned error.
func ioErrf(cause error, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %w", ErrIO, fmt.Sprintf(format, args...), cause)
}
