package gt1z

import (
	"bytes"
	"fmt"
)

// Verify decodes gt1zBytes and compares the result, cell for cell and
// entry point for entry point, against the reference image loaded from
// gt1Bytes (spec.md §6.3). It reports ErrVerifyMismatch, wrapped, when
// they disagree; decode or load failures are returned as-is.
func Verify(gt1zBytes, gt1Bytes []byte, opts Options) (bool, error) {
	log := opts.logger()

	decoded, _, err := decodeStream(gt1zBytes, log)
	if err != nil {
		return false, err
	}
	reference, err := LoadGT1(bytes.NewReader(gt1Bytes), LoadGT1Options{
		StripROMv1: opts.StripROMv1,
		Log:        log,
	})
	if err != nil {
		return false, err
	}
	if !decoded.Equal(reference) {
		return false, fmt.Errorf("%w: decoded image disagrees with reference", ErrVerifyMismatch)
	}
	return true, nil
}
