package gt1z

import (
	"bytes"

	"github.com/lb3361/gt1z/internal/gtlog"
	"go.uber.org/zap"
)

// Options configures the top-level Compress/Decompress/Verify
// operations. The zero value uses the package's environment-driven
// defaults (gtconfig) and discards diagnostics.
type Options struct {
	// Log receives diagnostics (spec.md §7). Nil discards them.
	Log *zap.SugaredLogger
	// StripROMv1 overrides gtconfig.StripROMv1 when loading a GT1
	// image (nil uses the default).
	StripROMv1 *bool
}

func (o Options) logger() gtlog.Logger {
	if o.Log == nil {
		return gtlog.Nop()
	}
	return gtlog.New(o.Log)
}

// Compress reads gt1 as a GT1 stream and returns the equivalent GT1Z
// stream, trying every representable back-reference for every
// position via an optimal per-segment parse (spec.md §4.2-§4.5). The
// returned relocatable flag is false if the image's own segment
// layout forces a non-contiguous (long-form) segment transition.
func Compress(gt1 []byte, opts Options) ([]byte, bool, error) {
	log := opts.logger()

	img, err := LoadGT1(bytes.NewReader(gt1), LoadGT1Options{
		StripROMv1: opts.StripROMv1,
		Log:        log,
	})
	if err != nil {
		return nil, false, err
	}

	segs := img.Segments()
	tbl := img.Tokenize(2)

	var buf bytes.Buffer
	e, err := newEmitter(&buf, log)
	if err != nil {
		return nil, false, err
	}

	for _, seg := range segs {
		if err := e.segment(seg.Addr); err != nil {
			return nil, false, err
		}
		ch := newChart(img, seg.Addr, seg.Length, e.prevOff)
		ch.populate(tbl)
		e.predicted = e.written + ch.c[seg.Length]
		ch.emitTo(e)
	}
	if err := e.finish(int(img.Entry)); err != nil {
		return nil, false, err
	}

	return buf.Bytes(), e.relocatable, nil
}

// Decompress reads gt1zBytes as a GT1Z stream and returns the
// equivalent GT1 stream (spec.md §4.6). The returned relocatable flag
// mirrors the one Compress produced for the original image, provided
// gt1zBytes was itself produced by Compress.
func Decompress(gt1zBytes []byte, opts Options) ([]byte, bool, error) {
	log := opts.logger()

	img, relocatable, err := decodeStream(gt1zBytes, log)
	if err != nil {
		return nil, false, err
	}

	var buf bytes.Buffer
	if err := img.SaveGT1(&buf); err != nil {
		return nil, false, err
	}
	return buf.Bytes(), relocatable, nil
}
