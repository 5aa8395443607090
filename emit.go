package gt1z

import (
	"io"

	"github.com/lb3361/gt1z/internal/gtlog"
)

// gt1zMagic is the 2-byte file header every GT1Z stream begins with
// (spec.md §4.5, §6.2).
var gt1zMagic = [2]byte{0x00, 0xFF}

// emitter writes the GT1Z token stream (spec.md §4.5): it buffers
// pending literals and flushes them alongside the next match or
// control token, and threads the "previous offset" used for the
// short-form offset-reuse optimization across the whole stream.
type emitter struct {
	w           io.Writer
	addr        int
	segaddr     int
	prevOff     int
	lits        []byte
	written     int
	predicted   int
	relocatable bool
	log         gtlog.Logger
}

// newEmitter writes the magic header and returns a ready emitter.
func newEmitter(w io.Writer, log gtlog.Logger) (*emitter, error) {
	e := &emitter{
		w: w, addr: -1, segaddr: -1, prevOff: 1,
		written: len(gt1zMagic), predicted: -1,
		relocatable: true, log: log,
	}
	if _, err := w.Write(gt1zMagic[:]); err != nil {
		return nil, ioErrf(err, "writing GT1Z magic")
	}
	return e, nil
}

func (e *emitter) write(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	if _, err := e.w.Write(b); err != nil {
		return ioErrf(err, "writing GT1Z stream")
	}
	e.written += len(b)
	return nil
}

// literal buffers n bytes starting at addr in img and advances the
// write address's low byte by n.
func (e *emitter) literal(img *Image, addr, n int) {
	for i := 0; i < n; i++ {
		e.lits = append(e.lits, byte(img.cells[addr+i]))
	}
	e.addr = (e.addr &^ 0xFF) + ((e.addr + n) & 0xFF)
}

// match flushes the buffered literals together with a match of length
// mcnt at offset off (or, when mcnt == 0, a segment-control token; off
// is then only used to decide the D bit and is otherwise ignored).
func (e *emitter) match(mcnt, off int) error {
	nlits := len(e.lits)
	var token int
	if nlits < 7 {
		token = nlits << 4
	} else {
		token = 7 << 4
	}
	if off != e.prevOff {
		token |= 0x80
	}
	if mcnt > 0 {
		e.prevOff = off
	}
	if mcnt >= 2 {
		if mcnt-1 < 15 {
			token |= mcnt - 1
		} else {
			token |= 15
		}
	}

	head := []byte{byte(token)}
	if token&0x70 == 0x70 {
		head = append(head, byte(nlits))
	}
	if err := e.write(head); err != nil {
		return err
	}
	if err := e.write(e.lits); err != nil {
		return err
	}
	e.lits = e.lits[:0]

	var tail []byte
	if token&0xF == 0xF {
		tail = append(tail, byte(mcnt))
	}
	if mcnt > 0 && token&0x80 != 0 {
		t := segmentT(e.addr, e.segaddr)
		tail = append(tail, encodeOffset(e.prevOff, t)...)
	}
	if err := e.write(tail); err != nil {
		return err
	}

	e.addr = (e.addr &^ 0xFF) + ((e.addr + mcnt) & 0xFF)
	return nil
}

// segmentImpl implements both the ordinary segment transition
// (execlo < 0) and the end-of-stream terminator (execlo >= 0, called
// only from finish). adr is a full 16-bit address in the former case
// and just the entry point's high byte in the latter, mirroring the
// original Outputter::segment's dual use.
func (e *emitter) segmentImpl(adr, execlo int) error {
	longseg := true
	if e.segaddr >= 0 {
		longseg = execlo >= 0 || (adr-e.segaddr != 0x100)
		if longseg && execlo < 0 {
			e.relocatable = false
		}
		off := -1
		if longseg {
			off = e.prevOff
		}
		if err := e.match(0, off); err != nil {
			return err
		}
		if e.predicted >= 0 {
			e.log.Debug("written %d predicted %d", e.written, e.predicted)
		}
	}

	var buf []byte
	if longseg {
		buf = append(buf, byte(adr>>8), byte(adr))
	}
	if execlo >= 0 {
		buf = append(buf, byte(execlo))
	} else {
		e.addr, e.segaddr = adr, adr
	}
	return e.write(buf)
}

// segment starts a new segment at adr, emitting a control token first
// unless this is the very first segment of the stream.
func (e *emitter) segment(adr int) error {
	return e.segmentImpl(adr, -1)
}

// finish emits the end-of-stream terminator carrying entry, the
// image's entry point (spec.md §4.5, resolved open question in
// DESIGN.md: the terminator reuses the long-form segment-control
// layout with a 3rd byte).
func (e *emitter) finish(entry int) error {
	if err := e.segmentImpl((entry>>8)&0xFF, entry&0xFF); err != nil {
		return err
	}
	e.log.Info("written %d bytes", e.written)
	return nil
}
