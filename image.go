package gt1z

import (
	"bufio"
	"io"

	"github.com/lb3361/gt1z/internal/gtconfig"
	"github.com/lb3361/gt1z/internal/gtlog"
)

// absent marks a cell that holds no byte.
const absent int16 = -1

// Image is a sparse 64 KiB memory load: each of the 65,536 cells
// either holds a byte 0..255 or is absent, plus a 16-bit entry point.
// Image equality (Equal) is pointwise over all 65,536 cells and the
// entry point (spec.md §3).
type Image struct {
	cells [65536]int16
	Entry uint16
}

// NewImage returns an empty image: every cell absent, entry point 0.
func NewImage() *Image {
	img := &Image{}
	for i := range img.cells {
		img.cells[i] = absent
	}
	return img
}

// Get returns the byte at addr and whether it is present.
func (img *Image) Get(addr uint16) (b byte, ok bool) {
	c := img.cells[addr]
	if c == absent {
		return 0, false
	}
	return byte(c), true
}

// Set stores a byte at addr. Overwriting a previously set cell is
// permitted; last write wins (spec.md §4.1).
func (img *Image) Set(addr uint16, b byte) {
	img.cells[addr] = int16(b)
}

// Clear marks addr absent.
func (img *Image) Clear(addr uint16) {
	img.cells[addr] = absent
}

// Equal reports whether img and other agree on every cell and the
// entry point.
func (img *Image) Equal(other *Image) bool {
	if img.Entry != other.Entry {
		return false
	}
	return img.cells == other.cells
}

// LoadGT1Options configures LoadGT1.
type LoadGT1Options struct {
	// StripROMv1 controls whether the ROMv1 loader-patch stripping
	// described in spec.md §4.1 runs after loading. If nil, the
	// package-level default from gtconfig is used.
	StripROMv1 *bool
	Log        gtlog.Logger
}

// LoadGT1 reads a GT1 stream from r: a sequence of 3-byte-header data
// records terminated by a zero-address-high-byte record whose
// remaining two bytes are the entry point (spec.md §4.1, §6.1).
func LoadGT1(r io.Reader, opts LoadGT1Options) (*Image, error) {
	strip := gtconfig.StripROMv1()
	if opts.StripROMv1 != nil {
		strip = *opts.StripROMv1
	}
	log := opts.Log

	br := bufio.NewReader(r)
	img := NewImage()

	hdr := make([]byte, 3)
	if _, err := io.ReadFull(br, hdr); err != nil {
		return nil, ioErrf(err, "reading GT1 record header")
	}
	for {
		if hdr[0] == 0 {
			img.Entry = uint16(hdr[1])<<8 | uint16(hdr[2])
			break
		}
		addr := int(hdr[0])<<8 | int(hdr[1])
		length := int(hdr[2])
		if length == 0 {
			length = 256
		}
		if int(hdr[1])+length > 256 {
			return nil, corruptf("data record at 0x%04x, len %d overruns its page", addr, length)
		}

		payload := make([]byte, length)
		if _, err := io.ReadFull(br, payload); err != nil {
			return nil, ioErrf(err, "reading GT1 payload at 0x%04x", addr)
		}
		for i, b := range payload {
			img.Set(uint16(addr+i), b)
		}

		if _, err := io.ReadFull(br, hdr); err != nil {
			return nil, ioErrf(err, "reading GT1 record header")
		}
	}

	if _, err := br.Peek(1); err == nil {
		log.Warn("excess bytes found in GT1 stream")
	}

	if strip {
		img.stripROMv1(log)
	}
	return img, nil
}

// stripROMv1 removes the ROMv1 loader patch if present (spec.md
// §4.1): a six-byte jump-and-fixup block at the entry point that
// redirects execution through an indirect pointer stored inline.
func (img *Image) stripROMv1(log gtlog.Logger) {
	e := img.Entry
	if e&0xFFF0 != 0x5B80 {
		return
	}
	b0, ok0 := img.Get(e)
	b3, ok3 := img.Get(e + 3)
	b4, ok4 := img.Get(e + 4)
	b5, ok5 := img.Get(e + 5)
	if !(ok0 && ok3 && ok4 && ok5) {
		return
	}
	if b0 != 0x11 || b3 != 0x2B || b4 != 0x1A || b5 != 0xFF {
		return
	}

	lo, _ := img.Get(e + 1)
	hi, _ := img.Get(e + 2)
	log.Info("stripping ROMv1 loader patch at 0x%04x", e)
	img.Entry = uint16(hi)<<8 | uint16(lo)
	for i := uint16(0); i < 6; i++ {
		img.Clear(e + i)
	}
}

// SaveGT1 writes img as a GT1 stream: one record per segment in
// ascending-address order, followed by the terminator (spec.md §4.1,
// §6.1).
func (img *Image) SaveGT1(w io.Writer) error {
	segs := img.Segments()
	buf := make([]byte, 256)
	for _, seg := range segs {
		hdr := []byte{byte(seg.Addr >> 8), byte(seg.Addr), byte(seg.Length & 0xFF)}
		if _, err := w.Write(hdr); err != nil {
			return ioErrf(err, "writing GT1 record header")
		}
		for i := 0; i < seg.Length; i++ {
			b, _ := img.Get(uint16(seg.Addr + i))
			buf[i] = b
		}
		if _, err := w.Write(buf[:seg.Length]); err != nil {
			return ioErrf(err, "writing GT1 payload at 0x%04x", seg.Addr)
		}
	}
	term := []byte{0, byte(img.Entry >> 8), byte(img.Entry)}
	if _, err := w.Write(term); err != nil {
		return ioErrf(err, "writing GT1 terminator")
	}
	return nil
}
