package gt1z

import "github.com/lb3361/gt1z/internal/gtlog"

// decodeStream runs the GT1Z decoder state machine over src (spec.md
// §4.6) and returns the rebuilt image together with the relocatable
// flag (spec.md §6.3): true unless a long-form segment control with an
// absolute, non-contiguous address was seen.
func decodeStream(src []byte, log gtlog.Logger) (*Image, bool, error) {
	pos := 0
	readByte := func() (byte, error) {
		if pos >= len(src) {
			return 0, corruptf("truncated GT1Z stream at byte %d", pos)
		}
		b := src[pos]
		pos++
		return b, nil
	}
	readN := func(n int) ([]byte, error) {
		if pos+n > len(src) {
			return nil, corruptf("truncated GT1Z stream at byte %d", pos)
		}
		b := src[pos : pos+n]
		pos += n
		return b, nil
	}

	magic, err := readN(2)
	if err != nil {
		return nil, false, err
	}
	if magic[0] != gt1zMagic[0] || magic[1] != gt1zMagic[1] {
		return nil, false, corruptf("bad GT1Z magic %02x %02x", magic[0], magic[1])
	}

	hdr, err := readN(2)
	if err != nil {
		return nil, false, err
	}
	addr := int(hdr[0])<<8 | int(hdr[1])
	segaddr := addr
	prevOff := 1
	relocatable := true
	img := NewImage()

	for {
		t, err := readByte()
		if err != nil {
			return nil, false, err
		}
		token := int(t)

		nlits := (token >> 4) & 7
		if nlits == 7 {
			b, err := readByte()
			if err != nil {
				return nil, false, err
			}
			nlits = int(b)
			if nlits == 0 {
				nlits = 256
			}
		}
		if nlits > 0 {
			lits, err := readN(nlits)
			if err != nil {
				return nil, false, err
			}
			for i, b := range lits {
				img.Set(uint16(addr+i), b)
			}
			addr = (addr &^ 0xFF) + ((addr + nlits) & 0xFF)
		}

		mfield := token & 0xF
		var mcnt int
		switch {
		case mfield == 15:
			b, err := readByte()
			if err != nil {
				return nil, false, err
			}
			mcnt = int(b)
			if mcnt == 0 {
				mcnt = 256
			}
		case mfield != 0:
			mcnt = mfield + 1
		}

		if mcnt > 0 && token&0x80 != 0 {
			b, err := readByte()
			if err != nil {
				return nil, false, err
			}
			if b&0x80 != 0 {
				t := segmentT(addr, segaddr)
				prevOff = decodeShortOffset(int(b&0x7F), t)
			} else {
				b1, err := readByte()
				if err != nil {
					return nil, false, err
				}
				prevOff = int(b)<<8 | int(b1)
			}
		}

		if mcnt > 0 {
			madr := minus(addr, prevOff)
			if (madr&0xFF)+mcnt > 0x100 {
				return nil, false, corruptf("match at 0x%04x, offset 0x%04x crosses its source page", addr, prevOff)
			}
			for k := 0; k < mcnt; k++ {
				src16 := img.cells[uint16(madr+k)]
				img.cells[uint16(addr+k)] = src16
			}
		}
		addr = (addr &^ 0xFF) + ((addr + mcnt) & 0xFF)

		if mcnt == 0 {
			if token&0x80 != 0 {
				segaddr = (segaddr + 0x100) & 0xFFFF
				addr = segaddr
			} else {
				b0, err := readByte()
				if err != nil {
					return nil, false, err
				}
				b1, err := readByte()
				if err != nil {
					return nil, false, err
				}
				if b0 == 0 {
					b2, err := readByte()
					if err != nil {
						return nil, false, err
					}
					img.Entry = uint16(b1)<<8 | uint16(b2)
					log.Debug("-- EXEC 0x%04x", img.Entry)
					return img, relocatable, nil
				}
				addr = int(b0)<<8 | int(b1)
				segaddr = addr
				relocatable = false
			}
			log.Debug("-- 0x%04x", addr)
		}
	}
}
