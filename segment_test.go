package gt1z

import "testing"

func TestSegmentsSinglePage(t *testing.T) {
	img := NewImage()
	for i := uint16(0x1010); i < 0x1020; i++ {
		img.Set(i, byte(i))
	}
	segs := img.Segments()
	if len(segs) != 1 {
		t.Fatalf("got %d segments, want 1", len(segs))
	}
	if segs[0].Addr != 0x1010 || segs[0].Length != 16 {
		t.Errorf("got {%04x, %d}, want {1010, 16}", segs[0].Addr, segs[0].Length)
	}
}

func TestSegmentsNeverCrossPageBoundary(t *testing.T) {
	img := NewImage()
	for i := uint16(0x10F0); ; i++ {
		img.Set(i, byte(i))
		if i == 0x1110 {
			break
		}
	}
	segs := img.Segments()
	if len(segs) != 2 {
		t.Fatalf("got %d segments, want 2", len(segs))
	}
	if segs[0].Addr != 0x10F0 || segs[0].Addr+segs[0].Length != 0x1100 {
		t.Errorf("first segment %+v crosses the page boundary", segs[0])
	}
	if segs[1].Addr != 0x1100 || segs[1].Length != 0x11 {
		t.Errorf("second segment %+v unexpected", segs[1])
	}
}

func TestSegmentsEmptyImage(t *testing.T) {
	img := NewImage()
	if segs := img.Segments(); len(segs) != 0 {
		t.Errorf("got %d segments for an empty image, want 0", len(segs))
	}
}

func TestSegmentsFullPage(t *testing.T) {
	img := NewImage()
	for i := 0; i < 256; i++ {
		img.Set(uint16(0x4000+i), byte(i))
	}
	segs := img.Segments()
	if len(segs) != 1 || segs[0].Addr != 0x4000 || segs[0].Length != 256 {
		t.Errorf("got %+v, want a single 256-byte segment at 0x4000", segs)
	}
}
