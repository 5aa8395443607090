package gt1z

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestChartLiteralRunCostsExtendedByte checks that the DP's literal-run
// cost model (spec.md §4.4, §9) charges one extra byte once a run
// reaches 7 literals, not per-byte-independently.
func TestChartLiteralRunCostsExtendedByte(t *testing.T) {
	img := NewImage()
	data := make([]byte, 10)
	for i := range data {
		data[i] = byte(i*37 + 3) // pairwise distinct 2-byte sequences: no matches possible
	}
	for i, b := range data {
		img.Set(uint16(0x1000+i), b)
	}
	tbl := img.Tokenize(2)

	ch := newChart(img, 0x1000, len(data), 1)
	ch.populate(tbl)

	// 6 literals: header(1) + 6 payload = 7 bytes, no extension byte.
	assert.Equal(t, 1+6, ch.c[6])
	// 7 literals: header(1) + extended-count(1) + 7 payload = 9 bytes.
	assert.Equal(t, 1+1+7, ch.c[7])
	// The jump from c[6] to c[7] is 2 (the extended byte plus the
	// literal), not 1.
	assert.Equal(t, 2, ch.c[7]-ch.c[6])
}

// TestChartPrefersMatchOverLiterals checks that a long repeated run
// picks up a match edge cheaper than emitting every byte literally.
func TestChartPrefersMatchOverLiterals(t *testing.T) {
	img := NewImage()
	data := bytes.Repeat([]byte{0x55}, 20)
	for i, b := range data {
		img.Set(uint16(0x2000+i), b)
	}
	tbl := img.Tokenize(2)

	ch := newChart(img, 0x2000, len(data), 1)
	ch.populate(tbl)

	// Literal-only cost for all 20 bytes would be 1(header) + 1(ext) + 20 = 22.
	assert.Less(t, ch.c[20], 22)

	bounds := ch.boundaries()
	require.GreaterOrEqual(t, len(bounds), 2)
	assert.Equal(t, 0, bounds[0])
	assert.Equal(t, 20, bounds[len(bounds)-1])
}

// TestChartEmitToRoundTrips drives a chart end to end through the
// emitter and decoder for a segment with a mix of literals and
// matches, confirming the chosen path decodes back to the original
// bytes.
func TestChartEmitToRoundTrips(t *testing.T) {
	img := NewImage()
	data := []byte{
		1, 2, 3, 4, 5, // literals
		1, 2, 3, 4, 5, // exact repeat: should become a match
		9, 1, 2, 3, 4, 5, // a literal interrupting another repeat
	}
	for i, b := range data {
		img.Set(uint16(0x3000+i), b)
	}
	img.Entry = 0x3000
	tbl := img.Tokenize(2)

	var buf bytes.Buffer
	e, err := newEmitter(&buf, newNopLog())
	require.NoError(t, err)
	require.NoError(t, e.segment(0x3000))

	ch := newChart(img, 0x3000, len(data), e.prevOff)
	ch.populate(tbl)
	ch.emitTo(e)

	require.NoError(t, e.finish(int(img.Entry)))

	decoded, _, err := decodeStream(buf.Bytes(), newNopLog())
	require.NoError(t, err)
	for i, want := range data {
		got, ok := decoded.Get(uint16(0x3000 + i))
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
}

// TestChartAddMatchRespectsPageBoundary checks the page-boundary
// property of spec.md §8: a candidate source run that would need to
// cross into the next page to keep matching must not be extended past
// its own page, even when the destination segment is longer. The
// segment here repeats a 4-byte pattern starting 4 bytes before the
// end of its page, so any match edge sourced from the first copy would
// cross the page boundary if taken past length 4; round-tripping
// confirms the chart and emitter never produce such an edge.
func TestChartAddMatchRespectsPageBoundary(t *testing.T) {
	img := NewImage()
	pattern := []byte{0x70, 0x71, 0x72, 0x73}
	for i, b := range pattern {
		img.Set(uint16(0x10FC+i), b) // last 4 bytes of page 0x10xx
	}
	for i, b := range pattern {
		img.Set(uint16(0x1100+i), b) // first 4 bytes of page 0x11xx, identical bytes
	}
	img.Entry = 0x10FC
	tbl := img.Tokenize(2)

	segs := img.Segments()
	require.Len(t, segs, 2)

	var buf bytes.Buffer
	e, err := newEmitter(&buf, newNopLog())
	require.NoError(t, err)
	for _, seg := range segs {
		require.NoError(t, e.segment(seg.Addr))
		ch := newChart(img, seg.Addr, seg.Length, e.prevOff)
		ch.populate(tbl)
		ch.emitTo(e)
	}
	require.NoError(t, e.finish(int(img.Entry)))

	decoded, _, err := decodeStream(buf.Bytes(), newNopLog())
	require.NoError(t, err)
	for i, want := range pattern {
		got, ok := decoded.Get(uint16(0x10FC + i))
		require.True(t, ok)
		assert.Equal(t, want, got)
		got, ok = decoded.Get(uint16(0x1100 + i))
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
}
