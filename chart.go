package gt1z

// infCost is a cost value no real token stream can reach; used as the
// chart's "unreached" sentinel (spec.md §4.4).
const infCost = 1 << 30

// chart is the per-segment optimal parser (spec.md §4.4): a
// shortest-path DP over positions 0..l that chooses between literal
// extension and match emission to minimize encoded byte count.
//
// c, p, m, n are parallel arrays of length l+1:
//   - c[j]: best cost found so far to reach position j.
//   - p[j]: predecessor position of the chosen edge into j.
//   - m[j]: the offset carried by the edge into j, or -1 for a
//     literal edge.
//   - n[j]: -1 for an edge that behaves like a literal for the
//     purpose of run-start detection (a pure literal edge, or a match
//     edge that absorbed an interior mismatch as a re-emitted
//     literal); otherwise equal to m[j], marking a "clean" match edge.
type chart struct {
	img   *Image
	addr  int
	l     int
	bestc int
	c     []int
	p     []int
	m     []int
	n     []int
}

// newChart starts a chart for the segment [addr, addr+l) with offset
// as the "previous offset" carried in from the prior segment (spec.md
// §3's prev_off, threaded across segments by the emitter).
func newChart(img *Image, addr, l, offset int) *chart {
	ch := &chart{img: img, addr: addr, l: l, bestc: infCost}
	ch.c = make([]int, l+1)
	ch.p = make([]int, l+1)
	ch.m = make([]int, l+1)
	ch.n = make([]int, l+1)
	for i := range ch.c {
		ch.c[i] = infCost
		ch.p[i] = -1
		ch.m[i] = -1
		ch.n[i] = -1
	}
	ch.c[0] = 1
	ch.p[0] = 0
	ch.m[0] = offset
	ch.n[0] = offset
	return ch
}

// add relaxes the edge i->j with the given cost if it strictly (or,
// when strict is 0, weakly) improves on the best cost found so far
// for j.
func (ch *chart) add(i, j, cost, off, ofx, strict int) {
	cost += ch.c[i]
	if cost+strict <= ch.c[j] {
		ch.c[j] = cost
		ch.p[j] = i
		ch.m[j] = off
		ch.n[j] = ofx
		if j == ch.l {
			ch.bestc = cost
		}
	}
}

// addLiteral relaxes the literal-extension edge ending at position
// i+1. The cost of a literal run is not additive per byte: the 7th
// literal added to a run costs one extra byte (the extended-count
// byte), so the edge cost is the full run's cost minus the run's cost
// without this byte, computed by walking back to the run's start.
func (ch *chart) addLiteral(i int) {
	pi := i
	for ch.n[pi] < 0 {
		pi = ch.p[pi]
	}
	nlits := i - pi + 1
	cost := nlits
	if nlits >= 7 {
		cost++
	}
	ch.add(pi, i+1, cost, -1, -1, 0)
}

// addMatch relaxes every match edge starting at position i for the
// candidate back-reference offset off, covering edge lengths from 1 (a
// run shorter than 2 bytes is written as a literal by emitTo) up to the
// point the source run crosses its own page boundary or the segment
// ends. It also models the "literal-then-direct-match" refinement
// (spec.md §4.4): once the match breaks, a later run of at least 2
// matching bytes can still be reached by the same edge, with the
// mismatching bytes in between re-emitted as literals.
func (ch *chart) addMatch(i, off int) {
	madr := minus(ch.addr+i, off)
	maxj := ch.l - i
	if pageRemaining := (madr | 0xFF) + 1 - madr; pageRemaining < maxj {
		maxj = pageRemaining
	}

	cost := 0
	s := i
	for ch.m[s] < 0 {
		s = ch.p[s]
	}
	if ch.m[s] != off {
		ohi := (off >> 8) & 0xFF
		olo := (off - 1) & 0xFF
		t := i
		if t > 0x7f {
			t = 0x7f
		}
		if (ohi == 0 && olo < t) || (ohi == 1 && olo >= (t|0x80)) {
			cost++
		} else {
			cost += 2 // not a direct (offset-reusing) match
		}
	}

	base := ch.addr + i
	last := 0 // >=0: inside a clean match run starting at `last`; <0: just re-emitted a literal at position -last
	for j := 0; j < maxj && cost <= ch.bestc; j++ {
		bv := ch.img.cells[base+j]
		mv := ch.img.cells[madr+j]
		if last < 0 {
			if bv == mv && j+1 < maxj && ch.img.cells[base+j+1] == ch.img.cells[madr+j+1] {
				last = j
			}
		} else if bv != mv {
			cost++ // new token for the resumed match
			last = -j
		}

		if last >= 0 {
			if j-last == 15 {
				cost++ // extended match-length byte
			}
			ch.add(i, i+j+1, cost+1, off, off, 1)
		} else {
			cost++ // the mismatching byte re-emitted as a literal
			if j+last == 6 {
				cost++ // extended literal-length byte
			}
			ch.add(i, i+j+1, cost, off, -1, 1)
		}

		if ch.c[i]+cost > ch.c[i+j+1]+2 {
			break // no further length can improve on the best already found
		}
	}
}

// populate runs the DP over every position of the segment, trying a
// literal extension and every representable match candidate (drawn
// from tbl's occurrence chain) at each position.
func (ch *chart) populate(tbl *TokenTable) {
	for i := 0; i < ch.l; i++ {
		ch.addLiteral(i)
		for madr := tbl.Next[ch.addr+i]; madr >= 0; madr = tbl.Next[madr] {
			off := minus(ch.addr+i, madr)
			if off&0x8000 != 0 {
				break
			}
			ch.addMatch(i, off)
		}
	}
}

// boundaries reconstructs the chosen path as the ascending list of
// positions 0 = b[0] < b[1] < ... < b[k] = l visited by the optimal
// parse.
func (ch *chart) boundaries() []int {
	bounds := []int{ch.l}
	for i := ch.l; i != 0; i = ch.p[i] {
		bounds = append(bounds, ch.p[i])
	}
	for a, b := 0, len(bounds)-1; a < b; a, b = a+1, b-1 {
		bounds[a], bounds[b] = bounds[b], bounds[a]
	}
	return bounds
}

// emitTo walks the chosen path and feeds the resulting literal/match
// sequence to e. Edges recorded as a single DP edge may still mix
// literals and matches on the wire: a match edge that absorbed an
// interior mismatch is re-split here into alternating match/literal
// tokens of at least 2 matching bytes each, exactly as the original
// emits them.
func (ch *chart) emitTo(e *emitter) {
	bounds := ch.boundaries()
	for k := 0; k < len(bounds)-1; k++ {
		i, ni := bounds[k], bounds[k+1]
		off := ch.m[ni]
		if off < 0 {
			e.literal(ch.img, ch.addr+i, ni-i)
			continue
		}
		madr := minus(ch.addr+i, off)
		srcBase := madr - i
		j := i
		for j < ni {
			s := j
			for s < ni && ch.img.cells[ch.addr+s] == ch.img.cells[srcBase+s] {
				s++
			}
			if s-j >= 2 {
				e.match(s-j, off)
				j = s
			} else {
				e.literal(ch.img, ch.addr+j, 1)
				j++
			}
		}
	}
}
