package gt1z

import "github.com/lb3361/gt1z/internal/gtrank"

// TokenTable is the tokenizer's output (spec.md §3, §4.2): a dense
// rank per address such that two addresses share a rank iff their
// byte sequences of the tokenized length agree, each sequence being
// cut off at the end of its own segment (the two addresses may lie in
// different segments), plus a per-rank occurrence chain for enumerating
// candidate match positions.
type TokenTable struct {
	// Rank holds one entry per address, 0..65535.
	Rank []int
	// FirstPos[r] is the most recently appended address with rank r,
	// or -1 if rank r has no occurrences.
	FirstPos []int
	// Next[addr] chains to the next-earlier address sharing addr's
	// rank, or -1 if addr is the earliest.
	Next []int
}

// Tokenize builds a TokenTable over img using the rank-doubling
// algorithm, considering sequences up to maxK bytes long (spec.md
// §4.2). The compressor calls Tokenize(2) to index 2-byte sequences.
func (img *Image) Tokenize(maxK int) *TokenTable {
	segs := img.Segments()

	rank := make([]int, 65536)
	for i := range rank {
		rank[i] = int(img.cells[i])
	}
	n := gtrank.DenseRank(rank)

	for k := 1; k < maxK; k *= 2 {
		updated := make([]int, 65536)
		copy(updated, rank)
		for _, seg := range segs {
			for i := 0; i < seg.Length; i++ {
				addr := seg.Addr + i
				tail := 0
				if i+k < seg.Length {
					tail = rank[addr+k]
				}
				updated[addr] = rank[addr]*n + tail
			}
		}
		rank = updated
		n = gtrank.DenseRank(rank)
	}

	firstPos := make([]int, n)
	for i := range firstPos {
		firstPos[i] = -1
	}
	next := make([]int, 65536)
	for addr := 0; addr < 65536; addr++ {
		r := rank[addr]
		next[addr] = firstPos[r]
		firstPos[r] = addr
	}

	return &TokenTable{Rank: rank, FirstPos: firstPos, Next: next}
}
