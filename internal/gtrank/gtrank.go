// Package gtrank implements the dense-renumbering step used by the
// tokenizer's rank-doubling algorithm (spec.md §4.2, §9): given a
// slice of integer keys, rewrite it in place so that equal keys map to
// equal dense ranks 0..n-1, and distinct keys get distinct ranks in
// the same relative order as the original key values, mirroring the
// original C++'s std::map-based unique<T>().
package gtrank

import (
	"math/bits"
	"sort"
)

// DenseRank rewrites x in place with dense order-preserving ranks and
// returns the number of distinct values. Two positions i, j end up
// with x[i] == x[j] iff the original x[i] == x[j].
func DenseRank(x []int) int {
	if len(x) == 0 {
		return 0
	}

	// Size the dedup map to the next power of two at or above len(x);
	// the exact cardinality is unknown up front but is bounded by it.
	capHint := 1 << bits.Len(uint(len(x)-1))
	seen := make(map[int]struct{}, capHint)
	for _, v := range x {
		seen[v] = struct{}{}
	}

	keys := make([]int, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	rankOf := make(map[int]int, len(keys))
	for i, k := range keys {
		rankOf[k] = i
	}
	for i, v := range x {
		x[i] = rankOf[v]
	}
	return len(keys)
}
