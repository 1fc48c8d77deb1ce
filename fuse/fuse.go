// Package fuse merges ranked candidate lists produced by different
// scoring strategies.
package fuse

import "github.com/euterpe-ml/euterpe/core"

// Interleave merges two ranked lists into one deduplicated list of at
// most want entries, alternating sources strictly: one unseen entry
// from a, then one from b, until want is reached or both lists are
// exhausted. Each source's internal relative order is preserved.
//
// The strict alternation is deliberate. The two scorers are not
// score-comparable (different value ranges), so a score-sorted merge
// would let one source dominate by raw scale; alternation guarantees
// visible representation from both.
func Interleave(a, b []core.ScoredSong, want int) []core.ScoredSong {
	if want <= 0 {
		return nil
	}

	out := make([]core.ScoredSong, 0, want)
	seen := make(map[core.SongID]struct{}, want)
	i, j := 0, 0

	// takeFrom emits the next unseen entry of src, skipping duplicates
	// without spending the source's turn on them.
	takeFrom := func(src []core.ScoredSong, cur int) int {
		for cur < len(src) {
			s := src[cur]
			cur++
			if _, dup := seen[s.ID]; dup {
				continue
			}
			seen[s.ID] = struct{}{}
			out = append(out, s)
			break
		}
		return cur
	}

	for len(out) < want && (i < len(a) || j < len(b)) {
		i = takeFrom(a, i)
		if len(out) >= want {
			break
		}
		j = takeFrom(b, j)
	}

	return out
}
