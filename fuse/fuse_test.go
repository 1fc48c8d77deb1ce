package fuse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/euterpe-ml/euterpe/core"
)

func TestInterleave(t *testing.T) {
	t.Run("alternates and dedupes keeping first seen score", func(t *testing.T) {
		a := []core.ScoredSong{{ID: 1, Score: 0.9}, {ID: 2, Score: 0.8}, {ID: 3, Score: 0.7}}
		b := []core.ScoredSong{{ID: 2, Score: 0.95}, {ID: 4, Score: 0.85}}

		got := Interleave(a, b, 4)

		require.Len(t, got, 4)
		assert.Equal(t, []core.ScoredSong{
			{ID: 1, Score: 0.9},
			{ID: 2, Score: 0.95},
			{ID: 3, Score: 0.7},
			{ID: 4, Score: 0.85},
		}, got)
	})

	t.Run("drains the longer list once the shorter is exhausted", func(t *testing.T) {
		a := []core.ScoredSong{{ID: 1, Score: 0.5}}
		b := []core.ScoredSong{{ID: 2, Score: 0.4}, {ID: 3, Score: 0.3}, {ID: 4, Score: 0.2}}

		got := Interleave(a, b, 10)

		assert.Equal(t, []core.SongID{1, 2, 3, 4}, ids(got))
	})

	t.Run("stops at want", func(t *testing.T) {
		a := []core.ScoredSong{{ID: 1}, {ID: 2}, {ID: 3}}
		b := []core.ScoredSong{{ID: 4}, {ID: 5}, {ID: 6}}

		got := Interleave(a, b, 3)

		assert.Equal(t, []core.SongID{1, 4, 2}, ids(got))
	})

	t.Run("non-positive want yields nil", func(t *testing.T) {
		a := []core.ScoredSong{{ID: 1}}

		assert.Nil(t, Interleave(a, a, 0))
		assert.Nil(t, Interleave(a, a, -1))
	})

	t.Run("empty inputs", func(t *testing.T) {
		assert.Empty(t, Interleave(nil, nil, 5))

		got := Interleave(nil, []core.ScoredSong{{ID: 7, Score: 0.1}}, 5)
		assert.Equal(t, []core.SongID{7}, ids(got))
	})

	t.Run("never emits a duplicate", func(t *testing.T) {
		a := []core.ScoredSong{{ID: 1}, {ID: 3}, {ID: 5}, {ID: 7}, {ID: 9}}
		b := []core.ScoredSong{{ID: 3}, {ID: 1}, {ID: 2}, {ID: 9}, {ID: 4}}

		got := Interleave(a, b, 100)

		unique := make(map[core.SongID]struct{})
		for _, s := range got {
			_, dup := unique[s.ID]
			require.False(t, dup, "id %d emitted twice", s.ID)
			unique[s.ID] = struct{}{}
		}
		assert.Len(t, got, 7)
	})

	t.Run("preserves per-source order for disjoint sources", func(t *testing.T) {
		a := []core.ScoredSong{{ID: 1}, {ID: 3}, {ID: 5}, {ID: 7}}
		b := []core.ScoredSong{{ID: 2}, {ID: 4}, {ID: 6}}

		got := Interleave(a, b, 100)

		require.Len(t, got, 7)
		assert.True(t, subsequence(ids(got), []core.SongID{1, 3, 5, 7}))
		assert.True(t, subsequence(ids(got), []core.SongID{2, 4, 6}))
	})
}

func ids(songs []core.ScoredSong) []core.SongID {
	out := make([]core.SongID, len(songs))
	for i, s := range songs {
		out[i] = s.ID
	}
	return out
}

// subsequence reports whether the members of src that appear in got do
// so in src's relative order.
func subsequence(got, src []core.SongID) bool {
	present := make(map[core.SongID]struct{}, len(got))
	for _, id := range got {
		present[id] = struct{}{}
	}

	var filtered []core.SongID
	for _, id := range src {
		if _, ok := present[id]; ok {
			filtered = append(filtered, id)
		}
	}

	k := 0
	for _, id := range got {
		if k < len(filtered) && id == filtered[k] {
			k++
		}
	}
	return k == len(filtered)
}
