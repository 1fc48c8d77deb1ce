package topk

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	t.Run("KeepsBestK", func(t *testing.T) {
		c := New(3)
		scores := []float32{0.1, 0.9, 0.5, 0.7, 0.3}
		for i, s := range scores {
			c.Add(uint32(i), s)
		}

		got := c.Drain()
		require.Len(t, got, 3)
		assert.Equal(t, Entry{Row: 1, Score: 0.9}, got[0])
		assert.Equal(t, Entry{Row: 3, Score: 0.7}, got[1])
		assert.Equal(t, Entry{Row: 2, Score: 0.5}, got[2])
	})

	t.Run("FewerThanK", func(t *testing.T) {
		c := New(10)
		c.Add(0, 0.2)
		c.Add(1, 0.8)

		got := c.Drain()
		require.Len(t, got, 2)
		assert.Equal(t, uint32(1), got[0].Row)
		assert.Equal(t, uint32(0), got[1].Row)
	})

	t.Run("TiesKeepDiscoveryOrder", func(t *testing.T) {
		c := New(2)
		c.Add(7, 0.5)
		c.Add(3, 0.5)
		c.Add(9, 0.5) // must lose against both earlier ties

		got := c.Drain()
		require.Len(t, got, 2)
		assert.Equal(t, uint32(3), got[0].Row)
		assert.Equal(t, uint32(7), got[1].Row)
	})

	t.Run("MatchesFullSort", func(t *testing.T) {
		rng := rand.New(rand.NewSource(1))
		const n, k = 500, 25

		c := New(k)
		all := make([]Entry, n)
		for i := range all {
			all[i] = Entry{Row: uint32(i), Score: rng.Float32()}
			c.Add(all[i].Row, all[i].Score)
		}

		sort.SliceStable(all, func(i, j int) bool {
			return all[i].Score > all[j].Score
		})
		assert.Equal(t, all[:k], c.Drain())
	})

	t.Run("Merge", func(t *testing.T) {
		a := New(2)
		a.Add(0, 0.1)
		a.Add(1, 0.9)

		b := New(2)
		b.Add(2, 0.5)
		b.Add(3, 0.7)

		a.Merge(b)
		got := a.Drain()
		require.Len(t, got, 2)
		assert.Equal(t, uint32(1), got[0].Row)
		assert.Equal(t, uint32(3), got[1].Row)
	})
}
