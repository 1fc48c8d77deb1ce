package sharded

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/euterpe-ml/euterpe/core"
	"github.com/euterpe-ml/euterpe/embedding"
	"github.com/euterpe-ml/euterpe/index"
	"github.com/euterpe-ml/euterpe/index/flat"
)

func randomStore(t *testing.T, n, dim int, seed int64) *embedding.Store {
	t.Helper()

	rng := rand.New(rand.NewSource(seed))
	ids := make([]core.SongID, n)
	vectors := make([][]float32, n)
	for i := range ids {
		ids[i] = core.SongID(i * 7) // non-contiguous external ids
		v := make([]float32, dim)
		for j := range v {
			v[j] = rng.Float32()*2 - 1
		}
		vectors[i] = v
	}

	s, err := embedding.New(dim, ids, vectors)
	require.NoError(t, err)
	return s
}

// The sharded strategy is exact: for any query it must return the same
// result slice as the flat baseline.
func TestShardedMatchesFlat(t *testing.T) {
	ctx := context.Background()
	store := randomStore(t, 1000, 16, 42)

	baseline := flat.New(store)
	rng := rand.New(rand.NewSource(7))

	for _, shards := range []int{1, 2, 3, 8, 64} {
		s := New(store, func(o *Options) { o.NumShards = shards })

		for q := 0; q < 10; q++ {
			query := make([]float32, 16)
			for j := range query {
				query[j] = rng.Float32()*2 - 1
			}

			want, err := baseline.Search(ctx, query, 25, nil)
			require.NoError(t, err)
			got, err := s.Search(ctx, query, 25, nil)
			require.NoError(t, err)

			assert.Equal(t, want, got, "shards=%d", shards)
		}
	}
}

func TestSharded(t *testing.T) {
	ctx := context.Background()

	t.Run("DefaultShards", func(t *testing.T) {
		s := New(randomStore(t, 10, 4, 1))
		assert.Equal(t, "sharded", s.Name())

		results, err := s.Search(ctx, []float32{1, 0, 0, 0}, 3, nil)
		require.NoError(t, err)
		assert.Len(t, results, 3)
	})

	t.Run("MoreShardsThanRows", func(t *testing.T) {
		s := New(randomStore(t, 3, 4, 2), func(o *Options) { o.NumShards = 16 })

		results, err := s.Search(ctx, []float32{0, 1, 0, 0}, 10, nil)
		require.NoError(t, err)
		assert.Len(t, results, 3)
	})

	t.Run("Filter", func(t *testing.T) {
		store := randomStore(t, 100, 4, 3)
		s := New(store, func(o *Options) { o.NumShards = 4 })

		results, err := s.Search(ctx, []float32{1, 1, 1, 1}, 100, func(r core.Row) bool { return r%2 == 0 })
		require.NoError(t, err)
		assert.Len(t, results, 50)
		for _, r := range results {
			assert.Equal(t, core.Row(0), r.Row%2)
		}
	})

	t.Run("InvalidK", func(t *testing.T) {
		s := New(randomStore(t, 10, 4, 4))
		_, err := s.Search(ctx, []float32{1, 0, 0, 0}, -1, nil)
		assert.ErrorIs(t, err, index.ErrInvalidK)
	})

	t.Run("DimensionMismatch", func(t *testing.T) {
		s := New(randomStore(t, 10, 4, 5))
		_, err := s.Search(ctx, []float32{1, 0}, 2, nil)
		var dm *index.ErrDimensionMismatch
		assert.ErrorAs(t, err, &dm)
	})
}
