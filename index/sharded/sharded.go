// Package sharded provides the partitioned exact search strategy.
//
// The row space is split into contiguous partitions that are scanned in
// parallel, one bounded best-k heap per partition, and the per-partition
// results are merged. Because every partition is scanned exhaustively
// and the merge breaks score ties by row order, the strategy returns
// exactly the same results as the flat baseline.
package sharded

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/euterpe-ml/euterpe/core"
	"github.com/euterpe-ml/euterpe/distance"
	"github.com/euterpe-ml/euterpe/embedding"
	"github.com/euterpe-ml/euterpe/index"
	"github.com/euterpe-ml/euterpe/internal/topk"
)

// Compile-time check that Sharded satisfies the Searcher contract.
var _ index.Searcher = (*Sharded)(nil)

// Options contains configuration options for the sharded searcher.
type Options struct {
	// NumShards is the number of partitions to scan in parallel.
	// Defaults to GOMAXPROCS when <= 0.
	NumShards int
}

// DefaultOptions contains the default configuration options.
var DefaultOptions = Options{
	NumShards: 0,
}

// Sharded fans a query out over row partitions.
type Sharded struct {
	store  *embedding.Store
	shards int
}

// New creates a sharded searcher over the given store.
func New(store *embedding.Store, optFns ...func(o *Options)) *Sharded {
	opts := DefaultOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.NumShards <= 0 {
		opts.NumShards = runtime.GOMAXPROCS(0)
	}

	return &Sharded{store: store, shards: opts.NumShards}
}

// Name identifies the strategy.
func (*Sharded) Name() string { return "sharded" }

// Search performs an exact top-k scan across all partitions.
// See index.Searcher.
func (s *Sharded) Search(ctx context.Context, query []float32, k int, filter func(core.Row) bool) ([]index.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if k <= 0 {
		return nil, index.ErrInvalidK
	}
	if len(query) != s.store.Dim() {
		return nil, &index.ErrDimensionMismatch{Expected: s.store.Dim(), Actual: len(query)}
	}

	n := s.store.Len()
	if n == 0 {
		return nil, nil
	}
	if k > n {
		k = n
	}

	shards := s.shards
	if shards > n {
		shards = n
	}

	collectors := make([]*topk.Collector, shards)
	chunk := (n + shards - 1) / shards

	g, gctx := errgroup.WithContext(ctx)
	for i := range shards {
		lo := i * chunk
		hi := min(lo+chunk, n)
		c := topk.New(k)
		collectors[i] = c

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for row := lo; row < hi; row++ {
				r := core.Row(row)
				if filter != nil && !filter(r) {
					continue
				}
				c.Add(uint32(row), distance.Dot(query, s.store.Vector(r)))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := collectors[0]
	for _, c := range collectors[1:] {
		merged.Merge(c)
	}

	entries := merged.Drain()
	results := make([]index.Result, len(entries))
	for i, e := range entries {
		results[i] = index.Result{Row: core.Row(e.Row), Score: e.Score}
	}
	return results, nil
}
