// Package flat provides the exact single-threaded search strategy.
// It is the reference semantics for every other strategy: a full
// matrix scan with a bounded best-k heap.
package flat

import (
	"context"

	"github.com/euterpe-ml/euterpe/core"
	"github.com/euterpe-ml/euterpe/distance"
	"github.com/euterpe-ml/euterpe/embedding"
	"github.com/euterpe-ml/euterpe/index"
	"github.com/euterpe-ml/euterpe/internal/topk"
)

// Compile-time check that Flat satisfies the Searcher contract.
var _ index.Searcher = (*Flat)(nil)

// Flat scans every row of the store per query.
type Flat struct {
	store *embedding.Store
}

// New creates a flat searcher over the given store.
func New(store *embedding.Store) *Flat {
	return &Flat{store: store}
}

// Name identifies the strategy.
func (*Flat) Name() string { return "flat" }

// Search performs an exact top-k scan. See index.Searcher.
func (f *Flat) Search(ctx context.Context, query []float32, k int, filter func(core.Row) bool) ([]index.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if k <= 0 {
		return nil, index.ErrInvalidK
	}
	if len(query) != f.store.Dim() {
		return nil, &index.ErrDimensionMismatch{Expected: f.store.Dim(), Actual: len(query)}
	}

	n := f.store.Len()
	if n == 0 {
		return nil, nil
	}
	if k > n {
		k = n
	}

	c := topk.New(k)
	for row := range n {
		r := core.Row(row)
		if filter != nil && !filter(r) {
			continue
		}
		c.Add(uint32(row), distance.Dot(query, f.store.Vector(r)))
	}

	return collect(c), nil
}

func collect(c *topk.Collector) []index.Result {
	entries := c.Drain()
	results := make([]index.Result, len(entries))
	for i, e := range entries {
		results[i] = index.Result{Row: core.Row(e.Row), Score: e.Score}
	}
	return results
}
