// Package index defines the search contract over the embedding store.
//
// Two interchangeable strategies implement it: flat (single-threaded
// exact scan, the correctness baseline) and sharded (partitioned exact
// scan fanned out over a worker group). Both are exact and must return
// identical top-k sets for the same corpus and query; the strategy is
// selected once at engine construction.
package index

import (
	"context"
	"errors"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/euterpe-ml/euterpe/core"
)

// ErrInvalidK is returned when k is not positive.
var ErrInvalidK = errors.New("index: k must be positive")

// ErrDimensionMismatch indicates a query/store dimensionality mismatch.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("index: dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// Result is a single search hit in row space.
type Result struct {
	Row   core.Row
	Score float32 // inner product with the query, higher is better
}

// Searcher performs exact nearest-neighbor search by inner product over
// the embedding store. Implementations are read-only and safe for
// unbounded concurrent use.
type Searcher interface {
	// Search returns the k rows with the highest inner product against
	// query, strictly descending, ties broken by row order. Rows for
	// which filter returns false are skipped; a nil filter admits all
	// rows. Fewer than k results are returned only when the corpus (or
	// its filtered subset) is exhausted.
	Search(ctx context.Context, query []float32, k int, filter func(core.Row) bool) ([]Result, error)

	// Name identifies the strategy ("flat", "sharded").
	Name() string
}

// Exclusion is a set of rows that must never appear in a result,
// regardless of score. It wraps a Roaring bitmap over row indices.
type Exclusion struct {
	rb *roaring.Bitmap
}

// NewExclusion creates an exclusion set from the given rows.
func NewExclusion(rows ...core.Row) *Exclusion {
	rb := roaring.New()
	for _, row := range rows {
		rb.Add(uint32(row))
	}
	return &Exclusion{rb: rb}
}

// Add adds a row to the set.
func (e *Exclusion) Add(row core.Row) { e.rb.Add(uint32(row)) }

// Contains reports whether row is excluded.
func (e *Exclusion) Contains(row core.Row) bool {
	return e != nil && e.rb.Contains(uint32(row))
}

// Len returns the number of excluded rows.
func (e *Exclusion) Len() int {
	if e == nil {
		return 0
	}
	return int(e.rb.GetCardinality())
}

// SearchExcluding returns up to k rows not present in exclude.
//
// It over-fetches k+|exclude| candidates in a single search and filters
// afterwards, since the excluded set cannot be known to the searcher
// ahead of row computation. The single over-fetch avoids re-querying on
// shortfall in the common case but is best effort: when exclusions are
// large or clustered among the top matches the result may hold fewer
// than k rows even though unexcluded rows remain. The contract is
// "best effort to k, never more".
func SearchExcluding(ctx context.Context, s Searcher, query []float32, k int, exclude *Exclusion) ([]Result, error) {
	if k <= 0 {
		return nil, ErrInvalidK
	}

	results, err := s.Search(ctx, query, k+exclude.Len(), nil)
	if err != nil {
		return nil, err
	}

	out := make([]Result, 0, k)
	for _, r := range results {
		if exclude.Contains(r.Row) {
			continue
		}
		out = append(out, r)
		if len(out) == k {
			break
		}
	}
	return out, nil
}
