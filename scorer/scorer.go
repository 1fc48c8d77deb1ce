package scorer

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/euterpe-ml/euterpe/core"
	"github.com/euterpe-ml/euterpe/distance"
	"github.com/euterpe-ml/euterpe/index"
	"github.com/euterpe-ml/euterpe/internal/topk"
)

// scoreFloor is the sentinel forced onto banned songs before ranking.
// Effectively -inf: no real inner product of unit-scale embeddings
// comes anywhere near it.
const scoreFloor float32 = -1e9

// Options contains configuration options for the scorer.
type Options struct {
	// NumWorkers is the number of goroutines scoring table chunks in
	// parallel. Defaults to 1 (sequential) when <= 0.
	NumWorkers int
}

// DefaultOptions contains the default configuration options.
var DefaultOptions = Options{
	NumWorkers: 1,
}

// Scorer ranks the full song space against an encoded seed set.
// It is read-only after construction and safe for concurrent use.
type Scorer struct {
	model   *Model
	workers int
}

// New creates a Scorer over the given model.
func New(model *Model, optFns ...func(o *Options)) *Scorer {
	opts := DefaultOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 1
	}

	return &Scorer{model: model, workers: opts.NumWorkers}
}

// Model returns the underlying weights.
func (s *Scorer) Model() *Model { return s.model }

// Encode folds a seed set into a single query vector: average the
// embedding rows of the valid seed ids, run the result through the
// encoder stack and the final normalization.
//
// Ids outside the model's range are dropped. An empty (or fully
// invalid) seed set encodes the zero vector rather than erroring, so
// the output is the same deterministic vector on every such call.
func (s *Scorer) Encode(seedIDs []core.SongID) []float32 {
	m := s.model

	vectors := make([][]float32, 0, len(seedIDs))
	for _, id := range seedIDs {
		if m.valid(id) {
			vectors = append(vectors, m.row(id))
		}
	}

	return m.forward(distance.Mean(vectors, m.dim))
}

// ScoreAll computes the inner product of every song embedding against
// query and returns the top k, strictly descending, ties broken by id
// order. Songs listed in banned are floored during the scan and
// dropped from the result, so they never rank even when k covers the
// whole song space. This is a deliberate O(N·d) dense scan: the
// songs share the encoder's embedding space, so no second index is
// needed.
func (s *Scorer) ScoreAll(ctx context.Context, query []float32, k int, banned []core.SongID) ([]core.ScoredSong, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if k <= 0 {
		return nil, index.ErrInvalidK
	}

	m := s.model
	if len(query) != m.dim {
		return nil, &index.ErrDimensionMismatch{Expected: m.dim, Actual: len(query)}
	}

	bannedSet := roaring.New()
	for _, id := range banned {
		if m.valid(id) {
			bannedSet.Add(uint32(id))
		}
	}

	n := m.numSongs
	if k > n {
		k = n
	}

	// Over-fetch by the banned count so the floored entries cannot
	// crowd real candidates out of the collectors when k approaches n.
	kk := min(n, k+int(bannedSet.GetCardinality()))

	workers := s.workers
	if workers > n {
		workers = n
	}

	collectors := make([]*topk.Collector, workers)
	chunk := (n + workers - 1) / workers

	g, gctx := errgroup.WithContext(ctx)
	for i := range workers {
		lo := i * chunk
		hi := min(lo+chunk, n)
		c := topk.New(kk)
		collectors[i] = c

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for id := lo; id < hi; id++ {
				score := distance.Dot(query, m.table[id*m.dim:(id+1)*m.dim])
				if bannedSet.Contains(uint32(id)) {
					score = scoreFloor
				}
				c.Add(uint32(id), score)
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
	out := make([]core.ScoredSong, 0, k)
	for _, e := range entries {
		if bannedSet.Contains(e.Row) {
			continue
		}
		out = append(out, core.ScoredSong{ID: core.SongID(e.Row), Score: e.Score})
		if len(out) == k {
			break
		}
	}
	return out, nil
}

// Recommend encodes the seed set and ranks all songs against it, with
// the seeds themselves banned so they never reappear as recommendations
// of their own playlist.
func (s *Scorer) Recommend(ctx context.Context, seedIDs []core.SongID, k int) ([]core.ScoredSong, error) {
	return s.ScoreAll(ctx, s.Encode(seedIDs), k, seedIDs)
}
