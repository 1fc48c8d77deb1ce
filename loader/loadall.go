package loader

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/euterpe-ml/euterpe/embedding"
	"github.com/euterpe-ml/euterpe/metadata"
	"github.com/euterpe-ml/euterpe/scorer"
	"github.com/euterpe-ml/euterpe/tags"
)

// ArtifactNames names the artifacts that make up one engine build.
// Embeddings is required; an empty name skips the other artifacts.
type ArtifactNames struct {
	Embeddings string
	Vocabulary string
	Checkpoint string
	Tracks     string
}

// Artifacts is the result of loading one engine build. Fields for
// skipped artifacts are nil.
type Artifacts struct {
	Songs      *embedding.Store
	Vocabulary *tags.Vocabulary
	Model      *scorer.Model
	Tracks     *metadata.Store
}

// LoadAll fetches all named artifacts concurrently, bounded by the
// configured concurrency. It fails on the first error.
func (l *Loader) LoadAll(ctx context.Context, names ArtifactNames) (*Artifacts, error) {
	if names.Embeddings == "" {
		return nil, fmt.Errorf("load: embeddings artifact name required")
	}

	var out Artifacts

	g, ctx := errgroup.WithContext(ctx)
	sem := semaphore.NewWeighted(int64(l.opts.Concurrency))

	load := func(fn func(context.Context) error) {
		g.Go(func() error {
			if err := sem.Acquire(ctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)
			return fn(ctx)
		})
	}

	load(func(ctx context.Context) error {
		songs, err := l.Embeddings(ctx, names.Embeddings)
		if err != nil {
			return err
		}
		out.Songs = songs
		return nil
	})

	if names.Vocabulary != "" {
		load(func(ctx context.Context) error {
			vocab, err := l.Vocabulary(ctx, names.Vocabulary)
			if err != nil {
				return err
			}
			out.Vocabulary = vocab
			return nil
		})
	}

	if names.Checkpoint != "" {
		load(func(ctx context.Context) error {
			model, err := l.Checkpoint(ctx, names.Checkpoint)
			if err != nil {
				return err
			}
			out.Model = model
			return nil
		})
	}

	if names.Tracks != "" {
		load(func(ctx context.Context) error {
			tracks, err := l.Tracks(ctx, names.Tracks)
			if err != nil {
				return err
			}
			out.Tracks = tracks
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}
