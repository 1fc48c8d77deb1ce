package tags

import (
	"math/rand"
	"sort"

	"github.com/euterpe-ml/euterpe/core"
	"github.com/euterpe-ml/euterpe/distance"
	"github.com/euterpe-ml/euterpe/embedding"
	"github.com/euterpe-ml/euterpe/internal/topk"
)

// Default bounds for NearestTags, matching typical interactive use.
const (
	DefaultTopN       = 8
	DefaultCandidateK = 20
)

// QueryOptions contains configuration options for a NearestTags call.
type QueryOptions struct {
	// Seed, when non-nil, makes the random sampling reproducible.
	Seed *int64

	// KeepOrder re-sorts the sampled tags by similarity, descending,
	// before returning.
	KeepOrder bool
}

// WithSeed fixes the sampling seed for reproducible output.
func WithSeed(seed int64) func(o *QueryOptions) {
	return func(o *QueryOptions) {
		o.Seed = &seed
	}
}

// Bridge finds the tags nearest to a song in embedding space, with
// controlled randomized sampling among near-ties.
//
// The two-stage shortlist-then-sample design trades determinism for
// variety across repeated calls on the same song, while bounding the
// sample to genuinely similar tags: the random draw never reaches
// outside the candidateK shortlist.
type Bridge struct {
	songs *embedding.Store
	vocab *Vocabulary
}

// NewBridge creates a Bridge between a song store and a tag vocabulary.
// Both sides must share the embedding dimension.
func NewBridge(songs *embedding.Store, vocab *Vocabulary) *Bridge {
	return &Bridge{songs: songs, vocab: vocab}
}

// NearestTags returns up to topn tags near the given song.
//
// The top candidateK tags by inner product form the candidate pool
// (re-sorted descending after the partial selection); min(topn, pool)
// tags are then drawn without replacement. When topn covers the whole
// pool the draw degenerates to "take all" and no randomness is
// observable. An unknown song id or an empty vocabulary yields an
// empty result, not an error.
func (b *Bridge) NearestTags(songID core.SongID, topn, candidateK int, optFns ...func(o *QueryOptions)) []string {
	opts := QueryOptions{KeepOrder: true}
	for _, fn := range optFns {
		fn(&opts)
	}
	if topn <= 0 {
		topn = DefaultTopN
	}
	if candidateK <= 0 {
		candidateK = DefaultCandidateK
	}

	row, ok := b.songs.Lookup(songID)
	if !ok || b.vocab.Len() == 0 {
		return nil
	}
	songVec := b.songs.Vector(row)

	// Stage 1: partial top-candidateK selection over the vocabulary.
	k := min(candidateK, b.vocab.Len())
	c := topk.New(k)
	for i := range b.vocab.Len() {
		c.Add(uint32(i), distance.Dot(b.vocab.Vector(i), songVec))
	}
	pool := c.Drain() // descending

	// Stage 2: draw without replacement from the pool.
	m := min(topn, len(pool))
	var sampled []topk.Entry
	if m < len(pool) {
		rng := rand.New(rand.NewSource(sampleSeed(opts.Seed)))
		sampled = make([]topk.Entry, 0, m)
		for _, pos := range rng.Perm(len(pool))[:m] {
			sampled = append(sampled, pool[pos])
		}
	} else {
		sampled = pool
	}

	if opts.KeepOrder && len(sampled) > 1 {
		sort.Slice(sampled, func(i, j int) bool {
			if sampled[i].Score != sampled[j].Score {
				return sampled[i].Score > sampled[j].Score
			}
			return sampled[i].Row < sampled[j].Row
		})
	}

	out := make([]string, len(sampled))
	for i, e := range sampled {
		out[i] = b.vocab.Name(int(e.Row))
	}
	return out
}

func sampleSeed(seed *int64) int64 {
	if seed != nil {
		return *seed
	}
	return rand.Int63()
}
