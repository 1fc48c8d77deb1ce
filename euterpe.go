package euterpe

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/euterpe-ml/euterpe/blobstore"
	"github.com/euterpe-ml/euterpe/core"
	"github.com/euterpe-ml/euterpe/embedding"
	"github.com/euterpe-ml/euterpe/fuse"
	"github.com/euterpe-ml/euterpe/index"
	"github.com/euterpe-ml/euterpe/index/flat"
	"github.com/euterpe-ml/euterpe/index/sharded"
	"github.com/euterpe-ml/euterpe/loader"
	"github.com/euterpe-ml/euterpe/metadata"
	"github.com/euterpe-ml/euterpe/scorer"
	"github.com/euterpe-ml/euterpe/tags"
)

// Recommendation is one ranked result with its catalog entry attached.
type Recommendation struct {
	ID    core.SongID
	Score float32
	Track metadata.Track
}

// Stats summarizes the loaded artifacts.
type Stats struct {
	Songs     int
	Dimension int
	Tags      int
	Tracks    int
	Searcher  string
	Scorer    bool
}

// Engine serves recommendations from immutable, pre-trained artifacts.
// All methods are safe for concurrent use.
type Engine struct {
	songs    *embedding.Store
	searcher index.Searcher
	scorer   *scorer.Scorer
	vocab    *tags.Vocabulary
	bridge   *tags.Bridge
	tracks   *metadata.Store
	logger   *Logger
	opts     Options
}

// New assembles an engine from loaded artifacts. The embedding store
// is required; the vocabulary, scorer and track catalog are optional
// and gate the operations that need them.
func New(arts *loader.Artifacts, optFns ...func(o *Options)) (*Engine, error) {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = NoopLogger()
	}
	if opts.TagTopN <= 0 {
		opts.TagTopN = tags.DefaultTopN
	}
	if opts.TagCandidateK <= 0 {
		opts.TagCandidateK = tags.DefaultCandidateK
	}

	if arts == nil || arts.Songs == nil {
		return nil, fmt.Errorf("euterpe: song embeddings required")
	}
	songs := arts.Songs

	var searcher index.Searcher
	switch opts.Strategy {
	case StrategyExact:
		searcher = flat.New(songs)
	case StrategySharded, "":
		searcher = sharded.New(songs, func(o *sharded.Options) {
			if opts.NumShards > 0 {
				o.NumShards = opts.NumShards
			}
		})
	default:
		return nil, fmt.Errorf("euterpe: unknown strategy %q", opts.Strategy)
	}

	e := &Engine{
		songs:    songs,
		searcher: searcher,
		tracks:   arts.Tracks,
		logger:   opts.Logger,
		opts:     opts,
	}
	if e.tracks == nil {
		e.tracks = metadata.NewStore(nil)
	}

	if arts.Vocabulary != nil {
		if arts.Vocabulary.Dim() != songs.Dim() {
			return nil, &index.ErrDimensionMismatch{Expected: songs.Dim(), Actual: arts.Vocabulary.Dim()}
		}
		e.vocab = arts.Vocabulary
		e.bridge = tags.NewBridge(songs, arts.Vocabulary)
	}

	if arts.Model != nil {
		if arts.Model.Dim() != songs.Dim() {
			return nil, &index.ErrDimensionMismatch{Expected: songs.Dim(), Actual: arts.Model.Dim()}
		}
		e.scorer = scorer.New(arts.Model, func(o *scorer.Options) {
			if opts.ScorerWorkers > 0 {
				o.NumWorkers = opts.ScorerWorkers
			}
		})
	}

	e.logger.Info("engine ready",
		"songs", songs.Len(),
		"dimension", songs.Dim(),
		"tags", vocabLen(e.vocab),
		"tracks", e.tracks.Len(),
		"searcher", searcher.Name(),
		"scorer", e.scorer != nil,
	)
	return e, nil
}

// Open loads all artifacts from the store and assembles an engine.
func Open(ctx context.Context, store blobstore.Store, names loader.ArtifactNames, optFns ...func(o *Options)) (*Engine, error) {
	arts, err := loader.New(store).LoadAll(ctx, names)
	if err != nil {
		return nil, err
	}
	return New(arts, optFns...)
}

// RecommendBySeeds ranks the catalog against the mean vector of the
// seed songs. Seed songs and songs in exclude are never returned.
// Unknown seed ids are ignored; if none are known, ErrNoSeeds is
// returned.
func (e *Engine) RecommendBySeeds(ctx context.Context, seedIDs []core.SongID, k int, exclude []core.SongID) ([]Recommendation, error) {
	recs, err := e.recommendBySeeds(ctx, seedIDs, k, exclude)
	e.logger.LogRecommend(ctx, "seeds", k, len(recs), err)
	return recs, err
}

func (e *Engine) recommendBySeeds(ctx context.Context, seedIDs []core.SongID, k int, exclude []core.SongID) ([]Recommendation, error) {
	if k <= 0 {
		return nil, ErrInvalidK
	}

	query, ok := e.songs.SeedQuery(seedIDs)
	if !ok {
		return nil, ErrNoSeeds
	}

	excl := index.NewExclusion(e.songs.Resolve(seedIDs)...)
	for _, row := range e.songs.Resolve(exclude) {
		excl.Add(row)
	}
	results, err := index.SearchExcluding(ctx, e.searcher, query, k, excl)
	if err != nil {
		return nil, translateError(err)
	}
	return e.fromResults(results), nil
}

// RecommendByTags ranks the catalog against the mean vector of the
// given tags. Tags resolve exact-first, then lowercase. Songs in
// exclude are never returned.
func (e *Engine) RecommendByTags(ctx context.Context, tagNames []string, k int, exclude []core.SongID) ([]Recommendation, error) {
	recs, err := e.recommendByTags(ctx, tagNames, k, exclude)
	e.logger.LogRecommend(ctx, "tags", k, len(recs), err)
	return recs, err
}

func (e *Engine) recommendByTags(ctx context.Context, tagNames []string, k int, exclude []core.SongID) ([]Recommendation, error) {
	if k <= 0 {
		return nil, ErrInvalidK
	}
	if e.vocab == nil {
		return nil, ErrVocabularyUnavailable
	}

	query, ok := e.vocab.MeanQuery(tagNames)
	if !ok {
		return nil, ErrNoTags
	}

	excl := index.NewExclusion(e.songs.Resolve(exclude)...)
	results, err := index.SearchExcluding(ctx, e.searcher, query, k, excl)
	if err != nil {
		return nil, translateError(err)
	}
	return e.fromResults(results), nil
}

// RecommendByModel ranks the catalog with the neural scorer
// conditioned on the seed songs. Seeds and songs in exclude are never
// returned. An empty seed list is valid and yields the scorer's
// unconditional ranking.
func (e *Engine) RecommendByModel(ctx context.Context, seedIDs []core.SongID, k int, exclude []core.SongID) ([]Recommendation, error) {
	recs, err := e.recommendByModel(ctx, seedIDs, k, exclude)
	e.logger.LogRecommend(ctx, "model", k, len(recs), err)
	return recs, err
}

func (e *Engine) recommendByModel(ctx context.Context, seedIDs []core.SongID, k int, exclude []core.SongID) ([]Recommendation, error) {
	if k <= 0 {
		return nil, ErrInvalidK
	}
	if e.scorer == nil {
		return nil, ErrScorerUnavailable
	}

	banned := make([]core.SongID, 0, len(seedIDs)+len(exclude))
	banned = append(banned, seedIDs...)
	banned = append(banned, exclude...)

	scored, err := e.scorer.ScoreAll(ctx, e.scorer.Encode(seedIDs), k, banned)
	if err != nil {
		return nil, translateError(err)
	}
	return e.fromScored(scored), nil
}

// RecommendBySongTags describes a song by its nearest tags, then
// recommends by those tags. The source song and songs in exclude are
// never returned; an unknown song yields an empty result. The
// randomized tag sampling makes repeated calls vary; pass
// tags.WithSeed for reproducible output.
func (e *Engine) RecommendBySongTags(ctx context.Context, songID core.SongID, k int, exclude []core.SongID, optFns ...func(o *tags.QueryOptions)) ([]Recommendation, error) {
	recs, err := e.recommendBySongTags(ctx, songID, k, exclude, optFns...)
	e.logger.LogRecommend(ctx, "song-tags", k, len(recs), err)
	return recs, err
}

func (e *Engine) recommendBySongTags(ctx context.Context, songID core.SongID, k int, exclude []core.SongID, optFns ...func(o *tags.QueryOptions)) ([]Recommendation, error) {
	if k <= 0 {
		return nil, ErrInvalidK
	}

	names, err := e.nearestTags(songID, e.opts.TagTopN, e.opts.TagCandidateK, optFns...)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, nil
	}
	return e.recommendByTags(ctx, names, k, append([]core.SongID{songID}, exclude...))
}

// RecommendBlended interleaves embedding and scorer rankings for the
// same seeds, deduplicated, embedding side first. perSource bounds how
// many candidates each ranking contributes; want bounds the blended
// result. Seeds and songs in exclude are never returned.
func (e *Engine) RecommendBlended(ctx context.Context, seedIDs []core.SongID, perSource, want int, exclude []core.SongID) ([]Recommendation, error) {
	recs, err := e.recommendBlended(ctx, seedIDs, perSource, want, exclude)
	e.logger.LogRecommend(ctx, "blended", want, len(recs), err)
	return recs, err
}

func (e *Engine) recommendBlended(ctx context.Context, seedIDs []core.SongID, perSource, want int, exclude []core.SongID) ([]Recommendation, error) {
	if perSource <= 0 || want <= 0 {
		return nil, ErrInvalidK
	}
	if e.scorer == nil {
		return nil, ErrScorerUnavailable
	}

	var bySeeds, byModel []Recommendation

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		recs, err := e.recommendBySeeds(gctx, seedIDs, perSource, exclude)
		if err != nil {
			return err
		}
		bySeeds = recs
		return nil
	})
	g.Go(func() error {
		recs, err := e.recommendByModel(gctx, seedIDs, perSource, exclude)
		if err != nil {
			return err
		}
		byModel = recs
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := fuse.Interleave(toScored(bySeeds), toScored(byModel), want)
	return e.fromScored(merged), nil
}

// NearestTags returns the song's nearest tags using the engine's
// default topn and candidateK. Songs without an embedding yield an
// empty result.
func (e *Engine) NearestTags(ctx context.Context, songID core.SongID, optFns ...func(o *tags.QueryOptions)) ([]string, error) {
	names, err := e.nearestTags(songID, e.opts.TagTopN, e.opts.TagCandidateK, optFns...)
	e.logger.LogNearestTags(ctx, int64(songID), e.opts.TagTopN, len(names), err)
	return names, err
}

func (e *Engine) nearestTags(songID core.SongID, topn, candidateK int, optFns ...func(o *tags.QueryOptions)) ([]string, error) {
	if e.bridge == nil {
		return nil, ErrVocabularyUnavailable
	}
	return e.bridge.NearestTags(songID, topn, candidateK, optFns...), nil
}

// SearchTracks finds catalog entries whose title or artist contains
// the query, case-insensitively.
func (e *Engine) SearchTracks(query string, limit int) []metadata.Track {
	return e.tracks.Search(query, limit)
}

// Tags lists vocabulary tags containing the query, sorted. An empty
// query lists the whole vocabulary up to limit.
func (e *Engine) Tags(query string, limit int) []string {
	if e.vocab == nil {
		return nil
	}
	return e.vocab.Names(query, limit)
}

// Track returns the catalog entry for a song id.
func (e *Engine) Track(id core.SongID) metadata.Track {
	return e.tracks.Track(id)
}

// Stats returns a summary of the loaded artifacts.
func (e *Engine) Stats() Stats {
	return Stats{
		Songs:     e.songs.Len(),
		Dimension: e.songs.Dim(),
		Tags:      vocabLen(e.vocab),
		Tracks:    e.tracks.Len(),
		Searcher:  e.searcher.Name(),
		Scorer:    e.scorer != nil,
	}
}

func (e *Engine) fromResults(results []index.Result) []Recommendation {
	recs := make([]Recommendation, len(results))
	for i, r := range results {
		id := e.songs.ID(r.Row)
		recs[i] = Recommendation{
			ID:    id,
			Score: r.Score,
			Track: e.tracks.Track(id),
		}
	}
	return recs
}

func (e *Engine) fromScored(scored []core.ScoredSong) []Recommendation {
	recs := make([]Recommendation, len(scored))
	for i, s := range scored {
		recs[i] = Recommendation{
			ID:    s.ID,
			Score: s.Score,
			Track: e.tracks.Track(s.ID),
		}
	}
	return recs
}

func toScored(recs []Recommendation) []core.ScoredSong {
	out := make([]core.ScoredSong, len(recs))
	for i, r := range recs {
		out[i] = core.ScoredSong{ID: r.ID, Score: r.Score}
	}
	return out
}

func vocabLen(v *tags.Vocabulary) int {
	if v == nil {
		return 0
	}
	return v.Len()
}
