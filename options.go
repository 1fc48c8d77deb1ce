package euterpe

import "github.com/euterpe-ml/euterpe/tags"

// Strategy selects how the embedding index is scanned.
type Strategy string

const (
	// StrategyExact scans the matrix on a single goroutine.
	StrategyExact Strategy = "exact"

	// StrategySharded fans the scan out across CPU cores. Results are
	// identical to StrategyExact; only latency differs.
	StrategySharded Strategy = "sharded"
)

// Options configure an Engine.
type Options struct {
	// Logger receives structured operation logs. Defaults to a noop
	// logger.
	Logger *Logger

	// Strategy selects the embedding index implementation.
	Strategy Strategy

	// NumShards bounds the fan-out width for StrategySharded.
	// Zero means one shard per CPU core.
	NumShards int

	// ScorerWorkers bounds the scorer's catalog scan parallelism.
	// Zero means single-threaded.
	ScorerWorkers int

	// TagTopN is the default number of tags returned by NearestTags
	// and used by RecommendBySongTags.
	TagTopN int

	// TagCandidateK is the default shortlist size tags are sampled
	// from.
	TagCandidateK int
}

// DefaultOptions are the engine defaults.
var DefaultOptions = Options{
	Strategy:      StrategySharded,
	TagTopN:       tags.DefaultTopN,
	TagCandidateK: tags.DefaultCandidateK,
}

// WithLogger sets the engine logger.
func WithLogger(logger *Logger) func(o *Options) {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithStrategy selects the embedding index implementation.
func WithStrategy(s Strategy) func(o *Options) {
	return func(o *Options) {
		o.Strategy = s
	}
}

// WithNumShards bounds the sharded scan fan-out.
func WithNumShards(n int) func(o *Options) {
	return func(o *Options) {
		o.NumShards = n
	}
}

// WithScorerWorkers bounds the scorer's scan parallelism.
func WithScorerWorkers(n int) func(o *Options) {
	return func(o *Options) {
		o.ScorerWorkers = n
	}
}

// WithTagDefaults sets the default topn and candidateK for tag
// operations.
func WithTagDefaults(topn, candidateK int) func(o *Options) {
	return func(o *Options) {
		o.TagTopN = topn
		o.TagCandidateK = candidateK
	}
}
