package euterpe

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"

	"github.com/euterpe-ml/euterpe/blobstore"
	"github.com/euterpe-ml/euterpe/loader"
)

// Config describes an engine build declaratively, typically loaded
// from a YAML file shipped next to the artifacts.
type Config struct {
	Storage   StorageConfig   `yaml:"storage"`
	Artifacts ArtifactsConfig `yaml:"artifacts"`
	Search    SearchConfig    `yaml:"search"`
	Scorer    ScorerConfig    `yaml:"scorer"`
	Tags      TagsConfig      `yaml:"tags"`
	Loader    LoaderConfig    `yaml:"loader"`
}

// StorageConfig selects the artifact store. Cloud stores (S3, MinIO)
// carry credentials and are constructed in code; config files cover
// the local and in-memory kinds.
type StorageConfig struct {
	Kind string `yaml:"kind"` // "local" or "memory"
	Path string `yaml:"path"` // root directory for "local"
}

// ArtifactsConfig names the artifact blobs.
type ArtifactsConfig struct {
	Embeddings string `yaml:"embeddings"`
	Vocabulary string `yaml:"vocabulary"`
	Checkpoint string `yaml:"checkpoint"`
	Tracks     string `yaml:"tracks"`
}

// SearchConfig tunes the embedding index.
type SearchConfig struct {
	Strategy string `yaml:"strategy"` // "exact" or "sharded"
	Shards   int    `yaml:"shards"`
}

// ScorerConfig tunes the neural scorer.
type ScorerConfig struct {
	Workers int `yaml:"workers"`
}

// TagsConfig tunes tag sampling defaults.
type TagsConfig struct {
	TopN       int `yaml:"topn"`
	CandidateK int `yaml:"candidate_k"`
}

// LoaderConfig tunes artifact loading.
type LoaderConfig struct {
	Concurrency    int `yaml:"concurrency"`
	ReadLimitBytes int `yaml:"read_limit_bytes"` // per second, 0 = unlimited
}

// LoadConfig reads and validates a YAML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the config for contradictions before any IO happens.
func (c Config) Validate() error {
	switch c.Storage.Kind {
	case "local":
		if c.Storage.Path == "" {
			return fmt.Errorf("storage: local kind requires a path")
		}
	case "memory", "":
	default:
		return fmt.Errorf("storage: unknown kind %q", c.Storage.Kind)
	}

	if c.Artifacts.Embeddings == "" {
		return fmt.Errorf("artifacts: embeddings name required")
	}

	switch Strategy(c.Search.Strategy) {
	case StrategyExact, StrategySharded, "":
	default:
		return fmt.Errorf("search: unknown strategy %q", c.Search.Strategy)
	}
	if c.Search.Shards < 0 {
		return fmt.Errorf("search: negative shards")
	}
	if c.Scorer.Workers < 0 {
		return fmt.Errorf("scorer: negative workers")
	}
	if c.Loader.ReadLimitBytes < 0 {
		return fmt.Errorf("loader: negative read limit")
	}
	return nil
}

// store builds the configured blob store.
func (c Config) store() (blobstore.Store, error) {
	switch c.Storage.Kind {
	case "local":
		return blobstore.NewLocal(c.Storage.Path), nil
	case "memory", "":
		return blobstore.NewMemory(), nil
	default:
		return nil, fmt.Errorf("storage: unknown kind %q", c.Storage.Kind)
	}
}

// OpenConfig loads artifacts and assembles an engine as described by
// the config. Explicit options override config values.
func OpenConfig(ctx context.Context, cfg Config, optFns ...func(o *Options)) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	store, err := cfg.store()
	if err != nil {
		return nil, err
	}

	l := loader.New(store, func(o *loader.Options) {
		if cfg.Loader.Concurrency > 0 {
			o.Concurrency = cfg.Loader.Concurrency
		}
		if cfg.Loader.ReadLimitBytes > 0 {
			o.ReadLimit = rate.NewLimiter(rate.Limit(cfg.Loader.ReadLimitBytes), cfg.Loader.ReadLimitBytes)
		}
	})

	arts, err := l.LoadAll(ctx, loader.ArtifactNames{
		Embeddings: cfg.Artifacts.Embeddings,
		Vocabulary: cfg.Artifacts.Vocabulary,
		Checkpoint: cfg.Artifacts.Checkpoint,
		Tracks:     cfg.Artifacts.Tracks,
	})
	if err != nil {
		return nil, err
	}

	configured := func(o *Options) {
		if cfg.Search.Strategy != "" {
			o.Strategy = Strategy(cfg.Search.Strategy)
		}
		if cfg.Search.Shards > 0 {
			o.NumShards = cfg.Search.Shards
		}
		if cfg.Scorer.Workers > 0 {
			o.ScorerWorkers = cfg.Scorer.Workers
		}
		if cfg.Tags.TopN > 0 {
			o.TagTopN = cfg.Tags.TopN
		}
		if cfg.Tags.CandidateK > 0 {
			o.TagCandidateK = cfg.Tags.CandidateK
		}
	}
	return New(arts, append([]func(o *Options){configured}, optFns...)...)
}
