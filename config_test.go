package euterpe

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/euterpe-ml/euterpe/blobstore"
	"github.com/euterpe-ml/euterpe/core"
	"github.com/euterpe-ml/euterpe/loader"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "euterpe.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
storage:
  kind: local
  path: ./data
artifacts:
  embeddings: model/songs.vec.zst
  vocabulary: model/tags.json
  tracks: catalog.json
search:
  strategy: sharded
  shards: 4
scorer:
  workers: 2
tags:
  topn: 5
  candidate_k: 12
loader:
  concurrency: 8
  read_limit_bytes: 1048576
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Storage.Kind)
	assert.Equal(t, "model/songs.vec.zst", cfg.Artifacts.Embeddings)
	assert.Equal(t, 4, cfg.Search.Shards)
	assert.Equal(t, 2, cfg.Scorer.Workers)
	assert.Equal(t, 5, cfg.Tags.TopN)
	assert.Equal(t, 1048576, cfg.Loader.ReadLimitBytes)
}

func TestLoadConfigErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("storage: ["), 0o644))
		_, err := LoadConfig(path)
		assert.Error(t, err)
	})
}

func TestConfigValidate(t *testing.T) {
	valid := Config{
		Storage:   StorageConfig{Kind: "local", Path: "./data"},
		Artifacts: ArtifactsConfig{Embeddings: "songs.vec"},
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"local without path", func(c *Config) { c.Storage.Path = "" }},
		{"unknown storage kind", func(c *Config) { c.Storage.Kind = "ftp" }},
		{"missing embeddings", func(c *Config) { c.Artifacts.Embeddings = "" }},
		{"unknown strategy", func(c *Config) { c.Search.Strategy = "hnsw" }},
		{"negative shards", func(c *Config) { c.Search.Shards = -1 }},
		{"negative workers", func(c *Config) { c.Scorer.Workers = -2 }},
		{"negative read limit", func(c *Config) { c.Loader.ReadLimitBytes = -1 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestOpenConfig(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	// Stage artifacts on disk the way a deploy would.
	store := blobstore.NewLocal(dir)
	l := loader.New(store)
	arts := testArtifacts(t)
	require.NoError(t, l.WriteEmbeddings(ctx, "model/songs.vec.zst", arts.Songs))
	require.NoError(t, l.WriteVocabulary(ctx, "model/tags.json", arts.Vocabulary))

	cfg := Config{
		Storage: StorageConfig{Kind: "local", Path: dir},
		Artifacts: ArtifactsConfig{
			Embeddings: "model/songs.vec.zst",
			Vocabulary: "model/tags.json",
		},
		Search: SearchConfig{Strategy: "exact"},
	}

	e, err := OpenConfig(ctx, cfg)
	require.NoError(t, err)

	stats := e.Stats()
	assert.Equal(t, 5, stats.Songs)
	assert.Equal(t, 2, stats.Tags)
	assert.Equal(t, "flat", stats.Searcher)

	recs, err := e.RecommendBySeeds(ctx, []core.SongID{0}, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, []core.SongID{1, 2}, recIDs(recs))
}

func TestOpenConfigOptionOverride(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store := blobstore.NewLocal(dir)
	l := loader.New(store)
	require.NoError(t, l.WriteEmbeddings(ctx, "songs.vec", testArtifacts(t).Songs))

	cfg := Config{
		Storage:   StorageConfig{Kind: "local", Path: dir},
		Artifacts: ArtifactsConfig{Embeddings: "songs.vec"},
		Search:    SearchConfig{Strategy: "exact"},
	}

	e, err := OpenConfig(ctx, cfg, WithStrategy(StrategySharded))
	require.NoError(t, err)
	assert.Equal(t, "sharded", e.Stats().Searcher)
}
