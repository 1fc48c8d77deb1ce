// Package euterpe provides an embedded music recommendation engine for Go.
//
// Euterpe serves playlist continuation from pre-trained artifacts: a
// song embedding matrix, an optional tag vocabulary sharing the same
// space, and an optional neural scorer checkpoint. Artifacts are
// immutable; the engine is rebuilt to pick up new model versions.
//
// # Quick Start
//
//	ctx := context.Background()
//
//	l := loader.New(blobstore.NewLocal("./data"))
//	arts, _ := l.LoadAll(ctx, loader.ArtifactNames{
//	    Embeddings: "model/songs.vec",
//	    Vocabulary: "model/tags.json",
//	    Checkpoint: "model/dae.ckpt",
//	    Tracks:     "catalog.json",
//	})
//
//	engine, _ := euterpe.New(arts)
//
//	recs, _ := engine.RecommendBySeeds(ctx, []core.SongID{42, 105}, 10, nil)
//	for _, r := range recs {
//	    fmt.Println(r.Track.Title, r.Score)
//	}
//
// # Recommendation Strategies
//
//   - RecommendBySeeds: mean seed vector against the embedding index
//   - RecommendByTags: mean tag vector against the embedding index
//   - RecommendByModel: neural scorer over the whole catalog
//   - RecommendBySongTags: a song's nearest tags fed back as a query
//   - RecommendBlended: embedding and scorer results interleaved
//
// Cloud storage works the same way through blobstore implementations
// (s3.Store, minio.Store); see the blobstore package.
package euterpe
