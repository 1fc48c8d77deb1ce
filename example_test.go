package euterpe_test

import (
	"context"
	"fmt"

	euterpe "github.com/euterpe-ml/euterpe"
	"github.com/euterpe-ml/euterpe/blobstore"
	"github.com/euterpe-ml/euterpe/core"
	"github.com/euterpe-ml/euterpe/embedding"
	"github.com/euterpe-ml/euterpe/loader"
	"github.com/euterpe-ml/euterpe/metadata"
)

func Example() {
	ctx := context.Background()

	// Artifacts normally come from an offline training pipeline; here
	// a tiny catalog is staged in memory.
	songs, err := embedding.New(2,
		[]core.SongID{1, 2, 3},
		[][]float32{
			{1, 0},
			{0.8, 0.6},
			{0, 1},
		},
	)
	if err != nil {
		panic(err)
	}

	store := blobstore.NewMemory()
	l := loader.New(store)
	if err := l.WriteEmbeddings(ctx, "model/songs.vec", songs); err != nil {
		panic(err)
	}
	if err := l.WriteTracks(ctx, "catalog.json", []metadata.Track{
		{ID: 1, Title: "First Light"},
		{ID: 2, Title: "Halfway Up"},
		{ID: 3, Title: "Zenith"},
	}); err != nil {
		panic(err)
	}

	engine, err := euterpe.Open(ctx, store, loader.ArtifactNames{
		Embeddings: "model/songs.vec",
		Tracks:     "catalog.json",
	})
	if err != nil {
		panic(err)
	}

	recs, err := engine.RecommendBySeeds(ctx, []core.SongID{1}, 2, nil)
	if err != nil {
		panic(err)
	}
	for _, r := range recs {
		fmt.Println(r.Track.Title)
	}
	// Output:
	// Halfway Up
	// Zenith
}
