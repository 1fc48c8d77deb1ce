package loader

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/euterpe-ml/euterpe/core"
	"github.com/euterpe-ml/euterpe/embedding"
)

// Embeddings reads a binary embedding matrix artifact and builds the
// song embedding store from it.
//
// File layout (little-endian): embeddingHeader, then Count int64 song
// ids, then Count×Dimension float32 vector components in row order.
func (l *Loader) Embeddings(ctx context.Context, name string) (*embedding.Store, error) {
	r, closeFn, err := l.open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	br := bufio.NewReader(r)

	var header embeddingHeader
	if err := binary.Read(br, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("read embeddings %q: %w", name, err)
	}
	if header.Magic != embeddingMagic {
		return nil, fmt.Errorf("read embeddings %q: %w: got 0x%08x", name, ErrInvalidMagic, header.Magic)
	}
	if header.Version != embeddingVersion {
		return nil, fmt.Errorf("read embeddings %q: %w: got %d", name, ErrInvalidVersion, header.Version)
	}
	if header.Dimension == 0 || header.Dimension > maxEmbeddingDim {
		return nil, fmt.Errorf("read embeddings %q: %w: dimension %d", name, ErrCorruptFile, header.Dimension)
	}
	if header.Count > maxEmbeddingCount {
		return nil, fmt.Errorf("read embeddings %q: %w: count %d", name, ErrCorruptFile, header.Count)
	}

	count := int(header.Count)
	dim := int(header.Dimension)

	rawIDs := make([]int64, count)
	if err := binary.Read(br, binary.LittleEndian, rawIDs); err != nil {
		return nil, fmt.Errorf("read embeddings %q ids: %w", name, err)
	}
	ids := make([]core.SongID, count)
	for i, id := range rawIDs {
		ids[i] = core.SongID(id)
	}

	flat := make([]float32, count*dim)
	if err := binary.Read(br, binary.LittleEndian, flat); err != nil {
		return nil, fmt.Errorf("read embeddings %q vectors: %w", name, err)
	}

	vectors := make([][]float32, count)
	for i := range vectors {
		vectors[i] = flat[i*dim : (i+1)*dim : (i+1)*dim]
	}

	store, err := embedding.New(dim, ids, vectors)
	if err != nil {
		return nil, fmt.Errorf("read embeddings %q: %w", name, err)
	}
	return store, nil
}

// WriteEmbeddings writes a song embedding matrix artifact.
func (l *Loader) WriteEmbeddings(ctx context.Context, name string, store *embedding.Store) error {
	return l.put(ctx, name, func(w io.Writer) error {
		bw := bufio.NewWriter(w)

		header := embeddingHeader{
			Magic:     embeddingMagic,
			Version:   embeddingVersion,
			Count:     uint32(store.Len()),
			Dimension: uint32(store.Dim()),
		}
		if err := binary.Write(bw, binary.LittleEndian, header); err != nil {
			return err
		}

		ids := make([]int64, store.Len())
		for row := range ids {
			ids[row] = int64(store.ID(core.Row(row)))
		}
		if err := binary.Write(bw, binary.LittleEndian, ids); err != nil {
			return err
		}

		for row := 0; row < store.Len(); row++ {
			if err := binary.Write(bw, binary.LittleEndian, store.Vector(core.Row(row))); err != nil {
				return err
			}
		}
		return bw.Flush()
	})
}
