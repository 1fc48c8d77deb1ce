package loader

import (
	"bufio"
	"context"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"io"

	"github.com/euterpe-ml/euterpe/scorer"
)

// checkpointHeader precedes the gob stream of a scorer checkpoint.
type checkpointHeader struct {
	Magic   uint32
	Version uint16
	Padding uint16
}

// checkpointDoc is the gob shape of a scorer checkpoint artifact.
type checkpointDoc struct {
	Dimension int
	Table     []float32
	Layers    []scorer.Dense
	Norm      scorer.LayerNorm
}

// Checkpoint reads a scorer checkpoint artifact and builds the model.
func (l *Loader) Checkpoint(ctx context.Context, name string) (*scorer.Model, error) {
	r, closeFn, err := l.open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	br := bufio.NewReader(r)

	var header checkpointHeader
	if err := binary.Read(br, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("read checkpoint %q: %w", name, err)
	}
	if header.Magic != checkpointMagic {
		return nil, fmt.Errorf("read checkpoint %q: %w: got 0x%08x", name, ErrInvalidMagic, header.Magic)
	}
	if header.Version != checkpointVersion {
		return nil, fmt.Errorf("read checkpoint %q: %w: got %d", name, ErrInvalidVersion, header.Version)
	}

	var doc checkpointDoc
	if err := gob.NewDecoder(br).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode checkpoint %q: %w", name, err)
	}

	model, err := scorer.NewModel(doc.Dimension, doc.Table, doc.Layers, doc.Norm)
	if err != nil {
		return nil, fmt.Errorf("decode checkpoint %q: %w", name, err)
	}
	return model, nil
}

// WriteCheckpoint writes a scorer checkpoint artifact.
func (l *Loader) WriteCheckpoint(ctx context.Context, name string, doc CheckpointParams) error {
	return l.put(ctx, name, func(w io.Writer) error {
		bw := bufio.NewWriter(w)

		header := checkpointHeader{
			Magic:   checkpointMagic,
			Version: checkpointVersion,
		}
		if err := binary.Write(bw, binary.LittleEndian, header); err != nil {
			return err
		}
		if err := gob.NewEncoder(bw).Encode(checkpointDoc{
			Dimension: doc.Dimension,
			Table:     doc.Table,
			Layers:    doc.Layers,
			Norm:      doc.Norm,
		}); err != nil {
			return err
		}
		return bw.Flush()
	})
}

// CheckpointParams are the raw weights written to a checkpoint
// artifact, typically exported by an offline training pipeline.
type CheckpointParams struct {
	Dimension int
	Table     []float32
	Layers    []scorer.Dense
	Norm      scorer.LayerNorm
}
