package loader

import (
	"context"
	"fmt"
	"io"

	"github.com/euterpe-ml/euterpe/metadata"
)

// Tracks reads a JSON track catalog artifact.
func (l *Loader) Tracks(ctx context.Context, name string) (*metadata.Store, error) {
	r, closeFn, err := l.open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read tracks %q: %w", name, err)
	}

	var records []metadata.Track
	if err := l.opts.Codec.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode tracks %q: %w", name, err)
	}
	return metadata.NewStore(records), nil
}

// WriteTracks writes a JSON track catalog artifact.
func (l *Loader) WriteTracks(ctx context.Context, name string, records []metadata.Track) error {
	data, err := l.opts.Codec.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode tracks %q: %w", name, err)
	}
	return l.put(ctx, name, func(w io.Writer) error {
		_, werr := w.Write(data)
		return werr
	})
}
