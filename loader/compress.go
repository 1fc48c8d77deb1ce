package loader

import (
	"io"
	"path"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// decompress wraps r with a decompressor chosen by the artifact name's
// extension. Unrecognized extensions pass through unchanged, so plain
// and compressed artifacts can live side by side in one store.
func decompress(name string, r io.Reader) (io.Reader, func() error, error) {
	switch path.Ext(name) {
	case ".zst":
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return zr, func() error { zr.Close(); return nil }, nil
	case ".gz":
		gr, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return gr, gr.Close, nil
	case ".lz4":
		return lz4.NewReader(r), func() error { return nil }, nil
	default:
		return r, func() error { return nil }, nil
	}
}

// compress wraps w with a compressor chosen by the artifact name's
// extension. The returned close func must be called to flush.
func compress(name string, w io.Writer) (io.Writer, func() error, error) {
	switch path.Ext(name) {
	case ".zst":
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return nil, nil, err
		}
		return zw, zw.Close, nil
	case ".gz":
		gw := gzip.NewWriter(w)
		return gw, gw.Close, nil
	case ".lz4":
		lw := lz4.NewWriter(w)
		return lw, lw.Close, nil
	default:
		return w, func() error { return nil }, nil
	}
}
