// Package loader reads and writes the artifact files an engine is
// built from: binary embedding matrices, JSON tag vocabularies, gob
// scorer checkpoints and JSON track catalogs.
//
// Artifacts may be stored compressed; compression is selected by file
// extension (.zst, .gz, .lz4) and is transparent to callers.
package loader

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/time/rate"

	"github.com/euterpe-ml/euterpe/blobstore"
	"github.com/euterpe-ml/euterpe/codec"
)

// Options for the loader.
type Options struct {
	// Codec used for JSON artifacts (vocabularies, track catalogs).
	Codec codec.Codec

	// ReadLimit optionally throttles artifact reads in bytes/second,
	// to keep startup loads from saturating shared object storage.
	// Nil means unlimited.
	ReadLimit *rate.Limiter

	// Concurrency bounds the number of artifacts fetched in parallel
	// by LoadAll.
	Concurrency int
}

// DefaultOptions are the loader defaults.
var DefaultOptions = Options{
	Codec:       codec.Default,
	Concurrency: 4,
}

// Loader reads artifacts from a blob store.
type Loader struct {
	store blobstore.Store
	opts  Options
}

// New creates a loader for the given store.
func New(store blobstore.Store, optFns ...func(o *Options)) *Loader {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Codec == nil {
		opts.Codec = codec.Default
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Loader{store: store, opts: opts}
}

// open opens an artifact for reading, applying read throttling and
// transparent decompression. The returned close func releases both the
// decompressor and the underlying blob.
func (l *Loader) open(ctx context.Context, name string) (io.Reader, func() error, error) {
	rc, err := l.store.Open(ctx, name)
	if err != nil {
		return nil, nil, fmt.Errorf("open artifact %q: %w", name, err)
	}

	var r io.Reader = rc
	if l.opts.ReadLimit != nil {
		r = &throttledReader{ctx: ctx, r: r, limiter: l.opts.ReadLimit}
	}

	dr, closeDecomp, err := decompress(name, r)
	if err != nil {
		rc.Close()
		return nil, nil, fmt.Errorf("open artifact %q: %w", name, err)
	}

	closeAll := func() error {
		derr := closeDecomp()
		cerr := rc.Close()
		if derr != nil {
			return derr
		}
		return cerr
	}
	return dr, closeAll, nil
}

// create opens an artifact writer with transparent compression and
// writes it to the store on close.
func (l *Loader) put(ctx context.Context, name string, fill func(w io.Writer) error) error {
	pr, pw := io.Pipe()

	done := make(chan error, 1)
	go func() {
		err := l.store.Put(ctx, name, pr)
		// Unblocks the writer if the store bailed before EOF.
		pr.CloseWithError(err)
		done <- err
	}()

	cw, closeComp, err := compress(name, pw)
	if err != nil {
		pw.CloseWithError(err)
		<-done
		return fmt.Errorf("write artifact %q: %w", name, err)
	}

	ferr := fill(cw)
	if cerr := closeComp(); ferr == nil {
		ferr = cerr
	}
	pw.CloseWithError(ferr)

	perr := <-done
	if ferr != nil {
		return fmt.Errorf("write artifact %q: %w", name, ferr)
	}
	if perr != nil {
		return fmt.Errorf("write artifact %q: %w", name, perr)
	}
	return nil
}

// throttledReader charges each read against a shared rate limiter.
type throttledReader struct {
	ctx     context.Context
	r       io.Reader
	limiter *rate.Limiter
}

func (t *throttledReader) Read(p []byte) (int, error) {
	if burst := t.limiter.Burst(); burst > 0 && len(p) > burst {
		p = p[:burst]
	}
	n, err := t.r.Read(p)
	if n > 0 {
		if werr := t.limiter.WaitN(t.ctx, n); werr != nil {
			return n, werr
		}
	}
	return n, err
}
