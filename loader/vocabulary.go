package loader

import (
	"context"
	"fmt"
	"io"

	"github.com/euterpe-ml/euterpe/tags"
)

// vocabularyDoc is the JSON shape of a tag vocabulary artifact.
type vocabularyDoc struct {
	Dimension int                  `json:"dimension"`
	Vectors   map[string][]float32 `json:"vectors"`
}

// Vocabulary reads a JSON tag vocabulary artifact.
func (l *Loader) Vocabulary(ctx context.Context, name string) (*tags.Vocabulary, error) {
	r, closeFn, err := l.open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary %q: %w", name, err)
	}

	var doc vocabularyDoc
	if err := l.opts.Codec.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode vocabulary %q: %w", name, err)
	}

	vocab, err := tags.FromMap(doc.Dimension, doc.Vectors)
	if err != nil {
		return nil, fmt.Errorf("decode vocabulary %q: %w", name, err)
	}
	return vocab, nil
}

// WriteVocabulary writes a JSON tag vocabulary artifact.
func (l *Loader) WriteVocabulary(ctx context.Context, name string, vocab *tags.Vocabulary) error {
	doc := vocabularyDoc{
		Dimension: vocab.Dim(),
		Vectors:   make(map[string][]float32, vocab.Len()),
	}
	for i := 0; i < vocab.Len(); i++ {
		doc.Vectors[vocab.Name(i)] = vocab.Vector(i)
	}

	data, err := l.opts.Codec.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode vocabulary %q: %w", name, err)
	}
	return l.put(ctx, name, func(w io.Writer) error {
		_, werr := w.Write(data)
		return werr
	})
}
