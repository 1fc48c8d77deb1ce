// Package tags provides the tag vocabulary and the vector-similarity
// bridge from songs to tags.
package tags

import (
	"fmt"
	"sort"
	"strings"

	"github.com/euterpe-ml/euterpe/distance"
)

// Vocabulary is the immutable, ordered set of (tag, unit vector) pairs.
// Built once at load time; concurrent readers need no coordination.
type Vocabulary struct {
	dim    int
	names  []string
	data   []float32 // vectors[i] = data[i*dim : (i+1)*dim]
	lookup map[string]int
}

// NewVocabulary builds a Vocabulary from parallel name and vector
// slices. Vectors are defensively L2-normalized on load; duplicate tag
// names are a construction error.
func NewVocabulary(dim int, names []string, vectors [][]float32) (*Vocabulary, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("tags: invalid dimension %d", dim)
	}
	if len(names) != len(vectors) {
		return nil, fmt.Errorf("tags: %d names for %d vectors", len(names), len(vectors))
	}

	v := &Vocabulary{
		dim:    dim,
		names:  make([]string, len(names)),
		data:   make([]float32, len(names)*dim),
		lookup: make(map[string]int, len(names)),
	}

	for i, name := range names {
		if len(vectors[i]) != dim {
			return nil, fmt.Errorf("tags: tag %q has dimension %d, expected %d", name, len(vectors[i]), dim)
		}
		if _, exists := v.lookup[name]; exists {
			return nil, fmt.Errorf("tags: duplicate tag %q", name)
		}

		row := v.data[i*dim : (i+1)*dim]
		copy(row, vectors[i])
		distance.NormalizeL2InPlace(row)

		v.names[i] = name
		v.lookup[name] = i
	}

	return v, nil
}

// FromMap builds a Vocabulary from a tag→vector map, ordering tags
// lexicographically so construction is deterministic.
func FromMap(dim int, m map[string][]float32) (*Vocabulary, error) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	vectors := make([][]float32, len(names))
	for i, name := range names {
		vectors[i] = m[name]
	}
	return NewVocabulary(dim, names, vectors)
}

// Dim returns the vector dimensionality.
func (v *Vocabulary) Dim() int { return v.dim }

// Len returns the number of tags.
func (v *Vocabulary) Len() int { return len(v.names) }

// Name returns the tag string at index i.
func (v *Vocabulary) Name(i int) string { return v.names[i] }

// Vector returns the stored vector at index i.
// The returned slice aliases internal memory and must not be modified.
func (v *Vocabulary) Vector(i int) []float32 {
	return v.data[i*v.dim : (i+1)*v.dim]
}

// Resolve maps a user-supplied tag string to its index. The trimmed
// string is tried verbatim first, then lowercased; a miss is reported
// with false, never an error.
func (v *Vocabulary) Resolve(tag string) (int, bool) {
	t := strings.TrimSpace(tag)
	if i, ok := v.lookup[t]; ok {
		return i, true
	}
	i, ok := v.lookup[strings.ToLower(t)]
	return i, ok
}

// Names returns up to limit tag names sorted lexicographically,
// optionally restricted to names containing q (case-insensitive).
// limit <= 0 means no bound.
func (v *Vocabulary) Names(q string, limit int) []string {
	out := make([]string, 0, len(v.names))
	qq := strings.ToLower(strings.TrimSpace(q))
	for _, name := range v.names {
		if qq != "" && !strings.Contains(strings.ToLower(name), qq) {
			continue
		}
		out = append(out, name)
	}
	sort.Strings(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// MeanQuery computes the unit-normalized mean vector of the resolved
// tags. Unresolved tags are dropped; it returns false when nothing
// resolves or the mean cancels to zero norm.
func (v *Vocabulary) MeanQuery(tagNames []string) ([]float32, bool) {
	vectors := make([][]float32, 0, len(tagNames))
	for _, name := range tagNames {
		if i, ok := v.Resolve(name); ok {
			vectors = append(vectors, v.Vector(i))
		}
	}
	if len(vectors) == 0 {
		return nil, false
	}
	return distance.MeanNormalized(vectors, v.dim)
}
