// Package embedding holds the immutable, L2-normalized song embedding
// matrix together with the bidirectional mapping between external song
// ids and dense row indices.
//
// A Store is constructed exactly once at process startup and is strictly
// read-only afterwards; concurrent readers need no coordination.
package embedding

import (
	"fmt"

	"github.com/euterpe-ml/euterpe/core"
	"github.com/euterpe-ml/euterpe/distance"
)

// Store is the embedding matrix plus id⇄row mapping.
//
// Vectors are stored contiguously in a single []float32 slice, row-major,
// providing cache locality for the full-matrix scans the searchers and
// the scorer perform.
type Store struct {
	dim  int
	data []float32              // vectors[row] = data[row*dim : (row+1)*dim]
	ids  []core.SongID          // row -> external id
	rows map[core.SongID]core.Row // external id -> row
}

// New builds a Store from parallel id and vector slices.
//
// Every vector must have dimension dim. Vectors are defensively
// L2-normalized; a zero-norm vector is kept as the zero vector rather
// than rejected, so degenerate embeddings rank last instead of failing
// the load. Duplicate ids are a construction error.
func New(dim int, ids []core.SongID, vectors [][]float32) (*Store, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("embedding: invalid dimension %d", dim)
	}
	if len(ids) != len(vectors) {
		return nil, fmt.Errorf("embedding: %d ids for %d vectors", len(ids), len(vectors))
	}
	if len(ids) > int(core.MaxRow) {
		return nil, fmt.Errorf("embedding: %d songs exceed row capacity", len(ids))
	}

	s := &Store{
		dim:  dim,
		data: make([]float32, len(ids)*dim),
		ids:  make([]core.SongID, len(ids)),
		rows: make(map[core.SongID]core.Row, len(ids)),
	}

	for i, id := range ids {
		if len(vectors[i]) != dim {
			return nil, fmt.Errorf("embedding: song %d has dimension %d, expected %d", id, len(vectors[i]), dim)
		}
		if _, exists := s.rows[id]; exists {
			return nil, fmt.Errorf("embedding: duplicate song id %d", id)
		}

		row := s.data[i*dim : (i+1)*dim]
		copy(row, vectors[i])
		distance.NormalizeL2InPlace(row) // zero-norm rows stay zero

		s.ids[i] = id
		s.rows[id] = core.Row(i)
	}

	return s, nil
}

// Dim returns the vector dimensionality.
func (s *Store) Dim() int { return s.dim }

// Len returns the number of songs in the store.
func (s *Store) Len() int { return len(s.ids) }

// Vector returns the stored vector for the given row.
// The returned slice aliases internal memory and must not be modified.
func (s *Store) Vector(row core.Row) []float32 {
	return s.data[int(row)*s.dim : (int(row)+1)*s.dim]
}

// ID returns the external song id for the given row.
func (s *Store) ID(row core.Row) core.SongID { return s.ids[row] }

// Lookup returns the row for the given song id.
func (s *Store) Lookup(id core.SongID) (core.Row, bool) {
	row, ok := s.rows[id]
	return row, ok
}

// Resolve maps song ids to rows, silently dropping ids absent from the
// mapping. An empty result is not an error; callers must special-case
// "no valid seed" themselves.
func (s *Store) Resolve(ids []core.SongID) []core.Row {
	rows := make([]core.Row, 0, len(ids))
	for _, id := range ids {
		if row, ok := s.rows[id]; ok {
			rows = append(rows, row)
		}
	}
	return rows
}

// SeedQuery computes the unit-normalized mean vector of the resolved
// seed ids. It returns false when no seed resolves, or when the resolved
// vectors cancel to zero norm; no query should be issued in either case.
func (s *Store) SeedQuery(seedIDs []core.SongID) ([]float32, bool) {
	rows := s.Resolve(seedIDs)
	if len(rows) == 0 {
		return nil, false
	}

	vectors := make([][]float32, len(rows))
	for i, row := range rows {
		vectors[i] = s.Vector(row)
	}
	return distance.MeanNormalized(vectors, s.dim)
}
