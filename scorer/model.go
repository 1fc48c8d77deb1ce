// Package scorer implements the playlist-conditioned neural scorer: a
// denoising-autoencoder-style network that folds an arbitrary-length
// seed set into one query vector and ranks every song by inner product
// against a weight-tied embedding table.
//
// The decoder is the embedding table itself: a song's score is the dot
// product between its own embedding row and the encoded playlist
// vector. There is no separate decoder matrix.
//
// The scorer's id space is dense: song ids are valid when they fall in
// [0, NumSongs) for the loaded table. Ids outside that range are
// silently dropped before encoding, mirroring the embedding store's
// handling of stale ids.
package scorer

import (
	"fmt"
	"math"

	"github.com/euterpe-ml/euterpe/core"
)

// Dense is one linear layer of the encoder: y = W·x + B.
// W is dim×dim row-major. A ReLU follows each layer; the dropout used
// in training is not applied at inference.
type Dense struct {
	W []float32
	B []float32
}

// LayerNorm is the final normalization step of the encoder.
type LayerNorm struct {
	Gamma []float32
	Beta  []float32
	Eps   float32
}

// Model holds the trained scorer weights, immutable after construction.
type Model struct {
	dim      int
	numSongs int
	table    []float32 // numSongs × dim, row-major; tied encoder/decoder weights
	layers   []Dense
	norm     LayerNorm
}

// NewModel validates the weight shapes and assembles a Model.
// The table is numSongs×dim row-major; each layer must be dim×dim.
func NewModel(dim int, table []float32, layers []Dense, norm LayerNorm) (*Model, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("scorer: invalid dimension %d", dim)
	}
	if len(table) == 0 || len(table)%dim != 0 {
		return nil, fmt.Errorf("scorer: table length %d not a multiple of dimension %d", len(table), dim)
	}
	for i, l := range layers {
		if len(l.W) != dim*dim {
			return nil, fmt.Errorf("scorer: layer %d weight length %d, expected %d", i, len(l.W), dim*dim)
		}
		if len(l.B) != dim {
			return nil, fmt.Errorf("scorer: layer %d bias length %d, expected %d", i, len(l.B), dim)
		}
	}
	if len(norm.Gamma) != dim || len(norm.Beta) != dim {
		return nil, fmt.Errorf("scorer: layer norm parameter length mismatch")
	}
	if norm.Eps <= 0 {
		norm.Eps = 1e-5
	}

	return &Model{
		dim:      dim,
		numSongs: len(table) / dim,
		table:    table,
		layers:   layers,
		norm:     norm,
	}, nil
}

// Dim returns the embedding dimensionality.
func (m *Model) Dim() int { return m.dim }

// NumSongs returns the size of the scorer's dense id space.
func (m *Model) NumSongs() int { return m.numSongs }

// Depth returns the number of encoder layers.
func (m *Model) Depth() int { return len(m.layers) }

// valid reports whether id falls inside the model's id range.
func (m *Model) valid(id core.SongID) bool {
	return id >= 0 && int64(id) < int64(m.numSongs)
}

// row returns the embedding row for a valid id.
func (m *Model) row(id core.SongID) []float32 {
	return m.table[int(id)*m.dim : (int(id)+1)*m.dim]
}

// forward runs v through the encoder stack and the final normalization.
// v is modified in place and returned.
func (m *Model) forward(v []float32) []float32 {
	h := v
	out := make([]float32, m.dim)

	for _, l := range m.layers {
		for i := range out {
			sum := l.B[i]
			w := l.W[i*m.dim : (i+1)*m.dim]
			for j, x := range h {
				sum += w[j] * x
			}
			if sum < 0 { // ReLU
				sum = 0
			}
			out[i] = sum
		}
		h, out = out, h
	}

	return m.norm.apply(h)
}

// apply normalizes x in place over the feature dimension.
func (n LayerNorm) apply(x []float32) []float32 {
	var mean float64
	for _, v := range x {
		mean += float64(v)
	}
	mean /= float64(len(x))

	var variance float64
	for _, v := range x {
		d := float64(v) - mean
		variance += d * d
	}
	variance /= float64(len(x))

	inv := 1 / math.Sqrt(variance+float64(n.Eps))
	for i, v := range x {
		x[i] = n.Gamma[i]*float32((float64(v)-mean)*inv) + n.Beta[i]
	}
	return x
}
