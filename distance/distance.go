// Package distance provides the vector math used throughout the engine.
//
// All vectors are float32. Similarity is the plain inner product, which
// equals cosine similarity for the unit-normalized vectors the engine
// stores. The loop bodies are written so the compiler can vectorize
// them; there are no architecture-specific kernels.
package distance

import (
	"math"
	"slices"
)

// Dot calculates the dot product of two vectors.
// Assumes vectors are the same length (caller's responsibility).
func Dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// NormalizeL2InPlace L2-normalizes v in place.
// Returns false if v has zero L2 norm; v is left unchanged in that case.
func NormalizeL2InPlace(v []float32) bool {
	if len(v) == 0 {
		return false
	}
	norm2 := Dot(v, v)
	if norm2 == 0 {
		return false
	}
	inv := 1 / float32(math.Sqrt(float64(norm2)))
	for i := range v {
		v[i] *= inv
	}
	return true
}

// NormalizeL2Copy returns a normalized copy of src.
// Returns false if src has zero L2 norm.
func NormalizeL2Copy(src []float32) ([]float32, bool) {
	dst := slices.Clone(src)
	if !NormalizeL2InPlace(dst) {
		return nil, false
	}
	return dst, true
}

// Mean returns the element-wise mean of the given vectors, all of which
// must share the dimension dim. An empty input yields the zero vector,
// which is the defined degenerate fallback for empty seed sets.
func Mean(vectors [][]float32, dim int) []float32 {
	out := make([]float32, dim)
	if len(vectors) == 0 {
		return out
	}
	for _, v := range vectors {
		for i := range out {
			out[i] += v[i]
		}
	}
	inv := 1 / float32(len(vectors))
	for i := range out {
		out[i] *= inv
	}
	return out
}

// MeanNormalized returns the unit-normalized mean of the given vectors.
// If the input is empty or the mean has zero norm, it returns the zero
// vector and false.
func MeanNormalized(vectors [][]float32, dim int) ([]float32, bool) {
	m := Mean(vectors, dim)
	if !NormalizeL2InPlace(m) {
		return m, false
	}
	return m, true
}
