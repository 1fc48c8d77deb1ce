package distance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDot(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float32
	}{
		{"Simple", []float32{1, 2, 3}, []float32{4, 5, 6}, 32},
		{"Zero", []float32{0, 0, 0}, []float32{0, 0, 0}, 0},
		{"Mixed", []float32{1, -1, 2}, []float32{1, 1, -2}, -4},
		{"Empty", []float32{}, []float32{}, 0},
		{"Single", []float32{2}, []float32{3}, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Dot(tt.a, tt.b)
			assert.InDelta(t, tt.expected, got, 1e-5)
		})
	}
}

func TestNormalizeL2InPlace(t *testing.T) {
	t.Run("Unit", func(t *testing.T) {
		v := []float32{3, 4}
		require.True(t, NormalizeL2InPlace(v))
		assert.InDelta(t, 0.6, v[0], 1e-6)
		assert.InDelta(t, 0.8, v[1], 1e-6)
		assert.InDelta(t, 1.0, Dot(v, v), 1e-6)
	})

	t.Run("ZeroNorm", func(t *testing.T) {
		v := []float32{0, 0, 0}
		assert.False(t, NormalizeL2InPlace(v))
		assert.Equal(t, []float32{0, 0, 0}, v)
	})

	t.Run("Empty", func(t *testing.T) {
		assert.False(t, NormalizeL2InPlace(nil))
	})
}

func TestNormalizeL2Copy(t *testing.T) {
	src := []float32{1, 1}
	dst, ok := NormalizeL2Copy(src)
	require.True(t, ok)
	assert.Equal(t, []float32{1, 1}, src)
	assert.InDelta(t, float32(1/math.Sqrt2), dst[0], 1e-6)
}

func TestMean(t *testing.T) {
	t.Run("Average", func(t *testing.T) {
		m := Mean([][]float32{{1, 2}, {3, 4}}, 2)
		assert.Equal(t, []float32{2, 3}, m)
	})

	t.Run("EmptyYieldsZero", func(t *testing.T) {
		m := Mean(nil, 3)
		assert.Equal(t, []float32{0, 0, 0}, m)
	})
}

func TestMeanNormalized(t *testing.T) {
	t.Run("Normalized", func(t *testing.T) {
		m, ok := MeanNormalized([][]float32{{2, 0}, {4, 0}}, 2)
		require.True(t, ok)
		assert.Equal(t, []float32{1, 0}, m)
	})

	t.Run("CancellingVectors", func(t *testing.T) {
		m, ok := MeanNormalized([][]float32{{1, 0}, {-1, 0}}, 2)
		assert.False(t, ok)
		assert.Equal(t, []float32{0, 0}, m)
	})
}
