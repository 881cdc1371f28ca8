package similarity_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/answerly/scoring-api/internal/similarity"
)

func TestCosineIdenticalDirection(t *testing.T) {
	a := []float32{1, 2, 3}
	b := []float32{2, 4, 6}
	require.InDelta(t, 1.0, similarity.Cosine(a, b), 1e-9)
}

func TestCosineOrthogonal(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{0, 1}
	require.InDelta(t, 0.0, similarity.Cosine(a, b), 1e-9)
}

func TestCosineOpposite(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{-1, 0}
	require.InDelta(t, -1.0, similarity.Cosine(a, b), 1e-9)
}

func TestCosineSymmetry(t *testing.T) {
	a := []float32{0.3, 0.1, 0.9}
	b := []float32{0.5, 0.2, 0.4}
	require.Equal(t, similarity.Cosine(a, b), similarity.Cosine(b, a))
}

func TestCosineDegenerateVectors(t *testing.T) {
	require.Equal(t, 0.0, similarity.Cosine(nil, nil))
	require.Equal(t, 0.0, similarity.Cosine([]float32{1, 2}, []float32{1}))
	require.Equal(t, 0.0, similarity.Cosine([]float32{0, 0}, []float32{1, 1}))
}
