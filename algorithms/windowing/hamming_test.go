package windowing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHammingCoefficients(t *testing.T) {
	h := NewHamming(64)
	coeffs := h.Coefficients()
	require.Len(t, coeffs, 64)

	// Symmetric window: 0.08 at the edges, 1.0 nowhere but near center
	assert.InDelta(t, 0.08, coeffs[0], 1e-9)
	assert.InDelta(t, 0.08, coeffs[63], 1e-9)

	for i := 0; i < 32; i++ {
		assert.InDelta(t, coeffs[i], coeffs[63-i], 1e-12, "symmetry at %d", i)
	}

	for _, c := range coeffs {
		assert.GreaterOrEqual(t, c, 0.08-1e-9)
		assert.LessOrEqual(t, c, 1.0)
	}
}

func TestHammingSizeOne(t *testing.T) {
	h := NewHamming(1)
	assert.Equal(t, []float64{1.0}, h.Coefficients())
}

func TestHammingApply(t *testing.T) {
	h := NewHamming(4)

	signal := []float64{1, 1, 1, 1}
	windowed := h.Apply(signal)
	require.NotNil(t, windowed)
	assert.Equal(t, h.Coefficients(), windowed)

	// Original is untouched
	assert.Equal(t, []float64{1, 1, 1, 1}, signal)

	assert.Nil(t, h.Apply([]float64{1, 2}))
}

func TestHammingApplyInPlace(t *testing.T) {
	h := NewHamming(4)

	signal := []float64{1, 1, 1, 1}
	require.NoError(t, h.ApplyInPlace(signal))
	assert.Equal(t, h.Coefficients(), signal)

	assert.Error(t, h.ApplyInPlace([]float64{1, 2}))
}
