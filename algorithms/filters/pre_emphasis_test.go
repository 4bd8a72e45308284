package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreEmphasisApply(t *testing.T) {
	p := NewPreEmphasis(0.97)

	out := p.Apply([]float64{1, 1, 1})
	require.Len(t, out, 3)

	// First sample passes through; the rest are differenced
	assert.Equal(t, 1.0, out[0])
	assert.InDelta(t, 0.03, out[1], 1e-12)
	assert.InDelta(t, 0.03, out[2], 1e-12)
}

func TestPreEmphasisDoesNotMutateInput(t *testing.T) {
	p := NewPreEmphasisDefault()

	signal := []float64{0.5, -0.5, 0.25}
	p.Apply(signal)
	assert.Equal(t, []float64{0.5, -0.5, 0.25}, signal)
}

func TestPreEmphasisEmptyInput(t *testing.T) {
	p := NewPreEmphasisDefault()
	assert.Nil(t, p.Apply(nil))
}

func TestPreEmphasisInvalidCoefficientFallsBack(t *testing.T) {
	assert.Equal(t, DefaultPreEmphasisCoefficient, NewPreEmphasis(0).Coefficient())
	assert.Equal(t, DefaultPreEmphasisCoefficient, NewPreEmphasis(1.5).Coefficient())
	assert.Equal(t, 0.95, NewPreEmphasis(0.95).Coefficient())
}
