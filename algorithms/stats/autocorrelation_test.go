package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutoCorrelationKnownSequence(t *testing.T) {
	ac := NewAutoCorrelation(2)

	r, err := ac.Compute([]float64{1, 2, 3})
	require.NoError(t, err)
	require.Len(t, r, 3)

	assert.Equal(t, 14.0, r[0]) // 1+4+9
	assert.Equal(t, 8.0, r[1])  // 1*2+2*3
	assert.Equal(t, 3.0, r[2])  // 1*3
}

func TestAutoCorrelationZeroLagDominates(t *testing.T) {
	signal := make([]float64, 1024)
	for i := range signal {
		signal[i] = math.Sin(2 * math.Pi * 100 * float64(i) / 44100)
	}

	ac := NewAutoCorrelation(16)
	r, err := ac.Compute(signal)
	require.NoError(t, err)

	for k := 1; k <= 16; k++ {
		assert.LessOrEqual(t, math.Abs(r[k]), r[0], "lag %d", k)
	}
}

func TestAutoCorrelationErrors(t *testing.T) {
	ac := NewAutoCorrelation(4)

	_, err := ac.Compute(nil)
	assert.Error(t, err)

	_, err = ac.Compute([]float64{1, 2, 3})
	assert.Error(t, err)
}

func TestAutoCorrelationNegativeMaxLagClamps(t *testing.T) {
	ac := NewAutoCorrelation(-3)
	assert.Equal(t, 0, ac.MaxLag())

	r, err := ac.Compute([]float64{2})
	require.NoError(t, err)
	assert.Equal(t, []float64{4.0}, r)
}
