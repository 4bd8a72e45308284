package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMedian(t *testing.T) {
	assert.Equal(t, 0.0, Median(nil))
	assert.Equal(t, 7.0, Median([]float64{7}))
	assert.Equal(t, 3.0, Median([]float64{5, 1, 3}))

	// Even-length inputs average the two middle values
	assert.Equal(t, 25.0, Median([]float64{40, 10, 30, 20}))
	assert.Equal(t, 1.5, Median([]float64{2, 1}))
}

func TestMedianDoesNotMutateInput(t *testing.T) {
	data := []float64{3, 1, 2}
	Median(data)
	assert.Equal(t, []float64{3, 1, 2}, data)
}

func TestMapRange(t *testing.T) {
	assert.Equal(t, 50.0, MapRange(5, 0, 10, 0, 100))
	assert.Equal(t, 0.0, MapRange(-5, 0, 10, 0, 100), "input clamps low")
	assert.Equal(t, 100.0, MapRange(15, 0, 10, 0, 100), "input clamps high")

	// Inverted output range flips the mapping
	assert.Equal(t, 100.0, MapRange(-12, -12, -2, 100, 0))
	assert.Equal(t, 0.0, MapRange(-2, -12, -2, 100, 0))
	assert.Equal(t, 50.0, MapRange(-7, -12, -2, 100, 0))

	// Degenerate input range
	assert.Equal(t, 42.0, MapRange(3, 5, 5, 42, 99))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 5.0, Clamp(5, 0, 10))
	assert.Equal(t, 0.0, Clamp(-1, 0, 10))
	assert.Equal(t, 10.0, Clamp(11, 0, 10))
}

func TestStandardDeviation(t *testing.T) {
	assert.Zero(t, StandardDeviation(nil))
	assert.Zero(t, StandardDeviation([]float64{5}))
	assert.Zero(t, StandardDeviation([]float64{5, 5, 5}))
	assert.InDelta(t, 1.0, StandardDeviation([]float64{1, 2, 3}), 1e-12)
}

func TestLinRegression(t *testing.T) {
	x := []float64{1, 2, 3, 4}
	y := []float64{3, 5, 7, 9} // y = 2x + 1

	slope, intercept := LinRegression(x, y)
	assert.InDelta(t, 2.0, slope, 1e-12)
	assert.InDelta(t, 1.0, intercept, 1e-12)

	slope, intercept = LinRegression([]float64{1}, []float64{1})
	assert.Zero(t, slope)
	assert.Zero(t, intercept)
}

func TestRMS(t *testing.T) {
	assert.Zero(t, RMS(nil))
	assert.InDelta(t, 2.0, RMS([]float64{2, -2, 2, -2}), 1e-12)
}
