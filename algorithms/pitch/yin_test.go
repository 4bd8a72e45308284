package pitch

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxlumen/voicepillars/audio"
)

func sineFrame(freq float64, sampleRate, length int, amplitude float64) *audio.AudioFrame {
	samples := make([]float64, length)
	for i := range samples {
		samples[i] = amplitude * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
	}

	return &audio.AudioFrame{
		Samples:    samples,
		SampleRate: sampleRate,
		FFTSize:    length,
	}
}

func TestDetectSyntheticTones(t *testing.T) {
	detector := NewDetector()

	for _, freq := range []float64{100, 150, 200, 250, 300} {
		frame := sineFrame(freq, 44100, 4096, 0.5)

		estimate := detector.Detect(frame)
		require.True(t, estimate.Voiced, "expected %v Hz tone to be voiced", freq)
		assert.InDelta(t, freq, estimate.PitchHz, 5.0, "pitch estimate for %v Hz", freq)
		assert.Greater(t, estimate.Clarity, 0.5, "clarity for %v Hz", freq)
	}
}

func TestDetectSilence(t *testing.T) {
	detector := NewDetector()

	tests := []struct {
		name  string
		frame *audio.AudioFrame
	}{
		{"nil frame", nil},
		{"empty buffer", &audio.AudioFrame{SampleRate: 44100}},
		{"all zeros", &audio.AudioFrame{Samples: make([]float64, 4096), SampleRate: 44100}},
		{"below RMS threshold", sineFrame(200, 44100, 4096, 0.005)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			estimate := detector.Detect(tt.frame)
			assert.False(t, estimate.Voiced)
			assert.Zero(t, estimate.Clarity)
		})
	}
}

func TestDetectAperiodicInput(t *testing.T) {
	detector := NewDetector()

	// White noise has no lag that clears even the relaxed acceptance
	// bound.
	rng := rand.New(rand.NewSource(1))
	samples := make([]float64, 4096)
	for i := range samples {
		samples[i] = rng.Float64() - 0.5
	}

	estimate := detector.Detect(&audio.AudioFrame{
		Samples:    samples,
		SampleRate: 44100,
		FFTSize:    4096,
	})
	assert.False(t, estimate.Voiced)
}

func TestDetectIsDeterministic(t *testing.T) {
	detector := NewDetector()
	frame := sineFrame(220, 44100, 4096, 0.5)

	first := detector.Detect(frame)
	second := detector.Detect(frame)
	assert.Equal(t, first, second)
}

func TestClassifyRange(t *testing.T) {
	tests := []struct {
		hz   float64
		want RangeClass
	}{
		{50, RangeMasculine},
		{149.99, RangeMasculine},
		{150, RangeAndrogynous},
		{179.99, RangeAndrogynous},
		{180, RangeFeminine},
		{249.99, RangeFeminine},
		{250, RangeHighFeminine},
		{499, RangeHighFeminine},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyRange(tt.hz), "classify %v Hz", tt.hz)
	}
}

func TestClassifyRangeIsTotalPartition(t *testing.T) {
	// Every frequency in the detector's range maps to exactly one
	// bucket.
	for hz := 50.0; hz < 500; hz += 0.5 {
		c := ClassifyRange(hz)
		assert.Contains(t, []RangeClass{RangeMasculine, RangeAndrogynous, RangeFeminine, RangeHighFeminine}, c)
		assert.NotEqual(t, "unknown", c.String())
	}
}
