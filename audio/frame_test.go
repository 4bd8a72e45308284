package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAudioFrameRMS(t *testing.T) {
	frame := &AudioFrame{Samples: []float64{0.5, -0.5, 0.5, -0.5}}
	assert.InDelta(t, 0.5, frame.RMS(), 1e-12)

	empty := &AudioFrame{}
	assert.Zero(t, empty.RMS())
}

func TestSpectrumFrameBinGeometry(t *testing.T) {
	s := &SpectrumFrame{SampleRate: 44100, FFTSize: 4096}

	assert.InDelta(t, 10.7666, s.BinWidth(), 0.001)
	assert.InDelta(t, 1076.66, s.BinFrequency(100), 0.01)

	// Round-trips to the nearest bin
	assert.Equal(t, 100, s.FrequencyToBin(s.BinFrequency(100)))
	assert.Equal(t, 19, s.FrequencyToBin(200))

	zero := &SpectrumFrame{}
	assert.Zero(t, zero.BinWidth())
	assert.Zero(t, zero.FrequencyToBin(1000))
}
