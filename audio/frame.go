// Package audio defines the per-tick frame contract between the capture
// layer and the analysis engine. Frames are value types owned by the driver
// for the duration of a single tick; analyzers never retain them.
package audio

import "math"

// MinFFTSize is the smallest FFT size that gives the harmonic peak search
// enough resolution (~10.8 Hz/bin at 44.1 kHz) to separate individual
// harmonics at typical voice fundamentals.
const MinFFTSize = 4096

// AudioFrame is a fixed-length block of time-domain samples in [-1, 1],
// captured at SampleRate with an analysis FFT of FFTSize.
type AudioFrame struct {
	Samples    []float64 `json:"-"`
	SampleRate int       `json:"sample_rate"`
	FFTSize    int       `json:"fft_size"`
}

// SpectrumFrame is the frequency-domain companion of an AudioFrame: per-bin
// magnitudes in decibels for bins 0..FFTSize/2.
type SpectrumFrame struct {
	MagnitudesDB []float64 `json:"-"`
	SampleRate   int       `json:"sample_rate"`
	FFTSize      int       `json:"fft_size"`
}

// RMS returns the root mean square amplitude of the frame
func (f *AudioFrame) RMS() float64 {
	if len(f.Samples) == 0 {
		return 0
	}

	sum := 0.0
	for _, s := range f.Samples {
		sum += s * s
	}
	return math.Sqrt(sum / float64(len(f.Samples)))
}

// BinWidth returns the frequency width of one FFT bin in Hz
func (s *SpectrumFrame) BinWidth() float64 {
	if s.FFTSize == 0 {
		return 0
	}
	return float64(s.SampleRate) / float64(s.FFTSize)
}

// BinFrequency returns the center frequency of bin i in Hz
func (s *SpectrumFrame) BinFrequency(i int) float64 {
	return float64(i) * s.BinWidth()
}

// FrequencyToBin returns the nearest bin index for a frequency in Hz
func (s *SpectrumFrame) FrequencyToBin(hz float64) int {
	bw := s.BinWidth()
	if bw == 0 {
		return 0
	}
	return int(math.Round(hz / bw))
}
