package speech

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// envelopeWithPeaks builds a flat envelope with sharp peaks at the given
// bins, each levelDB above the floor with 2/3 of the rise on the shoulders.
func envelopeWithPeaks(size int, peakBins []int, levelDB float64) []float64 {
	envelope := make([]float64, size)
	for _, bin := range peakBins {
		envelope[bin-1] = levelDB / 3
		envelope[bin] = levelDB
		envelope[bin+1] = levelDB / 3
	}
	return envelope
}

func TestFindEnvelopePeaks(t *testing.T) {
	binWidth := 22050.0 / 512

	// Peaks near 500, 1500 and 2500 Hz
	bins := []int{12, 35, 58}
	envelope := envelopeWithPeaks(512, bins, 12)

	peaks := FindEnvelopePeaks(envelope, binWidth, DefaultPeakProminenceDB)
	require.Len(t, peaks, 3)

	for i, bin := range bins {
		assert.InDelta(t, float64(bin)*binWidth, peaks[i].FrequencyHz, 0.01)
		assert.InDelta(t, 12.0, peaks[i].LevelDB, 0.01)
	}
}

func TestFindEnvelopePeaksFlatSpectrum(t *testing.T) {
	envelope := make([]float64, 512)
	peaks := FindEnvelopePeaks(envelope, 43.07, DefaultPeakProminenceDB)
	assert.Empty(t, peaks)
}

func TestFindEnvelopePeaksBelowProminence(t *testing.T) {
	// A bump rising only 1 dB above the floor is not a formant candidate.
	envelope := make([]float64, 64)
	envelope[30] = 1.0

	peaks := FindEnvelopePeaks(envelope, 43.07, DefaultPeakProminenceDB)
	assert.Empty(t, peaks)
}

func TestFindEnvelopePeaksDetectsBroadResonance(t *testing.T) {
	// A formant-bandwidth peak rises only fractions of a dB per envelope
	// bin near its top; it must still clear the prominence gate because
	// prominence is judged against the surrounding valleys.
	binWidth := 22050.0 / 512
	envelope := make([]float64, 512)
	for i := range envelope {
		d := (float64(i) - 16) / 8
		envelope[i] = 40 * math.Exp(-d*d)
	}

	// Adjacent-bin deltas at the top are well under 2 dB
	require.Less(t, envelope[16]-envelope[17], 1.0)

	peaks := FindEnvelopePeaks(envelope, binWidth, DefaultPeakProminenceDB)
	require.Len(t, peaks, 1)
	assert.InDelta(t, 16*binWidth, peaks[0].FrequencyHz, binWidth/2)
	assert.InDelta(t, 40, peaks[0].LevelDB, 0.5)
}

func TestFindEnvelopePeaksShoulderHasNoProminence(t *testing.T) {
	// A secondary bump separated from a taller peak by a shallow valley
	// has only the valley's depth as prominence.
	envelope := make([]float64, 64)
	envelope[19] = 3
	envelope[20] = 10
	envelope[21] = 9 // valley dips just 0.5 dB below the shoulder
	envelope[22] = 9.5
	envelope[23] = 3

	peaks := FindEnvelopePeaks(envelope, 43.07, DefaultPeakProminenceDB)
	require.Len(t, peaks, 1)
	assert.InDelta(t, 10.0, peaks[0].LevelDB, 1e-9)
}

func TestFindEnvelopePeaksDegenerateInput(t *testing.T) {
	assert.Nil(t, FindEnvelopePeaks(nil, 43.07, 2))
	assert.Nil(t, FindEnvelopePeaks([]float64{0, 1}, 43.07, 2))
	assert.Nil(t, FindEnvelopePeaks(make([]float64, 64), 0, 2))
}

func TestAssignFormantsRecoversSyntheticFormants(t *testing.T) {
	binWidth := 22050.0 / 512

	// Target formants at roughly 500, 1500, 2500 Hz
	envelope := envelopeWithPeaks(512, []int{12, 35, 58}, 10)
	peaks := FindEnvelopePeaks(envelope, binWidth, DefaultPeakProminenceDB)

	formants := AssignFormants(peaks)
	require.NotNil(t, formants.F1)
	require.NotNil(t, formants.F2)
	require.NotNil(t, formants.F3)

	assert.InDelta(t, 500, *formants.F1, 50)
	assert.InDelta(t, 1500, *formants.F2, 50)
	assert.InDelta(t, 2500, *formants.F3, 50)
}

func TestAssignFormantsFlatSpectrum(t *testing.T) {
	formants := AssignFormants(nil)
	assert.Nil(t, formants.F1)
	assert.Nil(t, formants.F2)
	assert.Nil(t, formants.F3)
}

func TestAssignFormantsPicksStrongestInBand(t *testing.T) {
	peaks := []EnvelopePeak{
		{FrequencyHz: 400, LevelDB: 5},
		{FrequencyHz: 700, LevelDB: 9},
		{FrequencyHz: 1600, LevelDB: 6},
	}

	formants := AssignFormants(peaks)
	require.NotNil(t, formants.F1)
	assert.Equal(t, 700.0, *formants.F1)
	require.NotNil(t, formants.F2)
	assert.Equal(t, 1600.0, *formants.F2)
	assert.Nil(t, formants.F3)
}

func TestAssignFormantsOrderingConstraint(t *testing.T) {
	// The strongest F2-band candidate sits below the chosen F1, so it is
	// ineligible; the next one up wins.
	peaks := []EnvelopePeak{
		{FrequencyHz: 950, LevelDB: 12},
		{FrequencyHz: 850, LevelDB: 10},
		{FrequencyHz: 2000, LevelDB: 4},
	}

	formants := AssignFormants(peaks)
	require.NotNil(t, formants.F1)
	assert.Equal(t, 950.0, *formants.F1)
	require.NotNil(t, formants.F2)
	assert.Equal(t, 2000.0, *formants.F2)
}

func TestAssignFormantsNoF1MeansNoF2(t *testing.T) {
	// With nothing in the F1 band the whole chain stays empty even though
	// the F2 band has a peak.
	peaks := []EnvelopePeak{
		{FrequencyHz: 1500, LevelDB: 8},
	}

	formants := AssignFormants(peaks)
	assert.Nil(t, formants.F1)
	assert.Nil(t, formants.F2)
	assert.Nil(t, formants.F3)
}
