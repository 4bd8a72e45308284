package speech

// Formant search bands in Hz. Assignment is greedy: the strongest peak in
// the F1 band wins, then the strongest peak above F1 in the F2 band, then
// the strongest above F2 in the F3 band.
var (
	DefaultF1Band = [2]float64{200, 1000}
	DefaultF2Band = [2]float64{800, 2800}
	DefaultF3Band = [2]float64{1800, 3500}
)

// DefaultPeakProminenceDB is the minimum rise of an envelope peak over the
// higher of the two valleys separating it from taller terrain
const DefaultPeakProminenceDB = 2.0

// EnvelopePeak is a local maximum of the LPC spectral envelope
type EnvelopePeak struct {
	FrequencyHz float64 `json:"frequency_hz"`
	LevelDB     float64 `json:"level_db"`
}

// Formants holds the first three formant estimates. A nil field means the
// formant could not be resolved; it is never guessed.
type Formants struct {
	F1 *float64 `json:"f1,omitempty"`
	F2 *float64 `json:"f2,omitempty"`
	F3 *float64 `json:"f3,omitempty"`
}

// FindEnvelopePeaks scans a spectral envelope (dB, bins spanning 0..Nyquist
// with the given bin width in Hz) for local maxima with at least
// minProminenceDB of prominence. Prominence is measured against the
// surrounding valleys, not the adjacent bins: a formant with a 100-200 Hz
// bandwidth rises only fractions of a dB per envelope bin near its top,
// so a neighbor-delta gate would reject every real formant.
func FindEnvelopePeaks(envelopeDB []float64, binWidthHz, minProminenceDB float64) []EnvelopePeak {
	if len(envelopeDB) < 3 || binWidthHz <= 0 {
		return nil
	}

	var peaks []EnvelopePeak
	for i := 1; i < len(envelopeDB)-1; i++ {
		if envelopeDB[i] <= envelopeDB[i-1] || envelopeDB[i] < envelopeDB[i+1] {
			continue
		}
		if peakProminence(envelopeDB, i) >= minProminenceDB {
			peaks = append(peaks, EnvelopePeak{
				FrequencyHz: float64(i) * binWidthHz,
				LevelDB:     envelopeDB[i],
			})
		}
	}

	return peaks
}

// peakProminence measures how far the local maximum at i rises above the
// higher of its two bases. Each base is the lowest envelope value between
// the peak and the nearest taller point on that side, or the envelope edge.
func peakProminence(envelopeDB []float64, i int) float64 {
	peak := envelopeDB[i]

	left := peak
	for j := i - 1; j >= 0; j-- {
		if envelopeDB[j] > peak {
			break
		}
		if envelopeDB[j] < left {
			left = envelopeDB[j]
		}
	}

	right := peak
	for j := i + 1; j < len(envelopeDB); j++ {
		if envelopeDB[j] > peak {
			break
		}
		if envelopeDB[j] < right {
			right = envelopeDB[j]
		}
	}

	base := left
	if right > base {
		base = right
	}

	return peak - base
}

// AssignFormants maps envelope peaks to F1-F3 using the default bands
func AssignFormants(peaks []EnvelopePeak) Formants {
	return AssignFormantsInBands(peaks, DefaultF1Band, DefaultF2Band, DefaultF3Band)
}

// AssignFormantsInBands maps envelope peaks to F1-F3 using custom bands.
// Each formant must lie above the previous one; any formant with no
// qualifying peak is left nil.
func AssignFormantsInBands(peaks []EnvelopePeak, f1Band, f2Band, f3Band [2]float64) Formants {
	var result Formants

	f1 := strongestPeakIn(peaks, f1Band[0], f1Band[1], 0)
	if f1 == nil {
		return result
	}
	result.F1 = &f1.FrequencyHz

	f2 := strongestPeakIn(peaks, f2Band[0], f2Band[1], f1.FrequencyHz)
	if f2 == nil {
		return result
	}
	result.F2 = &f2.FrequencyHz

	f3 := strongestPeakIn(peaks, f3Band[0], f3Band[1], f2.FrequencyHz)
	if f3 != nil {
		result.F3 = &f3.FrequencyHz
	}

	return result
}

// strongestPeakIn returns the highest-level peak within [lo, hi] Hz that
// also lies strictly above the floor frequency, or nil
func strongestPeakIn(peaks []EnvelopePeak, lo, hi, above float64) *EnvelopePeak {
	var best *EnvelopePeak
	for i := range peaks {
		p := &peaks[i]
		if p.FrequencyHz < lo || p.FrequencyHz > hi || p.FrequencyHz <= above {
			continue
		}
		if best == nil || p.LevelDB > best.LevelDB {
			best = p
		}
	}

	if best == nil {
		return nil
	}

	// Copy so callers can't alias into the peaks slice
	out := *best
	return &out
}
