package pitch

// RangeClass buckets a fundamental frequency into perceptual voice ranges
type RangeClass int

const (
	RangeMasculine RangeClass = iota
	RangeAndrogynous
	RangeFeminine
	RangeHighFeminine
)

func (r RangeClass) String() string {
	switch r {
	case RangeMasculine:
		return "masculine"
	case RangeAndrogynous:
		return "androgynous"
	case RangeFeminine:
		return "feminine"
	case RangeHighFeminine:
		return "high_feminine"
	default:
		return "unknown"
	}
}

// ClassifyRange partitions pitch into four non-overlapping buckets with
// boundaries at 150, 180 and 250 Hz
func ClassifyRange(hz float64) RangeClass {
	switch {
	case hz < 150:
		return RangeMasculine
	case hz < 180:
		return RangeAndrogynous
	case hz < 250:
		return RangeFeminine
	default:
		return RangeHighFeminine
	}
}
