package analysis

// Smoother is a single-value exponential moving average with an explicit
// Reset, so session boundaries never leak state between runs
type Smoother struct {
	alpha  float64
	value  float64
	primed bool
}

// NewSmoother creates a smoother with the given alpha (weight of the new
// sample, 0 < alpha <= 1)
func NewSmoother(alpha float64) *Smoother {
	if alpha <= 0 || alpha > 1 {
		alpha = 1
	}
	return &Smoother{alpha: alpha}
}

// Apply folds v into the average and returns the smoothed value. The first
// sample after construction or Reset passes through unchanged.
func (s *Smoother) Apply(v float64) float64 {
	if !s.primed {
		s.value = v
		s.primed = true
		return v
	}

	s.value = s.alpha*v + (1-s.alpha)*s.value
	return s.value
}

// Value returns the current smoothed value and whether any sample has been
// applied since the last Reset
func (s *Smoother) Value() (float64, bool) {
	return s.value, s.primed
}

// Reset clears the smoothing state
func (s *Smoother) Reset() {
	s.value = 0
	s.primed = false
}
