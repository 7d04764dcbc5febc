package domain

import "math"

// Normalize converts a raw climate observation into a z-score against a
// historical baseline. A zero baseline standard deviation makes the z-score
// undefined; the result is NaN rather than an error because degenerate
// baselines are expected in sparse station data and callers filter them out.
func Normalize(observed, baselineMean, baselineStddev float64) float64 {
	if baselineStddev == 0 {
		return math.NaN()
	}
	return (observed - baselineMean) / baselineStddev
}
