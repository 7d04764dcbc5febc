package domain

import "fmt"

// RiskCategory is the ordinal risk tier derived from the composite score.
type RiskCategory string

const (
	RiskLow      RiskCategory = "Low"
	RiskModerate RiskCategory = "Moderate"
	RiskHigh     RiskCategory = "High"
	RiskCritical RiskCategory = "Critical"
)

// Composite-score tier boundaries. Intervals are half-open; a boundary
// value classifies into the higher tier.
const (
	moderateThreshold = 45.0
	highThreshold     = 55.0
	criticalThreshold = 65.0
)

// ClassifyRisk maps a composite score to its risk tier. The mapping is
// total: every score lands in exactly one tier.
func ClassifyRisk(composite float64) RiskCategory {
	switch {
	case composite >= criticalThreshold:
		return RiskCritical
	case composite >= highThreshold:
		return RiskHigh
	case composite >= moderateThreshold:
		return RiskModerate
	default:
		return RiskLow
	}
}

// ClimateTrend labels a county's temperature/precipitation signal.
type ClimateTrend string

const (
	TrendStable        ClimateTrend = "Stable"
	TrendWarming       ClimateTrend = "Warming"
	TrendCooling       ClimateTrend = "Cooling"
	TrendWarmingDrying ClimateTrend = "Warming & Drying"
)

// IsWarming reports whether the trend is in the warming family.
func (t ClimateTrend) IsWarming() bool {
	return t == TrendWarming || t == TrendWarmingDrying
}

// TrendThresholds parameterizes climate-trend classification. Warming is
// the tmax z-score above which a county counts as warming, Drying the prcp
// z-score below which a warming county is also drying, and Cooling the tmax
// z-score at or below which a county counts as cooling.
type TrendThresholds struct {
	Warming float64
	Drying  float64
	Cooling float64
}

// DefaultTrendThresholds returns the operational thresholds. The -1.0
// cooling cutoff mirrors the +1.0 warming cutoff; see the package
// documentation for its provisional status.
func DefaultTrendThresholds() TrendThresholds {
	return TrendThresholds{Warming: 1.0, Drying: -0.5, Cooling: -1.0}
}

// Validate rejects threshold sets that would double-classify.
func (t TrendThresholds) Validate() error {
	if t.Cooling >= t.Warming {
		return &ValidationError{
			Field:  "trend_thresholds",
			Reason: fmt.Sprintf("cooling cutoff %v must be below warming cutoff %v", t.Cooling, t.Warming),
		}
	}
	return nil
}

// Classify evaluates the trend decision table in order, so a county
// receives exactly one label.
func (t TrendThresholds) Classify(tmaxZMean, prcpZMean float64) ClimateTrend {
	switch {
	case tmaxZMean > t.Warming && prcpZMean < t.Drying:
		return TrendWarmingDrying
	case tmaxZMean > t.Warming:
		return TrendWarming
	case tmaxZMean <= t.Cooling:
		return TrendCooling
	default:
		return TrendStable
	}
}

// ClassifyTrend classifies with the default thresholds.
func ClassifyTrend(tmaxZMean, prcpZMean float64) ClimateTrend {
	return DefaultTrendThresholds().Classify(tmaxZMean, prcpZMean)
}
