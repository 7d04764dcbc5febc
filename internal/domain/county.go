package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// CountyRecord holds one county's raw climate, fire-history, and
// wildland-urban-interface inputs. Records are built at the ingestion
// boundary and never modified afterwards; every derived score is a pure
// function of a single record plus the scorer configuration.
type CountyRecord struct {
	CountyName           string  `json:"county_name"`
	Population           int64   `json:"population"`
	PopulationAtRisk     int64   `json:"population_at_risk"`
	TmaxZMean            float64 `json:"tmax_z_mean"`
	TmaxZMax             float64 `json:"tmax_z_max"`
	PrcpZMean            float64 `json:"prcp_z_mean"`
	PrcpZMin             float64 `json:"prcp_z_min"`
	FireCountNOAA        int     `json:"fire_count_noaa"`
	FEMADeclarationCount int     `json:"fema_declaration_count"`
	PctInterface         float64 `json:"pct_interface"`
	PctIntermix          float64 `json:"pct_intermix"`
}

// ScoredCounty is a CountyRecord with its four component scores, composite
// score, and classification labels. Scored counties are always produced
// fresh by a Scorer; they are never mutated in place.
type ScoredCounty struct {
	CountyRecord

	HeatStress       float64      `json:"heat_stress"`
	DroughtStress    float64      `json:"drought_stress"`
	FireHistoryScore float64      `json:"fire_history_score"`
	WUIExposureScore float64      `json:"wui_exposure_score"`
	CompositeScore   float64      `json:"composite_score"`
	RiskCategory     RiskCategory `json:"risk_category"`
	ClimateTrend     ClimateTrend `json:"climate_trend"`
	ScoredAt         time.Time    `json:"scored_at"`
}

// ProjectedCounty is a ScoredCounty recomputed under a climate scenario.
// It coexists with the original for before/after comparison.
type ProjectedCounty struct {
	ScoredCounty

	Scenario               Scenario     `json:"scenario"`
	ProjectedHeatStress    float64      `json:"projected_heat_stress"`
	ProjectedDroughtStress float64      `json:"projected_drought_stress"`
	ProjectedComposite     float64      `json:"projected_composite"`
	ProjectedRiskCategory  RiskCategory `json:"projected_risk_category"`
	RiskChange             float64      `json:"risk_change"`

	// PctChange is nil when the baseline composite score is zero, since the
	// ratio is undefined there.
	PctChange *float64 `json:"pct_change,omitempty"`
}

// ValidationError describes a malformed record, weight configuration, or
// scenario parameter. It is returned to the caller immediately and never
// recovered inside the engine.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// CanonicalCountyName returns the uppercase trimmed form used as the
// county identifier throughout the dataset.
func CanonicalCountyName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// Validate checks a CountyRecord against its field constraints. It returns
// a *ValidationError naming the first offending field, or nil.
func (r CountyRecord) Validate() error {
	if strings.TrimSpace(r.CountyName) == "" {
		return &ValidationError{Field: "county_name", Reason: "must not be empty"}
	}
	if r.Population < 0 {
		return &ValidationError{Field: "population", Reason: "must be non-negative"}
	}
	if r.PopulationAtRisk < 0 {
		return &ValidationError{Field: "population_at_risk", Reason: "must be non-negative"}
	}
	if r.PopulationAtRisk > r.Population {
		return &ValidationError{
			Field:  "population_at_risk",
			Reason: fmt.Sprintf("%d exceeds population %d", r.PopulationAtRisk, r.Population),
		}
	}
	if r.FireCountNOAA < 0 {
		return &ValidationError{Field: "fire_count_noaa", Reason: "must be non-negative"}
	}
	if r.FEMADeclarationCount < 0 {
		return &ValidationError{Field: "fema_declaration_count", Reason: "must be non-negative"}
	}
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"tmax_z_mean", r.TmaxZMean},
		{"tmax_z_max", r.TmaxZMax},
		{"prcp_z_mean", r.PrcpZMean},
		{"prcp_z_min", r.PrcpZMin},
	} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return &ValidationError{Field: f.name, Reason: "must be a finite number"}
		}
	}
	if err := validateFraction("pct_interface", r.PctInterface); err != nil {
		return err
	}
	if err := validateFraction("pct_intermix", r.PctIntermix); err != nil {
		return err
	}
	return nil
}

func validateFraction(field string, v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return &ValidationError{Field: field, Reason: fmt.Sprintf("%v is outside [0, 1]", v)}
	}
	return nil
}
