package domain

import (
	"fmt"
	"math"
)

// Scenario parameter bounds and sensitivities. Heat stress grows 15% per
// degree of warming; 10% of the precipitation change carries through to
// drought stress.
const (
	maxTemperatureIncrease = 5.0
	maxPrecipChangeAbs     = 50.0

	tempSensitivity   = 0.15
	precipSensitivity = 0.1
)

// Scenario is a user-supplied climate delta: a temperature increase in
// degrees Celsius and a precipitation change in percent.
type Scenario struct {
	TemperatureIncrease float64 `json:"temperature_increase"`
	PrecipitationChange float64 `json:"precipitation_change"`
}

// Validate bounds-checks the scenario parameters. Out-of-range values fail;
// they are never silently clamped.
func (s Scenario) Validate() error {
	if math.IsNaN(s.TemperatureIncrease) || s.TemperatureIncrease < 0 || s.TemperatureIncrease > maxTemperatureIncrease {
		return &ValidationError{
			Field:  "temperature_increase",
			Reason: fmt.Sprintf("%v is outside [0, %v]", s.TemperatureIncrease, maxTemperatureIncrease),
		}
	}
	if math.IsNaN(s.PrecipitationChange) || math.Abs(s.PrecipitationChange) > maxPrecipChangeAbs {
		return &ValidationError{
			Field:  "precipitation_change",
			Reason: fmt.Sprintf("%v is outside [-%v, %v]", s.PrecipitationChange, maxPrecipChangeAbs, maxPrecipChangeAbs),
		}
	}
	return nil
}

// Project recomputes a scored county under a scenario. Only the
// climate-responsive components move: heat stress scales with the
// temperature factor and drought stress with the precipitation factor,
// while fire history and WUI exposure are held constant. The input county
// is not modified.
func (s *Scorer) Project(base ScoredCounty, scenario Scenario) (ProjectedCounty, error) {
	if err := scenario.Validate(); err != nil {
		return ProjectedCounty{}, err
	}

	tempFactor := 1 + scenario.TemperatureIncrease*tempSensitivity
	precipFactor := 1 - (scenario.PrecipitationChange/100)*precipSensitivity

	heat := base.HeatStress * tempFactor
	drought := base.DroughtStress * precipFactor

	composite := s.weights.HeatStress*heat +
		s.weights.DroughtStress*drought +
		s.weights.FireHistory*base.FireHistoryScore +
		s.weights.WUIExposure*base.WUIExposureScore

	riskChange := composite - base.CompositeScore

	var pctChange *float64
	if base.CompositeScore != 0 {
		v := riskChange / base.CompositeScore * 100
		pctChange = &v
	}

	return ProjectedCounty{
		ScoredCounty:           base,
		Scenario:               scenario,
		ProjectedHeatStress:    heat,
		ProjectedDroughtStress: drought,
		ProjectedComposite:     composite,
		ProjectedRiskCategory:  ClassifyRisk(composite),
		RiskChange:             riskChange,
		PctChange:              pctChange,
	}, nil
}

// ProjectAll projects every county under the same scenario. The scenario is
// validated once up front.
func (s *Scorer) ProjectAll(counties []ScoredCounty, scenario Scenario) ([]ProjectedCounty, error) {
	if err := scenario.Validate(); err != nil {
		return nil, err
	}
	projected := make([]ProjectedCounty, 0, len(counties))
	for _, c := range counties {
		p, err := s.Project(c, scenario)
		if err != nil {
			return nil, fmt.Errorf("project county %q: %w", c.CountyName, err)
		}
		projected = append(projected, p)
	}
	return projected, nil
}
