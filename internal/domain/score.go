package domain

import (
	"fmt"
	"math"
	"sort"
)

// Per-component formula constants. Each component is nominally on a 0-30
// scale but is not clamped unless the scorer is configured to do so.
const (
	heatMeanWeight    = 10.0
	heatMaxWeight     = 5.0
	droughtMeanWeight = 10.0
	droughtMinWeight  = 5.0
	fireCountWeight   = 0.6
	femaDeclWeight    = 2.5
	interfaceWeight   = 0.7
	intermixWeight    = 0.3
	wuiScale          = 25.0

	componentMin = 0.0
	componentMax = 30.0

	weightSumTolerance = 1e-9
)

// Weights configures the contribution of each component to the composite
// score. Weights are an explicit parameter of the scorer rather than
// ambient package state; they must be non-negative and sum to 1.
type Weights struct {
	HeatStress    float64 `json:"heat_stress"`
	DroughtStress float64 `json:"drought_stress"`
	FireHistory   float64 `json:"fire_history"`
	WUIExposure   float64 `json:"wui_exposure"`
}

// BalancedWeights is the default preset: equal quarters.
func BalancedWeights() Weights {
	return Weights{HeatStress: 0.25, DroughtStress: 0.25, FireHistory: 0.25, WUIExposure: 0.25}
}

// ClimateEmphasisWeights favors the climate-responsive components.
func ClimateEmphasisWeights() Weights {
	return Weights{HeatStress: 0.35, DroughtStress: 0.35, FireHistory: 0.15, WUIExposure: 0.15}
}

// HistoryEmphasisWeights favors observed fire history.
func HistoryEmphasisWeights() Weights {
	return Weights{HeatStress: 0.20, DroughtStress: 0.20, FireHistory: 0.40, WUIExposure: 0.20}
}

// WUIEmphasisWeights favors wildland-urban-interface exposure.
func WUIEmphasisWeights() Weights {
	return Weights{HeatStress: 0.20, DroughtStress: 0.20, FireHistory: 0.20, WUIExposure: 0.40}
}

// WeightPreset resolves a named preset. Recognized names: "balanced",
// "climate", "history", "wui".
func WeightPreset(name string) (Weights, error) {
	switch name {
	case "balanced":
		return BalancedWeights(), nil
	case "climate":
		return ClimateEmphasisWeights(), nil
	case "history":
		return HistoryEmphasisWeights(), nil
	case "wui":
		return WUIEmphasisWeights(), nil
	default:
		return Weights{}, &ValidationError{Field: "weight_preset", Reason: fmt.Sprintf("unknown preset %q", name)}
	}
}

// Validate rejects negative weights and any set that does not sum to 1.
// A violating configuration fails outright; it is never renormalized.
func (w Weights) Validate() error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"heat_stress", w.HeatStress},
		{"drought_stress", w.DroughtStress},
		{"fire_history", w.FireHistory},
		{"wui_exposure", w.WUIExposure},
	} {
		if math.IsNaN(f.value) || f.value < 0 {
			return &ValidationError{Field: "weights." + f.name, Reason: "must be non-negative"}
		}
	}
	sum := w.HeatStress + w.DroughtStress + w.FireHistory + w.WUIExposure
	if math.Abs(sum-1) > weightSumTolerance {
		return &ValidationError{Field: "weights", Reason: fmt.Sprintf("sum %v, want 1.0", sum)}
	}
	return nil
}

// HeatStressScore combines mean and peak temperature anomalies.
func HeatStressScore(r CountyRecord) float64 {
	return r.TmaxZMean*heatMeanWeight + r.TmaxZMax*heatMaxWeight
}

// DroughtStressScore combines mean and minimum precipitation anomaly
// magnitudes. Absolute values are used so that both wet and dry extremes
// register as stress.
func DroughtStressScore(r CountyRecord) float64 {
	return math.Abs(r.PrcpZMean)*droughtMeanWeight + math.Abs(r.PrcpZMin)*droughtMinWeight
}

// FireHistoryScore combines NOAA fire event counts with federal disaster
// declarations.
func FireHistoryScore(r CountyRecord) float64 {
	return float64(r.FireCountNOAA)*fireCountWeight + float64(r.FEMADeclarationCount)*femaDeclWeight
}

// WUIExposureScore blends interface and intermix housing fractions onto the
// component scale.
func WUIExposureScore(r CountyRecord) float64 {
	return (r.PctInterface*interfaceWeight + r.PctIntermix*intermixWeight) * wuiScale
}

// ScorerConfig configures a Scorer. The zero value of Trend selects
// DefaultTrendThresholds.
type ScorerConfig struct {
	Weights Weights

	// ClampComponents bounds each component score to [0, 30] before the
	// composite is computed. Off by default: the published methodology lets
	// outlier counties exceed the nominal scale.
	ClampComponents bool

	Trend TrendThresholds
}

// Scorer computes ScoredCounty values from CountyRecords. It is stateless
// apart from its immutable configuration and safe for concurrent use.
type Scorer struct {
	weights Weights
	clamp   bool
	trend   TrendThresholds
}

// NewScorer validates the configuration and returns a Scorer.
func NewScorer(cfg ScorerConfig) (*Scorer, error) {
	if err := cfg.Weights.Validate(); err != nil {
		return nil, err
	}
	trend := cfg.Trend
	if trend == (TrendThresholds{}) {
		trend = DefaultTrendThresholds()
	}
	if err := trend.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{weights: cfg.Weights, clamp: cfg.ClampComponents, trend: trend}, nil
}

// Weights returns the scorer's weight configuration.
func (s *Scorer) Weights() Weights { return s.weights }

// Score validates a record and derives its component scores, composite
// score, and classification labels. Scoring the same record with the same
// configuration always yields an identical result.
func (s *Scorer) Score(r CountyRecord) (ScoredCounty, error) {
	if err := r.Validate(); err != nil {
		return ScoredCounty{}, err
	}

	heat := s.component(HeatStressScore(r))
	drought := s.component(DroughtStressScore(r))
	fire := s.component(FireHistoryScore(r))
	wui := s.component(WUIExposureScore(r))

	composite := s.weights.HeatStress*heat +
		s.weights.DroughtStress*drought +
		s.weights.FireHistory*fire +
		s.weights.WUIExposure*wui

	return ScoredCounty{
		CountyRecord:     r,
		HeatStress:       heat,
		DroughtStress:    drought,
		FireHistoryScore: fire,
		WUIExposureScore: wui,
		CompositeScore:   composite,
		RiskCategory:     ClassifyRisk(composite),
		ClimateTrend:     s.trend.Classify(r.TmaxZMean, r.PrcpZMean),
		ScoredAt:         clock.Now(),
	}, nil
}

// ScoreAll scores every record, failing on the first invalid one. The
// result is sorted by composite score descending so the highest-risk
// counties lead the table.
func (s *Scorer) ScoreAll(records []CountyRecord) ([]ScoredCounty, error) {
	scored := make([]ScoredCounty, 0, len(records))
	for _, r := range records {
		sc, err := s.Score(r)
		if err != nil {
			return nil, fmt.Errorf("score county %q: %w", r.CountyName, err)
		}
		scored = append(scored, sc)
	}
	sortByComposite(scored)
	return scored, nil
}

func (s *Scorer) component(v float64) float64 {
	if !s.clamp {
		return v
	}
	return math.Min(math.Max(v, componentMin), componentMax)
}

func sortByComposite(counties []ScoredCounty) {
	sort.SliceStable(counties, func(i, j int) bool {
		if counties[i].CompositeScore != counties[j].CompositeScore {
			return counties[i].CompositeScore > counties[j].CompositeScore
		}
		return counties[i].CountyName < counties[j].CountyName
	})
}
