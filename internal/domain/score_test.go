package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRecord produces component scores heat=20, drought=10, fire=15, wui=12,
// so the balanced composite is 14.25.
func testRecord() CountyRecord {
	return CountyRecord{
		CountyName:           "CHELAN",
		Population:           79000,
		PopulationAtRisk:     31000,
		TmaxZMean:            1.5,
		TmaxZMax:             1.0,
		PrcpZMean:            -0.5,
		PrcpZMin:             -1.0,
		FireCountNOAA:        25,
		FEMADeclarationCount: 0,
		PctInterface:         0.6,
		PctIntermix:          0.2,
	}
}

func newBalancedScorer(t *testing.T) *Scorer {
	t.Helper()
	s, err := NewScorer(ScorerConfig{Weights: BalancedWeights()})
	require.NoError(t, err)
	return s
}

func TestComponentScores(t *testing.T) {
	r := testRecord()

	assert.InDelta(t, 20.0, HeatStressScore(r), 1e-9)
	assert.InDelta(t, 10.0, DroughtStressScore(r), 1e-9)
	assert.InDelta(t, 15.0, FireHistoryScore(r), 1e-9)
	assert.InDelta(t, 12.0, WUIExposureScore(r), 1e-9)
}

func TestDroughtStress_UsesMagnitudes(t *testing.T) {
	// Wet and dry extremes of equal magnitude stress equally.
	dry := CountyRecord{PrcpZMean: -1.2, PrcpZMin: -2.0}
	wet := CountyRecord{PrcpZMean: 1.2, PrcpZMin: 2.0}

	assert.Equal(t, DroughtStressScore(dry), DroughtStressScore(wet))
	assert.InDelta(t, 22.0, DroughtStressScore(dry), 1e-9)
}

func TestScore_BalancedComposite(t *testing.T) {
	s := newBalancedScorer(t)

	scored, err := s.Score(testRecord())
	require.NoError(t, err)

	assert.InDelta(t, 14.25, scored.CompositeScore, 1e-9)
	assert.Equal(t, RiskLow, scored.RiskCategory)
	assert.Equal(t, TrendWarming, scored.ClimateTrend)
}

func TestScore_CompositeMatchesWeightedSum(t *testing.T) {
	presets := map[string]Weights{
		"balanced": BalancedWeights(),
		"climate":  ClimateEmphasisWeights(),
		"history":  HistoryEmphasisWeights(),
		"wui":      WUIEmphasisWeights(),
	}

	r := testRecord()
	for name, w := range presets {
		t.Run(name, func(t *testing.T) {
			s, err := NewScorer(ScorerConfig{Weights: w})
			require.NoError(t, err)

			scored, err := s.Score(r)
			require.NoError(t, err)

			want := w.HeatStress*scored.HeatStress +
				w.DroughtStress*scored.DroughtStress +
				w.FireHistory*scored.FireHistoryScore +
				w.WUIExposure*scored.WUIExposureScore
			assert.InDelta(t, want, scored.CompositeScore, 1e-9)
		})
	}
}

func TestScore_Deterministic(t *testing.T) {
	SetClock(clockwork.NewFakeClockAt(time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC)))
	defer SetClock(nil)

	s := newBalancedScorer(t)
	r := testRecord()

	first, err := s.Score(r)
	require.NoError(t, err)
	second, err := s.Score(r)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestScore_UnclampedByDefault(t *testing.T) {
	s := newBalancedScorer(t)

	// 120 fire events blow far past the nominal 0-30 component scale.
	r := testRecord()
	r.FireCountNOAA = 120

	scored, err := s.Score(r)
	require.NoError(t, err)
	assert.InDelta(t, 72.0, scored.FireHistoryScore, 1e-9)
}

func TestScore_ClampComponents(t *testing.T) {
	s, err := NewScorer(ScorerConfig{Weights: BalancedWeights(), ClampComponents: true})
	require.NoError(t, err)

	r := testRecord()
	r.FireCountNOAA = 120
	r.TmaxZMean = -4.0
	r.TmaxZMax = -2.0

	scored, err := s.Score(r)
	require.NoError(t, err)
	assert.Equal(t, 30.0, scored.FireHistoryScore)
	assert.Equal(t, 0.0, scored.HeatStress)
}

func TestScore_InvalidRecord(t *testing.T) {
	s := newBalancedScorer(t)

	r := testRecord()
	r.PopulationAtRisk = r.Population + 1

	_, err := s.Score(r)
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "population_at_risk", verr.Field)
}

func TestScoreAll_SortsByCompositeDescending(t *testing.T) {
	s := newBalancedScorer(t)

	low := testRecord()
	high := testRecord()
	high.CountyName = "OKANOGAN"
	high.FireCountNOAA = 200

	scored, err := s.ScoreAll([]CountyRecord{low, high})
	require.NoError(t, err)
	require.Len(t, scored, 2)
	assert.Equal(t, "OKANOGAN", scored[0].CountyName)
	assert.Greater(t, scored[0].CompositeScore, scored[1].CompositeScore)
}

func TestScoreAll_FailsOnInvalidRecord(t *testing.T) {
	s := newBalancedScorer(t)

	bad := testRecord()
	bad.PctInterface = 1.5

	_, err := s.ScoreAll([]CountyRecord{testRecord(), bad})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pct_interface")
}

func TestWeights_Validate(t *testing.T) {
	tests := []struct {
		name    string
		weights Weights
		wantErr string
	}{
		{"balanced preset", BalancedWeights(), ""},
		{"climate preset", ClimateEmphasisWeights(), ""},
		{"history preset", HistoryEmphasisWeights(), ""},
		{"wui preset", WUIEmphasisWeights(), ""},
		{"sum below one", Weights{HeatStress: 0.25, DroughtStress: 0.25, FireHistory: 0.25, WUIExposure: 0.15}, "sum"},
		{"sum above one", Weights{HeatStress: 0.5, DroughtStress: 0.5, FireHistory: 0.25, WUIExposure: 0.25}, "sum"},
		{"negative weight", Weights{HeatStress: -0.25, DroughtStress: 0.5, FireHistory: 0.5, WUIExposure: 0.25}, "non-negative"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.weights.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestWeightPreset(t *testing.T) {
	w, err := WeightPreset("history")
	require.NoError(t, err)
	assert.Equal(t, HistoryEmphasisWeights(), w)

	_, err = WeightPreset("bogus")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bogus")
}

func TestNewScorer_RejectsInvalidWeights(t *testing.T) {
	_, err := NewScorer(ScorerConfig{Weights: Weights{HeatStress: 1, DroughtStress: 1}})
	require.Error(t, err)
}

func TestCountyRecord_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CountyRecord)
		wantErr string
	}{
		{"valid", func(*CountyRecord) {}, ""},
		{"empty name", func(r *CountyRecord) { r.CountyName = "  " }, "county_name"},
		{"negative population", func(r *CountyRecord) { r.Population = -1 }, "population"},
		{"at-risk exceeds population", func(r *CountyRecord) { r.PopulationAtRisk = r.Population + 1 }, "population_at_risk"},
		{"negative fire count", func(r *CountyRecord) { r.FireCountNOAA = -3 }, "fire_count_noaa"},
		{"negative declarations", func(r *CountyRecord) { r.FEMADeclarationCount = -1 }, "fema_declaration_count"},
		{"interface above one", func(r *CountyRecord) { r.PctInterface = 1.01 }, "pct_interface"},
		{"negative intermix", func(r *CountyRecord) { r.PctIntermix = -0.2 }, "pct_intermix"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := testRecord()
			tc.mutate(&r)

			err := r.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestCanonicalCountyName(t *testing.T) {
	assert.Equal(t, "WALLA WALLA", CanonicalCountyName("  walla walla "))
	assert.Equal(t, "KING", CanonicalCountyName("King"))
}
