package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	now := time.Date(2025, time.August, 1, 12, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(now))
	defer SetClock(nil)

	counties := []ScoredCounty{
		{
			CountyRecord:   CountyRecord{CountyName: "OKANOGAN", Population: 42000, PopulationAtRisk: 21000},
			CompositeScore: 70,
			RiskCategory:   RiskCritical,
			ClimateTrend:   TrendWarmingDrying,
		},
		{
			CountyRecord:   CountyRecord{CountyName: "CHELAN", Population: 79000, PopulationAtRisk: 31000},
			CompositeScore: 58,
			RiskCategory:   RiskHigh,
			ClimateTrend:   TrendWarming,
		},
		{
			CountyRecord:   CountyRecord{CountyName: "KING", Population: 2250000, PopulationAtRisk: 150000},
			CompositeScore: 22,
			RiskCategory:   RiskLow,
			ClimateTrend:   TrendStable,
		},
	}

	s := Summarize(counties)

	assert.Equal(t, 3, s.TotalCounties)
	assert.Equal(t, 1, s.CriticalCounties)
	assert.Equal(t, 1, s.HighCounties)
	assert.InDelta(t, 50.0, s.AvgRiskScore, 1e-9)
	assert.Equal(t, int64(2371000), s.TotalPopulation)
	assert.Equal(t, int64(202000), s.PopulationAtRisk)
	assert.Equal(t, 2, s.WarmingCounties)
	assert.Equal(t, now, s.GeneratedAt)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	require.Equal(t, 0, s.TotalCounties)
	assert.Equal(t, 0.0, s.AvgRiskScore)
}

func TestCountyRegion(t *testing.T) {
	assert.Equal(t, RegionEastern, CountyRegion("Spokane"))
	assert.Equal(t, RegionEastern, CountyRegion("walla walla"))
	assert.Equal(t, RegionWestern, CountyRegion("KING"))
	assert.Equal(t, RegionWestern, CountyRegion("Clallam"))
}
