package domain

import "time"

// DatasetSummary aggregates one scoring run for the executive-summary
// surfaces: county counts per alarm tier, mean composite score, population
// totals, and the number of counties on a warming trajectory.
type DatasetSummary struct {
	TotalCounties    int       `json:"total_counties"`
	CriticalCounties int       `json:"critical_counties"`
	HighCounties     int       `json:"high_counties"`
	AvgRiskScore     float64   `json:"avg_risk_score"`
	TotalPopulation  int64     `json:"total_population"`
	PopulationAtRisk int64     `json:"population_at_risk"`
	WarmingCounties  int       `json:"warming_counties"`
	GeneratedAt      time.Time `json:"generated_at"`
}

// Summarize computes the dataset summary. An empty input yields a zero
// summary with AvgRiskScore 0.
func Summarize(counties []ScoredCounty) DatasetSummary {
	s := DatasetSummary{
		TotalCounties: len(counties),
		GeneratedAt:   clock.Now(),
	}
	if len(counties) == 0 {
		return s
	}

	var sum float64
	for _, c := range counties {
		sum += c.CompositeScore
		s.TotalPopulation += c.Population
		s.PopulationAtRisk += c.PopulationAtRisk
		switch c.RiskCategory {
		case RiskCritical:
			s.CriticalCounties++
		case RiskHigh:
			s.HighCounties++
		}
		if c.ClimateTrend.IsWarming() {
			s.WarmingCounties++
		}
	}
	s.AvgRiskScore = sum / float64(len(counties))
	return s
}
