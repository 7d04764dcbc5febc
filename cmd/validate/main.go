// Command validate performs end-to-end integrity checks across the county
// dataset and its scored fixture: CSV parseability, score reproducibility,
// classification consistency, and summary cross-checks.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -csv data/wa_climate_fire_counties.csv \
//	  -scored-json data/mock/scored_counties.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/JDCurry/firewatch-risk-service/internal/domain"
	"github.com/JDCurry/firewatch-risk-service/internal/ingest"
	"github.com/jonboulle/clockwork"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	csvPath := flag.String("csv", "", "path to the county CSV dataset")
	scoredPath := flag.String("scored-json", "", "path to the scored JSON fixture")
	flag.Parse()

	if *csvPath == "" || *scoredPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*csvPath, *scoredPath); code != 0 {
		os.Exit(code)
	}
}

func run(csvPath, scoredPath string) int {
	// Fixed clock matching genmock so re-scored timestamps line up.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2026, time.August, 1, 12, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	fmt.Println("=== County Risk Data Integrity Validation ===")
	fmt.Println()

	records, rejects, err := ingest.LoadFile(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load county CSV: %v\n", err)
		return 1
	}

	scored, err := loadScored(scoredPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load scored fixture: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateDataset(records, rejects),
		validateReproducibility(records, scored),
		validateClassification(scored),
		validateSummary(scored),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-44s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d CSV rows (%d rejected), %d scored counties\n",
		len(records)+len(rejects), len(rejects), len(scored))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func loadScored(path string) ([]domain.ScoredCounty, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var scored []domain.ScoredCounty
	if err := json.Unmarshal(data, &scored); err != nil {
		return nil, err
	}
	return scored, nil
}

// ── Phase 1: Dataset Integrity ──
// The CSV must parse without rejected rows and name each county once.

func validateDataset(records []domain.CountyRecord, rejects []ingest.RowError) *phase {
	p := &phase{name: "Phase 1: Dataset Integrity (CSV)"}

	for _, r := range rejects {
		p.errorf("rejected row: %v", r)
	}
	if len(records) == 0 {
		p.errorf("no valid county records")
		return p
	}

	seen := map[string]bool{}
	for _, rec := range records {
		if seen[rec.CountyName] {
			p.errorf("duplicate county %q", rec.CountyName)
		}
		seen[rec.CountyName] = true
	}
	return p
}

// ── Phase 2: Score Reproducibility ──
// Re-runs the scoring engine over the CSV and compares with the fixture.

func validateReproducibility(records []domain.CountyRecord, scored []domain.ScoredCounty) *phase {
	p := &phase{name: "Phase 2: Score Reproducibility (engine)"}

	scorer, err := domain.NewScorer(domain.ScorerConfig{Weights: domain.BalancedWeights()})
	if err != nil {
		p.errorf("build scorer: %v", err)
		return p
	}
	recomputed, err := scorer.ScoreAll(records)
	if err != nil {
		p.errorf("re-score CSV records: %v", err)
		return p
	}

	if len(recomputed) != len(scored) {
		p.errorf("count mismatch: CSV scores %d counties, fixture has %d", len(recomputed), len(scored))
	}

	byName := map[string]*domain.ScoredCounty{}
	for i := range scored {
		byName[scored[i].CountyName] = &scored[i]
	}

	for i := range recomputed {
		want := &recomputed[i]
		got, ok := byName[want.CountyName]
		if !ok {
			p.errorf("%s: missing from scored fixture", want.CountyName)
			continue
		}
		compareScores(p, want, got)
	}
	return p
}

func compareScores(p *phase, want, got *domain.ScoredCounty) {
	name := want.CountyName

	check := func(field string, w, g float64) {
		if !floatEq(w, g) {
			p.errorf("%s: %s: expected %g, got %g", name, field, w, g)
		}
	}
	check("heat_stress", want.HeatStress, got.HeatStress)
	check("drought_stress", want.DroughtStress, got.DroughtStress)
	check("fire_history_score", want.FireHistoryScore, got.FireHistoryScore)
	check("wui_exposure_score", want.WUIExposureScore, got.WUIExposureScore)
	check("composite_score", want.CompositeScore, got.CompositeScore)

	if want.RiskCategory != got.RiskCategory {
		p.errorf("%s: risk_category: expected %q, got %q", name, want.RiskCategory, got.RiskCategory)
	}
	if want.ClimateTrend != got.ClimateTrend {
		p.errorf("%s: climate_trend: expected %q, got %q", name, want.ClimateTrend, got.ClimateTrend)
	}
}

// ── Phase 3: Classification Consistency ──
// Every scored record's tier and trend must match its own inputs.

func validateClassification(scored []domain.ScoredCounty) *phase {
	p := &phase{name: "Phase 3: Classification Consistency"}

	for i := range scored {
		c := &scored[i]
		if tier := domain.ClassifyRisk(c.CompositeScore); tier != c.RiskCategory {
			p.errorf("%s: composite %g classifies as %q but record says %q",
				c.CountyName, c.CompositeScore, tier, c.RiskCategory)
		}
		if trend := domain.ClassifyTrend(c.TmaxZMean, c.PrcpZMean); trend != c.ClimateTrend {
			p.errorf("%s: z-scores (%g, %g) classify as %q but record says %q",
				c.CountyName, c.TmaxZMean, c.PrcpZMean, trend, c.ClimateTrend)
		}
		if c.ScoredAt.IsZero() {
			p.errorf("%s: scored_at is zero", c.CountyName)
		}
	}
	return p
}

// ── Phase 4: Summary Cross-check ──
// Recomputes the dataset summary from the scored records.

func validateSummary(scored []domain.ScoredCounty) *phase {
	p := &phase{name: "Phase 4: Summary Cross-check"}

	if len(scored) == 0 {
		p.errorf("no scored counties")
		return p
	}
	summary := domain.Summarize(scored)

	if summary.TotalCounties != len(scored) {
		p.errorf("total_counties: expected %d, got %d", len(scored), summary.TotalCounties)
	}

	var critical, high, warming int
	var totalPop, atRisk int64
	for i := range scored {
		switch scored[i].RiskCategory {
		case domain.RiskCritical:
			critical++
		case domain.RiskHigh:
			high++
		}
		if scored[i].ClimateTrend.IsWarming() {
			warming++
		}
		totalPop += scored[i].Population
		atRisk += scored[i].PopulationAtRisk
	}

	if summary.CriticalCounties != critical {
		p.errorf("critical_counties: expected %d, got %d", critical, summary.CriticalCounties)
	}
	if summary.HighCounties != high {
		p.errorf("high_counties: expected %d, got %d", high, summary.HighCounties)
	}
	if summary.WarmingCounties != warming {
		p.errorf("warming_counties: expected %d, got %d", warming, summary.WarmingCounties)
	}
	if summary.TotalPopulation != totalPop {
		p.errorf("total_population: expected %d, got %d", totalPop, summary.TotalPopulation)
	}
	if summary.PopulationAtRisk != atRisk {
		p.errorf("population_at_risk: expected %d, got %d", atRisk, summary.PopulationAtRisk)
	}
	return p
}

// ── Helpers ──

func floatEq(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
