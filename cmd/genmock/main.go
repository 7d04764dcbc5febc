// Command genmock generates a deterministic mock county dataset and its
// scored JSON fixture. It runs the actual scoring engine so the fixture
// matches real service behavior.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -csv-out data/wa_climate_fire_counties.csv \
//	  -scored-out data/mock/scored_counties.json
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/JDCurry/firewatch-risk-service/internal/domain"
	"github.com/jonboulle/clockwork"
)

// washingtonCounties lists all 39 WA counties with rough populations, used
// as the base for generated records.
var washingtonCounties = []struct {
	name       string
	population int64
}{
	{"Adams", 21000}, {"Asotin", 22000}, {"Benton", 212000}, {"Chelan", 79000},
	{"Clallam", 77000}, {"Clark", 516000}, {"Columbia", 4000}, {"Cowlitz", 111000},
	{"Douglas", 44000}, {"Ferry", 7000}, {"Franklin", 98000}, {"Garfield", 2000},
	{"Grant", 100000}, {"Grays Harbor", 76000}, {"Island", 87000}, {"Jefferson", 33000},
	{"King", 2270000}, {"Kitsap", 277000}, {"Kittitas", 45000}, {"Klickitat", 23000},
	{"Lewis", 83000}, {"Lincoln", 11000}, {"Mason", 66000}, {"Okanogan", 42000},
	{"Pacific", 24000}, {"Pend Oreille", 14000}, {"Pierce", 925000}, {"San Juan", 18000},
	{"Skagit", 131000}, {"Skamania", 12000}, {"Snohomish", 833000}, {"Spokane", 550000},
	{"Stevens", 47000}, {"Thurston", 298000}, {"Wahkiakum", 4000}, {"Walla Walla", 62000},
	{"Whatcom", 230000}, {"Whitman", 47000}, {"Yakima", 256000},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	csvOut := flag.String("csv-out", "", "output path for the county CSV dataset")
	scoredOut := flag.String("scored-out", "", "output path for the scored JSON fixture")
	seed := flag.Int64("seed", 1, "random seed for reproducible datasets")
	flag.Parse()

	if *csvOut == "" || *scoredOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -csv-out, -scored-out")
	}

	// Fixed clock for reproducible ScoredAt timestamps.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2026, time.August, 1, 12, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	records := generateRecords(rand.New(rand.NewSource(*seed)))

	if err := writeCSV(*csvOut, records); err != nil {
		return fmt.Errorf("writing county CSV: %w", err)
	}
	log.Printf("wrote county CSV: %s (%d counties)", *csvOut, len(records))

	scorer, err := domain.NewScorer(domain.ScorerConfig{Weights: domain.BalancedWeights()})
	if err != nil {
		return err
	}
	scored, err := scorer.ScoreAll(records)
	if err != nil {
		return fmt.Errorf("scoring generated records: %w", err)
	}

	if err := writeJSON(*scoredOut, scored); err != nil {
		return fmt.Errorf("writing scored fixture: %w", err)
	}
	log.Printf("wrote scored fixture: %s", *scoredOut)

	printStats(scored)
	return nil
}

// generateRecords builds a record per county. Eastern counties skew hotter,
// drier, and more fire-prone so the generated dataset has the same regional
// contrast as the real one.
func generateRecords(rng *rand.Rand) []domain.CountyRecord {
	records := make([]domain.CountyRecord, 0, len(washingtonCounties))
	for _, c := range washingtonCounties {
		eastern := domain.CountyRegion(c.name) == domain.RegionEastern

		tmaxZMean := rng.Float64() * 1.2
		prcpZMean := rng.Float64()*1.2 - 0.8
		fireBase := 15.0
		wuiInterface := 0.2 + rng.Float64()*0.3
		if eastern {
			tmaxZMean += 0.6
			prcpZMean -= 0.4
			fireBase = 35.0
			wuiInterface += 0.15
		}

		rec := domain.CountyRecord{
			CountyName:           domain.CanonicalCountyName(c.name),
			Population:           c.population,
			PopulationAtRisk:     int64(float64(c.population) * (0.1 + rng.Float64()*0.3)),
			TmaxZMean:            round2(tmaxZMean),
			TmaxZMax:             round2(tmaxZMean + rng.Float64()*1.5),
			PrcpZMean:            round2(prcpZMean),
			PrcpZMin:             round2(prcpZMean - rng.Float64()*1.2),
			FireCountNOAA:        int(fireBase * (0.5 + rng.Float64())),
			FEMADeclarationCount: rng.Intn(5),
			PctInterface:         round2(wuiInterface),
			PctIntermix:          round2(0.05 + rng.Float64()*0.35),
		}
		records = append(records, rec)
	}
	return records
}

func round2(v float64) float64 {
	return float64(int(v*100)) / 100
}

func writeCSV(path string, records []domain.CountyRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		"county_name", "population", "population_at_risk",
		"tmax_z_mean", "tmax_z_max", "prcp_z_mean", "prcp_z_min",
		"fire_count_noaa", "fema_declaration_count",
		"pct_interface", "pct_intermix",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.CountyName,
			strconv.FormatInt(r.Population, 10),
			strconv.FormatInt(r.PopulationAtRisk, 10),
			formatFloat(r.TmaxZMean),
			formatFloat(r.TmaxZMax),
			formatFloat(r.PrcpZMean),
			formatFloat(r.PrcpZMin),
			strconv.Itoa(r.FireCountNOAA),
			strconv.Itoa(r.FEMADeclarationCount),
			formatFloat(r.PctInterface),
			formatFloat(r.PctIntermix),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

func printStats(scored []domain.ScoredCounty) {
	summary := domain.Summarize(scored)

	tierCounts := map[domain.RiskCategory]int{}
	trendCounts := map[domain.ClimateTrend]int{}
	for i := range scored {
		tierCounts[scored[i].RiskCategory]++
		trendCounts[scored[i].ClimateTrend]++
	}

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Total: %d\n", summary.TotalCounties)
	fmt.Printf("By tier: critical=%d, high=%d, moderate=%d, low=%d\n",
		tierCounts[domain.RiskCritical], tierCounts[domain.RiskHigh],
		tierCounts[domain.RiskModerate], tierCounts[domain.RiskLow])
	fmt.Printf("By trend: warming_drying=%d, warming=%d, cooling=%d, stable=%d\n",
		trendCounts[domain.TrendWarmingDrying], trendCounts[domain.TrendWarming],
		trendCounts[domain.TrendCooling], trendCounts[domain.TrendStable])
	fmt.Printf("Avg composite: %.2f\n", summary.AvgRiskScore)
	fmt.Printf("Population at risk: %d of %d\n", summary.PopulationAtRisk, summary.TotalPopulation)

	fmt.Println("\nTop 5 counties:")
	for i := 0; i < 5 && i < len(scored); i++ {
		c := &scored[i]
		fmt.Printf("  %-14s %6.2f  %-8s %-16s (%s)\n",
			c.CountyName, c.CompositeScore, c.RiskCategory, c.ClimateTrend,
			domain.CountyRegion(c.CountyName))
	}
}
