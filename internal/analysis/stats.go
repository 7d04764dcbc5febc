// Package analysis provides the statistical primitives consumed by the
// reporting and analytics surfaces: Pearson correlation, ordinary
// least-squares trend fits, percentile ranks, one-way ANOVA, and series
// summaries over the scored county table.
//
// Structural problems (mismatched lengths, empty series, too few groups)
// are errors. Degenerate but well-formed inputs — a zero-variance series,
// identical groups — yield NaN results instead, since they are expected in
// sparse county data and callers display them as "undefined".
package analysis

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Correlation returns the Pearson correlation coefficient of two series.
// The result is NaN when either series has zero variance.
func Correlation(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("correlation: series lengths differ (%d vs %d)", len(a), len(b))
	}
	if len(a) < 2 {
		return 0, errors.New("correlation: need at least 2 observations")
	}
	return stat.Correlation(a, b, nil), nil
}

// Fit holds an ordinary least-squares line fit. P and StdErr are NaN when
// there are no residual degrees of freedom (n == 2) or x is constant.
type Fit struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	R         float64 `json:"r"`
	P         float64 `json:"p"`
	StdErr    float64 `json:"stderr"`
	N         int     `json:"n"`
}

// LinearFit regresses y on x and reports the slope, intercept, correlation
// coefficient, two-sided p-value of the slope (Student's t), and the
// standard error of the slope.
func LinearFit(x, y []float64) (Fit, error) {
	if len(x) != len(y) {
		return Fit{}, fmt.Errorf("linear fit: series lengths differ (%d vs %d)", len(x), len(y))
	}
	n := len(x)
	if n < 2 {
		return Fit{}, errors.New("linear fit: need at least 2 observations")
	}

	intercept, slope := stat.LinearRegression(x, y, nil, false)
	r := stat.Correlation(x, y, nil)

	fit := Fit{Slope: slope, Intercept: intercept, R: r, P: math.NaN(), StdErr: math.NaN(), N: n}

	xMean := stat.Mean(x, nil)
	var ssResidual, ssX float64
	for i := range x {
		resid := y[i] - (intercept + slope*x[i])
		ssResidual += resid * resid
		dx := x[i] - xMean
		ssX += dx * dx
	}
	if n == 2 || ssX == 0 {
		return fit, nil
	}

	fit.StdErr = math.Sqrt(ssResidual / float64(n-2) / ssX)
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 2)}
	fit.P = 2 * tDist.Survival(math.Abs(slope/fit.StdErr))
	return fit, nil
}

// PercentileRank returns the percentage of the series strictly less than
// the value, on a 0-100 scale.
func PercentileRank(value float64, series []float64) (float64, error) {
	if len(series) == 0 {
		return 0, errors.New("percentile rank: empty series")
	}
	below := 0
	for _, v := range series {
		if v < value {
			below++
		}
	}
	return float64(below) / float64(len(series)) * 100, nil
}

// OneWayANOVA tests whether the group means differ, returning the F
// statistic and its p-value. At least two groups are required and every
// group must be non-empty, with more total observations than groups. When
// all observations are identical the result is (NaN, NaN); when groups are
// internally constant but differ from one another, F is +Inf and p is 0.
func OneWayANOVA(groups [][]float64) (f, p float64, err error) {
	if len(groups) < 2 {
		return 0, 0, fmt.Errorf("anova: need at least 2 groups, got %d", len(groups))
	}

	total := 0
	var grandSum float64
	for i, g := range groups {
		if len(g) == 0 {
			return 0, 0, fmt.Errorf("anova: group %d is empty", i)
		}
		total += len(g)
		for _, v := range g {
			grandSum += v
		}
	}
	dfBetween := len(groups) - 1
	dfWithin := total - len(groups)
	if dfWithin <= 0 {
		return 0, 0, errors.New("anova: not enough observations to estimate within-group variance")
	}

	grandMean := grandSum / float64(total)
	var ssBetween, ssWithin float64
	for _, g := range groups {
		groupMean := stat.Mean(g, nil)
		diff := groupMean - grandMean
		ssBetween += float64(len(g)) * diff * diff
		for _, v := range g {
			d := v - groupMean
			ssWithin += d * d
		}
	}

	if ssWithin == 0 {
		if ssBetween == 0 {
			return math.NaN(), math.NaN(), nil
		}
		return math.Inf(1), 0, nil
	}

	f = (ssBetween / float64(dfBetween)) / (ssWithin / float64(dfWithin))
	fDist := distuv.F{D1: float64(dfBetween), D2: float64(dfWithin)}
	return f, fDist.Survival(f), nil
}

// SeriesSummary mirrors the descriptive-statistics block of the analytics
// report: count, mean, sample standard deviation, and the five-number
// summary.
type SeriesSummary struct {
	N      int     `json:"n"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

// Summarize computes descriptive statistics for a series. StdDev is NaN
// for a single observation.
func Summarize(series []float64) (SeriesSummary, error) {
	if len(series) == 0 {
		return SeriesSummary{}, errors.New("summarize: empty series")
	}

	sorted := make([]float64, len(series))
	copy(sorted, series)
	sort.Float64s(sorted)

	return SeriesSummary{
		N:      len(sorted),
		Mean:   stat.Mean(sorted, nil),
		StdDev: stat.StdDev(sorted, nil),
		Min:    sorted[0],
		Q1:     stat.Quantile(0.25, stat.Empirical, sorted, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Q3:     stat.Quantile(0.75, stat.Empirical, sorted, nil),
		Max:    sorted[len(sorted)-1],
	}, nil
}
