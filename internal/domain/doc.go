// Package domain models Washington State county wildfire risk.
//
// # Data Sources
//
// County inputs combine three upstream datasets, joined per county during
// data preparation:
//
//   - Climate anomalies: daily TMAX and PRCP observations from NOAA GHCN
//     stations, reduced to z-scores against each county's 1991–2020
//     baseline (mean and extreme per county-year). See [Normalize].
//   - Fire history: NOAA storm-event wildfire counts plus FEMA fire
//     disaster declarations (1991–2024).
//   - WUI exposure: SILVIS wildland-urban-interface housing fractions,
//     split into interface (housing adjacent to contiguous wildland) and
//     intermix (housing interspersed among wildland vegetation).
//
// County names are uppercased at ingestion and act as the dataset key; see
// [CanonicalCountyName].
//
// # Scoring Methodology
//
// Four component scores, each nominally 0–30, are pure functions of a
// single county's record:
//
//	heat_stress    = tmax_z_mean * 10 + tmax_z_max * 5
//	drought_stress = |prcp_z_mean| * 10 + |prcp_z_min| * 5
//	fire_history   = fire_count_noaa * 0.6 + fema_declarations * 2.5
//	wui_exposure   = (pct_interface * 0.7 + pct_intermix * 0.3) * 25
//
// Components are not clamped to the nominal scale by default; an outlier
// county (for example one with dozens of fire events) legitimately exceeds
// 30 and dominates the composite. [ScorerConfig.ClampComponents] bounds
// them to [0, 30] for deployments that prefer the documented scale.
//
// The composite score is the weighted sum of the four components, weights
// non-negative and summing to 1. The balanced preset (0.25 each) is the
// default; climate-, history-, and WUI-emphasis presets are recognized.
// On the default preset the composite lands on a nominal 0–100 scale.
//
// # Risk Tiers
//
// Tier boundaries are half-open with the boundary value joining the higher
// tier:
//
//	Critical  composite >= 65
//	High      55 <= composite < 65
//	Moderate  45 <= composite < 55
//	Low       composite < 45
//
// # Climate Trend
//
// Trend labels come from a single ordered decision table over the mean
// temperature and precipitation z-scores so no county is double-classified:
//
//	Warming & Drying  tmax_z_mean > 1.0 and prcp_z_mean < -0.5
//	Warming           tmax_z_mean > 1.0
//	Cooling           tmax_z_mean <= cooling cutoff
//	Stable            otherwise
//
// The cooling cutoff defaults to -1.0, chosen symmetric to the warming
// cutoff; no authoritative value exists in the source methodology, so the
// threshold is configurable via [TrendThresholds] pending a decision from
// the climatology reviewers.
//
// # Scenario Projection
//
// A scenario applies a temperature increase (0–5 °C) and a precipitation
// change (±50%) to the climate-responsive components only:
//
//	temp_factor   = 1 + temperature_increase * 0.15
//	precip_factor = 1 - (precipitation_change / 100) * 0.1
//
// Fire history and WUI exposure are structural and held constant. The
// percentage change of a projection is undefined for a zero baseline
// composite and reported as absent rather than dividing by zero.
//
// # Determinism
//
// Every scoring and projection operation is a pure function of its inputs
// and the scorer configuration: re-scoring a record always yields an
// identical result, and counties never depend on sibling counties, so a
// dataset can be scored in any order or concurrently. Wall-clock timestamps
// are the only impure input and flow through the swappable [SetClock] seam.
package domain
