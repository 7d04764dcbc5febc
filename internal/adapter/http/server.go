// Package http exposes the scored county dataset over a JSON API, alongside
// the health, readiness, and metrics endpoints.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/JDCurry/firewatch-risk-service/internal/analysis"
	"github.com/JDCurry/firewatch-risk-service/internal/domain"
	"github.com/JDCurry/firewatch-risk-service/internal/observability"
	"github.com/JDCurry/firewatch-risk-service/internal/pipeline"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SnapshotProvider serves scored snapshots and scenario projections. The
// scoring pipeline implements it.
type SnapshotProvider interface {
	CheckReadiness(ctx context.Context) error
	Snapshot() (*pipeline.Snapshot, bool)
	ProjectScenario(scenario domain.Scenario) ([]domain.ProjectedCounty, error)
}

// Server exposes the risk API plus health, readiness, and metrics routes.
type Server struct {
	httpServer *http.Server
	provider   SnapshotProvider
	metrics    *observability.Metrics
	cache      *scenarioCache
	logger     *slog.Logger
}

// NewServer creates the HTTP server and registers all routes.
func NewServer(addr string, provider SnapshotProvider, metrics *observability.Metrics, scenarioCacheSize int, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		provider: provider,
		metrics:  metrics,
		cache:    newScenarioCache(scenarioCacheSize),
		logger:   logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/counties", s.handleCounties)
	mux.HandleFunc("GET /api/counties/{name}", s.handleCounty)
	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /api/scenario", s.handleScenario)
	mux.HandleFunc("GET /api/analysis/correlations", s.handleCorrelations)
	mux.HandleFunc("GET /api/analysis/regions", s.handleRegions)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.provider.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleCounties returns the scored counties, highest composite first. An
// optional top=N query limits the result to the N highest-risk counties.
func (s *Server) handleCounties(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}

	counties := snap.Counties
	if raw := r.URL.Query().Get("top"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "top must be a positive integer")
			return
		}
		if n < len(counties) {
			counties = counties[:n]
		}
	}

	writeJSON(w, http.StatusOK, countiesResponse{
		Counties: counties,
		ScoredAt: snap.ScoredAt,
	})
}

// handleCounty returns one county with its composite percentile rank across
// the dataset.
func (s *Server) handleCounty(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}

	name := domain.CanonicalCountyName(r.PathValue("name"))
	var found *domain.ScoredCounty
	composites := make([]float64, len(snap.Counties))
	for i := range snap.Counties {
		composites[i] = snap.Counties[i].CompositeScore
		if snap.Counties[i].CountyName == name {
			found = &snap.Counties[i]
		}
	}
	if found == nil {
		writeError(w, http.StatusNotFound, "unknown county: "+name)
		return
	}

	rank, err := analysis.PercentileRank(found.CompositeScore, composites)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, countyResponse{
		County:              *found,
		Region:              domain.CountyRegion(found.CountyName),
		CompositePercentile: rank,
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, _ *http.Request) {
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, snap.Summary)
}

// handleScenario projects every county under the requested climate scenario.
// Results are cached per scenario and snapshot.
func (s *Server) handleScenario(w http.ResponseWriter, r *http.Request) {
	snap, loaded := s.provider.Snapshot()
	if !loaded {
		s.metrics.ScenarioRequests.WithLabelValues("unready").Inc()
		writeError(w, http.StatusServiceUnavailable, "no scored snapshot available yet")
		return
	}

	scenario, err := parseScenario(r)
	if err != nil {
		s.metrics.ScenarioRequests.WithLabelValues("invalid").Inc()
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := scenarioKey(scenario, snap.ScoredAt)
	projected, hit := s.cache.get(key)
	if hit {
		s.metrics.ScenarioCache.WithLabelValues("hit").Inc()
	} else {
		s.metrics.ScenarioCache.WithLabelValues("miss").Inc()
		projected, err = s.provider.ProjectScenario(scenario)
		if err != nil {
			s.metrics.ScenarioRequests.WithLabelValues("invalid").Inc()
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.cache.put(key, projected)
	}

	s.metrics.ScenarioRequests.WithLabelValues("success").Inc()
	writeJSON(w, http.StatusOK, scenarioResponse{
		Scenario: scenario,
		Counties: projected,
		ScoredAt: snap.ScoredAt,
	})
}

// handleCorrelations returns the pairwise Pearson correlation matrix across
// the scored components and the composite.
func (s *Server) handleCorrelations(w http.ResponseWriter, _ *http.Request) {
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}
	if len(snap.Counties) < 2 {
		writeError(w, http.StatusUnprocessableEntity, "correlation requires at least 2 counties")
		return
	}

	variables := []string{
		"heat_stress",
		"drought_stress",
		"fire_history_score",
		"wui_exposure_score",
		"composite_score",
	}
	series := make([][]float64, len(variables))
	for i := range series {
		series[i] = make([]float64, len(snap.Counties))
	}
	for j, c := range snap.Counties {
		series[0][j] = c.HeatStress
		series[1][j] = c.DroughtStress
		series[2][j] = c.FireHistoryScore
		series[3][j] = c.WUIExposureScore
		series[4][j] = c.CompositeScore
	}

	matrix := make([][]*float64, len(variables))
	for i := range variables {
		matrix[i] = make([]*float64, len(variables))
		for j := range variables {
			r, err := analysis.Correlation(series[i], series[j])
			if err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			matrix[i][j] = finiteOrNil(r)
		}
	}

	writeJSON(w, http.StatusOK, correlationsResponse{
		Variables: variables,
		Matrix:    matrix,
		ScoredAt:  snap.ScoredAt,
	})
}

// handleRegions summarizes composite scores per region and tests whether the
// regional means differ.
func (s *Server) handleRegions(w http.ResponseWriter, _ *http.Request) {
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}

	byRegion := map[domain.Region][]float64{}
	for _, c := range snap.Counties {
		region := domain.CountyRegion(c.CountyName)
		byRegion[region] = append(byRegion[region], c.CompositeScore)
	}

	resp := regionsResponse{
		Regions:  map[domain.Region]regionStats{},
		ScoredAt: snap.ScoredAt,
	}
	groups := make([][]float64, 0, len(byRegion))
	for region, composites := range byRegion {
		summary, err := analysis.Summarize(composites)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		resp.Regions[region] = regionStats{
			Counties: summary.N,
			Mean:     summary.Mean,
			StdDev:   finiteOrNil(summary.StdDev),
			Min:      summary.Min,
			Median:   summary.Median,
			Max:      summary.Max,
		}
		groups = append(groups, composites)
	}

	// ANOVA needs two non-empty groups with residual degrees of freedom;
	// a single-region dataset simply omits the test.
	if f, p, err := analysis.OneWayANOVA(groups); err == nil {
		resp.ANOVAF = finiteOrNil(f)
		resp.ANOVAP = finiteOrNil(p)
	}

	writeJSON(w, http.StatusOK, resp)
}

// --- response shapes ---

type countiesResponse struct {
	Counties []domain.ScoredCounty `json:"counties"`
	ScoredAt time.Time             `json:"scored_at"`
}

type countyResponse struct {
	County              domain.ScoredCounty `json:"county"`
	Region              domain.Region       `json:"region"`
	CompositePercentile float64             `json:"composite_percentile"`
}

type scenarioResponse struct {
	Scenario domain.Scenario          `json:"scenario"`
	Counties []domain.ProjectedCounty `json:"counties"`
	ScoredAt time.Time                `json:"scored_at"`
}

type correlationsResponse struct {
	Variables []string     `json:"variables"`
	Matrix    [][]*float64 `json:"matrix"`
	ScoredAt  time.Time    `json:"scored_at"`
}

type regionStats struct {
	Counties int      `json:"counties"`
	Mean     float64  `json:"mean"`
	StdDev   *float64 `json:"stddev"`
	Min      float64  `json:"min"`
	Median   float64  `json:"median"`
	Max      float64  `json:"max"`
}

type regionsResponse struct {
	Regions  map[domain.Region]regionStats `json:"regions"`
	ANOVAF   *float64                      `json:"anova_f,omitempty"`
	ANOVAP   *float64                      `json:"anova_p,omitempty"`
	ScoredAt time.Time                     `json:"scored_at"`
}

// --- helpers ---

// snapshot fetches the current snapshot, writing a 503 if none exists.
func (s *Server) snapshot(w http.ResponseWriter) (*pipeline.Snapshot, bool) {
	snap, ok := s.provider.Snapshot()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "no scored snapshot available yet")
		return nil, false
	}
	return snap, true
}

// parseScenario reads the scenario query parameters. Missing parameters
// default to zero, meaning no change from baseline.
func parseScenario(r *http.Request) (domain.Scenario, error) {
	var scenario domain.Scenario
	q := r.URL.Query()

	if raw := q.Get("temperature_increase"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return domain.Scenario{}, &domain.ValidationError{Field: "temperature_increase", Reason: "must be a number"}
		}
		scenario.TemperatureIncrease = v
	}
	if raw := q.Get("precipitation_change"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return domain.Scenario{}, &domain.ValidationError{Field: "precipitation_change", Reason: "must be a number"}
		}
		scenario.PrecipitationChange = v
	}

	if err := scenario.Validate(); err != nil {
		return domain.Scenario{}, err
	}
	return scenario, nil
}

// finiteOrNil maps NaN and infinities to nil so responses stay valid JSON.
func finiteOrNil(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
