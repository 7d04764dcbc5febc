package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// scoring service.
type Metrics struct {
	CountiesScored  prometheus.Counter
	RecordsRejected prometheus.Counter
	ScoringRuns     prometheus.Counter
	PipelineRunning prometheus.Gauge
	DatasetSize     prometheus.Gauge

	ScoringRunDuration prometheus.Histogram

	// Scenario endpoint metrics.
	ScenarioRequests *prometheus.CounterVec // labels: outcome={success,invalid,unready}
	ScenarioCache    *prometheus.CounterVec // labels: result={hit,miss}

	// Kafka sink metrics.
	CountiesPublished prometheus.Counter
	PublishErrors     prometheus.Counter
	SinkEnabled       prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		CountiesScored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "firewatch",
			Name:      "counties_scored_total",
			Help:      "Total county records scored across all runs.",
		}),
		RecordsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "firewatch",
			Name:      "records_rejected_total",
			Help:      "Total county rows rejected at validation.",
		}),
		ScoringRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "firewatch",
			Name:      "scoring_runs_total",
			Help:      "Total completed scoring runs.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "firewatch",
			Name:      "pipeline_running",
			Help:      "1 when the scoring pipeline is active, 0 when shut down.",
		}),
		DatasetSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "firewatch",
			Name:      "dataset_size",
			Help:      "Number of counties in the current scored snapshot.",
		}),
		ScoringRunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "firewatch",
			Name:      "scoring_run_duration_seconds",
			Help:      "Duration of a complete load-validate-score-publish run.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
		}),
		ScenarioRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "firewatch",
			Name:      "scenario_requests_total",
			Help:      "Scenario projection requests by outcome.",
		}, []string{"outcome"}),
		ScenarioCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "firewatch",
			Name:      "scenario_cache_total",
			Help:      "Scenario projection cache lookups by result.",
		}, []string{"result"}),
		CountiesPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "firewatch",
			Name:      "counties_published_total",
			Help:      "Total scored counties published to the sink topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "firewatch",
			Name:      "publish_errors_total",
			Help:      "Total failed sink publish batches.",
		}),
		SinkEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "firewatch",
			Name:      "sink_enabled",
			Help:      "1 when the Kafka sink is enabled, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.CountiesScored,
		m.RecordsRejected,
		m.ScoringRuns,
		m.PipelineRunning,
		m.DatasetSize,
		m.ScoringRunDuration,
		m.ScenarioRequests,
		m.ScenarioCache,
		m.CountiesPublished,
		m.PublishErrors,
		m.SinkEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		CountiesScored:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "firewatch", Name: "counties_scored_total"}),
		RecordsRejected:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "firewatch", Name: "records_rejected_total"}),
		ScoringRuns:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "firewatch", Name: "scoring_runs_total"}),
		PipelineRunning:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "firewatch", Name: "pipeline_running"}),
		DatasetSize:        prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "firewatch", Name: "dataset_size"}),
		ScoringRunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "firewatch", Name: "scoring_run_duration_seconds"}),
		ScenarioRequests:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "firewatch", Name: "scenario_requests_total"}, []string{"outcome"}),
		ScenarioCache:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "firewatch", Name: "scenario_cache_total"}, []string{"result"}),
		CountiesPublished:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "firewatch", Name: "counties_published_total"}),
		PublishErrors:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "firewatch", Name: "publish_errors_total"}),
		SinkEnabled:        prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "firewatch", Name: "sink_enabled"}),
	}
}
