package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/JDCurry/firewatch-risk-service/internal/domain"
	"github.com/JDCurry/firewatch-risk-service/internal/observability"
	"github.com/jonboulle/clockwork"
)

// RecordSource loads the county dataset. Rejected rows come back as errors
// alongside the valid records so a partially bad file still scores.
type RecordSource interface {
	LoadRecords(ctx context.Context) ([]domain.CountyRecord, []error, error)
}

// ResultSink publishes a scored batch downstream. A nil sink disables
// publishing.
type ResultSink interface {
	PublishBatch(ctx context.Context, counties []domain.ScoredCounty) error
}

// Snapshot is one immutable scoring result. The HTTP layer reads whole
// snapshots, never individual fields, so a re-score swaps atomically.
type Snapshot struct {
	Counties []domain.ScoredCounty
	Summary  domain.DatasetSummary
	ScoredAt time.Time
}

// Pipeline orchestrates the load-validate-score-publish cycle and holds the
// latest snapshot for readers.
type Pipeline struct {
	source   RecordSource
	scorer   *domain.Scorer
	sink     ResultSink
	logger   *slog.Logger
	metrics  *observability.Metrics
	interval time.Duration
	clock    clockwork.Clock

	ready    atomic.Bool
	snapshot atomic.Pointer[Snapshot]
}

// New creates a Pipeline. An interval of zero disables periodic re-scoring;
// the dataset is scored once at startup and served until shutdown.
func New(source RecordSource, scorer *domain.Scorer, sink ResultSink, logger *slog.Logger, metrics *observability.Metrics, interval time.Duration) *Pipeline {
	return &Pipeline{
		source:   source,
		scorer:   scorer,
		sink:     sink,
		logger:   logger,
		metrics:  metrics,
		interval: interval,
		clock:    clockwork.NewRealClock(),
	}
}

// SetClock swaps the pipeline clock, for tests. Pass nil to restore the real
// clock.
func (p *Pipeline) SetClock(c clockwork.Clock) {
	if c == nil {
		c = clockwork.NewRealClock()
	}
	p.clock = c
}

// CheckReadiness returns nil once an initial snapshot exists, or an error
// describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no scored snapshot available yet")
	}
	return nil
}

// Snapshot returns the latest scoring result, or false if no run has
// completed.
func (p *Pipeline) Snapshot() (*Snapshot, bool) {
	s := p.snapshot.Load()
	return s, s != nil
}

// ProjectScenario applies a climate scenario to every county in the current
// snapshot.
func (p *Pipeline) ProjectScenario(scenario domain.Scenario) ([]domain.ProjectedCounty, error) {
	s := p.snapshot.Load()
	if s == nil {
		return nil, errors.New("no scored snapshot available yet")
	}
	return p.scorer.ProjectAll(s.Counties, scenario)
}

// Run scores the dataset once, then re-scores on the configured interval
// until the context is cancelled. The initial run is fatal on error; later
// runs log and keep serving the previous snapshot.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "rescore_interval", p.interval)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	if err := p.runOnce(ctx); err != nil {
		return fmt.Errorf("initial scoring run: %w", err)
	}

	if p.interval <= 0 {
		<-ctx.Done()
		p.logger.Info("pipeline stopping", "reason", ctx.Err())
		return nil
	}

	ticker := p.clock.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
			if err := p.runOnce(ctx); err != nil {
				// Keep serving the last good snapshot.
				p.logger.Error("re-score failed", "error", err)
			}
		}
	}
}

// runOnce performs one complete load-validate-score-publish cycle.
func (p *Pipeline) runOnce(ctx context.Context) error {
	start := time.Now()

	records, rejected, err := p.source.LoadRecords(ctx)
	if err != nil {
		return fmt.Errorf("load county records: %w", err)
	}
	for _, rerr := range rejected {
		p.logger.Warn("county row rejected", "error", rerr)
	}
	p.metrics.RecordsRejected.Add(float64(len(rejected)))

	scored, err := p.scorer.ScoreAll(records)
	if err != nil {
		return fmt.Errorf("score counties: %w", err)
	}
	if len(scored) == 0 {
		return errors.New("no valid county records to score")
	}

	snap := &Snapshot{
		Counties: scored,
		Summary:  domain.Summarize(scored),
		ScoredAt: scored[0].ScoredAt,
	}
	p.snapshot.Store(snap)
	p.ready.Store(true)

	p.metrics.CountiesScored.Add(float64(len(scored)))
	p.metrics.DatasetSize.Set(float64(len(scored)))
	p.metrics.ScoringRuns.Inc()
	p.metrics.ScoringRunDuration.Observe(time.Since(start).Seconds())

	p.logger.Info("scoring run complete",
		"counties", len(scored),
		"rejected", len(rejected),
		"critical", snap.Summary.CriticalCounties,
		"high", snap.Summary.HighCounties,
	)

	p.publish(ctx, scored)
	return nil
}

// publish sends the scored batch to the sink. Publish failures never fail the
// run; the snapshot is already live.
func (p *Pipeline) publish(ctx context.Context, scored []domain.ScoredCounty) {
	if p.sink == nil {
		return
	}
	if err := p.sink.PublishBatch(ctx, scored); err != nil {
		p.logger.Error("publish scored counties failed", "error", err, "batch_size", len(scored))
		p.metrics.PublishErrors.Inc()
		return
	}
	p.metrics.CountiesPublished.Add(float64(len(scored)))
}
