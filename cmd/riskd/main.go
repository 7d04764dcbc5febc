package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/JDCurry/firewatch-risk-service/internal/adapter/http"
	kafkaadapter "github.com/JDCurry/firewatch-risk-service/internal/adapter/kafka"
	"github.com/JDCurry/firewatch-risk-service/internal/config"
	"github.com/JDCurry/firewatch-risk-service/internal/domain"
	"github.com/JDCurry/firewatch-risk-service/internal/ingest"
	"github.com/JDCurry/firewatch-risk-service/internal/observability"
	"github.com/JDCurry/firewatch-risk-service/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	scorer, err := domain.NewScorer(domain.ScorerConfig{
		Weights:         cfg.Weights,
		ClampComponents: cfg.ClampComponents,
		Trend:           cfg.TrendThresholds(),
	})
	if err != nil {
		logger.Error("failed to build scorer", "error", err)
		os.Exit(1)
	}
	logger.Info("scorer configured",
		"preset", cfg.WeightPreset,
		"clamp_components", cfg.ClampComponents,
	)

	source := ingest.NewFileSource(cfg.CountyDataPath)

	// Kafka sink is feature-flagged via KAFKA_ENABLED.
	var sink pipeline.ResultSink
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		sink = writer
		metrics.SinkEnabled.Set(1)
		logger.Info("kafka sink enabled", "topic", cfg.KafkaSinkTopic, "brokers", cfg.KafkaBrokers)
	} else {
		metrics.SinkEnabled.Set(0)
		logger.Info("kafka sink disabled")
	}

	p := pipeline.New(source, scorer, sink, logger, metrics, cfg.RescoreInterval)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, metrics, cfg.ScenarioCacheSize, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start scoring pipeline. A failed initial run means nothing can be
	// served, so shut the whole service down.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
