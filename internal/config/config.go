package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/JDCurry/firewatch-risk-service/internal/domain"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Scoring configuration.
	CountyDataPath   string
	RescoreInterval  time.Duration // 0 disables periodic re-scoring
	WeightPreset     string
	Weights          domain.Weights
	ClampComponents  bool
	CoolingThreshold float64

	ScenarioCacheSize int

	// Kafka sink configuration.
	KafkaBrokers   []string
	KafkaSinkTopic string
	KafkaEnabled   bool
}

// Load reads configuration from environment variables, applying defaults
// where unset. Weight configuration comes from WEIGHT_PRESET, or from an
// explicit WEIGHTS list of four comma-separated values which overrides the
// preset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDurationEnv("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	if shutdownTimeout <= 0 {
		return nil, errors.New("invalid SHUTDOWN_TIMEOUT: must be positive")
	}

	rescoreInterval, err := parseDurationEnv("RESCORE_INTERVAL", 0)
	if err != nil {
		return nil, err
	}
	if rescoreInterval < 0 {
		return nil, errors.New("invalid RESCORE_INTERVAL: must not be negative")
	}

	preset := envOrDefault("WEIGHT_PRESET", "balanced")
	weights, err := resolveWeights(preset, os.Getenv("WEIGHTS"))
	if err != nil {
		return nil, err
	}

	clamp, err := parseBoolEnv("CLAMP_COMPONENTS", false)
	if err != nil {
		return nil, err
	}

	coolingThreshold, err := parseFloatEnv("COOLING_THRESHOLD", -1.0)
	if err != nil {
		return nil, err
	}
	if coolingThreshold >= 0 {
		return nil, errors.New("invalid COOLING_THRESHOLD: must be negative")
	}

	cacheSize, err := parseIntEnv("SCENARIO_CACHE_SIZE", 100)
	if err != nil {
		return nil, err
	}
	if cacheSize <= 0 {
		return nil, errors.New("invalid SCENARIO_CACHE_SIZE: must be positive")
	}

	kafkaEnabled, err := parseBoolEnv("KAFKA_ENABLED", false)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		CountyDataPath:   envOrDefault("COUNTY_DATA_PATH", "data/wa_climate_fire_counties.csv"),
		RescoreInterval:  rescoreInterval,
		WeightPreset:     preset,
		Weights:          weights,
		ClampComponents:  clamp,
		CoolingThreshold: coolingThreshold,

		ScenarioCacheSize: cacheSize,

		KafkaBrokers:   parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSinkTopic: envOrDefault("KAFKA_SINK_TOPIC", "scored-counties"),
		KafkaEnabled:   kafkaEnabled,
	}

	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
		}
		if cfg.KafkaSinkTopic == "" {
			return nil, errors.New("KAFKA_ENABLED is true but KAFKA_SINK_TOPIC is empty")
		}
	}

	return cfg, nil
}

// TrendThresholds builds the trend configuration from the defaults plus the
// configured cooling cutoff.
func (c *Config) TrendThresholds() domain.TrendThresholds {
	t := domain.DefaultTrendThresholds()
	t.Cooling = c.CoolingThreshold
	return t
}

// resolveWeights picks the named preset, then applies an explicit WEIGHTS
// override of the form "heat,drought,fire,wui".
func resolveWeights(preset, explicit string) (domain.Weights, error) {
	if explicit == "" {
		return domain.WeightPreset(preset)
	}

	parts := strings.Split(explicit, ",")
	if len(parts) != 4 {
		return domain.Weights{}, fmt.Errorf("invalid WEIGHTS: want 4 comma-separated values, got %d", len(parts))
	}
	values := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return domain.Weights{}, fmt.Errorf("invalid WEIGHTS: %w", err)
		}
		values[i] = v
	}
	w := domain.Weights{
		HeatStress:    values[0],
		DroughtStress: values[1],
		FireHistory:   values[2],
		WUIExposure:   values[3],
	}
	if err := w.Validate(); err != nil {
		return domain.Weights{}, fmt.Errorf("invalid WEIGHTS: %w", err)
	}
	return w, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBrokers(raw string) []string {
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func parseDurationEnv(key string, fallback time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func parseBoolEnv(key string, fallback bool) (bool, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func parseIntEnv(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func parseFloatEnv(key string, fallback float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}
