package config

import (
	"testing"
	"time"

	"github.com/JDCurry/firewatch-risk-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)

	assert.Equal(t, "data/wa_climate_fire_counties.csv", cfg.CountyDataPath)
	assert.Equal(t, time.Duration(0), cfg.RescoreInterval)
	assert.Equal(t, "balanced", cfg.WeightPreset)
	assert.Equal(t, domain.BalancedWeights(), cfg.Weights)
	assert.False(t, cfg.ClampComponents)
	assert.Equal(t, -1.0, cfg.CoolingThreshold)
	assert.Equal(t, 100, cfg.ScenarioCacheSize)

	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "scored-counties", cfg.KafkaSinkTopic)
	assert.False(t, cfg.KafkaEnabled)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("COUNTY_DATA_PATH", "/data/counties.csv")
	t.Setenv("RESCORE_INTERVAL", "15m")
	t.Setenv("WEIGHT_PRESET", "climate")
	t.Setenv("CLAMP_COMPONENTS", "true")
	t.Setenv("COOLING_THRESHOLD", "-0.75")
	t.Setenv("SCENARIO_CACHE_SIZE", "50")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_SINK_TOPIC", "custom-sink")
	t.Setenv("KAFKA_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "/data/counties.csv", cfg.CountyDataPath)
	assert.Equal(t, 15*time.Minute, cfg.RescoreInterval)
	assert.Equal(t, domain.ClimateEmphasisWeights(), cfg.Weights)
	assert.True(t, cfg.ClampComponents)
	assert.Equal(t, -0.75, cfg.CoolingThreshold)
	assert.Equal(t, 50, cfg.ScenarioCacheSize)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-sink", cfg.KafkaSinkTopic)
	assert.True(t, cfg.KafkaEnabled)
}

func TestLoad_ExplicitWeightsOverridePreset(t *testing.T) {
	t.Setenv("WEIGHT_PRESET", "climate")
	t.Setenv("WEIGHTS", "0.4, 0.3, 0.2, 0.1")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, domain.Weights{HeatStress: 0.4, DroughtStress: 0.3, FireHistory: 0.2, WUIExposure: 0.1}, cfg.Weights)
}

func TestLoad_UnknownWeightPreset(t *testing.T) {
	t.Setenv("WEIGHT_PRESET", "aggressive")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "aggressive")
}

func TestLoad_WeightsMustSumToOne(t *testing.T) {
	t.Setenv("WEIGHTS", "0.5,0.5,0.5,0.5")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WEIGHTS")
}

func TestLoad_WeightsWrongArity(t *testing.T) {
	t.Setenv("WEIGHTS", "0.5,0.5")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "4 comma-separated")
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_NegativeShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "-1s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_NegativeRescoreInterval(t *testing.T) {
	t.Setenv("RESCORE_INTERVAL", "-5m")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RESCORE_INTERVAL")
}

func TestLoad_NonNegativeCoolingThreshold(t *testing.T) {
	t.Setenv("COOLING_THRESHOLD", "0.5")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COOLING_THRESHOLD")
}

func TestLoad_InvalidScenarioCacheSize(t *testing.T) {
	t.Setenv("SCENARIO_CACHE_SIZE", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SCENARIO_CACHE_SIZE")
}

func TestLoad_KafkaEnabledWithoutBrokers(t *testing.T) {
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", " ")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BROKERS")
}

func TestTrendThresholds(t *testing.T) {
	t.Setenv("COOLING_THRESHOLD", "-2.5")
	cfg, err := Load()
	require.NoError(t, err)

	th := cfg.TrendThresholds()
	assert.Equal(t, -2.5, th.Cooling)
	assert.Equal(t, domain.DefaultTrendThresholds().Warming, th.Warming)
	assert.Equal(t, domain.DefaultTrendThresholds().Drying, th.Drying)
}
