package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppConfigDefaults(t *testing.T) {
	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.Equal(t, "localhost", cfg.Postgres.Host)
	assert.Equal(t, 5432, cfg.Postgres.Port)
	assert.Equal(t, "storewatch", cfg.Postgres.Name)
	assert.True(t, cfg.Postgres.RunMigrationsOnStart)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 30*time.Minute, cfg.Cache.ArtifactTTL)

	assert.Equal(t, 2, cfg.Report.WorkerPoolSize)
	assert.Equal(t, 8, cfg.Report.StoreParallelism)
	assert.Equal(t, 500, cfg.Report.StoreBatchSize)
	assert.Equal(t, 168*time.Hour, cfg.Report.SeedLookback)
	assert.Equal(t, "active", cfg.Report.NoDataStatus)

	assert.False(t, cfg.Observability.Metrics.IsEnabled())
}

func TestAppConfigFromEnv(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("REPORT_WORKER_POOL_SIZE", "4")
	t.Setenv("REPORT_NO_DATA_STATUS", "Inactive")
	t.Setenv("OBSERVABILITY_METRICS_ENABLED", "true")
	t.Setenv("OBSERVABILITY_METRICS_STATSD_ADDRESS", "statsd:8125")

	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.Equal(t, "db.internal", cfg.Postgres.Host)
	assert.Equal(t, 4, cfg.Report.WorkerPoolSize)
	assert.Equal(t, "inactive", cfg.Report.NoDataStatus)
	assert.True(t, cfg.Observability.Metrics.IsEnabled())
}

func TestReportConfigSanitizeClamps(t *testing.T) {
	cfg := ReportConfig{
		WorkerPoolSize:   -1,
		StoreParallelism: 0,
		StoreBatchSize:   -5,
		SeedLookback:     -time.Hour,
		NoDataStatus:     "unknown",
		FallbackTimezone: "  America/Chicago  ",
	}
	cfg.Sanitize()

	assert.Equal(t, 1, cfg.WorkerPoolSize)
	assert.Equal(t, 1, cfg.StoreParallelism)
	assert.Equal(t, 1, cfg.StoreBatchSize)
	assert.Equal(t, 168*time.Hour, cfg.SeedLookback)
	assert.Equal(t, "active", cfg.NoDataStatus)
	assert.Equal(t, "America/Chicago", cfg.FallbackTimezone)
	assert.Equal(t, "./artifacts", cfg.ArtifactDir)
}

func TestObservabilityMetricsSanitize(t *testing.T) {
	cfg := ObservabilityMetricsConfig{Enabled: true, StatsdAddress: "   "}
	cfg.Sanitize()
	assert.False(t, cfg.Enabled)
	assert.False(t, cfg.IsEnabled())
}

func TestDetectDevMode(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()
	assert.True(t, cfg.IsDev)
}
