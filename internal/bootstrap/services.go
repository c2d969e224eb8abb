package bootstrap

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/storewatch/uptime-api/config"
	"github.com/storewatch/uptime-api/internal/core"
	"github.com/storewatch/uptime-api/internal/data"
	"github.com/storewatch/uptime-api/internal/domain/model"
	"github.com/storewatch/uptime-api/internal/domain/uptime"
	"github.com/storewatch/uptime-api/internal/ingest"
	"github.com/storewatch/uptime-api/internal/observability/statsd"
	"github.com/storewatch/uptime-api/internal/service"
)

// ServiceContainer holds the application's constructed services.
type ServiceContainer struct {
	Reports *service.ReportService
	Loader  *ingest.Loader
	Metrics *statsd.Client
}

// ServicesConfig groups dependencies for BuildServices.
type ServicesConfig struct {
	DB     *sql.DB
	Redis  redis.UniversalClient // Optional: nil disables the artifact cache
	Config *config.AppConfig
	Logger *slog.Logger
}

// BuildServices constructs repositories and services from connections
// and configuration.
func BuildServices(cfg ServicesConfig) (*ServiceContainer, error) {
	if cfg.DB == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	if cfg.Config == nil {
		return nil, fmt.Errorf("app config is required")
	}

	observations := data.NewObservationRepo(cfg.DB, cfg.Logger)
	businessHours := data.NewBusinessHoursRepo(cfg.DB, cfg.Logger)
	timezones := data.NewTimezoneRepo(cfg.DB, cfg.Logger)
	reports := data.NewReportRepo(cfg.DB, data.ReportRepoOptions{Logger: cfg.Logger})

	artifacts, err := data.NewFSArtifactStore(cfg.Config.Report.ArtifactDir)
	if err != nil {
		return nil, fmt.Errorf("init artifact store: %w", err)
	}

	var cache core.CacheRepository
	if cfg.Redis != nil && cfg.Config.Cache.Enabled {
		cache = data.NewRedisCacheRepo(cfg.Redis)
	}

	sink, err := buildMetrics(cfg.Config.Observability.Metrics, cfg.Logger)
	if err != nil {
		return nil, err
	}

	reportSvc, err := service.NewReportService(service.ReportServiceOptions{
		Repos: service.ReportRepos{
			Observations:  observations,
			BusinessHours: businessHours,
			Timezones:     timezones,
			Reports:       reports,
		},
		Artifacts: artifacts,
		Config:    reportConfig(cfg.Config),
		Logger:    cfg.Logger,
		Cache:     cache,
		Metrics:   sink,
	})
	if err != nil {
		return nil, fmt.Errorf("build report service: %w", err)
	}

	loader := ingest.NewLoader(ingest.LoaderOptions{
		Observations:  observations,
		BusinessHours: businessHours,
		Timezones:     timezones,
		Logger:        cfg.Logger,
	})

	return &ServiceContainer{Reports: reportSvc, Loader: loader, Metrics: sink}, nil
}

func reportConfig(app *config.AppConfig) service.ReportConfig {
	noData := model.StatusActive
	if app.Report.NoDataStatus == "inactive" {
		noData = model.StatusInactive
	}
	return service.ReportConfig{
		WorkerPoolSize:   app.Report.WorkerPoolSize,
		StoreParallelism: app.Report.StoreParallelism,
		StoreBatchSize:   app.Report.StoreBatchSize,
		SeedLookback:     app.Report.SeedLookback,
		Policy:           uptime.Policy{NoDataStatus: noData},
		FallbackTimezone: app.Report.FallbackTimezone,
		ArtifactCacheTTL: app.Cache.ArtifactTTL,
	}
}

func buildMetrics(cfg config.ObservabilityMetricsConfig, logger *slog.Logger) (*statsd.Client, error) {
	client, err := statsd.NewClient(statsd.Config{
		Enabled: cfg.IsEnabled(),
		Address: cfg.StatsdAddress,
		Prefix:  "storewatch",
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("init statsd client: %w", err)
	}
	if client.Enabled() && logger != nil {
		logger.Info("statsd metrics enabled", "addr", cfg.StatsdAddress)
	}
	return client, nil
}

// CloseServices releases service-held resources during shutdown, waiting
// up to the grace period for in-flight report runs.
func CloseServices(c *ServiceContainer, grace time.Duration, logger *slog.Logger) {
	if c == nil {
		return
	}

	done := make(chan struct{})
	go func() {
		c.Reports.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(grace):
		if logger != nil {
			logger.Warn("report runs still in flight at shutdown deadline")
		}
	}

	if c.Metrics != nil {
		if err := c.Metrics.Close(); err != nil && logger != nil {
			logger.Warn("close statsd client failed", "error", err)
		}
	}
}
