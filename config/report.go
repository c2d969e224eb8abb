package config

import (
	"strings"
	"time"
)

// ReportConfig contains report pipeline configuration.
type ReportConfig struct {
	// WorkerPoolSize bounds how many report runs execute concurrently.
	WorkerPoolSize int `env:"REPORT_WORKER_POOL_SIZE" envDefault:"2"`

	// StoreParallelism bounds concurrent per-store computations inside one run.
	StoreParallelism int `env:"REPORT_STORE_PARALLELISM" envDefault:"8"`

	// StoreBatchSize is how many store ids share one observation query.
	StoreBatchSize int `env:"REPORT_STORE_BATCH_SIZE" envDefault:"500"`

	// SeedLookback is how far before the week window observations are
	// loaded so the window-start status can be seeded.
	SeedLookback time.Duration `env:"REPORT_SEED_LOOKBACK" envDefault:"168h"`

	// NoDataStatus is the status assumed for stores without any
	// observation: "active" or "inactive".
	NoDataStatus string `env:"REPORT_NO_DATA_STATUS" envDefault:"active"`

	// FallbackTimezone is used for stores missing a timezone mapping.
	// Empty means UTC.
	FallbackTimezone string `env:"REPORT_FALLBACK_TIMEZONE" envDefault:""`

	// ArtifactDir is where completed report artifacts are written.
	ArtifactDir string `env:"REPORT_ARTIFACT_DIR" envDefault:"./artifacts"`
}

// Sanitize applies guardrails to report configuration values.
func (c *ReportConfig) Sanitize() {
	if c.WorkerPoolSize < 1 {
		c.WorkerPoolSize = 1
	}
	if c.StoreParallelism < 1 {
		c.StoreParallelism = 1
	}
	if c.StoreBatchSize < 1 {
		c.StoreBatchSize = 1
	}
	if c.SeedLookback <= 0 {
		c.SeedLookback = 168 * time.Hour
	}
	c.NoDataStatus = strings.ToLower(strings.TrimSpace(c.NoDataStatus))
	if c.NoDataStatus != "active" && c.NoDataStatus != "inactive" {
		c.NoDataStatus = "active"
	}
	c.FallbackTimezone = strings.TrimSpace(c.FallbackTimezone)
	if c.ArtifactDir == "" {
		c.ArtifactDir = "./artifacts"
	}
}
