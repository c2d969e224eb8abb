// Package service contains the business logic for triggering, computing,
// and serving store uptime reports.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/storewatch/uptime-api/internal/core"
	"github.com/storewatch/uptime-api/internal/domain/model"
	"github.com/storewatch/uptime-api/internal/domain/schedule"
	"github.com/storewatch/uptime-api/internal/domain/uptime"
	"github.com/storewatch/uptime-api/internal/export"
	"github.com/storewatch/uptime-api/internal/observability/metrics"
	"github.com/storewatch/uptime-api/internal/observability/statsd"
)

// ErrNoObservations is stored on a report that ran against an empty
// observation table: without a max timestamp there is no reference "now".
var ErrNoObservations = errors.New("no observations available to anchor the report")

// ReportRepos groups the storage collaborators a report run reads from.
type ReportRepos struct {
	Observations  core.ObservationRepository
	BusinessHours core.BusinessHoursRepository
	Timezones     core.TimezoneRepository
	Reports       core.ReportRepository
}

// ReportConfig carries the tunable policy of the report pipeline.
type ReportConfig struct {
	// WorkerPoolSize bounds concurrent report runs; triggers beyond
	// capacity queue rather than reject.
	WorkerPoolSize int
	// StoreParallelism bounds concurrent per-store computations inside
	// one run.
	StoreParallelism int
	// StoreBatchSize is how many store ids share one observation query.
	StoreBatchSize int
	// SeedLookback is how far before the week window observations are
	// loaded so the window-start status can be seeded.
	SeedLookback time.Duration
	// Policy holds the extrapolation defaults (no-data status, lookback).
	Policy uptime.Policy
	// FallbackTimezone is used for stores missing a timezone mapping.
	// Empty means UTC.
	FallbackTimezone string
	// ArtifactCacheTTL bounds how long completed artifacts stay cached.
	ArtifactCacheTTL time.Duration
}

// ReportServiceOptions groups dependencies for ReportService.
type ReportServiceOptions struct {
	Repos     ReportRepos
	Artifacts core.ArtifactStore
	Config    ReportConfig
	Logger    *slog.Logger         // Optional: structured logger
	Cache     core.CacheRepository // Optional: artifact byte cache
	Metrics   statsd.Sink          // Optional: metric sink
}

// ReportService orchestrates asynchronous report jobs: Trigger allocates a
// Running row and hands the run to a bounded worker pool; Get polls job
// state and serves the immutable artifact once Complete.
type ReportService struct {
	repos     ReportRepos
	artifacts core.ArtifactStore
	cfg       ReportConfig
	logger    *slog.Logger
	cache     core.CacheRepository
	metrics   statsd.Sink

	pool     *semaphore.Weighted
	fallback *time.Location
	wg       sync.WaitGroup
}

// NewReportService constructs a ReportService.
func NewReportService(opts ReportServiceOptions) (*ReportService, error) {
	r := opts.Repos
	if r.Observations == nil || r.BusinessHours == nil || r.Timezones == nil || r.Reports == nil {
		return nil, errors.New("all report repositories are required")
	}
	if opts.Artifacts == nil {
		return nil, errors.New("ArtifactStore is required")
	}

	cfg := opts.Config
	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = 1
	}
	if cfg.StoreParallelism <= 0 {
		cfg.StoreParallelism = 4
	}
	if cfg.StoreBatchSize <= 0 {
		cfg.StoreBatchSize = 500
	}
	if cfg.SeedLookback <= 0 {
		cfg.SeedLookback = 7 * 24 * time.Hour
	}
	if !cfg.Policy.NoDataStatus.Valid() {
		cfg.Policy = uptime.DefaultPolicy
	}

	fallback := time.UTC
	if cfg.FallbackTimezone != "" {
		loc, err := time.LoadLocation(cfg.FallbackTimezone)
		if err != nil {
			return nil, fmt.Errorf("load fallback timezone %q: %w", cfg.FallbackTimezone, err)
		}
		fallback = loc
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "report_service")
	}

	return &ReportService{
		repos:     r,
		artifacts: opts.Artifacts,
		cfg:       cfg,
		logger:    logger,
		cache:     opts.Cache,
		metrics:   opts.Metrics,
		pool:      semaphore.NewWeighted(int64(cfg.WorkerPoolSize)),
		fallback:  fallback,
	}, nil
}

// MustNewReportService constructs a ReportService and panics on error.
func MustNewReportService(opts ReportServiceOptions) *ReportService {
	svc, err := NewReportService(opts)
	if err != nil {
		panic(fmt.Sprintf("failed to create ReportService: %v", err))
	}
	return svc
}

// Trigger allocates a report job and hands the computation to the worker
// pool. It returns the job id immediately; the run itself is decoupled
// from the caller's context and lifetime.
func (s *ReportService) Trigger(ctx context.Context) (string, error) {
	report, err := s.repos.Reports.Create(ctx)
	if err != nil {
		return "", fmt.Errorf("create report job: %w", err)
	}

	s.wg.Add(1)
	go s.runWorker(report.ID)

	return report.ID, nil
}

func (s *ReportService) runWorker(id string) {
	defer s.wg.Done()

	// Detached from the request: a triggered run proceeds to a terminal
	// state regardless of the caller. The pool acquire is the queue.
	ctx := context.Background()
	if err := s.pool.Acquire(ctx, 1); err != nil {
		s.fail(ctx, id, fmt.Errorf("acquire worker: %w", err))
		return
	}
	defer s.pool.Release(1)

	started := time.Now()
	err := s.run(ctx, id)
	metrics.EmitReportRun(s.metrics, metrics.ReportRunMetric{
		Result:   metrics.ResultFromErr(err),
		Duration: time.Since(started),
		Err:      err,
	})
	if err != nil {
		s.fail(ctx, id, err)
	}
}

func (s *ReportService) fail(ctx context.Context, id string, err error) {
	if s.logger != nil {
		s.logger.ErrorContext(ctx, "report run failed", "id", id, "error", err)
	}
	if markErr := s.repos.Reports.MarkError(ctx, id, err.Error()); markErr != nil && s.logger != nil {
		s.logger.ErrorContext(ctx, "mark report error failed", "id", id, "error", markErr)
	}
}

// run executes one full aggregation pass and moves the job to Complete.
func (s *ReportService) run(ctx context.Context, id string) error {
	now, err := s.repos.Observations.MaxTimestamp(ctx)
	if err != nil {
		return fmt.Errorf("resolve reference time: %w", err)
	}
	if now.IsZero() {
		return ErrNoObservations
	}

	dataset, err := s.loadDataset(ctx)
	if err != nil {
		return err
	}

	rows, err := s.computeRows(ctx, now, dataset)
	if err != nil {
		return err
	}

	artifact, err := export.BuildCSV(rows)
	if err != nil {
		return fmt.Errorf("build artifact: %w", err)
	}
	key := id + ".csv"
	if err := s.artifacts.Put(ctx, key, artifact); err != nil {
		return fmt.Errorf("store artifact: %w", err)
	}
	if err := s.repos.Reports.MarkComplete(ctx, id, key); err != nil {
		return fmt.Errorf("mark report complete: %w", err)
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "report complete",
			"id", id, "stores", len(rows), "reference_time", now)
	}
	return nil
}

// dataset is the read-only shared state of one run.
type dataset struct {
	storeIDs     []string
	hoursByStore map[string][]model.BusinessHourRule
	tzByStore    map[string]string
}

// loadDataset reads business hours and timezones once and resolves the
// union of store ids across observations and declared hours.
func (s *ReportService) loadDataset(ctx context.Context) (*dataset, error) {
	obsIDs, err := s.repos.Observations.DistinctStoreIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list observed stores: %w", err)
	}
	hourIDs, err := s.repos.BusinessHours.DistinctStoreIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list stores with hours: %w", err)
	}
	hoursByStore, err := s.repos.BusinessHours.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load business hours: %w", err)
	}
	tzByStore, err := s.repos.Timezones.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load timezones: %w", err)
	}

	seen := make(map[string]struct{}, len(obsIDs)+len(hourIDs))
	ids := make([]string, 0, len(obsIDs)+len(hourIDs))
	for _, list := range [][]string{obsIDs, hourIDs} {
		for _, id := range list {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	return &dataset{storeIDs: ids, hoursByStore: hoursByStore, tzByStore: tzByStore}, nil
}

// computeRows walks store batches, loading observations per batch and
// computing each store on a bounded errgroup. A single store's failure is
// isolated: the store is skipped with a log line and the run continues.
func (s *ReportService) computeRows(ctx context.Context, now time.Time, ds *dataset) ([]model.ReportRow, error) {
	since := now.Add(-schedule.WindowLastWeek.Span() - s.cfg.SeedLookback)
	locations := newLocationCache(s.fallback, s.logger)

	rows := make([]model.ReportRow, 0, len(ds.storeIDs))
	var mu sync.Mutex

	for start := 0; start < len(ds.storeIDs); start += s.cfg.StoreBatchSize {
		end := start + s.cfg.StoreBatchSize
		if end > len(ds.storeIDs) {
			end = len(ds.storeIDs)
		}
		batch := ds.storeIDs[start:end]

		obsByStore, err := s.repos.Observations.ListByStores(ctx, batch, since)
		if err != nil {
			return nil, fmt.Errorf("load observations: %w", err)
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.cfg.StoreParallelism)
		for _, storeID := range batch {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				row := s.computeStore(storeParams{
					storeID: storeID,
					now:     now,
					obs:     obsByStore[storeID],
					rules:   ds.hoursByStore[storeID],
					loc:     locations.load(ds.tzByStore[storeID], storeID),
				})
				if err := row.Validate(); err != nil {
					// Per-store failures never sink the run.
					if s.logger != nil {
						s.logger.WarnContext(gctx, "skipping store", "store_id", storeID, "error", err)
					}
					return nil
				}
				mu.Lock()
				rows = append(rows, row)
				mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].StoreID < rows[j].StoreID })
	return rows, nil
}

type storeParams struct {
	storeID string
	now     time.Time
	obs     []model.Observation
	rules   []model.BusinessHourRule
	loc     *time.Location
}

// computeStore resolves the three windows and extrapolates each one.
func (s *ReportService) computeStore(p storeParams) model.ReportRow {
	hours := schedule.NewHours(p.rules)
	row := model.ReportRow{StoreID: p.storeID}

	for _, w := range schedule.Windows {
		window := w.Range(p.now)
		business := schedule.BusinessIntervals(window, p.loc, hours)
		res := uptime.Compute(window, business, p.obs, s.cfg.Policy)

		switch w {
		case schedule.WindowLastHour:
			row.UptimeLastHour = res.UptimeMinutes
			row.DowntimeLastHour = res.DowntimeMinutes
		case schedule.WindowLastDay:
			row.UptimeLastDay = res.UptimeMinutes / 60
			row.DowntimeLastDay = res.DowntimeMinutes / 60
		case schedule.WindowLastWeek:
			row.UptimeLastWeek = res.UptimeMinutes / 60
			row.DowntimeLastWeek = res.DowntimeMinutes / 60
		}
	}
	return row
}

// PollResult is the outcome of polling a report job.
type PollResult struct {
	Status    model.ReportStatus
	Artifact  []byte
	LastError *string
}

// Get polls a job. Running and Error return status only; Complete carries
// the stored artifact bytes, byte-identical on every poll.
func (s *ReportService) Get(ctx context.Context, id string) (*PollResult, error) {
	report, err := s.repos.Reports.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	result := &PollResult{Status: report.Status, LastError: report.LastError}
	if report.Status != model.ReportStatusComplete {
		return result, nil
	}
	if report.ArtifactKey == nil {
		return nil, fmt.Errorf("report %s complete without artifact", id)
	}

	artifact, err := s.loadArtifact(ctx, *report.ArtifactKey)
	if err != nil {
		return nil, err
	}
	result.Artifact = artifact
	return result, nil
}

func (s *ReportService) loadArtifact(ctx context.Context, key string) ([]byte, error) {
	cacheKey := "report:artifact:" + key
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey); err == nil && cached != nil {
			return cached, nil
		}
	}

	artifact, err := s.artifacts.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load artifact %s: %w", key, err)
	}

	if s.cache != nil {
		// Best-effort: a cache failure never blocks the poll.
		_ = s.cache.Set(ctx, cacheKey, artifact, s.cfg.ArtifactCacheTTL)
	}
	return artifact, nil
}

// Wait blocks until all in-flight report runs reach a terminal state.
// Used during graceful shutdown.
func (s *ReportService) Wait() {
	s.wg.Wait()
}

// locationCache memoises timezone lookups for a run; stores overwhelmingly
// share a handful of zones.
type locationCache struct {
	fallback *time.Location
	logger   *slog.Logger
	mu       sync.Mutex
	byName   map[string]*time.Location
}

func newLocationCache(fallback *time.Location, logger *slog.Logger) *locationCache {
	return &locationCache{
		fallback: fallback,
		logger:   logger,
		byName:   make(map[string]*time.Location),
	}
}

// load resolves a zone name, falling back for missing or unresolvable
// zones. Both are data-quality conditions, logged and never fatal.
func (c *locationCache) load(name, storeID string) *time.Location {
	if name == "" {
		if c.logger != nil {
			c.logger.Debug("store missing timezone, using fallback",
				"store_id", storeID, "fallback", c.fallback.String())
		}
		return c.fallback
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if loc, ok := c.byName[name]; ok {
		return loc
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		if c.logger != nil {
			c.logger.Warn("unresolvable timezone, using fallback",
				"store_id", storeID, "timezone", name, "error", err)
		}
		loc = c.fallback
	}
	c.byName[name] = loc
	return loc
}
