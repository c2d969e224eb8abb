package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/storewatch/uptime-api/internal/bootstrap"
	"github.com/storewatch/uptime-api/internal/data"
	"github.com/storewatch/uptime-api/internal/ingest"
	"github.com/storewatch/uptime-api/internal/observability/metrics"
	"github.com/storewatch/uptime-api/internal/observability/statsd"
)

type ingestOptions struct {
	ZipPath   string
	BatchSize int
	Timeout   time.Duration
}

func parseIngestFlags(args []string) (ingestOptions, error) {
	fs := flag.NewFlagSet("ingest", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := ingestOptions{Timeout: defaultCommandTimeout}
	fs.StringVar(&opts.ZipPath, "zip", "", "Path to the dataset zip archive (required)")
	fs.IntVar(&opts.BatchSize, "batch-size", 0, "Rows per bulk insert (0 uses the default)")
	fs.DurationVar(
		&opts.Timeout,
		"timeout",
		defaultCommandTimeout,
		"Maximum duration to wait for the load to complete",
	)

	if err := fs.Parse(args); err != nil {
		return ingestOptions{}, err
	}

	opts.ZipPath = strings.TrimSpace(opts.ZipPath)
	if opts.ZipPath == "" {
		return ingestOptions{}, errors.New("--zip is required")
	}
	if opts.Timeout <= 0 {
		return ingestOptions{}, errors.New("--timeout must be greater than zero")
	}

	return opts, nil
}

func runIngestCommand(cmdCtx *commandContext, args []string) error {
	opts, err := parseIngestFlags(args)
	if err != nil {
		return err
	}

	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		cmdCtx.Logger.Info("ensuring database migrations are current")
		if migrateErr := bootstrap.RunMigrations(ctx, db, cmdCtx.Logger); migrateErr != nil {
			return fmt.Errorf("run migrations: %w", migrateErr)
		}

		loader := ingest.NewLoader(ingest.LoaderOptions{
			Observations:  data.NewObservationRepo(db, cmdCtx.Logger),
			BusinessHours: data.NewBusinessHoursRepo(db, cmdCtx.Logger),
			Timezones:     data.NewTimezoneRepo(db, cmdCtx.Logger),
			Logger:        cmdCtx.Logger,
			BatchSize:     opts.BatchSize,
		})

		cmdCtx.Logger.Info("loading dataset", "zip", opts.ZipPath)
		summary, loadErr := loader.LoadZip(ctx, opts.ZipPath)
		if loadErr != nil {
			return fmt.Errorf("load dataset: %w", loadErr)
		}

		emitIngestMetrics(cmdCtx, summary)

		return writef(os.Stdout,
			"Loaded %d observations, %d business hour rules, %d timezones (%d rows skipped)\n",
			summary.Observations, summary.BusinessHours, summary.Timezones, summary.SkippedRows)
	})
}

func emitIngestMetrics(cmdCtx *commandContext, summary *ingest.Summary) {
	metricsCfg := cmdCtx.Config.Observability.Metrics
	if !metricsCfg.IsEnabled() {
		return
	}

	sink, err := statsd.NewClient(statsd.Config{
		Enabled: true,
		Address: metricsCfg.StatsdAddress,
		Prefix:  "storewatch",
		Logger:  cmdCtx.Logger,
	})
	if err != nil {
		cmdCtx.Logger.Warn("statsd unavailable, skipping ingest metrics", "error", err)
		return
	}
	defer func() {
		if cerr := sink.Close(); cerr != nil {
			cmdCtx.Logger.Warn("close statsd client failed", "error", cerr)
		}
	}()

	metrics.EmitIngest(sink, "store_status", int64(summary.Observations), 0)
	metrics.EmitIngest(sink, "menu_hours", int64(summary.BusinessHours), 0)
	metrics.EmitIngest(sink, "timezones", int64(summary.Timezones), 0)
	metrics.EmitIngest(sink, "all", 0, int64(summary.SkippedRows))
}
