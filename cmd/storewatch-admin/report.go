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
	"github.com/storewatch/uptime-api/internal/domain/model"
	"github.com/storewatch/uptime-api/internal/export"
)

type triggerOptions struct {
	Wait    bool
	Timeout time.Duration
}

func parseTriggerFlags(args []string) (triggerOptions, error) {
	fs := flag.NewFlagSet("trigger", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := triggerOptions{Timeout: defaultCommandTimeout}
	fs.BoolVar(&opts.Wait, "wait", true, "Wait for the run to reach a terminal state")
	fs.DurationVar(
		&opts.Timeout,
		"timeout",
		defaultCommandTimeout,
		"Maximum duration to wait for the run",
	)

	if err := fs.Parse(args); err != nil {
		return triggerOptions{}, err
	}
	if opts.Timeout <= 0 {
		return triggerOptions{}, errors.New("--timeout must be greater than zero")
	}
	return opts, nil
}

func runTriggerCommand(cmdCtx *commandContext, args []string) error {
	opts, err := parseTriggerFlags(args)
	if err != nil {
		return err
	}

	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		services, buildErr := bootstrap.BuildServices(bootstrap.ServicesConfig{
			DB:     db,
			Config: &cmdCtx.Config,
			Logger: cmdCtx.Logger,
		})
		if buildErr != nil {
			return buildErr
		}

		id, triggerErr := services.Reports.Trigger(ctx)
		if triggerErr != nil {
			return fmt.Errorf("trigger report: %w", triggerErr)
		}
		if writeErr := writef(os.Stdout, "Report triggered: %s\n", id); writeErr != nil {
			return writeErr
		}

		if !opts.Wait {
			return nil
		}

		services.Reports.Wait()
		result, pollErr := services.Reports.Get(ctx, id)
		if pollErr != nil {
			return fmt.Errorf("poll report: %w", pollErr)
		}

		if result.Status == model.ReportStatusError && result.LastError != nil {
			return writef(os.Stdout, "Report %s finished: %s (%s)\n", id, result.Status, *result.LastError)
		}
		return writef(os.Stdout, "Report %s finished: %s\n", id, result.Status)
	})
}

type pollOptions struct {
	ID      string
	Format  export.Format
	Out     string
	Timeout time.Duration
}

func parsePollFlags(args []string) (pollOptions, error) {
	fs := flag.NewFlagSet("poll", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := pollOptions{Timeout: time.Minute}
	var format string
	fs.StringVar(&opts.ID, "id", "", "Report id to poll (required)")
	fs.StringVar(&format, "format", "csv", "Artifact format: csv, xlsx, or pdf")
	fs.StringVar(&opts.Out, "out", "", "Output file (defaults to report.<format>)")
	fs.DurationVar(&opts.Timeout, "timeout", time.Minute, "Maximum duration for the poll")

	if err := fs.Parse(args); err != nil {
		return pollOptions{}, err
	}

	opts.ID = strings.TrimSpace(opts.ID)
	if opts.ID == "" {
		return pollOptions{}, errors.New("--id is required")
	}
	parsed, err := export.ParseFormat(format)
	if err != nil {
		return pollOptions{}, err
	}
	opts.Format = parsed
	if opts.Out == "" {
		opts.Out = parsed.Filename()
	}
	if opts.Timeout <= 0 {
		return pollOptions{}, errors.New("--timeout must be greater than zero")
	}
	return opts, nil
}

func runPollCommand(cmdCtx *commandContext, args []string) error {
	opts, err := parsePollFlags(args)
	if err != nil {
		return err
	}

	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		services, buildErr := bootstrap.BuildServices(bootstrap.ServicesConfig{
			DB:     db,
			Config: &cmdCtx.Config,
			Logger: cmdCtx.Logger,
		})
		if buildErr != nil {
			return buildErr
		}

		result, pollErr := services.Reports.Get(ctx, opts.ID)
		if pollErr != nil {
			return fmt.Errorf("poll report: %w", pollErr)
		}

		switch result.Status {
		case model.ReportStatusRunning:
			return writef(os.Stdout, "Report %s is still running\n", opts.ID)
		case model.ReportStatusError:
			msg := "unknown error"
			if result.LastError != nil {
				msg = *result.LastError
			}
			return writef(os.Stdout, "Report %s failed: %s\n", opts.ID, msg)
		}

		rendered, renderErr := export.Render(result.Artifact, opts.Format)
		if renderErr != nil {
			return fmt.Errorf("render artifact: %w", renderErr)
		}
		if writeErr := os.WriteFile(opts.Out, rendered, 0o644); writeErr != nil {
			return fmt.Errorf("write artifact: %w", writeErr)
		}
		return writef(os.Stdout, "Report %s written to %s\n", opts.ID, opts.Out)
	})
}
