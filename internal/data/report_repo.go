package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/storewatch/uptime-api/internal/domain/model"
)

// ReportRepo owns the report job rows and their Running → terminal state
// machine. Terminal transitions are guarded in SQL so a Complete or Error
// row can never be rewritten, even by a misbehaving second writer.
type ReportRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
	logger       *slog.Logger
}

// ReportRepoOptions groups optional dependencies for ReportRepo.
type ReportRepoOptions struct {
	TimeProvider TimeProvider
	Logger       *slog.Logger
}

// NewReportRepo creates a new ReportRepo instance.
func NewReportRepo(db *sql.DB, opts ReportRepoOptions) *ReportRepo {
	tp := opts.TimeProvider
	if tp == nil {
		tp = &RealTimeProvider{}
	}
	return &ReportRepo{DB: db, timeProvider: tp, logger: opts.Logger}
}

const reportColumns = `id, status, artifact_key, last_error, created_at, updated_at`

// Create allocates a new report row in Running state and returns it.
func (r *ReportRepo) Create(ctx context.Context) (*model.Report, error) {
	id := uuid.NewString()
	now := r.timeProvider.Now().UTC()

	row := r.DB.QueryRowContext(ctx, `
		INSERT INTO reports (id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		RETURNING `+reportColumns,
		id, string(model.ReportStatusRunning), now,
	)
	report, err := scanReport(row)
	if err != nil {
		return nil, classifyPgError("create report", err)
	}

	if r.logger != nil {
		r.logger.InfoContext(ctx, "report created", "id", report.ID)
	}
	return report, nil
}

// GetByID returns the report row, or model.ErrReportNotFound.
func (r *ReportRepo) GetByID(ctx context.Context, id string) (*model.Report, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+reportColumns+` FROM reports WHERE id = $1`, id)
	report, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get report %s: %w", id, err)
	}
	return report, nil
}

// MarkComplete transitions a Running report to Complete, recording the
// artifact reference. It fails with ErrTerminalReport when the row already
// reached a terminal state, and ErrReportNotFound for unknown ids.
func (r *ReportRepo) MarkComplete(ctx context.Context, id, artifactKey string) error {
	return r.finish(ctx, finishParams{
		id:          id,
		status:      model.ReportStatusComplete,
		artifactKey: &artifactKey,
	})
}

// MarkError transitions a Running report to Error with a stored indication.
func (r *ReportRepo) MarkError(ctx context.Context, id, message string) error {
	return r.finish(ctx, finishParams{
		id:        id,
		status:    model.ReportStatusError,
		lastError: &message,
	})
}

type finishParams struct {
	id          string
	status      model.ReportStatus
	artifactKey *string
	lastError   *string
}

func (r *ReportRepo) finish(ctx context.Context, p finishParams) error {
	now := r.timeProvider.Now().UTC()

	// The status guard makes the Running → terminal transition
	// single-shot: only the worker that owns the Running row can win.
	res, err := r.DB.ExecContext(ctx, `
		UPDATE reports
		SET status = $2, artifact_key = $3, last_error = $4, updated_at = $5
		WHERE id = $1 AND status = $6`,
		p.id, string(p.status), p.artifactKey, p.lastError, now,
		string(model.ReportStatusRunning),
	)
	if err != nil {
		return classifyPgError("finish report", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish report %s: rows affected: %w", p.id, err)
	}
	if affected == 0 {
		if _, getErr := r.GetByID(ctx, p.id); getErr != nil {
			return getErr
		}
		return ErrTerminalReport
	}

	if r.logger != nil {
		r.logger.InfoContext(ctx, "report finished", "id", p.id, "status", p.status)
	}
	return nil
}

func scanReport(row *sql.Row) (*model.Report, error) {
	var report model.Report
	var status string
	if err := row.Scan(
		&report.ID, &status, &report.ArtifactKey, &report.LastError,
		&report.CreatedAt, &report.UpdatedAt,
	); err != nil {
		return nil, err
	}
	report.Status = model.ReportStatus(status)
	report.CreatedAt = report.CreatedAt.UTC()
	report.UpdatedAt = report.UpdatedAt.UTC()
	return &report, nil
}
