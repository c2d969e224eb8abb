package model

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ReportStatus represents the current status of an asynchronous report job.
type ReportStatus string

const (
	// ReportStatusRunning indicates the report computation is in flight.
	ReportStatusRunning ReportStatus = "Running"
	// ReportStatusComplete indicates the report finished and its artifact is stored.
	ReportStatusComplete ReportStatus = "Complete"
	// ReportStatusError indicates the report computation failed.
	ReportStatusError ReportStatus = "Error"
)

// Valid returns true if the ReportStatus is valid.
func (s ReportStatus) Valid() bool {
	return s == ReportStatusRunning || s == ReportStatusComplete || s == ReportStatusError
}

// Terminal returns true once the status can no longer change.
func (s ReportStatus) Terminal() bool {
	return s == ReportStatusComplete || s == ReportStatusError
}

// ErrReportNotFound is returned when a report id is unknown. Callers must
// keep this distinct from a failed report: an unknown id is never "Error".
var ErrReportNotFound = errors.New("report not found")

// Report is one asynchronous report computation. The row is created in
// Running state at trigger time and moves exactly once to Complete or
// Error; the transition is owned by the single worker running the job.
type Report struct {
	ID          string       `json:"id"                     db:"id"`
	Status      ReportStatus `json:"status"                 db:"status"`
	ArtifactKey *string      `json:"artifact_key,omitempty" db:"artifact_key"`
	LastError   *string      `json:"last_error,omitempty"   db:"last_error"`
	CreatedAt   time.Time    `json:"created_at"             db:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"             db:"updated_at"`
}

// ReportRow is one output line of a completed report: uptime and downtime
// for a single store across the three reporting windows. Hour-window values
// are minutes; day and week values are hours.
type ReportRow struct {
	StoreID          string  `json:"store_id"`
	UptimeLastHour   float64 `json:"uptime_last_hour"`
	UptimeLastDay    float64 `json:"uptime_last_day"`
	UptimeLastWeek   float64 `json:"uptime_last_week"`
	DowntimeLastHour float64 `json:"downtime_last_hour"`
	DowntimeLastDay  float64 `json:"downtime_last_day"`
	DowntimeLastWeek float64 `json:"downtime_last_week"`
}

// ReportColumns is the fixed artifact column order.
var ReportColumns = []string{
	"store_id",
	"uptime_last_hour",
	"uptime_last_day",
	"uptime_last_week",
	"downtime_last_hour",
	"downtime_last_day",
	"downtime_last_week",
}

// Validate validates the ReportRow fields at construction time.
func (r *ReportRow) Validate() error {
	if r.StoreID == "" {
		return errors.New("store_id is required")
	}
	for _, v := range []float64{
		r.UptimeLastHour, r.UptimeLastDay, r.UptimeLastWeek,
		r.DowntimeLastHour, r.DowntimeLastDay, r.DowntimeLastWeek,
	} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("report value out of range for store %s: %v", r.StoreID, v)
		}
	}
	return nil
}

// Values returns the row values in ReportColumns order, formatted for the
// artifact. Rounding happens here, at output formatting, not in the engine.
func (r *ReportRow) Values() []string {
	return []string{
		r.StoreID,
		formatMetric(r.UptimeLastHour),
		formatMetric(r.UptimeLastDay),
		formatMetric(r.UptimeLastWeek),
		formatMetric(r.DowntimeLastHour),
		formatMetric(r.DowntimeLastDay),
		formatMetric(r.DowntimeLastWeek),
	}
}

func formatMetric(v float64) string {
	// Two decimal places keeps sub-minute extrapolation visible without
	// leaking float noise into the artifact.
	return fmt.Sprintf("%.2f", v)
}
