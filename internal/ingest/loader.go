// Package ingest loads the store-monitoring dataset (a zip of CSV files)
// into the storage collaborators. Ingestion runs once, before any report
// can be triggered.
package ingest

import (
	"archive/zip"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/storewatch/uptime-api/internal/core"
	"github.com/storewatch/uptime-api/internal/domain/model"
)

// TimestampLayout matches the dataset's observation timestamps,
// e.g. "2023-01-24 09:06:42.605777 UTC".
const TimestampLayout = "2006-01-02 15:04:05.999999 UTC"

// defaultBatchSize bounds how many rows are buffered before a bulk insert.
const defaultBatchSize = 5000

// LoaderOptions groups dependencies for the Loader.
type LoaderOptions struct {
	Observations  core.ObservationRepository
	BusinessHours core.BusinessHoursRepository
	Timezones     core.TimezoneRepository
	Logger        *slog.Logger
	BatchSize     int
}

// Loader streams dataset CSVs into the repositories in bounded batches.
// Malformed rows are skipped and counted, never fatal.
type Loader struct {
	observations  core.ObservationRepository
	businessHours core.BusinessHoursRepository
	timezones     core.TimezoneRepository
	logger        *slog.Logger
	batchSize     int
}

// Summary reports what a load pass did.
type Summary struct {
	Observations  int
	BusinessHours int
	Timezones     int
	SkippedRows   int
}

// NewLoader constructs a Loader.
func NewLoader(opts LoaderOptions) *Loader {
	if opts.Observations == nil || opts.BusinessHours == nil || opts.Timezones == nil {
		panic("ingest.Loader requires all three repositories")
	}
	batch := opts.BatchSize
	if batch <= 0 {
		batch = defaultBatchSize
	}
	return &Loader{
		observations:  opts.Observations,
		businessHours: opts.BusinessHours,
		timezones:     opts.Timezones,
		logger:        opts.Logger,
		batchSize:     batch,
	}
}

// LoadZip ingests every recognised CSV inside the zip archive. File names
// decide the target table: store_status.csv, menu_hours.csv, timezones.csv.
func (l *Loader) LoadZip(ctx context.Context, path string) (*Summary, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset zip %s: %w", path, err)
	}
	defer func() {
		_ = zr.Close()
	}()

	summary := &Summary{}
	for _, f := range zr.File {
		name := strings.ToLower(f.Name)
		// macOS zips carry resource-fork shadow entries.
		if strings.HasPrefix(f.Name, "__MACOSX") || strings.HasPrefix(f.Name, "._") {
			continue
		}
		if !strings.HasSuffix(name, ".csv") {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s in zip: %w", f.Name, err)
		}
		err = l.loadCSV(ctx, name, rc, summary)
		_ = rc.Close()
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", f.Name, err)
		}
	}

	if l.logger != nil {
		l.logger.InfoContext(ctx, "dataset loaded",
			"observations", summary.Observations,
			"business_hours", summary.BusinessHours,
			"timezones", summary.Timezones,
			"skipped_rows", summary.SkippedRows,
		)
	}
	return summary, nil
}

func (l *Loader) loadCSV(ctx context.Context, name string, r io.Reader, summary *Summary) error {
	switch {
	case strings.Contains(name, "store_status"):
		return l.loadObservations(ctx, r, summary)
	case strings.Contains(name, "menu_hours") || strings.Contains(name, "business_hours"):
		return l.loadBusinessHours(ctx, r, summary)
	case strings.Contains(name, "timezones"):
		return l.loadTimezones(ctx, r, summary)
	default:
		if l.logger != nil {
			l.logger.Warn("skipping unrecognised dataset file", "file", name)
		}
		return nil
	}
}

func (l *Loader) loadObservations(ctx context.Context, r io.Reader, summary *Summary) error {
	rows, err := newRowReader(r)
	if err != nil {
		return err
	}

	batch := make([]model.Observation, 0, l.batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := l.observations.BulkInsert(ctx, batch)
		if err != nil {
			return err
		}
		summary.Observations += n
		batch = batch[:0]
		return nil
	}

	for {
		rec, err := rows.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		obs, parseErr := parseObservation(rec)
		if parseErr != nil {
			l.skipRow(ctx, summary, "store_status", parseErr)
			continue
		}
		batch = append(batch, obs)
		if len(batch) >= l.batchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	return flush()
}

func parseObservation(rec record) (model.Observation, error) {
	var obs model.Observation
	obs.StoreID = rec.get("store_id")

	ts, err := time.Parse(TimestampLayout, rec.get("timestamp_utc"))
	if err != nil {
		return obs, fmt.Errorf("parse timestamp: %w", err)
	}
	obs.Timestamp = ts.UTC()

	if err := obs.Status.UnmarshalText([]byte(rec.get("status"))); err != nil {
		return obs, err
	}
	return obs, obs.Validate()
}

func (l *Loader) loadBusinessHours(ctx context.Context, r io.Reader, summary *Summary) error {
	rows, err := newRowReader(r)
	if err != nil {
		return err
	}

	batch := make([]model.BusinessHourRule, 0, l.batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := l.businessHours.BulkInsert(ctx, batch)
		if err != nil {
			return err
		}
		summary.BusinessHours += n
		batch = batch[:0]
		return nil
	}

	for {
		rec, err := rows.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		rule, parseErr := parseBusinessHourRule(rec)
		if parseErr != nil {
			l.skipRow(ctx, summary, "menu_hours", parseErr)
			continue
		}
		batch = append(batch, rule)
		if len(batch) >= l.batchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	return flush()
}

func parseBusinessHourRule(rec record) (model.BusinessHourRule, error) {
	var rule model.BusinessHourRule
	rule.StoreID = rec.get("store_id")

	// The source column is "dayOfWeek" and sometimes carries a float
	// rendering like "1.0".
	dayStr := rec.get("dayofweek")
	if dayStr == "" {
		dayStr = rec.get("day_of_week")
	}
	day, err := strconv.ParseFloat(dayStr, 64)
	if err != nil {
		return rule, fmt.Errorf("parse dayOfWeek %q: %w", dayStr, err)
	}
	rule.DayOfWeek = int(day)

	if rule.StartTime, err = model.ParseMinuteOfDay(rec.get("start_time_local")); err != nil {
		return rule, err
	}
	if rule.EndTime, err = model.ParseMinuteOfDay(rec.get("end_time_local")); err != nil {
		return rule, err
	}
	return rule, rule.Validate()
}

func (l *Loader) loadTimezones(ctx context.Context, r io.Reader, summary *Summary) error {
	rows, err := newRowReader(r)
	if err != nil {
		return err
	}

	batch := make([]model.StoreTimezone, 0, l.batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := l.timezones.BulkInsert(ctx, batch)
		if err != nil {
			return err
		}
		summary.Timezones += n
		batch = batch[:0]
		return nil
	}

	for {
		rec, err := rows.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		zone := model.StoreTimezone{
			StoreID:  rec.get("store_id"),
			Timezone: rec.get("timezone_str"),
		}
		if parseErr := zone.Validate(); parseErr != nil {
			l.skipRow(ctx, summary, "timezones", parseErr)
			continue
		}
		batch = append(batch, zone)
		if len(batch) >= l.batchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	return flush()
}

func (l *Loader) skipRow(ctx context.Context, summary *Summary, file string, err error) {
	summary.SkippedRows++
	if l.logger != nil {
		l.logger.WarnContext(ctx, "skipping malformed dataset row", "file", file, "error", err)
	}
}

// record is one CSV row with header-keyed access.
type record struct {
	header map[string]int
	fields []string
}

func (r record) get(key string) string {
	idx, ok := r.header[key]
	if !ok || idx >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[idx])
}

type rowReader struct {
	csv    *csv.Reader
	header map[string]int
}

// newRowReader wraps a CSV stream, normalising the header row. Raw input
// may carry a UTF-8 BOM and stray NUL bytes (the dataset does).
func newRowReader(r io.Reader) (*rowReader, error) {
	cr := csv.NewReader(&sanitizingReader{r: r})
	cr.FieldsPerRecord = -1

	head, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	header := make(map[string]int, len(head))
	for i, col := range head {
		col = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\uFEFF")))
		header[col] = i
	}
	return &rowReader{csv: cr, header: header}, nil
}

func (rr *rowReader) next() (record, error) {
	fields, err := rr.csv.Read()
	if err != nil {
		return record{}, err
	}
	return record{header: rr.header, fields: fields}, nil
}

// sanitizingReader strips NUL bytes from the stream before CSV parsing.
type sanitizingReader struct {
	r io.Reader
}

func (s *sanitizingReader) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	if n == 0 {
		return n, err
	}
	kept := 0
	for i := 0; i < n; i++ {
		if p[i] == 0 {
			continue
		}
		p[kept] = p[i]
		kept++
	}
	return kept, err
}
