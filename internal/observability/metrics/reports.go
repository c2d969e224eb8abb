// Package metrics emits standardised metrics for the report pipeline.
package metrics

import (
	"time"

	obserrors "github.com/storewatch/uptime-api/internal/observability/errors"
	"github.com/storewatch/uptime-api/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// ResultFromErr maps a run outcome to its result tag.
func ResultFromErr(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultSuccess
}

// ReportRunMetric captures one report run for metric emission.
type ReportRunMetric struct {
	Result   string
	Duration time.Duration
	Err      error
}

// EmitReportRun emits run count and duration metrics for a report job.
func EmitReportRun(sink statsd.Sink, in ReportRunMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{"result": in.Result}
	if in.Err != nil && in.Result == ResultError {
		if class := obserrors.Classify(in.Err); class != "" {
			tags["error_class"] = class
		}
	}

	sink.Count("report.run", 1, tags)
	if in.Duration > 0 {
		sink.Timing("report.duration", in.Duration, CloneTags(tags))
	}
}

// EmitIngest emits row counts for one ingested dataset file.
func EmitIngest(sink statsd.Sink, dataset string, loaded, skipped int64) {
	if sink == nil {
		return
	}
	tags := map[string]string{"dataset": dataset}
	if loaded > 0 {
		sink.Count("ingest.rows", loaded, tags)
	}
	if skipped > 0 {
		sink.Count("ingest.skipped", skipped, CloneTags(tags))
	}
}

// CloneTags creates a shallow copy of a tag map.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
