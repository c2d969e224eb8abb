package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedMetric struct {
	name  string
	value int64
	tags  map[string]string
}

type recordingSink struct {
	counts  []recordedMetric
	timings []string
}

func (r *recordingSink) Count(name string, value int64, tags map[string]string) {
	r.counts = append(r.counts, recordedMetric{name: name, value: value, tags: tags})
}

func (r *recordingSink) Gauge(string, float64, map[string]string) {}

func (r *recordingSink) Timing(name string, _ time.Duration, _ map[string]string) {
	r.timings = append(r.timings, name)
}

func TestResultFromErr(t *testing.T) {
	assert.Equal(t, ResultSuccess, ResultFromErr(nil))
	assert.Equal(t, ResultError, ResultFromErr(errors.New("boom")))
}

func TestEmitReportRun(t *testing.T) {
	sink := &recordingSink{}
	EmitReportRun(sink, ReportRunMetric{Result: ResultSuccess, Duration: time.Second})

	require.Len(t, sink.counts, 1)
	assert.Equal(t, "report.run", sink.counts[0].name)
	assert.Equal(t, ResultSuccess, sink.counts[0].tags["result"])
	assert.Equal(t, []string{"report.duration"}, sink.timings)
}

func TestEmitReportRunTagsErrorClass(t *testing.T) {
	sink := &recordingSink{}
	EmitReportRun(sink, ReportRunMetric{Result: ResultError, Err: errors.New("boom")})

	require.Len(t, sink.counts, 1)
	assert.Equal(t, ResultError, sink.counts[0].tags["result"])
	assert.NotEmpty(t, sink.counts[0].tags["error_class"])
	// Zero duration emits no timing.
	assert.Empty(t, sink.timings)
}

func TestEmitReportRunNilSink(t *testing.T) {
	// Must not panic.
	EmitReportRun(nil, ReportRunMetric{Result: ResultSuccess})
	EmitIngest(nil, "store_status", 1, 0)
}

func TestEmitIngest(t *testing.T) {
	sink := &recordingSink{}
	EmitIngest(sink, "store_status", 120, 3)

	require.Len(t, sink.counts, 2)
	assert.Equal(t, "ingest.rows", sink.counts[0].name)
	assert.Equal(t, int64(120), sink.counts[0].value)
	assert.Equal(t, "store_status", sink.counts[0].tags["dataset"])
	assert.Equal(t, "ingest.skipped", sink.counts[1].name)
	assert.Equal(t, int64(3), sink.counts[1].value)
}

func TestEmitIngestSkippedOnly(t *testing.T) {
	sink := &recordingSink{}
	EmitIngest(sink, "all", 0, 5)

	require.Len(t, sink.counts, 1)
	assert.Equal(t, "ingest.skipped", sink.counts[0].name)
}
