package uptime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storewatch/uptime-api/internal/domain/model"
	"github.com/storewatch/uptime-api/internal/domain/schedule"
)

func obsAt(ts time.Time, status model.StoreStatus) model.Observation {
	return model.Observation{StoreID: "store-1", Timestamp: ts, Status: status}
}

func fullWindow(start time.Time, span time.Duration) (schedule.Interval, []schedule.Interval) {
	window := schedule.Interval{Start: start, End: start.Add(span)}
	return window, []schedule.Interval{window}
}

func TestComputeNoBusinessHours(t *testing.T) {
	window := schedule.Interval{
		Start: time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC),
	}
	res := Compute(window, nil, []model.Observation{obsAt(window.Start, model.StatusActive)}, DefaultPolicy)
	assert.Zero(t, res.UptimeMinutes)
	assert.Zero(t, res.DowntimeMinutes)
}

func TestComputeNoObservations(t *testing.T) {
	window, business := fullWindow(time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), time.Hour)

	res := Compute(window, business, nil, DefaultPolicy)
	assert.InDelta(t, 60, res.UptimeMinutes, 1e-9)
	assert.Zero(t, res.DowntimeMinutes)

	down := Compute(window, business, nil, Policy{NoDataStatus: model.StatusInactive})
	assert.Zero(t, down.UptimeMinutes)
	assert.InDelta(t, 60, down.DowntimeMinutes, 1e-9)
}

func TestComputeStatusPersistsForward(t *testing.T) {
	window, business := fullWindow(time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), time.Hour)
	obs := []model.Observation{
		obsAt(window.Start, model.StatusActive),
		obsAt(window.Start.Add(45*time.Minute), model.StatusInactive),
	}

	res := Compute(window, business, obs, DefaultPolicy)
	assert.InDelta(t, 45, res.UptimeMinutes, 1e-9)
	assert.InDelta(t, 15, res.DowntimeMinutes, 1e-9)
}

func TestComputeStatusPersistsBackward(t *testing.T) {
	window, business := fullWindow(time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), time.Hour)
	// The only observation sits mid-window; its status also covers the
	// stretch before it since nothing earlier exists.
	obs := []model.Observation{obsAt(window.Start.Add(30*time.Minute), model.StatusInactive)}

	res := Compute(window, business, obs, DefaultPolicy)
	assert.Zero(t, res.UptimeMinutes)
	assert.InDelta(t, 60, res.DowntimeMinutes, 1e-9)
}

func TestComputeSeedsFromBeforeWindow(t *testing.T) {
	window, business := fullWindow(time.Date(2024, 1, 8, 12, 0, 0, 0, time.UTC), time.Hour)
	obs := []model.Observation{
		obsAt(window.Start.Add(-3*time.Hour), model.StatusActive),
		obsAt(window.Start.Add(-1*time.Hour), model.StatusInactive),
		obsAt(window.Start.Add(30*time.Minute), model.StatusActive),
	}

	res := Compute(window, business, obs, DefaultPolicy)
	assert.InDelta(t, 30, res.DowntimeMinutes, 1e-9)
	assert.InDelta(t, 30, res.UptimeMinutes, 1e-9)
}

func TestComputeIgnoresObservationsAfterWindow(t *testing.T) {
	window, business := fullWindow(time.Date(2024, 1, 8, 12, 0, 0, 0, time.UTC), time.Hour)
	obs := []model.Observation{
		obsAt(window.Start, model.StatusActive),
		obsAt(window.End.Add(time.Minute), model.StatusInactive),
	}

	res := Compute(window, business, obs, DefaultPolicy)
	assert.InDelta(t, 60, res.UptimeMinutes, 1e-9)
	assert.Zero(t, res.DowntimeMinutes)
}

func TestComputeUnorderedInput(t *testing.T) {
	window, business := fullWindow(time.Date(2024, 1, 8, 12, 0, 0, 0, time.UTC), time.Hour)
	obs := []model.Observation{
		obsAt(window.Start.Add(40*time.Minute), model.StatusActive),
		obsAt(window.Start, model.StatusActive),
		obsAt(window.Start.Add(20*time.Minute), model.StatusInactive),
	}

	res := Compute(window, business, obs, DefaultPolicy)
	assert.InDelta(t, 40, res.UptimeMinutes, 1e-9)
	assert.InDelta(t, 20, res.DowntimeMinutes, 1e-9)
}

func TestComputeLookbackBoundsSeeding(t *testing.T) {
	window, business := fullWindow(time.Date(2024, 1, 8, 12, 0, 0, 0, time.UTC), time.Hour)
	// The only observation sits beyond the lookback horizon, so the window
	// falls back to the no-data status.
	obs := []model.Observation{obsAt(window.Start.Add(-48*time.Hour), model.StatusInactive)}

	res := Compute(window, business, obs, Policy{NoDataStatus: model.StatusActive, Lookback: 24 * time.Hour})
	assert.InDelta(t, 60, res.UptimeMinutes, 1e-9)
	assert.Zero(t, res.DowntimeMinutes)
}

func TestComputeClipsToBusinessHours(t *testing.T) {
	chicago, err := time.LoadLocation("America/Chicago")
	require.NoError(t, err)

	// Monday 2024-01-08, open 09:00 to 17:00 local. The store goes down at
	// 16:00 local and stays down, so the open day splits 7h up, 1h down.
	rule := model.BusinessHourRule{
		StoreID:   "store-1",
		DayOfWeek: 0,
		StartTime: model.MinuteOfDay(9 * 60),
		EndTime:   model.MinuteOfDay(17 * 60),
	}
	hours := schedule.NewHours([]model.BusinessHourRule{rule})

	window := schedule.Interval{
		Start: time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC),
	}
	business := schedule.BusinessIntervals(window, chicago, hours)
	require.NotEmpty(t, business)

	obs := []model.Observation{
		obsAt(time.Date(2024, 1, 8, 14, 0, 0, 0, time.UTC), model.StatusActive),   // 08:00 local
		obsAt(time.Date(2024, 1, 8, 22, 0, 0, 0, time.UTC), model.StatusInactive), // 16:00 local
	}

	res := Compute(window, business, obs, DefaultPolicy)
	assert.InDelta(t, 7*60, res.UptimeMinutes, 1e-9)
	assert.InDelta(t, 60, res.DowntimeMinutes, 1e-9)
}
