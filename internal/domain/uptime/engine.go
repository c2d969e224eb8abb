// Package uptime extrapolates a store's sparse status observations into
// uptime and downtime minutes inside its business hours.
package uptime

import (
	"sort"
	"time"

	"github.com/storewatch/uptime-api/internal/domain/model"
	"github.com/storewatch/uptime-api/internal/domain/schedule"
)

// Policy holds the business-policy defaults baked into the engine. They are
// explicit so tests can assert on them and future changes stay localised.
type Policy struct {
	// NoDataStatus is the status assumed for a window with no usable
	// observations at all. Assuming active treats silence as uptime.
	NoDataStatus model.StoreStatus

	// Lookback bounds how far before the window start a seeding
	// observation may sit. Zero or negative means unbounded.
	Lookback time.Duration
}

// DefaultPolicy mirrors the documented approximation: a store with no
// observations is reported fully active, and any earlier observation may
// seed the window's starting status.
var DefaultPolicy = Policy{
	NoDataStatus: model.StatusActive,
	Lookback:     0,
}

// Result holds accumulated minutes for one window.
type Result struct {
	UptimeMinutes   float64
	DowntimeMinutes float64
}

func (r *Result) add(status model.StoreStatus, minutes float64) {
	if minutes <= 0 {
		return
	}
	if status == model.StatusActive {
		r.UptimeMinutes += minutes
	} else {
		r.DowntimeMinutes += minutes
	}
}

type segment struct {
	interval schedule.Interval
	status   model.StoreStatus
}

// Compute extrapolates the store's status across one reporting window and
// accumulates uptime/downtime minutes within the resolved business
// intervals. Observations may include points before the window start; the
// latest of those seeds the status at the window boundary. Status is
// piecewise-constant: each observation's status persists until the next
// observation, and the last observation persists to the window end.
func Compute(
	window schedule.Interval,
	business []schedule.Interval,
	observations []model.Observation,
	policy Policy,
) Result {
	var res Result
	if len(business) == 0 {
		return res
	}

	obs := usable(window, observations, policy)
	if len(obs) == 0 {
		res.add(policy.NoDataStatus, schedule.TotalMinutes(business))
		return res
	}

	for _, seg := range timeline(window, obs) {
		for _, open := range business {
			res.add(seg.status, open.Clip(seg.interval).Minutes())
		}
	}
	return res
}

// usable filters to observations that can inform the window and returns
// them in ascending timestamp order. Input order carries no meaning.
func usable(window schedule.Interval, observations []model.Observation, policy Policy) []model.Observation {
	horizon := time.Time{}
	if policy.Lookback > 0 {
		horizon = window.Start.Add(-policy.Lookback)
	}

	obs := make([]model.Observation, 0, len(observations))
	for _, o := range observations {
		if o.Timestamp.After(window.End) {
			continue
		}
		if !horizon.IsZero() && o.Timestamp.Before(horizon) {
			continue
		}
		obs = append(obs, o)
	}
	sort.Slice(obs, func(i, j int) bool { return obs[i].Timestamp.Before(obs[j].Timestamp) })
	return obs
}

// timeline converts sorted observations into contiguous status segments
// covering the whole window. The earliest observation also persists
// backward when nothing precedes the window start.
func timeline(window schedule.Interval, obs []model.Observation) []segment {
	segments := make([]segment, 0, len(obs)+1)

	cursor := window.Start
	status := obs[0].Status // backward persistence when no earlier point exists
	for _, o := range obs {
		if !o.Timestamp.After(window.Start) {
			// Observation at or before the window start seeds the
			// boundary status; it opens no segment of its own.
			status = o.Status
			continue
		}
		segments = append(segments, segment{
			interval: schedule.Interval{Start: cursor, End: o.Timestamp},
			status:   status,
		})
		cursor = o.Timestamp
		status = o.Status
	}
	if cursor.Before(window.End) {
		segments = append(segments, segment{
			interval: schedule.Interval{Start: cursor, End: window.End},
			status:   status,
		})
	}
	return segments
}
