// Package schedule resolves reporting ranges against per-store local
// business hours, producing the UTC sub-intervals a store was open.
package schedule

import (
	"sort"
	"time"

	"github.com/storewatch/uptime-api/internal/domain/model"
)

// Window identifies one of the three reporting windows.
type Window string

const (
	// WindowLastHour covers [now-1h, now].
	WindowLastHour Window = "last_hour"
	// WindowLastDay covers [now-24h, now].
	WindowLastDay Window = "last_day"
	// WindowLastWeek covers [now-7d, now].
	WindowLastWeek Window = "last_week"
)

// Span returns the window length.
func (w Window) Span() time.Duration {
	switch w {
	case WindowLastHour:
		return time.Hour
	case WindowLastDay:
		return 24 * time.Hour
	case WindowLastWeek:
		return 7 * 24 * time.Hour
	default:
		return 0
	}
}

// Windows lists the reporting windows in artifact column order.
var Windows = []Window{WindowLastHour, WindowLastDay, WindowLastWeek}

// Interval is a half-open UTC time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Range builds the window's UTC interval ending at the reference instant.
func (w Window) Range(now time.Time) Interval {
	return Interval{Start: now.Add(-w.Span()), End: now}
}

// Empty reports whether the interval contains no time.
func (iv Interval) Empty() bool {
	return !iv.End.After(iv.Start)
}

// Minutes returns the interval length in fractional minutes.
func (iv Interval) Minutes() float64 {
	if iv.Empty() {
		return 0
	}
	return iv.End.Sub(iv.Start).Minutes()
}

// Clip intersects the interval with bounds, returning a possibly empty result.
func (iv Interval) Clip(bounds Interval) Interval {
	out := iv
	if bounds.Start.After(out.Start) {
		out.Start = bounds.Start
	}
	if bounds.End.Before(out.End) {
		out.End = bounds.End
	}
	return out
}

type daySpan struct {
	start model.MinuteOfDay
	end   model.MinuteOfDay
}

// Hours holds a store's open ranges indexed by weekday (Monday=0). A store
// with no rules at all is always open; a weekday without rules on a store
// that has rules elsewhere is closed that day.
type Hours struct {
	byDay      map[int][]daySpan
	alwaysOpen bool
}

// NewHours builds an Hours lookup from a store's rules. Overlapping rules
// on the same day are unioned best-effort rather than rejected.
func NewHours(rules []model.BusinessHourRule) *Hours {
	if len(rules) == 0 {
		return &Hours{alwaysOpen: true}
	}
	byDay := make(map[int][]daySpan)
	for _, r := range rules {
		if r.DayOfWeek < 0 || r.DayOfWeek > 6 || r.EndTime <= r.StartTime {
			// Malformed rule data is a per-store data-quality condition,
			// never a crash. An end at or before the start contributes no
			// open time (00:00 ends are same-day, not next-day).
			continue
		}
		byDay[r.DayOfWeek] = append(byDay[r.DayOfWeek], daySpan{start: r.StartTime, end: r.EndTime})
	}
	for day, spans := range byDay {
		byDay[day] = unionSpans(spans)
	}
	return &Hours{byDay: byDay}
}

// AlwaysOpen reports whether the store carries no rules at all.
func (h *Hours) AlwaysOpen() bool {
	return h.alwaysOpen
}

func (h *Hours) spansFor(day int) []daySpan {
	if h.alwaysOpen {
		return []daySpan{{start: 0, end: model.MinutesPerDay}}
	}
	return h.byDay[day]
}

// unionSpans merges overlapping or touching spans into a sorted disjoint set.
func unionSpans(spans []daySpan) []daySpan {
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	out := spans[:1]
	for _, s := range spans[1:] {
		last := &out[len(out)-1]
		if s.start <= last.end {
			if s.end > last.end {
				last.end = s.end
			}
			continue
		}
		out = append(out, s)
	}
	return out
}

// BusinessIntervals resolves the portion of the UTC range that falls inside
// the store's open hours, expressed back in UTC. It walks every local
// calendar day touched by the range, intersects that day's open spans with
// the clipped range, and converts each sub-interval to UTC. Results are
// ordered and disjoint.
func BusinessIntervals(utcRange Interval, loc *time.Location, hours *Hours) []Interval {
	if utcRange.Empty() {
		return nil
	}
	if loc == nil {
		loc = time.UTC
	}

	var out []Interval
	localStart := utcRange.Start.In(loc)
	day := time.Date(localStart.Year(), localStart.Month(), localStart.Day(), 0, 0, 0, 0, loc)
	for day.Before(utcRange.End.In(loc)) {
		dow := model.WeekdayToDayOfWeek(day.Weekday())
		for _, span := range hours.spansFor(dow) {
			// time.Date normalises minute offsets across DST transitions,
			// so open spans keep their local wall-clock meaning.
			open := Interval{
				Start: time.Date(day.Year(), day.Month(), day.Day(), 0, int(span.start), 0, 0, loc).UTC(),
				End:   time.Date(day.Year(), day.Month(), day.Day(), 0, int(span.end), 0, 0, loc).UTC(),
			}
			if clipped := open.Clip(utcRange); !clipped.Empty() {
				out = append(out, clipped)
			}
		}
		day = day.AddDate(0, 0, 1)
	}
	return out
}

// TotalMinutes sums the lengths of a resolved interval set.
func TotalMinutes(intervals []Interval) float64 {
	var total float64
	for _, iv := range intervals {
		total += iv.Minutes()
	}
	return total
}
