package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MinutesPerDay is the number of minutes in one local calendar day.
const MinutesPerDay = 24 * 60

// BusinessHourRule declares one open range for a store on one weekday,
// in the store's local timezone. A store may carry zero rules (always
// open) or several rules per weekday.
type BusinessHourRule struct {
	StoreID   string      `json:"store_id"         db:"store_id"`
	DayOfWeek int         `json:"day_of_week"      db:"day_of_week"` // 0=Monday .. 6=Sunday
	StartTime MinuteOfDay `json:"start_time_local" db:"start_time_local"`
	EndTime   MinuteOfDay `json:"end_time_local"   db:"end_time_local"`
}

// Validate validates the BusinessHourRule fields.
func (r *BusinessHourRule) Validate() error {
	if r.StoreID == "" {
		return fmt.Errorf("store_id is required")
	}
	if r.DayOfWeek < 0 || r.DayOfWeek > 6 {
		return fmt.Errorf("day_of_week must be between 0 and 6, got %d", r.DayOfWeek)
	}
	if r.StartTime < 0 || r.StartTime > MinutesPerDay {
		return fmt.Errorf("start_time_local out of range: %d", r.StartTime)
	}
	if r.EndTime < 0 || r.EndTime > MinutesPerDay {
		return fmt.Errorf("end_time_local out of range: %d", r.EndTime)
	}
	return nil
}

// MinuteOfDay is a local wall-clock time expressed as minutes since
// midnight. An end time of 00:00 stays 0: it is an empty same-day range,
// never a roll into the following day.
type MinuteOfDay int

// ParseMinuteOfDay parses an "HH:MM" or "HH:MM:SS" local time string.
// Seconds are truncated to whole minutes to match the dataset resolution.
func ParseMinuteOfDay(s string) (MinuteOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("invalid local time %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q: %w", s, err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minute in %q: %w", s, err)
	}
	if h < 0 || h > 24 || m < 0 || m > 59 {
		return 0, fmt.Errorf("local time out of range: %q", s)
	}
	v := MinuteOfDay(h*60 + m)
	if v > MinutesPerDay {
		return 0, fmt.Errorf("local time out of range: %q", s)
	}
	return v, nil
}

// Duration converts the minute-of-day offset into a time.Duration from
// local midnight.
func (m MinuteOfDay) Duration() time.Duration {
	return time.Duration(m) * time.Minute
}

// String formats the minute-of-day back to HH:MM.
func (m MinuteOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(m)/60, int(m)%60)
}

// WeekdayToDayOfWeek converts Go's time.Weekday (Sunday=0) to the dataset's
// Monday=0..Sunday=6 convention.
func WeekdayToDayOfWeek(w time.Weekday) int {
	return (int(w) + 6) % 7
}
