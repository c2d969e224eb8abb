package testutil

import (
	"time"

	"github.com/storewatch/uptime-api/internal/domain/model"
)

// ObservationBuilder accumulates observations for one store relative to a
// reference time, keeping scenario setup readable.
type ObservationBuilder struct {
	storeID string
	ref     time.Time
	obs     []model.Observation
}

// NewObservationBuilder starts a builder anchored at the reference time.
func NewObservationBuilder(storeID string, ref time.Time) *ObservationBuilder {
	return &ObservationBuilder{storeID: storeID, ref: ref}
}

// At appends an observation offset from the reference time.
func (b *ObservationBuilder) At(offset time.Duration, status model.StoreStatus) *ObservationBuilder {
	b.obs = append(b.obs, model.Observation{
		StoreID:   b.storeID,
		Timestamp: b.ref.Add(offset),
		Status:    status,
	})
	return b
}

// Build returns the accumulated observations.
func (b *ObservationBuilder) Build() []model.Observation {
	return b.obs
}

// Rule builds a business hour rule from HH:MM local time strings. It
// panics on malformed input; test fixtures are expected to be well formed.
func Rule(storeID string, day int, start, end string) model.BusinessHourRule {
	s, err := model.ParseMinuteOfDay(start)
	if err != nil {
		panic(err)
	}
	e, err := model.ParseMinuteOfDay(end)
	if err != nil {
		panic(err)
	}
	return model.BusinessHourRule{
		StoreID:   storeID,
		DayOfWeek: day,
		StartTime: s,
		EndTime:   e,
	}
}

// WeekdayRules returns Monday..Friday rules with the same open range.
func WeekdayRules(storeID, start, end string) []model.BusinessHourRule {
	rules := make([]model.BusinessHourRule, 0, 5)
	for day := 0; day < 5; day++ {
		rules = append(rules, Rule(storeID, day, start, end))
	}
	return rules
}
