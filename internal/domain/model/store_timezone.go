package model

import (
	"fmt"
	"time"
)

// StoreTimezone maps a store to its IANA timezone identifier.
type StoreTimezone struct {
	StoreID  string `json:"store_id"     db:"store_id"`
	Timezone string `json:"timezone_str" db:"timezone_str"`
}

// Validate validates the StoreTimezone fields, including that the
// identifier resolves against the host tzdata.
func (s *StoreTimezone) Validate() error {
	if s.StoreID == "" {
		return fmt.Errorf("store_id is required")
	}
	if s.Timezone == "" {
		return fmt.Errorf("timezone_str is required")
	}
	if _, err := time.LoadLocation(s.Timezone); err != nil {
		return fmt.Errorf("unresolvable timezone %q: %w", s.Timezone, err)
	}
	return nil
}
