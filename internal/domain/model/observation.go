// Package model defines the core data types and structures used throughout the storewatch report system.
package model

import (
	"fmt"
	"strings"
	"time"
)

// StoreStatus represents the observed status of a store at a point in time.
//
//nolint:recvcheck // UnmarshalText needs pointer receiver, Valid needs value receiver
type StoreStatus string

const (
	// StatusActive indicates the store was observed online.
	StatusActive StoreStatus = "active"
	// StatusInactive indicates the store was observed offline.
	StatusInactive StoreStatus = "inactive"
)

// Valid returns true if the StoreStatus is valid.
func (s StoreStatus) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// UnmarshalText implements encoding.TextUnmarshaler for StoreStatus to allow env and CSV parsing.
func (s *StoreStatus) UnmarshalText(text []byte) error {
	v := StoreStatus(strings.ToLower(strings.TrimSpace(string(text))))
	if !v.Valid() {
		return fmt.Errorf("invalid StoreStatus: %q", v)
	}
	*s = v
	return nil
}

// Observation is a single sparse poll of a store's status. Observations are
// immutable and append-only; arrival order on disk carries no meaning.
type Observation struct {
	StoreID   string      `json:"store_id"      db:"store_id"`
	Timestamp time.Time   `json:"timestamp_utc" db:"timestamp_utc"`
	Status    StoreStatus `json:"status"        db:"status"`
}

// Validate validates the Observation fields.
func (o *Observation) Validate() error {
	if o.StoreID == "" {
		return fmt.Errorf("store_id is required")
	}
	if o.Timestamp.IsZero() {
		return fmt.Errorf("timestamp_utc is required")
	}
	if !o.Status.Valid() {
		return fmt.Errorf("invalid status %q", o.Status)
	}
	return nil
}
