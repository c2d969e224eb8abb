// Package core defines the port interfaces between the report services and
// their storage collaborators. Services depend on these interfaces, never
// on concrete repositories.
package core

import (
	"context"
	"time"

	"github.com/storewatch/uptime-api/internal/domain/model"
)

// ObservationRepository stores and queries sparse store status observations.
type ObservationRepository interface {
	// BulkInsert appends observations. Returns the number inserted.
	BulkInsert(ctx context.Context, observations []model.Observation) (int, error)
	// DistinctStoreIDs lists every store id with at least one observation.
	DistinctStoreIDs(ctx context.Context) ([]string, error)
	// MaxTimestamp returns the latest observed timestamp across all stores,
	// or the zero time when the table is empty.
	MaxTimestamp(ctx context.Context) (time.Time, error)
	// ListByStores loads observations at or after since for a batch of
	// stores in one query, grouped by store id and ordered by timestamp.
	ListByStores(ctx context.Context, storeIDs []string, since time.Time) (map[string][]model.Observation, error)
}

// BusinessHoursRepository stores per-weekday local open ranges.
type BusinessHoursRepository interface {
	BulkInsert(ctx context.Context, rules []model.BusinessHourRule) (int, error)
	// DistinctStoreIDs lists every store id with declared hours; the report
	// covers the union of this set and the observation set.
	DistinctStoreIDs(ctx context.Context) ([]string, error)
	// ListAll loads every rule grouped by store id.
	ListAll(ctx context.Context) (map[string][]model.BusinessHourRule, error)
}

// TimezoneRepository stores the store to IANA timezone mapping.
type TimezoneRepository interface {
	BulkInsert(ctx context.Context, zones []model.StoreTimezone) (int, error)
	// ListAll loads the full mapping keyed by store id.
	ListAll(ctx context.Context) (map[string]string, error)
}

// ReportRepository owns the report job state machine. Rows move exactly
// once from Running to Complete or Error; implementations must enforce the
// transition so a terminal row is never rewritten.
type ReportRepository interface {
	Create(ctx context.Context) (*model.Report, error)
	// GetByID returns model.ErrReportNotFound for unknown ids.
	GetByID(ctx context.Context, id string) (*model.Report, error)
	MarkComplete(ctx context.Context, id, artifactKey string) error
	MarkError(ctx context.Context, id, message string) error
}

// ArtifactStore persists completed report artifacts by key. A stored
// artifact is immutable.
type ArtifactStore interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
}

// CacheRepository is an optional byte cache fronting artifact reads.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) (bool, error)
}
