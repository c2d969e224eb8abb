// Package data provides PostgreSQL-backed repositories for the storewatch
// report system.
package data

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/storewatch/uptime-api/internal/data/pgxutil"
	"github.com/storewatch/uptime-api/internal/domain/model"
)

// ObservationRepo provides database operations over store status observations.
type ObservationRepo struct {
	DB     *sql.DB
	logger *slog.Logger
}

// NewObservationRepo creates a new ObservationRepo instance.
func NewObservationRepo(db *sql.DB, logger *slog.Logger) *ObservationRepo {
	return &ObservationRepo{DB: db, logger: logger}
}

// BulkInsert appends observations via COPY. Rows are validated before the
// copy starts so a bad row fails the batch instead of poisoning it halfway.
func (r *ObservationRepo) BulkInsert(ctx context.Context, observations []model.Observation) (int, error) {
	if len(observations) == 0 {
		return 0, ErrEmptyBatch
	}
	for i := range observations {
		if err := observations[i].Validate(); err != nil {
			return 0, fmt.Errorf("observation %d: %w", i, err)
		}
	}

	var inserted int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		n, err := conn.CopyFrom(ctx,
			pgx.Identifier{"store_status"},
			[]string{"store_id", "timestamp_utc", "status"},
			pgx.CopyFromSlice(len(observations), func(i int) ([]any, error) {
				o := observations[i]
				return []any{o.StoreID, o.Timestamp.UTC(), string(o.Status)}, nil
			}),
		)
		inserted = n
		return err
	})
	if err != nil {
		return 0, classifyPgError("bulk insert observations", err)
	}

	if r.logger != nil {
		r.logger.DebugContext(ctx, "observations inserted", "count", inserted)
	}
	return int(inserted), nil
}

// DistinctStoreIDs lists every store id with at least one observation.
func (r *ObservationRepo) DistinctStoreIDs(ctx context.Context) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT DISTINCT store_id FROM store_status ORDER BY store_id`)
	if err != nil {
		return nil, fmt.Errorf("list distinct store ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan store id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate store ids: %w", err)
	}
	return ids, nil
}

// MaxTimestamp returns the latest observed timestamp, or the zero time when
// no observations exist.
func (r *ObservationRepo) MaxTimestamp(ctx context.Context) (time.Time, error) {
	var max sql.NullTime
	if err := r.DB.QueryRowContext(ctx,
		`SELECT MAX(timestamp_utc) FROM store_status`,
	).Scan(&max); err != nil {
		return time.Time{}, fmt.Errorf("max observation timestamp: %w", err)
	}
	if !max.Valid {
		return time.Time{}, nil
	}
	return max.Time.UTC(), nil
}

// ListByStores loads observations at or after since for a batch of store
// ids in a single query, grouped per store and ordered by timestamp. The
// caller shards the full store list into batches to bound memory.
func (r *ObservationRepo) ListByStores(
	ctx context.Context,
	storeIDs []string,
	since time.Time,
) (map[string][]model.Observation, error) {
	out := make(map[string][]model.Observation, len(storeIDs))
	if len(storeIDs) == 0 {
		return out, nil
	}

	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT store_id, timestamp_utc, status
			FROM store_status
			WHERE store_id = ANY($1) AND timestamp_utc >= $2
			ORDER BY store_id, timestamp_utc`,
			storeIDs, since.UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var o model.Observation
			var status string
			if err := rows.Scan(&o.StoreID, &o.Timestamp, &status); err != nil {
				return err
			}
			o.Timestamp = o.Timestamp.UTC()
			o.Status = model.StoreStatus(status)
			out[o.StoreID] = append(out[o.StoreID], o)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list observations by stores: %w", err)
	}
	return out, nil
}
