package data

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/storewatch/uptime-api/internal/data/pgxutil"
	"github.com/storewatch/uptime-api/internal/domain/model"
)

// TimezoneRepo provides database operations over the store timezone mapping.
type TimezoneRepo struct {
	DB     *sql.DB
	logger *slog.Logger
}

// NewTimezoneRepo creates a new TimezoneRepo instance.
func NewTimezoneRepo(db *sql.DB, logger *slog.Logger) *TimezoneRepo {
	return &TimezoneRepo{DB: db, logger: logger}
}

// BulkInsert upserts timezone mappings. The dataset keys one zone per
// store, so a repeated id simply takes the newest value.
func (r *TimezoneRepo) BulkInsert(ctx context.Context, zones []model.StoreTimezone) (int, error) {
	if len(zones) == 0 {
		return 0, ErrEmptyBatch
	}
	for i := range zones {
		if err := zones[i].Validate(); err != nil {
			return 0, fmt.Errorf("timezone %d: %w", i, err)
		}
	}

	var inserted int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		batch := &pgx.Batch{}
		for _, z := range zones {
			batch.Queue(`
				INSERT INTO store_timezones (store_id, timezone_str)
				VALUES ($1, $2)
				ON CONFLICT (store_id) DO UPDATE SET timezone_str = EXCLUDED.timezone_str`,
				z.StoreID, z.Timezone,
			)
		}
		results := conn.SendBatch(ctx, batch)
		defer func() {
			_ = results.Close()
		}()
		for range zones {
			tag, err := results.Exec()
			if err != nil {
				return err
			}
			inserted += tag.RowsAffected()
		}
		return nil
	})
	if err != nil {
		return 0, classifyPgError("bulk insert timezones", err)
	}

	if r.logger != nil {
		r.logger.DebugContext(ctx, "store timezones inserted", "count", inserted)
	}
	return int(inserted), nil
}

// ListAll loads the full store to timezone mapping.
func (r *TimezoneRepo) ListAll(ctx context.Context) (map[string]string, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT store_id, timezone_str FROM store_timezones`)
	if err != nil {
		return nil, fmt.Errorf("list timezones: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var id, tz string
		if err := rows.Scan(&id, &tz); err != nil {
			return nil, fmt.Errorf("scan timezone: %w", err)
		}
		out[id] = tz
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate timezones: %w", err)
	}
	return out, nil
}
