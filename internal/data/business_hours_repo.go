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

// BusinessHoursRepo provides database operations over per-weekday open ranges.
type BusinessHoursRepo struct {
	DB     *sql.DB
	logger *slog.Logger
}

// NewBusinessHoursRepo creates a new BusinessHoursRepo instance.
func NewBusinessHoursRepo(db *sql.DB, logger *slog.Logger) *BusinessHoursRepo {
	return &BusinessHoursRepo{DB: db, logger: logger}
}

// BulkInsert appends business-hour rules via COPY.
func (r *BusinessHoursRepo) BulkInsert(ctx context.Context, rules []model.BusinessHourRule) (int, error) {
	if len(rules) == 0 {
		return 0, ErrEmptyBatch
	}
	for i := range rules {
		if err := rules[i].Validate(); err != nil {
			return 0, fmt.Errorf("rule %d: %w", i, err)
		}
	}

	var inserted int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		n, err := conn.CopyFrom(ctx,
			pgx.Identifier{"business_hours"},
			[]string{"store_id", "day_of_week", "start_minute", "end_minute"},
			pgx.CopyFromSlice(len(rules), func(i int) ([]any, error) {
				rule := rules[i]
				return []any{rule.StoreID, rule.DayOfWeek, int(rule.StartTime), int(rule.EndTime)}, nil
			}),
		)
		inserted = n
		return err
	})
	if err != nil {
		return 0, classifyPgError("bulk insert business hours", err)
	}

	if r.logger != nil {
		r.logger.DebugContext(ctx, "business hour rules inserted", "count", inserted)
	}
	return int(inserted), nil
}

// DistinctStoreIDs lists every store id with declared hours.
func (r *BusinessHoursRepo) DistinctStoreIDs(ctx context.Context) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT DISTINCT store_id FROM business_hours ORDER BY store_id`)
	if err != nil {
		return nil, fmt.Errorf("list distinct business hour store ids: %w", err)
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

// ListAll loads every rule grouped by store id. The whole table is read
// once per report run rather than once per store.
func (r *BusinessHoursRepo) ListAll(ctx context.Context) (map[string][]model.BusinessHourRule, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT store_id, day_of_week, start_minute, end_minute
		FROM business_hours
		ORDER BY store_id, day_of_week, start_minute`)
	if err != nil {
		return nil, fmt.Errorf("list business hours: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]model.BusinessHourRule)
	for rows.Next() {
		var rule model.BusinessHourRule
		var start, end int
		if err := rows.Scan(&rule.StoreID, &rule.DayOfWeek, &start, &end); err != nil {
			return nil, fmt.Errorf("scan business hour rule: %w", err)
		}
		rule.StartTime = model.MinuteOfDay(start)
		rule.EndTime = model.MinuteOfDay(end)
		out[rule.StoreID] = append(out[rule.StoreID], rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate business hours: %w", err)
	}
	return out, nil
}
