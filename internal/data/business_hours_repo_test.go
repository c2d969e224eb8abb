package data_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storewatch/uptime-api/internal/data"
	"github.com/storewatch/uptime-api/internal/domain/model"
	"github.com/storewatch/uptime-api/internal/testutil"
)

func TestBusinessHoursRepoBulkInsertAndListAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	repo := data.NewBusinessHoursRepo(db, nil)
	ctx := context.Background()

	rules := testutil.WeekdayRules("store-1", "09:00", "17:00")
	rules = append(rules, testutil.Rule("store-2", 5, "10:00", "14:00"))

	n, err := repo.BulkInsert(ctx, rules)
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	ids, err := repo.DistinctStoreIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"store-1", "store-2"}, ids)

	byStore, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, byStore, 2)
	require.Len(t, byStore["store-1"], 5)
	assert.Equal(t, 0, byStore["store-1"][0].DayOfWeek)
	assert.Equal(t, model.MinuteOfDay(9*60), byStore["store-1"][0].StartTime)
	assert.Equal(t, model.MinuteOfDay(17*60), byStore["store-1"][0].EndTime)
	require.Len(t, byStore["store-2"], 1)
	assert.Equal(t, 5, byStore["store-2"][0].DayOfWeek)
}

func TestBusinessHoursRepoRejectsInvalidRule(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	repo := data.NewBusinessHoursRepo(db, nil)
	ctx := context.Background()

	_, err := repo.BulkInsert(ctx, nil)
	require.ErrorIs(t, err, data.ErrEmptyBatch)

	bad := testutil.Rule("store-1", 0, "09:00", "17:00")
	bad.DayOfWeek = 9
	_, err = repo.BulkInsert(ctx, []model.BusinessHourRule{bad})
	require.Error(t, err)
}

func TestTimezoneRepoUpsert(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	repo := data.NewTimezoneRepo(db, nil)
	ctx := context.Background()

	n, err := repo.BulkInsert(ctx, []model.StoreTimezone{
		{StoreID: "store-1", Timezone: "America/Chicago"},
		{StoreID: "store-2", Timezone: "America/New_York"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Re-ingesting a store replaces its mapping instead of failing.
	_, err = repo.BulkInsert(ctx, []model.StoreTimezone{
		{StoreID: "store-1", Timezone: "America/Denver"},
	})
	require.NoError(t, err)

	zones, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"store-1": "America/Denver",
		"store-2": "America/New_York",
	}, zones)
}

func TestTimezoneRepoRejectsUnresolvableZone(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	repo := data.NewTimezoneRepo(db, nil)
	_, err := repo.BulkInsert(context.Background(), []model.StoreTimezone{
		{StoreID: "store-1", Timezone: "Not/AZone"},
	})
	require.Error(t, err)
}
