package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/storewatch/uptime-api/internal/domain/model"
	"github.com/storewatch/uptime-api/internal/export"
	"github.com/storewatch/uptime-api/internal/mocks"
)

type reportMocks struct {
	obs       *mocks.MockObservationRepository
	hours     *mocks.MockBusinessHoursRepository
	timezones *mocks.MockTimezoneRepository
	reports   *mocks.MockReportRepository
	artifacts *mocks.MockArtifactStore
}

func newReportMocks(ctrl *gomock.Controller) reportMocks {
	return reportMocks{
		obs:       mocks.NewMockObservationRepository(ctrl),
		hours:     mocks.NewMockBusinessHoursRepository(ctrl),
		timezones: mocks.NewMockTimezoneRepository(ctrl),
		reports:   mocks.NewMockReportRepository(ctrl),
		artifacts: mocks.NewMockArtifactStore(ctrl),
	}
}

func (m reportMocks) options() ReportServiceOptions {
	return ReportServiceOptions{
		Repos: ReportRepos{
			Observations:  m.obs,
			BusinessHours: m.hours,
			Timezones:     m.timezones,
			Reports:       m.reports,
		},
		Artifacts: m.artifacts,
	}
}

func runningReport(id string) *model.Report {
	now := time.Now().UTC()
	return &model.Report{ID: id, Status: model.ReportStatusRunning, CreatedAt: now, UpdatedAt: now}
}

func TestNewReportServiceValidatesOptions(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m := newReportMocks(ctrl)

	opts := m.options()
	opts.Repos.Reports = nil
	_, err := NewReportService(opts)
	require.Error(t, err)

	opts = m.options()
	opts.Artifacts = nil
	_, err = NewReportService(opts)
	require.Error(t, err)

	opts = m.options()
	opts.Config.FallbackTimezone = "Mars/Olympus_Mons"
	_, err = NewReportService(opts)
	require.Error(t, err)
}

func TestTriggerRunsToComplete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m := newReportMocks(ctrl)

	now := time.Date(2024, 1, 8, 18, 0, 0, 0, time.UTC)
	observations := map[string][]model.Observation{
		"store-1": {
			{StoreID: "store-1", Timestamp: now.Add(-30 * time.Minute), Status: model.StatusActive},
		},
	}

	m.reports.EXPECT().Create(gomock.Any()).Return(runningReport("rpt-1"), nil)
	m.obs.EXPECT().MaxTimestamp(gomock.Any()).Return(now, nil)
	m.obs.EXPECT().DistinctStoreIDs(gomock.Any()).Return([]string{"store-1"}, nil)
	m.hours.EXPECT().DistinctStoreIDs(gomock.Any()).Return([]string{"store-2"}, nil)
	m.hours.EXPECT().ListAll(gomock.Any()).Return(map[string][]model.BusinessHourRule{}, nil)
	m.timezones.EXPECT().ListAll(gomock.Any()).Return(map[string]string{"store-1": "UTC"}, nil)
	m.obs.EXPECT().ListByStores(gomock.Any(), []string{"store-1", "store-2"}, gomock.Any()).Return(observations, nil)

	var artifact []byte
	m.artifacts.EXPECT().Put(gomock.Any(), "rpt-1.csv", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, data []byte) error {
			artifact = data
			return nil
		})
	m.reports.EXPECT().MarkComplete(gomock.Any(), "rpt-1", "rpt-1.csv").Return(nil)

	svc := MustNewReportService(m.options())
	id, err := svc.Trigger(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "rpt-1", id)
	svc.Wait()

	rows, err := export.ReadCSV(bytes.NewReader(artifact))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// No rules means always open; the single active observation covers the
	// whole of every window.
	assert.Equal(t, "store-1", rows[0].StoreID)
	assert.InDelta(t, 60, rows[0].UptimeLastHour, 1e-9)
	assert.InDelta(t, 24, rows[0].UptimeLastDay, 1e-9)
	assert.InDelta(t, 168, rows[0].UptimeLastWeek, 1e-9)
	assert.Zero(t, rows[0].DowntimeLastWeek)

	// A store with no observations at all defaults to fully active.
	assert.Equal(t, "store-2", rows[1].StoreID)
	assert.InDelta(t, 168, rows[1].UptimeLastWeek, 1e-9)
}

func TestTriggerCreateFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m := newReportMocks(ctrl)

	m.reports.EXPECT().Create(gomock.Any()).Return(nil, errors.New("db down"))

	svc := MustNewReportService(m.options())
	_, err := svc.Trigger(context.Background())
	require.Error(t, err)
}

func TestRunMarksErrorWithoutObservations(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m := newReportMocks(ctrl)

	m.reports.EXPECT().Create(gomock.Any()).Return(runningReport("rpt-2"), nil)
	m.obs.EXPECT().MaxTimestamp(gomock.Any()).Return(time.Time{}, nil)
	m.reports.EXPECT().MarkError(gomock.Any(), "rpt-2", ErrNoObservations.Error()).Return(nil)

	svc := MustNewReportService(m.options())
	_, err := svc.Trigger(context.Background())
	require.NoError(t, err)
	svc.Wait()
}

func TestRunMarksErrorOnLoadFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m := newReportMocks(ctrl)

	m.reports.EXPECT().Create(gomock.Any()).Return(runningReport("rpt-3"), nil)
	m.obs.EXPECT().MaxTimestamp(gomock.Any()).Return(time.Now(), nil)
	m.obs.EXPECT().DistinctStoreIDs(gomock.Any()).Return(nil, errors.New("connection reset"))
	m.reports.EXPECT().MarkError(gomock.Any(), "rpt-3", gomock.Any()).Return(nil)

	svc := MustNewReportService(m.options())
	_, err := svc.Trigger(context.Background())
	require.NoError(t, err)
	svc.Wait()
}

func TestGetRunning(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m := newReportMocks(ctrl)

	m.reports.EXPECT().GetByID(gomock.Any(), "rpt-4").Return(runningReport("rpt-4"), nil)

	svc := MustNewReportService(m.options())
	result, err := svc.Get(context.Background(), "rpt-4")
	require.NoError(t, err)
	assert.Equal(t, model.ReportStatusRunning, result.Status)
	assert.Nil(t, result.Artifact)
}

func TestGetNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m := newReportMocks(ctrl)

	m.reports.EXPECT().GetByID(gomock.Any(), "nope").Return(nil, model.ErrReportNotFound)

	svc := MustNewReportService(m.options())
	_, err := svc.Get(context.Background(), "nope")
	require.ErrorIs(t, err, model.ErrReportNotFound)
}

func TestGetCompleteServesArtifact(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m := newReportMocks(ctrl)

	key := "rpt-5.csv"
	report := runningReport("rpt-5")
	report.Status = model.ReportStatusComplete
	report.ArtifactKey = &key

	m.reports.EXPECT().GetByID(gomock.Any(), "rpt-5").Return(report, nil).Times(2)
	m.artifacts.EXPECT().Get(gomock.Any(), key).Return([]byte("csv-bytes"), nil).Times(2)

	svc := MustNewReportService(m.options())

	// Polling a complete report is idempotent and byte-identical.
	for i := 0; i < 2; i++ {
		result, err := svc.Get(context.Background(), "rpt-5")
		require.NoError(t, err)
		assert.Equal(t, model.ReportStatusComplete, result.Status)
		assert.Equal(t, []byte("csv-bytes"), result.Artifact)
	}
}

func TestGetCompleteWithoutArtifactKey(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m := newReportMocks(ctrl)

	report := runningReport("rpt-6")
	report.Status = model.ReportStatusComplete
	m.reports.EXPECT().GetByID(gomock.Any(), "rpt-6").Return(report, nil)

	svc := MustNewReportService(m.options())
	_, err := svc.Get(context.Background(), "rpt-6")
	require.Error(t, err)
}

func TestGetUsesArtifactCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m := newReportMocks(ctrl)
	cache := mocks.NewMockCacheRepository(ctrl)

	key := "rpt-7.csv"
	report := runningReport("rpt-7")
	report.Status = model.ReportStatusComplete
	report.ArtifactKey = &key

	m.reports.EXPECT().GetByID(gomock.Any(), "rpt-7").Return(report, nil).Times(2)

	// First poll misses the cache, loads storage, and backfills. The second
	// is served from the cache without touching storage.
	gomock.InOrder(
		cache.EXPECT().Get(gomock.Any(), "report:artifact:"+key).Return(nil, errors.New("cache miss")),
		m.artifacts.EXPECT().Get(gomock.Any(), key).Return([]byte("csv-bytes"), nil),
		cache.EXPECT().Set(gomock.Any(), "report:artifact:"+key, []byte("csv-bytes"), gomock.Any()).Return(nil),
		cache.EXPECT().Get(gomock.Any(), "report:artifact:"+key).Return([]byte("csv-bytes"), nil),
	)

	opts := m.options()
	opts.Cache = cache
	svc := MustNewReportService(opts)

	for i := 0; i < 2; i++ {
		result, err := svc.Get(context.Background(), "rpt-7")
		require.NoError(t, err)
		assert.Equal(t, []byte("csv-bytes"), result.Artifact)
	}
}

func TestComputeRowsSkipsInvalidStore(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m := newReportMocks(ctrl)

	now := time.Date(2024, 1, 8, 18, 0, 0, 0, time.UTC)

	// A blank store id slips through ingestion; its row fails validation
	// and the run continues with the remaining stores.
	m.reports.EXPECT().Create(gomock.Any()).Return(runningReport("rpt-8"), nil)
	m.obs.EXPECT().MaxTimestamp(gomock.Any()).Return(now, nil)
	m.obs.EXPECT().DistinctStoreIDs(gomock.Any()).Return([]string{"", "store-1"}, nil)
	m.hours.EXPECT().DistinctStoreIDs(gomock.Any()).Return(nil, nil)
	m.hours.EXPECT().ListAll(gomock.Any()).Return(nil, nil)
	m.timezones.EXPECT().ListAll(gomock.Any()).Return(nil, nil)
	m.obs.EXPECT().ListByStores(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)

	var artifact []byte
	m.artifacts.EXPECT().Put(gomock.Any(), "rpt-8.csv", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, data []byte) error {
			artifact = data
			return nil
		})
	m.reports.EXPECT().MarkComplete(gomock.Any(), "rpt-8", "rpt-8.csv").Return(nil)

	svc := MustNewReportService(m.options())
	_, err := svc.Trigger(context.Background())
	require.NoError(t, err)
	svc.Wait()

	rows, err := export.ReadCSV(bytes.NewReader(artifact))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "store-1", rows[0].StoreID)
}

func TestLocationCacheFallback(t *testing.T) {
	cache := newLocationCache(time.UTC, nil)

	assert.Equal(t, time.UTC, cache.load("", "store-1"))
	assert.Equal(t, time.UTC, cache.load("Not/AZone", "store-1"))

	chicago := cache.load("America/Chicago", "store-1")
	require.NotNil(t, chicago)
	assert.Equal(t, "America/Chicago", chicago.String())
	// Second lookup is served from the memo.
	assert.Same(t, chicago, cache.load("America/Chicago", "store-2"))
}
