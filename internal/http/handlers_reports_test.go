package httpx

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/storewatch/uptime-api/internal/domain/model"
	"github.com/storewatch/uptime-api/internal/export"
	"github.com/storewatch/uptime-api/internal/mocks"
	"github.com/storewatch/uptime-api/internal/service"
)

type routerFixture struct {
	reports   *mocks.MockReportRepository
	artifacts *mocks.MockArtifactStore
	obs       *mocks.MockObservationRepository
	svc       *service.ReportService
	handler   http.Handler
}

func newRouterFixture(t *testing.T, ctrl *gomock.Controller) *routerFixture {
	t.Helper()
	f := &routerFixture{
		reports:   mocks.NewMockReportRepository(ctrl),
		artifacts: mocks.NewMockArtifactStore(ctrl),
		obs:       mocks.NewMockObservationRepository(ctrl),
	}
	f.svc = service.MustNewReportService(service.ReportServiceOptions{
		Repos: service.ReportRepos{
			Observations:  f.obs,
			BusinessHours: mocks.NewMockBusinessHoursRepository(ctrl),
			Timezones:     mocks.NewMockTimezoneRepository(ctrl),
			Reports:       f.reports,
		},
		Artifacts: f.artifacts,
	})
	f.handler = NewRouter(RouterServices{Reports: f.svc})
	return f
}

func completeReport(id, key string) *model.Report {
	now := time.Now().UTC()
	return &model.Report{
		ID:          id,
		Status:      model.ReportStatusComplete,
		ArtifactKey: &key,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func sampleArtifact(t *testing.T) []byte {
	t.Helper()
	artifact, err := export.BuildCSV([]model.ReportRow{
		{StoreID: "store-1", UptimeLastHour: 60, UptimeLastDay: 24, UptimeLastWeek: 168},
	})
	require.NoError(t, err)
	return artifact
}

func TestTriggerReturnsAccepted(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newRouterFixture(t, ctrl)

	now := time.Now().UTC()
	f.reports.EXPECT().Create(gomock.Any()).
		Return(&model.Report{ID: "rpt-1", Status: model.ReportStatusRunning, CreatedAt: now, UpdatedAt: now}, nil)
	// The background run fails fast against an empty dataset; the HTTP
	// response is already out by then.
	f.obs.EXPECT().MaxTimestamp(gomock.Any()).Return(time.Time{}, nil)
	f.reports.EXPECT().MarkError(gomock.Any(), "rpt-1", gomock.Any()).Return(nil)

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/reports/trigger", nil))
	f.svc.Wait()

	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.JSONEq(t, `{"report_id":"rpt-1"}`, rec.Body.String())
}

func TestTriggerFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newRouterFixture(t, ctrl)

	f.reports.EXPECT().Create(gomock.Any()).Return(nil, assert.AnError)

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/reports/trigger", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "trigger_failed")
}

func TestGetUnknownReport(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newRouterFixture(t, ctrl)

	f.reports.EXPECT().GetByID(gomock.Any(), "missing").Return(nil, model.ErrReportNotFound)

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/missing", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "report_not_found")
}

func TestGetRunningReport(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newRouterFixture(t, ctrl)

	now := time.Now().UTC()
	f.reports.EXPECT().GetByID(gomock.Any(), "rpt-2").
		Return(&model.Report{ID: "rpt-2", Status: model.ReportStatusRunning, CreatedAt: now, UpdatedAt: now}, nil)

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/rpt-2", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"Running"}`, rec.Body.String())
}

func TestGetFailedReport(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newRouterFixture(t, ctrl)

	now := time.Now().UTC()
	msg := "no observations available to anchor the report"
	f.reports.EXPECT().GetByID(gomock.Any(), "rpt-3").
		Return(&model.Report{ID: "rpt-3", Status: model.ReportStatusError, LastError: &msg, CreatedAt: now, UpdatedAt: now}, nil)

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/rpt-3", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"Error","message":"no observations available to anchor the report"}`, rec.Body.String())
}

func TestGetCompleteReportCSV(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newRouterFixture(t, ctrl)

	artifact := sampleArtifact(t)
	f.reports.EXPECT().GetByID(gomock.Any(), "rpt-4").Return(completeReport("rpt-4", "rpt-4.csv"), nil)
	f.artifacts.EXPECT().Get(gomock.Any(), "rpt-4.csv").Return(artifact, nil)

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/rpt-4", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="report.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, artifact, rec.Body.Bytes())
}

func TestGetCompleteReportXLSX(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newRouterFixture(t, ctrl)

	f.reports.EXPECT().GetByID(gomock.Any(), "rpt-5").Return(completeReport("rpt-5", "rpt-5.csv"), nil)
	f.artifacts.EXPECT().Get(gomock.Any(), "rpt-5.csv").Return(sampleArtifact(t), nil)

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/rpt-5?format=xlsx", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Body.Bytes())
}

func TestGetInvalidFormat(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newRouterFixture(t, ctrl)

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/rpt-6?format=docx", nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_format")
}

func TestHealthz(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newRouterFixture(t, ctrl)

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	head := httptest.NewRecorder()
	f.handler.ServeHTTP(head, httptest.NewRequest(http.MethodHead, "/healthz", nil))
	require.Equal(t, http.StatusOK, head.Code)
	assert.Empty(t, head.Body.Bytes())
}

func TestCompressionGzipsJSON(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newRouterFixture(t, ctrl)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Accept-Encoding", "gzip")

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))

	gr, err := gzip.NewReader(rec.Body)
	require.NoError(t, err)
	body, err := io.ReadAll(gr)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestCompressionSkipsBinaryArtifacts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newRouterFixture(t, ctrl)

	f.reports.EXPECT().GetByID(gomock.Any(), "rpt-7").Return(completeReport("rpt-7", "rpt-7.csv"), nil)
	f.artifacts.EXPECT().Get(gomock.Any(), "rpt-7.csv").Return(sampleArtifact(t), nil)

	req := httptest.NewRequest(http.MethodGet, "/reports/rpt-7?format=pdf", nil)
	req.Header.Set("Accept-Encoding", "gzip")

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Content-Encoding"))
	assert.True(t, len(rec.Body.Bytes()) > 0)
}
