// Package mocks provides mock implementations for testing the storewatch report system.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for our repository interfaces.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockRepo := mocks.NewMockReportRepository(ctrl)
//	mockRepo.EXPECT().Create(gomock.Any()).Return(report, nil)
package mocks

// Generate mock for ObservationRepository interface from internal/core package.
// This creates MockObservationRepository with methods for all ObservationRepository interface methods:
// BulkInsert, DistinctStoreIDs, MaxTimestamp, ListByStores
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=observation_repository_mock.go github.com/storewatch/uptime-api/internal/core ObservationRepository

// Generate mock for BusinessHoursRepository interface from internal/core package.
// This creates MockBusinessHoursRepository with methods for all BusinessHoursRepository interface methods:
// BulkInsert, DistinctStoreIDs, ListAll
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=business_hours_repository_mock.go github.com/storewatch/uptime-api/internal/core BusinessHoursRepository

// Generate mock for TimezoneRepository interface from internal/core package.
// This creates MockTimezoneRepository with methods for all TimezoneRepository interface methods:
// BulkInsert, ListAll
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=timezone_repository_mock.go github.com/storewatch/uptime-api/internal/core TimezoneRepository

// Generate mock for ReportRepository interface from internal/core package.
// This creates MockReportRepository with methods for all ReportRepository interface methods:
// Create, GetByID, MarkComplete, MarkError
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=report_repository_mock.go github.com/storewatch/uptime-api/internal/core ReportRepository

// Generate mock for ArtifactStore interface from internal/core package.
// This creates MockArtifactStore with methods for all ArtifactStore interface methods:
// Put, Get
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=artifact_store_mock.go github.com/storewatch/uptime-api/internal/core ArtifactStore

// Generate mock for CacheRepository interface from internal/core package.
// This creates MockCacheRepository with methods for all CacheRepository interface methods:
// Get, Set, Delete
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=cache_repository_mock.go github.com/storewatch/uptime-api/internal/core CacheRepository
