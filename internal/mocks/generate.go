// Package mocks provides mock implementations for testing the linkscout job system.
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
//	mockRepo := mocks.NewMockJobRepository(ctrl)
//	mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(job, nil)
package mocks

// Generate mock for JobRepository interface from internal/core package.
// This creates MockJobRepository with methods for all JobRepository interface methods:
// Create, GetByID, ListByProfile, Complete, Fail, AppendResult
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=job_repository_mock.go github.com/linkscout/linkscout-api/internal/core JobRepository

// Generate mock for SweepRepository interface from internal/core package.
// This creates MockSweepRepository with methods for all SweepRepository interface methods:
// FailTimedOutJobs
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=sweep_repository_mock.go github.com/linkscout/linkscout-api/internal/core SweepRepository

// Generate mock for ProfileRepository interface from internal/core package.
// This creates MockProfileRepository with methods for all ProfileRepository interface methods:
// GetByUserID, Create, UpdateSenderProfile
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=profile_repository_mock.go github.com/linkscout/linkscout-api/internal/core ProfileRepository
