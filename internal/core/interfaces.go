// Package core contains repository interface definitions (ports in hexagonal
// architecture). These interfaces define the contracts between the service
// layer and data layer. Service implementations should depend on these
// interfaces, not concrete implementations.
package core

import (
	"context"
	"time"

	"github.com/linkscout/linkscout-api/internal/domain/model"
)

// CreateJobParams groups parameters for JobRepository.Create.
type CreateJobParams struct {
	ProfileID   string
	InputMethod model.InputMethod
	Names       []model.InputName
}

// CompleteJobParams groups parameters for JobRepository.Complete.
type CompleteJobParams struct {
	JobID       string
	Results     []model.JobResult
	CompletedAt time.Time
}

// FailJobParams groups parameters for JobRepository.Fail.
type FailJobParams struct {
	JobID        string
	ErrorMessage string
}

// JobRepository defines the interface for job data operations.
//
// Complete and Fail update unconditionally by id and report rows affected.
// Zero rows is not an error: callbacks for unknown ids are a silent no-op,
// and a late callback may legitimately overwrite a reaped job.
type JobRepository interface {
	Create(ctx context.Context, params CreateJobParams) (*model.Job, error)
	GetByID(ctx context.Context, id string) (*model.Job, error)
	ListByProfile(ctx context.Context, profileID string) ([]*model.Job, error)
	Complete(ctx context.Context, params CompleteJobParams) (int64, error)
	Fail(ctx context.Context, params FailJobParams) (int64, error)
	AppendResult(ctx context.Context, jobID string, result model.JobResult) error
}

// SweepRepository defines the timeout sweep over stuck jobs.
type SweepRepository interface {
	// FailTimedOutJobs force-fails jobs in pending/processing whose
	// processing_started_at is strictly older than now minus window.
	// Returns the number of jobs transitioned.
	FailTimedOutJobs(ctx context.Context, window time.Duration, batchSize int) (int64, error)
}

// UpdateSenderProfileParams groups parameters for ProfileRepository.UpdateSenderProfile.
type UpdateSenderProfileParams struct {
	UserID   string
	FullName string
	Profile  *model.SenderProfile
	RawText  string
}

// ProfileRepository defines the interface for profile data operations.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (*model.Profile, error)
	Create(ctx context.Context, userID, email string) (*model.Profile, error)
	UpdateSenderProfile(ctx context.Context, params UpdateSenderProfileParams) error
}
