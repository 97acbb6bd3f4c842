// Package service contains business logic and orchestration. Services depend
// on the repository interfaces in internal/core and the ports in
// internal/ports, never on concrete implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/linkscout/linkscout-api/internal/core"
	"github.com/linkscout/linkscout-api/internal/data"
	"github.com/linkscout/linkscout-api/internal/domain/model"
	apperrors "github.com/linkscout/linkscout-api/internal/errors"
	"github.com/linkscout/linkscout-api/internal/observability/metrics"
	"github.com/linkscout/linkscout-api/internal/observability/statsd"
	"github.com/linkscout/linkscout-api/internal/ports"
)

// JobServiceOptions groups dependencies for JobService.
type JobServiceOptions struct {
	Repo    core.JobRepository    // Required: job repository
	Trigger ports.WorkflowTrigger // Required: workflow dispatch
	Logger  *slog.Logger          // Optional: structured logger
	Metrics statsd.Sink           // Optional: metrics sink
}

// JobService handles batch submission and job reads.
//
// Submission dispatches the batch to the external workflow fire-and-forget:
// the job is persisted first, the trigger runs in the background, and a
// trigger failure surfaces later through the timeout sweep rather than
// failing the submit request.
type JobService struct {
	repo    core.JobRepository
	trigger ports.WorkflowTrigger
	logger  *slog.Logger
	metrics statsd.Sink
}

// NewJobService constructs a new JobService.
func NewJobService(opts JobServiceOptions) (*JobService, error) {
	if opts.Repo == nil {
		return nil, errors.New("JobRepository is required")
	}
	if opts.Trigger == nil {
		return nil, errors.New("WorkflowTrigger is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &JobService{
		repo:    opts.Repo,
		trigger: opts.Trigger,
		logger:  logger.With("component", "job_service"),
		metrics: opts.Metrics,
	}, nil
}

// CreateBatch validates and persists a new batch job, then dispatches it to
// the workflow in the background.
func (s *JobService) CreateBatch(
	ctx context.Context,
	profileID string,
	req model.CreateJobRequest,
) (*model.Job, error) {
	if profileID == "" {
		return nil, apperrors.Unauthorized("missing profile")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	job, err := s.repo.Create(ctx, core.CreateJobParams{
		ProfileID:   profileID,
		InputMethod: req.InputMethod,
		Names:       req.Names,
	})
	if err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	s.logger.InfoContext(ctx, "job created",
		"job_id", job.ID,
		"profile_id", profileID,
		"input_method", job.InputMethod,
		"batch_size", len(job.InputNames),
	)
	metrics.EmitJobLifecycle(s.metrics, metrics.JobMetric{
		Transition: "created",
		Source:     "api",
		Result:     metrics.ResultSuccess,
	})

	// Dispatch outside the request lifetime. The trigger endpoint may be
	// slow or down; the submitter still gets their job id and the timeout
	// sweep backstops a batch that never comes back.
	go s.dispatch(job)

	return job, nil
}

func (s *JobService) dispatch(job *model.Job) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := s.trigger.Trigger(ctx, ports.TriggerInput{
		JobID: job.ID,
		Names: job.InputNames,
	})
	if err != nil {
		s.logger.Error("workflow trigger failed",
			"job_id", job.ID,
			"error", err,
		)
		if s.metrics != nil {
			s.metrics.Count("workflow.trigger", 1, map[string]string{"result": metrics.ResultError})
		}
		return
	}
	if s.metrics != nil {
		s.metrics.Count("workflow.trigger", 1, map[string]string{"result": metrics.ResultSuccess})
	}
}

// GetJob fetches a job and enforces ownership. A job owned by someone else
// is forbidden, not hidden, so misrouted clients get a debuggable signal.
func (s *JobService) GetJob(ctx context.Context, profileID, jobID string) (*model.Job, error) {
	job, err := s.repo.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, data.ErrJobNotFound) {
			return nil, apperrors.NotFoundf("job %s not found", jobID)
		}
		return nil, fmt.Errorf("get job: %w", err)
	}
	if job.ProfileID != profileID {
		return nil, apperrors.Forbidden("job belongs to another profile")
	}
	return job, nil
}

// ListJobs returns the profile's jobs, newest first.
func (s *JobService) ListJobs(ctx context.Context, profileID string) ([]*model.Job, error) {
	jobs, err := s.repo.ListByProfile(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return jobs, nil
}

// Stats aggregates the profile's job counts by lifecycle state.
func (s *JobService) Stats(ctx context.Context, profileID string) (*model.JobStats, error) {
	jobs, err := s.repo.ListByProfile(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	stats := &model.JobStats{}
	for _, job := range jobs {
		switch job.Status {
		case model.JobStatusPending:
			stats.Pending++
		case model.JobStatusProcessing:
			stats.Processing++
		case model.JobStatusCompleted:
			stats.Completed++
		case model.JobStatusFailed:
			stats.Failed++
		}
	}
	return stats, nil
}
