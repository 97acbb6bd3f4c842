// Package data provides PostgreSQL-backed repositories for the linkscout
// job system.
package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/linkscout/linkscout-api/internal/core"
	"github.com/linkscout/linkscout-api/internal/domain/model"
	apperrors "github.com/linkscout/linkscout-api/internal/errors"
)

// RepoConfig holds configuration options for repositories.
type RepoConfig struct {
	Logger       *slog.Logger
	TimeProvider TimeProvider
}

// JobRepo provides database operations for job lifecycle management.
type JobRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
	logger       *slog.Logger
}

var _ core.JobRepository = (*JobRepo)(nil)
var _ core.SweepRepository = (*JobRepo)(nil)

// NewJobRepo creates a new JobRepo instance with the given database connection and configuration.
func NewJobRepo(db *sql.DB, cfg RepoConfig) *JobRepo {
	tp := cfg.TimeProvider
	if tp == nil {
		tp = &RealTimeProvider{}
	}

	return &JobRepo{
		DB:           db,
		timeProvider: tp,
		logger:       cfg.Logger,
	}
}

const jobColumns = `
  id,
  profile_id,
  status,
  input_method,
  input_names,
  results,
  error_message,
  processing_started_at,
  completed_at,
  failed_at,
  created_at,
  updated_at
`

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*model.Job, error) {
	var (
		job         model.Job
		namesBytes  []byte
		resultBytes []byte
	)

	err := row.Scan(
		&job.ID,
		&job.ProfileID,
		&job.Status,
		&job.InputMethod,
		&namesBytes,
		&resultBytes,
		&job.ErrorMessage,
		&job.ProcessingStartedAt,
		&job.CompletedAt,
		&job.FailedAt,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(namesBytes, &job.InputNames); err != nil {
		return nil, fmt.Errorf("decode input_names: %w", err)
	}
	if err := json.Unmarshal(resultBytes, &job.Results); err != nil {
		return nil, fmt.Errorf("decode results: %w", err)
	}
	if job.Results == nil {
		job.Results = []model.JobResult{}
	}

	return &job, nil
}

// Create inserts a new job in pending state with an empty result set.
// processing_started_at is set at creation (dispatch time) so the timeout
// sweep bounds total wall-clock time rather than time since acknowledgement.
func (r *JobRepo) Create(ctx context.Context, params core.CreateJobParams) (*model.Job, error) {
	if params.ProfileID == "" {
		return nil, errors.New("profile id is required")
	}
	req := model.CreateJobRequest{Names: params.Names, InputMethod: params.InputMethod}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	namesBytes, err := json.Marshal(params.Names)
	if err != nil {
		return nil, fmt.Errorf("encode input_names: %w", err)
	}

	now := r.timeProvider.Now().UTC()
	row := r.DB.QueryRowContext(ctx, `
		INSERT INTO jobs (
			profile_id, status, input_method, input_names, results,
			processing_started_at, created_at, updated_at
		)
		VALUES ($1, 'pending', $2, $3, '[]'::jsonb, $4, $4, $4)
		RETURNING `+jobColumns,
		params.ProfileID, params.InputMethod, namesBytes, now)

	job, err := scanJob(row)
	if err != nil {
		return nil, apperrors.MapDBError(fmt.Errorf("insert job: %w", err))
	}
	return job, nil
}

// GetByID returns a single job by id.
func (r *JobRepo) GetByID(ctx context.Context, id string) (*model.Job, error) {
	if uuid.Validate(id) != nil {
		return nil, ErrJobNotFound
	}

	row := r.DB.QueryRowContext(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)

	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, apperrors.MapDBError(fmt.Errorf("get job: %w", err))
	}
	return job, nil
}

// ListByProfile returns all jobs owned by a profile, newest first.
func (r *JobRepo) ListByProfile(ctx context.Context, profileID string) ([]*model.Job, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE profile_id = $1 ORDER BY created_at DESC`,
		profileID)
	if err != nil {
		return nil, apperrors.MapDBError(fmt.Errorf("list jobs: %w", err))
	}
	defer func() {
		_ = rows.Close()
	}()

	jobs := []*model.Job{}
	for rows.Next() {
		job, scanErr := scanJob(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scan job: %w", scanErr)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.MapDBError(fmt.Errorf("list jobs: %w", err))
	}
	return jobs, nil
}

// Complete transitions a job to completed, replacing its result set.
// The update is unconditional by id: reapplying the same callback is
// idempotent, and a legitimate late success overwrites a reaper-induced
// failure (last writer wins). failed_at and error_message are cleared so
// completed_at and failed_at stay mutually exclusive.
func (r *JobRepo) Complete(ctx context.Context, params core.CompleteJobParams) (int64, error) {
	if uuid.Validate(params.JobID) != nil {
		// Malformed ids behave like unknown ids: zero rows affected.
		return 0, nil
	}
	if len(params.Results) == 0 {
		return 0, errors.New("results are required")
	}

	resultBytes, err := json.Marshal(params.Results)
	if err != nil {
		return 0, fmt.Errorf("encode results: %w", err)
	}

	completedAt := params.CompletedAt
	if completedAt.IsZero() {
		completedAt = r.timeProvider.Now()
	}

	res, err := r.DB.ExecContext(ctx, `
		UPDATE jobs
		SET status = 'completed',
			results = $2,
			completed_at = $3,
			failed_at = NULL,
			error_message = NULL,
			updated_at = $4
		WHERE id = $1
	`, params.JobID, resultBytes, completedAt.UTC(), r.timeProvider.Now().UTC())
	if err != nil {
		return 0, apperrors.MapDBError(fmt.Errorf("complete job: %w", err))
	}
	return res.RowsAffected()
}

// Fail transitions a job to failed with the given message. Unconditional by
// id, mirroring Complete. Results are cleared so a non-empty result set only
// ever accompanies completed status.
func (r *JobRepo) Fail(ctx context.Context, params core.FailJobParams) (int64, error) {
	if uuid.Validate(params.JobID) != nil {
		return 0, nil
	}

	now := r.timeProvider.Now().UTC()
	res, err := r.DB.ExecContext(ctx, `
		UPDATE jobs
		SET status = 'failed',
			error_message = $2,
			failed_at = $3,
			completed_at = NULL,
			results = '[]'::jsonb,
			updated_at = $3
		WHERE id = $1
	`, params.JobID, params.ErrorMessage, now)
	if err != nil {
		return 0, apperrors.MapDBError(fmt.Errorf("fail job: %w", err))
	}
	return res.RowsAffected()
}

// AppendResult appends a single entry to a job's result set. Used for the
// best-effort draft audit trail.
func (r *JobRepo) AppendResult(ctx context.Context, jobID string, result model.JobResult) error {
	if uuid.Validate(jobID) != nil {
		return ErrJobNotFound
	}

	entry, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	res, err := r.DB.ExecContext(ctx, `
		UPDATE jobs
		SET results = results || $2::jsonb,
			updated_at = $3
		WHERE id = $1
	`, jobID, entry, r.timeProvider.Now().UTC())
	if err != nil {
		return apperrors.MapDBError(fmt.Errorf("append result: %w", err))
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrJobNotFound
	}
	return nil
}
