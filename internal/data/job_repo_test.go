package data

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkscout/linkscout-api/internal/core"
	"github.com/linkscout/linkscout-api/internal/domain/model"
	apperrors "github.com/linkscout/linkscout-api/internal/errors"
	"github.com/linkscout/linkscout-api/internal/testutil"
)

func createParams(profileID string) core.CreateJobParams {
	return core.CreateJobParams{
		ProfileID:   profileID,
		InputMethod: model.InputMethodManual,
		Names: []model.InputName{
			{Name: "Jordan Lee", School: "Stanford"},
			{Name: "Sam Patel", School: "MIT"},
		},
	}
}

func sampleResults() []model.JobResult {
	url := "https://linkedin.com/in/jordanlee"
	return []model.JobResult{
		{Name: "Jordan Lee", School: "Stanford", LinkedInURL: &url, Confidence: 92},
		{Name: "Sam Patel", School: "MIT", LinkedInURL: nil, Confidence: 0},
	}
}

func TestJobRepo_CreateAndGet(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	t.Run("round trips a job", func(t *testing.T) {
		testutil.WithTestDB(t, func(db *sql.DB) {
			repo := NewJobRepo(db, RepoConfig{})
			ctx := context.Background()
			profileID := testutil.CreateTestProfile(t, db)

			job, err := repo.Create(ctx, createParams(profileID))
			require.NoError(t, err)
			assert.NotEmpty(t, job.ID)
			assert.Equal(t, profileID, job.ProfileID)
			assert.Equal(t, model.JobStatusPending, job.Status)
			assert.Equal(t, model.InputMethodManual, job.InputMethod)
			assert.Len(t, job.InputNames, 2)
			assert.Empty(t, job.Results)
			require.NotNil(t, job.ProcessingStartedAt)
			assert.WithinDuration(t, time.Now(), *job.ProcessingStartedAt, 5*time.Second)

			got, err := repo.GetByID(ctx, job.ID)
			require.NoError(t, err)
			assert.Equal(t, job.ID, got.ID)
			assert.Equal(t, job.InputNames, got.InputNames)
			assert.NotNil(t, got.Results, "results decode to an empty slice, not nil")
		})
	})

	t.Run("rejects invalid batch", func(t *testing.T) {
		testutil.WithTestDB(t, func(db *sql.DB) {
			repo := NewJobRepo(db, RepoConfig{})
			profileID := testutil.CreateTestProfile(t, db)

			params := createParams(profileID)
			params.Names = nil
			_, err := repo.Create(context.Background(), params)
			require.Error(t, err)
		})
	})

	t.Run("requires profile id", func(t *testing.T) {
		testutil.WithTestDB(t, func(db *sql.DB) {
			repo := NewJobRepo(db, RepoConfig{})

			_, err := repo.Create(context.Background(), createParams(""))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "profile id")
		})
	})

	t.Run("unknown id returns not found", func(t *testing.T) {
		testutil.WithTestDB(t, func(db *sql.DB) {
			repo := NewJobRepo(db, RepoConfig{})

			_, err := repo.GetByID(context.Background(), "0b0e7a74-6a3e-4f0e-9e39-000000000000")
			assert.ErrorIs(t, err, ErrJobNotFound)
		})
	})

	t.Run("malformed id returns not found without querying", func(t *testing.T) {
		testutil.WithTestDB(t, func(db *sql.DB) {
			repo := NewJobRepo(db, RepoConfig{})

			_, err := repo.GetByID(context.Background(), "not-a-uuid")
			assert.ErrorIs(t, err, ErrJobNotFound)
		})
	})
}

func TestJobRepo_ListByProfile(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	t.Run("newest first, scoped to owner", func(t *testing.T) {
		testutil.WithTestDB(t, func(db *sql.DB) {
			repo := NewJobRepo(db, RepoConfig{})
			ctx := context.Background()

			owner := testutil.CreateTestProfile(t, db)
			other := testutil.CreateTestProfile(t, db)

			first, err := repo.Create(ctx, createParams(owner))
			require.NoError(t, err)
			// Distinct created_at so ordering is deterministic.
			_, err = db.ExecContext(ctx,
				`UPDATE jobs SET created_at = created_at - interval '1 minute' WHERE id = $1`,
				first.ID)
			require.NoError(t, err)

			second, err := repo.Create(ctx, createParams(owner))
			require.NoError(t, err)
			_, err = repo.Create(ctx, createParams(other))
			require.NoError(t, err)

			jobs, err := repo.ListByProfile(ctx, owner)
			require.NoError(t, err)
			require.Len(t, jobs, 2)
			assert.Equal(t, second.ID, jobs[0].ID)
			assert.Equal(t, first.ID, jobs[1].ID)
		})
	})

	t.Run("empty result is a slice", func(t *testing.T) {
		testutil.WithTestDB(t, func(db *sql.DB) {
			repo := NewJobRepo(db, RepoConfig{})
			profileID := testutil.CreateTestProfile(t, db)

			jobs, err := repo.ListByProfile(context.Background(), profileID)
			require.NoError(t, err)
			assert.NotNil(t, jobs)
			assert.Empty(t, jobs)
		})
	})
}

func TestJobRepo_Complete(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	t.Run("replaces results and clears failure fields", func(t *testing.T) {
		testutil.WithTestDB(t, func(db *sql.DB) {
			repo := NewJobRepo(db, RepoConfig{})
			ctx := context.Background()
			profileID := testutil.CreateTestProfile(t, db)
			jobID := testutil.CreateTestJob(t, db, testutil.TestJobParams{
				ProfileID: profileID,
				Status:    "failed",
			})

			completedAt := time.Now().Add(-time.Minute)
			rows, err := repo.Complete(ctx, core.CompleteJobParams{
				JobID:       jobID,
				Results:     sampleResults(),
				CompletedAt: completedAt,
			})
			require.NoError(t, err)
			assert.Equal(t, int64(1), rows)

			job, err := repo.GetByID(ctx, jobID)
			require.NoError(t, err)
			assert.Equal(t, model.JobStatusCompleted, job.Status)
			require.Len(t, job.Results, 2)
			require.NotNil(t, job.Results[0].LinkedInURL)
			assert.Equal(t, "https://linkedin.com/in/jordanlee", *job.Results[0].LinkedInURL)
			assert.Equal(t, 92, job.Results[0].Confidence)
			require.NotNil(t, job.CompletedAt)
			assert.WithinDuration(t, completedAt, *job.CompletedAt, time.Second)
			assert.Nil(t, job.FailedAt)
			assert.Nil(t, job.ErrorMessage)
		})
	})

	t.Run("redelivery is idempotent", func(t *testing.T) {
		testutil.WithTestDB(t, func(db *sql.DB) {
			repo := NewJobRepo(db, RepoConfig{})
			ctx := context.Background()
			profileID := testutil.CreateTestProfile(t, db)
			jobID := testutil.CreateTestJob(t, db, testutil.TestJobParams{ProfileID: profileID})

			params := core.CompleteJobParams{JobID: jobID, Results: sampleResults()}
			rows, err := repo.Complete(ctx, params)
			require.NoError(t, err)
			assert.Equal(t, int64(1), rows)

			rows, err = repo.Complete(ctx, params)
			require.NoError(t, err)
			assert.Equal(t, int64(1), rows, "second delivery still matches the row")

			job, err := repo.GetByID(ctx, jobID)
			require.NoError(t, err)
			assert.Equal(t, model.JobStatusCompleted, job.Status)
			assert.Len(t, job.Results, 2)
		})
	})

	t.Run("unknown id affects zero rows", func(t *testing.T) {
		testutil.WithTestDB(t, func(db *sql.DB) {
			repo := NewJobRepo(db, RepoConfig{})

			rows, err := repo.Complete(context.Background(), core.CompleteJobParams{
				JobID:   "0b0e7a74-6a3e-4f0e-9e39-000000000000",
				Results: sampleResults(),
			})
			require.NoError(t, err)
			assert.Equal(t, int64(0), rows)
		})
	})

	t.Run("malformed id affects zero rows", func(t *testing.T) {
		testutil.WithTestDB(t, func(db *sql.DB) {
			repo := NewJobRepo(db, RepoConfig{})

			rows, err := repo.Complete(context.Background(), core.CompleteJobParams{
				JobID:   "not-a-uuid",
				Results: sampleResults(),
			})
			require.NoError(t, err)
			assert.Equal(t, int64(0), rows)
		})
	})

	t.Run("empty results rejected", func(t *testing.T) {
		testutil.WithTestDB(t, func(db *sql.DB) {
			repo := NewJobRepo(db, RepoConfig{})
			profileID := testutil.CreateTestProfile(t, db)
			jobID := testutil.CreateTestJob(t, db, testutil.TestJobParams{ProfileID: profileID})

			_, err := repo.Complete(context.Background(), core.CompleteJobParams{JobID: jobID})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "results are required")
		})
	})
}

func TestJobRepo_Fail(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	t.Run("records failure and clears results", func(t *testing.T) {
		testutil.WithTestDB(t, func(db *sql.DB) {
			repo := NewJobRepo(db, RepoConfig{})
			ctx := context.Background()
			profileID := testutil.CreateTestProfile(t, db)
			jobID := testutil.CreateTestJob(t, db, testutil.TestJobParams{ProfileID: profileID})

			rows, err := repo.Fail(ctx, core.FailJobParams{
				JobID:        jobID,
				ErrorMessage: "workflow failed",
			})
			require.NoError(t, err)
			assert.Equal(t, int64(1), rows)

			job, err := repo.GetByID(ctx, jobID)
			require.NoError(t, err)
			assert.Equal(t, model.JobStatusFailed, job.Status)
			require.NotNil(t, job.ErrorMessage)
			assert.Equal(t, "workflow failed", *job.ErrorMessage)
			assert.NotNil(t, job.FailedAt)
			assert.Nil(t, job.CompletedAt)
			assert.Empty(t, job.Results)
		})
	})

	t.Run("late success overwrites a failure", func(t *testing.T) {
		testutil.WithTestDB(t, func(db *sql.DB) {
			repo := NewJobRepo(db, RepoConfig{})
			ctx := context.Background()
			profileID := testutil.CreateTestProfile(t, db)
			jobID := testutil.CreateTestJob(t, db, testutil.TestJobParams{ProfileID: profileID})

			_, err := repo.Fail(ctx, core.FailJobParams{JobID: jobID, ErrorMessage: "timed out"})
			require.NoError(t, err)

			rows, err := repo.Complete(ctx, core.CompleteJobParams{
				JobID:   jobID,
				Results: sampleResults(),
			})
			require.NoError(t, err)
			assert.Equal(t, int64(1), rows)

			job, err := repo.GetByID(ctx, jobID)
			require.NoError(t, err)
			assert.Equal(t, model.JobStatusCompleted, job.Status)
			assert.Nil(t, job.FailedAt)
			assert.Nil(t, job.ErrorMessage)
			assert.Len(t, job.Results, 2)
		})
	})

	t.Run("unknown id affects zero rows", func(t *testing.T) {
		testutil.WithTestDB(t, func(db *sql.DB) {
			repo := NewJobRepo(db, RepoConfig{})

			rows, err := repo.Fail(context.Background(), core.FailJobParams{
				JobID:        "0b0e7a74-6a3e-4f0e-9e39-000000000000",
				ErrorMessage: "whatever",
			})
			require.NoError(t, err)
			assert.Equal(t, int64(0), rows)
		})
	})
}

func TestJobRepo_AppendResult(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	t.Run("appends without replacing", func(t *testing.T) {
		testutil.WithTestDB(t, func(db *sql.DB) {
			repo := NewJobRepo(db, RepoConfig{})
			ctx := context.Background()
			profileID := testutil.CreateTestProfile(t, db)
			jobID := testutil.CreateTestJob(t, db, testutil.TestJobParams{ProfileID: profileID})

			_, err := repo.Complete(ctx, core.CompleteJobParams{
				JobID:   jobID,
				Results: sampleResults(),
			})
			require.NoError(t, err)

			draftedAt := time.Now().UTC().Truncate(time.Second)
			err = repo.AppendResult(ctx, jobID, model.JobResult{
				Name:      "Jordan Lee",
				School:    "Stanford",
				Draft:     "Hi Jordan, fellow Stanford alum here.",
				DraftedAt: &draftedAt,
			})
			require.NoError(t, err)

			job, err := repo.GetByID(ctx, jobID)
			require.NoError(t, err)
			require.Len(t, job.Results, 3)
			last := job.Results[2]
			assert.Equal(t, "Hi Jordan, fellow Stanford alum here.", last.Draft)
			require.NotNil(t, last.DraftedAt)
			assert.WithinDuration(t, draftedAt, *last.DraftedAt, time.Second)
		})
	})

	t.Run("unknown job returns not found", func(t *testing.T) {
		testutil.WithTestDB(t, func(db *sql.DB) {
			repo := NewJobRepo(db, RepoConfig{})

			err := repo.AppendResult(context.Background(),
				"0b0e7a74-6a3e-4f0e-9e39-000000000000", model.JobResult{Name: "x"})
			assert.ErrorIs(t, err, ErrJobNotFound)
		})
	})
}

func TestJobRepo_ErrorMapping(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	t.Run("foreign key violation maps to app error", func(t *testing.T) {
		testutil.WithTestDB(t, func(db *sql.DB) {
			repo := NewJobRepo(db, RepoConfig{})

			// Well-formed uuid that references no profile row.
			_, err := repo.Create(context.Background(),
				createParams("0b0e7a74-6a3e-4f0e-9e39-000000000000"))
			require.Error(t, err)
			assert.False(t, apperrors.IsInternal(err), "constraint violations should not map to internal")
			assert.Contains(t, err.Error(), "referenced record does not exist")
		})
	})
}
