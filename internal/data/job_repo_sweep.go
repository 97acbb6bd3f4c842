package data

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/linkscout/linkscout-api/internal/data/pgxutil"
)

// Advisory lock namespace for sweep operations. Two-arg
// pg_try_advisory_xact_lock(major, minor) keeps concurrent sweep invocations
// (external scheduler racing the in-process reaper loop) from conflicting.
const (
	advisoryLockSweepMajor   = 2100
	advisoryLockSweepTimeout = 1
)

const sweepErrorMessage = "Job timed out after %d minutes"

// FailTimedOutJobs force-fails jobs stuck in pending/processing whose
// processing_started_at is strictly older than now minus window. Processes
// up to batchSize jobs per call. Selecting by status plus cutoff makes
// re-runs naturally idempotent: already-failed jobs are no longer selected.
// Returns the number of jobs transitioned.
func (r *JobRepo) FailTimedOutJobs(ctx context.Context, window time.Duration, batchSize int) (int64, error) {
	var rowsAffected int64
	err := pgxutil.WithSQLTx(ctx, r.DB, pgxutil.SQLTxConfig{
		Fn: func(tx *sql.Tx) error {
			var locked bool
			if err := tx.QueryRowContext(ctx,
				"SELECT pg_try_advisory_xact_lock($1, $2)",
				advisoryLockSweepMajor, advisoryLockSweepTimeout,
			).Scan(&locked); err != nil {
				return fmt.Errorf("acquire advisory lock: %w", err)
			}
			if !locked {
				rowsAffected = 0
				return nil
			}

			currentTime := r.timeProvider.Now()
			cutoffTime := currentTime.Add(-window)
			errMsg := fmt.Sprintf(sweepErrorMessage, int(window.Minutes()))

			res, err := tx.ExecContext(ctx, `
				UPDATE jobs
				SET status = 'failed',
					error_message = $1,
					failed_at = $2,
					completed_at = NULL,
					results = '[]'::jsonb,
					updated_at = $2
				WHERE id IN (
					SELECT id FROM jobs
					WHERE status IN ('pending', 'processing')
					  AND processing_started_at < $3
					ORDER BY processing_started_at
					LIMIT $4
				)
			`, errMsg, currentTime.UTC(), cutoffTime.UTC(), batchSize)
			if err != nil {
				return fmt.Errorf("fail timed out jobs: %w", err)
			}

			ra, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("rows affected: %w", err)
			}
			rowsAffected = ra
			return nil
		},
	})
	if err != nil {
		return 0, err
	}
	return rowsAffected, nil
}
