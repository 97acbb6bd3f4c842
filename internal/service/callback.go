package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"

	"github.com/linkscout/linkscout-api/internal/core"
	"github.com/linkscout/linkscout-api/internal/domain/callback"
	"github.com/linkscout/linkscout-api/internal/observability/metrics"
	"github.com/linkscout/linkscout-api/internal/observability/statsd"
)

// CallbackServiceOptions groups dependencies for CallbackService.
type CallbackServiceOptions struct {
	Repo    core.JobRepository // Required: job repository
	Logger  *slog.Logger       // Optional: structured logger
	Metrics statsd.Sink        // Optional: metrics sink
}

// CallbackService reconciles workflow result notifications into job state.
//
// Application is last-write-wins by job id. Callbacks are retried by the
// workflow engine, may arrive late, and may race the timeout sweep; applying
// each one unconditionally keeps every delivery idempotent and lets a late
// success overwrite a reaped failure with real results.
type CallbackService struct {
	repo    core.JobRepository
	logger  *slog.Logger
	metrics statsd.Sink
}

// NewCallbackService constructs a new CallbackService.
func NewCallbackService(opts CallbackServiceOptions) (*CallbackService, error) {
	if opts.Repo == nil {
		return nil, errors.New("JobRepository is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &CallbackService{
		repo:    opts.Repo,
		logger:  logger.With("component", "callback_service"),
		metrics: opts.Metrics,
	}, nil
}

// Apply records a parsed callback against its job. An unknown job id is a
// silent no-op: the workflow retries deliveries, and surfacing an error
// would only make it retry a callback we can never apply.
func (s *CallbackService) Apply(ctx context.Context, cb *callback.Callback) error {
	start := time.Now()

	var (
		rows       int64
		err        error
		transition string
	)

	switch cb.Kind {
	case callback.KindSuccess:
		transition = "completed"
		sanitizeResultURLs(cb)
		completedAt := time.Now()
		if cb.CompletedAt != nil {
			completedAt = *cb.CompletedAt
		}
		rows, err = s.repo.Complete(ctx, core.CompleteJobParams{
			JobID:       cb.JobID,
			Results:     cb.Results,
			CompletedAt: completedAt,
		})
	case callback.KindFailure:
		transition = "failed"
		rows, err = s.repo.Fail(ctx, core.FailJobParams{
			JobID:        cb.JobID,
			ErrorMessage: cb.Error,
		})
	default:
		return fmt.Errorf("unknown callback kind: %q", cb.Kind)
	}

	if err != nil {
		s.logger.ErrorContext(ctx, "callback apply failed",
			"job_id", cb.JobID,
			"kind", cb.Kind,
			"error", err,
		)
		metrics.EmitJobLifecycle(s.metrics, metrics.JobMetric{
			Transition: transition,
			Source:     "callback",
			Result:     metrics.ResultError,
			Duration:   time.Since(start),
			Err:        err,
		})
		return fmt.Errorf("apply %s callback: %w", cb.Kind, err)
	}

	if rows == 0 {
		s.logger.WarnContext(ctx, "callback for unknown job",
			"job_id", cb.JobID,
			"kind", cb.Kind,
		)
		metrics.EmitJobLifecycle(s.metrics, metrics.JobMetric{
			Transition: transition,
			Source:     "callback",
			Result:     metrics.ResultNoop,
			Duration:   time.Since(start),
		})
		return nil
	}

	s.logger.InfoContext(ctx, "callback applied",
		"job_id", cb.JobID,
		"kind", cb.Kind,
		"results", len(cb.Results),
	)
	metrics.EmitJobLifecycle(s.metrics, metrics.JobMetric{
		Transition: transition,
		Source:     "callback",
		Result:     metrics.ResultSuccess,
		Duration:   time.Since(start),
	})
	return nil
}

// sanitizeResultURLs drops result URLs whose registrable domain is not
// linkedin.com. The workflow scrapes third-party pages and has been seen
// echoing redirect targets; a wrong-host URL is worse than none.
func sanitizeResultURLs(cb *callback.Callback) {
	for i := range cb.Results {
		if cb.Results[i].LinkedInURL == nil {
			continue
		}
		if !isLinkedInURL(*cb.Results[i].LinkedInURL) {
			cb.Results[i].LinkedInURL = nil
		}
	}
}

func isLinkedInURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return false
	}
	return domain == "linkedin.com"
}
