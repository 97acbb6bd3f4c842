package service

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"log/slog"
	"time"

	"github.com/linkscout/linkscout-api/config"
	"github.com/linkscout/linkscout-api/internal/core"
	obserrors "github.com/linkscout/linkscout-api/internal/observability/errors"
	"github.com/linkscout/linkscout-api/internal/observability/metrics"
	"github.com/linkscout/linkscout-api/internal/observability/statsd"
)

// ReaperServiceOptions groups dependencies for ReaperService.
type ReaperServiceOptions struct {
	Repo    core.SweepRepository // Required: sweep repository
	Config  config.ReaperConfig  // Required: reaper configuration
	Logger  *slog.Logger         // Optional: structured logger
	Metrics statsd.Sink          // Optional: metrics sink
}

// ReaperService force-fails jobs stuck in pending or processing past the
// timeout window. It serves two callers: the externally scheduled sweep
// endpoint, and an optional in-process loop for deployments without an
// external scheduler.
type ReaperService struct {
	repo    core.SweepRepository
	config  config.ReaperConfig
	logger  *slog.Logger
	metrics statsd.Sink
}

// NewReaperService constructs a new ReaperService.
func NewReaperService(opts ReaperServiceOptions) (*ReaperService, error) {
	if opts.Repo == nil {
		return nil, errors.New("SweepRepository is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &ReaperService{
		repo:    opts.Repo,
		config:  opts.Config,
		logger:  logger.With("component", "reaper_service"),
		metrics: opts.Metrics,
	}, nil
}

// SweepTimedOut fails all timed-out jobs, draining in batches so one sweep
// call handles arbitrarily large backlogs. Returns the total transitioned.
func (s *ReaperService) SweepTimedOut(ctx context.Context) (int64, error) {
	start := time.Now()
	var total int64

	for {
		count, err := s.repo.FailTimedOutJobs(ctx, s.config.Window, s.config.BatchSize)
		if err != nil {
			s.emitSweepMetrics(total, time.Since(start), err)
			return total, err
		}
		total += count
		if count == 0 {
			break
		}
		if ctx.Err() != nil {
			s.emitSweepMetrics(total, time.Since(start), ctx.Err())
			return total, ctx.Err()
		}
	}

	if total > 0 {
		s.logger.InfoContext(ctx, "timed-out jobs failed",
			"count", total,
			"window", s.config.Window,
		)
	}
	s.emitSweepMetrics(total, time.Since(start), nil)
	return total, nil
}

// Run starts the in-process sweep loop and runs until the context is
// cancelled. Returns nil on graceful shutdown.
func (s *ReaperService) Run(ctx context.Context) error {
	s.logger.InfoContext(ctx, "starting reaper loop",
		"interval", s.config.Interval,
		"window", s.config.Window,
	)

	// Jitter the first sweep so replicas starting together don't contend.
	s.waitWithJitter(ctx)

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	if _, err := s.SweepTimedOut(ctx); err != nil {
		s.logSweepError(ctx, err)
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.InfoContext(ctx, "reaper loop stopping", "reason", ctx.Err())
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
			if _, err := s.SweepTimedOut(ctx); err != nil {
				s.logSweepError(ctx, err)
			}
		}
	}
}

// waitWithJitter sleeps a random duration up to 10% of the interval.
func (s *ReaperService) waitWithJitter(ctx context.Context) {
	maxJitter := int64(s.config.Interval / 10)
	if maxJitter <= 0 {
		return
	}

	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return
	}
	jitter := time.Duration(int64(binary.BigEndian.Uint64(buf[:]) % uint64(maxJitter)))

	select {
	case <-time.After(jitter):
	case <-ctx.Done():
	}
}

func (s *ReaperService) emitSweepMetrics(count int64, elapsed time.Duration, err error) {
	if s.metrics == nil {
		return
	}

	result := metrics.ResultSuccess
	if err != nil {
		result = metrics.ResultError
	} else if count == 0 {
		result = metrics.ResultNoop
	}

	tags := map[string]string{"result": result}
	if err != nil {
		if class := obserrors.Classify(err); class != "" {
			tags["error_class"] = class
		}
	}

	s.metrics.Count("reaper.sweep", 1, tags)
	if count > 0 {
		s.metrics.Count("reaper.jobs_reaped", count, metrics.CloneTags(tags))
	}
	if elapsed > 0 {
		s.metrics.Timing("reaper.sweep_duration", elapsed, metrics.CloneTags(tags))
	}
	if err == nil {
		s.metrics.Gauge("reaper.last_success_epoch", float64(time.Now().Unix()), nil)
	}
}

func (s *ReaperService) logSweepError(ctx context.Context, err error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		s.logger.DebugContext(ctx, "sweep cancelled by context", "error", err)
		return
	}
	s.logger.ErrorContext(ctx, "sweep failed", "error", err)
}
