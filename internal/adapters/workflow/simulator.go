package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/linkscout/linkscout-api/internal/core"
	"github.com/linkscout/linkscout-api/internal/domain/model"
	"github.com/linkscout/linkscout-api/internal/ports"
)

// Simulator stands in for the workflow engine when no trigger endpoint is
// configured. It completes jobs locally with synthesized results after a
// fixed delay. For local development only; it plays no part in the
// production failure model.
type Simulator struct {
	repo   core.JobRepository
	delay  time.Duration
	logger *slog.Logger
}

var _ ports.WorkflowTrigger = (*Simulator)(nil)

// NewSimulator builds a local workflow simulator backed by the job repository.
func NewSimulator(repo core.JobRepository, delay time.Duration, logger *slog.Logger) *Simulator {
	if delay <= 0 {
		delay = 3 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Simulator{
		repo:   repo,
		delay:  delay,
		logger: logger.With("component", "workflow_simulator"),
	}
}

// Trigger schedules a simulated completion and returns immediately,
// matching the fire-and-forget contract of the real trigger.
func (s *Simulator) Trigger(ctx context.Context, in ports.TriggerInput) error {
	go s.completeLater(in)
	return nil
}

func (s *Simulator) completeLater(in ports.TriggerInput) {
	time.Sleep(s.delay)

	results := make([]model.JobResult, 0, len(in.Names))
	for _, n := range in.Names {
		url := simulatedProfileURL(n.Name)
		results = append(results, model.JobResult{
			Name:        n.Name,
			School:      n.School,
			LinkedInURL: &url,
			Confidence:  60 + rand.Intn(40),
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := s.repo.Complete(ctx, core.CompleteJobParams{
		JobID:       in.JobID,
		Results:     results,
		CompletedAt: time.Now(),
	}); err != nil {
		s.logger.Error("simulated completion failed", "job_id", in.JobID, "error", err)
		return
	}
	s.logger.Info("simulated completion applied", "job_id", in.JobID, "results", len(results))
}

func simulatedProfileURL(name string) string {
	slug := strings.ToLower(strings.Join(strings.Fields(name), ""))
	return fmt.Sprintf("https://linkedin.com/in/%s", slug)
}
