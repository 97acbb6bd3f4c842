package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/linkscout/linkscout-api/internal/core"
	"github.com/linkscout/linkscout-api/internal/data"
	"github.com/linkscout/linkscout-api/internal/domain/model"
	apperrors "github.com/linkscout/linkscout-api/internal/errors"
	"github.com/linkscout/linkscout-api/internal/observability/statsd"
	"github.com/linkscout/linkscout-api/internal/ports"
)

// ErrIncompleteProfile is returned when the sender profile lacks the signal
// needed to personalize a draft. The HTTP layer turns it into a prompt to
// fill in the profile first.
var ErrIncompleteProfile = errors.New("sender profile incomplete")

// DraftServiceOptions groups dependencies for DraftService.
type DraftServiceOptions struct {
	Profiles core.ProfileRepository // Required: profile repository
	Jobs     core.JobRepository     // Required: job repository (draft audit)
	Drafter  ports.MessageDrafter   // Required: message generation
	Logger   *slog.Logger           // Optional: structured logger
	Metrics  statsd.Sink            // Optional: metrics sink
}

// DraftService generates personalized connection-request drafts.
type DraftService struct {
	profiles core.ProfileRepository
	jobs     core.JobRepository
	drafter  ports.MessageDrafter
	logger   *slog.Logger
	metrics  statsd.Sink
}

// NewDraftService constructs a new DraftService.
func NewDraftService(opts DraftServiceOptions) (*DraftService, error) {
	if opts.Profiles == nil {
		return nil, errors.New("ProfileRepository is required")
	}
	if opts.Jobs == nil {
		return nil, errors.New("JobRepository is required")
	}
	if opts.Drafter == nil {
		return nil, errors.New("MessageDrafter is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &DraftService{
		profiles: opts.Profiles,
		jobs:     opts.Jobs,
		drafter:  opts.Drafter,
		logger:   logger.With("component", "draft_service"),
		metrics:  opts.Metrics,
	}, nil
}

// DraftRequest describes one recipient to draft for.
type DraftRequest struct {
	Name    string // recipient name, required
	School  string // recipient school, required
	Company string // recipient company, optional
	JobID   string // originating search job, optional; records the draft
}

// DraftResult carries the generated draft. Err is set when generation fell
// back to the template; the draft is still usable.
type DraftResult struct {
	Draft         string
	Commonalities []string
	Err           string
}

// Draft generates a connection-request message for the recipient,
// personalized from the caller's sender profile.
func (s *DraftService) Draft(
	ctx context.Context,
	userID string,
	req DraftRequest,
) (*DraftResult, error) {
	name := strings.TrimSpace(req.Name)
	school := strings.TrimSpace(req.School)
	if name == "" {
		return nil, apperrors.ValidationField("name", "name is required")
	}
	if school == "" {
		return nil, apperrors.ValidationField("school", "school is required")
	}

	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, data.ErrProfileNotFound) {
			return nil, ErrIncompleteProfile
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	sender := profile.SenderProfile
	if !sender.Complete() {
		return nil, ErrIncompleteProfile
	}

	commonalities := findCommonalities(sender, school, strings.TrimSpace(req.Company))

	result := &DraftResult{Commonalities: commonalities}

	draft, err := s.drafter.DraftMessage(ctx, ports.DraftInput{
		SenderName:     profile.FullName,
		SenderRole:     sender.CurrentRole,
		SenderCompany:  sender.CurrentCompany,
		SenderInterest: strings.Join(sender.Interests, ", "),
		RecipientName:  name,
		School:         school,
		Company:        strings.TrimSpace(req.Company),
		Commonalities:  commonalities,
	})
	if err != nil {
		// Generation failure degrades to the fixed template rather than
		// failing the request; the caller sees the error alongside it.
		s.logger.WarnContext(ctx, "draft generation failed, using template",
			"recipient", name,
			"error", err,
		)
		if s.metrics != nil {
			s.metrics.Count("draft.generated", 1, map[string]string{"result": "fallback"})
		}
		result.Draft = fallbackDraft(name, school, profile.FullName)
		result.Err = err.Error()
	} else {
		if s.metrics != nil {
			s.metrics.Count("draft.generated", 1, map[string]string{"result": "success"})
		}
		result.Draft = draft
	}

	if req.JobID != "" {
		s.recordDraft(ctx, req.JobID, name, school, result.Draft)
	}

	return result, nil
}

// recordDraft appends a draft audit entry to the originating job. Best
// effort: the draft was already returned to the caller.
func (s *DraftService) recordDraft(ctx context.Context, jobID, name, school, draft string) {
	now := time.Now()
	err := s.jobs.AppendResult(ctx, jobID, model.JobResult{
		Name:      name,
		School:    school,
		Draft:     draft,
		DraftedAt: &now,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to record draft on job",
			"job_id", jobID,
			"error", err,
		)
	}
}

// findCommonalities matches the recipient's school and company against the
// sender profile. School wins ordering so the shared-alumni angle leads.
func findCommonalities(sender *model.SenderProfile, school, company string) []string {
	var out []string
	if matched, ok := sender.HasSchool(school); ok {
		out = append(out, "Both attended "+matched)
	}
	if company != "" {
		if matched, ok := sender.HasCompany(company); ok {
			out = append(out, "Both have experience at "+matched)
		}
	}
	return out
}

// fallbackDraft is the fixed template used when generation is unavailable.
func fallbackDraft(name, school, senderName string) string {
	sender := strings.TrimSpace(senderName)
	if sender == "" {
		sender = "[Your Name]"
	}
	return fmt.Sprintf(
		"Hi %s, I came across your profile and noticed you also attended %s. "+
			"I'm %s, and I'd love to connect and learn about your experience. "+
			"Would love to chat sometime!",
		name, school, sender,
	)
}
