// Package ports defines interfaces (hexagonal ports) for external
// collaborators. Implementations live in internal/adapters; orchestration
// in internal/service.
package ports

import (
	"context"

	domainauth "github.com/linkscout/linkscout-api/internal/domain/auth"
	"github.com/linkscout/linkscout-api/internal/domain/model"
)

// TriggerInput carries the batch handed to the external workflow engine.
type TriggerInput struct {
	JobID string            `json:"jobId"`
	Names []model.InputName `json:"names"`
}

// WorkflowTrigger dispatches a job batch to the external search workflow.
// The trigger is fire-and-forget from the submitter's perspective; results
// arrive later through the webhook callback.
type WorkflowTrigger interface {
	Trigger(ctx context.Context, in TriggerInput) error
}

// DraftInput carries everything the language model needs to draft a message.
type DraftInput struct {
	SenderName     string
	SenderRole     string
	SenderCompany  string
	SenderInterest string
	RecipientName  string
	School         string
	Company        string
	Commonalities  []string
}

// MessageDrafter generates an outreach message draft via an external
// text-generation API.
type MessageDrafter interface {
	DraftMessage(ctx context.Context, in DraftInput) (string, error)
}

// ProfileExtractor turns free-text biography into a structured sender profile.
type ProfileExtractor interface {
	ExtractProfile(ctx context.Context, bioText string) (*model.SenderProfile, error)
}

// SessionStore persists and retrieves bearer-token sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}
