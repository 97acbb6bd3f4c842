package config

import (
	"strings"
	"time"
)

// WorkflowConfig contains configuration for the external workflow engine
// that performs profile searches and reports back via webhook.
type WorkflowConfig struct {
	// TriggerURL is the workflow trigger endpoint. When empty, job
	// submission falls back to a locally simulated completion (dev only).
	TriggerURL string `env:"WORKFLOW_TRIGGER_URL"`

	// TriggerSecret is sent with trigger requests so the workflow can
	// authenticate us.
	TriggerSecret string `env:"WORKFLOW_TRIGGER_SECRET"`

	// CallbackSecret is the shared secret the workflow must present on
	// result callbacks (X-Workflow-Secret header).
	CallbackSecret string `env:"WORKFLOW_CALLBACK_SECRET"`

	// SweepSecret authenticates the externally scheduled timeout sweep
	// (Authorization: Bearer <secret>). Distinct from CallbackSecret.
	SweepSecret string `env:"WORKFLOW_SWEEP_SECRET"`

	// TriggerTimeout bounds the fire-and-forget trigger request.
	TriggerTimeout time.Duration `env:"WORKFLOW_TRIGGER_TIMEOUT" envDefault:"10s"`

	// SimulatedDelay is how long the simulated local completion waits
	// before marking a job completed when no TriggerURL is configured.
	SimulatedDelay time.Duration `env:"WORKFLOW_SIMULATED_DELAY" envDefault:"3s"`
}

// Sanitize applies guardrails to workflow configuration values.
func (w *WorkflowConfig) Sanitize() {
	w.TriggerURL = strings.TrimSpace(w.TriggerURL)
	if w.TriggerTimeout <= 0 {
		w.TriggerTimeout = 10 * time.Second
	}
	if w.SimulatedDelay <= 0 {
		w.SimulatedDelay = 3 * time.Second
	}
}
