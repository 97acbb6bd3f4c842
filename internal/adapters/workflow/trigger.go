// Package workflow provides the client for the external search workflow
// engine. The engine is opaque: we hand it a batch and it reports results
// later through the webhook callback, so the trigger itself is
// fire-and-forget.
package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/linkscout/linkscout-api/config"
	"github.com/linkscout/linkscout-api/internal/ports"
)

// SecretHeader carries the shared secret on trigger requests so the
// workflow can authenticate us.
const SecretHeader = "X-Workflow-Secret"

// Config captures the subset of workflow trigger behaviour we need.
type Config struct {
	TriggerURL string
	Secret     string
	Timeout    time.Duration
	Client     *http.Client
	Logger     *slog.Logger
}

// Client dispatches job batches to the external workflow trigger endpoint.
type Client struct {
	triggerURL string
	secret     string
	client     *http.Client
	logger     *slog.Logger
}

var _ ports.WorkflowTrigger = (*Client)(nil)

// NewClient builds a workflow trigger client from app configuration.
func NewClient(cfg Config) (*Client, error) {
	triggerURL := strings.TrimSpace(cfg.TriggerURL)
	if triggerURL == "" {
		return nil, errors.New("workflow trigger url is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		triggerURL: triggerURL,
		secret:     cfg.Secret,
		client:     hc,
		logger:     logger.With("component", "workflow_trigger"),
	}, nil
}

// FromAppConfig builds a Client from the workflow section of AppConfig.
func FromAppConfig(cfg config.WorkflowConfig, logger *slog.Logger) (*Client, error) {
	return NewClient(Config{
		TriggerURL: cfg.TriggerURL,
		Secret:     cfg.TriggerSecret,
		Timeout:    cfg.TriggerTimeout,
		Logger:     logger,
	})
}

// Trigger posts the batch to the workflow engine. A non-2xx response is an
// error; callers treat any error as non-fatal for job creation.
func (c *Client) Trigger(ctx context.Context, in ports.TriggerInput) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode trigger payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.triggerURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build trigger request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SecretHeader, c.secret)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("post trigger: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("workflow trigger returned status %d", resp.StatusCode)
	}

	c.logger.DebugContext(ctx, "workflow triggered", "job_id", in.JobID, "names", len(in.Names))
	return nil
}
