// Package llm implements message drafting and profile extraction against a
// DeepSeek-compatible chat-completions API.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/linkscout/linkscout-api/config"
	"github.com/linkscout/linkscout-api/internal/domain/model"
	"github.com/linkscout/linkscout-api/internal/ports"
)

// Config for the chat-completions client.
type Config struct {
	APIKey      string
	BaseURL     string // default https://api.deepseek.com/v1
	Model       string // e.g. "deepseek-chat"
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// Client talks to a DeepSeek-compatible chat-completions endpoint.
type Client struct {
	cfg        Config
	httpClient *http.Client
	log        *slog.Logger
}

var (
	_ ports.MessageDrafter   = (*Client)(nil)
	_ ports.ProfileExtractor = (*Client)(nil)
)

// NewClient builds a client, applying defaults for unset fields.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.deepseek.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "deepseek-chat"
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = 0.3
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 500
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger.With("component", "llm"),
	}
}

// FromAppConfig adapts the application LLM config.
func FromAppConfig(cfg config.LLMConfig, logger *slog.Logger) *Client {
	return NewClient(Config{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		Timeout:     cfg.Timeout,
	}, logger)
}

// Configured reports whether an API key is present. Callers fall back to
// templated output when it is not.
func (c *Client) Configured() bool {
	return c.cfg.APIKey != ""
}

// DraftMessage generates a connection-request draft capped at 250 characters.
func (c *Client) DraftMessage(ctx context.Context, in ports.DraftInput) (string, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.log.Info("llm.draft.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"recipient", in.RecipientName,
		"commonalities", len(in.Commonalities),
	)

	body := map[string]any{
		"model":       c.cfg.Model,
		"temperature": 0.7,
		"max_tokens":  c.cfg.MaxTokens,
		"messages": []map[string]any{
			{"role": "system", "content": draftSystemPrompt},
			{"role": "user", "content": buildDraftPrompt(in)},
		},
	}

	content, err := c.chat(ctx, body)
	if err != nil {
		c.log.Error("llm.draft.error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", err
	}

	draft := strings.TrimSpace(stripCodeFence(content))
	draft = strings.Trim(draft, `"`)
	if len(draft) > 250 {
		draft = truncateAtWord(draft, 250)
	}

	c.log.Info("llm.draft.ok",
		"req_id", rid,
		"chars", len(draft),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return draft, nil
}

// ExtractProfile extracts structured sender-profile data from free text.
// The model output is validated against a JSON schema before use.
func (c *Client) ExtractProfile(ctx context.Context, bioText string) (*model.SenderProfile, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.log.Info("llm.extract.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"temp", c.cfg.Temperature,
		"text_len", len(bioText),
	)

	body := map[string]any{
		"model":       c.cfg.Model,
		"temperature": c.cfg.Temperature,
		"max_tokens":  c.cfg.MaxTokens,
		"messages": []map[string]any{
			{"role": "system", "content": extractSystemPrompt},
			{"role": "user", "content": "Extract profile data from this text:\n\n" + bioText},
		},
	}

	content, err := c.chat(ctx, body)
	if err != nil {
		c.log.Error("llm.extract.http_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	rawContent := []byte(strings.TrimSpace(stripCodeFence(content)))

	if err := validateAgainstSchema(senderProfileSchema(), rawContent); err != nil {
		c.log.Error("llm.extract.schema_validation_failed",
			"req_id", rid, "error", err, "content", string(rawContent),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	var out model.SenderProfile
	if err := json.Unmarshal(rawContent, &out); err != nil {
		c.log.Error("llm.extract.unmarshal_failed",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, fmt.Errorf("unmarshal profile: %w", err)
	}

	c.log.Info("llm.extract.ok",
		"req_id", rid,
		"education", len(out.Education),
		"experience", len(out.Experience),
		"current_role", out.CurrentRole,
		"interests", len(out.Interests),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return &out, nil
}

// chat posts a chat-completions request and returns the first choice's content.
func (c *Client) chat(ctx context.Context, body map[string]any) (string, error) {
	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	raw, err := c.post(ctx, endpoint, body)
	if err != nil {
		return "", err
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if len(cc.Choices) == 0 {
		return "", fmt.Errorf("no choices in chat response")
	}
	return cc.Choices[0].Message.Content, nil
}

func (c *Client) post(ctx context.Context, url string, body map[string]any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("llm http error: %w", err)
	}
	defer func(rc io.ReadCloser) {
		if err := rc.Close(); err != nil {
			c.log.Warn("llm response body close error", "error", err)
		}
	}(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		buf := new(bytes.Buffer)
		_, _ = buf.ReadFrom(resp.Body)
		return nil, fmt.Errorf("llm status %d: %s", resp.StatusCode, buf.String())
	}

	buf := new(bytes.Buffer)
	_, _ = buf.ReadFrom(resp.Body)
	return buf.Bytes(), nil
}

// stripCodeFence removes a surrounding markdown code fence if present.
// Models sometimes wrap output in ```json blocks despite instructions.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```JSON")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// truncateAtWord cuts s to at most max bytes, preferring a word boundary.
func truncateAtWord(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := s[:max]
	if i := strings.LastIndex(cut, " "); i > max/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:")
}
