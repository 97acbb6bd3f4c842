package config

import (
	"strings"
	"time"
)

// LLMConfig contains configuration for the external language-model API
// used for message drafting and profile extraction.
type LLMConfig struct {
	// BaseURL is the chat-completions API root (DeepSeek-compatible).
	BaseURL string `env:"LLM_BASE_URL" envDefault:"https://api.deepseek.com/v1"`

	// APIKey authenticates requests. Drafting falls back to a fixed
	// template when unset.
	APIKey string `env:"LLM_API_KEY"`

	// Model is the chat model name.
	Model string `env:"LLM_MODEL" envDefault:"deepseek-chat"`

	// Temperature for extraction requests. Drafting uses its own value.
	Temperature float64 `env:"LLM_TEMPERATURE" envDefault:"0.3"`

	// MaxTokens caps completion length.
	MaxTokens int `env:"LLM_MAX_TOKENS" envDefault:"500"`

	// Timeout bounds each API call.
	Timeout time.Duration `env:"LLM_TIMEOUT" envDefault:"30s"`
}

// Sanitize applies guardrails to LLM configuration values.
func (l *LLMConfig) Sanitize() {
	l.BaseURL = strings.TrimRight(strings.TrimSpace(l.BaseURL), "/")
	if l.Model == "" {
		l.Model = "deepseek-chat"
	}
	if l.Temperature < 0 || l.Temperature > 2 {
		l.Temperature = 0.3
	}
	if l.MaxTokens <= 0 {
		l.MaxTokens = 500
	}
	if l.Timeout <= 0 {
		l.Timeout = 30 * time.Second
	}
}
