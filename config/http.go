package config

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// BaseURL is the public base URL of the application
	// (e.g., "https://app.example.com"). Used when registering callback
	// URLs with the external workflow engine.
	BaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`

	// MaxUploadBytes caps the size of batch upload files accepted
	// by the parse-file endpoint.
	MaxUploadBytes int64 `env:"HTTP_MAX_UPLOAD_BYTES" envDefault:"5242880"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	const defaultMaxUpload = 5 << 20
	if h.MaxUploadBytes <= 0 {
		h.MaxUploadBytes = defaultMaxUpload
	}
}
