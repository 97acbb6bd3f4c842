package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ServiceMode represents the available service modes.
type ServiceMode string

const (
	// ServiceModeHTTP runs the HTTP server.
	ServiceModeHTTP ServiceMode = "http"
	// ServiceModeReaper runs the in-process timeout reaper loop.
	// The externally scheduled sweep endpoint works regardless of this mode.
	ServiceModeReaper ServiceMode = "reaper"
)

// ValidServiceModes returns all valid service mode names.
func ValidServiceModes() []ServiceMode {
	return []ServiceMode{ServiceModeHTTP, ServiceModeReaper}
}

// ParseServices parses a comma-delimited string of service names and returns the enabled services.
// It validates that all service names are valid and returns an error if any are invalid.
func ParseServices(servicesStr string) (map[ServiceMode]bool, error) {
	services := make(map[ServiceMode]bool)

	if servicesStr == "" {
		return services, errors.New("at least one service must be specified")
	}

	parts := strings.Split(servicesStr, ",")
	for _, part := range parts {
		serviceName := strings.TrimSpace(part)
		if serviceName == "" {
			continue
		}

		mode := ServiceMode(serviceName)
		switch mode {
		case ServiceModeHTTP, ServiceModeReaper:
			services[mode] = true
		default:
			return nil, fmt.Errorf(
				"invalid service name: %q (valid options: http, reaper)",
				serviceName,
			)
		}
	}

	if len(services) == 0 {
		return nil, errors.New("at least one service must be specified")
	}

	return services, nil
}

// ReaperConfig contains configuration for the timeout reaper.
type ReaperConfig struct {
	// Interval between sweeps when running the in-process reaper loop.
	Interval time.Duration `env:"REAPER_INTERVAL" envDefault:"1m"`

	// Window is how long a job may sit in pending/processing before the
	// sweep force-fails it.
	Window time.Duration `env:"REAPER_WINDOW" envDefault:"10m"`

	// BatchSize caps rows updated per sweep statement.
	BatchSize int `env:"REAPER_BATCH_SIZE" envDefault:"1000"`
}

// Sanitize applies guardrails to reaper configuration values.
func (r *ReaperConfig) Sanitize() {
	if r.Interval <= 0 {
		r.Interval = time.Minute
	}
	if r.Window <= 0 {
		r.Window = 10 * time.Minute
	}
	if r.BatchSize <= 0 {
		r.BatchSize = 1000
	}
}
