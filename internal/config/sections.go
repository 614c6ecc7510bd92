package config

import (
	"fmt"
	"regexp"
)

// LoggingConfig controls log verbosity and encoding.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level"`
	// Format is "json" or "text".
	Format string `json:"format"`
}

// SetDefaults applies sane defaults.
func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "json"
	}
}

// Validate checks mandatory fields.
func (c LoggingConfig) Validate() error {
	switch c.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown level %s", c.Level)
	}
	if c.Format != "json" && c.Format != "text" {
		return fmt.Errorf("unknown format %s", c.Format)
	}
	return nil
}

// EngineConfig tunes the simulation loop.
type EngineConfig struct {
	// Horizon stops a run before the first event later than this time.
	// Zero means no horizon.
	Horizon float64 `json:"horizon"`
}

// Validate rejects a negative horizon. The zero value needs no defaults.
func (c EngineConfig) Validate() error {
	if c.Horizon < 0 {
		return fmt.Errorf("horizon must not be negative, got %v", c.Horizon)
	}
	return nil
}

// StoreConfig locates the SQLite event log. An empty path disables it.
type StoreConfig struct {
	Path string `json:"path"`
}

// MetricsConfig controls the Prometheus observer.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled"`
	Namespace string `json:"namespace"`
}

var metricName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// SetDefaults applies sane defaults.
func (c *MetricsConfig) SetDefaults() {
	if c.Namespace == "" {
		c.Namespace = "tidewater"
	}
}

// Validate checks the namespace is a valid metric name prefix.
func (c MetricsConfig) Validate() error {
	if !metricName.MatchString(c.Namespace) {
		return fmt.Errorf("invalid namespace %q", c.Namespace)
	}
	return nil
}
