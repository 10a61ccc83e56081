// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and EYWA_ environment variables on top.
// - External errors are wrapped with this package's sentinel errors.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Seed fixes the sample-data random source. Zero means time-seeded.
	Seed int64 `koanf:"seed"`

	// InjectIntervalMS is the period of the synthetic event injector.
	InjectIntervalMS int `koanf:"inject_interval_ms"`

	// InjectChance is the per-tick probability of injecting an event.
	InjectChance float64 `koanf:"inject_chance"`

	// LeadBonusThreshold is the lead count at which a branch earns its bonus point.
	LeadBonusThreshold int `koanf:"lead_bonus_threshold"`

	// FeedBufferSize bounds how far a live subscriber may lag.
	FeedBufferSize int `koanf:"feed_buffer_size"`

	// DedupeSize bounds the join-form duplicate tracker.
	DedupeSize int `koanf:"dedupe_size"`

	// CORSAllowedOrigins is a comma separated origin list for /api.
	CORSAllowedOrigins string `koanf:"cors_allowed_origins"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":9080",
		Seed:               0,
		InjectIntervalMS:   5_000,
		InjectChance:       0.3,
		LeadBonusThreshold: 4,
		FeedBufferSize:     16,
		DedupeSize:         10_000,
		CORSAllowedOrigins: "*",
	}
}

// InjectInterval returns InjectIntervalMS as a duration.
func (c *Config) InjectInterval() time.Duration {
	return time.Duration(c.InjectIntervalMS) * time.Millisecond
}

// AllowedOrigins splits CORSAllowedOrigins, dropping blanks.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.InjectIntervalMS <= 0:
		return fmt.Errorf("%w: inject_interval_ms must be positive, got %d", ErrInvalidConfig, c.InjectIntervalMS)
	case c.InjectChance < 0 || c.InjectChance > 1:
		return fmt.Errorf("%w: inject_chance must be within [0,1], got %g", ErrInvalidConfig, c.InjectChance)
	case c.LeadBonusThreshold < 0:
		return fmt.Errorf("%w: lead_bonus_threshold must not be negative, got %d", ErrInvalidConfig, c.LeadBonusThreshold)
	case c.FeedBufferSize < 0:
		return fmt.Errorf("%w: feed_buffer_size must not be negative, got %d", ErrInvalidConfig, c.FeedBufferSize)
	}
	return nil
}
