// Package checker verifies a running landing service from the outside:
// it re-aggregates the served event list and compares it with the served stats.
package checker

import (
	"errors"
	"time"

	"github.com/okian/eywa/internal/domain/model"
)

// Defaults for the check run.
const (
	DefaultBaseURL  = "http://localhost:9080"
	DefaultTimeout  = 10 * time.Second
	DefaultRounds   = 1
	DefaultInterval = 5 * time.Second
	maxAttempts     = 3
)

// Sentinel errors.
var (
	ErrUnhealthy    = errors.New("service unhealthy")
	ErrStatus       = errors.New("unexpected status")
	ErrVerification = errors.New("verification failed")
	ErrInvalidInput = errors.New("invalid checker config")
)

// Config holds configuration for a check run.
type Config struct {
	BaseURL            string        // Base URL of the service
	Timeout            time.Duration // HTTP request timeout
	Rounds             int           // Number of fetch-and-verify rounds
	Interval           time.Duration // Pause between rounds
	LeadBonusThreshold int           // Must match the server's policy
	Verbose            bool          // Log every check
}

// NewConfig returns a Config with defaults.
func NewConfig() *Config {
	return &Config{
		BaseURL:            DefaultBaseURL,
		Timeout:            DefaultTimeout,
		Rounds:             DefaultRounds,
		Interval:           DefaultInterval,
		LeadBonusThreshold: 4,
	}
}

// Round is what one fetch observed.
type Round struct {
	Events []model.Event
	Served model.Stats
	Local  model.Stats
}

// Report summarizes a check run.
type Report struct {
	Rounds    []Round
	Problems  []error
	StartTime time.Time
	Duration  time.Duration
}

// OK reports whether every check passed.
func (r *Report) OK() bool { return len(r.Problems) == 0 }
