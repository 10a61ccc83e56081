// Package injector periodically appends synthetic events so the page
// looks alive.
package injector

import (
	"time"

	"github.com/okian/eywa/pkg/logger"
)

// Option applies a configuration option to the Injector.
type Option func(*Injector)

// WithInterval sets the tick period.
func WithInterval(d time.Duration) Option {
	return func(i *Injector) {
		if d > 0 {
			i.interval = d
		}
	}
}

// WithChance sets the probability of injecting on each tick.
func WithChance(p float64) Option {
	return func(i *Injector) {
		if p >= 0 && p <= 1 {
			i.cut = 1 - p
		}
	}
}

// WithLogger sets a custom logger for the injector.
func WithLogger(l logger.Logger) Option {
	return func(i *Injector) {
		if l != nil {
			i.logger = l
		}
	}
}
