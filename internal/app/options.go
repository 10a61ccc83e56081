package service

import (
	"time"

	"github.com/okian/eywa/internal/domain/generator"
	"github.com/okian/eywa/internal/domain/scoring"
	"github.com/okian/eywa/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSeed fixes the sample-data random source. Zero keeps a time seed.
func WithSeed(seed int64) Option {
	return func(s *Service) {
		s.seed = seed
	}
}

// WithGeneratorOptions passes extra options to the sample-data generator,
// e.g. a fixed clock in tests.
func WithGeneratorOptions(opts ...generator.Option) Option {
	return func(s *Service) {
		s.genOpts = append(s.genOpts, opts...)
	}
}

// WithPolicy sets the scoring policy used for recomputation.
func WithPolicy(p *scoring.Policy) Option {
	return func(s *Service) {
		if p != nil {
			s.policy = p
		}
	}
}

// WithInjectInterval sets how often the injector ticks.
func WithInjectInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.injectInterval = d
		}
	}
}

// WithInjectChance sets the per-tick injection probability.
func WithInjectChance(p float64) Option {
	return func(s *Service) {
		if p >= 0 && p <= 1 {
			s.injectChance = p
		}
	}
}

// WithInjection turns the periodic injector on or off.
func WithInjection(enabled bool) Option {
	return func(s *Service) {
		s.injectEnabled = enabled
	}
}

// WithFeedBufferSize sets the per-subscriber update buffer.
func WithFeedBufferSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.feedBufferSize = size
		}
	}
}

// WithDedupeSize sets how many join emails are remembered.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}
