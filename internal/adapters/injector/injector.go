package injector

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/eywa/internal/domain/model"
	"github.com/okian/eywa/pkg/logger"
	"github.com/okian/eywa/pkg/metrics"
)

// Defaults: every 5 seconds, inject when the draw exceeds 0.7.
const (
	defaultInterval = 5 * time.Second
	defaultCut      = 0.7
)

// Tick outcomes, also used as metric labels.
const (
	OutcomeInjected = "injected"
	OutcomeSkipped  = "skipped"
	OutcomeError    = "error"
)

// Source is the random draw consulted on every tick.
type Source interface {
	Float64() float64
}

// Appender generates and appends one event.
type Appender interface {
	AppendGenerated(ctx context.Context) (model.Event, error)
}

// Injector runs a repeating timer. There is no backpressure: a tick that
// fires while the previous append is still running is simply coalesced by
// the ticker.
type Injector struct {
	app      Appender
	rng      Source
	interval time.Duration
	cut      float64
	logger   logger.Logger

	started  atomic.Bool
	stopOnce sync.Once
	shutdown chan struct{}
	done     chan struct{}
}

// New creates an injector. It does nothing until Run is called.
func New(app Appender, rng Source, opts ...Option) *Injector {
	i := &Injector{
		app:      app,
		rng:      rng,
		interval: defaultInterval,
		cut:      defaultCut,
		logger:   logger.Nop(),
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Interval returns the tick period.
func (i *Injector) Interval() time.Duration { return i.interval }

// Run blocks until ctx is canceled or Shutdown is called.
func (i *Injector) Run(ctx context.Context) {
	if !i.started.CompareAndSwap(false, true) {
		return
	}
	defer close(i.done)

	ticker := time.NewTicker(i.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-i.shutdown:
			return
		case <-ticker.C:
			if _, err := i.Tick(ctx); err != nil {
				i.logger.Error(ctx, "inject failed", logger.Error(err))
			}
		}
	}
}

// Tick draws once and appends a generated event when the draw exceeds the
// cut. It reports whether an event was appended.
func (i *Injector) Tick(ctx context.Context) (bool, error) {
	if i.rng.Float64() <= i.cut {
		metrics.RecordInjectorTick(OutcomeSkipped)
		return false, nil
	}
	e, err := i.app.AppendGenerated(ctx)
	if err != nil {
		metrics.RecordInjectorTick(OutcomeError)
		metrics.RecordErrorByComponent("injector", "append_failed")
		return false, fmt.Errorf("append generated event: %w", err)
	}
	metrics.RecordInjectorTick(OutcomeInjected)
	i.logger.Debug(ctx, "event injected",
		logger.Int("id", e.ID),
		logger.String("branch", string(e.Branch)),
		logger.String("kind", string(e.Kind)),
	)
	return true, nil
}

// Shutdown stops the loop and waits for it to exit.
func (i *Injector) Shutdown(ctx context.Context) error {
	i.stopOnce.Do(func() { close(i.shutdown) })
	if !i.started.Load() {
		return nil
	}
	select {
	case <-i.done:
		return nil
	case <-ctx.Done():
		i.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}
