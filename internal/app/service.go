// Package service owns the application state: the append-only event list
// and the stats derived from it. It is the only place that mutates either.
package service

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/okian/eywa/internal/adapters/injector"
	"github.com/okian/eywa/internal/adapters/mq/feed"
	"github.com/okian/eywa/internal/adapters/repository"
	"github.com/okian/eywa/internal/domain/dedupe"
	"github.com/okian/eywa/internal/domain/generator"
	"github.com/okian/eywa/internal/domain/layout"
	"github.com/okian/eywa/internal/domain/model"
	"github.com/okian/eywa/internal/domain/scoring"
	"github.com/okian/eywa/internal/domain/stats"
	"github.com/okian/eywa/pkg/logger"
	"github.com/okian/eywa/pkg/metrics"
)

const (
	defaultInjectInterval = 5 * time.Second
	defaultInjectChance   = 0.3
	defaultFeedBuffer     = 16
	defaultDedupeSize     = 10_000
	injectorStopTimeout   = 5 * time.Second
)

// Service implements the dependencies required by the HTTP API.
//
// A single RWMutex guards the event list, the stats snapshot and the
// generator. AppendEvent recomputes before releasing the lock, so no
// reader ever sees a list that disagrees with its stats.
type Service struct {
	mu sync.RWMutex

	store   *repository.MemoryStore
	stats   model.Stats
	gen     *generator.Generator
	policy  *scoring.Policy
	hub     *feed.Hub
	deduper dedupe.Deduper
	inj     *injector.Injector

	// Configuration
	seed           int64
	genOpts        []generator.Option
	injectInterval time.Duration
	injectChance   float64
	injectEnabled  bool
	feedBufferSize int
	dedupeSize     int

	// State
	started bool
	stopped bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	logger logger.Logger
}

// New constructs a Service. Call Start to seed it and begin injection.
func New(opts ...Option) *Service {
	s := &Service{
		policy:         scoring.Default(),
		injectInterval: defaultInjectInterval,
		injectChance:   defaultInjectChance,
		injectEnabled:  true,
		feedBufferSize: defaultFeedBuffer,
		dedupeSize:     defaultDedupeSize,
		logger:         logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	genOpts := s.genOpts
	if s.seed != 0 {
		//nolint:gosec // sample data only
		genOpts = append([]generator.Option{generator.WithRand(rand.New(rand.NewSource(s.seed)))}, genOpts...)
	}
	s.gen = generator.New(genOpts...)
	s.store = repository.NewMemoryStore(repository.WithCapacity(64), repository.WithStrictOrder(true))
	s.hub = feed.NewHub(feed.WithBufferSize(s.feedBufferSize))
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.inj = injector.New(s, s,
		injector.WithInterval(s.injectInterval),
		injector.WithChance(s.injectChance),
		injector.WithLogger(s.logger.Named("injector")),
	)
	return s
}

// Start seeds the initial sample events (unless events were already
// appended) and starts the injector.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return ErrStopped
	}
	if s.started {
		return nil
	}

	s.logger.Info(ctx, "starting eywa service...")

	if s.store.Count(ctx) == 0 {
		for _, e := range s.gen.GenerateInitial() {
			if err := s.store.Append(ctx, e); err != nil {
				return err
			}
			metrics.RecordEventAppended(string(e.Branch), string(e.Kind))
		}
	}
	s.recomputeLocked()

	if s.injectEnabled {
		runCtx, cancel := context.WithCancel(ctx)
		s.cancel = cancel
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.inj.Run(runCtx)
		}()
	}

	s.started = true
	s.logger.Info(ctx, "eywa service started",
		logger.Int("events", s.store.Count(ctx)),
		logger.Int("totalPoints", s.stats.Total.Points),
		logger.Bool("injection", s.injectEnabled),
		logger.Duration("injectInterval", s.injectInterval),
	)
	return nil
}

// Stop halts injection and closes live subscriptions. It is idempotent;
// a stopped service cannot be started again.
func (s *Service) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	wasStarted := s.started
	s.started = false
	cancel := s.cancel
	s.mu.Unlock()

	ctx := context.Background()
	if wasStarted {
		s.logger.Info(ctx, "stopping eywa service...")
	}

	stopCtx, done := context.WithTimeout(ctx, injectorStopTimeout)
	defer done()
	if err := s.inj.Shutdown(stopCtx); err != nil {
		s.logger.Warn(ctx, "injector shutdown", logger.Error(err))
	}
	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
	_ = s.hub.Close()

	if wasStarted {
		s.logger.Info(ctx, "eywa service stopped")
	}
}

// AppendEvent is the single mutator: it appends e, recomputes the stats
// and then notifies live subscribers.
func (s *Service) AppendEvent(ctx context.Context, e model.Event) error {
	s.mu.Lock()
	if err := s.store.Append(ctx, e); err != nil {
		s.mu.Unlock()
		return err
	}
	st := s.recomputeLocked()
	s.mu.Unlock()

	s.appended(ctx, e, st)
	return nil
}

// AppendGenerated generates the next sample event and appends it.
func (s *Service) AppendGenerated(ctx context.Context) (model.Event, error) {
	s.mu.Lock()
	e := s.gen.GenerateOne(s.store.Count(ctx))
	if err := s.store.Append(ctx, e); err != nil {
		s.mu.Unlock()
		return model.Event{}, err
	}
	st := s.recomputeLocked()
	s.mu.Unlock()

	s.appended(ctx, e, st)
	return e, nil
}

func (s *Service) appended(ctx context.Context, e model.Event, st model.Stats) {
	metrics.RecordEventAppended(string(e.Branch), string(e.Kind))
	n := s.hub.Publish(ctx, model.Update{Event: e, Stats: st})
	s.logger.Debug(ctx, "event appended",
		logger.Int("id", e.ID),
		logger.String("branch", string(e.Branch)),
		logger.String("kind", string(e.Kind)),
		logger.Int("subscribers", n),
	)
}

// Float64 draws from the shared sample-data random stream. The injector
// uses it so that one seed reproduces a whole session.
func (s *Service) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen.Float64()
}

// Recompute rebuilds the stats from the full event list and returns them.
func (s *Service) Recompute(_ context.Context) model.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recomputeLocked()
}

// recomputeLocked must be called with s.mu held for writing.
func (s *Service) recomputeLocked() model.Stats {
	start := time.Now()
	s.stats = stats.Aggregate(s.store.List(context.Background()), s.policy)
	metrics.RecordRecomputeLatency(float64(time.Since(start).Microseconds()) / 1000)

	metrics.UpdateBranchStats(string(model.BranchMoscow), s.stats.Moscow.Leads, s.stats.Moscow.Payments, s.stats.Moscow.Points)
	metrics.UpdateBranchStats(string(model.BranchWest), s.stats.West.Leads, s.stats.West.Payments, s.stats.West.Points)
	metrics.UpdateBranchStats("total", s.stats.Total.Leads, s.stats.Total.Payments, s.stats.Total.Points)
	return s.stats
}

// Snapshot returns the events and the stats computed from exactly those events.
func (s *Service) Snapshot(ctx context.Context) model.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.Snapshot{Events: s.store.List(ctx), Stats: s.stats}
}

// Stats returns the current stats.
func (s *Service) Stats(_ context.Context) model.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

// Leads returns every event in append order.
func (s *Service) Leads(ctx context.Context) []model.Event {
	return s.store.List(ctx)
}

// Lead returns one event or repository.ErrNotFound.
func (s *Service) Lead(ctx context.Context, id int) (model.Event, error) {
	return s.store.Get(ctx, id)
}

// Markers returns the tree markers for the current event list.
func (s *Service) Markers(ctx context.Context) []layout.Marker {
	return layout.Markers(s.store.List(ctx))
}

// Subscribe registers a live listener for appended events.
func (s *Service) Subscribe(ctx context.Context) (*feed.Subscription, error) {
	return s.hub.Subscribe(ctx)
}

// Unsubscribe removes a live listener.
func (s *Service) Unsubscribe(id string) {
	s.hub.Unsubscribe(id)
}

// Join acknowledges a join-mission submission. The request is expected to
// be validated already. Repeated emails are reported as duplicates.
func (s *Service) Join(ctx context.Context, req model.JoinRequest) (model.JoinResult, error) {
	res := model.JoinResult{ID: uuid.NewString()}
	if s.deduper.SeenAndRecord(ctx, dedupe.NormalizeEmail(req.Email)) {
		res.Duplicate = true
		metrics.RecordJoinRequest("duplicate")
		s.logger.Info(ctx, "join request repeated",
			logger.String("id", res.ID),
			logger.String("department", req.Department),
		)
		return res, nil
	}
	metrics.RecordJoinRequest("accepted")
	s.logger.Info(ctx, "join request received",
		logger.String("id", res.ID),
		logger.String("name", req.Name),
		logger.String("email", req.Email),
		logger.String("department", req.Department),
	)
	return res, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	return map[string]interface{}{
		"started":        s.started,
		"events":         s.store.Count(ctx),
		"subscribers":    s.hub.Len(),
		"dedupeSize":     s.deduper.Size(),
		"injectInterval": s.injectInterval.String(),
		"injection":      s.injectEnabled,
	}
}
