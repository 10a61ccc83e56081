package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/eywa/internal/domain/model"
	"github.com/okian/eywa/pkg/metrics"
)

// MemoryStore is an in-memory Store. Reads run in parallel; appends are
// serialized.
type MemoryStore struct {
	mu       sync.RWMutex
	events   []model.Event
	byID     map[int]int // id -> index in events
	capacity int
	strict   bool
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore constructs an empty store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{capacity: 32}
	for _, opt := range opts {
		opt(s)
	}
	s.events = make([]model.Event, 0, s.capacity)
	s.byID = make(map[int]int, s.capacity)
	return s
}

// Append implements Store.Append.
func (s *MemoryStore) Append(_ context.Context, e model.Event) error {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryAppendLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	if err := e.Validate(); err != nil {
		metrics.RecordErrorByComponent("repository", "invalid_event")
		return err
	}

	s.mu.Lock()
	last := 0
	if n := len(s.events); n > 0 {
		last = s.events[n-1].ID
	}
	if e.ID <= last || (s.strict && e.ID != last+1) {
		s.mu.Unlock()
		metrics.RecordErrorByComponent("repository", "out_of_order")
		return fmt.Errorf("%w: got %d after %d", ErrOutOfOrder, e.ID, last)
	}
	s.byID[e.ID] = len(s.events)
	s.events = append(s.events, e)
	count := len(s.events)
	s.mu.Unlock()

	metrics.UpdateRepositoryRecordsTotal(count)
	return nil
}

// List implements Store.List.
func (s *MemoryStore) List(_ context.Context) []model.Event {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Event, len(s.events))
	copy(out, s.events)
	return out
}

// Get implements Store.Get.
func (s *MemoryStore) Get(_ context.Context, id int) (model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.byID[id]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return model.Event{}, ErrNotFound
	}
	return s.events[i], nil
}

// Count implements Store.Count.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}
