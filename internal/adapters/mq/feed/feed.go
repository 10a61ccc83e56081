// Package feed fans out "event appended" updates to live page subscribers.
//
// Publishing never blocks: a subscriber whose buffer is full misses the
// update. Every update carries the full stats, so the next one it does
// receive brings it back in sync.
package feed

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/okian/eywa/internal/domain/model"
	"github.com/okian/eywa/pkg/metrics"
)

const defaultBufferSize = 16

// Publisher is the write side used by the app state container.
type Publisher interface {
	Publish(ctx context.Context, u model.Update) int
}

// Subscription is one live listener.
type Subscription struct {
	id string
	ch chan model.Update
}

// ID returns the subscription id.
func (s *Subscription) ID() string { return s.id }

// Updates returns the receive channel. It is closed on Unsubscribe or
// when the hub closes.
func (s *Subscription) Updates() <-chan model.Update { return s.ch }

// Hub implements Publisher over a set of buffered channels.
type Hub struct {
	mu         sync.RWMutex
	subs       map[string]*Subscription
	bufferSize int
	closed     bool
}

var _ Publisher = (*Hub)(nil)

// NewHub creates an empty hub.
func NewHub(opts ...Option) *Hub {
	h := &Hub{
		subs:       make(map[string]*Subscription),
		bufferSize: defaultBufferSize,
	}
	for _, opt := range opts {
		opt(h)
	}
	metrics.UpdateFeedSubscribers(0)
	return h
}

// Subscribe registers a new listener.
func (h *Hub) Subscribe(_ context.Context) (*Subscription, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, ErrClosed
	}
	s := &Subscription{id: uuid.NewString(), ch: make(chan model.Update, h.bufferSize)}
	h.subs[s.id] = s
	metrics.UpdateFeedSubscribers(len(h.subs))
	return s, nil
}

// Unsubscribe removes a listener and closes its channel. Unknown ids are ignored.
func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.subs[id]
	if !ok {
		return
	}
	delete(h.subs, id)
	close(s.ch)
	metrics.UpdateFeedSubscribers(len(h.subs))
}

// Publish offers u to every subscriber and returns how many accepted it.
func (h *Hub) Publish(ctx context.Context, u model.Update) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return 0
	}
	delivered := 0
	for _, s := range h.subs {
		if ctx.Err() != nil {
			break
		}
		select {
		case s.ch <- u:
			delivered++
		default:
			metrics.RecordFeedDropped()
		}
	}
	metrics.RecordFeedPublished()
	return delivered
}

// Len returns the number of subscribers.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close closes every subscriber channel. It is safe to call more than once.
func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	for id, s := range h.subs {
		close(s.ch)
		delete(h.subs, id)
	}
	metrics.UpdateFeedSubscribers(0)
	return nil
}
