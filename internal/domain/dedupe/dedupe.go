// Package dedupe tracks keys that were already seen.
package dedupe

import (
	"context"
	"strings"
	"sync"

	"github.com/okian/eywa/pkg/metrics"
)

const defaultMaxSize = 10_000

// Deduper remembers keys so repeated submissions can be recognized.
type Deduper interface {
	// SeenAndRecord atomically checks if key was seen and records it if not.
	// Returns true if key was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, key string) bool

	// Unrecord forgets a key, e.g. when the work it guarded failed.
	Unrecord(ctx context.Context, key string)

	Size() int64
}

// NormalizeEmail lowercases and trims an address so that case variants
// count as the same key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// inMemoryDeduper keeps keys in a map and, when bounded, their insertion
// order in a ring so the oldest one can be evicted in O(1).
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]int // key -> slot in order, -1 when unbounded
	order   []string       // ring of keys; "" marks a freed slot
	next    int            // next slot to write
	maxSize int
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{maxSize: defaultMaxSize}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]int)
	if d.maxSize > 0 {
		d.order = make([]string, d.maxSize)
	}
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[key]; ok {
		return true
	}

	if d.maxSize <= 0 {
		d.seen[key] = -1
		metrics.UpdateDedupeSize(len(d.seen))
		return false
	}

	// The slot we are about to overwrite holds the oldest key.
	if old, ok := d.slotKey(d.next); ok {
		delete(d.seen, old)
	}
	d.order[d.next] = key
	d.seen[key] = d.next
	d.next = (d.next + 1) % d.maxSize
	metrics.UpdateDedupeSize(len(d.seen))
	return false
}

// slotKey returns the live key stored at slot i, if any.
func (d *inMemoryDeduper) slotKey(i int) (string, bool) {
	k := d.order[i]
	if slot, ok := d.seen[k]; ok && slot == i {
		return k, true
	}
	return "", false
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	slot, ok := d.seen[key]
	if !ok {
		return
	}
	delete(d.seen, key)
	if slot >= 0 {
		d.order[slot] = ""
	}
	metrics.UpdateDedupeSize(len(d.seen))
}

func (d *inMemoryDeduper) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(len(d.seen))
}
