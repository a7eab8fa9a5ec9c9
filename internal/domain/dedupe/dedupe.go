// Package dedupe defines the interface for idempotency tracking.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

// Deduper records seen event IDs to ensure at-most-once processing.
type Deduper interface {
	// SeenAndRecord atomically checks if id was seen and records it if not.
	// Returns true if id was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord removes an ID from the seen list, allowing it to be retried.
	// Use only when an event was marked as seen but failed to be processed
	// (e.g., queue backpressure).
	Unrecord(ctx context.Context, id string)

	Size() int64
}

// inMemoryDeduper implements Deduper with a map plus a FIFO eviction ring.
// Bounded mode (maxSize > 0) evicts the oldest recorded ID once full;
// unbounded mode (maxSize <= 0) is a plain map with no eviction.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	ring    []string // insertion order, oldest at head
	head    int      // index of the oldest live entry in ring
	maxSize int
	size    atomic.Int64
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: 100_000, // default max size
	}
	for _, opt := range opts {
		opt(d)
	}

	d.seen = make(map[string]struct{})
	if d.maxSize > 0 {
		d.ring = make([]string, 0, d.maxSize)
	}
	return d
}

// SeenAndRecord atomically checks if id was seen and records it if not.
func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[id]; exists {
		return true
	}

	if d.maxSize > 0 {
		if len(d.seen) >= d.maxSize {
			d.evictOldest()
		}
		d.ring = append(d.ring, id)
		d.compact()
	}
	d.seen[id] = struct{}{}
	d.size.Add(1)
	return false
}

// Unrecord removes an ID from the seen list, allowing it to be retried.
// The ring entry stays behind as a tombstone; evictOldest skips it.
func (d *inMemoryDeduper) Unrecord(_ context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[id]; exists {
		delete(d.seen, id)
		d.size.Add(-1)
	}
}

// evictOldest drops the oldest live ID. Caller holds d.mu.
func (d *inMemoryDeduper) evictOldest() {
	for d.head < len(d.ring) {
		id := d.ring[d.head]
		d.head++
		if _, live := d.seen[id]; live {
			delete(d.seen, id)
			d.size.Add(-1)
			return
		}
	}
}

// compact reclaims ring space consumed by evictions and tombstones.
// Caller holds d.mu.
func (d *inMemoryDeduper) compact() {
	if d.head > 0 && d.head >= len(d.ring)/2 {
		d.ring = append(d.ring[:0], d.ring[d.head:]...)
		d.head = 0
	}
}

// Size returns the current number of entries in the deduper.
func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}
