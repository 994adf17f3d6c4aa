package ws

import (
	"sync"
	"time"

	"github.com/mammothos/mamoart-backend/internal/adapter"
)

// rateWindow is the span of the sliding message window
const rateWindow = time.Minute

// originRecord tracks the open connections and recent messages of one origin
type originRecord struct {
	connections int
	messages    []time.Time
}

// originRegistry enforces per-origin connection and message limits
type originRegistry struct {
	mu             sync.Mutex
	clock          adapter.Clock
	maxConnections int
	maxMessages    int
	records        map[string]*originRecord
}

func newOriginRegistry(clock adapter.Clock, maxConnections int, maxMessages int) *originRegistry {
	return &originRegistry{
		clock:          clock,
		maxConnections: maxConnections,
		maxMessages:    maxMessages,
		records:        make(map[string]*originRecord),
	}
}

// Acquire reserves a connection slot for origin. It reports false, reserving
// nothing, when the origin already holds the maximum number of connections.
func (r *originRegistry) Acquire(origin string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[origin]
	if !ok {
		rec = &originRecord{}
		r.records[origin] = rec
	}
	if rec.connections >= r.maxConnections {
		return false
	}
	rec.connections++
	return true
}

// Release frees a connection slot. The record is dropped once the origin has no connections left.
func (r *originRegistry) Release(origin string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[origin]
	if !ok {
		return
	}
	rec.connections--
	if rec.connections <= 0 {
		delete(r.records, origin)
	}
}

// Allow records a message from origin and reports whether the origin is
// still within its sliding one minute message budget
func (r *originRegistry) Allow(origin string) bool {
	if r.maxMessages <= 0 {
		return true
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[origin]
	if !ok {
		// Messages from an origin without a live connection are not tracked
		return true
	}

	now := r.clock.Now()
	kept := rec.messages[:0]
	for _, ts := range rec.messages {
		if now.Sub(ts) <= rateWindow {
			kept = append(kept, ts)
		}
	}
	rec.messages = append(kept, now)

	return len(rec.messages) <= r.maxMessages
}

// Connections returns the number of open connections of origin
func (r *originRegistry) Connections(origin string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec, ok := r.records[origin]; ok {
		return rec.connections
	}
	return 0
}
