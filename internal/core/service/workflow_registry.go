package service

import (
	"sync"
	"time"
)

const defaultWorkflowTTL = 24 * time.Hour

// WorkflowRegistry keeps booking workflows addressable by a client-chosen
// idempotency key, so a retried or duplicated submission lands on the same
// workflow instead of creating a second booking.
type WorkflowRegistry struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]registryEntry
}

type registryEntry struct {
	wf      *BookingWorkflow
	created time.Time
}

// NewWorkflowRegistry returns a registry that forgets workflows after ttl.
// A ttl <= 0 uses 24h.
func NewWorkflowRegistry(ttl time.Duration) *WorkflowRegistry {
	if ttl <= 0 {
		ttl = defaultWorkflowTTL
	}
	return &WorkflowRegistry{ttl: ttl, now: time.Now, entries: make(map[string]registryEntry)}
}

// Acquire returns the workflow registered under key, creating it with
// create when absent or expired. created reports whether create was called.
func (r *WorkflowRegistry) Acquire(key string, create func() *BookingWorkflow) (wf *BookingWorkflow, created bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.evictLocked(now)

	if e, ok := r.entries[key]; ok {
		return e.wf, false
	}
	wf = create()
	r.entries[key] = registryEntry{wf: wf, created: now}
	return wf, true
}

// Len is the number of live workflows.
func (r *WorkflowRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evictLocked(r.now())
	return len(r.entries)
}

func (r *WorkflowRegistry) evictLocked(now time.Time) {
	for k, e := range r.entries {
		if now.Sub(e.created) >= r.ttl {
			delete(r.entries, k)
		}
	}
}
