package audit

import (
	"sync"

	"github.com/lexintake/lexintake/internal/models"
)

// DefaultRingCapacity is the bounded size of the in-memory mirror.
const DefaultRingCapacity = 200

// Ring is a bounded in-memory mirror of recent audit events for
// same-process inspection. When full, the oldest entry is evicted.
type Ring struct {
	mu       sync.RWMutex
	entries  []models.AuditEvent
	capacity int
	nextID   int64
}

// NewRing creates a Ring holding at most capacity events.
func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		capacity = DefaultRingCapacity
	}
	return &Ring{capacity: capacity}
}

// Append stores an event, assigning it a monotonically increasing ID and
// evicting the oldest entry when the ring is full.
func (r *Ring) Append(e models.AuditEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	e.ID = r.nextID

	r.entries = append(r.entries, e)
	if len(r.entries) > r.capacity {
		r.entries = r.entries[len(r.entries)-r.capacity:]
	}
}

// Recent returns up to n of the newest events for firmID, newest first.
// Events are copied out so callers never hold a reference into the ring.
func (r *Ring) Recent(firmID string, n int) []models.AuditEvent {
	if n <= 0 {
		n = DefaultRingCapacity
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.AuditEvent, 0, n)
	for i := len(r.entries) - 1; i >= 0 && len(out) < n; i-- {
		if r.entries[i].FirmID == firmID {
			out = append(out, r.entries[i])
		}
	}

	return out
}

// Len returns the current number of buffered events.
func (r *Ring) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.entries)
}
