package ws

import (
	"sync"
	"time"
)

// Replay limits. A dashboard that was offline longer than the max age
// re-syncs via the REST list endpoints instead of replaying the gap.
const (
	defaultBufferMaxLen = 1000
	defaultBufferMaxAge = 1 * time.Hour
)

// EventBuffer keeps a firm's recent pipeline events (new intakes, consent
// flips, status changes) so a dashboard that reconnects with a
// Last-Event-ID can catch up without missing or duplicating rows.
// Entries hold the same PII-free projections the hub broadcasts live.
type EventBuffer struct {
	mu     sync.RWMutex
	events map[string][]Event
	maxAge time.Duration
	maxLen int
	stop   chan struct{}
}

// NewEventBuffer creates an EventBuffer with the given limits and starts
// a background goroutine that drops firms with no event newer than the
// max age, so idle firms do not pin memory between business hours.
func NewEventBuffer(maxLen int, maxAge time.Duration) *EventBuffer {
	eb := &EventBuffer{
		events: make(map[string][]Event),
		maxAge: maxAge,
		maxLen: maxLen,
		stop:   make(chan struct{}),
	}
	go eb.cleanupLoop()
	return eb
}

// Stop halts the background cleanup goroutine.
func (eb *EventBuffer) Stop() {
	close(eb.stop)
}

func (eb *EventBuffer) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-eb.stop:
			return
		case <-ticker.C:
			eb.evictStaleFirms()
		}
	}
}

func (eb *EventBuffer) evictStaleFirms() {
	cutoff := time.Now().Add(-eb.maxAge)

	eb.mu.Lock()
	defer eb.mu.Unlock()

	for firm, buf := range eb.events {
		if len(buf) == 0 || buf[len(buf)-1].Time.Before(cutoff) {
			delete(eb.events, firm)
		}
	}
}

// Append records a broadcast event for later replay, evicting entries
// past the age or length limits. Sequence IDs are assigned by the hub
// before the event reaches the buffer, so entries arrive in ID order.
func (eb *EventBuffer) Append(firmID string, event *Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	buf := eb.events[firmID]

	// Evict expired events from the front.
	cutoff := time.Now().Add(-eb.maxAge)
	start := 0
	for start < len(buf) && buf[start].Time.Before(cutoff) {
		start++
	}
	if start > 0 {
		buf = buf[start:]
	}

	// Append and enforce max length.
	buf = append(buf, *event)
	if len(buf) > eb.maxLen {
		buf = buf[len(buf)-eb.maxLen:]
	}

	eb.events[firmID] = buf
}

// Since returns the firm's buffered events with ID > lastEventID, the
// set a reconnecting dashboard missed. Returns nil when there is
// nothing newer; callers compare lastEventID against OldestID to tell
// "caught up" from "gap too old to replay".
func (eb *EventBuffer) Since(firmID string, lastEventID uint64) []Event {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	buf := eb.events[firmID]
	if len(buf) == 0 {
		return nil
	}

	// Binary search for the first event with ID > lastEventID.
	lo, hi := 0, len(buf)
	for lo < hi {
		mid := (lo + hi) / 2
		if buf[mid].ID <= lastEventID {
			lo = mid + 1
		} else {
			hi = mid
		}
	}

	if lo >= len(buf) {
		return nil
	}

	// Return a copy to avoid holding the lock via slice reference.
	result := make([]Event, len(buf)-lo)
	copy(result, buf[lo:])
	return result
}

// OldestID returns the oldest buffered event ID for a firm, or 0 if
// empty. A reconnect whose Last-Event-ID predates this has a replay gap
// and must do a full re-sync.
func (eb *EventBuffer) OldestID(firmID string) uint64 {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	buf := eb.events[firmID]
	if len(buf) == 0 {
		return 0
	}
	return buf[0].ID
}
