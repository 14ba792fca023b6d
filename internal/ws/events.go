package ws

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lexintake/lexintake/internal/models"
)

// Event is the structured message sent to WebSocket clients.
type Event struct {
	Type   string          `json:"type"`
	ID     uint64          `json:"id"`
	FirmID string          `json:"-"`
	Data   json.RawMessage `json:"data"`
	Time   time.Time       `json:"time"`
}

// SubscribeMsg is sent by the client on connect to request event replay.
type SubscribeMsg struct {
	Type        string `json:"type"`
	LastEventID uint64 `json:"last_event_id"`
}

// ResetMsg tells the client to do a full refresh (requested events too old).
type ResetMsg struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

// intakeEvent is the compact payload pushed to dashboards when an intake
// lands. It carries enough to render a list row; the dashboard fetches the
// full record on click. Narrative text never goes over the socket.
type intakeEvent struct {
	ID             string `json:"id"`
	Slug           string `json:"slug,omitempty"`
	Channel        string `json:"channel"`
	ClientName     string `json:"client_name"`
	Classification string `json:"classification,omitempty"`
	Badge          string `json:"badge,omitempty"`
	Status         string `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

// PublishIntake broadcasts an intake.created event to the owning firm's
// dashboard clients. Implements the intake service's event publisher.
func (h *Hub) PublishIntake(firmID string, in *models.Intake) {
	evt := intakeEvent{
		ID:         in.ID,
		Slug:       in.Slug,
		Channel:    in.Channel,
		ClientName: in.ClientName,
		Status:     string(in.Status),
		CreatedAt:  in.CreatedAt,
	}
	if in.Enrichment != nil {
		evt.Classification = in.Enrichment.Classification
	}
	if in.Limitation != nil {
		evt.Badge = string(in.Limitation.Badge)
	}

	data, err := json.Marshal(evt)
	if err != nil {
		h.log.WithError(err).Error("failed to marshal intake event")
		return
	}

	h.BroadcastEvent("intake.created", firmID, data)
}

// EventSequence tracks monotonic event IDs per firm.
type EventSequence struct {
	mu       sync.Mutex
	counters map[string]*atomic.Uint64
}

// NewEventSequence creates a new EventSequence.
func NewEventSequence() *EventSequence {
	return &EventSequence{
		counters: make(map[string]*atomic.Uint64),
	}
}

// Next returns the next sequence number for a firm.
func (es *EventSequence) Next(firmID string) uint64 {
	es.mu.Lock()
	counter, ok := es.counters[firmID]
	if !ok {
		counter = &atomic.Uint64{}
		es.counters[firmID] = counter
	}
	es.mu.Unlock()

	return counter.Add(1)
}
