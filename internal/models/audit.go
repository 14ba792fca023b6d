package models

import "time"

// AuditEvent is a single audit trail entry. EventType follows a dotted
// taxonomy (e.g. "intake.created", "consent.changed"). Metadata must be
// PII-safe before it reaches the trail; the durable sink drops it entirely
// and keeps identifiers only.
type AuditEvent struct {
	ID         int64          `json:"id"`
	EventType  string         `json:"event_type"`
	FirmID     string         `json:"-"`
	ActorID    string         `json:"actor_id,omitempty"`
	EntityType string         `json:"entity_type,omitempty"`
	EntityID   string         `json:"entity_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// AuditQueryOpts holds filters for querying the durable audit log.
type AuditQueryOpts struct {
	EntityType string
	EntityID   string
	EventType  string
	Since      *time.Time
	Limit      int
	Offset     int
}
