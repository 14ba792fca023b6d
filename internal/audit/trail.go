// Package audit implements the append-only audit trail.
//
// Every state-changing action in the pipeline is recorded through a Trail,
// which fans out to up to three sinks: a bounded in-memory ring for
// same-process inspection, an append-only JSONL file carrying identifiers
// only, and (when a database is configured) a durable store fed through an
// async worker. All sinks are best-effort; Record never blocks on I/O and
// never fails the caller.
package audit

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lexintake/lexintake/internal/models"
)

// Trail is the audit entry point handed to services and handlers.
type Trail struct {
	ring   *Ring
	sink   *FileSink // nil when no audit file is configured
	worker *Worker   // nil when no durable store is configured
	log    *logrus.Logger
	now    func() time.Time
}

// NewTrail creates a Trail. sink and worker may be nil.
func NewTrail(ring *Ring, sink *FileSink, worker *Worker, log *logrus.Logger) *Trail {
	return &Trail{ring: ring, sink: sink, worker: worker, log: log, now: time.Now}
}

// Record logs one audit event. Fire-and-forget: metadata must already be
// PII-safe, and no sink error ever reaches the caller.
func (t *Trail) Record(eventType, firmID, actorID, entityType, entityID string, metadata map[string]any) {
	e := models.AuditEvent{
		EventType:  eventType,
		FirmID:     firmID,
		ActorID:    actorID,
		EntityType: entityType,
		EntityID:   entityID,
		Metadata:   metadata,
		CreatedAt:  t.now().UTC(),
	}

	t.ring.Append(e)

	if t.sink != nil {
		t.sink.Append(e)
	}

	if t.worker != nil {
		t.worker.Enqueue(e)
	}
}

// Recent returns up to n of the newest mirrored events for a firm.
func (t *Trail) Recent(firmID string, n int) []models.AuditEvent {
	return t.ring.Recent(firmID, n)
}
