package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lexintake/lexintake/internal/models"
)

// fileLine is the durable JSONL record: identifiers and event type only.
// Metadata is deliberately dropped so free-form fields can never leak PII
// into long-lived storage.
type fileLine struct {
	EventType  string    `json:"event_type"`
	FirmID     string    `json:"firm_id,omitempty"`
	ActorID    string    `json:"actor_id,omitempty"`
	EntityType string    `json:"entity_type,omitempty"`
	EntityID   string    `json:"entity_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// FileSink appends one JSON record per line to an append-only log file.
// All writes are best-effort: failures are logged at debug level and
// swallowed, never surfaced to the request path.
type FileSink struct {
	mu   sync.Mutex
	file *os.File
	log  *logrus.Logger
}

// NewFileSink opens (creating if needed) the append-only log at path.
func NewFileSink(path string, log *logrus.Logger) (*FileSink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}

	return &FileSink{file: f, log: log}, nil
}

// Append writes one identifier-only line for the event.
func (s *FileSink) Append(e models.AuditEvent) {
	line, err := json.Marshal(fileLine{
		EventType:  e.EventType,
		FirmID:     e.FirmID,
		ActorID:    e.ActorID,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		CreatedAt:  e.CreatedAt,
	})
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.file.Write(append(line, '\n')); err != nil {
		s.log.WithError(err).Debug("audit file append failed")
	}
}

// Close closes the underlying file.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.file.Close()
}
