package audit

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lexintake/lexintake/internal/models"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return log
}

func TestRing_EvictsOldestAtCapacity(t *testing.T) {
	r := NewRing(3)

	for i := 0; i < 5; i++ {
		r.Append(models.AuditEvent{FirmID: "f", EventType: "intake.created", EntityID: string(rune('a' + i))})
	}

	if r.Len() != 3 {
		t.Fatalf("ring len = %d, want 3", r.Len())
	}

	got := r.Recent("f", 10)
	if len(got) != 3 {
		t.Fatalf("recent = %d entries, want 3", len(got))
	}
	// Newest first; oldest two ("a", "b") evicted.
	if got[0].EntityID != "e" || got[2].EntityID != "c" {
		t.Errorf("recent order = %s..%s, want e..c", got[0].EntityID, got[2].EntityID)
	}
}

func TestRing_RecentFiltersByFirm(t *testing.T) {
	r := NewRing(10)
	r.Append(models.AuditEvent{FirmID: "firm-a", EventType: "intake.created"})
	r.Append(models.AuditEvent{FirmID: "firm-b", EventType: "intake.created"})
	r.Append(models.AuditEvent{FirmID: "firm-a", EventType: "consent.changed"})

	got := r.Recent("firm-a", 10)
	if len(got) != 2 {
		t.Fatalf("got %d events for firm-a, want 2", len(got))
	}
	for _, e := range got {
		if e.FirmID != "firm-a" {
			t.Errorf("cross-firm event leaked: %+v", e)
		}
	}

	if len(r.Recent("firm-c", 10)) != 0 {
		t.Error("unknown firm returned events")
	}
}

func TestFileSink_WritesIdentifiersOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "audit.jsonl")

	sink, err := NewFileSink(path, testLogger())
	if err != nil {
		t.Fatalf("NewFileSink: %v", err)
	}
	defer sink.Close()

	sink.Append(models.AuditEvent{
		EventType:  "intake.created",
		FirmID:     "firm-a",
		ActorID:    "user-1",
		EntityType: "Intake",
		EntityID:   "intake-1",
		Metadata:   map[string]any{"client_email": "secret@example.com"},
		CreatedAt:  time.Now().UTC(),
	})

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		t.Fatal("no line written")
	}
	line := scanner.Text()

	if strings.Contains(line, "secret@example.com") {
		t.Errorf("metadata leaked into durable sink: %s", line)
	}

	var rec map[string]any
	if err := json.Unmarshal([]byte(line), &rec); err != nil {
		t.Fatalf("line is not valid JSON: %v", err)
	}
	if rec["event_type"] != "intake.created" || rec["firm_id"] != "firm-a" {
		t.Errorf("unexpected record: %v", rec)
	}
	if _, ok := rec["metadata"]; ok {
		t.Error("metadata field present in durable record")
	}
}

type mockRecorder struct {
	mu     sync.Mutex
	events []models.AuditEvent
	err    error
}

func (m *mockRecorder) RecordAudit(_ context.Context, e models.AuditEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	return m.err
}

func (m *mockRecorder) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

func TestWorker_ProcessesEnqueuedEvents(t *testing.T) {
	rec := &mockRecorder{}
	w := NewWorker(rec, testLogger(), 10)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	w.Enqueue(models.AuditEvent{EventType: "intake.created"})
	w.Enqueue(models.AuditEvent{EventType: "consent.changed"})

	deadline := time.Now().Add(2 * time.Second)
	for rec.count() < 2 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	if rec.count() != 2 {
		t.Errorf("recorded %d events, want 2", rec.count())
	}
}

func TestWorker_RecorderErrorIsSwallowed(t *testing.T) {
	rec := &mockRecorder{err: errors.New("db down")}
	w := NewWorker(rec, testLogger(), 10)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	// Must not panic or block the enqueuer.
	w.Enqueue(models.AuditEvent{EventType: "intake.created"})

	deadline := time.Now().Add(time.Second)
	for rec.count() < 1 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if rec.count() != 1 {
		t.Error("event never reached recorder")
	}
}

func TestTrail_RecordFansOut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	sink, err := NewFileSink(path, testLogger())
	if err != nil {
		t.Fatalf("NewFileSink: %v", err)
	}
	defer sink.Close()

	rec := &mockRecorder{}
	w := NewWorker(rec, testLogger(), 10)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	trail := NewTrail(NewRing(10), sink, w, testLogger())
	trail.Record("upload.created", "firm-a", "user-1", "Upload", "u1", map[string]any{"size": 123})

	recent := trail.Recent("firm-a", 5)
	if len(recent) != 1 {
		t.Fatalf("ring has %d events, want 1", len(recent))
	}
	if recent[0].EventType != "upload.created" || recent[0].Metadata["size"] != 123 {
		t.Errorf("ring event = %+v", recent[0])
	}

	deadline := time.Now().Add(time.Second)
	for rec.count() < 1 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if rec.count() != 1 {
		t.Error("durable recorder never received the event")
	}

	data, err := os.ReadFile(path)
	if err != nil || len(data) == 0 {
		t.Errorf("file sink empty (err=%v)", err)
	}
}

func TestTrail_NilSinksAreSafe(t *testing.T) {
	trail := NewTrail(NewRing(10), nil, nil, testLogger())

	trail.Record("intake.created", "firm-a", "", "Intake", "i1", nil)

	if len(trail.Recent("firm-a", 5)) != 1 {
		t.Error("event not mirrored")
	}
}
