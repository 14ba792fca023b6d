package audit

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/lexintake/lexintake/internal/metrics"
	"github.com/lexintake/lexintake/internal/models"
)

// Recorder is the durable, queryable audit store the worker writes to
// (the Postgres store in internal/store when a database is configured).
type Recorder interface {
	RecordAudit(ctx context.Context, e models.AuditEvent) error
}

// Worker buffers audit events and writes them to the durable store from a
// single goroutine, keeping store latency off the request path.
type Worker struct {
	recorder Recorder
	log      *logrus.Logger
	jobs     chan models.AuditEvent
}

// NewWorker creates a Worker with the given queue capacity.
func NewWorker(recorder Recorder, log *logrus.Logger, queueSize int) *Worker {
	if queueSize <= 0 {
		queueSize = 1000
	}
	return &Worker{
		recorder: recorder,
		log:      log,
		jobs:     make(chan models.AuditEvent, queueSize),
	}
}

// Enqueue adds an event. Non-blocking; drops the event if the queue is
// full, since audit writes must never stall a request.
func (w *Worker) Enqueue(e models.AuditEvent) {
	select {
	case w.jobs <- e:
		metrics.AuditQueueDepth.Set(float64(len(w.jobs)))
	default:
		w.log.WithField("event_type", e.EventType).Warn("audit queue full, dropping event")
	}
}

// Run processes events until the context is cancelled, then drains
// whatever remains in the queue.
func (w *Worker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.drain()
			return
		case e := <-w.jobs:
			w.process(e)
		}
	}
}

func (w *Worker) drain() {
	for {
		select {
		case e := <-w.jobs:
			w.process(e)
		default:
			return
		}
	}
}

func (w *Worker) process(e models.AuditEvent) {
	if err := w.recorder.RecordAudit(context.Background(), e); err != nil {
		w.log.WithError(err).Warn("durable audit write failed")
	}
	metrics.AuditQueueDepth.Set(float64(len(w.jobs)))
}
