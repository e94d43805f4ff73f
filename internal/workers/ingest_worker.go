package workers

import (
	"context"
	"sync"

	"eventify_backend/internal/logger"
)

// IngestFunc processes one event's image ingestion.
type IngestFunc func(ctx context.Context, eventID string) error

// IngestWorker runs image ingestion jobs off a bounded queue. Enqueue never
// blocks a request handler: when the queue is full the job is dropped and
// logged, and a later read of the event will queue it again.
type IngestWorker struct {
	ingest  IngestFunc
	queue   chan string
	workers int

	mu      sync.Mutex
	pending map[string]bool
}

func NewIngestWorker(ingest IngestFunc, queueSize, workers int) *IngestWorker {
	if queueSize <= 0 {
		queueSize = 256
	}
	if workers <= 0 {
		workers = 2
	}
	return &IngestWorker{
		ingest:  ingest,
		queue:   make(chan string, queueSize),
		workers: workers,
		pending: make(map[string]bool),
	}
}

// Start launches the worker goroutines. They drain the queue until ctx is
// canceled.
func (w *IngestWorker) Start(ctx context.Context) {
	for i := 0; i < w.workers; i++ {
		go w.run(ctx)
	}
}

// Enqueue schedules ingestion for the event. Duplicate IDs already waiting
// in the queue are coalesced, since ingestion re-reads current state anyway.
func (w *IngestWorker) Enqueue(eventID string) {
	w.mu.Lock()
	if w.pending[eventID] {
		w.mu.Unlock()
		return
	}
	w.pending[eventID] = true
	w.mu.Unlock()

	select {
	case w.queue <- eventID:
	default:
		w.clearPending(eventID)
		logger.Warn("ingestion queue full, dropping job", "event_id", eventID)
	}
}

func (w *IngestWorker) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			logger.Info("ingest worker stopped")
			return
		case eventID := <-w.queue:
			w.clearPending(eventID)
			if err := w.ingest(ctx, eventID); err != nil {
				logger.Error("image ingestion failed", "event_id", eventID, "error", err.Error())
			}
		}
	}
}

func (w *IngestWorker) clearPending(eventID string) {
	w.mu.Lock()
	delete(w.pending, eventID)
	w.mu.Unlock()
}
