package workers

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngestWorker_ProcessesJobs(t *testing.T) {
	var mu sync.Mutex
	var done []string
	processed := make(chan struct{}, 10)

	w := NewIngestWorker(func(_ context.Context, eventID string) error {
		mu.Lock()
		done = append(done, eventID)
		mu.Unlock()
		processed <- struct{}{}
		return nil
	}, 8, 2)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	w.Enqueue("e1")
	w.Enqueue("e2")

	for i := 0; i < 2; i++ {
		select {
		case <-processed:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for jobs")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []string{"e1", "e2"}, done)
}

func TestIngestWorker_CoalescesDuplicates(t *testing.T) {
	// No worker running, so enqueued jobs stay in the channel.
	w := NewIngestWorker(func(_ context.Context, _ string) error { return nil }, 8, 1)

	w.Enqueue("e1")
	w.Enqueue("e1")
	w.Enqueue("e1")
	w.Enqueue("e2")

	assert.Len(t, w.queue, 2, "duplicate pending IDs collapse into one job")
}

func TestIngestWorker_DropsWhenFull(t *testing.T) {
	w := NewIngestWorker(func(_ context.Context, _ string) error { return nil }, 1, 1)

	w.Enqueue("e1")
	w.Enqueue("e2") // queue of one is full, dropped

	require.Len(t, w.queue, 1)

	// A dropped ID is not stuck in the pending set and can be re-enqueued
	// once there is room.
	<-w.queue
	w.clearPending("e1")
	w.Enqueue("e2")
	assert.Len(t, w.queue, 1)
}

func TestIngestWorker_StopsOnCancel(t *testing.T) {
	started := make(chan struct{})
	w := NewIngestWorker(func(_ context.Context, _ string) error {
		close(started)
		return nil
	}, 8, 1)

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)

	w.Enqueue("e1")
	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("worker never picked up the job")
	}

	cancel()
	// After cancel the worker exits; an enqueued job must simply sit in
	// the queue without panicking.
	time.Sleep(50 * time.Millisecond)
	w.Enqueue("e2")
	assert.Len(t, w.queue, 1)
}
