package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// blockingProcessor parks every batch until released, counting entries and
// the maximum number of batches in flight at once.
type blockingProcessor struct {
	mu       sync.Mutex
	calls    int
	inFlight int
	maxSeen  int
	release  chan struct{}
}

func newBlockingProcessor() *blockingProcessor {
	return &blockingProcessor{release: make(chan struct{})}
}

func (p *blockingProcessor) ProcessPending(ctx context.Context, limit int) (domain.OutboxSummary, error) {
	p.mu.Lock()
	p.calls++
	p.inFlight++
	if p.inFlight > p.maxSeen {
		p.maxSeen = p.inFlight
	}
	p.mu.Unlock()

	<-p.release

	p.mu.Lock()
	p.inFlight--
	p.mu.Unlock()
	return domain.OutboxSummary{}, nil
}

func TestWorkerSkipsTickWhileBatchRunning(t *testing.T) {
	processor := newBlockingProcessor()
	w := NewOutboxWorker(processor, 10*time.Millisecond, 5, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	// Let several ticks fire while the first batch is parked.
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		processor.mu.Lock()
		calls := processor.calls
		processor.mu.Unlock()
		if calls >= 1 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(50 * time.Millisecond)

	close(processor.release)
	w.Stop()

	processor.mu.Lock()
	defer processor.mu.Unlock()
	if processor.calls == 0 {
		t.Fatal("processor never invoked")
	}
	if processor.maxSeen > 1 {
		t.Errorf("overlapping batches observed: %d", processor.maxSeen)
	}
}

type countingProcessor struct {
	mu    sync.Mutex
	calls int
	limit int
}

func (p *countingProcessor) ProcessPending(ctx context.Context, limit int) (domain.OutboxSummary, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	p.limit = limit
	return domain.OutboxSummary{Processed: 1}, nil
}

func TestWorkerRunsBatchesOnInterval(t *testing.T) {
	processor := &countingProcessor{}
	w := NewOutboxWorker(processor, 10*time.Millisecond, 7, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		processor.mu.Lock()
		calls := processor.calls
		processor.mu.Unlock()
		if calls >= 3 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	w.Stop()

	processor.mu.Lock()
	defer processor.mu.Unlock()
	if processor.calls < 3 {
		t.Fatalf("batches = %d, want at least 3", processor.calls)
	}
	if processor.limit != 7 {
		t.Errorf("batch size = %d, want 7", processor.limit)
	}
}

func TestWorkerStopIsIdempotentAcrossContextCancel(t *testing.T) {
	processor := &countingProcessor{}
	w := NewOutboxWorker(processor, time.Hour, 1, nil)

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		w.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return after context cancel")
	}
}
