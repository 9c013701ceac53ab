package worker

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// OutboxProcessor runs one delivery batch.
type OutboxProcessor interface {
	ProcessPending(ctx context.Context, limit int) (domain.OutboxSummary, error)
}

// OutboxWorker polls the notification outbox on a fixed interval. A tick
// that fires while the previous batch still runs is skipped rather than
// queued, so batches never overlap.
type OutboxWorker struct {
	processor OutboxProcessor
	interval  time.Duration
	batchSize int
	logger    *zap.Logger

	busy atomic.Bool
	stop chan struct{}
	done chan struct{}
}

// NewOutboxWorker constructs the worker.
func NewOutboxWorker(processor OutboxProcessor, interval time.Duration, batchSize int, logger *zap.Logger) *OutboxWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	if batchSize <= 0 {
		batchSize = 10
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OutboxWorker{
		processor: processor,
		interval:  interval,
		batchSize: batchSize,
		logger:    logger,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start launches the polling loop in its own goroutine.
func (w *OutboxWorker) Start(ctx context.Context) {
	go w.loop(ctx)
}

func (w *OutboxWorker) loop(ctx context.Context) {
	defer close(w.done)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("outbox worker started",
		zap.Duration("interval", w.interval),
		zap.Int("batch_size", w.batchSize))

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		case <-ticker.C:
			go w.runBatch(ctx)
		}
	}
}

func (w *OutboxWorker) runBatch(ctx context.Context) {
	if !w.busy.CompareAndSwap(false, true) {
		w.logger.Debug("outbox batch still running, tick skipped")
		return
	}
	defer w.busy.Store(false)

	summary, err := w.processor.ProcessPending(ctx, w.batchSize)
	if err != nil {
		w.logger.Error("outbox batch failed", zap.Error(err))
		return
	}
	if summary.Processed > 0 || summary.Failed > 0 {
		w.logger.Info("outbox batch complete",
			zap.Int("processed", summary.Processed),
			zap.Int("failed", summary.Failed))
	}
}

// Stop signals the loop to exit and waits for it.
func (w *OutboxWorker) Stop() {
	close(w.stop)
	<-w.done
}
