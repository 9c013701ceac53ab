package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/notify"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

const defaultOutboxBatchSize = 10

// OutboxService owns the delivery side of the notification outbox. Writers
// insert entries through the repository inside their own transactions; this
// service claims pending entries in batches and records each outcome.
type OutboxService struct {
	tx       TxRunner
	outbox   repository.OutboxRepository
	notifier notify.Notifier
	retry    notify.RetryPolicy
	logger   *zap.Logger
}

// NewOutboxService constructs the service. A nil retry policy means retry
// forever, matching the reference behavior.
func NewOutboxService(tx TxRunner, outbox repository.OutboxRepository, notifier notify.Notifier, retry notify.RetryPolicy, logger *zap.Logger) *OutboxService {
	if retry == nil {
		retry = notify.RetryForever{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OutboxService{
		tx:       tx,
		outbox:   outbox,
		notifier: notifier,
		retry:    retry,
		logger:   logger,
	}
}

// ListPending returns undelivered entries, oldest first.
func (s *OutboxService) ListPending(ctx context.Context, limit int) ([]domain.OutboxEntry, error) {
	if limit <= 0 {
		limit = defaultOutboxBatchSize
	}
	entries, err := s.outbox.ListPending(ctx, limit)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

// ProcessPending runs one dispatcher batch: claim up to limit pending
// entries, attempt delivery for each, and record the outcome. The whole
// batch runs in one transaction, so a crash mid-batch retries the entries
// rather than losing them. A delivery failure only increments the entry's
// attempt count; it never fails the batch.
func (s *OutboxService) ProcessPending(ctx context.Context, limit int) (domain.OutboxSummary, error) {
	if limit <= 0 {
		limit = defaultOutboxBatchSize
	}

	var summary domain.OutboxSummary
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		entries, err := s.outbox.ClaimPending(ctx, limit)
		if err != nil {
			return err
		}
		for i := range entries {
			entry := &entries[i]
			if !s.retry.Eligible(entry.Attempts) {
				continue
			}
			notification := notify.Notification{
				EntryID:     entry.ID,
				Topic:       entry.Topic,
				TicketID:    entry.TicketID,
				RecipientID: entry.RecipientID,
				Subject:     entry.Payload.Subject,
				Body:        entry.Payload.Body,
			}
			if err := s.notifier.Deliver(ctx, notification); err != nil {
				if err := s.outbox.IncrementAttempts(ctx, entry.ID); err != nil {
					return err
				}
				summary.Failed++
				s.logger.Warn("notification delivery failed",
					zap.String("entry_id", entry.ID),
					zap.String("topic", string(entry.Topic)),
					zap.Int("attempts", entry.Attempts+1),
					zap.Error(err))
				continue
			}
			if err := s.outbox.MarkDelivered(ctx, entry.ID, time.Now()); err != nil {
				return err
			}
			summary.Processed++
		}
		return nil
	})
	if err != nil {
		return domain.OutboxSummary{}, apperrors.MapError(err)
	}
	return summary, nil
}
