package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// Notification is the delivery unit handed to a Notifier.
type Notification struct {
	EntryID     string             `json:"entry_id"`
	Topic       domain.OutboxTopic `json:"topic"`
	TicketID    string             `json:"ticket_id"`
	RecipientID string             `json:"recipient_id"`
	Subject     string             `json:"subject"`
	Body        string             `json:"body"`
}

// Notifier delivers a single notification. Implementations own transport and
// rendering; the caller only observes success or failure.
type Notifier interface {
	Deliver(ctx context.Context, n Notification) error
}

// LogNotifier logs deliveries instead of sending email. Template rendering
// and SMTP transport live outside this service.
type LogNotifier struct {
	logger *zap.Logger
	from   string
}

// NewLogNotifier builds the notifier.
func NewLogNotifier(logger *zap.Logger, from string) *LogNotifier {
	return &LogNotifier{logger: logger, from: from}
}

// Deliver logs the notification and reports success.
func (n *LogNotifier) Deliver(ctx context.Context, notification Notification) error {
	n.logger.Info("deliver notification",
		zap.String("from", n.from),
		zap.String("entry_id", notification.EntryID),
		zap.String("topic", string(notification.Topic)),
		zap.String("ticket_id", notification.TicketID),
		zap.String("recipient_id", notification.RecipientID),
		zap.String("subject", notification.Subject))
	return nil
}
