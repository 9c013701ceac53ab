package domain

import "time"

// OutboxTopic tags the kind of notification an outbox entry carries.
type OutboxTopic string

const (
	TopicTicketCreated  OutboxTopic = "TICKET_CREATED"
	TopicTicketAssigned OutboxTopic = "TICKET_ASSIGNED"
	TopicCommentAdded   OutboxTopic = "COMMENT_ADDED"
)

// NotificationPayload is the opaque content delivered to the recipient.
type NotificationPayload struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// OutboxEntry is a durable notification intent, written in the same
// transaction as the mutation that triggered it. DeliveredAt is set at most
// once and never cleared; rows are never deleted, forming a delivery log.
type OutboxEntry struct {
	ID          string
	Topic       OutboxTopic
	TicketID    string
	RecipientID string
	Payload     NotificationPayload
	Attempts    int
	DeliveredAt *time.Time
	CreatedAt   time.Time
}

// OutboxSummary reports the outcome of one dispatcher batch.
type OutboxSummary struct {
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
}
