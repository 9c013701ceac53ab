package domain

import "time"

// TicketEventType tags what a ticket event describes.
type TicketEventType string

const (
	EventTicketCreated      TicketEventType = "TICKET_CREATED"
	EventStatusChanged      TicketEventType = "STATUS_CHANGED"
	EventPriorityChanged    TicketEventType = "PRIORITY_CHANGED"
	EventAssigneeChanged    TicketEventType = "ASSIGNEE_CHANGED"
	EventTitleUpdated       TicketEventType = "TITLE_UPDATED"
	EventDescriptionUpdated TicketEventType = "DESCRIPTION_UPDATED"
	EventCommentAdded       TicketEventType = "COMMENT_ADDED"
)

// TicketEvent is an immutable audit trail entry. Rows are only ever inserted,
// in the same transaction as the mutation they describe; the full sequence
// for a ticket ordered by CreatedAt is its complete history.
type TicketEvent struct {
	ID        string
	TicketID  string
	ActorID   string
	Type      TicketEventType
	OldValue  map[string]any
	NewValue  map[string]any
	CreatedAt time.Time
}
