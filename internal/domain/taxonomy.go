package domain

import "time"

// TicketStatus is an organization-wide lifecycle state. IsClosed drives the
// closed_at invariant on tickets.
type TicketStatus struct {
	ID             string
	OrganizationID string
	Name           string
	IsClosed       bool
	CreatedAt      time.Time
}

// TicketPriority is an organization-wide urgency level.
type TicketPriority struct {
	ID             string
	OrganizationID string
	Name           string
	Rank           int
	CreatedAt      time.Time
}

// Stream is a project-wide work category.
type Stream struct {
	ID        string
	ProjectID string
	Name      string
	CreatedAt time.Time
}

// Subject is a topic under a stream.
type Subject struct {
	ID        string
	StreamID  string
	Name      string
	CreatedAt time.Time
}
