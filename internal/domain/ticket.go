package domain

import "time"

// Ticket is the aggregate for support requests.
//
// Invariants: ClosedAt is non-nil exactly when the current status is flagged
// closed; IsDeleted is set once and never cleared; ClientTicketNumber is
// unique and gap-free per client.
type Ticket struct {
	ID                 string
	ProjectID          string
	RaisedByID         string
	AssignedToID       *string
	StreamID           string
	SubjectID          string
	PriorityID         string
	StatusID           string
	Title              string
	DescriptionMD      *string
	ClientTicketNumber string
	IsDeleted          bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
	ClosedAt           *time.Time
}
