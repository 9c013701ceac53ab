package dto

import "time"

// CreateTicketRequest is the payload for POST /tickets.
type CreateTicketRequest struct {
	ProjectID    string  `json:"project_id"`
	StreamID     string  `json:"stream_id"`
	SubjectID    string  `json:"subject_id"`
	PriorityID   string  `json:"priority_id"`
	StatusID     string  `json:"status_id"`
	Title        string  `json:"title"`
	Description  *string `json:"description,omitempty"`
	AssignedToID *string `json:"assigned_to_user_id,omitempty"`
}

// UpdateTicketRequest is the payload for PATCH /tickets/:id. Absent fields
// are left untouched.
type UpdateTicketRequest struct {
	StatusID     *string `json:"status_id,omitempty"`
	PriorityID   *string `json:"priority_id,omitempty"`
	AssignedToID *string `json:"assigned_to_user_id,omitempty"`
	Title        *string `json:"title,omitempty"`
	Description  *string `json:"description,omitempty"`
}

// TicketResponse is the canonical ticket representation.
type TicketResponse struct {
	ID                 string     `json:"id"`
	ProjectID          string     `json:"project_id"`
	RaisedByID         string     `json:"raised_by_user_id"`
	AssignedToID       *string    `json:"assigned_to_user_id,omitempty"`
	StreamID           string     `json:"stream_id"`
	SubjectID          string     `json:"subject_id"`
	PriorityID         string     `json:"priority_id"`
	StatusID           string     `json:"status_id"`
	Title              string     `json:"title"`
	Description        *string    `json:"description,omitempty"`
	ClientTicketNumber string     `json:"client_ticket_number"`
	IsDeleted          bool       `json:"is_deleted"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	ClosedAt           *time.Time `json:"closed_at,omitempty"`
}

// TicketEventResponse is one audit trail entry.
type TicketEventResponse struct {
	ID        string         `json:"id"`
	TicketID  string         `json:"ticket_id"`
	ActorID   string         `json:"actor_user_id"`
	Type      string         `json:"type"`
	OldValue  map[string]any `json:"old_value,omitempty"`
	NewValue  map[string]any `json:"new_value,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// StatusResponse is a ticket status catalog entry.
type StatusResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsClosed bool   `json:"is_closed"`
}

// PriorityResponse is a ticket priority catalog entry.
type PriorityResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Rank int    `json:"rank"`
}
