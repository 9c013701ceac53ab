package dto

import "time"

// CreateOrganizationRequest is the payload for POST /admin/organizations.
type CreateOrganizationRequest struct {
	Name string `json:"name"`
}

// OrganizationResponse is the tenant representation.
type OrganizationResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateClientRequest is the payload for POST /admin/clients.
type CreateClientRequest struct {
	OrganizationID string `json:"organization_id"`
	Name           string `json:"name"`
}

// ClientResponse is the client representation.
type ClientResponse struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	Name           string    `json:"name"`
	CreatedAt      time.Time `json:"created_at"`
}

// CreateProjectRequest is the payload for POST /admin/projects.
type CreateProjectRequest struct {
	ClientID string `json:"client_id"`
	Name     string `json:"name"`
}

// ProjectResponse is the project representation.
type ProjectResponse struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"client_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// SetMemberRequest grants or updates a user's permissions on a project.
type SetMemberRequest struct {
	UserID        string `json:"user_id"`
	CanRaise      bool   `json:"can_raise"`
	CanBeAssigned bool   `json:"can_be_assigned"`
}

// MemberResponse is a project membership row.
type MemberResponse struct {
	ProjectID     string `json:"project_id"`
	UserID        string `json:"user_id"`
	CanRaise      bool   `json:"can_raise"`
	CanBeAssigned bool   `json:"can_be_assigned"`
}

// OutboxEntryResponse is a pending notification row on the admin surface.
type OutboxEntryResponse struct {
	ID          string     `json:"id"`
	Topic       string     `json:"topic"`
	TicketID    string     `json:"ticket_id"`
	RecipientID string     `json:"recipient_user_id"`
	Subject     string     `json:"subject"`
	Body        string     `json:"body"`
	Attempts    int        `json:"attempts"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
