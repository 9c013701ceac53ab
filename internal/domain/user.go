package domain

import "time"

// UserRole enumerates access roles.
type UserRole string

const (
	RoleAdmin    UserRole = "ADMIN"
	RoleEmployee UserRole = "EMPLOYEE"
	RoleClient   UserRole = "CLIENT"
)

// User is any authenticated person: internal staff or a client contact.
// ClientID is set only for CLIENT users.
type User struct {
	ID             string
	OrganizationID string
	ClientID       *string
	Name           string
	Email          string
	PasswordHash   string
	Role           UserRole
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
