package dto

import "time"

// LoginRequest is the payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued access token.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// CreateUserRequest is the payload for POST /admin/users.
type CreateUserRequest struct {
	OrganizationID string  `json:"organization_id"`
	ClientID       *string `json:"client_id,omitempty"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Password       string  `json:"password"`
	Role           string  `json:"role"`
}

// SetUserActiveRequest is the payload for PATCH /admin/users/:id/active.
type SetUserActiveRequest struct {
	Active *bool `json:"active"`
}

// UserResponse is the public user representation.
type UserResponse struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	ClientID       *string   `json:"client_id,omitempty"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
}
