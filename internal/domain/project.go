package domain

import "time"

// Project groups tickets under a client.
type Project struct {
	ID        string
	ClientID  string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProjectMember records a user's permissions on a project. A ticket's raiser
// must hold CanRaise; its assignee must hold CanBeAssigned.
type ProjectMember struct {
	ProjectID     string
	UserID        string
	CanRaise      bool
	CanBeAssigned bool
	CreatedAt     time.Time
}
