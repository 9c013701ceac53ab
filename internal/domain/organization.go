package domain

import "time"

// Organization is the top-level tenant boundary. Every client, project and
// user belongs to exactly one.
type Organization struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
