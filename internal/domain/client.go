package domain

import "time"

// Client is a customer account under an organization. Ticket numbers are
// sequenced per client.
type Client struct {
	ID             string
	OrganizationID string
	Name           string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ClientSequenceCounter holds the last issued ticket number for a client.
// Created lazily on the first ticket; the row is only ever incremented.
type ClientSequenceCounter struct {
	ClientID   string
	LastNumber int64
}
