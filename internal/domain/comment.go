package domain

import "time"

// Comment is a message on a ticket thread.
type Comment struct {
	ID          string
	TicketID    string
	AuthorID    string
	BodyMD      string
	Attachments []AttachmentReference
	CreatedAt   time.Time
}

// AttachmentReference stores metadata for a comment attachment. The bytes
// themselves live in external storage behind StorageKey.
type AttachmentReference struct {
	ID         string
	CommentID  string
	StorageKey string
	FileName   string
	MimeType   string
	SizeBytes  int64
	CreatedAt  time.Time
}
