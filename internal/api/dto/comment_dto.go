package dto

import "time"

// CreateCommentRequest is the payload for POST /tickets/:id/comments.
type CreateCommentRequest struct {
	Body        string              `json:"body"`
	Attachments []AttachmentRequest `json:"attachments,omitempty"`
}

// AttachmentRequest references already-uploaded attachment bytes.
type AttachmentRequest struct {
	StorageKey string `json:"storage_key"`
	FileName   string `json:"file_name"`
	MimeType   string `json:"mime_type"`
	SizeBytes  int64  `json:"size_bytes"`
}

// CommentResponse is one thread entry.
type CommentResponse struct {
	ID          string               `json:"id"`
	TicketID    string               `json:"ticket_id"`
	AuthorID    string               `json:"author_user_id"`
	Body        string               `json:"body"`
	Attachments []AttachmentResponse `json:"attachments,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
}

// AttachmentResponse is attachment metadata on a comment.
type AttachmentResponse struct {
	ID         string `json:"id"`
	StorageKey string `json:"storage_key"`
	FileName   string `json:"file_name"`
	MimeType   string `json:"mime_type"`
	SizeBytes  int64  `json:"size_bytes"`
}
