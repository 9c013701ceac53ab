package service

import (
	"context"
	"strings"
	"testing"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

func TestCommentCreate(t *testing.T) {
	w := newTestWorld()
	tickets := w.ticketService(nil)
	comments := w.commentService()

	input := w.createInput()
	input.AssignedToID = &w.assignee
	ticket, err := tickets.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("Create ticket: %v", err)
	}

	scope := domain.AccessScope{Kind: domain.ScopeEmployee, UserID: w.raiser}
	comment, err := comments.Create(context.Background(), scope, w.raiser, ticket.ID, "Happens on Safari too", nil)
	if err != nil {
		t.Fatalf("Create comment: %v", err)
	}
	if comment.ID == "" || comment.TicketID != ticket.ID {
		t.Fatalf("comment not persisted: %+v", comment)
	}

	events, _ := w.store.ListByTicket(context.Background(), ticket.ID)
	var commentEvents []domain.TicketEvent
	for _, event := range events {
		if event.Type == domain.EventCommentAdded {
			commentEvents = append(commentEvents, event)
		}
	}
	if len(commentEvents) != 1 {
		t.Fatalf("COMMENT_ADDED events = %d, want 1", len(commentEvents))
	}
	if commentEvents[0].NewValue["comment_id"] != comment.ID {
		t.Errorf("event comment_id = %v, want %q", commentEvents[0].NewValue["comment_id"], comment.ID)
	}

	var commentEntries []domain.OutboxEntry
	for _, entry := range w.store.outbox {
		if entry.Topic == domain.TopicCommentAdded {
			commentEntries = append(commentEntries, entry)
		}
	}
	if len(commentEntries) != 1 {
		t.Fatalf("COMMENT_ADDED outbox entries = %d, want 1", len(commentEntries))
	}
	// Raiser commented, so the assignee hears about it.
	if commentEntries[0].RecipientID != w.assignee {
		t.Errorf("recipient = %q, want assignee %q", commentEntries[0].RecipientID, w.assignee)
	}
}

func TestCommentRecipientFallsBackToRaiser(t *testing.T) {
	w := newTestWorld()
	tickets := w.ticketService(nil)
	comments := w.commentService()

	input := w.createInput()
	input.AssignedToID = &w.assignee
	ticket, err := tickets.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("Create ticket: %v", err)
	}

	scope := domain.AccessScope{Kind: domain.ScopeEmployee, UserID: w.assignee}
	if _, err := comments.Create(context.Background(), scope, w.assignee, ticket.ID, "Looking into it", nil); err != nil {
		t.Fatalf("Create comment: %v", err)
	}

	var last domain.OutboxEntry
	for _, entry := range w.store.outbox {
		if entry.Topic == domain.TopicCommentAdded {
			last = entry
		}
	}
	// Assignee commented on their own ticket, so the raiser is notified.
	if last.RecipientID != w.raiser {
		t.Errorf("recipient = %q, want raiser %q", last.RecipientID, w.raiser)
	}
}

func TestCommentUnassignedTicketNotifiesRaiser(t *testing.T) {
	w := newTestWorld()
	tickets := w.ticketService(nil)
	comments := w.commentService()

	ticket, err := tickets.Create(context.Background(), w.createInput())
	if err != nil {
		t.Fatalf("Create ticket: %v", err)
	}

	scope := domain.AccessScope{Kind: domain.ScopeAdmin}
	if _, err := comments.Create(context.Background(), scope, "user-admin", ticket.ID, "Triaged", nil); err != nil {
		t.Fatalf("Create comment: %v", err)
	}

	var last domain.OutboxEntry
	for _, entry := range w.store.outbox {
		if entry.Topic == domain.TopicCommentAdded {
			last = entry
		}
	}
	if last.RecipientID != w.raiser {
		t.Errorf("recipient = %q, want raiser %q", last.RecipientID, w.raiser)
	}
}

func TestCommentWithAttachments(t *testing.T) {
	w := newTestWorld()
	tickets := w.ticketService(nil)
	comments := w.commentService()

	ticket, err := tickets.Create(context.Background(), w.createInput())
	if err != nil {
		t.Fatalf("Create ticket: %v", err)
	}

	scope := domain.AccessScope{Kind: domain.ScopeEmployee, UserID: w.raiser}
	comment, err := comments.Create(context.Background(), scope, w.raiser, ticket.ID, "Screenshot attached", []CommentAttachmentInput{
		{StorageKey: "uploads/shot.png", FileName: "shot.png", MimeType: "image/png", SizeBytes: 2048},
	})
	if err != nil {
		t.Fatalf("Create comment: %v", err)
	}
	if len(comment.Attachments) != 1 {
		t.Fatalf("attachments on result = %d, want 1", len(comment.Attachments))
	}

	thread, err := comments.ListByTicket(context.Background(), scope, ticket.ID)
	if err != nil {
		t.Fatalf("ListByTicket: %v", err)
	}
	if len(thread) != 1 || len(thread[0].Attachments) != 1 {
		t.Fatalf("thread = %+v, want one comment with one attachment", thread)
	}
	if thread[0].Attachments[0].StorageKey != "uploads/shot.png" {
		t.Errorf("storage key = %q", thread[0].Attachments[0].StorageKey)
	}
}

func TestCommentValidationAndAccess(t *testing.T) {
	w := newTestWorld()
	tickets := w.ticketService(nil)
	comments := w.commentService()

	ticket, err := tickets.Create(context.Background(), w.createInput())
	if err != nil {
		t.Fatalf("Create ticket: %v", err)
	}

	scope := domain.AccessScope{Kind: domain.ScopeEmployee, UserID: w.raiser}
	if _, err := comments.Create(context.Background(), scope, w.raiser, ticket.ID, "   ", nil); !apperrors.IsCode(err, "VALIDATION_FAILED") {
		t.Errorf("blank body error = %v, want VALIDATION_FAILED", err)
	}

	stranger := domain.AccessScope{Kind: domain.ScopeEmployee, UserID: "user-stranger"}
	if _, err := comments.Create(context.Background(), stranger, "user-stranger", ticket.ID, "hello", nil); !apperrors.IsCode(err, "FORBIDDEN") {
		t.Errorf("stranger comment error = %v, want FORBIDDEN", err)
	}

	if _, err := comments.Create(context.Background(), scope, w.raiser, "ticket-nope", "hello", nil); !apperrors.IsCode(err, "NOT_FOUND") {
		t.Errorf("missing ticket error = %v, want NOT_FOUND", err)
	}
}

func TestStringPreview(t *testing.T) {
	long := strings.Repeat("a", 200)
	got := stringPreview(long, 120)
	if len(got) != 120 || !strings.HasSuffix(got, "...") {
		t.Errorf("preview = %q (len %d)", got, len(got))
	}
	if short := stringPreview("short", 120); short != "short" {
		t.Errorf("short preview = %q", short)
	}
}
