package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// CommentService appends comments to ticket threads. A comment, its
// COMMENT_ADDED event and its notification intent persist atomically.
type CommentService struct {
	tx          TxRunner
	tickets     repository.TicketRepository
	comments    repository.CommentRepository
	attachments repository.AttachmentRepository
	events      repository.TicketEventRepository
	projects    repository.ProjectRepository
	outbox      repository.OutboxRepository
	logger      *zap.Logger
}

// CommentDependencies bundles collaborators for comment service.
type CommentDependencies struct {
	Tx             TxRunner
	TicketRepo     repository.TicketRepository
	CommentRepo    repository.CommentRepository
	AttachmentRepo repository.AttachmentRepository
	EventRepo      repository.TicketEventRepository
	ProjectRepo    repository.ProjectRepository
	OutboxRepo     repository.OutboxRepository
	Logger         *zap.Logger
}

// CommentAttachmentInput defines attachment metadata.
type CommentAttachmentInput struct {
	StorageKey string
	FileName   string
	MimeType   string
	SizeBytes  int64
}

// NewCommentService constructs the service.
func NewCommentService(deps CommentDependencies) *CommentService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommentService{
		tx:          deps.Tx,
		tickets:     deps.TicketRepo,
		comments:    deps.CommentRepo,
		attachments: deps.AttachmentRepo,
		events:      deps.EventRepo,
		projects:    deps.ProjectRepo,
		outbox:      deps.OutboxRepo,
		logger:      logger,
	}
}

// Create appends a comment to a ticket the scope can access.
func (s *CommentService) Create(ctx context.Context, scope domain.AccessScope, actorID, ticketID, body string, attachments []CommentAttachmentInput) (*domain.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperrors.NewValidationError("body required", nil)
	}

	var comment *domain.Comment
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		ticket, err := s.tickets.GetByID(ctx, ticketID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
			}
			return apperrors.MapError(err)
		}
		if ticket.IsDeleted {
			return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		project, err := s.projects.GetByID(ctx, ticket.ProjectID)
		if err != nil {
			return apperrors.MapError(err)
		}
		if !scope.AllowsTicket(ticket, project.ClientID) {
			return apperrors.NewForbidden("access denied")
		}

		comment = &domain.Comment{
			TicketID: ticket.ID,
			AuthorID: actorID,
			BodyMD:   body,
		}
		if err := s.comments.Create(ctx, comment); err != nil {
			return apperrors.MapError(err)
		}
		for _, att := range attachments {
			record := &domain.AttachmentReference{
				CommentID:  comment.ID,
				StorageKey: att.StorageKey,
				FileName:   att.FileName,
				MimeType:   att.MimeType,
				SizeBytes:  att.SizeBytes,
			}
			if err := s.attachments.Create(ctx, record); err != nil {
				return apperrors.MapError(err)
			}
			comment.Attachments = append(comment.Attachments, *record)
		}

		event := &domain.TicketEvent{
			ID:       uuid.NewString(),
			TicketID: ticket.ID,
			ActorID:  actorID,
			Type:     domain.EventCommentAdded,
			NewValue: map[string]any{
				"comment_id":   comment.ID,
				"body_preview": stringPreview(body, 120),
			},
		}
		if err := s.events.Append(ctx, event); err != nil {
			return apperrors.MapError(err)
		}

		entry := &domain.OutboxEntry{
			Topic:       domain.TopicCommentAdded,
			TicketID:    ticket.ID,
			RecipientID: commentRecipient(ticket, actorID),
			Payload: domain.NotificationPayload{
				Subject: fmt.Sprintf("New comment on ticket %s", ticket.ClientTicketNumber),
				Body:    stringPreview(body, 120),
			},
		}
		if err := s.outbox.Enqueue(ctx, entry); err != nil {
			return apperrors.MapError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// ListByTicket returns the comment thread with attachment metadata.
func (s *CommentService) ListByTicket(ctx context.Context, scope domain.AccessScope, ticketID string) ([]domain.Comment, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	project, err := s.projects.GetByID(ctx, ticket.ProjectID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !scope.AllowsTicket(ticket, project.ClientID) {
		return nil, apperrors.NewForbidden("access denied")
	}

	comments, err := s.comments.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	for i := range comments {
		attachments, err := s.attachments.ListByComment(ctx, comments[i].ID)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		comments[i].Attachments = attachments
	}
	return comments, nil
}

// commentRecipient picks the one party notified about a comment: the
// assignee unless they wrote it, otherwise the raiser.
func commentRecipient(ticket *domain.Ticket, actorID string) string {
	if ticket.AssignedToID != nil && *ticket.AssignedToID != actorID {
		return *ticket.AssignedToID
	}
	return ticket.RaisedByID
}

func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
