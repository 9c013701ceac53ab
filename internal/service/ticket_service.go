package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/notify"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// TicketService orchestrates ticket mutations. Every create or update runs
// inside one transaction covering the ticket row, its audit events, the
// sequence counter and any outbox entries.
type TicketService struct {
	tx        TxRunner
	tickets   repository.TicketRepository
	events    repository.TicketEventRepository
	sequences repository.SequenceRepository
	outbox    repository.OutboxRepository
	clients   repository.ClientRepository
	projects  repository.ProjectRepository
	taxonomy  repository.TaxonomyRepository
	alerts    notify.Publisher
	logger    *zap.Logger
}

// TicketDependencies bundles collaborators for ticket service.
type TicketDependencies struct {
	Tx           TxRunner
	TicketRepo   repository.TicketRepository
	EventRepo    repository.TicketEventRepository
	SequenceRepo repository.SequenceRepository
	OutboxRepo   repository.OutboxRepository
	ClientRepo   repository.ClientRepository
	ProjectRepo  repository.ProjectRepository
	TaxonomyRepo repository.TaxonomyRepository
	Alerts       notify.Publisher
	Logger       *zap.Logger
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{
		tx:        deps.Tx,
		tickets:   deps.TicketRepo,
		events:    deps.EventRepo,
		sequences: deps.SequenceRepo,
		outbox:    deps.OutboxRepo,
		clients:   deps.ClientRepo,
		projects:  deps.ProjectRepo,
		taxonomy:  deps.TaxonomyRepo,
		alerts:    deps.Alerts,
		logger:    logger,
	}
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	ProjectID    string
	RaisedByID   string
	StreamID     string
	SubjectID    string
	PriorityID   string
	StatusID     string
	Title        string
	Description  *string
	AssignedToID *string
}

// TicketUpdateInput carries partial changes; nil fields are left untouched.
type TicketUpdateInput struct {
	StatusID     *string
	PriorityID   *string
	AssignedToID *string
	Title        *string
	Description  *string
}

// TicketListFilter describes listing parameters on top of the access scope.
type TicketListFilter struct {
	ProjectID    *string
	StatusIDs    []string
	PriorityIDs  []string
	AssignedToID *string
	Limit        int
	Offset       int
}

// Create validates permissions, allocates the per-client number, inserts the
// ticket and appends its genesis event plus a notification intent, all in one
// transaction. After commit an immediate delivery request goes out on the
// side channel; the outbox entry stays the durable fallback.
func (s *TicketService) Create(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title required", nil)
	}

	var ticket *domain.Ticket
	var intent notify.Notification
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		project, err := s.projects.GetByID(ctx, input.ProjectID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound("project", map[string]any{"project_id": input.ProjectID})
			}
			return apperrors.MapError(err)
		}
		if err := s.requireRaisePermission(ctx, project.ID, input.RaisedByID); err != nil {
			return err
		}
		if input.AssignedToID != nil {
			if err := s.requireAssignPermission(ctx, project.ID, *input.AssignedToID); err != nil {
				return err
			}
		}
		status, err := s.taxonomy.GetStatus(ctx, input.StatusID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound("status", map[string]any{"status_id": input.StatusID})
			}
			return apperrors.MapError(err)
		}
		if _, err := s.taxonomy.GetPriority(ctx, input.PriorityID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound("priority", map[string]any{"priority_id": input.PriorityID})
			}
			return apperrors.MapError(err)
		}
		stream, err := s.taxonomy.GetStream(ctx, input.StreamID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound("stream", map[string]any{"stream_id": input.StreamID})
			}
			return apperrors.MapError(err)
		}
		if stream.ProjectID != project.ID {
			return apperrors.NewValidationError("stream does not belong to project", map[string]any{"stream_id": stream.ID})
		}
		subject, err := s.taxonomy.GetSubject(ctx, input.SubjectID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound("subject", map[string]any{"subject_id": input.SubjectID})
			}
			return apperrors.MapError(err)
		}
		if subject.StreamID != stream.ID {
			return apperrors.NewValidationError("subject does not belong to stream", map[string]any{"subject_id": subject.ID})
		}

		client, err := s.clients.GetByID(ctx, project.ClientID)
		if err != nil {
			return apperrors.MapError(err)
		}
		seq, err := s.sequences.NextNumber(ctx, client.ID)
		if err != nil {
			return apperrors.MapError(err)
		}

		ticket = &domain.Ticket{
			ProjectID:          project.ID,
			RaisedByID:         input.RaisedByID,
			AssignedToID:       input.AssignedToID,
			StreamID:           input.StreamID,
			SubjectID:          input.SubjectID,
			PriorityID:         input.PriorityID,
			StatusID:           status.ID,
			Title:              title,
			DescriptionMD:      input.Description,
			ClientTicketNumber: FormatTicketNumber(client.Name, seq),
		}
		if status.IsClosed {
			now := time.Now()
			ticket.ClosedAt = &now
		}
		if err := s.tickets.Create(ctx, ticket); err != nil {
			return apperrors.MapError(err)
		}

		newValue := map[string]any{"title": ticket.Title}
		if input.Description != nil {
			newValue["description"] = *input.Description
		}
		if err := s.appendEvent(ctx, ticket.ID, input.RaisedByID, domain.EventTicketCreated, nil, newValue); err != nil {
			return err
		}

		recipient := input.RaisedByID
		if ticket.AssignedToID != nil {
			recipient = *ticket.AssignedToID
		}
		entry := &domain.OutboxEntry{
			Topic:       domain.TopicTicketCreated,
			TicketID:    ticket.ID,
			RecipientID: recipient,
			Payload: domain.NotificationPayload{
				Subject: fmt.Sprintf("Ticket %s created", ticket.ClientTicketNumber),
				Body:    ticket.Title,
			},
		}
		if err := s.outbox.Enqueue(ctx, entry); err != nil {
			return apperrors.MapError(err)
		}
		intent = notificationFromEntry(entry)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.requestImmediateDelivery(intent)
	return ticket, nil
}

// Update applies the present-and-differing fields, appending exactly one
// event per effective change. Equal values are skipped; an update touching
// nothing fails rather than silently succeeding.
func (s *TicketService) Update(ctx context.Context, ticketID, actorID string, input TicketUpdateInput) (*domain.Ticket, error) {
	var updated *domain.Ticket
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

		changed := false

		if input.StatusID != nil && *input.StatusID != ticket.StatusID {
			status, err := s.taxonomy.GetStatus(ctx, *input.StatusID)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return apperrors.NewNotFound("status", map[string]any{"status_id": *input.StatusID})
				}
				return apperrors.MapError(err)
			}
			oldStatus := ticket.StatusID
			ticket.StatusID = status.ID
			if status.IsClosed {
				now := time.Now()
				ticket.ClosedAt = &now
			} else {
				ticket.ClosedAt = nil
			}
			if err := s.appendEvent(ctx, ticket.ID, actorID, domain.EventStatusChanged,
				map[string]any{"status_id": oldStatus},
				map[string]any{"status_id": status.ID}); err != nil {
				return err
			}
			changed = true
		}

		if input.PriorityID != nil && *input.PriorityID != ticket.PriorityID {
			priority, err := s.taxonomy.GetPriority(ctx, *input.PriorityID)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return apperrors.NewNotFound("priority", map[string]any{"priority_id": *input.PriorityID})
				}
				return apperrors.MapError(err)
			}
			oldPriority := ticket.PriorityID
			ticket.PriorityID = priority.ID
			if err := s.appendEvent(ctx, ticket.ID, actorID, domain.EventPriorityChanged,
				map[string]any{"priority_id": oldPriority},
				map[string]any{"priority_id": priority.ID}); err != nil {
				return err
			}
			changed = true
		}

		if input.AssignedToID != nil && (ticket.AssignedToID == nil || *ticket.AssignedToID != *input.AssignedToID) {
			if err := s.requireAssignPermission(ctx, ticket.ProjectID, *input.AssignedToID); err != nil {
				return err
			}
			oldValue := map[string]any{"assigned_to_user_id": nil}
			if ticket.AssignedToID != nil {
				oldValue["assigned_to_user_id"] = *ticket.AssignedToID
			}
			assignee := *input.AssignedToID
			ticket.AssignedToID = &assignee
			if err := s.appendEvent(ctx, ticket.ID, actorID, domain.EventAssigneeChanged,
				oldValue,
				map[string]any{"assigned_to_user_id": assignee}); err != nil {
				return err
			}
			entry := &domain.OutboxEntry{
				Topic:       domain.TopicTicketAssigned,
				TicketID:    ticket.ID,
				RecipientID: assignee,
				Payload: domain.NotificationPayload{
					Subject: fmt.Sprintf("Ticket %s assigned to you", ticket.ClientTicketNumber),
					Body:    ticket.Title,
				},
			}
			if err := s.outbox.Enqueue(ctx, entry); err != nil {
				return apperrors.MapError(err)
			}
			changed = true
		}

		if input.Title != nil {
			title := strings.TrimSpace(*input.Title)
			if title == "" {
				return apperrors.NewValidationError("title cannot be empty", nil)
			}
			if title != ticket.Title {
				oldTitle := ticket.Title
				ticket.Title = title
				if err := s.appendEvent(ctx, ticket.ID, actorID, domain.EventTitleUpdated,
					map[string]any{"title": oldTitle},
					map[string]any{"title": title}); err != nil {
					return err
				}
				changed = true
			}
		}

		if input.Description != nil && (ticket.DescriptionMD == nil || *ticket.DescriptionMD != *input.Description) {
			oldValue := map[string]any{"description": nil}
			if ticket.DescriptionMD != nil {
				oldValue["description"] = *ticket.DescriptionMD
			}
			description := *input.Description
			ticket.DescriptionMD = &description
			if err := s.appendEvent(ctx, ticket.ID, actorID, domain.EventDescriptionUpdated,
				oldValue,
				map[string]any{"description": description}); err != nil {
				return err
			}
			changed = true
		}

		if !changed {
			return apperrors.NewValidationError("no fields to update", nil)
		}
		if err := s.tickets.Update(ctx, ticket); err != nil {
			return apperrors.MapError(err)
		}
		updated = ticket
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// GetForScope fetches a ticket and enforces the caller's access scope.
func (s *TicketService) GetForScope(ctx context.Context, scope domain.AccessScope, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	if ticket.IsDeleted && scope.Kind != domain.ScopeAdmin {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
	}
	project, err := s.projects.GetByID(ctx, ticket.ProjectID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !scope.AllowsTicket(ticket, project.ClientID) {
		return nil, apperrors.NewForbidden("access denied")
	}
	return ticket, nil
}

// List returns tickets visible to the scope, filtered and paginated.
func (s *TicketService) List(ctx context.Context, scope domain.AccessScope, filter TicketListFilter) ([]domain.Ticket, error) {
	repoFilter := repository.TicketFilter{
		Scope:        scope,
		ProjectID:    filter.ProjectID,
		StatusIDs:    filter.StatusIDs,
		PriorityIDs:  filter.PriorityIDs,
		AssignedToID: filter.AssignedToID,
		Limit:        filter.Limit,
		Offset:       filter.Offset,
	}
	tickets, err := s.tickets.ListWithFilter(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// ListEvents returns the audit trail for a ticket the scope can access.
func (s *TicketService) ListEvents(ctx context.Context, scope domain.AccessScope, ticketID string) ([]domain.TicketEvent, error) {
	if _, err := s.GetForScope(ctx, scope, ticketID); err != nil {
		return nil, err
	}
	events, err := s.events.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return events, nil
}

// SoftDelete marks a ticket deleted. The flag is monotone; deleting an
// already deleted ticket is a no-op.
func (s *TicketService) SoftDelete(ctx context.Context, scope domain.AccessScope, ticketID string) error {
	ticket, err := s.GetForScope(ctx, scope, ticketID)
	if err != nil {
		return err
	}
	if ticket.IsDeleted {
		return nil
	}
	if err := s.tickets.SoftDelete(ctx, ticketID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

func (s *TicketService) requireRaisePermission(ctx context.Context, projectID, userID string) error {
	member, err := s.projects.GetMember(ctx, projectID, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewForbidden("raiser lacks raise permission on project")
		}
		return apperrors.MapError(err)
	}
	if !member.CanRaise {
		return apperrors.NewForbidden("raiser lacks raise permission on project")
	}
	return nil
}

func (s *TicketService) requireAssignPermission(ctx context.Context, projectID, userID string) error {
	member, err := s.projects.GetMember(ctx, projectID, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewForbidden("assignee lacks assignment permission on project")
		}
		return apperrors.MapError(err)
	}
	if !member.CanBeAssigned {
		return apperrors.NewForbidden("assignee lacks assignment permission on project")
	}
	return nil
}

func (s *TicketService) appendEvent(ctx context.Context, ticketID, actorID string, eventType domain.TicketEventType, oldValue, newValue map[string]any) error {
	event := &domain.TicketEvent{
		ID:       uuid.NewString(),
		TicketID: ticketID,
		ActorID:  actorID,
		Type:     eventType,
		OldValue: oldValue,
		NewValue: newValue,
	}
	if err := s.events.Append(ctx, event); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// requestImmediateDelivery asks the side channel to deliver ahead of the next
// dispatcher tick. Runs after commit; a failure is logged and otherwise
// invisible since the outbox entry already guarantees eventual delivery.
func (s *TicketService) requestImmediateDelivery(n notify.Notification) {
	if s.alerts == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.alerts.Publish(ctx, n); err != nil {
			s.logger.Warn("immediate delivery request failed",
				zap.String("entry_id", n.EntryID),
				zap.Error(err))
		}
	}()
}

func notificationFromEntry(entry *domain.OutboxEntry) notify.Notification {
	return notify.Notification{
		EntryID:     entry.ID,
		Topic:       entry.Topic,
		TicketID:    entry.TicketID,
		RecipientID: entry.RecipientID,
		Subject:     entry.Payload.Subject,
		Body:        entry.Payload.Body,
	}
}
