package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.ProjectID == "" || req.StreamID == "" || req.SubjectID == "" || req.PriorityID == "" || req.StatusID == "" || req.Title == "" {
		return apperrors.NewValidationError("project_id, stream_id, subject_id, priority_id, status_id, title required", nil)
	}

	ticket, err := h.service.Create(c.Context(), service.TicketCreateInput{
		ProjectID:    req.ProjectID,
		RaisedByID:   principal.User.ID,
		StreamID:     req.StreamID,
		SubjectID:    req.SubjectID,
		PriorityID:   req.PriorityID,
		StatusID:     req.StatusID,
		Title:        req.Title,
		Description:  req.Description,
		AssignedToID: req.AssignedToID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	tickets, err := h.service.List(c.Context(), principal.Scope, parseTicketQuery(c))
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketResponse(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	ticket, err := h.service.GetForScope(c.Context(), principal.Scope, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// UpdateTicket PATCH /tickets/:id.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if _, err := h.service.GetForScope(c.Context(), principal.Scope, c.Params("id")); err != nil {
		return err
	}
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.Update(c.Context(), c.Params("id"), principal.User.ID, service.TicketUpdateInput{
		StatusID:     req.StatusID,
		PriorityID:   req.PriorityID,
		AssignedToID: req.AssignedToID,
		Title:        req.Title,
		Description:  req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// DeleteTicket DELETE /tickets/:id.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.service.SoftDelete(c.Context(), principal.Scope, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ListEvents GET /tickets/:id/events.
func (h *TicketsHandler) ListEvents(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	events, err := h.service.ListEvents(c.Context(), principal.Scope, c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.TicketEventResponse, 0, len(events))
	for i := range events {
		items = append(items, eventResponse(&events[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func parseTicketQuery(c *fiber.Ctx) service.TicketListFilter {
	filter := service.TicketListFilter{}
	if projectID := c.Query("project_id"); projectID != "" {
		filter.ProjectID = &projectID
	}
	if statusStr := c.Query("status_id"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.StatusIDs = append(filter.StatusIDs, strings.TrimSpace(part))
		}
	}
	if priorityStr := c.Query("priority_id"); priorityStr != "" {
		for _, part := range strings.Split(priorityStr, ",") {
			filter.PriorityIDs = append(filter.PriorityIDs, strings.TrimSpace(part))
		}
	}
	if assignee := c.Query("assigned_to"); assignee != "" {
		filter.AssignedToID = &assignee
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func ticketResponse(ticket *domain.Ticket) dto.TicketResponse {
	return dto.TicketResponse{
		ID:                 ticket.ID,
		ProjectID:          ticket.ProjectID,
		RaisedByID:         ticket.RaisedByID,
		AssignedToID:       ticket.AssignedToID,
		StreamID:           ticket.StreamID,
		SubjectID:          ticket.SubjectID,
		PriorityID:         ticket.PriorityID,
		StatusID:           ticket.StatusID,
		Title:              ticket.Title,
		Description:        ticket.DescriptionMD,
		ClientTicketNumber: ticket.ClientTicketNumber,
		IsDeleted:          ticket.IsDeleted,
		CreatedAt:          ticket.CreatedAt,
		UpdatedAt:          ticket.UpdatedAt,
		ClosedAt:           ticket.ClosedAt,
	}
}

func eventResponse(event *domain.TicketEvent) dto.TicketEventResponse {
	return dto.TicketEventResponse{
		ID:        event.ID,
		TicketID:  event.TicketID,
		ActorID:   event.ActorID,
		Type:      string(event.Type),
		OldValue:  event.OldValue,
		NewValue:  event.NewValue,
		CreatedAt: event.CreatedAt,
	}
}
