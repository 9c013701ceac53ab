package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/service"
)

// OutboxHandler exposes the notification outbox on the admin surface.
type OutboxHandler struct {
	service *service.OutboxService
}

// NewOutboxHandler constructs handler.
func NewOutboxHandler(outboxService *service.OutboxService) *OutboxHandler {
	return &OutboxHandler{service: outboxService}
}

// ListPending GET /admin/outbox.
func (h *OutboxHandler) ListPending(c *fiber.Ctx) error {
	limit := parseInt(c.Query("limit"), 50)
	entries, err := h.service.ListPending(c.Context(), limit)
	if err != nil {
		return err
	}
	items := make([]dto.OutboxEntryResponse, 0, len(entries))
	for i := range entries {
		items = append(items, outboxEntryResponse(&entries[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// ProcessPending POST /admin/outbox/process. Runs one dispatcher batch on
// demand without waiting for the next tick.
func (h *OutboxHandler) ProcessPending(c *fiber.Ctx) error {
	limit := parseInt(c.Query("limit"), 0)
	summary, err := h.service.ProcessPending(c.Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": summary})
}

func outboxEntryResponse(entry *domain.OutboxEntry) dto.OutboxEntryResponse {
	return dto.OutboxEntryResponse{
		ID:          entry.ID,
		Topic:       string(entry.Topic),
		TicketID:    entry.TicketID,
		RecipientID: entry.RecipientID,
		Subject:     entry.Payload.Subject,
		Body:        entry.Payload.Body,
		Attempts:    entry.Attempts,
		DeliveredAt: entry.DeliveredAt,
		CreatedAt:   entry.CreatedAt,
	}
}
