package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// TaxonomyHandler exposes the classification catalogs.
type TaxonomyHandler struct {
	service *service.TaxonomyService
}

// NewTaxonomyHandler constructs handler.
func NewTaxonomyHandler(taxonomyService *service.TaxonomyService) *TaxonomyHandler {
	return &TaxonomyHandler{service: taxonomyService}
}

// ListStatuses GET /taxonomy/statuses.
func (h *TaxonomyHandler) ListStatuses(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	statuses, err := h.service.ListStatuses(c.Context(), principal.User.OrganizationID)
	if err != nil {
		return err
	}
	items := make([]dto.StatusResponse, 0, len(statuses))
	for _, status := range statuses {
		items = append(items, dto.StatusResponse{ID: status.ID, Name: status.Name, IsClosed: status.IsClosed})
	}
	return c.JSON(fiber.Map{"data": items})
}

// ListPriorities GET /taxonomy/priorities.
func (h *TaxonomyHandler) ListPriorities(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	priorities, err := h.service.ListPriorities(c.Context(), principal.User.OrganizationID)
	if err != nil {
		return err
	}
	items := make([]dto.PriorityResponse, 0, len(priorities))
	for _, priority := range priorities {
		items = append(items, dto.PriorityResponse{ID: priority.ID, Name: priority.Name, Rank: priority.Rank})
	}
	return c.JSON(fiber.Map{"data": items})
}
