package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// AdminHandler manages organization, client and project administration
// endpoints.
type AdminHandler struct {
	organizations *service.OrganizationService
	clients       *service.ClientService
	projects      *service.ProjectService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(organizations *service.OrganizationService, clients *service.ClientService, projects *service.ProjectService) *AdminHandler {
	return &AdminHandler{organizations: organizations, clients: clients, projects: projects}
}

// CreateOrganization POST /admin/organizations.
func (h *AdminHandler) CreateOrganization(c *fiber.Ctx) error {
	var req dto.CreateOrganizationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	org, err := h.organizations.Create(c.Context(), req.Name)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": organizationResponse(org)})
}

// GetOrganization GET /admin/organizations/:id.
func (h *AdminHandler) GetOrganization(c *fiber.Ctx) error {
	org, err := h.organizations.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": organizationResponse(org)})
}

// CreateClient POST /admin/clients.
func (h *AdminHandler) CreateClient(c *fiber.Ctx) error {
	var req dto.CreateClientRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	client, err := h.clients.Create(c.Context(), req.OrganizationID, req.Name)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": clientResponse(client)})
}

// ListClients GET /admin/clients.
func (h *AdminHandler) ListClients(c *fiber.Ctx) error {
	organizationID := c.Query("organization_id")
	if organizationID == "" {
		return apperrors.NewValidationError("organization_id required", nil)
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	clients, err := h.clients.List(c.Context(), organizationID, pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	items := make([]dto.ClientResponse, 0, len(clients))
	for i := range clients {
		items = append(items, clientResponse(&clients[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateProject POST /admin/projects.
func (h *AdminHandler) CreateProject(c *fiber.Ctx) error {
	var req dto.CreateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	project, err := h.projects.Create(c.Context(), req.ClientID, req.Name)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": projectResponse(project)})
}

// ListProjects GET /admin/projects.
func (h *AdminHandler) ListProjects(c *fiber.Ctx) error {
	clientID := c.Query("client_id")
	if clientID == "" {
		return apperrors.NewValidationError("client_id required", nil)
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	projects, err := h.projects.ListByClient(c.Context(), clientID, pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	items := make([]dto.ProjectResponse, 0, len(projects))
	for i := range projects {
		items = append(items, projectResponse(&projects[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// SetMember PUT /admin/projects/:id/members.
func (h *AdminHandler) SetMember(c *fiber.Ctx) error {
	var req dto.SetMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.UserID == "" {
		return apperrors.NewValidationError("user_id required", nil)
	}
	member, err := h.projects.SetMember(c.Context(), c.Params("id"), req.UserID, req.CanRaise, req.CanBeAssigned)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.MemberResponse{
		ProjectID:     member.ProjectID,
		UserID:        member.UserID,
		CanRaise:      member.CanRaise,
		CanBeAssigned: member.CanBeAssigned,
	}})
}

func organizationResponse(org *domain.Organization) dto.OrganizationResponse {
	return dto.OrganizationResponse{
		ID:        org.ID,
		Name:      org.Name,
		CreatedAt: org.CreatedAt,
	}
}

func clientResponse(client *domain.Client) dto.ClientResponse {
	return dto.ClientResponse{
		ID:             client.ID,
		OrganizationID: client.OrganizationID,
		Name:           client.Name,
		CreatedAt:      client.CreatedAt,
	}
}

func projectResponse(project *domain.Project) dto.ProjectResponse {
	return dto.ProjectResponse{
		ID:        project.ID,
		ClientID:  project.ClientID,
		Name:      project.Name,
		CreatedAt: project.CreatedAt,
	}
}
