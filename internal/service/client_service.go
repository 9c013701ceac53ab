package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// ClientService manages client accounts.
type ClientService struct {
	clients repository.ClientRepository
}

// NewClientService constructs the service.
func NewClientService(clients repository.ClientRepository) *ClientService {
	return &ClientService{clients: clients}
}

// Create registers a client account under an organization.
func (s *ClientService) Create(ctx context.Context, organizationID, name string) (*domain.Client, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	client := &domain.Client{OrganizationID: organizationID, Name: name}
	if err := s.clients.Create(ctx, client); err != nil {
		return nil, apperrors.MapError(err)
	}
	return client, nil
}

// Get returns a client by id.
func (s *ClientService) Get(ctx context.Context, id string) (*domain.Client, error) {
	client, err := s.clients.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("client", map[string]any{"client_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return client, nil
}

// List returns clients of an organization.
func (s *ClientService) List(ctx context.Context, organizationID string, limit, offset int) ([]domain.Client, error) {
	clients, err := s.clients.ListByOrganization(ctx, organizationID, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return clients, nil
}
