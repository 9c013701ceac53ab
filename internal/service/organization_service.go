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

// OrganizationService manages tenant organizations.
type OrganizationService struct {
	organizations repository.OrganizationRepository
}

// NewOrganizationService constructs the service.
func NewOrganizationService(organizations repository.OrganizationRepository) *OrganizationService {
	return &OrganizationService{organizations: organizations}
}

// Create registers a tenant.
func (s *OrganizationService) Create(ctx context.Context, name string) (*domain.Organization, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	org := &domain.Organization{Name: name}
	if err := s.organizations.Create(ctx, org); err != nil {
		return nil, apperrors.MapError(err)
	}
	return org, nil
}

// Get returns an organization by id.
func (s *OrganizationService) Get(ctx context.Context, id string) (*domain.Organization, error) {
	org, err := s.organizations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("organization", map[string]any{"organization_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return org, nil
}
