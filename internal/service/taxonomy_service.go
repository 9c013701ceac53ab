package service

import (
	"context"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// TaxonomyService exposes the classification catalogs tickets reference.
type TaxonomyService struct {
	taxonomy repository.TaxonomyRepository
}

// NewTaxonomyService constructs the service.
func NewTaxonomyService(taxonomy repository.TaxonomyRepository) *TaxonomyService {
	return &TaxonomyService{taxonomy: taxonomy}
}

// ListStatuses returns an organization's ticket statuses.
func (s *TaxonomyService) ListStatuses(ctx context.Context, organizationID string) ([]domain.TicketStatus, error) {
	statuses, err := s.taxonomy.ListStatuses(ctx, organizationID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return statuses, nil
}

// ListPriorities returns an organization's priorities ordered by rank.
func (s *TaxonomyService) ListPriorities(ctx context.Context, organizationID string) ([]domain.TicketPriority, error) {
	priorities, err := s.taxonomy.ListPriorities(ctx, organizationID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return priorities, nil
}
