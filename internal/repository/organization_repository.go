package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/persistence"
)

// OrganizationRepository persists tenant organizations.
type OrganizationRepository interface {
	Create(ctx context.Context, org *domain.Organization) error
	GetByID(ctx context.Context, id string) (*domain.Organization, error)
}

type organizationRepository struct {
	pool *pgxpool.Pool
}

// NewOrganizationRepository builds repository.
func NewOrganizationRepository(pool *pgxpool.Pool) OrganizationRepository {
	return &organizationRepository{pool: pool}
}

func (r *organizationRepository) Create(ctx context.Context, org *domain.Organization) error {
	const query = `
        INSERT INTO organizations (name)
        VALUES ($1)
        RETURNING id, created_at`
	q := persistence.QuerierFrom(ctx, r.pool)
	return q.QueryRow(ctx, query, org.Name).Scan(&org.ID, &org.CreatedAt)
}

func (r *organizationRepository) GetByID(ctx context.Context, id string) (*domain.Organization, error) {
	const query = `SELECT id, name, created_at FROM organizations WHERE id=$1`
	q := persistence.QuerierFrom(ctx, r.pool)

	var org domain.Organization
	if err := q.QueryRow(ctx, query, id).Scan(&org.ID, &org.Name, &org.CreatedAt); err != nil {
		return nil, err
	}
	return &org, nil
}
