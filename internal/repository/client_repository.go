package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/persistence"
)

// ClientRepository persists client accounts.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	GetByID(ctx context.Context, id string) (*domain.Client, error)
	ListByOrganization(ctx context.Context, organizationID string, limit, offset int) ([]domain.Client, error)
}

type clientRepository struct {
	pool *pgxpool.Pool
}

// NewClientRepository builds repository.
func NewClientRepository(pool *pgxpool.Pool) ClientRepository {
	return &clientRepository{pool: pool}
}

func (r *clientRepository) Create(ctx context.Context, client *domain.Client) error {
	const query = `
        INSERT INTO clients (organization_id, name)
        VALUES ($1,$2)
        RETURNING id, created_at, updated_at`
	q := persistence.QuerierFrom(ctx, r.pool)
	return q.QueryRow(ctx, query,
		client.OrganizationID,
		client.Name,
	).Scan(&client.ID, &client.CreatedAt, &client.UpdatedAt)
}

func (r *clientRepository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	const query = `
        SELECT id, organization_id, name, created_at, updated_at
        FROM clients WHERE id=$1`
	q := persistence.QuerierFrom(ctx, r.pool)

	var client domain.Client
	if err := q.QueryRow(ctx, query, id).Scan(
		&client.ID,
		&client.OrganizationID,
		&client.Name,
		&client.CreatedAt,
		&client.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *clientRepository) ListByOrganization(ctx context.Context, organizationID string, limit, offset int) ([]domain.Client, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT id, organization_id, name, created_at, updated_at
        FROM clients WHERE organization_id=$1 ORDER BY name ASC LIMIT $2 OFFSET $3`
	q := persistence.QuerierFrom(ctx, r.pool)
	rows, err := q.Query(ctx, query, organizationID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Client
	for rows.Next() {
		var client domain.Client
		if err := rows.Scan(
			&client.ID,
			&client.OrganizationID,
			&client.Name,
			&client.CreatedAt,
			&client.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, client)
	}
	return result, rows.Err()
}
