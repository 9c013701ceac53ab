package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/persistence"
)

// TaxonomyRepository resolves classification entities referenced by tickets.
type TaxonomyRepository interface {
	GetStatus(ctx context.Context, id string) (*domain.TicketStatus, error)
	GetPriority(ctx context.Context, id string) (*domain.TicketPriority, error)
	GetStream(ctx context.Context, id string) (*domain.Stream, error)
	GetSubject(ctx context.Context, id string) (*domain.Subject, error)
	ListStatuses(ctx context.Context, organizationID string) ([]domain.TicketStatus, error)
	ListPriorities(ctx context.Context, organizationID string) ([]domain.TicketPriority, error)
}

type taxonomyRepository struct {
	pool *pgxpool.Pool
}

// NewTaxonomyRepository builds repository.
func NewTaxonomyRepository(pool *pgxpool.Pool) TaxonomyRepository {
	return &taxonomyRepository{pool: pool}
}

func (r *taxonomyRepository) GetStatus(ctx context.Context, id string) (*domain.TicketStatus, error) {
	const query = `
        SELECT id, organization_id, name, is_closed, created_at
        FROM ticket_statuses WHERE id=$1`
	q := persistence.QuerierFrom(ctx, r.pool)

	var status domain.TicketStatus
	if err := q.QueryRow(ctx, query, id).Scan(
		&status.ID,
		&status.OrganizationID,
		&status.Name,
		&status.IsClosed,
		&status.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &status, nil
}

func (r *taxonomyRepository) GetPriority(ctx context.Context, id string) (*domain.TicketPriority, error) {
	const query = `
        SELECT id, organization_id, name, rank, created_at
        FROM ticket_priorities WHERE id=$1`
	q := persistence.QuerierFrom(ctx, r.pool)

	var priority domain.TicketPriority
	if err := q.QueryRow(ctx, query, id).Scan(
		&priority.ID,
		&priority.OrganizationID,
		&priority.Name,
		&priority.Rank,
		&priority.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &priority, nil
}

func (r *taxonomyRepository) GetStream(ctx context.Context, id string) (*domain.Stream, error) {
	const query = `SELECT id, project_id, name, created_at FROM streams WHERE id=$1`
	q := persistence.QuerierFrom(ctx, r.pool)

	var stream domain.Stream
	if err := q.QueryRow(ctx, query, id).Scan(
		&stream.ID,
		&stream.ProjectID,
		&stream.Name,
		&stream.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &stream, nil
}

func (r *taxonomyRepository) GetSubject(ctx context.Context, id string) (*domain.Subject, error) {
	const query = `SELECT id, stream_id, name, created_at FROM subjects WHERE id=$1`
	q := persistence.QuerierFrom(ctx, r.pool)

	var subject domain.Subject
	if err := q.QueryRow(ctx, query, id).Scan(
		&subject.ID,
		&subject.StreamID,
		&subject.Name,
		&subject.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &subject, nil
}

func (r *taxonomyRepository) ListStatuses(ctx context.Context, organizationID string) ([]domain.TicketStatus, error) {
	const query = `
        SELECT id, organization_id, name, is_closed, created_at
        FROM ticket_statuses WHERE organization_id=$1 ORDER BY name ASC`
	q := persistence.QuerierFrom(ctx, r.pool)
	rows, err := q.Query(ctx, query, organizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketStatus
	for rows.Next() {
		var status domain.TicketStatus
		if err := rows.Scan(
			&status.ID,
			&status.OrganizationID,
			&status.Name,
			&status.IsClosed,
			&status.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, status)
	}
	return result, rows.Err()
}

func (r *taxonomyRepository) ListPriorities(ctx context.Context, organizationID string) ([]domain.TicketPriority, error) {
	const query = `
        SELECT id, organization_id, name, rank, created_at
        FROM ticket_priorities WHERE organization_id=$1 ORDER BY rank ASC`
	q := persistence.QuerierFrom(ctx, r.pool)
	rows, err := q.Query(ctx, query, organizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketPriority
	for rows.Next() {
		var priority domain.TicketPriority
		if err := rows.Scan(
			&priority.ID,
			&priority.OrganizationID,
			&priority.Name,
			&priority.Rank,
			&priority.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, priority)
	}
	return result, rows.Err()
}
