package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/persistence"
)

// ProjectRepository persists projects and project memberships.
type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	ListByClient(ctx context.Context, clientID string, limit, offset int) ([]domain.Project, error)
	UpsertMember(ctx context.Context, member *domain.ProjectMember) error
	GetMember(ctx context.Context, projectID, userID string) (*domain.ProjectMember, error)
}

type projectRepository struct {
	pool *pgxpool.Pool
}

// NewProjectRepository builds repository.
func NewProjectRepository(pool *pgxpool.Pool) ProjectRepository {
	return &projectRepository{pool: pool}
}

func (r *projectRepository) Create(ctx context.Context, project *domain.Project) error {
	const query = `
        INSERT INTO projects (client_id, name)
        VALUES ($1,$2)
        RETURNING id, created_at, updated_at`
	q := persistence.QuerierFrom(ctx, r.pool)
	return q.QueryRow(ctx, query,
		project.ClientID,
		project.Name,
	).Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt)
}

func (r *projectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	const query = `
        SELECT id, client_id, name, created_at, updated_at
        FROM projects WHERE id=$1`
	q := persistence.QuerierFrom(ctx, r.pool)

	var project domain.Project
	if err := q.QueryRow(ctx, query, id).Scan(
		&project.ID,
		&project.ClientID,
		&project.Name,
		&project.CreatedAt,
		&project.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) ListByClient(ctx context.Context, clientID string, limit, offset int) ([]domain.Project, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT id, client_id, name, created_at, updated_at
        FROM projects WHERE client_id=$1 ORDER BY name ASC LIMIT $2 OFFSET $3`
	q := persistence.QuerierFrom(ctx, r.pool)
	rows, err := q.Query(ctx, query, clientID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Project
	for rows.Next() {
		var project domain.Project
		if err := rows.Scan(
			&project.ID,
			&project.ClientID,
			&project.Name,
			&project.CreatedAt,
			&project.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, project)
	}
	return result, rows.Err()
}

func (r *projectRepository) UpsertMember(ctx context.Context, member *domain.ProjectMember) error {
	const query = `
        INSERT INTO project_members (project_id, user_id, can_raise, can_be_assigned)
        VALUES ($1,$2,$3,$4)
        ON CONFLICT (project_id, user_id)
        DO UPDATE SET can_raise=EXCLUDED.can_raise, can_be_assigned=EXCLUDED.can_be_assigned
        RETURNING created_at`
	q := persistence.QuerierFrom(ctx, r.pool)
	return q.QueryRow(ctx, query,
		member.ProjectID,
		member.UserID,
		member.CanRaise,
		member.CanBeAssigned,
	).Scan(&member.CreatedAt)
}

func (r *projectRepository) GetMember(ctx context.Context, projectID, userID string) (*domain.ProjectMember, error) {
	const query = `
        SELECT project_id, user_id, can_raise, can_be_assigned, created_at
        FROM project_members WHERE project_id=$1 AND user_id=$2`
	q := persistence.QuerierFrom(ctx, r.pool)

	var member domain.ProjectMember
	if err := q.QueryRow(ctx, query, projectID, userID).Scan(
		&member.ProjectID,
		&member.UserID,
		&member.CanRaise,
		&member.CanBeAssigned,
		&member.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &member, nil
}
