package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/persistence"
)

// TicketFilter captures listing parameters. Scope is always applied.
type TicketFilter struct {
	Scope          domain.AccessScope
	ProjectID      *string
	StatusIDs      []string
	PriorityIDs    []string
	AssignedToID   *string
	IncludeDeleted bool
	Limit          int
	Offset         int
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	SoftDelete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, project_id, raised_by_user_id, assigned_to_user_id, stream_id, subject_id,
               priority_id, status_id, title, description_md, client_ticket_number, is_deleted,
               created_at, updated_at, closed_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (project_id, raised_by_user_id, assigned_to_user_id, stream_id, subject_id,
            priority_id, status_id, title, description_md, client_ticket_number, closed_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING id, created_at, updated_at`
	q := persistence.QuerierFrom(ctx, r.pool)
	return q.QueryRow(ctx, query,
		ticket.ProjectID,
		ticket.RaisedByID,
		ticket.AssignedToID,
		ticket.StreamID,
		ticket.SubjectID,
		ticket.PriorityID,
		ticket.StatusID,
		ticket.Title,
		ticket.DescriptionMD,
		ticket.ClientTicketNumber,
		ticket.ClosedAt,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET assigned_to_user_id=$1, priority_id=$2, status_id=$3, title=$4,
            description_md=$5, closed_at=$6, updated_at=NOW()
        WHERE id=$7 AND is_deleted=FALSE`
	q := persistence.QuerierFrom(ctx, r.pool)
	cmd, err := q.Exec(ctx, query,
		ticket.AssignedToID,
		ticket.PriorityID,
		ticket.StatusID,
		ticket.Title,
		ticket.DescriptionMD,
		ticket.ClosedAt,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) SoftDelete(ctx context.Context, id string) error {
	const query = `UPDATE tickets SET is_deleted=TRUE, updated_at=NOW() WHERE id=$1`
	q := persistence.QuerierFrom(ctx, r.pool)
	cmd, err := q.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	q := persistence.QuerierFrom(ctx, r.pool)

	var ticket domain.Ticket
	if err := q.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.ProjectID,
		&ticket.RaisedByID,
		&ticket.AssignedToID,
		&ticket.StreamID,
		&ticket.SubjectID,
		&ticket.PriorityID,
		&ticket.StatusID,
		&ticket.Title,
		&ticket.DescriptionMD,
		&ticket.ClientTicketNumber,
		&ticket.IsDeleted,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&ticket.ClosedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if !filter.IncludeDeleted {
		clauses = append(clauses, "is_deleted=FALSE")
	}
	clauses, args = appendScopeClause(filter.Scope, clauses, args)

	if filter.ProjectID != nil {
		args = append(args, *filter.ProjectID)
		clauses = append(clauses, fmt.Sprintf("project_id=$%d", len(args)))
	}
	if filter.AssignedToID != nil {
		args = append(args, *filter.AssignedToID)
		clauses = append(clauses, fmt.Sprintf("assigned_to_user_id=$%d", len(args)))
	}
	if len(filter.StatusIDs) > 0 {
		placeholders := make([]string, len(filter.StatusIDs))
		for i, id := range filter.StatusIDs {
			args = append(args, id)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status_id IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.PriorityIDs) > 0 {
		placeholders := make([]string, len(filter.PriorityIDs))
		for i, id := range filter.PriorityIDs {
			args = append(args, id)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("priority_id IN (%s)", strings.Join(placeholders, ",")))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE %s ORDER BY updated_at DESC LIMIT %d OFFSET %d`,
		ticketColumns, strings.Join(clauses, " AND "), limit, offset)

	q := persistence.QuerierFrom(ctx, r.pool)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

// appendScopeClause translates the access scope variant into SQL. The switch
// is exhaustive over domain.ScopeKind; an unknown kind matches nothing.
func appendScopeClause(scope domain.AccessScope, clauses []string, args []any) ([]string, []any) {
	switch scope.Kind {
	case domain.ScopeAdmin:
		return clauses, args
	case domain.ScopeEmployee:
		args = append(args, scope.UserID)
		n := len(args)
		clauses = append(clauses, fmt.Sprintf("(raised_by_user_id=$%d OR assigned_to_user_id=$%d)", n, n))
		return clauses, args
	case domain.ScopeClient:
		args = append(args, scope.ClientID)
		clauses = append(clauses, fmt.Sprintf("project_id IN (SELECT id FROM projects WHERE client_id=$%d)", len(args)))
		return clauses, args
	default:
		clauses = append(clauses, "1=0")
		return clauses, args
	}
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.ProjectID,
			&ticket.RaisedByID,
			&ticket.AssignedToID,
			&ticket.StreamID,
			&ticket.SubjectID,
			&ticket.PriorityID,
			&ticket.StatusID,
			&ticket.Title,
			&ticket.DescriptionMD,
			&ticket.ClientTicketNumber,
			&ticket.IsDeleted,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
			&ticket.ClosedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
