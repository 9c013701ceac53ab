package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/persistence"
)

// TicketEventRepository stores the append-only audit trail. There is no
// update or delete on purpose.
type TicketEventRepository interface {
	Append(ctx context.Context, event *domain.TicketEvent) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketEvent, error)
}

type ticketEventRepository struct {
	pool *pgxpool.Pool
}

// NewTicketEventRepository builds repository.
func NewTicketEventRepository(pool *pgxpool.Pool) TicketEventRepository {
	return &ticketEventRepository{pool: pool}
}

func (r *ticketEventRepository) Append(ctx context.Context, event *domain.TicketEvent) error {
	const query = `
        INSERT INTO ticket_events (id, ticket_id, actor_user_id, event_type, old_value, new_value)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING created_at`
	q := persistence.QuerierFrom(ctx, r.pool)
	return q.QueryRow(ctx, query,
		event.ID,
		event.TicketID,
		event.ActorID,
		event.Type,
		event.OldValue,
		event.NewValue,
	).Scan(&event.CreatedAt)
}

func (r *ticketEventRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketEvent, error) {
	const query = `
        SELECT id, ticket_id, actor_user_id, event_type, old_value, new_value, created_at
        FROM ticket_events WHERE ticket_id=$1 ORDER BY created_at ASC`
	q := persistence.QuerierFrom(ctx, r.pool)
	rows, err := q.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketEvent
	for rows.Next() {
		var event domain.TicketEvent
		if err := rows.Scan(
			&event.ID,
			&event.TicketID,
			&event.ActorID,
			&event.Type,
			&event.OldValue,
			&event.NewValue,
			&event.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, event)
	}
	return result, rows.Err()
}
