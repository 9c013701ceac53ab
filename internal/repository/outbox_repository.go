package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/persistence"
)

// OutboxRepository persists notification intents. Entries are never deleted;
// DeliveredAt is set at most once.
type OutboxRepository interface {
	Enqueue(ctx context.Context, entry *domain.OutboxEntry) error
	ListPending(ctx context.Context, limit int) ([]domain.OutboxEntry, error)
	ClaimPending(ctx context.Context, limit int) ([]domain.OutboxEntry, error)
	MarkDelivered(ctx context.Context, id string, at time.Time) error
	IncrementAttempts(ctx context.Context, id string) error
}

type outboxRepository struct {
	pool *pgxpool.Pool
}

// NewOutboxRepository builds repository.
func NewOutboxRepository(pool *pgxpool.Pool) OutboxRepository {
	return &outboxRepository{pool: pool}
}

const outboxColumns = `id, topic, ticket_id, recipient_user_id, payload, attempts, delivered_at, created_at`

func (r *outboxRepository) Enqueue(ctx context.Context, entry *domain.OutboxEntry) error {
	const query = `
        INSERT INTO notification_outbox (topic, ticket_id, recipient_user_id, payload)
        VALUES ($1,$2,$3,$4)
        RETURNING id, attempts, created_at`
	q := persistence.QuerierFrom(ctx, r.pool)
	return q.QueryRow(ctx, query,
		entry.Topic,
		entry.TicketID,
		entry.RecipientID,
		entry.Payload,
	).Scan(&entry.ID, &entry.Attempts, &entry.CreatedAt)
}

func (r *outboxRepository) ListPending(ctx context.Context, limit int) ([]domain.OutboxEntry, error) {
	query := `SELECT ` + outboxColumns + `
        FROM notification_outbox WHERE delivered_at IS NULL
        ORDER BY created_at ASC LIMIT $1`
	return r.queryEntries(ctx, query, limit)
}

// ClaimPending locks the selected rows for the duration of the enclosing
// transaction. SKIP LOCKED lets a second dispatcher instance pass over rows
// a running batch already holds instead of double-delivering them.
func (r *outboxRepository) ClaimPending(ctx context.Context, limit int) ([]domain.OutboxEntry, error) {
	query := `SELECT ` + outboxColumns + `
        FROM notification_outbox WHERE delivered_at IS NULL
        ORDER BY created_at ASC LIMIT $1
        FOR UPDATE SKIP LOCKED`
	return r.queryEntries(ctx, query, limit)
}

func (r *outboxRepository) MarkDelivered(ctx context.Context, id string, at time.Time) error {
	const query = `
        UPDATE notification_outbox SET delivered_at=$2
        WHERE id=$1 AND delivered_at IS NULL`
	q := persistence.QuerierFrom(ctx, r.pool)
	cmd, err := q.Exec(ctx, query, id, at)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *outboxRepository) IncrementAttempts(ctx context.Context, id string) error {
	const query = `UPDATE notification_outbox SET attempts=attempts+1 WHERE id=$1`
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

func (r *outboxRepository) queryEntries(ctx context.Context, query string, limit int) ([]domain.OutboxEntry, error) {
	q := persistence.QuerierFrom(ctx, r.pool)
	rows, err := q.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.OutboxEntry
	for rows.Next() {
		var entry domain.OutboxEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.Topic,
			&entry.TicketID,
			&entry.RecipientID,
			&entry.Payload,
			&entry.Attempts,
			&entry.DeliveredAt,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
