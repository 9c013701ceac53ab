package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/persistence"
)

// SequenceRepository issues per-client ticket numbers.
type SequenceRepository interface {
	NextNumber(ctx context.Context, clientID string) (int64, error)
}

type sequenceRepository struct {
	pool *pgxpool.Pool
}

// NewSequenceRepository builds repository.
func NewSequenceRepository(pool *pgxpool.Pool) SequenceRepository {
	return &sequenceRepository{pool: pool}
}

// NextNumber increments and returns the counter for the client in a single
// atomic statement. Concurrent callers for the same client are serialized by
// the row lock the upsert takes, so numbers are gap-free and never reused.
// Rolling back the enclosing transaction rolls the increment back with it.
func (r *sequenceRepository) NextNumber(ctx context.Context, clientID string) (int64, error) {
	const query = `
        INSERT INTO client_ticket_counters (client_id, last_number)
        VALUES ($1, 1)
        ON CONFLICT (client_id)
        DO UPDATE SET last_number = client_ticket_counters.last_number + 1
        RETURNING last_number`
	q := persistence.QuerierFrom(ctx, r.pool)
	var n int64
	if err := q.QueryRow(ctx, query, clientID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
