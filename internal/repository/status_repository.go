package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/autoclose-service/internal/domain"
)

// StatusRepository reads the ticket-status reference table.
type StatusRepository interface {
	// FindClosedStatus returns the first status flagged final, or
	// pgx.ErrNoRows when none exists.
	FindClosedStatus(ctx context.Context) (*domain.TicketStatus, error)
	FindIDsByNameLike(ctx context.Context, fragment string) ([]int64, error)
}

type statusRepository struct {
	pool *pgxpool.Pool
}

// NewStatusRepository instantiates repository.
func NewStatusRepository(pool *pgxpool.Pool) StatusRepository {
	return &statusRepository{pool: pool}
}

func (r *statusRepository) FindClosedStatus(ctx context.Context) (*domain.TicketStatus, error) {
	const query = `
        SELECT id, name, is_final FROM ticket_statuses
        WHERE is_final = TRUE ORDER BY id ASC LIMIT 1`
	var status domain.TicketStatus
	if err := r.pool.QueryRow(ctx, query).Scan(&status.ID, &status.Name, &status.IsFinal); err != nil {
		return nil, err
	}
	return &status, nil
}

func (r *statusRepository) FindIDsByNameLike(ctx context.Context, fragment string) ([]int64, error) {
	const query = `
        SELECT id FROM ticket_statuses
        WHERE LOWER(name) LIKE '%' || LOWER($1) || '%' ORDER BY id ASC`
	rows, err := r.pool.Query(ctx, query, fragment)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

