package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/autoclose-service/internal/domain"
)

// EligibilityFilter narrows the ticket scan for one rule. Final statuses
// are always excluded; UpdatedBefore is compared inclusively so a ticket
// updated exactly at the cutoff is eligible.
type EligibilityFilter struct {
	StatusID      *int64
	StatusIDs     []int64
	UpdatedBefore time.Time
	Limit         int
}

// TicketRepository encapsulates the ticket-store reads and the single
// write (the closing status transition) the engine performs.
type TicketRepository interface {
	ListEligible(ctx context.Context, filter EligibilityFilter) ([]domain.Ticket, error)
	Close(ctx context.Context, id string, closedStatusID int64) error
	GetContact(ctx context.Context, id string) (*domain.TicketContact, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `t.id, t.number, t.subject, t.status_id, t.requester_user_id, t.assigned_user_id, t.updated_at`

func (r *ticketRepository) ListEligible(ctx context.Context, filter EligibilityFilter) ([]domain.Ticket, error) {
	base := fmt.Sprintf(`SELECT %s
             FROM tickets t
             JOIN ticket_statuses s ON s.id = t.status_id`, ticketColumns)

	clauses := []string{"s.is_final = FALSE"}
	args := []any{}

	args = append(args, filter.UpdatedBefore)
	clauses = append(clauses, fmt.Sprintf("t.updated_at <= $%d", len(args)))

	if filter.StatusID != nil {
		args = append(args, *filter.StatusID)
		clauses = append(clauses, fmt.Sprintf("t.status_id = $%d", len(args)))
	}
	if len(filter.StatusIDs) > 0 {
		placeholders := make([]string, len(filter.StatusIDs))
		for i, id := range filter.StatusIDs {
			args = append(args, id)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("t.status_id IN (%s)", strings.Join(placeholders, ",")))
	}

	query := fmt.Sprintf("%s WHERE %s ORDER BY t.updated_at ASC", base, strings.Join(clauses, " AND "))
	if filter.Limit > 0 {
		query = fmt.Sprintf("%s LIMIT %d", query, filter.Limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

// Close sets the ticket into the closed status and bumps updated_at.
// Re-applying the same status is a harmless rewrite, so overlapping sweeps
// that match the same ticket stay idempotent.
func (r *ticketRepository) Close(ctx context.Context, id string, closedStatusID int64) error {
	const query = `UPDATE tickets SET status_id=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, closedStatusID, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetContact(ctx context.Context, id string) (*domain.TicketContact, error) {
	const query = `
        SELECT id, number, subject, requester_user_id, assigned_user_id
        FROM tickets WHERE id=$1`
	var contact domain.TicketContact
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&contact.TicketID,
		&contact.Number,
		&contact.Subject,
		&contact.RequesterID,
		&contact.AssignedToID,
	); err != nil {
		return nil, err
	}
	return &contact, nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.Number,
			&ticket.Subject,
			&ticket.StatusID,
			&ticket.RequesterID,
			&ticket.AssignedToID,
			&ticket.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
