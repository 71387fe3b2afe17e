package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/autoclose-service/internal/domain"
)

// NotificationRepository persists notification records for the delivery
// subsystem to pick up.
type NotificationRepository interface {
	CreateBatch(ctx context.Context, notifications []domain.Notification) error
}

type notificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository instantiates repository.
func NewNotificationRepository(pool *pgxpool.Pool) NotificationRepository {
	return &notificationRepository{pool: pool}
}

func (r *notificationRepository) CreateBatch(ctx context.Context, notifications []domain.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	const query = `
        INSERT INTO notifications (user_id, title, message, type, reference_type, reference_id, is_read)
        VALUES ($1,$2,$3,$4,$5,$6,$7)`

	batch := &pgx.Batch{}
	for _, n := range notifications {
		batch.Queue(query, n.UserID, n.Title, n.Message, n.Type, n.ReferenceType, n.ReferenceID, n.IsRead)
	}
	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range notifications {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return nil
}
