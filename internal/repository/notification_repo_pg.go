package repository

import (
	"context"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id int64, userID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id int64, userID uuid.UUID) error
}

type PGNotificationRepository struct {
	db *pgxpool.Pool
}

func NewNotificationRepository(db *pgxpool.Pool) NotificationRepository {
	return &PGNotificationRepository{db: db}
}

func (r *PGNotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	return r.db.QueryRow(ctx, `INSERT INTO notifications (user_id, flight_id, title, message, type)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, read, created_at, updated_at`, n.UserID, n.FlightID, n.Title, n.Message, n.Type).
		Scan(&n.ID, &n.Read, &n.CreatedAt, &n.UpdatedAt)
}

func (r *PGNotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error) {
	rows, err := r.db.Query(ctx, `SELECT id, user_id, flight_id, title, message, type, read, created_at, updated_at
		FROM notifications WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Notification, 0)
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.FlightID, &n.Title, &n.Message, &n.Type, &n.Read, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *PGNotificationRepository) MarkRead(ctx context.Context, id int64, userID uuid.UUID) error {
	cmd, err := r.db.Exec(ctx, `UPDATE notifications SET read=true, updated_at=now() WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGNotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	cmd, err := r.db.Exec(ctx, `UPDATE notifications SET read=true, updated_at=now() WHERE user_id=$1 AND NOT read`, userID)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *PGNotificationRepository) Delete(ctx context.Context, id int64, userID uuid.UUID) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM notifications WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

var _ NotificationRepository = (*PGNotificationRepository)(nil)
