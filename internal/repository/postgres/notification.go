package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/foodrescue/coordination-service/internal/apperrors"
	"github.com/foodrescue/coordination-service/internal/domain"
	"github.com/jmoiron/sqlx"
)

type NotificationRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewNotificationRepository(db *sqlx.DB, log *slog.Logger) *NotificationRepository {
	return &NotificationRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *NotificationRepository) Create(ctx context.Context, ext sqlx.ExtContext, n *domain.Notification) error {
	const op = "internal.repository.postgres.CreateNotification"

	query, args, err := r.sq.Insert("notifications").
		Columns("id", "recipient_id", "type", "title", "message",
			"related_donation_id", "related_user_id", "is_read", "created_at").
		Values(n.ID, n.RecipientID, n.Type, n.Title, n.Message,
			n.RelatedDonationID, n.RelatedUserID, n.IsRead, n.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build insert query: %w", op, err)
	}

	if _, err := ext.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: failed to execute insert: %w", op, err)
	}

	return nil
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	const op = "internal.repository.postgres.ListNotificationsByUser"

	query, args, err := r.sq.Select("id", "recipient_id", "type", "title", "message",
		"related_donation_id", "related_user_id", "is_read", "created_at").
		From("notifications").
		Where(sq.Eq{"recipient_id": userID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var notifications []domain.Notification
	if err := r.db.SelectContext(ctx, &notifications, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []domain.Notification{}, nil
		}

		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return notifications, nil
}

// MarkAsRead is idempotent: the update matches the row whether or not it was
// already read, so a second call succeeds and leaves the row read.
func (r *NotificationRepository) MarkAsRead(ctx context.Context, notificationID string) error {
	const op = "internal.repository.postgres.MarkNotificationAsRead"

	query, args, err := r.sq.Update("notifications").
		Set("is_read", true).
		Where(sq.Eq{"id": notificationID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build update query: %w", op, err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: failed to execute update: %w", op, err)
	}

	if rowsAffected, err := res.RowsAffected(); err == nil && rowsAffected == 0 {
		return fmt.Errorf("%s: %w: notification with id '%s'", op, apperrors.ErrNotFound, notificationID)
	}

	return nil
}
