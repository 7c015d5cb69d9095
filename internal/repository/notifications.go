package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/Dan9191/loan-service/internal/apperrors"
	"github.com/Dan9191/loan-service/internal/models"
)

// ListNotifications returns the latest notifications of a user
func (r *Repository) ListNotifications(ctx context.Context, userID uuid.UUID, limit int) ([]models.Notification, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, title, message, kind, link, read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, translate("failed to list notifications", err)
	}
	defer rows.Close()

	out := make([]models.Notification, 0)
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Kind, &n.Link, &n.Read, &n.CreatedAt); err != nil {
			return nil, translate("failed to scan notification", err)
		}
		out = append(out, n)
	}
	return out, translate("failed to list notifications", rows.Err())
}

// CreateNotification stores a new unread notification
func (r *Repository) CreateNotification(ctx context.Context, n *models.Notification) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO notifications (id, user_id, title, message, kind, link, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE, CURRENT_TIMESTAMP)
		RETURNING read, created_at`,
		n.ID, n.UserID, n.Title, n.Message, n.Kind, n.Link).Scan(&n.Read, &n.CreatedAt)
	return translate("failed to create notification", err)
}

// MarkNotificationRead marks one notification of the user as read
func (r *Repository) MarkNotificationRead(ctx context.Context, userID, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return translate("failed to mark notification read", err)
	}
	return mustAffect(res, "notification")
}

// MarkAllNotificationsRead marks every unread notification of the user as read
func (r *Repository) MarkAllNotificationsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET read = TRUE WHERE user_id = $1 AND read = FALSE`, userID)
	if err != nil {
		return 0, translate("failed to mark notifications read", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, apperrors.Persistence("rows affected", err)
	}
	return n, nil
}
