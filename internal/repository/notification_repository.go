package repository

import (
	"context"
	"database/sql"

	"github.com/Kiraws/ExploreTogoBack/internal/model"
)

type NotificationRepo struct{ DB *sql.DB }

func NewNotificationRepo(db *sql.DB) *NotificationRepo { return &NotificationRepo{DB: db} }

const notificationColumns = `id, message, type_notification, is_read, user_id, created_at, updated_at`

func scanNotification(s rowScanner) (model.Notification, error) {
	var n model.Notification
	err := s.Scan(&n.ID, &n.Message, &n.TypeNotification, &n.IsRead, &n.UserID,
		&n.CreatedAt, &n.UpdatedAt)
	return n, err
}

// Create inserts an unread notification and returns its ID.
func (r *NotificationRepo) Create(ctx context.Context, userID int64, message, typeNotification string) (int64, error) {
	var id int64
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO notifications (message, type_notification, user_id) VALUES ($1, $2, $3) RETURNING id`,
		message, typeNotification, userID).Scan(&id)
	return id, err
}

// ListByUser returns a user's notifications, newest first.
func (r *NotificationRepo) ListByUser(ctx context.Context, userID int64) ([]model.Notification, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+notificationColumns+` FROM notifications WHERE user_id = $1 ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// CountUnread returns the number of unread notifications for a user.
func (r *NotificationRepo) CountUnread(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE`,
		userID).Scan(&n)
	return n, err
}

// MarkRead flips one notification to read, scoped to its owner so a
// user cannot touch someone else's rows.
func (r *NotificationRepo) MarkRead(ctx context.Context, id, userID int64) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE, updated_at = NOW() WHERE id = $1 AND user_id = $2`,
		id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// MarkAllRead flips every unread notification of a user.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID int64) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE, updated_at = NOW() WHERE user_id = $1 AND is_read = FALSE`,
		userID)
	return err
}

// Delete removes one notification, scoped to its owner.
func (r *NotificationRepo) Delete(ctx context.Context, id, userID int64) error {
	res, err := r.DB.ExecContext(ctx,
		`DELETE FROM notifications WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
