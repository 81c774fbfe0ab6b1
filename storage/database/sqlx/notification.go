package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/mentori/core/notification"
)

type notificationRepository struct {
	db sqlx.ExtContext
}

var _ notification.Repository = (*notificationRepository)(nil) // interface compliance check

func NewNotificationRepository(db sqlx.ExtContext) *notificationRepository {
	return &notificationRepository{db: db}
}

func (repo notificationRepository) CreateNotification(ctx context.Context, n notification.Notification) (notification.Notification, error) {
	q := `INSERT INTO notifications (id, recipient_id, kind, title, body, read_at, created_at)
		VALUES (:id, :recipient_id, :kind, :title, :body, :read_at, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, repo.db, q, n); err != nil {
		return notification.Notification{}, errors.Wrap(err, "inserting notification")
	}
	return n, nil
}

func (repo notificationRepository) GetNotification(ctx context.Context, id string) (notification.Notification, error) {
	var n notification.Notification
	if err := sqlx.GetContext(ctx, repo.db, &n, "SELECT * FROM notifications WHERE id = $1", id); err != nil {
		return notification.Notification{}, trapNoRowsErr(err, notification.ErrNotFound, "selecting notification")
	}
	return n, nil
}

func (repo notificationRepository) QueryNotifications(ctx context.Context, recipientID string, unreadOnly bool) ([]notification.Notification, error) {
	q := "SELECT * FROM notifications WHERE recipient_id = $1"
	if unreadOnly {
		q += " AND read_at IS NULL"
	}
	q += " ORDER BY created_at DESC"

	res := make([]notification.Notification, 0)
	if err := sqlx.SelectContext(ctx, repo.db, &res, q, recipientID); err != nil {
		return nil, errors.Wrap(err, "selecting notifications")
	}
	return res, nil
}

func (repo notificationRepository) MarkRead(ctx context.Context, id string, at time.Time) (notification.Notification, error) {
	var n notification.Notification
	q := "UPDATE notifications SET read_at = COALESCE(read_at, $2) WHERE id = $1 RETURNING *"
	if err := sqlx.GetContext(ctx, repo.db, &n, q, id, at.UTC()); err != nil {
		return notification.Notification{}, trapNoRowsErr(err, notification.ErrNotFound, "marking notification read")
	}
	return n, nil
}
