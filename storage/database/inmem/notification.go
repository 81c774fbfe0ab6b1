package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/mentori/core/notification"
)

type notificationRepository struct {
	db *notificationTable
}

var _ notification.Repository = (*notificationRepository)(nil) // interface compliance check

func NewNotificationRepository(db *DB) *notificationRepository {
	return &notificationRepository{db: db.notification}
}

func (repo *notificationRepository) CreateNotification(_ context.Context, n notification.Notification) (notification.Notification, error) {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.table[n.ID] = &n
	return n, nil
}

func (repo *notificationRepository) GetNotification(_ context.Context, id string) (notification.Notification, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if n, ok := repo.db.table[id]; ok {
		return *n, nil
	}
	return notification.Notification{}, notification.ErrNotFound
}

func (repo *notificationRepository) QueryNotifications(_ context.Context, recipientID string, unreadOnly bool) ([]notification.Notification, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	res := make([]notification.Notification, 0)
	for _, n := range repo.db.table {
		if n.RecipientID == recipientID && (!unreadOnly || !n.ReadAt.Valid) {
			res = append(res, *n)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		if !res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].CreatedAt.After(res[j].CreatedAt)
		}
		return res[i].ID > res[j].ID
	})
	return res, nil
}

func (repo *notificationRepository) MarkRead(_ context.Context, id string, at time.Time) (notification.Notification, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	n, ok := repo.db.table[id]
	if !ok {
		return notification.Notification{}, notification.ErrNotFound
	}
	if !n.ReadAt.Valid {
		n.ReadAt = null.TimeFrom(at)
	}
	return *n, nil
}
