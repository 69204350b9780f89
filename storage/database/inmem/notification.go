package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/kitcoek/eduforum/core/notification"
)

type notificationRepository struct {
	db *DB
}

var _ notification.Repository = (*notificationRepository)(nil)

func NewNotificationRepository(db *DB) notification.Repository {
	return &notificationRepository{db: db}
}

func (repo *notificationRepository) CreateNotification(ctx context.Context, ntf notification.Notification) (notification.Notification, error) {
	repo.db.notification.Lock()
	defer repo.db.notification.Unlock()

	if ntf.ID == "" {
		ntf.ID = uuid.New().String()
	}
	repo.db.notification.table[ntf.ID] = &ntf
	return ntf, nil
}

func (repo *notificationRepository) QueryNotifications(ctx context.Context, userID string) ([]notification.Notification, error) {
	repo.db.notification.RLock()
	defer repo.db.notification.RUnlock()

	feed := make([]notification.Notification, 0)
	for _, ntf := range repo.db.notification.table {
		if ntf.UserID == userID {
			feed = append(feed, *ntf)
		}
	}
	sort.Slice(feed, func(i, j int) bool {
		fi, fj := feed[i], feed[j]
		if !fi.CreatedAt.Equal(fj.CreatedAt) {
			return fi.CreatedAt.After(fj.CreatedAt)
		}
		return fi.ID < fj.ID
	})
	return feed, nil
}

func (repo *notificationRepository) MarkNotificationsRead(ctx context.Context, userID string, ids []string) error {
	repo.db.notification.Lock()
	defer repo.db.notification.Unlock()

	for _, id := range ids {
		if ntf, ok := repo.db.notification.table[id]; ok && ntf.UserID == userID {
			ntf.Read = true
		}
	}
	return nil
}
