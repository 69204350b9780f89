package notification

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("notification not found")
)

type (
	Repository interface {
		CreateNotification(ctx context.Context, ntf Notification) (Notification, error)
		// QueryNotifications returns a user's feed, newest first.
		QueryNotifications(ctx context.Context, userID string) ([]Notification, error)
		MarkNotificationsRead(ctx context.Context, userID string, ids []string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Push records a notification for each recipient. A failed recipient does not
// block the rest.
func (svc *Service) Push(ctx context.Context, ntf Notification, userIDs ...string) error {
	ntf.CreatedAt = time.Now().UTC()
	var firstErr error
	for _, uid := range userIDs {
		ntf.UserID = uid
		if _, err := svc.repo.CreateNotification(ctx, ntf); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (svc *Service) Query(ctx context.Context, userID string) ([]Notification, error) {
	return svc.repo.QueryNotifications(ctx, userID)
}

func (svc *Service) MarkRead(ctx context.Context, userID string, ids ...string) error {
	return svc.repo.MarkNotificationsRead(ctx, userID, ids)
}
