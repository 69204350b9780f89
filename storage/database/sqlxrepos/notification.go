package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/kitcoek/eduforum/core/notification"
)

type notificationRow struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Type      string    `db:"type"`
	Title     string    `db:"title"`
	Message   string    `db:"message"`
	Link      string    `db:"link"`
	Read      bool      `db:"read"`
	CreatedAt time.Time `db:"created_at"`
}

func (row notificationRow) toCore() notification.Notification {
	return notification.Notification(row)
}

type notificationRepository struct {
	db *sqlx.DB
}

var _ notification.Repository = (*notificationRepository)(nil)

func NewNotificationRepository(db *sqlx.DB) notification.Repository {
	return &notificationRepository{db: db}
}

func (repo *notificationRepository) CreateNotification(ctx context.Context, ntf notification.Notification) (notification.Notification, error) {
	if ntf.ID == "" {
		ntf.ID = uuid.New().String()
	}
	const q = `
		INSERT INTO notification (id, user_id, type, title, message, link, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := repo.db.ExecContext(ctx, q,
		ntf.ID, ntf.UserID, ntf.Type, ntf.Title, ntf.Message, ntf.Link, ntf.Read, ntf.CreatedAt,
	)
	if err != nil {
		return notification.Notification{}, errors.Wrap(err, "inserting notification")
	}
	return ntf, nil
}

func (repo *notificationRepository) QueryNotifications(ctx context.Context, userID string) ([]notification.Notification, error) {
	var rows []notificationRow
	const q = `SELECT * FROM notification WHERE user_id = $1 ORDER BY created_at DESC, id`
	if err := repo.db.SelectContext(ctx, &rows, q, userID); err != nil {
		return nil, errors.Wrap(err, "querying notifications")
	}
	feed := make([]notification.Notification, 0, len(rows))
	for _, row := range rows {
		feed = append(feed, row.toCore())
	}
	return feed, nil
}

func (repo *notificationRepository) MarkNotificationsRead(ctx context.Context, userID string, ids []string) error {
	const q = `UPDATE notification SET read = true WHERE user_id = $1 AND id = ANY($2)`
	if _, err := repo.db.ExecContext(ctx, q, userID, pq.Array(ids)); err != nil {
		return errors.Wrap(err, "marking notifications read")
	}
	return nil
}
