package sqlxrepos

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/kitcoek/eduforum/core/announcement"
)

type announcementRow struct {
	ID          string         `db:"id"`
	Title       string         `db:"title"`
	Content     string         `db:"content"`
	CourseIDs   pq.StringArray `db:"course_ids"`
	Pinned      bool           `db:"pinned"`
	ScheduledAt null.Time      `db:"scheduled_at"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func (row announcementRow) toCore() announcement.Announcement {
	return announcement.Announcement{
		ID:          row.ID,
		Title:       row.Title,
		Content:     row.Content,
		CourseIDs:   row.CourseIDs,
		Pinned:      row.Pinned,
		ScheduledAt: row.ScheduledAt,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

// selectAnnouncements aggregates the course associations into a course_ids
// array column.
const selectAnnouncements = `
	SELECT a.id, a.title, a.content, a.pinned, a.scheduled_at, a.created_at, a.updated_at,
	       coalesce(array_agg(ac.course_id) FILTER (WHERE ac.course_id IS NOT NULL), '{}') AS course_ids
	FROM announcement a
	LEFT JOIN announcement_course ac ON ac.announcement_id = a.id`

type announcementRepository struct {
	db *sqlx.DB
}

var _ announcement.Repository = (*announcementRepository)(nil)

func NewAnnouncementRepository(db *sqlx.DB) announcement.Repository {
	return &announcementRepository{db: db}
}

func (repo *announcementRepository) CreateAnnouncement(ctx context.Context, ann announcement.Announcement) (announcement.Announcement, error) {
	if ann.ID == "" {
		ann.ID = uuid.New().String()
	}
	if ann.CourseIDs == nil {
		ann.CourseIDs = []string{}
	}
	err := repo.inTx(ctx, func(tx *sqlx.Tx) error {
		const q = `
			INSERT INTO announcement (id, title, content, pinned, scheduled_at, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`
		if _, err := tx.ExecContext(ctx, q,
			ann.ID, ann.Title, ann.Content, ann.Pinned, ann.ScheduledAt, ann.CreatedAt, ann.UpdatedAt,
		); err != nil {
			return errors.Wrap(err, "inserting announcement")
		}
		return insertAnnouncementCourses(ctx, tx, ann.ID, ann.CourseIDs)
	})
	if err != nil {
		return announcement.Announcement{}, err
	}
	return ann, nil
}

func (repo *announcementRepository) QueryAnnouncements(ctx context.Context, filter announcement.QueryFilter) ([]announcement.Announcement, error) {
	q := selectAnnouncements
	var (
		conds []string
		args  []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}
	if filter.CourseID != "" {
		conds = append(conds, "a.id IN (SELECT announcement_id FROM announcement_course WHERE course_id = "+arg(filter.CourseID)+")")
	}
	if filter.Pinned != nil {
		conds = append(conds, "a.pinned = "+arg(*filter.Pinned))
	}
	if !filter.From.IsZero() {
		conds = append(conds, "a.created_at >= "+arg(filter.From))
	}
	if !filter.To.IsZero() {
		conds = append(conds, "a.created_at <= "+arg(filter.To))
	}
	for i, cond := range conds {
		if i == 0 {
			q += " WHERE " + cond
		} else {
			q += " AND " + cond
		}
	}
	q += " GROUP BY a.id ORDER BY a.updated_at DESC, a.id"

	var rows []announcementRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying announcements")
	}
	matches := make([]announcement.Announcement, 0, len(rows))
	for _, row := range rows {
		matches = append(matches, row.toCore())
	}
	return matches, nil
}

func (repo *announcementRepository) GetAnnouncement(ctx context.Context, id string) (announcement.Announcement, error) {
	var row announcementRow
	q := selectAnnouncements + " WHERE a.id = $1 GROUP BY a.id"
	err := repo.db.GetContext(ctx, &row, q, id)
	if err == sql.ErrNoRows {
		return announcement.Announcement{}, announcement.ErrNotFound
	}
	if err != nil {
		return announcement.Announcement{}, errors.Wrap(err, "getting announcement")
	}
	return row.toCore(), nil
}

func (repo *announcementRepository) UpdateAnnouncement(ctx context.Context, ann announcement.Announcement) (announcement.Announcement, error) {
	err := repo.inTx(ctx, func(tx *sqlx.Tx) error {
		const q = `
			UPDATE announcement
			SET title = $2, content = $3, pinned = $4, scheduled_at = $5, updated_at = $6
			WHERE id = $1`
		res, err := tx.ExecContext(ctx, q, ann.ID, ann.Title, ann.Content, ann.Pinned, ann.ScheduledAt, ann.UpdatedAt)
		if err != nil {
			return errors.Wrap(err, "updating announcement")
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return announcement.ErrNotFound
		}
		if _, err = tx.ExecContext(ctx, "DELETE FROM announcement_course WHERE announcement_id = $1", ann.ID); err != nil {
			return errors.Wrap(err, "updating announcement courses")
		}
		return insertAnnouncementCourses(ctx, tx, ann.ID, ann.CourseIDs)
	})
	if err != nil {
		return announcement.Announcement{}, err
	}
	return ann, nil
}

func (repo *announcementRepository) DeleteAnnouncement(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, "DELETE FROM announcement WHERE id = $1", id)
	if err != nil {
		return errors.Wrap(err, "deleting announcement")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return announcement.ErrNotFound
	}
	return nil
}

func (repo *announcementRepository) PinAnnouncements(ctx context.Context, ids []string, pinned bool) error {
	const q = "UPDATE announcement SET pinned = $2, updated_at = $3 WHERE id = ANY($1)"
	if _, err := repo.db.ExecContext(ctx, q, pq.Array(ids), pinned, time.Now().UTC()); err != nil {
		return errors.Wrap(err, "pinning announcements")
	}
	return nil
}

func (repo *announcementRepository) DeleteAnnouncements(ctx context.Context, ids []string) error {
	if _, err := repo.db.ExecContext(ctx, "DELETE FROM announcement WHERE id = ANY($1)", pq.Array(ids)); err != nil {
		return errors.Wrap(err, "deleting announcements")
	}
	return nil
}

func (repo *announcementRepository) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning tx")
	}
	if err = fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return errors.Wrap(tx.Commit(), "committing tx")
}

func insertAnnouncementCourses(ctx context.Context, tx *sqlx.Tx, annID string, courseIDs []string) error {
	for _, cid := range courseIDs {
		const q = "INSERT INTO announcement_course (announcement_id, course_id) VALUES ($1, $2) ON CONFLICT DO NOTHING"
		if _, err := tx.ExecContext(ctx, q, annID, cid); err != nil {
			return errors.Wrap(err, "inserting announcement course")
		}
	}
	return nil
}
