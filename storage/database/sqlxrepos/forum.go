package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/kitcoek/eduforum/core/forum"
)

type threadRow struct {
	ID               string         `db:"id"`
	CourseID         string         `db:"course_id"`
	Title            string         `db:"title"`
	Content          string         `db:"content"`
	Author           string         `db:"author"`
	AuthorID         string         `db:"author_id"`
	Tags             pq.StringArray `db:"tags"`
	Upvotes          int            `db:"upvotes"`
	VerifiedAnswerID null.String    `db:"verified_answer_id"`
	CreatedAt        time.Time      `db:"created_at"`
}

func (row threadRow) toCore() forum.Thread {
	return forum.Thread{
		ID:               row.ID,
		CourseID:         row.CourseID,
		Title:            row.Title,
		Content:          row.Content,
		Author:           row.Author,
		AuthorID:         row.AuthorID,
		Tags:             row.Tags,
		Upvotes:          row.Upvotes,
		VerifiedAnswerID: row.VerifiedAnswerID,
		CreatedAt:        row.CreatedAt,
	}
}

type replyRow struct {
	ID        string    `db:"id"`
	ThreadID  string    `db:"thread_id"`
	Author    string    `db:"author"`
	AuthorID  string    `db:"author_id"`
	Content   string    `db:"content"`
	Upvotes   int       `db:"upvotes"`
	Downvotes int       `db:"downvotes"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
}

func (row replyRow) toCore() forum.Reply {
	return forum.Reply(row)
}

type forumRepository struct {
	db *sqlx.DB
}

var _ forum.Repository = (*forumRepository)(nil)

func NewForumRepository(db *sqlx.DB) forum.Repository {
	return &forumRepository{db: db}
}

func (repo *forumRepository) CreateThread(ctx context.Context, thr forum.Thread) (forum.Thread, error) {
	if thr.ID == "" {
		thr.ID = uuid.New().String()
	}
	if thr.Tags == nil {
		thr.Tags = []string{}
	}
	const q = `
		INSERT INTO thread (id, course_id, title, content, author, author_id, tags, upvotes, verified_answer_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := repo.db.ExecContext(ctx, q,
		thr.ID, thr.CourseID, thr.Title, thr.Content, thr.Author, thr.AuthorID,
		pq.Array(thr.Tags), thr.Upvotes, thr.VerifiedAnswerID, thr.CreatedAt,
	)
	if err != nil {
		return forum.Thread{}, errors.Wrap(err, "inserting thread")
	}
	return thr, nil
}

func (repo *forumRepository) QueryThreads(ctx context.Context, courseID string) ([]forum.Thread, error) {
	q := "SELECT * FROM thread ORDER BY created_at DESC, id"
	args := []interface{}{}
	if courseID != "" {
		q = "SELECT * FROM thread WHERE course_id = $1 ORDER BY created_at DESC, id"
		args = append(args, courseID)
	}
	var rows []threadRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying threads")
	}
	threads := make([]forum.Thread, 0, len(rows))
	for _, row := range rows {
		threads = append(threads, row.toCore())
	}
	return threads, nil
}

func (repo *forumRepository) GetThread(ctx context.Context, id string) (forum.Thread, error) {
	var row threadRow
	err := repo.db.GetContext(ctx, &row, "SELECT * FROM thread WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return forum.Thread{}, forum.ErrNotFound
	}
	if err != nil {
		return forum.Thread{}, errors.Wrap(err, "getting thread")
	}
	return row.toCore(), nil
}

func (repo *forumRepository) SetVerifiedAnswer(ctx context.Context, threadID string, replyID null.String) error {
	const q = "UPDATE thread SET verified_answer_id = $2 WHERE id = $1"
	res, err := repo.db.ExecContext(ctx, q, threadID, replyID)
	if err != nil {
		return errors.Wrap(err, "updating thread")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return forum.ErrNotFound
	}
	return nil
}

func (repo *forumRepository) CreateReply(ctx context.Context, rpl forum.Reply) (forum.Reply, error) {
	if rpl.ID == "" {
		rpl.ID = uuid.New().String()
	}
	const q = `
		INSERT INTO reply (id, thread_id, author, author_id, content, upvotes, downvotes, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := repo.db.ExecContext(ctx, q,
		rpl.ID, rpl.ThreadID, rpl.Author, rpl.AuthorID, rpl.Content,
		rpl.Upvotes, rpl.Downvotes, rpl.Status, rpl.CreatedAt,
	)
	if err != nil {
		return forum.Reply{}, errors.Wrap(err, "inserting reply")
	}
	return rpl, nil
}

func (repo *forumRepository) QueryReplies(ctx context.Context, threadID string) ([]forum.Reply, error) {
	var rows []replyRow
	const q = "SELECT * FROM reply WHERE thread_id = $1 ORDER BY created_at, id"
	if err := repo.db.SelectContext(ctx, &rows, q, threadID); err != nil {
		return nil, errors.Wrap(err, "querying replies")
	}
	replies := make([]forum.Reply, 0, len(rows))
	for _, row := range rows {
		replies = append(replies, row.toCore())
	}
	return replies, nil
}

func (repo *forumRepository) GetReply(ctx context.Context, threadID, replyID string) (forum.Reply, error) {
	var row replyRow
	const q = "SELECT * FROM reply WHERE id = $1 AND thread_id = $2"
	err := repo.db.GetContext(ctx, &row, q, replyID, threadID)
	if err == sql.ErrNoRows {
		return forum.Reply{}, forum.ErrNotFound
	}
	if err != nil {
		return forum.Reply{}, errors.Wrap(err, "getting reply")
	}
	return row.toCore(), nil
}

func (repo *forumRepository) UpdateReplyStatus(ctx context.Context, threadID, replyID, status string) (forum.Reply, error) {
	const q = "UPDATE reply SET status = $3 WHERE id = $1 AND thread_id = $2"
	res, err := repo.db.ExecContext(ctx, q, replyID, threadID, status)
	if err != nil {
		return forum.Reply{}, errors.Wrap(err, "updating reply")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return forum.Reply{}, forum.ErrNotFound
	}
	return repo.GetReply(ctx, threadID, replyID)
}

func (repo *forumRepository) AddReplyVote(ctx context.Context, threadID, replyID, voteType string) (forum.Reply, error) {
	col := "upvotes"
	if voteType == forum.VoteDown {
		col = "downvotes"
	}
	q := "UPDATE reply SET " + col + " = " + col + " + 1 WHERE id = $1 AND thread_id = $2"
	res, err := repo.db.ExecContext(ctx, q, replyID, threadID)
	if err != nil {
		return forum.Reply{}, errors.Wrap(err, "updating reply")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return forum.Reply{}, forum.ErrNotFound
	}
	return repo.GetReply(ctx, threadID, replyID)
}

func (repo *forumRepository) DeleteReply(ctx context.Context, threadID, replyID string) error {
	const q = "DELETE FROM reply WHERE id = $1 AND thread_id = $2"
	res, err := repo.db.ExecContext(ctx, q, replyID, threadID)
	if err != nil {
		return errors.Wrap(err, "deleting reply")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return forum.ErrNotFound
	}
	return nil
}

func (repo *forumRepository) CountReplies(ctx context.Context, threadIDs []string) (map[string]int, error) {
	counts := make(map[string]int, len(threadIDs))
	if len(threadIDs) == 0 {
		return counts, nil
	}
	const q = "SELECT thread_id, count(*) AS n FROM reply WHERE thread_id = ANY($1) GROUP BY thread_id"
	rows, err := repo.db.QueryContext(ctx, q, pq.Array(threadIDs))
	if err != nil {
		return nil, errors.Wrap(err, "counting replies")
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var (
			id string
			n  int
		)
		if err = rows.Scan(&id, &n); err != nil {
			return nil, errors.Wrap(err, "counting replies")
		}
		counts[id] = n
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "counting replies")
	}
	return counts, nil
}
