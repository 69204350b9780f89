package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"github.com/kitcoek/eduforum/core/forum"
)

type forumRepository struct {
	db *DB
}

var _ forum.Repository = (*forumRepository)(nil)

func NewForumRepository(db *DB) forum.Repository {
	return &forumRepository{db: db}
}

func (repo *forumRepository) CreateThread(ctx context.Context, thr forum.Thread) (forum.Thread, error) {
	repo.db.thread.Lock()
	defer repo.db.thread.Unlock()

	if thr.ID == "" {
		thr.ID = uuid.New().String()
	}
	if thr.Tags == nil {
		thr.Tags = []string{}
	}
	repo.db.thread.table[thr.ID] = &thr
	return thr, nil
}

func (repo *forumRepository) QueryThreads(ctx context.Context, courseID string) ([]forum.Thread, error) {
	repo.db.thread.RLock()
	defer repo.db.thread.RUnlock()

	threads := make([]forum.Thread, 0)
	for _, thr := range repo.db.thread.table {
		if courseID == "" || thr.CourseID == courseID {
			threads = append(threads, *thr)
		}
	}
	sort.Slice(threads, func(i, j int) bool {
		ti, tj := threads[i], threads[j]
		if !ti.CreatedAt.Equal(tj.CreatedAt) {
			return ti.CreatedAt.After(tj.CreatedAt)
		}
		return ti.ID < tj.ID
	})
	return threads, nil
}

func (repo *forumRepository) GetThread(ctx context.Context, id string) (forum.Thread, error) {
	repo.db.thread.RLock()
	defer repo.db.thread.RUnlock()

	if thr, ok := repo.db.thread.table[id]; ok {
		return *thr, nil
	}
	return forum.Thread{}, forum.ErrNotFound
}

func (repo *forumRepository) SetVerifiedAnswer(ctx context.Context, threadID string, replyID null.String) error {
	repo.db.thread.Lock()
	defer repo.db.thread.Unlock()

	thr, ok := repo.db.thread.table[threadID]
	if !ok {
		return forum.ErrNotFound
	}
	thr.VerifiedAnswerID = replyID
	return nil
}

func (repo *forumRepository) CreateReply(ctx context.Context, rpl forum.Reply) (forum.Reply, error) {
	repo.db.reply.Lock()
	defer repo.db.reply.Unlock()

	if rpl.ID == "" {
		rpl.ID = uuid.New().String()
	}
	repo.db.reply.table[rpl.ID] = &rpl
	return rpl, nil
}

func (repo *forumRepository) QueryReplies(ctx context.Context, threadID string) ([]forum.Reply, error) {
	repo.db.reply.RLock()
	defer repo.db.reply.RUnlock()

	replies := make([]forum.Reply, 0)
	for _, rpl := range repo.db.reply.table {
		if rpl.ThreadID == threadID {
			replies = append(replies, *rpl)
		}
	}
	sort.Slice(replies, func(i, j int) bool {
		ri, rj := replies[i], replies[j]
		if !ri.CreatedAt.Equal(rj.CreatedAt) {
			return ri.CreatedAt.Before(rj.CreatedAt)
		}
		return ri.ID < rj.ID
	})
	return replies, nil
}

func (repo *forumRepository) GetReply(ctx context.Context, threadID, replyID string) (forum.Reply, error) {
	repo.db.reply.RLock()
	defer repo.db.reply.RUnlock()

	if rpl, ok := repo.db.reply.table[replyID]; ok && rpl.ThreadID == threadID {
		return *rpl, nil
	}
	return forum.Reply{}, forum.ErrNotFound
}

func (repo *forumRepository) UpdateReplyStatus(ctx context.Context, threadID, replyID, status string) (forum.Reply, error) {
	repo.db.reply.Lock()
	defer repo.db.reply.Unlock()

	rpl, ok := repo.db.reply.table[replyID]
	if !ok || rpl.ThreadID != threadID {
		return forum.Reply{}, forum.ErrNotFound
	}
	rpl.Status = status
	return *rpl, nil
}

func (repo *forumRepository) AddReplyVote(ctx context.Context, threadID, replyID, voteType string) (forum.Reply, error) {
	repo.db.reply.Lock()
	defer repo.db.reply.Unlock()

	rpl, ok := repo.db.reply.table[replyID]
	if !ok || rpl.ThreadID != threadID {
		return forum.Reply{}, forum.ErrNotFound
	}
	switch voteType {
	case forum.VoteUp:
		rpl.Upvotes++
	case forum.VoteDown:
		rpl.Downvotes++
	}
	return *rpl, nil
}

func (repo *forumRepository) DeleteReply(ctx context.Context, threadID, replyID string) error {
	repo.db.reply.Lock()
	defer repo.db.reply.Unlock()

	rpl, ok := repo.db.reply.table[replyID]
	if !ok || rpl.ThreadID != threadID {
		return forum.ErrNotFound
	}
	delete(repo.db.reply.table, replyID)
	return nil
}

func (repo *forumRepository) CountReplies(ctx context.Context, threadIDs []string) (map[string]int, error) {
	repo.db.reply.RLock()
	defer repo.db.reply.RUnlock()

	wanted := make(map[string]bool, len(threadIDs))
	for _, id := range threadIDs {
		wanted[id] = true
	}
	counts := make(map[string]int, len(threadIDs))
	for _, rpl := range repo.db.reply.table {
		if wanted[rpl.ThreadID] {
			counts[rpl.ThreadID]++
		}
	}
	return counts, nil
}
