package forum

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/kitcoek/eduforum/core/notification"
)

var (
	ErrNotFound = errors.New("thread or reply not found")
)

type (
	Repository interface {
		CreateThread(ctx context.Context, thr Thread) (Thread, error)
		// QueryThreads returns threads newest first; courseID == "" returns all.
		QueryThreads(ctx context.Context, courseID string) ([]Thread, error)
		GetThread(ctx context.Context, id string) (Thread, error)
		SetVerifiedAnswer(ctx context.Context, threadID string, replyID null.String) error

		CreateReply(ctx context.Context, rpl Reply) (Reply, error)
		// QueryReplies returns a thread's replies oldest first.
		QueryReplies(ctx context.Context, threadID string) ([]Reply, error)
		GetReply(ctx context.Context, threadID, replyID string) (Reply, error)
		UpdateReplyStatus(ctx context.Context, threadID, replyID, status string) (Reply, error)
		AddReplyVote(ctx context.Context, threadID, replyID, voteType string) (Reply, error)
		DeleteReply(ctx context.Context, threadID, replyID string) error
		CountReplies(ctx context.Context, threadIDs []string) (map[string]int, error)
	}

	Service struct {
		repo  Repository
		notif *notification.Service
	}
)

func NewService(repo Repository, notif *notification.Service) *Service {
	return &Service{repo: repo, notif: notif}
}

func (svc *Service) CreateThread(ctx context.Context, nt NewThread) (ThreadInfo, error) {
	thr := Thread{
		CourseID:  nt.CourseID,
		Title:     nt.Title,
		Content:   nt.Content,
		Author:    nt.Author,
		AuthorID:  nt.AuthorID,
		Tags:      nt.Tags,
		CreatedAt: time.Now().UTC(),
	}
	thr, err := svc.repo.CreateThread(ctx, thr)
	if err != nil {
		return ThreadInfo{}, err
	}
	return ThreadInfo{Thread: thr}, nil
}

func (svc *Service) QueryThreads(ctx context.Context, courseID string) ([]ThreadInfo, error) {
	threads, err := svc.repo.QueryThreads(ctx, courseID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(threads))
	for _, thr := range threads {
		ids = append(ids, thr.ID)
	}
	counts, err := svc.repo.CountReplies(ctx, ids)
	if err != nil {
		return nil, err
	}
	infos := make([]ThreadInfo, 0, len(threads))
	for _, thr := range threads {
		infos = append(infos, ThreadInfo{
			Thread:            thr,
			Replies:           counts[thr.ID],
			HasVerifiedAnswer: thr.HasVerifiedAnswer(),
		})
	}
	return infos, nil
}

func (svc *Service) GetThread(ctx context.Context, id string) (Thread, error) {
	return svc.repo.GetThread(ctx, id)
}

// QueryReplies returns a thread's replies with the verified answer served
// first and its status derived from the thread's pointer; the rest follow
// oldest first.
func (svc *Service) QueryReplies(ctx context.Context, threadID string) ([]Reply, error) {
	thr, err := svc.repo.GetThread(ctx, threadID)
	if err != nil {
		return nil, err
	}
	replies, err := svc.repo.QueryReplies(ctx, threadID)
	if err != nil {
		return nil, err
	}
	ordered := make([]Reply, 0, len(replies))
	for _, rpl := range replies {
		if thr.VerifiedAnswerID.Valid && rpl.ID == thr.VerifiedAnswerID.String {
			rpl.Status = StatusVerified
			ordered = append([]Reply{rpl}, ordered...)
			continue
		}
		ordered = append(ordered, rpl)
	}
	return ordered, nil
}

func (svc *Service) AddReply(ctx context.Context, threadID string, nr NewReply) (Reply, error) {
	thr, err := svc.repo.GetThread(ctx, threadID)
	if err != nil {
		return Reply{}, err
	}
	rpl := Reply{
		ThreadID:  threadID,
		Author:    nr.Author,
		AuthorID:  nr.AuthorID,
		Content:   nr.Content,
		Status:    StatusNormal,
		CreatedAt: time.Now().UTC(),
	}
	rpl, err = svc.repo.CreateReply(ctx, rpl)
	if err != nil {
		return Reply{}, err
	}
	svc.notifyAuthor(ctx, thr, notification.Notification{
		Type:    notification.TypeReply,
		Title:   "New Reply",
		Message: fmt.Sprintf("New reply to your question %q", thr.Title),
		Link:    "/student/forums",
	})
	return rpl, nil
}

func (svc *Service) Vote(ctx context.Context, threadID, replyID string, v Vote) (Reply, error) {
	return svc.repo.AddReplyVote(ctx, threadID, replyID, v.VoteType)
}

// Moderate applies a faculty verify/incorrect action to a reply. Marking a
// reply incorrect clears the thread's verified-answer pointer iff that reply
// was the current verified answer.
func (svc *Service) Moderate(ctx context.Context, replyID string, m Moderation) (Reply, null.String, error) {
	thr, err := svc.repo.GetThread(ctx, m.ThreadID)
	if err != nil {
		return Reply{}, null.String{}, err
	}
	if thr.CourseID != m.CourseID {
		return Reply{}, null.String{}, ErrNotFound
	}
	rpl, err := svc.repo.GetReply(ctx, m.ThreadID, replyID)
	if err != nil {
		return Reply{}, null.String{}, err
	}

	verifiedID := thr.VerifiedAnswerID
	switch m.Action {
	case ActionVerify:
		verifiedID = null.StringFrom(rpl.ID)
		if err = svc.repo.SetVerifiedAnswer(ctx, thr.ID, verifiedID); err != nil {
			return Reply{}, null.String{}, err
		}
		if rpl, err = svc.repo.UpdateReplyStatus(ctx, thr.ID, rpl.ID, StatusNormal); err != nil {
			return Reply{}, null.String{}, err
		}
		rpl.Status = StatusVerified
		svc.notifyReplyAuthor(ctx, rpl, thr)
	case ActionIncorrect:
		if verifiedID.Valid && verifiedID.String == rpl.ID {
			verifiedID = null.String{}
			if err = svc.repo.SetVerifiedAnswer(ctx, thr.ID, verifiedID); err != nil {
				return Reply{}, null.String{}, err
			}
		}
		if rpl, err = svc.repo.UpdateReplyStatus(ctx, thr.ID, rpl.ID, StatusIncorrect); err != nil {
			return Reply{}, null.String{}, err
		}
	}
	return rpl, verifiedID, nil
}

// DeleteReply removes a reply; the thread's verified-answer pointer is
// cleared iff it named the deleted reply.
func (svc *Service) DeleteReply(ctx context.Context, courseID, threadID, replyID string) error {
	thr, err := svc.repo.GetThread(ctx, threadID)
	if err != nil {
		return err
	}
	if thr.CourseID != courseID {
		return ErrNotFound
	}
	if _, err = svc.repo.GetReply(ctx, threadID, replyID); err != nil {
		return err
	}
	if thr.VerifiedAnswerID.Valid && thr.VerifiedAnswerID.String == replyID {
		if err = svc.repo.SetVerifiedAnswer(ctx, threadID, null.String{}); err != nil {
			return err
		}
	}
	return svc.repo.DeleteReply(ctx, threadID, replyID)
}

// PostVerifiedAnswer inserts a faculty-authored reply that immediately
// becomes the thread's verified answer, bypassing the normal -> verified
// transition.
func (svc *Service) PostVerifiedAnswer(ctx context.Context, threadID string, va VerifiedAnswer) (Reply, error) {
	thr, err := svc.repo.GetThread(ctx, threadID)
	if err != nil {
		return Reply{}, err
	}
	if thr.CourseID != va.CourseID {
		return Reply{}, ErrNotFound
	}
	rpl := Reply{
		ThreadID:  threadID,
		Author:    va.Author,
		Content:   va.Content,
		Status:    StatusNormal,
		CreatedAt: time.Now().UTC(),
	}
	rpl, err = svc.repo.CreateReply(ctx, rpl)
	if err != nil {
		return Reply{}, err
	}
	if err = svc.repo.SetVerifiedAnswer(ctx, threadID, null.StringFrom(rpl.ID)); err != nil {
		return Reply{}, err
	}
	rpl.Status = StatusVerified
	svc.notifyAuthor(ctx, thr, notification.Notification{
		Type:    notification.TypeVerified,
		Title:   "Answer Posted",
		Message: fmt.Sprintf("A verified answer was posted on your question %q", thr.Title),
		Link:    "/student/forums",
	})
	return rpl, nil
}

func (svc *Service) notifyAuthor(ctx context.Context, thr Thread, ntf notification.Notification) {
	if svc.notif == nil || thr.AuthorID == "" {
		return
	}
	_ = svc.notif.Push(ctx, ntf, thr.AuthorID)
}

func (svc *Service) notifyReplyAuthor(ctx context.Context, rpl Reply, thr Thread) {
	if svc.notif == nil || rpl.AuthorID == "" {
		return
	}
	_ = svc.notif.Push(ctx, notification.Notification{
		Type:    notification.TypeVerified,
		Title:   "Answer Verified",
		Message: fmt.Sprintf("Your answer on %q was verified", thr.Title),
		Link:    "/student/forums",
	}, rpl.AuthorID)
}
