package announcement

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/kitcoek/eduforum/core"
	"github.com/kitcoek/eduforum/core/course"
	"github.com/kitcoek/eduforum/core/notification"
)

var (
	ErrNotFound = errors.New("announcement not found")
)

type (
	Repository interface {
		CreateAnnouncement(ctx context.Context, ann Announcement) (Announcement, error)
		// QueryAnnouncements applies AND operation on available QueryFilter
		// fields and returns matches most-recently-updated first.
		QueryAnnouncements(ctx context.Context, filter QueryFilter) ([]Announcement, error)
		GetAnnouncement(ctx context.Context, id string) (Announcement, error)
		UpdateAnnouncement(ctx context.Context, ann Announcement) (Announcement, error)
		// DeleteAnnouncement removes the record and its course associations
		// atomically.
		DeleteAnnouncement(ctx context.Context, id string) error
		// PinAnnouncements sets the pinned flag and touches updatedAt on the
		// ids that resolve; the rest are skipped.
		PinAnnouncements(ctx context.Context, ids []string, pinned bool) error
		// DeleteAnnouncements removes the ids that resolve; the rest are
		// skipped.
		DeleteAnnouncements(ctx context.Context, ids []string) error
	}

	Service struct {
		repo    Repository
		courses *course.Service
		notif   *notification.Service
		mail    core.EmailService
		conf    *core.Config
	}
)

func NewService(repo Repository, courses *course.Service, notif *notification.Service, mailSvc core.EmailService, conf *core.Config) *Service {
	return &Service{repo: repo, courses: courses, notif: notif, mail: mailSvc, conf: conf}
}

func (svc *Service) Create(ctx context.Context, na NewAnnouncement) (Announcement, error) {
	courseIDs, err := svc.resolveCourseIDs(ctx, na.CourseIDs)
	if err != nil {
		return Announcement{}, err
	}
	now := time.Now().UTC()
	ann := Announcement{
		Title:       na.Title,
		Content:     na.Content,
		CourseIDs:   courseIDs,
		Pinned:      na.Pinned,
		ScheduledAt: na.ScheduledAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	ann, err = svc.repo.CreateAnnouncement(ctx, ann)
	if err != nil {
		return Announcement{}, err
	}
	svc.broadcast(ctx, ann)
	return ann, nil
}

// Query filters announcements. The course token resolves against a Course's
// id, then code, then name; an unresolvable token silently drops the course
// predicate.
func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]Announcement, error) {
	filter.Clean()
	if filter.Course != "" {
		crs, err := svc.courses.Resolve(ctx, filter.Course)
		switch err {
		case nil:
			filter.CourseID = crs.ID
		case course.ErrNotFound:
			// drop the predicate
		default:
			return nil, err
		}
	}
	return svc.repo.QueryAnnouncements(ctx, filter)
}

func (svc *Service) Get(ctx context.Context, id string) (Announcement, error) {
	return svc.repo.GetAnnouncement(ctx, id)
}

func (svc *Service) Update(ctx context.Context, id string, ua UpdateAnnouncement) (Announcement, error) {
	ann, err := svc.repo.GetAnnouncement(ctx, id)
	if err != nil {
		return Announcement{}, err
	}
	if ua.Title != nil {
		ann.Title = *ua.Title
	}
	if ua.Content != nil {
		ann.Content = *ua.Content
	}
	if ua.Pinned != nil {
		ann.Pinned = *ua.Pinned
	}
	if ua.ScheduledAt.Valid {
		ann.ScheduledAt = ua.ScheduledAt
	}
	if ua.CourseIDs != nil {
		courseIDs, err := svc.resolveCourseIDs(ctx, ua.CourseIDs)
		if err != nil {
			return Announcement{}, err
		}
		ann.CourseIDs = courseIDs
	}
	ann.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateAnnouncement(ctx, ann)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	if _, err := svc.repo.GetAnnouncement(ctx, id); err != nil {
		return err
	}
	return svc.repo.DeleteAnnouncement(ctx, id)
}

// Bulk applies the action to exactly those ids that exist; ids that do not
// resolve are silently ignored. Pin/unpin touch updatedAt, delete does not.
func (svc *Service) Bulk(ctx context.Context, ba BulkAction) error {
	switch ba.Action {
	case ActionDelete:
		return svc.repo.DeleteAnnouncements(ctx, ba.IDs)
	case ActionPin:
		return svc.repo.PinAnnouncements(ctx, ba.IDs, true)
	case ActionUnpin:
		return svc.repo.PinAnnouncements(ctx, ba.IDs, false)
	}
	return nil
}

// resolveCourseIDs maps user-supplied course tokens (id, code or name) to
// course ids; unresolvable tokens are skipped.
func (svc *Service) resolveCourseIDs(ctx context.Context, tokens []string) ([]string, error) {
	ids := make([]string, 0, len(tokens))
	for _, token := range tokens {
		crs, err := svc.courses.Resolve(ctx, token)
		if err == course.ErrNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		ids = append(ids, crs.ID)
	}
	return ids, nil
}

// broadcast notifies and emails the enrolled students of the announcement's
// courses. Failures are swallowed; the announcement itself has been saved.
func (svc *Service) broadcast(ctx context.Context, ann Announcement) {
	if len(ann.CourseIDs) == 0 {
		return
	}
	students, err := svc.courses.EnrolledStudents(ctx, ann.CourseIDs...)
	if err != nil || len(students) == 0 {
		return
	}

	if svc.notif != nil {
		userIDs := make([]string, 0, len(students))
		for _, s := range students {
			userIDs = append(userIDs, s.Email)
		}
		_ = svc.notif.Push(ctx, notification.Notification{
			Type:    notification.TypeAnnouncement,
			Title:   "Course Announcement",
			Message: fmt.Sprintf("New announcement: %q", ann.Title),
			Link:    "/student/courses",
		}, userIDs...)
	}

	if svc.mail != nil {
		messages := make([]*core.EmailMessage, 0, len(students))
		for _, s := range students {
			messages = append(messages, &core.EmailMessage{
				To:      []mail.Address{{Name: s.Name, Address: s.Email}},
				Subject: ann.Title,
				Body:    ann.Content,
			})
		}
		svc.mail.SendMessages(messages...)
	}
}
