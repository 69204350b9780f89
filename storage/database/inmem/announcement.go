package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/kitcoek/eduforum/core/announcement"
)

type announcementRepository struct {
	db *DB
}

var _ announcement.Repository = (*announcementRepository)(nil)

func NewAnnouncementRepository(db *DB) announcement.Repository {
	return &announcementRepository{db: db}
}

func (repo *announcementRepository) CreateAnnouncement(ctx context.Context, ann announcement.Announcement) (announcement.Announcement, error) {
	repo.db.announcement.Lock()
	defer repo.db.announcement.Unlock()

	if ann.ID == "" {
		ann.ID = uuid.New().String()
	}
	if ann.CourseIDs == nil {
		ann.CourseIDs = []string{}
	}
	repo.db.announcement.table[ann.ID] = &ann
	return ann, nil
}

func (repo *announcementRepository) QueryAnnouncements(ctx context.Context, filter announcement.QueryFilter) ([]announcement.Announcement, error) {
	repo.db.announcement.RLock()
	defer repo.db.announcement.RUnlock()

	matches := make([]announcement.Announcement, 0)
	for _, ann := range repo.db.announcement.table {
		if matchAnnouncement(ann, filter) {
			matches = append(matches, *ann)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		mi, mj := matches[i], matches[j]
		if !mi.UpdatedAt.Equal(mj.UpdatedAt) {
			return mi.UpdatedAt.After(mj.UpdatedAt)
		}
		return mi.ID < mj.ID
	})
	return matches, nil
}

func matchAnnouncement(ann *announcement.Announcement, filter announcement.QueryFilter) bool {
	if filter.CourseID != "" {
		var found bool
		for _, cid := range ann.CourseIDs {
			if cid == filter.CourseID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filter.Pinned != nil && ann.Pinned != *filter.Pinned {
		return false
	}
	if !filter.From.IsZero() && ann.CreatedAt.Before(filter.From) {
		return false
	}
	if !filter.To.IsZero() && ann.CreatedAt.After(filter.To) {
		return false
	}
	return true
}

func (repo *announcementRepository) GetAnnouncement(ctx context.Context, id string) (announcement.Announcement, error) {
	repo.db.announcement.RLock()
	defer repo.db.announcement.RUnlock()

	if ann, ok := repo.db.announcement.table[id]; ok {
		return *ann, nil
	}
	return announcement.Announcement{}, announcement.ErrNotFound
}

func (repo *announcementRepository) UpdateAnnouncement(ctx context.Context, ann announcement.Announcement) (announcement.Announcement, error) {
	repo.db.announcement.Lock()
	defer repo.db.announcement.Unlock()

	if _, ok := repo.db.announcement.table[ann.ID]; !ok {
		return announcement.Announcement{}, announcement.ErrNotFound
	}
	repo.db.announcement.table[ann.ID] = &ann
	return ann, nil
}

func (repo *announcementRepository) DeleteAnnouncement(ctx context.Context, id string) error {
	repo.db.announcement.Lock()
	defer repo.db.announcement.Unlock()

	if _, ok := repo.db.announcement.table[id]; !ok {
		return announcement.ErrNotFound
	}
	delete(repo.db.announcement.table, id)
	return nil
}

func (repo *announcementRepository) PinAnnouncements(ctx context.Context, ids []string, pinned bool) error {
	repo.db.announcement.Lock()
	defer repo.db.announcement.Unlock()

	now := time.Now().UTC()
	for _, id := range ids {
		if ann, ok := repo.db.announcement.table[id]; ok {
			ann.Pinned = pinned
			ann.UpdatedAt = now
		}
	}
	return nil
}

func (repo *announcementRepository) DeleteAnnouncements(ctx context.Context, ids []string) error {
	repo.db.announcement.Lock()
	defer repo.db.announcement.Unlock()

	for _, id := range ids {
		delete(repo.db.announcement.table, id)
	}
	return nil
}
