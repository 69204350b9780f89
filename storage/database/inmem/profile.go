package inmemdb

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/kitcoek/eduforum/core/profile"
)

type profileRepository struct {
	db *DB
}

var _ profile.Repository = (*profileRepository)(nil)

func NewProfileRepository(db *DB) profile.Repository {
	return &profileRepository{db: db}
}

func (repo *profileRepository) GetStudent(ctx context.Context, filter profile.GetFilter) (profile.Student, error) {
	repo.db.student.RLock()
	defer repo.db.student.RUnlock()

	if filter.ID != "" {
		if st, ok := repo.db.student.table[filter.ID]; ok {
			return *st, nil
		}
		return profile.Student{}, profile.ErrNotFound
	}
	if filter.Email != "" {
		for _, st := range repo.db.student.table {
			if strings.EqualFold(st.Email, filter.Email) {
				return *st, nil
			}
		}
	}
	return profile.Student{}, profile.ErrNotFound
}

func (repo *profileRepository) UpsertStudent(ctx context.Context, st profile.Student) (profile.Student, error) {
	repo.db.student.Lock()
	defer repo.db.student.Unlock()

	for _, existing := range repo.db.student.table {
		if strings.EqualFold(existing.Email, st.Email) {
			st.ID = existing.ID
			st.EnrolledCourseIDs = existing.EnrolledCourseIDs
			st.ForumActivity = existing.ForumActivity
			repo.db.student.table[st.ID] = &st
			return st, nil
		}
	}
	st.ID = uuid.New().String()
	if st.EnrolledCourseIDs == nil {
		st.EnrolledCourseIDs = []string{}
	}
	repo.db.student.table[st.ID] = &st
	return st, nil
}

func (repo *profileRepository) UpdateStudent(ctx context.Context, st profile.Student) (profile.Student, error) {
	repo.db.student.Lock()
	defer repo.db.student.Unlock()

	if _, ok := repo.db.student.table[st.ID]; !ok {
		return profile.Student{}, profile.ErrNotFound
	}
	repo.db.student.table[st.ID] = &st
	return st, nil
}

func (repo *profileRepository) GetFaculty(ctx context.Context, filter profile.GetFilter) (profile.Faculty, error) {
	repo.db.faculty.RLock()
	defer repo.db.faculty.RUnlock()

	if filter.ID != "" {
		if fac, ok := repo.db.faculty.table[filter.ID]; ok {
			return *fac, nil
		}
		return profile.Faculty{}, profile.ErrNotFound
	}
	if filter.Email != "" {
		for _, fac := range repo.db.faculty.table {
			if strings.EqualFold(fac.Email, filter.Email) {
				return *fac, nil
			}
		}
	}
	return profile.Faculty{}, profile.ErrNotFound
}

func (repo *profileRepository) UpsertFaculty(ctx context.Context, fac profile.Faculty) (profile.Faculty, error) {
	repo.db.faculty.Lock()
	defer repo.db.faculty.Unlock()

	for _, existing := range repo.db.faculty.table {
		if strings.EqualFold(existing.Email, fac.Email) {
			fac.ID = existing.ID
			fac.ManagedCourseIDs = existing.ManagedCourseIDs
			fac.Stats = existing.Stats
			repo.db.faculty.table[fac.ID] = &fac
			return fac, nil
		}
	}
	fac.ID = uuid.New().String()
	if fac.ManagedCourseIDs == nil {
		fac.ManagedCourseIDs = []string{}
	}
	repo.db.faculty.table[fac.ID] = &fac
	return fac, nil
}

func (repo *profileRepository) UpdateFaculty(ctx context.Context, fac profile.Faculty) (profile.Faculty, error) {
	repo.db.faculty.Lock()
	defer repo.db.faculty.Unlock()

	if _, ok := repo.db.faculty.table[fac.ID]; !ok {
		return profile.Faculty{}, profile.ErrNotFound
	}
	repo.db.faculty.table[fac.ID] = &fac
	return fac, nil
}
