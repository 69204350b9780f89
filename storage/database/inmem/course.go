package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/kitcoek/eduforum/core/course"
)

type courseRepository struct {
	db *DB
}

var _ course.Repository = (*courseRepository)(nil)

func NewCourseRepository(db *DB) course.Repository {
	return &courseRepository{db: db}
}

func (repo *courseRepository) CreateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	repo.db.course.Lock()
	defer repo.db.course.Unlock()

	if crs.ID == "" {
		crs.ID = uuid.New().String()
	}
	repo.db.course.table[crs.ID] = &crs
	return crs, nil
}

func (repo *courseRepository) GetCourse(ctx context.Context, filter course.GetFilter) (course.Course, error) {
	repo.db.course.RLock()
	defer repo.db.course.RUnlock()

	if filter.ID != "" {
		if crs, ok := repo.db.course.table[filter.ID]; ok {
			return *crs, nil
		}
		return course.Course{}, course.ErrNotFound
	}
	for _, crs := range repo.db.course.table {
		if filter.Code != "" && strings.EqualFold(crs.Code, filter.Code) {
			return *crs, nil
		}
		if filter.Name != "" && strings.EqualFold(crs.Name, filter.Name) {
			return *crs, nil
		}
	}
	return course.Course{}, course.ErrNotFound
}

func (repo *courseRepository) QueryCourses(ctx context.Context) ([]course.Course, error) {
	repo.db.course.RLock()
	defer repo.db.course.RUnlock()

	courses := make([]course.Course, 0, len(repo.db.course.table))
	for _, crs := range repo.db.course.table {
		courses = append(courses, *crs)
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].Code < courses[j].Code })
	return courses, nil
}

func (repo *courseRepository) QueryCoursesByID(ctx context.Context, ids []string) ([]course.Course, error) {
	repo.db.course.RLock()
	defer repo.db.course.RUnlock()

	courses := make([]course.Course, 0, len(ids))
	for _, id := range ids {
		if crs, ok := repo.db.course.table[id]; ok {
			courses = append(courses, *crs)
		}
	}
	return courses, nil
}

func (repo *courseRepository) UpdateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	repo.db.course.Lock()
	defer repo.db.course.Unlock()

	if _, ok := repo.db.course.table[crs.ID]; !ok {
		return course.Course{}, course.ErrNotFound
	}
	repo.db.course.table[crs.ID] = &crs
	return crs, nil
}

func (repo *courseRepository) DeleteCourse(ctx context.Context, id string) error {
	repo.db.course.Lock()
	if _, ok := repo.db.course.table[id]; !ok {
		repo.db.course.Unlock()
		return course.ErrNotFound
	}
	delete(repo.db.course.table, id)
	repo.db.course.Unlock()

	// cascade: roster, threads with their replies, resources and any
	// announcement associations referencing the course
	repo.db.enrollment.Lock()
	for eid, enr := range repo.db.enrollment.table {
		if enr.CourseID == id {
			delete(repo.db.enrollment.table, eid)
		}
	}
	repo.db.enrollment.Unlock()

	var threadIDs []string
	repo.db.thread.Lock()
	for tid, thr := range repo.db.thread.table {
		if thr.CourseID == id {
			threadIDs = append(threadIDs, tid)
			delete(repo.db.thread.table, tid)
		}
	}
	repo.db.thread.Unlock()

	if len(threadIDs) > 0 {
		gone := make(map[string]bool, len(threadIDs))
		for _, tid := range threadIDs {
			gone[tid] = true
		}
		repo.db.reply.Lock()
		for rid, rpl := range repo.db.reply.table {
			if gone[rpl.ThreadID] {
				delete(repo.db.reply.table, rid)
			}
		}
		repo.db.reply.Unlock()
	}

	repo.db.resource.Lock()
	for rid, res := range repo.db.resource.table {
		if res.CourseID == id {
			delete(repo.db.resource.table, rid)
		}
	}
	repo.db.resource.Unlock()

	repo.db.announcement.Lock()
	for _, ann := range repo.db.announcement.table {
		for i, cid := range ann.CourseIDs {
			if cid == id {
				ann.CourseIDs = append(ann.CourseIDs[:i], ann.CourseIDs[i+1:]...)
				break
			}
		}
	}
	repo.db.announcement.Unlock()
	return nil
}

func (repo *courseRepository) QueryEnrollments(ctx context.Context, courseID string) ([]course.Enrollment, error) {
	repo.db.enrollment.RLock()
	defer repo.db.enrollment.RUnlock()

	roster := make([]course.Enrollment, 0)
	for _, enr := range repo.db.enrollment.table {
		if enr.CourseID == courseID {
			roster = append(roster, *enr)
		}
	}
	sort.Slice(roster, func(i, j int) bool { return roster[i].Name < roster[j].Name })
	return roster, nil
}

func (repo *courseRepository) CreateEnrollment(ctx context.Context, enr course.Enrollment) (course.Enrollment, error) {
	repo.db.enrollment.Lock()
	defer repo.db.enrollment.Unlock()

	if enr.ID == "" {
		enr.ID = uuid.New().String()
	}
	repo.db.enrollment.table[enr.ID] = &enr
	return enr, nil
}

func (repo *courseRepository) SetEnrollmentsStatus(ctx context.Context, courseID string, ids []string, status string) error {
	repo.db.enrollment.Lock()
	defer repo.db.enrollment.Unlock()

	for _, id := range ids {
		if enr, ok := repo.db.enrollment.table[id]; ok && enr.CourseID == courseID {
			enr.Status = status
		}
	}
	return nil
}

func (repo *courseRepository) DeleteEnrollments(ctx context.Context, courseID string, ids []string) error {
	repo.db.enrollment.Lock()
	defer repo.db.enrollment.Unlock()

	for _, id := range ids {
		if enr, ok := repo.db.enrollment.table[id]; ok && enr.CourseID == courseID {
			delete(repo.db.enrollment.table, id)
		}
	}
	return nil
}

func (repo *courseRepository) QueryEnrolledStudents(ctx context.Context, courseIDs []string) ([]course.Enrollment, error) {
	repo.db.enrollment.RLock()
	defer repo.db.enrollment.RUnlock()

	wanted := make(map[string]bool, len(courseIDs))
	for _, id := range courseIDs {
		wanted[id] = true
	}
	students := make([]course.Enrollment, 0)
	for _, enr := range repo.db.enrollment.table {
		if wanted[enr.CourseID] && enr.Status == course.StatusEnrolled {
			students = append(students, *enr)
		}
	}
	sort.Slice(students, func(i, j int) bool { return students[i].Name < students[j].Name })
	return students, nil
}
