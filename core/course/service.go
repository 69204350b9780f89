package course

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("course not found")
)

type (
	Repository interface {
		CreateCourse(ctx context.Context, crs Course) (Course, error)
		GetCourse(ctx context.Context, filter GetFilter) (Course, error)
		QueryCourses(ctx context.Context) ([]Course, error)
		QueryCoursesByID(ctx context.Context, ids []string) ([]Course, error)
		UpdateCourse(ctx context.Context, crs Course) (Course, error)
		DeleteCourse(ctx context.Context, id string) error

		QueryEnrollments(ctx context.Context, courseID string) ([]Enrollment, error)
		CreateEnrollment(ctx context.Context, enr Enrollment) (Enrollment, error)
		// SetEnrollmentsStatus flips the status of the listed roster entries; unknown ids are skipped.
		SetEnrollmentsStatus(ctx context.Context, courseID string, ids []string, status string) error
		// DeleteEnrollments removes the listed roster entries; unknown ids are skipped.
		DeleteEnrollments(ctx context.Context, courseID string, ids []string) error
		// QueryEnrolledStudents returns the enrolled (not pending) entries across the given courses.
		QueryEnrolledStudents(ctx context.Context, courseIDs []string) ([]Enrollment, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, nc NewCourse) (Course, error) {
	now := time.Now().UTC()
	crs := Course{
		Code:        nc.Code,
		Name:        nc.Name,
		Instructor:  nc.Instructor,
		Description: nc.Description,
		NextClass:   nc.NextClass,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateCourse(ctx, crs)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Course, error) {
	return svc.repo.QueryCourses(ctx)
}

func (svc *Service) QueryByID(ctx context.Context, ids []string) ([]Course, error) {
	return svc.repo.QueryCoursesByID(ctx, ids)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Course, error) {
	return svc.repo.GetCourse(ctx, GetFilter{ID: id})
}

// Resolve matches a user-supplied token against a Course's id, then code,
// then name; the first match wins.
func (svc *Service) Resolve(ctx context.Context, token string) (Course, error) {
	for _, filter := range []GetFilter{{ID: token}, {Code: token}, {Name: token}} {
		crs, err := svc.repo.GetCourse(ctx, filter)
		if err == nil {
			return crs, nil
		}
		if err != ErrNotFound {
			return Course{}, err
		}
	}
	return Course{}, ErrNotFound
}

func (svc *Service) Update(ctx context.Context, id string, uc UpdateCourse) (Course, error) {
	crs, err := svc.repo.GetCourse(ctx, GetFilter{ID: id})
	if err != nil {
		return Course{}, err
	}
	if uc.Code != nil {
		crs.Code = *uc.Code
	}
	if uc.Name != nil {
		crs.Name = *uc.Name
	}
	if uc.Instructor != nil {
		crs.Instructor = *uc.Instructor
	}
	if uc.Description != nil {
		crs.Description = *uc.Description
	}
	if uc.NextClass != nil {
		crs.NextClass = *uc.NextClass
	}
	if uc.Progress != nil {
		crs.Progress = *uc.Progress
	}
	if uc.Students != nil {
		crs.Students = *uc.Students
	}
	crs.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateCourse(ctx, crs)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	if _, err := svc.repo.GetCourse(ctx, GetFilter{ID: id}); err != nil {
		return err
	}
	return svc.repo.DeleteCourse(ctx, id)
}

func (svc *Service) Roster(ctx context.Context, courseID string) ([]Enrollment, error) {
	if _, err := svc.repo.GetCourse(ctx, GetFilter{ID: courseID}); err != nil {
		return nil, err
	}
	return svc.repo.QueryEnrollments(ctx, courseID)
}

func (svc *Service) Enroll(ctx context.Context, enr Enrollment) (Enrollment, error) {
	if _, err := svc.repo.GetCourse(ctx, GetFilter{ID: enr.CourseID}); err != nil {
		return Enrollment{}, err
	}
	if enr.Status == "" {
		enr.Status = StatusPending
	}
	return svc.repo.CreateEnrollment(ctx, enr)
}

// ModerateRoster approves (pending -> enrolled) or rejects (removes) the
// listed roster entries; ids that do not resolve are skipped. It returns the
// roster after the action.
func (svc *Service) ModerateRoster(ctx context.Context, courseID string, ra RosterAction) ([]Enrollment, error) {
	if _, err := svc.repo.GetCourse(ctx, GetFilter{ID: courseID}); err != nil {
		return nil, err
	}
	switch ra.Action {
	case ActionApprove:
		if err := svc.repo.SetEnrollmentsStatus(ctx, courseID, ra.IDs, StatusEnrolled); err != nil {
			return nil, err
		}
	case ActionReject:
		if err := svc.repo.DeleteEnrollments(ctx, courseID, ra.IDs); err != nil {
			return nil, err
		}
	}
	return svc.repo.QueryEnrollments(ctx, courseID)
}

func (svc *Service) EnrolledStudents(ctx context.Context, courseIDs ...string) ([]Enrollment, error) {
	return svc.repo.QueryEnrolledStudents(ctx, courseIDs)
}
