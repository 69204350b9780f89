package profile

import (
	"context"
	"errors"

	"github.com/kitcoek/eduforum/core/course"
)

var (
	ErrNotFound = errors.New("profile not found")
)

type (
	Repository interface {
		GetStudent(ctx context.Context, filter GetFilter) (Student, error)
		// UpsertStudent creates the profile or, when one already exists for
		// the email, merges the new data over it.
		UpsertStudent(ctx context.Context, st Student) (Student, error)
		UpdateStudent(ctx context.Context, st Student) (Student, error)

		GetFaculty(ctx context.Context, filter GetFilter) (Faculty, error)
		UpsertFaculty(ctx context.Context, fac Faculty) (Faculty, error)
		UpdateFaculty(ctx context.Context, fac Faculty) (Faculty, error)
	}

	Service struct {
		repo    Repository
		courses *course.Service
	}
)

func NewService(repo Repository, courses *course.Service) *Service {
	return &Service{repo: repo, courses: courses}
}

func (svc *Service) GetStudent(ctx context.Context, filter GetFilter) (Student, error) {
	return svc.repo.GetStudent(ctx, filter)
}

// StudentCourses returns the courses a student profile is enrolled in.
func (svc *Service) StudentCourses(ctx context.Context, st Student) ([]course.Course, error) {
	if len(st.EnrolledCourseIDs) == 0 {
		return []course.Course{}, nil
	}
	return svc.courses.QueryByID(ctx, st.EnrolledCourseIDs)
}

func (svc *Service) CreateStudent(ctx context.Context, ns NewStudent) (Student, error) {
	st := Student{
		Name:       ns.Name,
		Email:      ns.Email,
		PRN:        ns.PRN,
		Department: ns.Department,
		Year:       ns.Year,
		Phone:      ns.Phone,
		AvatarURL:  ns.AvatarURL,
	}
	return svc.repo.UpsertStudent(ctx, st)
}

// PatchStudent applies a partial merge of supplied fields over the existing
// record. Concurrent patches race with last-write-wins semantics.
func (svc *Service) PatchStudent(ctx context.Context, filter GetFilter, us UpdateStudent) (Student, error) {
	st, err := svc.repo.GetStudent(ctx, filter)
	if err != nil {
		return Student{}, err
	}
	if us.Name != nil {
		st.Name = *us.Name
	}
	if us.Email != nil {
		st.Email = *us.Email
	}
	if us.PRN != nil {
		st.PRN = *us.PRN
	}
	if us.Department != nil {
		st.Department = *us.Department
	}
	if us.Year != nil {
		st.Year = *us.Year
	}
	if us.Phone.Valid {
		st.Phone = us.Phone
	}
	if us.AvatarURL.Valid {
		st.AvatarURL = us.AvatarURL
	}
	return svc.repo.UpdateStudent(ctx, st)
}

func (svc *Service) GetFaculty(ctx context.Context, filter GetFilter) (Faculty, error) {
	return svc.repo.GetFaculty(ctx, filter)
}

func (svc *Service) CreateFaculty(ctx context.Context, nf NewFaculty) (Faculty, error) {
	fac := Faculty{
		Name:        nf.Name,
		Email:       nf.Email,
		Department:  nf.Department,
		Designation: nf.Designation,
		Phone:       nf.Phone,
		Office:      nf.Office,
		AvatarURL:   nf.AvatarURL,
	}
	return svc.repo.UpsertFaculty(ctx, fac)
}

func (svc *Service) PatchFaculty(ctx context.Context, filter GetFilter, uf UpdateFaculty) (Faculty, error) {
	fac, err := svc.repo.GetFaculty(ctx, filter)
	if err != nil {
		return Faculty{}, err
	}
	if uf.Name != nil {
		fac.Name = *uf.Name
	}
	if uf.Email != nil {
		fac.Email = *uf.Email
	}
	if uf.Department != nil {
		fac.Department = *uf.Department
	}
	if uf.Designation != nil {
		fac.Designation = *uf.Designation
	}
	if uf.Phone.Valid {
		fac.Phone = uf.Phone
	}
	if uf.Office.Valid {
		fac.Office = uf.Office
	}
	if uf.AvatarURL.Valid {
		fac.AvatarURL = uf.AvatarURL
	}
	return svc.repo.UpdateFaculty(ctx, fac)
}

// FacultyStats returns the denormalized activity block of a faculty profile.
func (svc *Service) FacultyStats(ctx context.Context, filter GetFilter) (FacultyStats, error) {
	fac, err := svc.repo.GetFaculty(ctx, filter)
	if err != nil {
		return FacultyStats{}, err
	}
	return fac.Stats, nil
}
