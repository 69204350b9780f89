package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/kitcoek/eduforum/core/course"
)

type courseRow struct {
	ID          string         `db:"id"`
	Code        string         `db:"code"`
	Name        string         `db:"name"`
	Instructor  string         `db:"instructor"`
	Description string         `db:"description"`
	Students    int            `db:"students"`
	Progress    int            `db:"progress"`
	NextClass   string         `db:"next_class"`
	CreatedAt   sql.NullTime   `db:"created_at"`
	UpdatedAt   sql.NullTime   `db:"updated_at"`
}

func (row courseRow) toCore() course.Course {
	return course.Course{
		ID:          row.ID,
		Code:        row.Code,
		Name:        row.Name,
		Instructor:  row.Instructor,
		Description: row.Description,
		Students:    row.Students,
		Progress:    row.Progress,
		NextClass:   row.NextClass,
		CreatedAt:   row.CreatedAt.Time,
		UpdatedAt:   row.UpdatedAt.Time,
	}
}

type enrollmentRow struct {
	ID       string      `db:"id"`
	CourseID string      `db:"course_id"`
	Name     string      `db:"name"`
	Email    string      `db:"email"`
	PRN      null.String `db:"prn"`
	Status   string      `db:"status"`
}

func (row enrollmentRow) toCore() course.Enrollment {
	return course.Enrollment(row)
}

type courseRepository struct {
	db *sqlx.DB
}

var _ course.Repository = (*courseRepository)(nil)

func NewCourseRepository(db *sqlx.DB) course.Repository {
	return &courseRepository{db: db}
}

func (repo *courseRepository) CreateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	if crs.ID == "" {
		crs.ID = uuid.New().String()
	}
	const q = `
		INSERT INTO course (id, code, name, instructor, description, students, progress, next_class, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := repo.db.ExecContext(ctx, q,
		crs.ID, crs.Code, crs.Name, crs.Instructor, crs.Description,
		crs.Students, crs.Progress, crs.NextClass, crs.CreatedAt, crs.UpdatedAt,
	)
	if err != nil {
		return course.Course{}, errors.Wrap(err, "inserting course")
	}
	return crs, nil
}

func (repo *courseRepository) GetCourse(ctx context.Context, filter course.GetFilter) (course.Course, error) {
	var (
		cond string
		arg  string
	)
	switch {
	case filter.ID != "":
		cond, arg = "id = $1", filter.ID
	case filter.Code != "":
		cond, arg = "lower(code) = lower($1)", filter.Code
	case filter.Name != "":
		cond, arg = "lower(name) = lower($1)", filter.Name
	default:
		return course.Course{}, course.ErrNotFound
	}

	var row courseRow
	err := repo.db.GetContext(ctx, &row, "SELECT * FROM course WHERE "+cond, arg)
	if err == sql.ErrNoRows {
		return course.Course{}, course.ErrNotFound
	}
	if err != nil {
		return course.Course{}, errors.Wrap(err, "getting course")
	}
	return row.toCore(), nil
}

func (repo *courseRepository) QueryCourses(ctx context.Context) ([]course.Course, error) {
	var rows []courseRow
	if err := repo.db.SelectContext(ctx, &rows, "SELECT * FROM course ORDER BY code"); err != nil {
		return nil, errors.Wrap(err, "querying courses")
	}
	courses := make([]course.Course, 0, len(rows))
	for _, row := range rows {
		courses = append(courses, row.toCore())
	}
	return courses, nil
}

func (repo *courseRepository) QueryCoursesByID(ctx context.Context, ids []string) ([]course.Course, error) {
	if len(ids) == 0 {
		return []course.Course{}, nil
	}
	var rows []courseRow
	const q = "SELECT * FROM course WHERE id = ANY($1) ORDER BY code"
	if err := repo.db.SelectContext(ctx, &rows, q, pq.Array(ids)); err != nil {
		return nil, errors.Wrap(err, "querying courses by id")
	}
	courses := make([]course.Course, 0, len(rows))
	for _, row := range rows {
		courses = append(courses, row.toCore())
	}
	return courses, nil
}

func (repo *courseRepository) UpdateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	const q = `
		UPDATE course
		SET code = $2, name = $3, instructor = $4, description = $5,
		    students = $6, progress = $7, next_class = $8, updated_at = $9
		WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, q,
		crs.ID, crs.Code, crs.Name, crs.Instructor, crs.Description,
		crs.Students, crs.Progress, crs.NextClass, crs.UpdatedAt,
	)
	if err != nil {
		return course.Course{}, errors.Wrap(err, "updating course")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return course.Course{}, course.ErrNotFound
	}
	return crs, nil
}

func (repo *courseRepository) DeleteCourse(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, "DELETE FROM course WHERE id = $1", id)
	if err != nil {
		return errors.Wrap(err, "deleting course")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return course.ErrNotFound
	}
	return nil
}

func (repo *courseRepository) QueryEnrollments(ctx context.Context, courseID string) ([]course.Enrollment, error) {
	var rows []enrollmentRow
	const q = "SELECT * FROM enrollment WHERE course_id = $1 ORDER BY name"
	if err := repo.db.SelectContext(ctx, &rows, q, courseID); err != nil {
		return nil, errors.Wrap(err, "querying enrollments")
	}
	roster := make([]course.Enrollment, 0, len(rows))
	for _, row := range rows {
		roster = append(roster, row.toCore())
	}
	return roster, nil
}

func (repo *courseRepository) CreateEnrollment(ctx context.Context, enr course.Enrollment) (course.Enrollment, error) {
	if enr.ID == "" {
		enr.ID = uuid.New().String()
	}
	const q = `
		INSERT INTO enrollment (id, course_id, name, email, prn, status)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := repo.db.ExecContext(ctx, q, enr.ID, enr.CourseID, enr.Name, enr.Email, enr.PRN, enr.Status)
	if err != nil {
		return course.Enrollment{}, errors.Wrap(err, "inserting enrollment")
	}
	return enr, nil
}

func (repo *courseRepository) SetEnrollmentsStatus(ctx context.Context, courseID string, ids []string, status string) error {
	const q = "UPDATE enrollment SET status = $3 WHERE course_id = $1 AND id = ANY($2)"
	if _, err := repo.db.ExecContext(ctx, q, courseID, pq.Array(ids), status); err != nil {
		return errors.Wrap(err, "updating enrollments")
	}
	return nil
}

func (repo *courseRepository) DeleteEnrollments(ctx context.Context, courseID string, ids []string) error {
	const q = "DELETE FROM enrollment WHERE course_id = $1 AND id = ANY($2)"
	if _, err := repo.db.ExecContext(ctx, q, courseID, pq.Array(ids)); err != nil {
		return errors.Wrap(err, "deleting enrollments")
	}
	return nil
}

func (repo *courseRepository) QueryEnrolledStudents(ctx context.Context, courseIDs []string) ([]course.Enrollment, error) {
	if len(courseIDs) == 0 {
		return []course.Enrollment{}, nil
	}
	var rows []enrollmentRow
	const q = "SELECT * FROM enrollment WHERE course_id = ANY($1) AND status = $2 ORDER BY name"
	if err := repo.db.SelectContext(ctx, &rows, q, pq.Array(courseIDs), course.StatusEnrolled); err != nil {
		return nil, errors.Wrap(err, "querying enrolled students")
	}
	students := make([]course.Enrollment, 0, len(rows))
	for _, row := range rows {
		students = append(students, row.toCore())
	}
	return students, nil
}
