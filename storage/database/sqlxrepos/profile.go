package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/kitcoek/eduforum/core/profile"
)

type studentRow struct {
	ID                string         `db:"id"`
	Name              string         `db:"name"`
	Email             string         `db:"email"`
	PRN               string         `db:"prn"`
	Department        string         `db:"department"`
	Year              string         `db:"year"`
	Phone             null.String    `db:"phone"`
	AvatarURL         null.String    `db:"avatar_url"`
	EnrolledCourseIDs pq.StringArray `db:"enrolled_course_ids"`
	ForumPosts        int            `db:"forum_posts"`
	ForumReplies      int            `db:"forum_replies"`
	ForumUpvotes      int            `db:"forum_upvotes"`
}

func (row studentRow) toCore() profile.Student {
	return profile.Student{
		ID:                row.ID,
		Name:              row.Name,
		Email:             row.Email,
		PRN:               row.PRN,
		Department:        row.Department,
		Year:              row.Year,
		Phone:             row.Phone,
		AvatarURL:         row.AvatarURL,
		EnrolledCourseIDs: row.EnrolledCourseIDs,
		ForumActivity: profile.ForumActivity{
			Posts:   row.ForumPosts,
			Replies: row.ForumReplies,
			Upvotes: row.ForumUpvotes,
		},
	}
}

type facultyRow struct {
	ID                string         `db:"id"`
	Name              string         `db:"name"`
	Email             string         `db:"email"`
	Department        string         `db:"department"`
	Designation       string         `db:"designation"`
	Phone             null.String    `db:"phone"`
	Office            null.String    `db:"office"`
	AvatarURL         null.String    `db:"avatar_url"`
	ManagedCourseIDs  pq.StringArray `db:"managed_course_ids"`
	StudentsManaged   int            `db:"students_managed"`
	ResourcesUploaded int            `db:"resources_uploaded"`
	AnnouncementsMade int            `db:"announcements_made"`
	PostsVerified     int            `db:"posts_verified"`
}

func (row facultyRow) toCore() profile.Faculty {
	return profile.Faculty{
		ID:               row.ID,
		Name:             row.Name,
		Email:            row.Email,
		Department:       row.Department,
		Designation:      row.Designation,
		Phone:            row.Phone,
		Office:           row.Office,
		AvatarURL:        row.AvatarURL,
		ManagedCourseIDs: row.ManagedCourseIDs,
		Stats: profile.FacultyStats{
			StudentsManaged:   row.StudentsManaged,
			ResourcesUploaded: row.ResourcesUploaded,
			AnnouncementsMade: row.AnnouncementsMade,
			PostsVerified:     row.PostsVerified,
		},
	}
}

type profileRepository struct {
	db *sqlx.DB
}

var _ profile.Repository = (*profileRepository)(nil)

func NewProfileRepository(db *sqlx.DB) profile.Repository {
	return &profileRepository{db: db}
}

func (repo *profileRepository) GetStudent(ctx context.Context, filter profile.GetFilter) (profile.Student, error) {
	var (
		cond string
		arg  string
	)
	switch {
	case filter.ID != "":
		cond, arg = "id = $1", filter.ID
	case filter.Email != "":
		cond, arg = "lower(email) = lower($1)", filter.Email
	default:
		return profile.Student{}, profile.ErrNotFound
	}

	var row studentRow
	err := repo.db.GetContext(ctx, &row, "SELECT * FROM student_profile WHERE "+cond, arg)
	if err == sql.ErrNoRows {
		return profile.Student{}, profile.ErrNotFound
	}
	if err != nil {
		return profile.Student{}, errors.Wrap(err, "getting student profile")
	}
	return row.toCore(), nil
}

func (repo *profileRepository) UpsertStudent(ctx context.Context, st profile.Student) (profile.Student, error) {
	existing, err := repo.GetStudent(ctx, profile.GetFilter{Email: st.Email})
	switch err {
	case nil:
		st.ID = existing.ID
		st.EnrolledCourseIDs = existing.EnrolledCourseIDs
		st.ForumActivity = existing.ForumActivity
		return repo.UpdateStudent(ctx, st)
	case profile.ErrNotFound:
	default:
		return profile.Student{}, err
	}

	st.ID = uuid.New().String()
	if st.EnrolledCourseIDs == nil {
		st.EnrolledCourseIDs = []string{}
	}
	const q = `
		INSERT INTO student_profile (id, name, email, prn, department, year, phone, avatar_url,
			enrolled_course_ids, forum_posts, forum_replies, forum_upvotes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err = repo.db.ExecContext(ctx, q,
		st.ID, st.Name, st.Email, st.PRN, st.Department, st.Year, st.Phone, st.AvatarURL,
		pq.Array(st.EnrolledCourseIDs), st.ForumActivity.Posts, st.ForumActivity.Replies, st.ForumActivity.Upvotes,
	)
	if err != nil {
		return profile.Student{}, errors.Wrap(err, "inserting student profile")
	}
	return st, nil
}

func (repo *profileRepository) UpdateStudent(ctx context.Context, st profile.Student) (profile.Student, error) {
	const q = `
		UPDATE student_profile
		SET name = $2, email = $3, prn = $4, department = $5, year = $6, phone = $7, avatar_url = $8,
		    enrolled_course_ids = $9, forum_posts = $10, forum_replies = $11, forum_upvotes = $12
		WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, q,
		st.ID, st.Name, st.Email, st.PRN, st.Department, st.Year, st.Phone, st.AvatarURL,
		pq.Array(st.EnrolledCourseIDs), st.ForumActivity.Posts, st.ForumActivity.Replies, st.ForumActivity.Upvotes,
	)
	if err != nil {
		return profile.Student{}, errors.Wrap(err, "updating student profile")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return profile.Student{}, profile.ErrNotFound
	}
	return st, nil
}

func (repo *profileRepository) GetFaculty(ctx context.Context, filter profile.GetFilter) (profile.Faculty, error) {
	var (
		cond string
		arg  string
	)
	switch {
	case filter.ID != "":
		cond, arg = "id = $1", filter.ID
	case filter.Email != "":
		cond, arg = "lower(email) = lower($1)", filter.Email
	default:
		return profile.Faculty{}, profile.ErrNotFound
	}

	var row facultyRow
	err := repo.db.GetContext(ctx, &row, "SELECT * FROM faculty_profile WHERE "+cond, arg)
	if err == sql.ErrNoRows {
		return profile.Faculty{}, profile.ErrNotFound
	}
	if err != nil {
		return profile.Faculty{}, errors.Wrap(err, "getting faculty profile")
	}
	return row.toCore(), nil
}

func (repo *profileRepository) UpsertFaculty(ctx context.Context, fac profile.Faculty) (profile.Faculty, error) {
	existing, err := repo.GetFaculty(ctx, profile.GetFilter{Email: fac.Email})
	switch err {
	case nil:
		fac.ID = existing.ID
		fac.ManagedCourseIDs = existing.ManagedCourseIDs
		fac.Stats = existing.Stats
		return repo.UpdateFaculty(ctx, fac)
	case profile.ErrNotFound:
	default:
		return profile.Faculty{}, err
	}

	fac.ID = uuid.New().String()
	if fac.ManagedCourseIDs == nil {
		fac.ManagedCourseIDs = []string{}
	}
	const q = `
		INSERT INTO faculty_profile (id, name, email, department, designation, phone, office, avatar_url,
			managed_course_ids, students_managed, resources_uploaded, announcements_made, posts_verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err = repo.db.ExecContext(ctx, q,
		fac.ID, fac.Name, fac.Email, fac.Department, fac.Designation, fac.Phone, fac.Office, fac.AvatarURL,
		pq.Array(fac.ManagedCourseIDs), fac.Stats.StudentsManaged, fac.Stats.ResourcesUploaded,
		fac.Stats.AnnouncementsMade, fac.Stats.PostsVerified,
	)
	if err != nil {
		return profile.Faculty{}, errors.Wrap(err, "inserting faculty profile")
	}
	return fac, nil
}

func (repo *profileRepository) UpdateFaculty(ctx context.Context, fac profile.Faculty) (profile.Faculty, error) {
	const q = `
		UPDATE faculty_profile
		SET name = $2, email = $3, department = $4, designation = $5, phone = $6, office = $7, avatar_url = $8,
		    managed_course_ids = $9, students_managed = $10, resources_uploaded = $11,
		    announcements_made = $12, posts_verified = $13
		WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, q,
		fac.ID, fac.Name, fac.Email, fac.Department, fac.Designation, fac.Phone, fac.Office, fac.AvatarURL,
		pq.Array(fac.ManagedCourseIDs), fac.Stats.StudentsManaged, fac.Stats.ResourcesUploaded,
		fac.Stats.AnnouncementsMade, fac.Stats.PostsVerified,
	)
	if err != nil {
		return profile.Faculty{}, errors.Wrap(err, "updating faculty profile")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return profile.Faculty{}, profile.ErrNotFound
	}
	return fac, nil
}
