package profile

import (
	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/kitcoek/eduforum/core"
)

// ForumActivity is a student's denormalized forum counters.
type ForumActivity struct {
	Posts   int `json:"posts"`
	Replies int `json:"replies"`
	Upvotes int `json:"upvotes"`
}

type Student struct {
	ID                string        `json:"id"`
	Name              string        `json:"name"`
	Email             string        `json:"email"`
	PRN               string        `json:"prn"`
	Department        string        `json:"department"`
	Year              string        `json:"year"`
	Phone             null.String   `json:"phone,omitempty"`
	AvatarURL         null.String   `json:"avatarUrl,omitempty"`
	EnrolledCourseIDs []string      `json:"enrolledCourseIds"`
	ForumActivity     ForumActivity `json:"forumActivity"`
}

// FacultyStats is a faculty member's denormalized activity counters.
type FacultyStats struct {
	StudentsManaged   int `json:"studentsManaged"`
	ResourcesUploaded int `json:"resourcesUploaded"`
	AnnouncementsMade int `json:"announcementsMade"`
	PostsVerified     int `json:"postsVerified"`
}

type Faculty struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	Email            string       `json:"email"`
	Department       string       `json:"department"`
	Designation      string       `json:"designation"`
	Phone            null.String  `json:"phone,omitempty"`
	Office           null.String  `json:"office,omitempty"`
	AvatarURL        null.String  `json:"avatarUrl,omitempty"`
	ManagedCourseIDs []string     `json:"managedCourseIds"`
	Stats            FacultyStats `json:"stats"`
}

// NewStudent contains information needed to create (or upsert by email) a
// StudentProfile.
type NewStudent struct {
	Name       string      `json:"name" validate:"required"`
	Email      string      `json:"email" validate:"required,email"`
	PRN        string      `json:"prn" validate:"required,prn"`
	Department string      `json:"department" validate:"required"`
	Year       string      `json:"year" validate:"required"`
	Phone      null.String `json:"phone"`
	AvatarURL  null.String `json:"avatarUrl"`
}

func (ns *NewStudent) Validate(validate *validator.Validate) error {
	ns.Name = core.CleanString(ns.Name)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.PRN = core.CleanString(ns.PRN)
	return validate.Struct(ns)
}

// UpdateStudent defines a partial merge over an existing StudentProfile.
type UpdateStudent struct {
	Name       *string     `json:"name"`
	Email      *string     `json:"email" validate:"omitempty,email"`
	PRN        *string     `json:"prn" validate:"omitempty,prn"`
	Department *string     `json:"department"`
	Year       *string     `json:"year"`
	Phone      null.String `json:"phone"`
	AvatarURL  null.String `json:"avatarUrl"`
}

func (us *UpdateStudent) Validate(validate *validator.Validate) error {
	return validate.Struct(us)
}

// NewFaculty contains information needed to create (or upsert by email) a
// FacultyProfile.
type NewFaculty struct {
	Name        string      `json:"name" validate:"required"`
	Email       string      `json:"email" validate:"required,email,facultyemail"`
	Department  string      `json:"department" validate:"required"`
	Designation string      `json:"designation" validate:"required"`
	Phone       null.String `json:"phone"`
	Office      null.String `json:"office"`
	AvatarURL   null.String `json:"avatarUrl"`
}

func (nf *NewFaculty) Validate(validate *validator.Validate) error {
	nf.Name = core.CleanString(nf.Name)
	nf.Email = core.CleanString(nf.Email, true /* lower */)
	return validate.Struct(nf)
}

// UpdateFaculty defines a partial merge over an existing FacultyProfile.
type UpdateFaculty struct {
	Name        *string     `json:"name"`
	Email       *string     `json:"email" validate:"omitempty,email,facultyemail"`
	Department  *string     `json:"department"`
	Designation *string     `json:"designation"`
	Phone       null.String `json:"phone"`
	Office      null.String `json:"office"`
	AvatarURL   null.String `json:"avatarUrl"`
}

func (uf *UpdateFaculty) Validate(validate *validator.Validate) error {
	return validate.Struct(uf)
}

// GetFilter resolves a profile by id or email; id takes precedence when both
// are supplied.
type GetFilter struct {
	ID    string
	Email string
}

func (gf GetFilter) IsEmpty() bool {
	return gf.ID == "" && gf.Email == ""
}
