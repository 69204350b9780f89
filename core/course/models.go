package course

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/kitcoek/eduforum/core"
)

// Enrollment statuses
const (
	StatusEnrolled = "enrolled"
	StatusPending  = "pending"
)

// Roster bulk actions
const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

type Course struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Instructor  string    `json:"instructor,omitempty"`
	Description string    `json:"description,omitempty"`
	Students    int       `json:"students"`
	Progress    int       `json:"progress"`
	NextClass   string    `json:"nextClass,omitempty"`
	CreatedAt   time.Time `json:"createdAt"` // UTC
	UpdatedAt   time.Time `json:"updatedAt"` // UTC
}

// Enrollment is a student's membership (or membership request) in a Course.
type Enrollment struct {
	ID       string      `json:"id"`
	CourseID string      `json:"courseId"`
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	PRN      null.String `json:"prn,omitempty"`
	Status   string      `json:"status"` // enrolled | pending
}

// NewCourse contains information needed to create a new Course.
type NewCourse struct {
	Code        string `json:"code" validate:"required,alphanum_"`
	Name        string `json:"name" validate:"required"`
	Instructor  string `json:"instructor"`
	Description string `json:"description"`
	NextClass   string `json:"nextClass"`
}

func (nc *NewCourse) Validate(validate *validator.Validate) error {
	nc.Code = core.CleanString(nc.Code)
	nc.Name = core.CleanString(nc.Name)
	nc.Instructor = core.CleanString(nc.Instructor)
	return validate.Struct(nc)
}

// UpdateCourse defines what information may be provided to modify an existing Course.
// Nil fields are left untouched.
type UpdateCourse struct {
	Code        *string `json:"code" validate:"omitempty,alphanum_"`
	Name        *string `json:"name"`
	Instructor  *string `json:"instructor"`
	Description *string `json:"description"`
	NextClass   *string `json:"nextClass"`
	Progress    *int    `json:"progress" validate:"omitempty,min=0,max=100"`
	Students    *int    `json:"students" validate:"omitempty,min=0"`
}

func (uc *UpdateCourse) Validate(validate *validator.Validate) error {
	return validate.Struct(uc)
}

// RosterAction applies a bulk action to roster entries of a Course.
type RosterAction struct {
	Action string   `json:"action" validate:"required,oneof=approve reject"`
	IDs    []string `json:"ids" validate:"required,min=1"`
}

func (ra *RosterAction) Validate(validate *validator.Validate) error {
	return validate.Struct(ra)
}

// GetFilter resolves a Course by exactly one of its fields, checked in order.
type GetFilter struct {
	ID   string
	Code string
	Name string
}
