package announcement

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/kitcoek/eduforum/core"
)

// Bulk actions
const (
	ActionDelete = "delete"
	ActionPin    = "pin"
	ActionUnpin  = "unpin"
)

// DefaultTitle is used when an announcement is created without a title.
const DefaultTitle = "Untitled"

type Announcement struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	CourseIDs   []string  `json:"courseIds"`
	Pinned      bool      `json:"pinned"`
	ScheduledAt null.Time `json:"scheduledAt"`
	CreatedAt   time.Time `json:"createdAt"` // UTC
	UpdatedAt   time.Time `json:"updatedAt"` // UTC
}

// NewAnnouncement contains information needed to create a new Announcement.
// CourseIDs entries may be course ids, codes or names; unresolvable entries
// are skipped.
type NewAnnouncement struct {
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	CourseIDs   []string  `json:"courseIds"`
	Pinned      bool      `json:"pinned"`
	ScheduledAt null.Time `json:"scheduledAt"`
}

func (na *NewAnnouncement) Validate(validate *validator.Validate) error {
	if na.Title = core.CleanString(na.Title); na.Title == "" {
		na.Title = DefaultTitle
	}
	return validate.Struct(na)
}

// UpdateAnnouncement defines what information may be provided to modify an
// existing Announcement. Nil fields are left untouched; a nil CourseIDs keeps
// the current course associations.
type UpdateAnnouncement struct {
	Title       *string   `json:"title"`
	Content     *string   `json:"content"`
	CourseIDs   []string  `json:"courseIds"`
	Pinned      *bool     `json:"pinned"`
	ScheduledAt null.Time `json:"scheduledAt"`
}

func (ua *UpdateAnnouncement) Validate(validate *validator.Validate) error {
	return validate.Struct(ua)
}

// BulkAction applies one action to a set of Announcements.
type BulkAction struct {
	IDs    []string `json:"ids" validate:"required,min=1"`
	Action string   `json:"action" validate:"required,oneof=delete pin unpin"`
}

func (ba *BulkAction) Validate(validate *validator.Validate) error {
	return validate.Struct(ba)
}

// QueryFilter applies AND operation on available fields. Course may be a
// course id, code or name; an unresolvable token drops the predicate.
type QueryFilter struct {
	Course string    `query:"course"`
	Pinned *bool     `query:"pinned"`
	From   time.Time `query:"from"`
	To     time.Time `query:"to"`

	// CourseID is the resolved course filter, set by the service.
	CourseID string `query:"-"`
}

func (qf *QueryFilter) Clean() {
	qf.Course = core.CleanString(qf.Course)
	if qf.Course == "all" {
		qf.Course = ""
	}
}
