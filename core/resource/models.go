package resource

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/kitcoek/eduforum/core"
)

// File types
const (
	TypePDF   = "pdf"
	TypeVideo = "video"
	TypeDoc   = "doc"
	TypeZip   = "zip"
	TypeLink  = "link"
	TypePPT   = "ppt"
	TypeOther = "other"
)

// Sort orders
const (
	SortDate      = "date" // uploadedAt desc; the default
	SortDownloads = "downloads"
	SortTitle     = "title"
)

// DefaultURL is the placeholder served when a resource is created without one.
const DefaultURL = "/generic-file.png"

type Resource struct {
	ID          string    `json:"id"`
	CourseID    string    `json:"courseId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	FileType    string    `json:"fileType"`
	URL         string    `json:"url"`
	UploadedAt  time.Time `json:"uploadedAt"` // UTC
	Downloads   int       `json:"downloads"`
}

// NewResource contains information needed to record a new Resource.
type NewResource struct {
	CourseID    string   `json:"courseId" validate:"required"`
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	FileType    string   `json:"fileType" validate:"omitempty,oneof=pdf video doc zip link ppt other"`
	URL         string   `json:"url"`
}

func (nr *NewResource) Validate(validate *validator.Validate) error {
	nr.Title = core.CleanString(nr.Title)
	nr.FileType = core.CleanString(nr.FileType, true /* lower */)
	if nr.FileType == "" {
		nr.FileType = TypeOther
	}
	if nr.URL == "" {
		nr.URL = DefaultURL
	}
	return validate.Struct(nr)
}

// UpdateResource defines what information may be provided to modify an
// existing Resource. Nil fields are left untouched.
type UpdateResource struct {
	CourseID    *string  `json:"courseId"`
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Tags        []string `json:"tags"`
	FileType    *string  `json:"fileType" validate:"omitempty,oneof=pdf video doc zip link ppt other"`
	URL         *string  `json:"url"`
}

func (ur *UpdateResource) Validate(validate *validator.Validate) error {
	return validate.Struct(ur)
}

// QueryFilter applies AND operation on available fields. Search does a
// case-insensitive substring match on one of Title, Description or Tags.
type QueryFilter struct {
	Course   string `query:"course"`
	FileType string `query:"fileType"`
	Search   string `query:"search"`
	Sort     string `query:"sort"`
}

func (qf *QueryFilter) Clean() {
	qf.Course = core.CleanString(qf.Course)
	if qf.Course == "all" {
		qf.Course = ""
	}
	qf.FileType = core.CleanString(qf.FileType, true /* lower */)
	if qf.FileType == "all" {
		qf.FileType = ""
	}
	qf.Search = core.CleanString(qf.Search)
	qf.Sort = core.CleanString(qf.Sort, true /* lower */)
}
