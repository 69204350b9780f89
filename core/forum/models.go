package forum

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/kitcoek/eduforum/core"
)

// Reply statuses. Only "normal" and "incorrect" are persisted; "verified" is
// derived from the owning thread's verifiedAnswerId pointer.
const (
	StatusNormal    = "normal"
	StatusIncorrect = "incorrect"
	StatusVerified  = "verified"
)

// Moderation actions
const (
	ActionVerify    = "verify"
	ActionIncorrect = "incorrect"
)

// Vote types
const (
	VoteUp   = "up"
	VoteDown = "down"
)

type Thread struct {
	ID               string      `json:"id"`
	CourseID         string      `json:"courseId"`
	Title            string      `json:"title"`
	Content          string      `json:"content,omitempty"`
	Author           string      `json:"author"`
	AuthorID         string      `json:"authorId,omitempty"`
	Tags             []string    `json:"tags"`
	Upvotes          int         `json:"upvotes"`
	VerifiedAnswerID null.String `json:"verifiedAnswerId,omitempty"`
	CreatedAt        time.Time   `json:"timestamp"` // UTC
}

func (t Thread) HasVerifiedAnswer() bool {
	return t.VerifiedAnswerID.Valid
}

type Reply struct {
	ID        string    `json:"id"`
	ThreadID  string    `json:"threadId"`
	Author    string    `json:"author"`
	AuthorID  string    `json:"authorId,omitempty"`
	Content   string    `json:"content"`
	Upvotes   int       `json:"upvotes"`
	Downvotes int       `json:"downvotes"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"timestamp"` // UTC
}

// ThreadInfo is a Thread with its denormalized listing counters.
type ThreadInfo struct {
	Thread
	Replies           int  `json:"replies"`
	HasVerifiedAnswer bool `json:"hasVerifiedAnswer"`
}

// NewThread contains information needed to open a new discussion Thread.
type NewThread struct {
	CourseID string   `json:"courseId" validate:"required"`
	Title    string   `json:"title" validate:"required"`
	Content  string   `json:"content" validate:"required"`
	Author   string   `json:"author" validate:"required"`
	AuthorID string   `json:"authorId"`
	Tags     []string `json:"tags"`
}

func (nt *NewThread) Validate(validate *validator.Validate) error {
	nt.Title = core.CleanString(nt.Title)
	nt.Content = core.CleanString(nt.Content)
	nt.Author = core.CleanString(nt.Author)
	return validate.Struct(nt)
}

// NewReply contains information needed to add a Reply to a Thread.
type NewReply struct {
	Author   string `json:"author" validate:"required"`
	AuthorID string `json:"authorId"`
	Content  string `json:"content" validate:"required"`
}

func (nr *NewReply) Validate(validate *validator.Validate) error {
	nr.Author = core.CleanString(nr.Author)
	nr.Content = core.CleanString(nr.Content)
	return validate.Struct(nr)
}

// Moderation is a faculty action on a Reply.
type Moderation struct {
	Action   string `json:"action" validate:"required,oneof=verify incorrect"`
	CourseID string `json:"courseId" validate:"required"`
	ThreadID string `json:"threadId" validate:"required"`
}

func (m *Moderation) Validate(validate *validator.Validate) error {
	return validate.Struct(m)
}

// VerifiedAnswer is a faculty-authored Reply that immediately becomes the
// Thread's verified answer.
type VerifiedAnswer struct {
	CourseID string `json:"courseId" validate:"required"`
	Content  string `json:"content" validate:"required"`
	Author   string `json:"author"`
}

func (va *VerifiedAnswer) Validate(validate *validator.Validate) error {
	va.Content = core.CleanString(va.Content)
	if va.Author = core.CleanString(va.Author); va.Author == "" {
		va.Author = "Faculty"
	}
	return validate.Struct(va)
}

// Vote is an up/down vote on a Reply.
type Vote struct {
	VoteType string `json:"voteType" validate:"required,oneof=up down"`
}

func (v *Vote) Validate(validate *validator.Validate) error {
	return validate.Struct(v)
}
