package notification

import "time"

// Notification types
const (
	TypeReply        = "reply"
	TypeVerified     = "verified"
	TypeResource     = "resource"
	TypeAnnouncement = "announcement"
)

// Notification is one entry in a user's activity feed. UserID is the
// client-stored identity key (profile id or email) of the recipient.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Link      string    `json:"link,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"timestamp"` // UTC
}
