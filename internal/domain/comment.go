package domain

import "time"

// ComplaintComment captures discussion on a complaint. Internal comments are
// visible to staff and admins only.
type ComplaintComment struct {
	ID          string
	ComplaintID string
	AuthorID    string
	AuthorRole  Role
	Body        string
	Internal    bool
	CreatedAt   time.Time
}
