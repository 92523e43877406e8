package events

import (
	"time"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventComplaintCreated       EventType = "complaint_created"
	EventComplaintAssigned      EventType = "complaint_assigned"
	EventComplaintStatusChanged EventType = "complaint_status_changed"
	EventComplaintCommentAdded  EventType = "complaint_comment_added"
	EventComplaintSLABreached   EventType = "complaint_sla_breached"
)

// Actor encapsulates actor metadata for an event. A nil UserID means the
// system acted (SLA sweeps).
type Actor struct {
	Role   *domain.Role `json:"role,omitempty"`
	UserID *string      `json:"user_id,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID          string      `json:"id"`
	Type        EventType   `json:"type"`
	ComplaintID string      `json:"complaint_id"`
	Actor       Actor       `json:"actor"`
	Timestamp   time.Time   `json:"timestamp"`
	Payload     interface{} `json:"payload"`
}

// ComplaintCreatedPayload payload.
type ComplaintCreatedPayload struct {
	StudentID  string                   `json:"student_id"`
	CategoryID *string                  `json:"category_id,omitempty"`
	Priority   domain.ComplaintPriority `json:"priority"`
	Title      string                   `json:"title"`
}

// ComplaintAssignedPayload payload.
type ComplaintAssignedPayload struct {
	AssignedStaffID string `json:"assigned_staff_id"`
}

// ComplaintStatusChangedPayload payload.
type ComplaintStatusChangedPayload struct {
	OldStatus domain.ComplaintStatus `json:"old_status"`
	NewStatus domain.ComplaintStatus `json:"new_status"`
	Comment   string                 `json:"comment,omitempty"`
}

// ComplaintCommentAddedPayload payload.
type ComplaintCommentAddedPayload struct {
	CommentID   string      `json:"comment_id"`
	AuthorRole  domain.Role `json:"author_role"`
	Internal    bool        `json:"internal"`
	BodyPreview string      `json:"body_preview"`
}

// ComplaintSLABreachedPayload payload.
type ComplaintSLABreachedPayload struct {
	Deadline        time.Time `json:"deadline"`
	AssignedStaffID *string   `json:"assigned_staff_id,omitempty"`
}
