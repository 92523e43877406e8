package domain

import "time"

// ComplaintChangeType captures what changed in a history entry.
type ComplaintChangeType string

const (
	ChangeTypeStatus     ComplaintChangeType = "STATUS_CHANGE"
	ChangeTypeAssignment ComplaintChangeType = "ASSIGNMENT_CHANGE"
	ChangeTypePriority   ComplaintChangeType = "PRIORITY_CHANGE"
	ChangeTypeSLABreach  ComplaintChangeType = "SLA_BREACH"
)

// ComplaintHistory is an immutable audit trail entry.
type ComplaintHistory struct {
	ID          string
	ComplaintID string
	ActorID     *string
	ActorRole   *Role
	ChangeType  ComplaintChangeType
	OldValue    map[string]any
	NewValue    map[string]any
	CreatedAt   time.Time
}
