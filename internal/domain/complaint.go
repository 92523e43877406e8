package domain

import "time"

// ComplaintStatus enumerates lifecycle states for complaints.
type ComplaintStatus string

const (
	ComplaintStatusSubmitted  ComplaintStatus = "SUBMITTED"
	ComplaintStatusAssigned   ComplaintStatus = "ASSIGNED"
	ComplaintStatusInProgress ComplaintStatus = "IN_PROGRESS"
	ComplaintStatusResolved   ComplaintStatus = "RESOLVED"
	ComplaintStatusRejected   ComplaintStatus = "REJECTED"
)

// ComplaintPriority enumerates SLA urgency.
type ComplaintPriority string

const (
	ComplaintPriorityLow    ComplaintPriority = "LOW"
	ComplaintPriorityMedium ComplaintPriority = "MEDIUM"
	ComplaintPriorityHigh   ComplaintPriority = "HIGH"
	ComplaintPriorityUrgent ComplaintPriority = "URGENT"
)

// Complaint is the aggregate for student-submitted service issues.
// StudentID never changes after creation. AssignedStaffID is set only by an
// admin assignment; it stays null while the complaint is SUBMITTED.
type Complaint struct {
	ID              string
	StudentID       string
	CategoryID      *string
	Title           string
	Description     string
	Status          ComplaintStatus
	Priority        ComplaintPriority
	AssignedStaffID *string
	Solution        *string
	SLADeadline     *time.Time
	SLABreached     bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
	ResolvedAt      *time.Time
}

var complaintTransitions = map[ComplaintStatus]map[ComplaintStatus]struct{}{
	ComplaintStatusSubmitted: {
		ComplaintStatusAssigned: {},
		ComplaintStatusRejected: {},
	},
	ComplaintStatusAssigned: {
		ComplaintStatusInProgress: {},
		ComplaintStatusRejected:   {},
	},
	ComplaintStatusInProgress: {
		ComplaintStatusResolved: {},
		ComplaintStatusRejected: {},
	},
	ComplaintStatusResolved: {},
	ComplaintStatusRejected: {},
}

// CanTransition reports whether the lifecycle allows moving from one status
// to another. Who may drive the transition is decided by the authz gate; this
// table only encodes the shape of the state machine.
func CanTransition(from, to ComplaintStatus) bool {
	next, ok := complaintTransitions[from]
	if !ok {
		return false
	}
	_, ok = next[to]
	return ok
}

// IsTerminal reports whether a status accepts no further transitions.
func IsTerminal(status ComplaintStatus) bool {
	return len(complaintTransitions[status]) == 0
}

// NextStatuses returns the statuses reachable from the given one.
func NextStatuses(from ComplaintStatus) []ComplaintStatus {
	next := complaintTransitions[from]
	result := make([]ComplaintStatus, 0, len(next))
	for status := range next {
		result = append(result, status)
	}
	return result
}

// ValidStatus reports whether the value is a known lifecycle state.
func ValidStatus(status ComplaintStatus) bool {
	_, ok := complaintTransitions[status]
	return ok
}

// ValidPriority reports whether the value is a known priority.
func ValidPriority(priority ComplaintPriority) bool {
	switch priority {
	case ComplaintPriorityLow, ComplaintPriorityMedium, ComplaintPriorityHigh, ComplaintPriorityUrgent:
		return true
	}
	return false
}

// Overdue reports whether the complaint is past its SLA deadline and still
// open.
func (c *Complaint) Overdue(now time.Time) bool {
	if c.SLADeadline == nil || IsTerminal(c.Status) {
		return false
	}
	return now.After(*c.SLADeadline)
}
