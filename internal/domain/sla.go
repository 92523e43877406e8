package domain

import "time"

// SLAPolicy defines the resolution window for a priority level.
type SLAPolicy struct {
	ID                  string
	Name                string
	Priority            ComplaintPriority
	ResolutionTimeHours int
	IsActive            bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// DeadlineFrom computes the SLA deadline for a complaint created at the
// given time.
func (p *SLAPolicy) DeadlineFrom(createdAt time.Time) time.Time {
	return createdAt.Add(time.Duration(p.ResolutionTimeHours) * time.Hour)
}
