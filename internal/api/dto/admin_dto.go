package dto

import "github.com/spec-kit/complaint-service/internal/domain"

// CreateAccountRequest payload for admin-created staff/admin accounts.
type CreateAccountRequest struct {
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Password   string      `json:"password"`
	Role       domain.Role `json:"role"`
	Department *string     `json:"department"`
	Phone      *string     `json:"phone"`
}

// SetAccountActiveRequest payload.
type SetAccountActiveRequest struct {
	Active bool `json:"active"`
}

// AssignComplaintRequest payload.
type AssignComplaintRequest struct {
	StaffID string `json:"staff_id"`
}

// RejectComplaintRequest payload.
type RejectComplaintRequest struct {
	Reason string `json:"reason"`
}

// UpdatePriorityRequest payload.
type UpdatePriorityRequest struct {
	Priority domain.ComplaintPriority `json:"priority"`
}

// CategoryRequest payload for create/update of categories.
type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"`
}

// DashboardResponse returns admin dashboard counters.
type DashboardResponse struct {
	TotalComplaints int64            `json:"total_complaints"`
	ByStatus        map[string]int64 `json:"by_status"`
	ByPriority      map[string]int64 `json:"by_priority"`
	SLABreached     int64            `json:"sla_breached"`
	TotalStudents   int64            `json:"total_students"`
	TotalStaff      int64            `json:"total_staff"`
}
