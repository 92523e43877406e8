package dto

import (
	"time"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// CreateComplaintRequest payload.
type CreateComplaintRequest struct {
	CategoryID  *string                  `json:"category_id"`
	Title       string                   `json:"title"`
	Description string                   `json:"description"`
	Priority    domain.ComplaintPriority `json:"priority"`
}

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	Body     string `json:"body"`
	Internal bool   `json:"internal"`
}

// UpdateStatusRequest payload for staff transitions.
type UpdateStatusRequest struct {
	Status   domain.ComplaintStatus `json:"status"`
	Solution *string                `json:"solution"`
}

// ComplaintSummary response.
type ComplaintSummary struct {
	ID              string                   `json:"id"`
	StudentID       string                   `json:"student_id"`
	CategoryID      *string                  `json:"category_id"`
	Title           string                   `json:"title"`
	Status          domain.ComplaintStatus   `json:"status"`
	Priority        domain.ComplaintPriority `json:"priority"`
	AssignedStaffID *string                  `json:"assigned_staff_id"`
	SLADeadline     *time.Time               `json:"sla_deadline"`
	SLABreached     bool                     `json:"sla_breached"`
	CreatedAt       time.Time                `json:"created_at"`
	UpdatedAt       time.Time                `json:"updated_at"`
}

// ComplaintDetailResponse provides full complaint info.
type ComplaintDetailResponse struct {
	ID              string                   `json:"id"`
	StudentID       string                   `json:"student_id"`
	CategoryID      *string                  `json:"category_id"`
	Title           string                   `json:"title"`
	Description     string                   `json:"description"`
	Status          domain.ComplaintStatus   `json:"status"`
	Priority        domain.ComplaintPriority `json:"priority"`
	AssignedStaffID *string                  `json:"assigned_staff_id"`
	Solution        *string                  `json:"solution"`
	SLADeadline     *time.Time               `json:"sla_deadline"`
	SLABreached     bool                     `json:"sla_breached"`
	CreatedAt       time.Time                `json:"created_at"`
	UpdatedAt       time.Time                `json:"updated_at"`
	ResolvedAt      *time.Time               `json:"resolved_at"`
	Comments        []CommentResponse        `json:"comments"`
	History         []HistoryResponse        `json:"history"`
}

// CommentResponse represents a complaint comment.
type CommentResponse struct {
	ID          string      `json:"id"`
	ComplaintID string      `json:"complaint_id"`
	AuthorID    string      `json:"author_id"`
	AuthorRole  domain.Role `json:"author_role"`
	Body        string      `json:"body"`
	Internal    bool        `json:"internal"`
	CreatedAt   time.Time   `json:"created_at"`
}

// HistoryResponse represents an audit entry.
type HistoryResponse struct {
	ID         string                     `json:"id"`
	ChangeType domain.ComplaintChangeType `json:"change_type"`
	ActorID    *string                    `json:"actor_id"`
	ActorRole  *domain.Role               `json:"actor_role"`
	OldValue   map[string]any             `json:"old_value"`
	NewValue   map[string]any             `json:"new_value"`
	CreatedAt  time.Time                  `json:"created_at"`
}

// CategoryResponse represents a complaint category.
type CategoryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
}
