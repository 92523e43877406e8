// Package authz is the single authorization decision point. Services call
// Can before every mutating operation instead of sprinkling role checks
// through handlers; a denial is always an explicit ACCESS_DENIED error,
// never a silently filtered result.
package authz

import (
	"github.com/spec-kit/complaint-service/internal/domain"
	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

// Action identifies an operation subject to authorization.
type Action string

const (
	ActionComplaintCreate  Action = "complaint:create"
	ActionComplaintRead    Action = "complaint:read"
	ActionComplaintComment Action = "complaint:comment"
	ActionStatusUpdate     Action = "complaint:update_status"
	ActionAssign           Action = "complaint:assign"
	ActionReject           Action = "complaint:reject"
	ActionPriorityUpdate   Action = "complaint:update_priority"
	ActionUserManage       Action = "user:manage"
	ActionCategoryManage   Action = "category:manage"
	ActionDashboardView    Action = "dashboard:view"
)

// ComplaintRef carries the ownership facts Can needs about a complaint.
// A zero ComplaintRef means the action is not about a specific complaint.
type ComplaintRef struct {
	StudentID       string
	AssignedStaffID *string
}

// Ref builds a ComplaintRef from a complaint.
func Ref(c *domain.Complaint) ComplaintRef {
	if c == nil {
		return ComplaintRef{}
	}
	return ComplaintRef{StudentID: c.StudentID, AssignedStaffID: c.AssignedStaffID}
}

// Can decides whether the actor may perform the action on the referenced
// complaint. Admin-only and student-only actions ignore the reference.
func Can(actor *domain.User, action Action, ref ComplaintRef) error {
	if actor == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if !actor.Active {
		return apperrors.NewAccessDenied("account deactivated")
	}

	switch action {
	case ActionComplaintCreate:
		if actor.Role != domain.RoleStudent {
			return apperrors.NewAccessDenied("only students may submit complaints")
		}
		return nil

	case ActionComplaintRead, ActionComplaintComment:
		switch actor.Role {
		case domain.RoleAdmin:
			return nil
		case domain.RoleStudent:
			if ref.StudentID != actor.ID {
				return apperrors.NewAccessDenied("complaint belongs to another student")
			}
			return nil
		case domain.RoleStaff:
			if ref.AssignedStaffID == nil || *ref.AssignedStaffID != actor.ID {
				return apperrors.NewAccessDenied("complaint is not assigned to you")
			}
			return nil
		}
		return apperrors.NewAccessDenied("unknown role")

	case ActionStatusUpdate:
		if actor.Role != domain.RoleStaff {
			return apperrors.NewAccessDenied("only staff may update complaint status")
		}
		if ref.AssignedStaffID == nil || *ref.AssignedStaffID != actor.ID {
			return apperrors.NewAccessDenied("complaint is not assigned to you")
		}
		return nil

	case ActionAssign, ActionReject, ActionPriorityUpdate,
		ActionUserManage, ActionCategoryManage, ActionDashboardView:
		if actor.Role != domain.RoleAdmin {
			return apperrors.NewAccessDenied("admin role required")
		}
		return nil
	}

	return apperrors.NewAccessDenied("unknown action")
}
