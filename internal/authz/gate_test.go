package authz

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/complaint-service/internal/domain"
	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

func user(id string, role domain.Role) *domain.User {
	return &domain.User{ID: id, Role: role, Active: true}
}

func code(err error) string {
	var de *apperrors.DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

func TestStudentScope(t *testing.T) {
	student := user("s1", domain.RoleStudent)
	own := ComplaintRef{StudentID: "s1"}
	other := ComplaintRef{StudentID: "s2"}

	assert.NoError(t, Can(student, ActionComplaintCreate, ComplaintRef{}))
	assert.NoError(t, Can(student, ActionComplaintRead, own))
	assert.NoError(t, Can(student, ActionComplaintComment, own))

	assert.Equal(t, "ACCESS_DENIED", code(Can(student, ActionComplaintRead, other)))
	assert.Equal(t, "ACCESS_DENIED", code(Can(student, ActionAssign, own)))
	assert.Equal(t, "ACCESS_DENIED", code(Can(student, ActionStatusUpdate, own)))
	assert.Equal(t, "ACCESS_DENIED", code(Can(student, ActionUserManage, ComplaintRef{})))
}

func TestStaffScope(t *testing.T) {
	staff := user("t1", domain.RoleStaff)
	mine := "t1"
	someoneElse := "t2"
	assigned := ComplaintRef{StudentID: "s1", AssignedStaffID: &mine}
	foreign := ComplaintRef{StudentID: "s1", AssignedStaffID: &someoneElse}
	unassigned := ComplaintRef{StudentID: "s1"}

	assert.NoError(t, Can(staff, ActionComplaintRead, assigned))
	assert.NoError(t, Can(staff, ActionStatusUpdate, assigned))

	assert.Equal(t, "ACCESS_DENIED", code(Can(staff, ActionComplaintRead, foreign)))
	assert.Equal(t, "ACCESS_DENIED", code(Can(staff, ActionStatusUpdate, foreign)))
	assert.Equal(t, "ACCESS_DENIED", code(Can(staff, ActionStatusUpdate, unassigned)))
	assert.Equal(t, "ACCESS_DENIED", code(Can(staff, ActionComplaintCreate, ComplaintRef{})))
	assert.Equal(t, "ACCESS_DENIED", code(Can(staff, ActionAssign, assigned)))
	assert.Equal(t, "ACCESS_DENIED", code(Can(staff, ActionReject, assigned)))
}

func TestAdminScope(t *testing.T) {
	admin := user("a1", domain.RoleAdmin)
	anyRef := ComplaintRef{StudentID: "s1"}

	assert.NoError(t, Can(admin, ActionComplaintRead, anyRef))
	assert.NoError(t, Can(admin, ActionAssign, anyRef))
	assert.NoError(t, Can(admin, ActionReject, anyRef))
	assert.NoError(t, Can(admin, ActionPriorityUpdate, anyRef))
	assert.NoError(t, Can(admin, ActionUserManage, ComplaintRef{}))
	assert.NoError(t, Can(admin, ActionDashboardView, ComplaintRef{}))

	// Admins do not submit complaints and do not drive staff transitions.
	assert.Equal(t, "ACCESS_DENIED", code(Can(admin, ActionComplaintCreate, ComplaintRef{})))
	assert.Equal(t, "ACCESS_DENIED", code(Can(admin, ActionStatusUpdate, anyRef)))
}

func TestInactiveAndAnonymous(t *testing.T) {
	inactive := &domain.User{ID: "x", Role: domain.RoleAdmin, Active: false}
	assert.Equal(t, "ACCESS_DENIED", code(Can(inactive, ActionDashboardView, ComplaintRef{})))
	assert.Equal(t, "UNAUTHORIZED", code(Can(nil, ActionComplaintRead, ComplaintRef{})))
}
