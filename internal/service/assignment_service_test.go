package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/events"
)

func TestAssignHappyPath(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	complaint := f.submit(t)
	assigned, err := f.assignmentSvc.Assign(ctx, f.admin, complaint.ID, f.staff.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ComplaintStatusAssigned, assigned.Status)
	require.NotNil(t, assigned.AssignedStaffID)
	assert.Equal(t, f.staff.ID, *assigned.AssignedStaffID)

	published := f.dispatcher.byType(events.EventComplaintAssigned)
	require.Len(t, published, 1)
	payload, ok := published[0].Payload.(events.ComplaintAssignedPayload)
	require.True(t, ok)
	assert.Equal(t, f.staff.ID, payload.AssignedStaffID)

	require.Len(t, f.history.entries, 1)
	assert.Equal(t, domain.ChangeTypeAssignment, f.history.entries[0].ChangeType)
}

func TestAssignRequiresAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	complaint := f.submit(t)

	_, err := f.assignmentSvc.Assign(ctx, f.staff, complaint.ID, f.staff.ID)
	assert.Equal(t, "ACCESS_DENIED", errCode(t, err))
	_, err = f.assignmentSvc.Assign(ctx, f.student, complaint.ID, f.staff.ID)
	assert.Equal(t, "ACCESS_DENIED", errCode(t, err))
	_, err = f.assignmentSvc.Assign(ctx, nil, complaint.ID, f.staff.ID)
	assert.Equal(t, "UNAUTHORIZED", errCode(t, err))
}

func TestAssignInvalidAssignee(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	complaint := f.submit(t)

	_, err := f.assignmentSvc.Assign(ctx, f.admin, complaint.ID, "no-such-user")
	assert.Equal(t, "INVALID_ASSIGNMENT", errCode(t, err))

	_, err = f.assignmentSvc.Assign(ctx, f.admin, complaint.ID, f.student.ID)
	assert.Equal(t, "INVALID_ASSIGNMENT", errCode(t, err))
	_, err = f.assignmentSvc.Assign(ctx, f.admin, complaint.ID, f.admin.ID)
	assert.Equal(t, "INVALID_ASSIGNMENT", errCode(t, err))

	inactive := f.users.add(domain.User{ID: "staff-off", Name: "Iva Idle", Email: "iva@example.com", Role: domain.RoleStaff, Active: false})
	_, err = f.assignmentSvc.Assign(ctx, f.admin, complaint.ID, inactive.ID)
	assert.Equal(t, "INVALID_ASSIGNMENT", errCode(t, err))

	// Nothing above moved the complaint.
	stored, err := f.complaints.GetByID(ctx, complaint.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ComplaintStatusSubmitted, stored.Status)
	assert.Nil(t, stored.AssignedStaffID)
}

func TestAssignOnlyFromSubmitted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	complaint := f.submit(t)
	_, err := f.assignmentSvc.Assign(ctx, f.admin, complaint.ID, f.staff.ID)
	require.NoError(t, err)

	// Re-assignment of an already assigned complaint is not a legal move.
	other := f.users.add(domain.User{ID: "staff-2", Name: "Uma Staff", Email: "uma@example.com", Role: domain.RoleStaff, Active: true})
	_, err = f.assignmentSvc.Assign(ctx, f.admin, complaint.ID, other.ID)
	assert.Equal(t, "INVALID_TRANSITION", errCode(t, err))

	rejected := f.submit(t)
	_, err = f.complaintSvc.Reject(ctx, f.admin, rejected.ID, "out of scope")
	require.NoError(t, err)
	_, err = f.assignmentSvc.Assign(ctx, f.admin, rejected.ID, f.staff.ID)
	assert.Equal(t, "INVALID_TRANSITION", errCode(t, err))

	_, err = f.assignmentSvc.Assign(ctx, f.admin, "missing-id", f.staff.ID)
	assert.Equal(t, "NOT_FOUND", errCode(t, err))
}
