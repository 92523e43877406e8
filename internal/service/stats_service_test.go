package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/domain"
)

func TestDashboard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewStatsService(f.complaints, f.users, nil, 0, zap.NewNop())

	first := f.submit(t)
	f.submit(t)
	_, err := f.assignmentSvc.Assign(ctx, f.admin, first.ID, f.staff.ID)
	require.NoError(t, err)

	stats, err := svc.Dashboard(ctx, f.admin)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalComplaints)
	assert.Equal(t, int64(1), stats.ByStatus[domain.ComplaintStatusSubmitted])
	assert.Equal(t, int64(1), stats.ByStatus[domain.ComplaintStatusAssigned])
	assert.Equal(t, int64(2), stats.ByPriority[domain.ComplaintPriorityMedium])
	assert.Equal(t, int64(1), stats.TotalStudents)
	assert.Equal(t, int64(1), stats.TotalStaff)
	assert.Equal(t, int64(0), stats.SLABreached)
}

func TestDashboardAdminOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewStatsService(f.complaints, f.users, nil, 0, zap.NewNop())

	_, err := svc.Dashboard(ctx, f.student)
	assert.Equal(t, "ACCESS_DENIED", errCode(t, err))
	_, err = svc.Dashboard(ctx, f.staff)
	assert.Equal(t, "ACCESS_DENIED", errCode(t, err))
	_, err = svc.Dashboard(ctx, nil)
	assert.Equal(t, "UNAUTHORIZED", errCode(t, err))
}
