package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/complaint-service/internal/authz"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/events"
	"github.com/spec-kit/complaint-service/internal/repository"
	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

// AssignmentService handles the admin-only binding of complaints to staff.
// Assignment is the only way a complaint acquires a handler; there is no
// staff self-claim.
type AssignmentService struct {
	complaints repository.ComplaintRepository
	users      repository.UserRepository
	history    repository.ComplaintHistoryRepository
	dispatcher events.Dispatcher
}

// AssignmentDependencies bundles repositories.
type AssignmentDependencies struct {
	ComplaintRepo repository.ComplaintRepository
	UserRepo      repository.UserRepository
	HistoryRepo   repository.ComplaintHistoryRepository
	Dispatcher    events.Dispatcher
}

// NewAssignmentService creates the service.
func NewAssignmentService(deps AssignmentDependencies) *AssignmentService {
	return &AssignmentService{
		complaints: deps.ComplaintRepo,
		users:      deps.UserRepo,
		history:    deps.HistoryRepo,
		dispatcher: deps.Dispatcher,
	}
}

// Assign binds a SUBMITTED complaint to a staff member and moves it to
// ASSIGNED in one conditional write.
func (s *AssignmentService) Assign(ctx context.Context, actor *domain.User, complaintID, staffID string) (*domain.Complaint, error) {
	if err := authz.Can(actor, authz.ActionAssign, authz.ComplaintRef{}); err != nil {
		return nil, err
	}

	staff, err := s.users.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewInvalidAssignment("staff member does not exist", map[string]any{"staff_id": staffID})
		}
		return nil, apperrors.MapError(err)
	}
	if staff.Role != domain.RoleStaff {
		return nil, apperrors.NewInvalidAssignment("assignee is not a staff account", map[string]any{"staff_id": staffID, "role": staff.Role})
	}
	if !staff.Active {
		return nil, apperrors.NewInvalidAssignment("staff account inactive", map[string]any{"staff_id": staffID})
	}

	complaint, err := s.complaints.GetByID(ctx, complaintID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("complaint", map[string]any{"complaint_id": complaintID})
		}
		return nil, apperrors.MapError(err)
	}
	if !domain.CanTransition(complaint.Status, domain.ComplaintStatusAssigned) {
		return nil, apperrors.NewInvalidTransition(string(complaint.Status), string(domain.ComplaintStatusAssigned))
	}

	if err := s.complaints.Assign(ctx, complaint.ID, staff.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Raced with another assignment or rejection.
			return nil, apperrors.NewInvalidTransition(string(complaint.Status), string(domain.ComplaintStatusAssigned))
		}
		return nil, apperrors.MapError(err)
	}

	oldStatus := complaint.Status
	complaint.Status = domain.ComplaintStatusAssigned
	complaint.AssignedStaffID = &staff.ID

	if s.history != nil {
		_ = s.history.Create(ctx, &domain.ComplaintHistory{
			ComplaintID: complaint.ID,
			ActorID:     &actor.ID,
			ActorRole:   &actor.Role,
			ChangeType:  domain.ChangeTypeAssignment,
			OldValue:    map[string]any{"status": oldStatus, "assigned_staff_id": nil},
			NewValue:    map[string]any{"status": complaint.Status, "assigned_staff_id": staff.ID},
		})
	}
	s.publishAssignmentEvent(ctx, actor, complaint.ID, staff.ID)
	return complaint, nil
}

func (s *AssignmentService) publishAssignmentEvent(ctx context.Context, actor *domain.User, complaintID, staffID string) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:          uuid.NewString(),
		Type:        events.EventComplaintAssigned,
		ComplaintID: complaintID,
		Actor:       userActor(actor),
		Timestamp:   time.Now(),
		Payload:     events.ComplaintAssignedPayload{AssignedStaffID: staffID},
	}
	_ = s.dispatcher.Publish(ctx, event)
}
