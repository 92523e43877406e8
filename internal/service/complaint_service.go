package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/complaint-service/internal/authz"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/events"
	"github.com/spec-kit/complaint-service/internal/repository"
	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

// ComplaintService drives the complaint lifecycle. Every mutating entry
// point consults the authz gate before touching the store, and every status
// or assignment write is conditional on the status read earlier.
type ComplaintService struct {
	complaints repository.ComplaintRepository
	users      repository.UserRepository
	categories repository.CategoryRepository
	comments   repository.CommentRepository
	history    repository.ComplaintHistoryRepository
	sla        repository.SLARepository
	dispatcher events.Dispatcher
}

// ComplaintDependencies bundles repositories for the complaint service.
type ComplaintDependencies struct {
	ComplaintRepo repository.ComplaintRepository
	UserRepo      repository.UserRepository
	CategoryRepo  repository.CategoryRepository
	CommentRepo   repository.CommentRepository
	HistoryRepo   repository.ComplaintHistoryRepository
	SLARepo       repository.SLARepository
	Dispatcher    events.Dispatcher
}

// ComplaintCreateInput describes complaint submission payload.
type ComplaintCreateInput struct {
	CategoryID  *string
	Title       string
	Description string
	Priority    domain.ComplaintPriority
}

// ComplaintListFilter describes listing filters common to all roles.
type ComplaintListFilter struct {
	Statuses    []domain.ComplaintStatus
	Priorities  []domain.ComplaintPriority
	CategoryID  *string
	SearchTerm  *string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
	Offset      int
}

// ComplaintDetail aggregates a complaint with its discussion and audit trail.
type ComplaintDetail struct {
	Complaint *domain.Complaint
	Comments  []domain.ComplaintComment
	History   []domain.ComplaintHistory
}

// NewComplaintService constructs the service.
func NewComplaintService(deps ComplaintDependencies) *ComplaintService {
	return &ComplaintService{
		complaints: deps.ComplaintRepo,
		users:      deps.UserRepo,
		categories: deps.CategoryRepo,
		comments:   deps.CommentRepo,
		history:    deps.HistoryRepo,
		sla:        deps.SLARepo,
		dispatcher: deps.Dispatcher,
	}
}

// Create submits a new complaint for a student.
func (s *ComplaintService) Create(ctx context.Context, actor *domain.User, input ComplaintCreateInput) (*domain.Complaint, error) {
	if err := authz.Can(actor, authz.ActionComplaintCreate, authz.ComplaintRef{}); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" || description == "" {
		return nil, apperrors.NewValidationError("title and description required", nil)
	}

	priority := input.Priority
	if priority == "" {
		priority = domain.ComplaintPriorityMedium
	}
	if !domain.ValidPriority(priority) {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": priority})
	}

	if input.CategoryID != nil {
		category, err := s.categories.GetByID(ctx, *input.CategoryID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("category", map[string]any{"category_id": *input.CategoryID})
			}
			return nil, apperrors.MapError(err)
		}
		if !category.IsActive {
			return nil, apperrors.NewConflict("category inactive", map[string]any{"category_id": category.ID})
		}
	}

	complaint := &domain.Complaint{
		StudentID:   actor.ID,
		CategoryID:  input.CategoryID,
		Title:       title,
		Description: description,
		Status:      domain.ComplaintStatusSubmitted,
		Priority:    priority,
	}

	if deadline := s.slaDeadline(ctx, priority, time.Now()); deadline != nil {
		complaint.SLADeadline = deadline
	}

	if err := s.complaints.Create(ctx, complaint); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintCreated,
		ComplaintID: complaint.ID,
		Actor:       userActor(actor),
		Payload: events.ComplaintCreatedPayload{
			StudentID:  complaint.StudentID,
			CategoryID: complaint.CategoryID,
			Priority:   complaint.Priority,
			Title:      complaint.Title,
		},
	})
	return complaint, nil
}

// ListForStudent returns a student's own complaints.
func (s *ComplaintService) ListForStudent(ctx context.Context, actor *domain.User, filter ComplaintListFilter) ([]domain.Complaint, error) {
	if actor == nil || actor.Role != domain.RoleStudent {
		return nil, apperrors.NewAccessDenied("student role required")
	}
	repoFilter := s.repoFilter(filter)
	repoFilter.StudentID = &actor.ID
	return s.list(ctx, repoFilter)
}

// ListForStaff returns complaints assigned to the calling staff member.
func (s *ComplaintService) ListForStaff(ctx context.Context, actor *domain.User, filter ComplaintListFilter) ([]domain.Complaint, error) {
	if actor == nil || actor.Role != domain.RoleStaff {
		return nil, apperrors.NewAccessDenied("staff role required")
	}
	repoFilter := s.repoFilter(filter)
	repoFilter.AssignedStaffID = &actor.ID
	return s.list(ctx, repoFilter)
}

// ListAll returns every complaint; admin only.
func (s *ComplaintService) ListAll(ctx context.Context, actor *domain.User, filter ComplaintListFilter) ([]domain.Complaint, error) {
	if actor == nil || actor.Role != domain.RoleAdmin {
		return nil, apperrors.NewAccessDenied("admin role required")
	}
	return s.list(ctx, s.repoFilter(filter))
}

// Get fetches a complaint with comments and history, scoped by the gate.
// Students see public comments only.
func (s *ComplaintService) Get(ctx context.Context, actor *domain.User, complaintID string) (*ComplaintDetail, error) {
	complaint, err := s.getComplaint(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if err := authz.Can(actor, authz.ActionComplaintRead, authz.Ref(complaint)); err != nil {
		return nil, err
	}

	includeInternal := actor.Role != domain.RoleStudent
	comments, err := s.comments.ListByComplaint(ctx, complaint.ID, includeInternal)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	history, err := s.history.ListByComplaint(ctx, complaint.ID, 100, 0)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &ComplaintDetail{Complaint: complaint, Comments: comments, History: history}, nil
}

// AddComment appends a comment to a complaint. Students may only post
// public comments on their own complaints.
func (s *ComplaintService) AddComment(ctx context.Context, actor *domain.User, complaintID, body string, internal bool) (*domain.ComplaintComment, error) {
	complaint, err := s.getComplaint(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if err := authz.Can(actor, authz.ActionComplaintComment, authz.Ref(complaint)); err != nil {
		return nil, err
	}
	if internal && actor.Role == domain.RoleStudent {
		return nil, apperrors.NewAccessDenied("students cannot post internal comments")
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperrors.NewValidationError("body required", nil)
	}

	comment := &domain.ComplaintComment{
		ComplaintID: complaint.ID,
		AuthorID:    actor.ID,
		AuthorRole:  actor.Role,
		Body:        body,
		Internal:    internal,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintCommentAdded,
		ComplaintID: complaint.ID,
		Actor:       userActor(actor),
		Payload: events.ComplaintCommentAddedPayload{
			CommentID:   comment.ID,
			AuthorRole:  comment.AuthorRole,
			Internal:    comment.Internal,
			BodyPreview: stringPreview(comment.Body, 120),
		},
	})
	return comment, nil
}

// UpdateStatus drives the staff transitions of the lifecycle: ASSIGNED ->
// IN_PROGRESS and IN_PROGRESS -> RESOLVED, restricted to the assigned staff
// member. Rejection is a separate admin operation.
func (s *ComplaintService) UpdateStatus(ctx context.Context, actor *domain.User, complaintID string, newStatus domain.ComplaintStatus, solution *string) (*domain.Complaint, error) {
	complaint, err := s.getComplaint(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if err := authz.Can(actor, authz.ActionStatusUpdate, authz.Ref(complaint)); err != nil {
		// An active staff member denied here is not the assignee; everyone
		// else gets the gate's answer unchanged.
		if actor != nil && actor.Role == domain.RoleStaff && actor.Active {
			return nil, apperrors.NewNotAssignee(complaint.ID)
		}
		return nil, err
	}

	if newStatus != domain.ComplaintStatusInProgress && newStatus != domain.ComplaintStatusResolved {
		return nil, apperrors.NewInvalidTransition(string(complaint.Status), string(newStatus))
	}
	if !domain.CanTransition(complaint.Status, newStatus) {
		return nil, apperrors.NewInvalidTransition(string(complaint.Status), string(newStatus))
	}

	update := repository.StatusUpdate{From: complaint.Status, To: newStatus}
	if newStatus == domain.ComplaintStatusResolved {
		now := time.Now()
		update.ResolvedAt = &now
		update.Solution = solution
	}
	if err := s.complaints.UpdateStatus(ctx, complaint.ID, update); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Lost the optimistic race: the stored status moved on.
			return nil, apperrors.NewInvalidTransition(string(complaint.Status), string(newStatus))
		}
		return nil, apperrors.MapError(err)
	}

	oldStatus := complaint.Status
	complaint.Status = newStatus
	complaint.ResolvedAt = update.ResolvedAt
	if update.Solution != nil {
		complaint.Solution = update.Solution
	}

	s.recordStatusChange(ctx, actor, complaint.ID, oldStatus, newStatus)
	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintStatusChanged,
		ComplaintID: complaint.ID,
		Actor:       userActor(actor),
		Payload: events.ComplaintStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
		},
	})
	return complaint, nil
}

// Reject moves a non-terminal complaint to REJECTED; admin only.
func (s *ComplaintService) Reject(ctx context.Context, actor *domain.User, complaintID, reason string) (*domain.Complaint, error) {
	complaint, err := s.getComplaint(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if err := authz.Can(actor, authz.ActionReject, authz.Ref(complaint)); err != nil {
		return nil, err
	}
	if !domain.CanTransition(complaint.Status, domain.ComplaintStatusRejected) {
		return nil, apperrors.NewInvalidTransition(string(complaint.Status), string(domain.ComplaintStatusRejected))
	}

	update := repository.StatusUpdate{From: complaint.Status, To: domain.ComplaintStatusRejected}
	if reason = strings.TrimSpace(reason); reason != "" {
		update.Solution = &reason
	}
	if err := s.complaints.UpdateStatus(ctx, complaint.ID, update); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewInvalidTransition(string(complaint.Status), string(domain.ComplaintStatusRejected))
		}
		return nil, apperrors.MapError(err)
	}

	oldStatus := complaint.Status
	complaint.Status = domain.ComplaintStatusRejected
	if update.Solution != nil {
		complaint.Solution = update.Solution
	}

	s.recordStatusChange(ctx, actor, complaint.ID, oldStatus, domain.ComplaintStatusRejected)
	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintStatusChanged,
		ComplaintID: complaint.ID,
		Actor:       userActor(actor),
		Payload: events.ComplaintStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: domain.ComplaintStatusRejected,
			Comment:   reason,
		},
	})
	return complaint, nil
}

// UpdatePriority changes a complaint's priority and recomputes its SLA
// deadline; admin only.
func (s *ComplaintService) UpdatePriority(ctx context.Context, actor *domain.User, complaintID string, priority domain.ComplaintPriority) (*domain.Complaint, error) {
	complaint, err := s.getComplaint(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if err := authz.Can(actor, authz.ActionPriorityUpdate, authz.Ref(complaint)); err != nil {
		return nil, err
	}
	if !domain.ValidPriority(priority) {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": priority})
	}
	if domain.IsTerminal(complaint.Status) {
		return nil, apperrors.NewConflict("complaint already closed", map[string]any{"status": complaint.Status})
	}

	deadline := s.slaDeadline(ctx, priority, complaint.CreatedAt)
	if err := s.complaints.UpdatePriority(ctx, complaint.ID, priority, deadline); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("complaint", map[string]any{"complaint_id": complaintID})
		}
		return nil, apperrors.MapError(err)
	}

	oldPriority := complaint.Priority
	complaint.Priority = priority
	if deadline != nil {
		complaint.SLADeadline = deadline
	}
	s.recordChange(ctx, actor, complaint.ID, domain.ChangeTypePriority,
		map[string]any{"priority": oldPriority},
		map[string]any{"priority": priority})
	return complaint, nil
}

// ListActiveCategories returns the categories a submission may use.
func (s *ComplaintService) ListActiveCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.List(ctx, false)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return categories, nil
}

func (s *ComplaintService) list(ctx context.Context, filter repository.ComplaintFilter) ([]domain.Complaint, error) {
	result, err := s.complaints.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return result, nil
}

func (s *ComplaintService) repoFilter(filter ComplaintListFilter) repository.ComplaintFilter {
	return repository.ComplaintFilter{
		CategoryID:  filter.CategoryID,
		Statuses:    filter.Statuses,
		Priorities:  filter.Priorities,
		SearchTerm:  filter.SearchTerm,
		CreatedFrom: filter.CreatedFrom,
		CreatedTo:   filter.CreatedTo,
		Limit:       filter.Limit,
		Offset:      filter.Offset,
	}
}

func (s *ComplaintService) getComplaint(ctx context.Context, id string) (*domain.Complaint, error) {
	complaint, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("complaint", map[string]any{"complaint_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return complaint, nil
}

func (s *ComplaintService) slaDeadline(ctx context.Context, priority domain.ComplaintPriority, from time.Time) *time.Time {
	if s.sla == nil {
		return nil
	}
	policy, err := s.sla.GetActiveByPriority(ctx, priority)
	if err != nil {
		return nil
	}
	deadline := policy.DeadlineFrom(from)
	return &deadline
}

func (s *ComplaintService) recordStatusChange(ctx context.Context, actor *domain.User, complaintID string, oldStatus, newStatus domain.ComplaintStatus) {
	s.recordChange(ctx, actor, complaintID, domain.ChangeTypeStatus,
		map[string]any{"status": oldStatus},
		map[string]any{"status": newStatus})
}

func (s *ComplaintService) recordChange(ctx context.Context, actor *domain.User, complaintID string, changeType domain.ComplaintChangeType, oldValue, newValue map[string]any) {
	if s.history == nil {
		return
	}
	entry := &domain.ComplaintHistory{
		ComplaintID: complaintID,
		ChangeType:  changeType,
		OldValue:    oldValue,
		NewValue:    newValue,
	}
	if actor != nil {
		entry.ActorID = &actor.ID
		entry.ActorRole = &actor.Role
	}
	_ = s.history.Create(ctx, entry)
}

func (s *ComplaintService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func userActor(user *domain.User) events.Actor {
	if user == nil {
		return events.Actor{}
	}
	return events.Actor{Role: &user.Role, UserID: &user.ID}
}

func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
