package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/events"
	"github.com/spec-kit/complaint-service/internal/repository"
)

// In-memory fakes mirroring the conditional-write semantics of the Postgres
// repositories: a status write that misses its expected current status comes
// back as pgx.ErrNoRows, exactly like RowsAffected()==0 does.

type fakeComplaintRepo struct {
	mu         sync.Mutex
	seq        int
	complaints map[string]*domain.Complaint
}

func newFakeComplaintRepo() *fakeComplaintRepo {
	return &fakeComplaintRepo{complaints: make(map[string]*domain.Complaint)}
}

func (r *fakeComplaintRepo) Create(ctx context.Context, complaint *domain.Complaint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	complaint.ID = fmt.Sprintf("complaint-%d", r.seq)
	complaint.CreatedAt = time.Now()
	complaint.UpdatedAt = complaint.CreatedAt
	stored := *complaint
	r.complaints[complaint.ID] = &stored
	return nil
}

func (r *fakeComplaintRepo) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.complaints[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *stored
	return &copied, nil
}

func (r *fakeComplaintRepo) ListWithFilter(ctx context.Context, filter repository.ComplaintFilter) ([]domain.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Complaint
	for _, stored := range r.complaints {
		if filter.StudentID != nil && stored.StudentID != *filter.StudentID {
			continue
		}
		if filter.AssignedStaffID != nil {
			if stored.AssignedStaffID == nil || *stored.AssignedStaffID != *filter.AssignedStaffID {
				continue
			}
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, stored.Status) {
			continue
		}
		result = append(result, *stored)
	}
	return result, nil
}

func (r *fakeComplaintRepo) UpdateStatus(ctx context.Context, id string, update repository.StatusUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.complaints[id]
	if !ok || stored.Status != update.From {
		return pgx.ErrNoRows
	}
	stored.Status = update.To
	if update.Solution != nil {
		stored.Solution = update.Solution
	}
	stored.ResolvedAt = update.ResolvedAt
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *fakeComplaintRepo) Assign(ctx context.Context, id, staffID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.complaints[id]
	if !ok || stored.Status != domain.ComplaintStatusSubmitted || stored.AssignedStaffID != nil {
		return pgx.ErrNoRows
	}
	stored.AssignedStaffID = &staffID
	stored.Status = domain.ComplaintStatusAssigned
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *fakeComplaintRepo) UpdatePriority(ctx context.Context, id string, priority domain.ComplaintPriority, slaDeadline *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.complaints[id]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.Priority = priority
	if slaDeadline != nil {
		stored.SLADeadline = slaDeadline
	}
	return nil
}

func (r *fakeComplaintRepo) MarkSLABreaches(ctx context.Context, now time.Time) ([]domain.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var breached []domain.Complaint
	for _, stored := range r.complaints {
		if stored.SLABreached || stored.SLADeadline == nil || domain.IsTerminal(stored.Status) {
			continue
		}
		if stored.SLADeadline.Before(now) {
			stored.SLABreached = true
			breached = append(breached, *stored)
		}
	}
	return breached, nil
}

func (r *fakeComplaintRepo) CountByStatus(ctx context.Context) (map[domain.ComplaintStatus]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make(map[domain.ComplaintStatus]int64)
	for _, stored := range r.complaints {
		result[stored.Status]++
	}
	return result, nil
}

func (r *fakeComplaintRepo) CountByPriority(ctx context.Context) (map[domain.ComplaintPriority]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make(map[domain.ComplaintPriority]int64)
	for _, stored := range r.complaints {
		result[stored.Priority]++
	}
	return result, nil
}

func (r *fakeComplaintRepo) CountBreached(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, stored := range r.complaints {
		if stored.SLABreached {
			count++
		}
	}
	return count, nil
}

func containsStatus(statuses []domain.ComplaintStatus, status domain.ComplaintStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

type fakeUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (r *fakeUserRepo) add(user domain.User) *domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == "" {
		r.seq++
		user.ID = fmt.Sprintf("user-%d", r.seq)
	}
	stored := user
	r.users[user.ID] = &stored
	copied := stored
	return &copied
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	user.ID = fmt.Sprintf("user-%d", r.seq)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[user.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	role := stored.Role
	*stored = *user
	stored.Role = role
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *stored
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, stored := range r.users {
		if stored.Email == email {
			copied := *stored
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) List(ctx context.Context, filter repository.UserFilter) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.User
	for _, stored := range r.users {
		if filter.Role != nil && stored.Role != *filter.Role {
			continue
		}
		if filter.Active != nil && stored.Active != *filter.Active {
			continue
		}
		result = append(result, *stored)
	}
	return result, nil
}

func (r *fakeUserRepo) CountByRole(ctx context.Context, role domain.Role) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, stored := range r.users {
		if stored.Role == role && stored.Active {
			count++
		}
	}
	return count, nil
}

type fakeCategoryRepo struct {
	mu         sync.Mutex
	seq        int
	categories map[string]*domain.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: make(map[string]*domain.Category)}
}

func (r *fakeCategoryRepo) Create(ctx context.Context, category *domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	category.ID = fmt.Sprintf("category-%d", r.seq)
	category.CreatedAt = time.Now()
	category.UpdatedAt = category.CreatedAt
	stored := *category
	r.categories[category.ID] = &stored
	return nil
}

func (r *fakeCategoryRepo) Update(ctx context.Context, category *domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.categories[category.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	*stored = *category
	return nil
}

func (r *fakeCategoryRepo) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.categories[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *stored
	return &copied, nil
}

func (r *fakeCategoryRepo) List(ctx context.Context, includeInactive bool) ([]domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Category
	for _, stored := range r.categories {
		if !includeInactive && !stored.IsActive {
			continue
		}
		result = append(result, *stored)
	}
	return result, nil
}

type fakeCommentRepo struct {
	mu       sync.Mutex
	seq      int
	comments []domain.ComplaintComment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{}
}

func (r *fakeCommentRepo) Create(ctx context.Context, comment *domain.ComplaintComment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	comment.ID = fmt.Sprintf("comment-%d", r.seq)
	comment.CreatedAt = time.Now()
	r.comments = append(r.comments, *comment)
	return nil
}

func (r *fakeCommentRepo) ListByComplaint(ctx context.Context, complaintID string, includeInternal bool) ([]domain.ComplaintComment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.ComplaintComment
	for _, comment := range r.comments {
		if comment.ComplaintID != complaintID {
			continue
		}
		if comment.Internal && !includeInternal {
			continue
		}
		result = append(result, comment)
	}
	return result, nil
}

type fakeHistoryRepo struct {
	mu      sync.Mutex
	seq     int
	entries []domain.ComplaintHistory
}

func newFakeHistoryRepo() *fakeHistoryRepo {
	return &fakeHistoryRepo{}
}

func (r *fakeHistoryRepo) Create(ctx context.Context, history *domain.ComplaintHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	history.ID = fmt.Sprintf("history-%d", r.seq)
	history.CreatedAt = time.Now()
	r.entries = append(r.entries, *history)
	return nil
}

func (r *fakeHistoryRepo) ListByComplaint(ctx context.Context, complaintID string, limit, offset int) ([]domain.ComplaintHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.ComplaintHistory
	for _, entry := range r.entries {
		if entry.ComplaintID == complaintID {
			result = append(result, entry)
		}
	}
	return result, nil
}

type fakeSLARepo struct {
	policies map[domain.ComplaintPriority]*domain.SLAPolicy
}

func newFakeSLARepo() *fakeSLARepo {
	return &fakeSLARepo{policies: map[domain.ComplaintPriority]*domain.SLAPolicy{
		domain.ComplaintPriorityLow:    {ID: "sla-low", Name: "Low", Priority: domain.ComplaintPriorityLow, ResolutionTimeHours: 168, IsActive: true},
		domain.ComplaintPriorityMedium: {ID: "sla-medium", Name: "Medium", Priority: domain.ComplaintPriorityMedium, ResolutionTimeHours: 72, IsActive: true},
		domain.ComplaintPriorityHigh:   {ID: "sla-high", Name: "High", Priority: domain.ComplaintPriorityHigh, ResolutionTimeHours: 24, IsActive: true},
		domain.ComplaintPriorityUrgent: {ID: "sla-urgent", Name: "Urgent", Priority: domain.ComplaintPriorityUrgent, ResolutionTimeHours: 4, IsActive: true},
	}}
}

func (r *fakeSLARepo) GetActiveByPriority(ctx context.Context, priority domain.ComplaintPriority) (*domain.SLAPolicy, error) {
	policy, ok := r.policies[priority]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *policy
	return &copied, nil
}

func (r *fakeSLARepo) List(ctx context.Context) ([]domain.SLAPolicy, error) {
	var result []domain.SLAPolicy
	for _, policy := range r.policies {
		result = append(result, *policy)
	}
	return result, nil
}

type fakePasswordResetRepo struct {
	mu     sync.Mutex
	seq    int
	tokens map[string]*repository.PasswordResetToken
}

func newFakePasswordResetRepo() *fakePasswordResetRepo {
	return &fakePasswordResetRepo{tokens: make(map[string]*repository.PasswordResetToken)}
}

func (r *fakePasswordResetRepo) Create(ctx context.Context, token *repository.PasswordResetToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	token.ID = fmt.Sprintf("reset-%d", r.seq)
	token.CreatedAt = time.Now()
	stored := *token
	r.tokens[token.Token] = &stored
	return nil
}

func (r *fakePasswordResetRepo) GetByToken(ctx context.Context, tokenStr string) (*repository.PasswordResetToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.tokens[tokenStr]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *stored
	return &copied, nil
}

func (r *fakePasswordResetRepo) MarkUsed(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for _, stored := range r.tokens {
		if stored.ID == id {
			stored.UsedAt = &now
		}
	}
	return nil
}

type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(ctx context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(eventType events.EventType, handler events.EventHandler) {}

func (d *recordingDispatcher) byType(eventType events.EventType) []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	var result []events.Event
	for _, event := range d.events {
		if event.Type == eventType {
			result = append(result, event)
		}
	}
	return result
}
