package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// ComplaintFilter captures search parameters.
type ComplaintFilter struct {
	StudentID       *string
	AssignedStaffID *string
	CategoryID      *string
	Statuses        []domain.ComplaintStatus
	Priorities      []domain.ComplaintPriority
	SearchTerm      *string
	BreachedOnly    bool
	Unassigned      bool
	CreatedFrom     *time.Time
	CreatedTo       *time.Time
	Limit           int
	Offset          int
}

// StatusUpdate describes a conditional status write. The update applies only
// when the stored status still equals From, so a concurrent transition
// surfaces as pgx.ErrNoRows instead of a lost update.
type StatusUpdate struct {
	From       domain.ComplaintStatus
	To         domain.ComplaintStatus
	Solution   *string
	ResolvedAt *time.Time
}

// ComplaintRepository encapsulates complaint persistence. Complaints are
// never deleted; closure is modeled by terminal statuses.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *domain.Complaint) error
	GetByID(ctx context.Context, id string) (*domain.Complaint, error)
	ListWithFilter(ctx context.Context, filter ComplaintFilter) ([]domain.Complaint, error)
	UpdateStatus(ctx context.Context, id string, update StatusUpdate) error
	Assign(ctx context.Context, id, staffID string) error
	UpdatePriority(ctx context.Context, id string, priority domain.ComplaintPriority, slaDeadline *time.Time) error
	MarkSLABreaches(ctx context.Context, now time.Time) ([]domain.Complaint, error)
	CountByStatus(ctx context.Context) (map[domain.ComplaintStatus]int64, error)
	CountByPriority(ctx context.Context) (map[domain.ComplaintPriority]int64, error)
	CountBreached(ctx context.Context) (int64, error)
}

type complaintRepository struct {
	pool *pgxpool.Pool
}

// NewComplaintRepository instantiates repository.
func NewComplaintRepository(pool *pgxpool.Pool) ComplaintRepository {
	return &complaintRepository{pool: pool}
}

const complaintColumns = `id, student_id, category_id, title, description, status, priority,
               assigned_staff_id, solution, sla_deadline, sla_breached, created_at, updated_at, resolved_at`

func (r *complaintRepository) Create(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        INSERT INTO complaints (student_id, category_id, title, description, status, priority, sla_deadline)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		complaint.StudentID,
		complaint.CategoryID,
		complaint.Title,
		complaint.Description,
		complaint.Status,
		complaint.Priority,
		complaint.SLADeadline,
	).Scan(&complaint.ID, &complaint.CreatedAt, &complaint.UpdatedAt)
}

func (r *complaintRepository) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints WHERE id=$1`
	var complaint domain.Complaint
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&complaint.ID,
		&complaint.StudentID,
		&complaint.CategoryID,
		&complaint.Title,
		&complaint.Description,
		&complaint.Status,
		&complaint.Priority,
		&complaint.AssignedStaffID,
		&complaint.Solution,
		&complaint.SLADeadline,
		&complaint.SLABreached,
		&complaint.CreatedAt,
		&complaint.UpdatedAt,
		&complaint.ResolvedAt,
	); err != nil {
		return nil, err
	}
	return &complaint, nil
}

func (r *complaintRepository) ListWithFilter(ctx context.Context, filter ComplaintFilter) ([]domain.Complaint, error) {
	base := `SELECT ` + complaintColumns + ` FROM complaints`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.StudentID != nil {
		args = append(args, *filter.StudentID)
		clauses = append(clauses, fmt.Sprintf("student_id=$%d", len(args)))
	}
	if filter.AssignedStaffID != nil {
		args = append(args, *filter.AssignedStaffID)
		clauses = append(clauses, fmt.Sprintf("assigned_staff_id=$%d", len(args)))
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		clauses = append(clauses, fmt.Sprintf("category_id=$%d", len(args)))
	}
	if filter.Unassigned {
		clauses = append(clauses, "assigned_staff_id IS NULL")
	}
	if filter.BreachedOnly {
		clauses = append(clauses, "sla_breached=TRUE")
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Priorities) > 0 {
		placeholders := make([]string, len(filter.Priorities))
		for i, pr := range filter.Priorities {
			args = append(args, pr)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("priority IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(title) LIKE %s OR LOWER(description) LIKE %s)", placeholder, placeholder))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComplaints(rows)
}

func (r *complaintRepository) UpdateStatus(ctx context.Context, id string, update StatusUpdate) error {
	const query = `
        UPDATE complaints SET status=$1, solution=COALESCE($2, solution), resolved_at=$3, updated_at=NOW()
        WHERE id=$4 AND status=$5`
	cmd, err := r.pool.Exec(ctx, query,
		update.To,
		update.Solution,
		update.ResolvedAt,
		id,
		update.From,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *complaintRepository) Assign(ctx context.Context, id, staffID string) error {
	const query = `
        UPDATE complaints SET assigned_staff_id=$1, status=$2, updated_at=NOW()
        WHERE id=$3 AND status=$4 AND assigned_staff_id IS NULL`
	cmd, err := r.pool.Exec(ctx, query,
		staffID,
		domain.ComplaintStatusAssigned,
		id,
		domain.ComplaintStatusSubmitted,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *complaintRepository) UpdatePriority(ctx context.Context, id string, priority domain.ComplaintPriority, slaDeadline *time.Time) error {
	const query = `
        UPDATE complaints SET priority=$1, sla_deadline=COALESCE($2, sla_deadline), updated_at=NOW()
        WHERE id=$3`
	cmd, err := r.pool.Exec(ctx, query, priority, slaDeadline, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *complaintRepository) MarkSLABreaches(ctx context.Context, now time.Time) ([]domain.Complaint, error) {
	query := `
        UPDATE complaints SET sla_breached=TRUE, updated_at=NOW()
        WHERE sla_breached=FALSE AND sla_deadline IS NOT NULL AND sla_deadline < $1
          AND status IN ($2,$3,$4)
        RETURNING ` + complaintColumns
	rows, err := r.pool.Query(ctx, query, now,
		domain.ComplaintStatusSubmitted,
		domain.ComplaintStatusAssigned,
		domain.ComplaintStatusInProgress,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComplaints(rows)
}

func (r *complaintRepository) CountByStatus(ctx context.Context) (map[domain.ComplaintStatus]int64, error) {
	const query = `SELECT status, COUNT(*) FROM complaints GROUP BY status`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[domain.ComplaintStatus]int64)
	for rows.Next() {
		var status domain.ComplaintStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		result[status] = count
	}
	return result, rows.Err()
}

func (r *complaintRepository) CountByPriority(ctx context.Context) (map[domain.ComplaintPriority]int64, error) {
	const query = `SELECT priority, COUNT(*) FROM complaints GROUP BY priority`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[domain.ComplaintPriority]int64)
	for rows.Next() {
		var priority domain.ComplaintPriority
		var count int64
		if err := rows.Scan(&priority, &count); err != nil {
			return nil, err
		}
		result[priority] = count
	}
	return result, rows.Err()
}

func (r *complaintRepository) CountBreached(ctx context.Context) (int64, error) {
	const query = `SELECT COUNT(*) FROM complaints WHERE sla_breached=TRUE`
	var count int64
	if err := r.pool.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func scanComplaints(rows pgx.Rows) ([]domain.Complaint, error) {
	var result []domain.Complaint
	for rows.Next() {
		var complaint domain.Complaint
		if err := rows.Scan(
			&complaint.ID,
			&complaint.StudentID,
			&complaint.CategoryID,
			&complaint.Title,
			&complaint.Description,
			&complaint.Status,
			&complaint.Priority,
			&complaint.AssignedStaffID,
			&complaint.Solution,
			&complaint.SLADeadline,
			&complaint.SLABreached,
			&complaint.CreatedAt,
			&complaint.UpdatedAt,
			&complaint.ResolvedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, complaint)
	}
	return result, rows.Err()
}
