package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// SLARepository reads resolution-window policies.
type SLARepository interface {
	GetActiveByPriority(ctx context.Context, priority domain.ComplaintPriority) (*domain.SLAPolicy, error)
	List(ctx context.Context) ([]domain.SLAPolicy, error)
}

type slaRepository struct {
	pool *pgxpool.Pool
}

// NewSLARepository builds the repository.
func NewSLARepository(pool *pgxpool.Pool) SLARepository {
	return &slaRepository{pool: pool}
}

func (r *slaRepository) GetActiveByPriority(ctx context.Context, priority domain.ComplaintPriority) (*domain.SLAPolicy, error) {
	const query = `
        SELECT id, name, priority, resolution_time_hours, is_active, created_at, updated_at
        FROM sla_policies WHERE priority=$1 AND is_active=TRUE`
	var policy domain.SLAPolicy
	if err := r.pool.QueryRow(ctx, query, priority).Scan(
		&policy.ID,
		&policy.Name,
		&policy.Priority,
		&policy.ResolutionTimeHours,
		&policy.IsActive,
		&policy.CreatedAt,
		&policy.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &policy, nil
}

func (r *slaRepository) List(ctx context.Context) ([]domain.SLAPolicy, error) {
	const query = `
        SELECT id, name, priority, resolution_time_hours, is_active, created_at, updated_at
        FROM sla_policies ORDER BY priority`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.SLAPolicy
	for rows.Next() {
		var policy domain.SLAPolicy
		if err := rows.Scan(
			&policy.ID,
			&policy.Name,
			&policy.Priority,
			&policy.ResolutionTimeHours,
			&policy.IsActive,
			&policy.CreatedAt,
			&policy.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, policy)
	}
	return result, rows.Err()
}
