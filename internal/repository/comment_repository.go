package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// CommentRepository persists complaint comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.ComplaintComment) error
	ListByComplaint(ctx context.Context, complaintID string, includeInternal bool) ([]domain.ComplaintComment, error)
}

type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository builds the repository.
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.ComplaintComment) error {
	const query = `
        INSERT INTO complaint_comments (complaint_id, author_id, author_role, body, internal_flag)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		comment.ComplaintID,
		comment.AuthorID,
		comment.AuthorRole,
		comment.Body,
		comment.Internal,
	).Scan(&comment.ID, &comment.CreatedAt)
}

func (r *commentRepository) ListByComplaint(ctx context.Context, complaintID string, includeInternal bool) ([]domain.ComplaintComment, error) {
	query := `
        SELECT id, complaint_id, author_id, author_role, body, internal_flag, created_at
        FROM complaint_comments WHERE complaint_id=$1`
	if !includeInternal {
		query += " AND internal_flag = FALSE"
	}
	query += " ORDER BY created_at ASC"

	rows, err := r.pool.Query(ctx, query, complaintID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ComplaintComment
	for rows.Next() {
		var comment domain.ComplaintComment
		if err := rows.Scan(
			&comment.ID,
			&comment.ComplaintID,
			&comment.AuthorID,
			&comment.AuthorRole,
			&comment.Body,
			&comment.Internal,
			&comment.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, comment)
	}
	return result, rows.Err()
}
