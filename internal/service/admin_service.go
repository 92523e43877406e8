package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/authz"
	"github.com/spec-kit/complaint-service/internal/config"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/repository"
	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

// AdminService manages accounts and complaint categories. Every operation
// passes the authz gate; only admins get through.
type AdminService struct {
	users      repository.UserRepository
	categories repository.CategoryRepository
	bcryptCost int
}

// AdminDependencies encapsulates repositories for account management.
type AdminDependencies struct {
	UserRepo     repository.UserRepository
	CategoryRepo repository.CategoryRepository
}

// CreateAccountInput describes an admin-created account. Role is fixed here,
// at creation; nothing updates it afterwards.
type CreateAccountInput struct {
	Name       string
	Email      string
	Password   string
	Role       domain.Role
	Department *string
	Phone      *string
}

// NewAdminService constructs the service.
func NewAdminService(cfg config.Config, deps AdminDependencies) *AdminService {
	return &AdminService{
		users:      deps.UserRepo,
		categories: deps.CategoryRepo,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// CreateAccount adds a staff or admin account.
func (s *AdminService) CreateAccount(ctx context.Context, actor *domain.User, input CreateAccountInput) (*domain.User, error) {
	if err := authz.Can(actor, authz.ActionUserManage, authz.ComplaintRef{}); err != nil {
		return nil, err
	}
	if !input.Role.Valid() {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": input.Role})
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || strings.TrimSpace(input.Name) == "" || input.Password == "" {
		return nil, apperrors.NewValidationError("name, email, password required", nil)
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", map[string]any{"email": email})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	user := &domain.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         input.Role,
		Department:   input.Department,
		Phone:        input.Phone,
		Active:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// ListAccounts returns accounts filtered by role and active flag.
func (s *AdminService) ListAccounts(ctx context.Context, actor *domain.User, filter repository.UserFilter) ([]domain.User, error) {
	if err := authz.Can(actor, authz.ActionUserManage, authz.ComplaintRef{}); err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// SetAccountActive toggles the active flag on an account. Accounts are
// deactivated, never deleted.
func (s *AdminService) SetAccountActive(ctx context.Context, actor *domain.User, userID string, active bool) (*domain.User, error) {
	if err := authz.Can(actor, authz.ActionUserManage, authz.ComplaintRef{}); err != nil {
		return nil, err
	}
	if actor.ID == userID && !active {
		return nil, apperrors.NewConflict("cannot deactivate own account", nil)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return nil, apperrors.MapError(err)
	}
	user.Active = active
	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// CreateCategory adds a complaint category.
func (s *AdminService) CreateCategory(ctx context.Context, actor *domain.User, name, description string) (*domain.Category, error) {
	if err := authz.Can(actor, authz.ActionCategoryManage, authz.ComplaintRef{}); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	category := &domain.Category{
		Name:        name,
		Description: description,
		IsActive:    true,
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, apperrors.MapError(err)
	}
	return category, nil
}

// GetCategory fetches one category regardless of its active flag.
func (s *AdminService) GetCategory(ctx context.Context, actor *domain.User, id string) (*domain.Category, error) {
	if err := authz.Can(actor, authz.ActionCategoryManage, authz.ComplaintRef{}); err != nil {
		return nil, err
	}
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("category", map[string]any{"category_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return category, nil
}

// UpdateCategory modifies category metadata or the active flag.
func (s *AdminService) UpdateCategory(ctx context.Context, actor *domain.User, category *domain.Category) (*domain.Category, error) {
	if err := authz.Can(actor, authz.ActionCategoryManage, authz.ComplaintRef{}); err != nil {
		return nil, err
	}
	if err := s.categories.Update(ctx, category); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("category", map[string]any{"category_id": category.ID})
		}
		return nil, apperrors.MapError(err)
	}
	return category, nil
}

// ListCategories returns all categories; active-only listing is public via
// the complaint endpoints.
func (s *AdminService) ListCategories(ctx context.Context, actor *domain.User, includeInactive bool) ([]domain.Category, error) {
	if err := authz.Can(actor, authz.ActionCategoryManage, authz.ComplaintRef{}); err != nil {
		return nil, err
	}
	categories, err := s.categories.List(ctx, includeInactive)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return categories, nil
}
