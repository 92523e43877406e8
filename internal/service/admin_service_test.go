package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/complaint-service/internal/config"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/repository"
)

func newAdminFixture(t *testing.T) (*AdminService, *fakeUserRepo, *domain.User) {
	t.Helper()
	users := newFakeUserRepo()
	admin := users.add(domain.User{ID: "admin-1", Name: "Ada Admin", Email: "ada@example.com", Role: domain.RoleAdmin, Active: true})
	cfg := config.Config{Auth: config.AuthConfig{BcryptCost: 4}}
	svc := NewAdminService(cfg, AdminDependencies{
		UserRepo:     users,
		CategoryRepo: newFakeCategoryRepo(),
	})
	return svc, users, admin
}

func TestCreateAccount(t *testing.T) {
	svc, _, admin := newAdminFixture(t)
	ctx := context.Background()

	staff, err := svc.CreateAccount(ctx, admin, CreateAccountInput{
		Name:     "Tara Staff",
		Email:    "tara@example.com",
		Password: "pw",
		Role:     domain.RoleStaff,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleStaff, staff.Role)
	assert.True(t, staff.Active)

	_, err = svc.CreateAccount(ctx, staff, CreateAccountInput{Name: "X", Email: "x@example.com", Password: "pw", Role: domain.RoleStaff})
	assert.Equal(t, "ACCESS_DENIED", errCode(t, err))

	_, err = svc.CreateAccount(ctx, admin, CreateAccountInput{Name: "X", Email: "x@example.com", Password: "pw", Role: domain.Role("ROOT")})
	assert.Equal(t, "VALIDATION_FAILED", errCode(t, err))

	_, err = svc.CreateAccount(ctx, admin, CreateAccountInput{Name: "Y", Email: "tara@example.com", Password: "pw", Role: domain.RoleStaff})
	assert.Equal(t, "CONFLICT", errCode(t, err))
}

func TestSetAccountActive(t *testing.T) {
	svc, users, admin := newAdminFixture(t)
	ctx := context.Background()

	staff := users.add(domain.User{ID: "staff-1", Name: "Tara", Email: "tara@example.com", Role: domain.RoleStaff, Active: true})

	deactivated, err := svc.SetAccountActive(ctx, admin, staff.ID, false)
	require.NoError(t, err)
	assert.False(t, deactivated.Active)

	reactivated, err := svc.SetAccountActive(ctx, admin, staff.ID, true)
	require.NoError(t, err)
	assert.True(t, reactivated.Active)

	_, err = svc.SetAccountActive(ctx, admin, admin.ID, false)
	assert.Equal(t, "CONFLICT", errCode(t, err))

	_, err = svc.SetAccountActive(ctx, admin, "missing", false)
	assert.Equal(t, "NOT_FOUND", errCode(t, err))
}

func TestRoleNeverChanges(t *testing.T) {
	_, users, _ := newAdminFixture(t)
	ctx := context.Background()

	staff := users.add(domain.User{ID: "staff-1", Name: "Tara", Email: "tara@example.com", Role: domain.RoleStaff, Active: true})

	// Even a repository-level update carrying a different role leaves the
	// stored role untouched.
	tampered := *staff
	tampered.Role = domain.RoleAdmin
	require.NoError(t, users.Update(ctx, &tampered))

	stored, err := users.GetByID(ctx, staff.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleStaff, stored.Role)
}

func TestCategoryManagement(t *testing.T) {
	svc, users, admin := newAdminFixture(t)
	ctx := context.Background()

	staff := users.add(domain.User{ID: "staff-1", Name: "Tara", Email: "tara@example.com", Role: domain.RoleStaff, Active: true})

	_, err := svc.CreateCategory(ctx, staff, "Housing", "")
	assert.Equal(t, "ACCESS_DENIED", errCode(t, err))

	category, err := svc.CreateCategory(ctx, admin, "Housing", "Dorms and facilities")
	require.NoError(t, err)
	assert.True(t, category.IsActive)

	category.IsActive = false
	updated, err := svc.UpdateCategory(ctx, admin, category)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	active, err := svc.ListCategories(ctx, admin, false)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := svc.ListCategories(ctx, admin, true)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = svc.GetCategory(ctx, admin, "missing")
	assert.Equal(t, "NOT_FOUND", errCode(t, err))
}

func TestListAccounts(t *testing.T) {
	svc, users, admin := newAdminFixture(t)
	ctx := context.Background()

	users.add(domain.User{ID: "staff-1", Name: "T", Email: "t@example.com", Role: domain.RoleStaff, Active: true})
	users.add(domain.User{ID: "student-1", Name: "S", Email: "s@example.com", Role: domain.RoleStudent, Active: true})

	staffRole := domain.RoleStaff
	staffOnly, err := svc.ListAccounts(ctx, admin, repository.UserFilter{Role: &staffRole})
	require.NoError(t, err)
	assert.Len(t, staffOnly, 1)

	everyone, err := svc.ListAccounts(ctx, admin, repository.UserFilter{})
	require.NoError(t, err)
	assert.Len(t, everyone, 3)
}
