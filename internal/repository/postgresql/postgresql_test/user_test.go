package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/access"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/company"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/user"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/database"
	"github.com/cmlabs-hris/hr-admin-backend/internal/repository/postgresql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestCompany(t *testing.T, db *database.DB, name string) company.Company {
	t.Helper()
	c, err := postgresql.NewCompanyRepository(db).Create(context.Background(), company.Company{
		Name:            name,
		AnnualLeaveDays: company.DefaultAnnualLeaveDays,
		SickLeaveDays:   company.DefaultSickLeaveDays,
		UnpaidLeaveDays: company.DefaultUnpaidLeaveDays,
	})
	require.NoError(t, err)
	return c
}

func createTestUser(t *testing.T, db *database.DB, employeeID, email string, role access.Role, companyID *string) user.User {
	t.Helper()
	u, err := postgresql.NewUserRepository(db).Create(context.Background(), user.User{
		EmployeeID: employeeID,
		Email:      email,
		FirstName:  "Test",
		LastName:   employeeID,
		Role:       role,
		CompanyID:  companyID,
		Status:     user.StatusActive,
		LeaveBalance: user.LeaveBalance{
			Annual: decimal.NewFromInt(20),
			Sick:   decimal.NewFromInt(10),
			Unpaid: decimal.NewFromInt(5),
		},
	})
	require.NoError(t, err)
	return u
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewUserRepository(setup.DB)

	co := createTestCompany(t, setup.DB, "Acme")
	created := createTestUser(t, setup.DB, "EMP0001", "Ana@Example.com", access.RoleEmployee, &co.ID)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "ana@example.com", created.Email)
	require.NotNil(t, created.CompanyID)
	assert.Equal(t, co.ID, *created.CompanyID)
	assert.Nil(t, created.Vacation.CalculatedAt)

	byEmail, err := repo.GetByEmail(ctx, "ANA@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	byEmployee, err := repo.GetByEmployeeID(ctx, "EMP0001")
	require.NoError(t, err)
	assert.True(t, byEmployee.LeaveBalance.Sick.Equal(decimal.NewFromInt(10)))

	_, err = repo.GetByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
	_, err = repo.GetByBiometricID(ctx, 77)
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestUserRepository_UniqueViolations(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewUserRepository(setup.DB)
	createTestUser(t, setup.DB, "EMP0001", "ana@example.com", access.RoleEmployee, nil)

	_, err := repo.Create(context.Background(), user.User{
		EmployeeID: "EMP0002", Email: "ana@example.com", FirstName: "Dup", Role: access.RoleEmployee, Status: user.StatusActive,
	})
	assert.ErrorIs(t, err, user.ErrUserEmailExists)

	_, err = repo.Create(context.Background(), user.User{
		EmployeeID: "EMP0001", Email: "other@example.com", FirstName: "Dup", Role: access.RoleEmployee, Status: user.StatusActive,
	})
	assert.ErrorIs(t, err, user.ErrEmployeeIDExists)
}

func TestUserRepository_ListScoped(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewUserRepository(setup.DB)

	a := createTestCompany(t, setup.DB, "Company A")
	b := createTestCompany(t, setup.DB, "Company B")
	ana := createTestUser(t, setup.DB, "EMP0001", "ana@example.com", access.RoleEmployee, &a.ID)
	createTestUser(t, setup.DB, "EMP0002", "budi@example.com", access.RoleSupervisor, &a.ID)
	createTestUser(t, setup.DB, "EMP0003", "citra@example.com", access.RoleEmployee, &b.ID)

	users, total, err := repo.List(ctx, access.Scope{Kind: access.ScopeGlobal}, user.UserFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, users, 3)

	users, total, err = repo.List(ctx, access.Scope{Kind: access.ScopeCompany, CompanyID: a.ID}, user.UserFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, "EMP0001", users[0].EmployeeID)

	users, _, err = repo.List(ctx, access.Scope{Kind: access.ScopeOwn, Subject: ana.ID}, user.UserFilter{})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, ana.ID, users[0].ID)

	search := "budi"
	_, total, err = repo.List(ctx, access.Scope{Kind: access.ScopeGlobal}, user.UserFilter{Search: &search})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	seq, err := repo.MaxEmployeeSequence(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, seq)
}

func TestUserRepository_Balances(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewUserRepository(setup.DB)
	u := createTestUser(t, setup.DB, "EMP0001", "ana@example.com", access.RoleEmployee, nil)

	calculated := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.UpdateVacationBalance(ctx, u.ID, user.VacationBalance{
		Earned:       decimal.RequireFromString("27.5"),
		Used:         decimal.NewFromInt(5),
		Balance:      decimal.RequireFromString("22.5"),
		CalculatedAt: &calculated,
	}))
	require.NoError(t, repo.UpdateStatus(ctx, u.ID, user.StatusDeactivated))

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, got.Vacation.Balance.Equal(decimal.RequireFromString("22.5")))
	require.NotNil(t, got.Vacation.CalculatedAt)
	assert.True(t, got.Vacation.CalculatedAt.Equal(calculated))
	assert.False(t, got.IsActive())

	ids, err := repo.ListActiveIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestCompanyRepository_Delete(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewCompanyRepository(setup.DB)

	empty := createTestCompany(t, setup.DB, "Empty")
	staffed := createTestCompany(t, setup.DB, "Staffed")
	createTestUser(t, setup.DB, "EMP0001", "ana@example.com", access.RoleEmployee, &staffed.ID)

	require.NoError(t, repo.Delete(ctx, empty.ID))
	_, err := repo.GetByID(ctx, empty.ID)
	assert.ErrorIs(t, err, company.ErrCompanyNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, empty.ID), company.ErrCompanyNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, staffed.ID), company.ErrCompanyInUse)
}
