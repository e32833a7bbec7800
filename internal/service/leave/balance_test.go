package leave

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/access"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/approval"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/leave"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/settings"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/user"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var balanceToday = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

func newTestBalanceService(users *memoryUsers, requests *memoryRequests) *BalanceServiceImpl {
	s := NewBalanceService(users, requests, staticSettings{settings.Defaults()}, nil, 2).(*BalanceServiceImpl)
	s.now = func() time.Time { return balanceToday }
	return s
}

func balanceFixtures() (*memoryUsers, *memoryRequests) {
	companyID := companyA
	users := newMemoryUsers(
		user.User{ID: "u1", EmployeeID: "EMP0001", CompanyID: &companyID, HireDate: datePtr("2023-01-15"), Status: user.StatusActive},
		user.User{ID: "u2", EmployeeID: "EMP0002", CompanyID: &companyID, Status: user.StatusActive},
		user.User{ID: "u3", EmployeeID: "EMP0003", CompanyID: &companyID, HireDate: datePtr("2024-01-01"), Status: user.StatusDeactivated},
	)
	requests := newMemoryRequests(
		leave.Request{ID: "l1", UserID: "u1", CompanyID: companyA, Type: leave.TypeAnnual, Days: decimal.NewFromInt(3), Status: approval.StatusApproved},
		leave.Request{ID: "l2", UserID: "u1", CompanyID: companyA, Type: leave.TypeAnnual, Days: decimal.NewFromInt(2), Status: approval.StatusApproved},
		leave.Request{ID: "l3", UserID: "u1", CompanyID: companyA, Type: leave.TypeAnnual, Days: decimal.NewFromInt(4), Status: approval.StatusPending},
		leave.Request{ID: "l4", UserID: "u1", CompanyID: companyA, Type: leave.TypeSick, Days: decimal.NewFromInt(1), Status: approval.StatusApproved},
	)
	return users, requests
}

func TestBalanceService_Recompute(t *testing.T) {
	users, requests := balanceFixtures()
	s := newTestBalanceService(users, requests)

	acc, err := s.Recompute(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, 14, acc.MonthsOfService)
	assert.Equal(t, 11, acc.MonthsAfterProbation)
	assert.True(t, decimal.RequireFromString("27.5").Equal(acc.Earned))
	assert.True(t, decimal.NewFromInt(5).Equal(acc.Used), "only approved annual leave counts")
	assert.True(t, decimal.RequireFromString("22.5").Equal(acc.Balance))

	stored := users.get("u1").Vacation
	require.NotNil(t, stored.CalculatedAt)
	assert.Equal(t, balanceToday, *stored.CalculatedAt)
	assert.True(t, acc.Balance.Equal(stored.Balance))
	assert.True(t, stored.Earned.Sub(stored.Used).Equal(stored.Balance))
}

func TestBalanceService_RecomputeWithoutHireDate(t *testing.T) {
	users, requests := balanceFixtures()
	s := newTestBalanceService(users, requests)

	acc, err := s.Recompute(context.Background(), "u2")
	require.NoError(t, err)
	assert.True(t, acc.Earned.IsZero())
	assert.True(t, acc.Balance.IsZero())
	assert.NotNil(t, users.get("u2").Vacation.CalculatedAt)
}

func TestBalanceService_RecomputeUnknownUser(t *testing.T) {
	users, requests := balanceFixtures()
	s := newTestBalanceService(users, requests)

	_, err := s.Recompute(context.Background(), "missing")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestBalanceService_BalanceComputesLazily(t *testing.T) {
	users, requests := balanceFixtures()
	s := newTestBalanceService(users, requests)

	resp, err := s.Balance(context.Background(), employeeViewer, "u1")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("22.5").Equal(resp.Balance))
	assert.Equal(t, 14, resp.MonthsOfService)
	assert.Equal(t, 11, resp.MonthsAfterProbation)
	assert.True(t, resp.HasHireDate)
	assert.Equal(t, 3, resp.ProbationMonths)
	require.NotNil(t, resp.CalculatedAt)
	assert.NotNil(t, users.get("u1").Vacation.CalculatedAt)
}

func TestBalanceService_BalanceUsesCache(t *testing.T) {
	users, requests := balanceFixtures()
	calculated := balanceToday.AddDate(0, 0, -1)
	u := users.get("u1")
	u.Vacation = user.VacationBalance{
		Earned:       decimal.NewFromInt(10),
		Used:         decimal.NewFromInt(1),
		Balance:      decimal.NewFromInt(9),
		CalculatedAt: &calculated,
	}
	users.users["u1"] = u
	s := newTestBalanceService(users, requests)

	resp, err := s.Balance(context.Background(), employeeViewer, "u1")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(9).Equal(resp.Balance))
	assert.Equal(t, calculated, *resp.CalculatedAt)
}

func TestBalanceService_BalanceAuthorization(t *testing.T) {
	users, requests := balanceFixtures()
	s := newTestBalanceService(users, requests)
	ctx := context.Background()

	_, err := s.Balance(ctx, otherEmployee, "u1")
	assert.ErrorIs(t, err, access.ErrUnauthorized)

	_, err = s.Balance(ctx, foreignViewer, "u1")
	assert.ErrorIs(t, err, access.ErrUnauthorized)

	_, err = s.Balance(ctx, supervisorViewer, "u1")
	assert.NoError(t, err)

	_, err = s.Balance(ctx, adminViewer, "u1")
	assert.NoError(t, err)
}

func TestBalanceService_RecalculateFor(t *testing.T) {
	users, requests := balanceFixtures()
	s := newTestBalanceService(users, requests)
	ctx := context.Background()

	_, err := s.RecalculateFor(ctx, employeeViewer, "u1")
	assert.ErrorIs(t, err, access.ErrUnauthorized)

	resp, err := s.RecalculateFor(ctx, supervisorViewer, "u1")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("22.5").Equal(resp.Balance))
}

func TestBalanceService_RecalculateAll(t *testing.T) {
	users, requests := balanceFixtures()
	users.fail["broken"] = true
	s := newTestBalanceService(users, requests)

	resp, err := s.RecalculateAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Processed)
	assert.Equal(t, 1, resp.Failed)

	assert.NotNil(t, users.get("u1").Vacation.CalculatedAt)
	assert.NotNil(t, users.get("u2").Vacation.CalculatedAt)
	assert.Nil(t, users.get("u3").Vacation.CalculatedAt, "deactivated users are skipped")
}

func TestBalanceService_RecomputeIsIdempotent(t *testing.T) {
	users, requests := balanceFixtures()
	s := newTestBalanceService(users, requests)
	ctx := context.Background()

	first, err := s.Recompute(ctx, "u1")
	require.NoError(t, err)
	second, err := s.Recompute(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, first.MonthsAfterProbation, second.MonthsAfterProbation)
	assert.True(t, first.Balance.Equal(second.Balance))
	assert.True(t, first.Used.Equal(second.Used))
}

func vacationOverviewFixtures() *memoryUsers {
	a, b := companyA, companyB
	return newMemoryUsers(
		user.User{ID: "u1", FirstName: "Dewi", Email: "dewi@example.com", Position: "Engineer", Role: access.RoleEmployee, CompanyID: &a, HireDate: datePtr("2023-01-15"), Status: user.StatusActive},
		user.User{ID: "u2", FirstName: "Budi", Role: access.RoleEmployee, CompanyID: &a, Status: user.StatusActive},
		user.User{ID: "u4", FirstName: "Sari", Role: access.RoleEmployee, CompanyID: &b, HireDate: datePtr("2022-01-01"), Status: user.StatusActive},
		user.User{ID: "s1", FirstName: "Rina", Role: access.RoleSupervisor, CompanyID: &a, HireDate: datePtr("2020-01-01"), Status: user.StatusActive},
	)
}

func TestBalanceService_ListBalances(t *testing.T) {
	users := vacationOverviewFixtures()
	_, requests := balanceFixtures()
	s := newTestBalanceService(users, requests)
	ctx := context.Background()

	t.Run("supervisor sees employees of own company", func(t *testing.T) {
		rows, err := s.ListBalances(ctx, supervisorViewer)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "u1", rows[0].ID)
		assert.Equal(t, "Engineer", rows[0].Position)
		require.NotNil(t, rows[0].HireDate)
		assert.Equal(t, "2023-01-15", *rows[0].HireDate)
		assert.True(t, decimal.RequireFromString("22.5").Equal(rows[0].Balance))
		assert.True(t, decimal.NewFromInt(5).Equal(rows[0].Used))
		assert.Equal(t, "u2", rows[1].ID)
		assert.Nil(t, rows[1].HireDate)
		assert.True(t, rows[1].Balance.IsZero())
	})

	t.Run("admin sees employees of every company", func(t *testing.T) {
		rows, err := s.ListBalances(ctx, adminViewer)
		require.NoError(t, err)
		ids := make([]string, 0, len(rows))
		for _, r := range rows {
			ids = append(ids, r.ID)
		}
		assert.Equal(t, []string{"u1", "u2", "u4"}, ids)
	})

	t.Run("employee is rejected", func(t *testing.T) {
		_, err := s.ListBalances(ctx, employeeViewer)
		assert.ErrorIs(t, err, access.ErrUnauthorized)
	})

	assert.NotNil(t, users.get("u1").Vacation.CalculatedAt, "missing balances are stored while listing")
}

func TestBalanceService_RecalculateVisible(t *testing.T) {
	ctx := context.Background()

	t.Run("supervisor stays inside own company", func(t *testing.T) {
		users := vacationOverviewFixtures()
		_, requests := balanceFixtures()
		s := newTestBalanceService(users, requests)

		resp, err := s.RecalculateVisible(ctx, supervisorViewer)
		require.NoError(t, err)
		assert.Equal(t, 3, resp.Processed)
		assert.NotNil(t, users.get("u1").Vacation.CalculatedAt)
		assert.NotNil(t, users.get("s1").Vacation.CalculatedAt)
		assert.Nil(t, users.get("u4").Vacation.CalculatedAt)
	})

	t.Run("admin recalculates everyone", func(t *testing.T) {
		users := vacationOverviewFixtures()
		_, requests := balanceFixtures()
		s := newTestBalanceService(users, requests)

		resp, err := s.RecalculateVisible(ctx, adminViewer)
		require.NoError(t, err)
		assert.Equal(t, 4, resp.Processed)
		assert.NotNil(t, users.get("u4").Vacation.CalculatedAt)
	})

	t.Run("employee is rejected", func(t *testing.T) {
		s := newTestBalanceService(vacationOverviewFixtures(), newMemoryRequests())
		_, err := s.RecalculateVisible(ctx, employeeViewer)
		assert.ErrorIs(t, err, access.ErrUnauthorized)
	})
}
