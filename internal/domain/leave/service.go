package leave

import (
	"context"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/access"
)

type LeaveService interface {
	Create(ctx context.Context, viewer access.Viewer, req CreateLeaveRequest) (CreateLeaveResponse, error)
	Get(ctx context.Context, viewer access.Viewer, id string) (LeaveResponse, error)
	List(ctx context.Context, viewer access.Viewer, filter LeaveFilter) (ListLeaveResponse, error)
	Approve(ctx context.Context, viewer access.Viewer, req ReviewLeaveRequest) (LeaveResponse, error)
	Reject(ctx context.Context, viewer access.Viewer, req ReviewLeaveRequest) (LeaveResponse, error)
	Delete(ctx context.Context, viewer access.Viewer, id string) error
	Statistics(ctx context.Context, viewer access.Viewer) (StatisticsResponse, error)
}

// BalanceService owns the cached vacation balance. Every write path goes
// through Recompute so lazy and eager updates produce identical results.
type BalanceService interface {
	// Recompute derives the balance from hire date, settings and approved
	// annual leave, and stores it on the user
	Recompute(ctx context.Context, userID string) (Accrual, error)

	// Balance returns the cached balance, computing it first if never calculated
	Balance(ctx context.Context, viewer access.Viewer, userID string) (BalanceResponse, error)

	// RecalculateFor recomputes one user's balance on behalf of viewer
	RecalculateFor(ctx context.Context, viewer access.Viewer, userID string) (BalanceResponse, error)

	// RecalculateAll recomputes every active user's balance
	RecalculateAll(ctx context.Context) (RecalculateAllResponse, error)

	// RecalculateVisible recomputes the active users inside viewer's scope
	RecalculateVisible(ctx context.Context, viewer access.Viewer) (RecalculateAllResponse, error)

	// ListBalances lists the cached balances of the employees viewer oversees
	ListBalances(ctx context.Context, viewer access.Viewer) ([]EmployeeVacationResponse, error)
}
