package user

import (
	"context"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/access"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByEmployeeID(ctx context.Context, employeeID string) (User, error)
	GetByBiometricID(ctx context.Context, biometricID int) (User, error)
	List(ctx context.Context, scope access.Scope, filter UserFilter) ([]User, int64, error)
	ListActiveIDs(ctx context.Context, role *access.Role) ([]string, error)
	Create(ctx context.Context, newUser User) (User, error)
	Update(ctx context.Context, req UpdateUserRequest) error
	UpdateStatus(ctx context.Context, id string, status Status) error
	UpdateLeaveBalance(ctx context.Context, id string, balance LeaveBalance) error
	UpdateVacationBalance(ctx context.Context, id string, balance VacationBalance) error
	MaxEmployeeSequence(ctx context.Context) (int, error)
}
