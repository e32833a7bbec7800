package user

import (
	"context"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/access"
)

type UserService interface {
	Create(ctx context.Context, viewer access.Viewer, req CreateUserRequest) (UserResponse, error)
	Get(ctx context.Context, viewer access.Viewer, id string) (UserResponse, error)
	List(ctx context.Context, viewer access.Viewer, filter UserFilter) (ListUserResponse, error)
	Update(ctx context.Context, viewer access.Viewer, req UpdateUserRequest) (UserResponse, error)
	Deactivate(ctx context.Context, viewer access.Viewer, id string) error
	Activate(ctx context.Context, viewer access.Viewer, id string) error

	// Terminal operations are authenticated by device key, not by a viewer.
	NextEmployeeID(ctx context.Context) (string, error)
	CreateFromTerminal(ctx context.Context, req TerminalCreateUserRequest) (UserResponse, error)
	GetByEmployeeID(ctx context.Context, employeeID string) (UserResponse, error)
	ListActive(ctx context.Context) ([]UserResponse, error)
}
