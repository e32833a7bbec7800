package advance

import (
	"context"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/access"
)

type SalaryAdvanceRepository interface {
	Create(ctx context.Context, r Request) (Request, error)
	GetByID(ctx context.Context, id string) (Request, error)
	List(ctx context.Context, scope access.Scope, filter AdvanceFilter) ([]Request, int64, error)
	// Review fails with approval.ErrAlreadyProcessed if the row is no longer pending.
	Review(ctx context.Context, review Review) error
	Delete(ctx context.Context, id string) error
	Statistics(ctx context.Context, scope access.Scope) (Statistics, error)
}
