package leave

import (
	"context"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/access"
	"github.com/shopspring/decimal"
)

type LeaveRequestRepository interface {
	Create(ctx context.Context, req Request) (Request, error)
	GetByID(ctx context.Context, id string) (Request, error)
	List(ctx context.Context, scope access.Scope, filter LeaveFilter) ([]Request, int64, error)

	// Review moves a pending request to its final status. It returns
	// approval.ErrAlreadyProcessed when the row is no longer pending.
	Review(ctx context.Context, review Review) error

	// Delete removes a pending request
	Delete(ctx context.Context, id string) error

	Statistics(ctx context.Context, scope access.Scope) (Statistics, error)

	// SumApprovedAnnualDays returns the total days of the user's approved annual leave
	SumApprovedAnnualDays(ctx context.Context, userID string) (decimal.Decimal, error)
}
