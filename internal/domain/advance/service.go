package advance

import (
	"context"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/access"
)

type SalaryAdvanceService interface {
	Create(ctx context.Context, viewer access.Viewer, req CreateAdvanceRequest) (AdvanceResponse, error)
	Get(ctx context.Context, viewer access.Viewer, id string) (AdvanceResponse, error)
	List(ctx context.Context, viewer access.Viewer, filter AdvanceFilter) (ListAdvanceResponse, error)
	Approve(ctx context.Context, viewer access.Viewer, req ReviewAdvanceRequest) (AdvanceResponse, error)
	Reject(ctx context.Context, viewer access.Viewer, req ReviewAdvanceRequest) (AdvanceResponse, error)
	Delete(ctx context.Context, viewer access.Viewer, id string) error
	Statistics(ctx context.Context, viewer access.Viewer) (StatisticsResponse, error)
}
