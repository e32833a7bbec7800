package dashboard

import (
	"context"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/access"
)

type DashboardService interface {
	// Statistics returns counters scoped by the viewer's role: own records for
	// employees, the company for supervisors, everything for admins.
	Statistics(ctx context.Context, viewer access.Viewer) (StatisticsResponse, error)

	// PendingApprovals lists the newest pending leave and salary advance requests
	// the viewer may review.
	PendingApprovals(ctx context.Context, viewer access.Viewer, limit int) (PendingApprovalsResponse, error)
}
