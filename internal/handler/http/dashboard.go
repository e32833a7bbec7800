package http

import (
	"net/http"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/dashboard"
	"github.com/cmlabs-hris/hr-admin-backend/internal/handler/http/response"
)

type DashboardHandler interface {
	// Statistics returns counters scoped to the caller's role
	Statistics(w http.ResponseWriter, r *http.Request)
	// PendingApprovals returns the newest requests awaiting review
	PendingApprovals(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
}

func NewDashboardHandler(dashboardService dashboard.DashboardService) DashboardHandler {
	return &dashboardHandlerImpl{dashboardService: dashboardService}
}

// Statistics handles GET /dashboard/statistics
func (h *dashboardHandlerImpl) Statistics(w http.ResponseWriter, r *http.Request) {
	v, ok := viewer(w, r)
	if !ok {
		return
	}

	result, err := h.dashboardService.Statistics(r.Context(), v)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// PendingApprovals handles GET /dashboard/pending-approvals?limit=
func (h *dashboardHandlerImpl) PendingApprovals(w http.ResponseWriter, r *http.Request) {
	v, ok := viewer(w, r)
	if !ok {
		return
	}

	limit := queryInt(r, "limit")
	if limit == 0 {
		limit = dashboard.DefaultPendingLimit
	}

	result, err := h.dashboardService.PendingApprovals(r.Context(), v, limit)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
