package dashboard

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/access"
)

// EmployeeSummary combines all employee counts in a single query
type EmployeeSummary struct {
	Total       int64
	Active      int64
	Deactivated int64
	New         int64 // hired on or after the since date
}

// AttendanceStats counts a day's check-ins and the distinct employees behind them
type AttendanceStats struct {
	CheckIns  int64
	CheckOuts int64
	Present   int64
}

type DashboardRepository interface {
	// EmployeeSummary counts users visible within scope
	EmployeeSummary(ctx context.Context, scope access.Scope, since time.Time) (EmployeeSummary, error)

	// AttendanceBetween counts events visible within scope with from <= timestamp < to
	AttendanceBetween(ctx context.Context, scope access.Scope, from, to time.Time) (AttendanceStats, error)
}
