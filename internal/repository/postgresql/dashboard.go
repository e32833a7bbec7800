package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/access"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/dashboard"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/database"
)

type dashboardRepositoryImpl struct {
	db *database.DB
}

func NewDashboardRepository(db *database.DB) dashboard.DashboardRepository {
	return &dashboardRepositoryImpl{db: db}
}

// EmployeeSummary implements dashboard.DashboardRepository in a single query.
func (r *dashboardRepositoryImpl) EmployeeSummary(ctx context.Context, scope access.Scope, since time.Time) (dashboard.EmployeeSummary, error) {
	q := GetQuerier(ctx, r.db)

	c := conditions{args: []interface{}{since}}
	applyScope(&c, scope, userScopeColumns)

	var s dashboard.EmployeeSummary
	err := q.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'active'),
			COUNT(*) FILTER (WHERE status = 'deactivated'),
			COUNT(*) FILTER (WHERE hire_date >= $1::date)
		FROM users`+c.where(), c.args...).Scan(&s.Total, &s.Active, &s.Deactivated, &s.New)
	if err != nil {
		return dashboard.EmployeeSummary{}, fmt.Errorf("failed to get employee summary: %w", err)
	}
	return s, nil
}

// AttendanceBetween implements dashboard.DashboardRepository.
func (r *dashboardRepositoryImpl) AttendanceBetween(ctx context.Context, scope access.Scope, from, to time.Time) (dashboard.AttendanceStats, error) {
	q := GetQuerier(ctx, r.db)

	var c conditions
	applyScope(&c, scope, eventScopeColumns)
	c.add("timestamp >= $%d", from)
	c.add("timestamp < $%d", to)

	var s dashboard.AttendanceStats
	err := q.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE event_type = 'check_in'),
			COUNT(*) FILTER (WHERE event_type = 'check_out'),
			COUNT(DISTINCT employee_id) FILTER (WHERE event_type = 'check_in')
		FROM attendance_events`+c.where(), c.args...).Scan(&s.CheckIns, &s.CheckOuts, &s.Present)
	if err != nil {
		return dashboard.AttendanceStats{}, fmt.Errorf("failed to get attendance stats: %w", err)
	}
	return s, nil
}
