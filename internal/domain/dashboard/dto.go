package dashboard

import (
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/advance"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/leave"
)

const (
	DefaultPendingLimit = 10
	NewEmployeeWindow   = 30 * 24 * time.Hour
)

type StatisticsResponse struct {
	Scope          string                     `json:"scope"`
	Leaves         leave.StatisticsResponse   `json:"leaves"`
	SalaryAdvances advance.StatisticsResponse `json:"salary_advances"`
	ActiveProjects int64                      `json:"active_projects"`
	Attendance     AttendanceResponse         `json:"attendance_today"`

	// Employees is only reported to supervisors and admins.
	Employees *EmployeeSummaryResponse `json:"employees,omitempty"`

	GeneratedAt time.Time `json:"generated_at"`
}

type EmployeeSummaryResponse struct {
	Total       int64 `json:"total"`
	Active      int64 `json:"active"`
	Deactivated int64 `json:"deactivated"`
	New         int64 `json:"new"`
}

type AttendanceResponse struct {
	Date      string `json:"date"`
	CheckIns  int64  `json:"check_ins"`
	CheckOuts int64  `json:"check_outs"`
	Present   int64  `json:"present"`
}

type PendingApprovalsResponse struct {
	Leaves              []leave.LeaveResponse     `json:"leaves"`
	SalaryAdvances      []advance.AdvanceResponse `json:"salary_advances"`
	TotalLeaves         int64                     `json:"total_leaves"`
	TotalSalaryAdvances int64                     `json:"total_salary_advances"`
}
