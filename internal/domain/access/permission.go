package access

// Permission is an (object, action) pair checked against the role policy.
type Permission struct {
	Object string
	Action string
}

func (p Permission) String() string {
	return p.Object + "." + p.Action
}

var (
	// Requests
	PermissionLeaveCreate            = Permission{"leave", "create"}
	PermissionLeaveReview            = Permission{"leave", "review"}
	PermissionSalaryAdvanceCreate    = Permission{"salary_advance", "create"}
	PermissionSalaryAdvanceReview    = Permission{"salary_advance", "review"}
	PermissionVacationRecalculate    = Permission{"vacation", "recalculate"}
	PermissionVacationRecalculateAll = Permission{"vacation", "recalculate_all"}
	PermissionVacationList           = Permission{"vacation", "list"}

	// Attendance
	PermissionAttendanceRecord = Permission{"attendance", "record"}
	PermissionAttendanceManual = Permission{"attendance", "manual"}
	PermissionAttendanceExport = Permission{"attendance", "export"}

	// People and organisation
	PermissionUserList      = Permission{"user", "list"}
	PermissionUserManage    = Permission{"user", "manage"}
	PermissionCompanyCreate = Permission{"company", "create"}
	PermissionCompanyManage = Permission{"company", "manage"}
	PermissionProjectManage = Permission{"project", "manage"}

	// Configuration and devices
	PermissionSettingsManage    = Permission{"settings", "manage"}
	PermissionFingerprintManage = Permission{"fingerprint", "manage"}
	PermissionDashboardReview   = Permission{"dashboard", "review"}
)
