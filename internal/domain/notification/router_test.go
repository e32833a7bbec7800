package notification

import (
	"testing"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/access"
	"github.com/stretchr/testify/assert"
)

func ptr(s string) *string { return &s }

var (
	employee       = access.Viewer{UserID: "emp-1", EmployeeID: "EMP0001", CompanyID: "c1", Role: access.RoleEmployee}
	supervisor     = access.Viewer{UserID: "sup-1", EmployeeID: "EMP0002", CompanyID: "c1", Role: access.RoleSupervisor}
	otherSup       = access.Viewer{UserID: "sup-2", EmployeeID: "EMP0003", CompanyID: "c2", Role: access.RoleSupervisor}
	homelessSup    = access.Viewer{UserID: "sup-3", EmployeeID: "EMP0004", Role: access.RoleSupervisor}
	admin          = access.Viewer{UserID: "adm-1", EmployeeID: "EMP0005", Role: access.RoleAdmin}
	reviewerTarget = []access.Role{access.RoleSupervisor, access.RoleAdmin}
)

func TestIsVisible(t *testing.T) {
	personalEmp := Notification{UserID: ptr("emp-1")}
	personalSup := Notification{UserID: ptr("sup-1")}
	companyBroadcast := Notification{TargetRoles: reviewerTarget, CompanyID: ptr("c1")}
	adminOnly := Notification{TargetRoles: []access.Role{access.RoleAdmin}, CompanyID: ptr("c1")}
	employeeBroadcast := Notification{TargetRoles: []access.Role{access.RoleEmployee}, CompanyID: ptr("c1")}
	untargeted := Notification{Title: "maintenance"}
	globalBroadcast := Notification{TargetRoles: reviewerTarget}

	tests := []struct {
		name   string
		n      Notification
		viewer access.Viewer
		want   bool
	}{
		{"employee sees own", personalEmp, employee, true},
		{"employee does not see others", personalSup, employee, false},
		{"employee does not see reviewer broadcast", companyBroadcast, employee, false},
		{"employee does not see role broadcast to employees", employeeBroadcast, employee, false},
		{"employee does not see untargeted", untargeted, employee, false},

		{"supervisor sees own", personalSup, supervisor, true},
		{"supervisor does not see employee personal", personalEmp, supervisor, false},
		{"supervisor sees same-company broadcast", companyBroadcast, supervisor, true},
		{"supervisor sees admin-targeted same-company broadcast", adminOnly, supervisor, true},
		{"supervisor does not see other company broadcast", companyBroadcast, otherSup, false},
		{"supervisor does not see company-less broadcast", globalBroadcast, supervisor, false},
		{"supervisor without company sees no broadcast", companyBroadcast, homelessSup, false},
		{"supervisor does not see untargeted", untargeted, supervisor, false},
		{"supervisor does not see employee-only broadcast", employeeBroadcast, supervisor, false},

		{"admin sees reviewer broadcast of any company", companyBroadcast, admin, true},
		{"admin sees company-less broadcast", globalBroadcast, admin, true},
		{"admin sees untargeted", untargeted, admin, true},
		{"admin does not see other user's personal", personalEmp, admin, false},
		{"admin does not see employee-only broadcast", employeeBroadcast, admin, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsVisible(tt.n, tt.viewer))
		})
	}
}

func TestIsMutable_NeverExceedsVisibility(t *testing.T) {
	rows := []Notification{
		{UserID: ptr("emp-1")},
		{UserID: ptr("sup-1")},
		{TargetRoles: reviewerTarget, CompanyID: ptr("c1")},
		{TargetRoles: reviewerTarget, CompanyID: ptr("c2")},
		{TargetRoles: reviewerTarget},
		{},
	}
	viewers := []access.Viewer{employee, supervisor, otherSup, homelessSup, admin}

	for _, n := range rows {
		for _, v := range viewers {
			if IsMutable(n, v) {
				assert.True(t, IsVisible(n, v), "mutable but invisible: %+v for %s", n, v.UserID)
			}
		}
	}
}

func TestIsMutable_SupervisorCompanyGuard(t *testing.T) {
	ownCompany := Notification{TargetRoles: reviewerTarget, CompanyID: ptr("c1")}
	assert.True(t, IsMutable(ownCompany, supervisor))
	assert.False(t, IsMutable(ownCompany, otherSup))

	personal := Notification{UserID: ptr("sup-1")}
	assert.True(t, IsMutable(personal, supervisor))

	assert.True(t, IsMutable(Notification{}, admin))
	assert.False(t, IsMutable(Notification{UserID: ptr("sup-1")}, employee))
}

func TestVisibilityFilter(t *testing.T) {
	assert.Equal(t, Filter{UserID: "emp-1"}, VisibilityFilter(employee))
	assert.Equal(t, Filter{UserID: "sup-1", Roles: reviewerRoles, CompanyID: "c1", RestrictCompany: true}, VisibilityFilter(supervisor))
	assert.Equal(t, Filter{UserID: "adm-1", Roles: reviewerRoles, IncludeUntargeted: true}, VisibilityFilter(admin))
}

func TestCreateNotificationRequest_Validate(t *testing.T) {
	assert.NoError(t, Personal("u1", KindLeaveStatus, "t", "m", "").Validate())
	assert.NoError(t, Broadcast("c1", reviewerTarget, KindLeaveRequest, "t", "m", "l1").Validate())
	assert.ErrorIs(t, CreateNotificationRequest{Title: "x"}.Validate(), ErrRecipientRequired)
}
