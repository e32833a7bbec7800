package authz

import (
	"testing"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/access"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorizer_RoleHierarchy(t *testing.T) {
	a, err := New()
	require.NoError(t, err)

	cases := []struct {
		role access.Role
		perm access.Permission
		want bool
	}{
		{access.RoleEmployee, access.PermissionLeaveCreate, true},
		{access.RoleEmployee, access.PermissionLeaveReview, false},
		{access.RoleEmployee, access.PermissionUserList, false},
		{access.RoleEmployee, access.PermissionAttendanceManual, false},
		{access.RoleSupervisor, access.PermissionLeaveReview, true},
		{access.RoleSupervisor, access.PermissionSalaryAdvanceReview, true},
		{access.RoleSupervisor, access.PermissionLeaveCreate, true},
		{access.RoleSupervisor, access.PermissionCompanyCreate, false},
		{access.RoleSupervisor, access.PermissionVacationRecalculateAll, true},
		{access.RoleSupervisor, access.PermissionVacationList, true},
		{access.RoleEmployee, access.PermissionVacationList, false},
		{access.RoleEmployee, access.PermissionVacationRecalculateAll, false},
		{access.RoleAdmin, access.PermissionVacationRecalculateAll, true},
		{access.RoleAdmin, access.PermissionCompanyCreate, true},
		{access.RoleAdmin, access.PermissionLeaveReview, true},
		{access.RoleAdmin, access.PermissionLeaveCreate, true},
		{access.Role("owner"), access.PermissionLeaveCreate, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, a.Allowed(c.role, c.perm), "%s %s", c.role, c.perm)
	}
}

func TestNewFromPolicy_Malformed(t *testing.T) {
	_, err := NewFromPolicy([]byte("p, employee, leave\n"))
	assert.Error(t, err)

	_, err = NewFromPolicy([]byte("x, employee, leave, create\n"))
	assert.Error(t, err)
}
