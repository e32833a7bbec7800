package access

import "fmt"

// Role is the caller's tier. Every scoping decision branches on it.
type Role string

const (
	RoleEmployee   Role = "employee"   // Sees own records only
	RoleSupervisor Role = "supervisor" // Company-wide visibility, reviews requests
	RoleAdmin      Role = "admin"      // Unrestricted
)

// Roles lists every role in ascending privilege order.
var Roles = []Role{RoleEmployee, RoleSupervisor, RoleAdmin}

// ParseRole converts a raw role string into a Role.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleEmployee, RoleSupervisor, RoleAdmin:
		return r, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrInvalidRole)
}

// CanReview reports whether the role may approve or reject requests.
func (r Role) CanReview() bool {
	return r == RoleSupervisor || r == RoleAdmin
}

func (r Role) String() string {
	return string(r)
}
