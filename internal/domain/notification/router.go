package notification

import (
	"slices"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/access"
)

// Filter is the visibility predicate of one viewer. It is evaluated in memory
// by Matches and rendered into SQL by the repository; both must agree.
type Filter struct {
	// UserID matches personal notifications.
	UserID string
	// Roles matches broadcasts whose target roles intersect it.
	Roles []access.Role
	// CompanyID, when RestrictCompany is set, limits broadcast matches to one company.
	CompanyID       string
	RestrictCompany bool
	// IncludeUntargeted matches rows with neither a user nor target roles.
	IncludeUntargeted bool
}

// reviewerRoles are the broadcast targets supervisors and admins receive.
var reviewerRoles = []access.Role{access.RoleSupervisor, access.RoleAdmin}

// VisibilityFilter builds the predicate for v.
//
//	employee:   personal only
//	supervisor: personal, or same company and targeted at supervisor/admin
//	admin:      personal, or targeted at supervisor/admin, or untargeted
func VisibilityFilter(v access.Viewer) Filter {
	f := Filter{UserID: v.UserID}
	switch v.Role {
	case access.RoleSupervisor:
		f.Roles = reviewerRoles
		f.CompanyID = v.CompanyID
		f.RestrictCompany = true
	case access.RoleAdmin:
		f.Roles = reviewerRoles
		f.IncludeUntargeted = true
	}
	return f
}

// Matches evaluates the filter against one notification.
func (f Filter) Matches(n Notification) bool {
	if f.UserID != "" && n.UserID != nil && *n.UserID == f.UserID {
		return true
	}
	if f.IncludeUntargeted && n.IsUntargeted() {
		return true
	}
	if len(f.Roles) == 0 || !intersects(n.TargetRoles, f.Roles) {
		return false
	}
	if f.RestrictCompany {
		return f.CompanyID != "" && n.companyID() == f.CompanyID
	}
	return true
}

// IsVisible reports whether v may read n.
func IsVisible(n Notification, v access.Viewer) bool {
	return VisibilityFilter(v).Matches(n)
}

// IsMutable reports whether v may mark n read or delete it. It never grants
// more than IsVisible; supervisors additionally need a company match on any
// non-personal row.
func IsMutable(n Notification, v access.Viewer) bool {
	if !IsVisible(n, v) {
		return false
	}
	personal := n.UserID != nil && *n.UserID == v.UserID
	if v.Role == access.RoleSupervisor && !personal {
		return v.CompanyID != "" && n.companyID() == v.CompanyID
	}
	return true
}

func intersects(a, b []access.Role) bool {
	for _, r := range a {
		if slices.Contains(b, r) {
			return true
		}
	}
	return false
}
