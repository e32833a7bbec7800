package access

import (
	"fmt"
	"slices"
)

// Resource names a kind of record subject to scoping.
type Resource string

const (
	ResourceLeave         Resource = "leave"
	ResourceSalaryAdvance Resource = "salary_advance"
	ResourceProject       Resource = "project"
	ResourceUser          Resource = "user"
	ResourceAttendance    Resource = "attendance"
	ResourceCompany       Resource = "company"
)

// Viewer is the authenticated caller a query is evaluated for.
type Viewer struct {
	UserID     string
	EmployeeID string
	CompanyID  string
	Role       Role
}

type ScopeKind int

const (
	// ScopeOwn restricts to records whose owner equals Subject.
	ScopeOwn ScopeKind = iota + 1
	// ScopeMember restricts to records whose member set contains Subject.
	ScopeMember
	// ScopeCompany restricts to records of CompanyID.
	ScopeCompany
	// ScopeGlobal is unrestricted.
	ScopeGlobal
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeOwn:
		return "own"
	case ScopeMember:
		return "member"
	case ScopeCompany:
		return "company"
	case ScopeGlobal:
		return "global"
	}
	return "none"
}

// Scope is the constraint a viewer's queries are narrowed by. Repositories render
// it into a WHERE clause; single-record reads evaluate it with Permits.
type Scope struct {
	Kind      ScopeKind
	Subject   string
	CompanyID string
}

// Ownership describes the scoping attributes of one record.
type Ownership struct {
	Owner     string
	CompanyID string
	Members   []string
}

// ScopeFor returns the scope viewer v has over resource r.
//
// Employees see their own leaves, salary advances and users row, their own
// attendance (keyed by employee id), projects they are assigned to and their
// own company.
// Supervisors see everything in their company. Admins see everything.
func ScopeFor(v Viewer, r Resource) (Scope, error) {
	switch v.Role {
	case RoleAdmin:
		return Scope{Kind: ScopeGlobal}, nil

	case RoleSupervisor:
		if v.CompanyID == "" {
			return Scope{}, fmt.Errorf("%w: %w", ErrUnauthorized, ErrNoCompany)
		}
		return Scope{Kind: ScopeCompany, CompanyID: v.CompanyID}, nil

	case RoleEmployee:
		switch r {
		case ResourceCompany:
			if v.CompanyID == "" {
				return Scope{}, fmt.Errorf("%w: %w", ErrUnauthorized, ErrNoCompany)
			}
			return Scope{Kind: ScopeCompany, CompanyID: v.CompanyID}, nil
		case ResourceProject:
			return Scope{Kind: ScopeMember, Subject: v.UserID}, nil
		case ResourceAttendance:
			if v.EmployeeID == "" {
				return Scope{}, ErrUnauthorized
			}
			return Scope{Kind: ScopeOwn, Subject: v.EmployeeID}, nil
		default:
			if v.UserID == "" {
				return Scope{}, ErrUnauthorized
			}
			return Scope{Kind: ScopeOwn, Subject: v.UserID}, nil
		}
	}

	return Scope{}, ErrUnauthorized
}

// Permits reports whether a record with ownership o falls inside s.
func (s Scope) Permits(o Ownership) bool {
	switch s.Kind {
	case ScopeGlobal:
		return true
	case ScopeCompany:
		return s.CompanyID != "" && o.CompanyID == s.CompanyID
	case ScopeOwn:
		return s.Subject != "" && o.Owner == s.Subject
	case ScopeMember:
		return s.Subject != "" && slices.Contains(o.Members, s.Subject)
	}
	return false
}

// Authorize resolves the viewer's scope over r and checks one record against it.
func Authorize(v Viewer, r Resource, o Ownership) error {
	scope, err := ScopeFor(v, r)
	if err != nil {
		return err
	}
	if !scope.Permits(o) {
		return ErrUnauthorized
	}
	return nil
}

// AuthorizeReview checks that v may approve or reject a request belonging to
// companyID. Supervisors are limited to their own company.
func AuthorizeReview(v Viewer, companyID string) error {
	switch v.Role {
	case RoleAdmin:
		return nil
	case RoleSupervisor:
		if v.CompanyID != "" && v.CompanyID == companyID {
			return nil
		}
	}
	return ErrUnauthorized
}

// AuthorizeOwner checks that v is the owner of a self-service record.
func AuthorizeOwner(v Viewer, ownerID string) error {
	if v.UserID == "" || v.UserID != ownerID {
		return ErrUnauthorized
	}
	return nil
}
