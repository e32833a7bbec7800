package notification

import (
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/access"
)

// Kind classifies a notification for the frontend.
type Kind string

const (
	KindLeaveRequest         Kind = "leave_request"
	KindLeaveStatus          Kind = "leave_status"
	KindSalaryAdvanceRequest Kind = "salary_advance_request"
	KindSalaryAdvanceStatus  Kind = "salary_advance_status"
	KindProjectAssignment    Kind = "project_assignment"
	KindFingerprint          Kind = "fingerprint"
	KindSystem               Kind = "system"
)

// Notification is either personal (UserID set) or a broadcast to TargetRoles
// within CompanyID. Visibility is computed per viewer by the router, never
// stored per recipient.
type Notification struct {
	ID          string
	UserID      *string
	TargetRoles []access.Role
	CompanyID   *string
	Title       string
	Message     string
	Kind        Kind
	RelatedID   *string
	IsRead      bool
	ReadAt      *time.Time
	CreatedAt   time.Time
}

func (n Notification) IsPersonal() bool {
	return n.UserID != nil && *n.UserID != ""
}

// IsUntargeted reports whether the row names neither a user nor a role.
func (n Notification) IsUntargeted() bool {
	return !n.IsPersonal() && len(n.TargetRoles) == 0
}

func (n Notification) companyID() string {
	if n.CompanyID == nil {
		return ""
	}
	return *n.CompanyID
}
