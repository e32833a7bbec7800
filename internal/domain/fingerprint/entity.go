package fingerprint

import "time"

type Status string

const (
	StatusPending  Status = "pending"
	StatusEnrolled Status = "enrolled"
)

// TemplateFormat tags backups exported by the terminal SDK.
const TemplateFormat = "ZKTeco_Base64"

// Enrollment records that an employee's fingerprint lives on a terminal. The
// template itself stays on the device; TemplateData is an opaque optional backup.
type Enrollment struct {
	EmployeeID     string
	TemplateID     string
	DeviceID       string
	BiometricID    *int
	Status         Status
	IsActive       bool
	TemplateData   *string
	TemplateFormat *string
	EnrolledAt     time.Time
	UpdatedAt      time.Time
}

func (e Enrollment) HasBackup() bool {
	return e.TemplateData != nil && *e.TemplateData != ""
}
