package fingerprint

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/validator"
)

type EnrollRequest struct {
	EmployeeID string `json:"employee_id" validate:"required,employee_id"`
	TemplateID string `json:"template_id" validate:"required,max=100"`
	DeviceID   string `json:"device_id" validate:"required,max=100"`
}

func (r *EnrollRequest) Validate() error {
	r.EmployeeID = strings.TrimSpace(r.EmployeeID)
	return validator.Struct(r)
}

type UpdateTemplateRequest struct {
	EmployeeID string `json:"employee_id,omitempty" validate:"required,employee_id"`
	TemplateID string `json:"template_id" validate:"required,max=100"`
	DeviceID   string `json:"device_id,omitempty" validate:"max=100"`
}

func (r *UpdateTemplateRequest) Validate() error {
	if r.DeviceID == "" {
		r.DeviceID = "desktop_terminal"
	}
	return validator.Struct(r)
}

type ConfirmRequest struct {
	BiometricID  int     `json:"biometric_id" validate:"required,gt=0"`
	TemplateData *string `json:"template_data,omitempty" validate:"omitempty,base64"`
}

func (r *ConfirmRequest) Validate() error {
	return validator.Struct(r)
}

type EnrollmentResponse struct {
	EmployeeID  string    `json:"employee_id"`
	TemplateID  string    `json:"template_id"`
	DeviceID    string    `json:"device_id"`
	BiometricID *int      `json:"biometric_id,omitempty"`
	Status      string    `json:"status"`
	HasBackup   bool      `json:"has_template_backup"`
	EnrolledAt  time.Time `json:"enrolled_at"`
}

func ToResponse(e Enrollment) EnrollmentResponse {
	return EnrollmentResponse{
		EmployeeID:  e.EmployeeID,
		TemplateID:  e.TemplateID,
		DeviceID:    e.DeviceID,
		BiometricID: e.BiometricID,
		Status:      string(e.Status),
		HasBackup:   e.HasBackup(),
		EnrolledAt:  e.EnrolledAt,
	}
}

type CheckResponse struct {
	EmployeeID     string     `json:"employee_id"`
	HasFingerprint bool       `json:"has_fingerprint"`
	Status         string     `json:"fingerprint_status"`
	TemplateID     *string    `json:"template_id,omitempty"`
	DeviceID       *string    `json:"device_id,omitempty"`
	EnrolledAt     *time.Time `json:"enrolled_at,omitempty"`
}

// TemplatesResponse maps employee id to template id for terminal-side caching.
type TemplatesResponse struct {
	Templates map[string]string `json:"data"`
	Count     int               `json:"count"`
}

type PendingUserResponse struct {
	EmployeeID  string    `json:"employee_id"`
	BiometricID int       `json:"biometric_id"`
	FullName    string    `json:"full_name"`
	Department  string    `json:"department"`
	Position    string    `json:"position"`
	Status      string    `json:"fingerprint_status"`
	CreatedAt   time.Time `json:"created_at"`
}

type ConfirmResponse struct {
	EmployeeID        string `json:"employee_id"`
	BiometricID       int    `json:"biometric_id"`
	FullName          string `json:"full_name"`
	HasTemplateBackup bool   `json:"has_template_backup"`
}
