package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/access"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/advance"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/approval"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/auth"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/company"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/fingerprint"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/leave"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/notification"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/project"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/settings"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/user"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/idempotency"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/jwt"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/timewindow"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors

	// A malformed HH:MM is a bad request even though it also carries field details.
	if errors.Is(err, timewindow.ErrInvalidTimeFormat) {
		var details map[string]string
		if errors.As(err, &validationErrs) {
			details = validationErrs.ToMap()
		}
		BadRequest(w, timewindow.ErrInvalidTimeFormat.Error(), details)
		return
	}

	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Bad input that is not a field error
	case errors.Is(err, attendance.ErrInvalidRange),
		errors.Is(err, attendance.ErrRangeTooLong),
		errors.Is(err, timewindow.ErrInvalidWeekday),
		errors.Is(err, settings.ErrInvalidLunchBreak),
		errors.Is(err, leave.ErrInvalidLeaveType),
		errors.Is(err, project.ErrInvalidStatus),
		errors.Is(err, approval.ErrInvalidDecision),
		errors.Is(err, approval.ErrInvalidStatus),
		errors.Is(err, access.ErrInvalidRole),
		errors.Is(err, user.ErrCompanyIDRequired):
		BadRequest(w, err.Error(), nil)

	// Authentication
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrRefreshTokenRevoked),
		errors.Is(err, jwt.ErrInvalidClaims):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrAccountDeactivated):
		Forbidden(w, "Account is deactivated")

	// Authorization
	case errors.Is(err, access.ErrUnauthorized),
		errors.Is(err, access.ErrNoCompany),
		errors.Is(err, user.ErrRoleNotAssignable),
		errors.Is(err, user.ErrCannotDeactivateSelf),
		errors.Is(err, project.ErrUserOutsideCompany):
		Forbidden(w, err.Error())

	// Not found
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, company.ErrCompanyNotFound):
		NotFound(w, "Company not found")
	case errors.Is(err, attendance.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, attendance.ErrEventNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, advance.ErrSalaryAdvanceNotFound):
		NotFound(w, "Salary advance request not found")
	case errors.Is(err, project.ErrProjectNotFound):
		NotFound(w, "Project not found")
	case errors.Is(err, notification.ErrNotificationNotFound):
		NotFound(w, "Notification not found")
	case errors.Is(err, fingerprint.ErrEnrollmentNotFound):
		NotFound(w, "Fingerprint enrollment not found")
	case errors.Is(err, settings.ErrSettingsNotFound):
		NotFound(w, "Settings not found")

	// Conflicts
	case errors.Is(err, user.ErrUserEmailExists),
		errors.Is(err, user.ErrEmployeeIDExists),
		errors.Is(err, user.ErrBiometricIDExists),
		errors.Is(err, user.ErrUserAlreadyActive),
		errors.Is(err, user.ErrUserAlreadyDeactivated),
		errors.Is(err, company.ErrCompanyNameExists),
		errors.Is(err, company.ErrCompanyInUse),
		errors.Is(err, approval.ErrAlreadyProcessed),
		errors.Is(err, approval.ErrNotPending),
		errors.Is(err, fingerprint.ErrAlreadyEnrolled),
		errors.Is(err, project.ErrAlreadyAssigned),
		errors.Is(err, project.ErrNotAssigned),
		errors.Is(err, idempotency.ErrInProgress):
		Conflict(w, err.Error())

	// Inactive employees cannot clock in
	case errors.Is(err, attendance.ErrEmployeeInactive),
		errors.Is(err, user.ErrUserInactive):
		Forbidden(w, err.Error())

	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
