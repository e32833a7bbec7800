package user

import "errors"

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrUserEmailExists        = errors.New("email already registered")
	ErrEmployeeIDExists       = errors.New("employee id already exists")
	ErrBiometricIDExists      = errors.New("biometric id already assigned")
	ErrUserAlreadyActive      = errors.New("user is already active")
	ErrUserAlreadyDeactivated = errors.New("user is already deactivated")
	ErrUserInactive           = errors.New("user is deactivated")
	ErrCannotDeactivateSelf   = errors.New("cannot deactivate your own account")
	ErrRoleNotAssignable      = errors.New("role cannot be assigned by caller")
	ErrCompanyIDRequired      = errors.New("company ID is required")
)
