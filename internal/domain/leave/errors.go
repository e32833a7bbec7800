package leave

import "errors"

var (
	ErrLeaveRequestNotFound = errors.New("leave request not found")
	ErrInvalidLeaveType     = errors.New("invalid leave type, expected annual, sick or unpaid")
	ErrMissingHireDate      = errors.New("hire date is not set")
)
