package attendance

import "errors"

var (
	// Calculation errors
	ErrInvalidInterval = errors.New("check-out must be after check-in")
	ErrMissingData     = errors.New("check-in or check-out is missing")
	ErrInvalidRange    = errors.New("end date must not be before start date")
	ErrRangeTooLong    = errors.New("date range exceeds the allowed maximum")

	// General errors
	ErrEventNotFound    = errors.New("attendance record not found")
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrEmployeeInactive = errors.New("employee is deactivated")
)
