package fingerprint

import "errors"

var (
	ErrEnrollmentNotFound = errors.New("fingerprint enrollment not found")
	ErrAlreadyEnrolled    = errors.New("fingerprint already enrolled")
)
