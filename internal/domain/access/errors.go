package access

import "errors"

var (
	ErrUnauthorized = errors.New("not authorized to access this resource")
	ErrNoCompany    = errors.New("no company assigned")
	ErrInvalidRole  = errors.New("invalid role")
)
