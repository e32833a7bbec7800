package company

import "errors"

var (
	ErrCompanyNotFound   = errors.New("company not found")
	ErrCompanyNameExists = errors.New("company name already exists")
	ErrCompanyInUse      = errors.New("company still has users or records")
)
