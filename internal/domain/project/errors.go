package project

import "errors"

var (
	ErrProjectNotFound    = errors.New("project not found")
	ErrInvalidStatus      = errors.New("invalid project status")
	ErrAlreadyAssigned    = errors.New("user is already assigned to this project")
	ErrNotAssigned        = errors.New("user is not assigned to this project")
	ErrUserOutsideCompany = errors.New("user does not belong to the project's company")
)
