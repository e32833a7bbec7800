package user

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/access"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// UserResponse represents user data in API responses
type UserResponse struct {
	ID                   string          `json:"id"`
	EmployeeID           string          `json:"employee_id"`
	BiometricID          *int            `json:"biometric_id,omitempty"`
	Email                string          `json:"email"`
	FirstName            string          `json:"first_name"`
	LastName             string          `json:"last_name"`
	FullName             string          `json:"full_name"`
	Role                 string          `json:"role"`
	CompanyID            *string         `json:"company_id,omitempty"`
	Department           string          `json:"department"`
	Position             string          `json:"position"`
	LeaveBalance         LeaveBalance    `json:"leave_balance"`
	VacationEarned       decimal.Decimal `json:"vacation_earned"`
	VacationUsed         decimal.Decimal `json:"vacation_used"`
	VacationBalance      decimal.Decimal `json:"vacation_balance"`
	VacationCalculatedAt *time.Time      `json:"vacation_calculated_at,omitempty"`
	HireDate             *string         `json:"hire_date,omitempty"`
	Status               string          `json:"status"`
	IsActive             bool            `json:"is_active"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

func ToResponse(u User) UserResponse {
	var hireDate *string
	if u.HireDate != nil {
		s := u.HireDate.Format("2006-01-02")
		hireDate = &s
	}
	return UserResponse{
		ID:                   u.ID,
		EmployeeID:           u.EmployeeID,
		BiometricID:          u.BiometricID,
		Email:                u.Email,
		FirstName:            u.FirstName,
		LastName:             u.LastName,
		FullName:             u.FullName(),
		Role:                 string(u.Role),
		CompanyID:            u.CompanyID,
		Department:           u.Department,
		Position:             u.Position,
		LeaveBalance:         u.LeaveBalance,
		VacationEarned:       u.Vacation.Earned,
		VacationUsed:         u.Vacation.Used,
		VacationBalance:      u.Vacation.Balance,
		VacationCalculatedAt: u.Vacation.CalculatedAt,
		HireDate:             hireDate,
		Status:               string(u.Status),
		IsActive:             u.IsActive(),
		CreatedAt:            u.CreatedAt,
		UpdatedAt:            u.UpdatedAt,
	}
}

type ListUserResponse struct {
	TotalCount int64          `json:"total_count"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
	Users      []UserResponse `json:"users"`
}

// UserFilter narrows a scoped user listing.
type UserFilter struct {
	Role   *access.Role
	Status *Status
	Search *string
	Page   int
	Limit  int
}

func (f *UserFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 50
	}
}

// CreateUserRequest represents request to create a new user
type CreateUserRequest struct {
	EmployeeID  string  `json:"employee_id,omitempty"`
	BiometricID *int    `json:"biometric_id,omitempty"`
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Role        string  `json:"role"`
	CompanyID   *string `json:"company_id,omitempty"`
	Department  string  `json:"department"`
	Position    string  `json:"position"`
	HireDate    *string `json:"hire_date,omitempty"`
}

func (r *CreateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if validator.IsEmpty(r.Email) {
		errs.Add("email", "email is required")
	} else if !validator.IsValidEmail(r.Email) {
		errs.Add("email", "invalid email format")
	}

	if validator.IsEmpty(r.Password) {
		errs.Add("password", "password is required")
	} else if len(r.Password) < 8 {
		errs.Add("password", "password must be at least 8 characters")
	}

	if validator.IsEmpty(r.FirstName) {
		errs.Add("first_name", "first_name is required")
	}

	if r.Role == "" {
		r.Role = string(access.RoleEmployee)
	}
	if _, err := access.ParseRole(r.Role); err != nil {
		errs.Add("role", "role must be one of: employee, supervisor, admin")
	}

	r.EmployeeID = strings.TrimSpace(r.EmployeeID)
	if r.EmployeeID != "" && !validator.IsValidEmployeeID(r.EmployeeID) {
		errs.Add("employee_id", "employee_id must match EMP####")
	}

	if r.HireDate != nil {
		if _, ok := validator.IsValidDate(*r.HireDate); !ok {
			errs.Add("hire_date", "hire_date must be in YYYY-MM-DD format")
		}
	}

	if r.BiometricID != nil && *r.BiometricID <= 0 {
		errs.Add("biometric_id", "biometric_id must be positive")
	}

	return errs.Err()
}

// TerminalCreateUserRequest is sent by the biometric terminal when enrolling a new person.
type TerminalCreateUserRequest struct {
	EmployeeID  string  `json:"employee_id" validate:"required,employee_id"`
	BiometricID *int    `json:"biometric_id,omitempty" validate:"omitempty,gt=0"`
	Email       string  `json:"email" validate:"required,email"`
	FirstName   string  `json:"first_name" validate:"required,max=100"`
	LastName    string  `json:"last_name" validate:"required,max=100"`
	Role        string  `json:"role,omitempty" validate:"omitempty,oneof=employee supervisor"`
	CompanyID   *string `json:"company_id,omitempty" validate:"omitempty,uuid"`
	Department  string  `json:"department,omitempty" validate:"max=100"`
	Position    string  `json:"position,omitempty" validate:"max=100"`
}

func (r *TerminalCreateUserRequest) Validate() error {
	r.EmployeeID = strings.TrimSpace(r.EmployeeID)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if r.Role == "" {
		r.Role = string(access.RoleEmployee)
	}
	return validator.Struct(r)
}

// UpdateUserRequest represents request to update user
type UpdateUserRequest struct {
	ID          string  `json:"-"`
	FirstName   *string `json:"first_name,omitempty"`
	LastName    *string `json:"last_name,omitempty"`
	Department  *string `json:"department,omitempty"`
	Position    *string `json:"position,omitempty"`
	HireDate    *string `json:"hire_date,omitempty"`
	Role        *string `json:"role,omitempty"`
	BiometricID *int    `json:"biometric_id,omitempty"`
	Password    *string `json:"password,omitempty"`

	// Set by the service after hashing Password.
	PasswordHash *string `json:"-"`
}

func (r *UpdateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if r.FirstName != nil && validator.IsEmpty(*r.FirstName) {
		errs.Add("first_name", "first_name must not be empty")
	}
	if r.HireDate != nil {
		if _, ok := validator.IsValidDate(*r.HireDate); !ok {
			errs.Add("hire_date", "hire_date must be in YYYY-MM-DD format")
		}
	}
	if r.Role != nil {
		if _, err := access.ParseRole(*r.Role); err != nil {
			errs.Add("role", "role must be one of: employee, supervisor, admin")
		}
	}
	if r.BiometricID != nil && *r.BiometricID <= 0 {
		errs.Add("biometric_id", "biometric_id must be positive")
	}
	if r.Password != nil && len(*r.Password) < 8 {
		errs.Add("password", "password must be at least 8 characters")
	}

	return errs.Err()
}

// ChangesHireDate reports whether the update invalidates the cached vacation balance.
func (r *UpdateUserRequest) ChangesHireDate() bool {
	return r.HireDate != nil
}
