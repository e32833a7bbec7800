package user

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/access"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusActive      Status = "active"
	StatusDeactivated Status = "deactivated"
)

// Deactivate returns the status after a soft delete.
func (s Status) Deactivate() (Status, error) {
	if s == StatusDeactivated {
		return s, ErrUserAlreadyDeactivated
	}
	return StatusDeactivated, nil
}

// Activate returns the status after reactivation.
func (s Status) Activate() (Status, error) {
	if s == StatusActive {
		return s, ErrUserAlreadyActive
	}
	return StatusActive, nil
}

// LeaveBalance holds the remaining days per non-accruing leave type.
type LeaveBalance struct {
	Annual decimal.Decimal `json:"annual"`
	Sick   decimal.Decimal `json:"sick"`
	Unpaid decimal.Decimal `json:"unpaid"`
}

// Get returns the balance for a leave type code.
func (b LeaveBalance) Get(leaveType string) decimal.Decimal {
	switch leaveType {
	case "annual":
		return b.Annual
	case "sick":
		return b.Sick
	case "unpaid":
		return b.Unpaid
	}
	return decimal.Zero
}

// Deduct returns a copy with days subtracted from the given type. Unknown
// types leave the balance unchanged.
func (b LeaveBalance) Deduct(leaveType string, days decimal.Decimal) LeaveBalance {
	switch leaveType {
	case "annual":
		b.Annual = b.Annual.Sub(days)
	case "sick":
		b.Sick = b.Sick.Sub(days)
	case "unpaid":
		b.Unpaid = b.Unpaid.Sub(days)
	}
	return b
}

// VacationBalance is the cached projection of the accrual calculation.
type VacationBalance struct {
	Earned       decimal.Decimal
	Used         decimal.Decimal
	Balance      decimal.Decimal
	CalculatedAt *time.Time
}

type User struct {
	ID           string
	EmployeeID   string
	BiometricID  *int
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Role         access.Role
	CompanyID    *string
	Department   string
	Position     string
	LeaveBalance LeaveBalance
	Vacation     VacationBalance
	HireDate     *time.Time
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// CompanyIDValue returns the company id or an empty string for global users.
func (u *User) CompanyIDValue() string {
	if u.CompanyID == nil {
		return ""
	}
	return *u.CompanyID
}

// FormatEmployeeID renders the sequence number as EMP####.
func FormatEmployeeID(seq int) string {
	return fmt.Sprintf("EMP%04d", seq)
}
