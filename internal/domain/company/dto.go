package company

import (
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CompanyResponse struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Address         *string         `json:"address,omitempty"`
	AnnualLeaveDays decimal.Decimal `json:"annual_leave_days"`
	SickLeaveDays   decimal.Decimal `json:"sick_leave_days"`
	UnpaidLeaveDays decimal.Decimal `json:"unpaid_leave_days"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func ToResponse(c Company) CompanyResponse {
	return CompanyResponse{
		ID:              c.ID,
		Name:            c.Name,
		Address:         c.Address,
		AnnualLeaveDays: c.AnnualLeaveDays,
		SickLeaveDays:   c.SickLeaveDays,
		UnpaidLeaveDays: c.UnpaidLeaveDays,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

type CreateCompanyRequest struct {
	Name            string           `json:"name"`
	Address         *string          `json:"address,omitempty"`
	AnnualLeaveDays *decimal.Decimal `json:"annual_leave_days,omitempty"`
	SickLeaveDays   *decimal.Decimal `json:"sick_leave_days,omitempty"`
	UnpaidLeaveDays *decimal.Decimal `json:"unpaid_leave_days,omitempty"`
}

func (r *CreateCompanyRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	} else if len(r.Name) > 255 {
		errs.Add("name", "name must not exceed 255 characters")
	}
	validateDays(&errs, "annual_leave_days", r.AnnualLeaveDays)
	validateDays(&errs, "sick_leave_days", r.SickLeaveDays)
	validateDays(&errs, "unpaid_leave_days", r.UnpaidLeaveDays)

	return errs.Err()
}

type UpdateCompanyRequest struct {
	ID              string           `json:"-"`
	Name            *string          `json:"name,omitempty"`
	Address         *string          `json:"address,omitempty"`
	AnnualLeaveDays *decimal.Decimal `json:"annual_leave_days,omitempty"`
	SickLeaveDays   *decimal.Decimal `json:"sick_leave_days,omitempty"`
	UnpaidLeaveDays *decimal.Decimal `json:"unpaid_leave_days,omitempty"`
}

func (r *UpdateCompanyRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil {
		if validator.IsEmpty(*r.Name) {
			errs.Add("name", "name must not be empty")
		} else if len(*r.Name) > 255 {
			errs.Add("name", "name must not exceed 255 characters")
		}
	}
	validateDays(&errs, "annual_leave_days", r.AnnualLeaveDays)
	validateDays(&errs, "sick_leave_days", r.SickLeaveDays)
	validateDays(&errs, "unpaid_leave_days", r.UnpaidLeaveDays)

	return errs.Err()
}

func validateDays(errs *validator.ValidationErrors, field string, d *decimal.Decimal) {
	if d != nil && d.IsNegative() {
		errs.Add(field, field+" must not be negative")
	}
}
