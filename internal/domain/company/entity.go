package company

import (
	"time"

	"github.com/shopspring/decimal"
)

var (
	DefaultAnnualLeaveDays = decimal.NewFromInt(20)
	DefaultSickLeaveDays   = decimal.NewFromInt(10)
	DefaultUnpaidLeaveDays = decimal.NewFromInt(5)
)

type Company struct {
	ID              string
	Name            string
	Address         *string
	AnnualLeaveDays decimal.Decimal
	SickLeaveDays   decimal.Decimal
	UnpaidLeaveDays decimal.Decimal
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
