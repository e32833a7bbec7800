package leave

import (
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/leave"
	"github.com/shopspring/decimal"
)

// AccrualInput carries everything the accrual calculation depends on.
type AccrualInput struct {
	HireDate        *time.Time
	Today           time.Time
	ProbationMonths int
	MonthlyRate     decimal.Decimal
	Used            decimal.Decimal
}

// ComputeAccrual derives earned, used and balance vacation days.
//
// Months of service count calendar month boundaries crossed since the hire
// date; the day of month is ignored, so hires on the 1st and the 28th of the
// same month accrue identically. Nothing accrues during probation. The balance
// is not floored and goes negative when more was used than earned.
//
// Without a hire date it returns ErrMissingHireDate together with a zero
// accrual that still reports Used.
func ComputeAccrual(in AccrualInput) (leave.Accrual, error) {
	if in.HireDate == nil {
		return leave.Accrual{
			Earned:  decimal.Zero,
			Used:    in.Used,
			Balance: decimal.Zero,
		}, leave.ErrMissingHireDate
	}

	months := monthsBetween(*in.HireDate, in.Today)
	afterProbation := max(months-in.ProbationMonths, 0)
	earned := in.MonthlyRate.Mul(decimal.NewFromInt(int64(afterProbation)))

	return leave.Accrual{
		MonthsOfService:      months,
		MonthsAfterProbation: afterProbation,
		Earned:               earned,
		Used:                 in.Used,
		Balance:              earned.Sub(in.Used),
	}, nil
}

// monthsBetween counts calendar month boundaries from a to b. It is negative
// when b is in an earlier month than a.
func monthsBetween(a, b time.Time) int {
	years := b.Year() - a.Year()
	months := int(b.Month()) - int(a.Month())
	return years*12 + months
}
