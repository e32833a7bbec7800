package leave

import (
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/access"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/approval"
	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeAnnual Type = "annual"
	TypeSick   Type = "sick"
	TypeUnpaid Type = "unpaid"
)

// ParseType normalizes a leave type code to lower case.
func ParseType(s string) (Type, error) {
	switch t := Type(strings.ToLower(strings.TrimSpace(s))); t {
	case TypeAnnual, TypeSick, TypeUnpaid:
		return t, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrInvalidLeaveType)
}

// Accrues reports whether the type draws on the accrued vacation balance
// instead of the fixed per-type leave balance.
func (t Type) Accrues() bool {
	return t == TypeAnnual
}

type Request struct {
	ID                  string
	UserID              string
	CompanyID           string
	Type                Type
	StartDate           time.Time
	EndDate             time.Time
	Days                decimal.Decimal
	Reason              string
	Status              approval.Status
	ReviewedBy          *string
	ReviewComment       *string
	ReviewedAt          *time.Time
	BalanceAtRequest    decimal.Decimal
	InsufficientBalance bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (r Request) Ownership() access.Ownership {
	return access.Ownership{Owner: r.UserID, CompanyID: r.CompanyID}
}

// Review is a reviewer's decision on a pending request.
type Review struct {
	ID         string
	Status     approval.Status
	ReviewedBy string
	Comment    *string
	ReviewedAt time.Time
}

// Accrual is the output of the vacation accrual calculation.
type Accrual struct {
	MonthsOfService      int
	MonthsAfterProbation int
	Earned               decimal.Decimal
	Used                 decimal.Decimal
	Balance              decimal.Decimal
}

// Statistics aggregates requests visible within one scope.
type Statistics struct {
	Total        int64
	Pending      int64
	Approved     int64
	Rejected     int64
	ApprovedDays decimal.Decimal
}
