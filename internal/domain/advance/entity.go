package advance

import (
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/access"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/approval"
	"github.com/shopspring/decimal"
)

// Request is an employee's request for part of their salary ahead of payday.
type Request struct {
	ID            string
	UserID        string
	CompanyID     string
	Amount        decimal.Decimal
	Reason        string
	RequestDate   *time.Time
	Status        approval.Status
	ReviewedBy    *string
	ReviewComment *string
	ReviewedAt    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (r Request) Ownership() access.Ownership {
	return access.Ownership{Owner: r.UserID, CompanyID: r.CompanyID}
}

type Review struct {
	ID         string
	Status     approval.Status
	ReviewedBy string
	Comment    *string
	ReviewedAt time.Time
}

type Statistics struct {
	Total          int64
	Pending        int64
	Approved       int64
	Rejected       int64
	ApprovedAmount decimal.Decimal
}
