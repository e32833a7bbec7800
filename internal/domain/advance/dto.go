package advance

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/approval"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateAdvanceRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Reason      string          `json:"reason"`
	RequestDate *string         `json:"request_date,omitempty"`

	Date *time.Time `json:"-"`
}

func (r *CreateAdvanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if !r.Amount.IsPositive() {
		errs.Add("amount", "amount must be greater than zero")
	}

	r.Reason = strings.TrimSpace(r.Reason)
	if r.Reason == "" {
		errs.Add("reason", "reason is required")
	}

	r.Date = nil
	if r.RequestDate != nil {
		d, ok := validator.IsValidDate(*r.RequestDate)
		if !ok {
			errs.Add("request_date", "request_date must be in YYYY-MM-DD format")
		} else {
			r.Date = &d
		}
	}

	return errs.Err()
}

type ReviewAdvanceRequest struct {
	ID      string  `json:"-"`
	Comment *string `json:"comment,omitempty"`
}

type AdvanceFilter struct {
	UserID *string
	Status *approval.Status
	Page   int
	Limit  int
}

func (f *AdvanceFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 50
	}
}

type AdvanceResponse struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	CompanyID     string          `json:"company_id"`
	Amount        decimal.Decimal `json:"amount"`
	Reason        string          `json:"reason"`
	RequestDate   *string         `json:"request_date,omitempty"`
	Status        string          `json:"status"`
	ReviewedBy    *string         `json:"reviewed_by,omitempty"`
	ReviewComment *string         `json:"review_comment,omitempty"`
	ReviewedAt    *time.Time      `json:"reviewed_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func ToResponse(r Request) AdvanceResponse {
	var requestDate *string
	if r.RequestDate != nil {
		s := r.RequestDate.Format("2006-01-02")
		requestDate = &s
	}
	return AdvanceResponse{
		ID:            r.ID,
		UserID:        r.UserID,
		CompanyID:     r.CompanyID,
		Amount:        r.Amount,
		Reason:        r.Reason,
		RequestDate:   requestDate,
		Status:        string(r.Status),
		ReviewedBy:    r.ReviewedBy,
		ReviewComment: r.ReviewComment,
		ReviewedAt:    r.ReviewedAt,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

type ListAdvanceResponse struct {
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
	Advances   []AdvanceResponse `json:"salary_advances"`
}

type StatisticsResponse struct {
	Total       int64           `json:"total"`
	Pending     int64           `json:"pending"`
	Approved    int64           `json:"approved"`
	Rejected    int64           `json:"rejected"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}
