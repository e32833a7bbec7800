package leave

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/approval"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateLeaveRequest struct {
	LeaveType string          `json:"leave_type"`
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date"`
	Days      decimal.Decimal `json:"days"`
	Reason    string          `json:"reason"`

	Type  Type      `json:"-"`
	Start time.Time `json:"-"`
	End   time.Time `json:"-"`
}

func (r *CreateLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	t, err := ParseType(r.LeaveType)
	if err != nil {
		errs.Add("leave_type", "leave_type must be one of: annual, sick, unpaid")
	}
	r.Type = t

	start, ok := validator.IsValidDate(r.StartDate)
	if !ok {
		errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
	}
	end, ok := validator.IsValidDate(r.EndDate)
	if !ok {
		errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		errs.Add("end_date", "end_date must not be before start_date")
	}
	r.Start, r.End = start, end

	if r.Days.IsNegative() {
		errs.Add("days", "days must not be negative")
	}

	r.Reason = strings.TrimSpace(r.Reason)
	if r.Reason == "" {
		errs.Add("reason", "reason is required")
	}

	return errs.Err()
}

type ReviewLeaveRequest struct {
	ID      string  `json:"-"`
	Comment *string `json:"comment,omitempty"`
}

type LeaveFilter struct {
	UserID *string
	Status *approval.Status
	Type   *Type
	Page   int
	Limit  int
}

func (f *LeaveFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 50
	}
}

type LeaveResponse struct {
	ID                  string          `json:"id"`
	UserID              string          `json:"user_id"`
	CompanyID           string          `json:"company_id"`
	LeaveType           string          `json:"leave_type"`
	StartDate           string          `json:"start_date"`
	EndDate             string          `json:"end_date"`
	Days                decimal.Decimal `json:"days"`
	Reason              string          `json:"reason"`
	Status              string          `json:"status"`
	ReviewedBy          *string         `json:"reviewed_by,omitempty"`
	ReviewComment       *string         `json:"review_comment,omitempty"`
	ReviewedAt          *time.Time      `json:"reviewed_at,omitempty"`
	BalanceAtRequest    decimal.Decimal `json:"balance_at_request"`
	InsufficientBalance bool            `json:"insufficient_balance"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

func ToResponse(r Request) LeaveResponse {
	return LeaveResponse{
		ID:                  r.ID,
		UserID:              r.UserID,
		CompanyID:           r.CompanyID,
		LeaveType:           string(r.Type),
		StartDate:           r.StartDate.Format("2006-01-02"),
		EndDate:             r.EndDate.Format("2006-01-02"),
		Days:                r.Days,
		Reason:              r.Reason,
		Status:              string(r.Status),
		ReviewedBy:          r.ReviewedBy,
		ReviewComment:       r.ReviewComment,
		ReviewedAt:          r.ReviewedAt,
		BalanceAtRequest:    r.BalanceAtRequest,
		InsufficientBalance: r.InsufficientBalance,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}
}

// CreateLeaveResponse reports the informational balance check alongside the request.
type CreateLeaveResponse struct {
	Leave               LeaveResponse   `json:"leave"`
	InsufficientBalance bool            `json:"insufficient_balance"`
	CurrentBalance      decimal.Decimal `json:"current_balance"`
	RequestedDays       decimal.Decimal `json:"requested_days"`
}

type ListLeaveResponse struct {
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
	Leaves     []LeaveResponse `json:"leaves"`
}

type StatisticsResponse struct {
	Total     int64           `json:"total"`
	Pending   int64           `json:"pending"`
	Approved  int64           `json:"approved"`
	Rejected  int64           `json:"rejected"`
	TotalDays decimal.Decimal `json:"total_days"`
}

type BalanceResponse struct {
	UserID               string          `json:"user_id"`
	MonthsOfService      int             `json:"months_of_service"`
	MonthsAfterProbation int             `json:"months_after_probation"`
	Earned               decimal.Decimal `json:"vacation_earned"`
	Used                 decimal.Decimal `json:"vacation_used"`
	Balance              decimal.Decimal `json:"vacation_balance"`
	CalculatedAt         *time.Time      `json:"calculated_at,omitempty"`
	HasHireDate          bool            `json:"has_hire_date"`
	MonthlyRate          decimal.Decimal `json:"monthly_rate"`
	ProbationMonths      int             `json:"probation_months"`
}

type RecalculateAllResponse struct {
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
}

// EmployeeVacationResponse is one row of the employee vacation overview.
type EmployeeVacationResponse struct {
	ID        string          `json:"id"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Email     string          `json:"email"`
	Position  string          `json:"position"`
	HireDate  *string         `json:"hire_date"`
	Balance   decimal.Decimal `json:"vacation_balance"`
	Earned    decimal.Decimal `json:"vacation_earned"`
	Used      decimal.Decimal `json:"vacation_used"`
}
