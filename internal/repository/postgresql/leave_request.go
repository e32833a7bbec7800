package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/access"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/approval"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/leave"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

const leaveColumns = `
	id, user_id, COALESCE(company_id::text, ''), leave_type, start_date, end_date, days, reason, status,
	reviewed_by::text, review_comment, reviewed_at, balance_at_request, insufficient_balance,
	created_at, updated_at`

// requestScopeColumns is shared by the approval tables.
var requestScopeColumns = scopeColumns{Owner: "user_id::text", Company: "company_id::text"}

func scanLeave(row pgx.Row) (leave.Request, error) {
	var r leave.Request
	err := row.Scan(
		&r.ID,
		&r.UserID,
		&r.CompanyID,
		&r.Type,
		&r.StartDate,
		&r.EndDate,
		&r.Days,
		&r.Reason,
		&r.Status,
		&r.ReviewedBy,
		&r.ReviewComment,
		&r.ReviewedAt,
		&r.BalanceAtRequest,
		&r.InsufficientBalance,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	return r, err
}

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, req leave.Request) (leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return leave.Request{}, err
	}

	query := `
		INSERT INTO leave_requests (
			id, user_id, company_id, leave_type, start_date, end_date, days, reason,
			status, balance_at_request, insufficient_balance
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + leaveColumns

	created, err := scanLeave(q.QueryRow(ctx, query,
		id.String(),
		req.UserID,
		nullIfEmpty(req.CompanyID),
		string(req.Type),
		req.StartDate,
		req.EndDate,
		req.Days,
		req.Reason,
		string(req.Status),
		req.BalanceAtRequest,
		req.InsufficientBalance,
	))
	if err != nil {
		return leave.Request{}, fmt.Errorf("failed to insert leave request: %w", err)
	}
	return created, nil
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.Request, error) {
	if _, err := uuid.Parse(id); err != nil {
		return leave.Request{}, leave.ErrLeaveRequestNotFound
	}
	q := GetQuerier(ctx, r.db)
	req, err := scanLeave(q.QueryRow(ctx, "SELECT "+leaveColumns+" FROM leave_requests WHERE id = $1", id))
	if err != nil {
		return leave.Request{}, notFound(err, leave.ErrLeaveRequestNotFound)
	}
	return req, nil
}

// List implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) List(ctx context.Context, scope access.Scope, filter leave.LeaveFilter) ([]leave.Request, int64, error) {
	q := GetQuerier(ctx, r.db)
	filter.Normalize()

	var c conditions
	applyScope(&c, scope, requestScopeColumns)
	if filter.UserID != nil {
		c.add("user_id::text = $%d", *filter.UserID)
	}
	if filter.Status != nil {
		c.add("status = $%d", string(*filter.Status))
	}
	if filter.Type != nil {
		c.add("leave_type = $%d", string(*filter.Type))
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM leave_requests"+c.where(), c.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count leave requests: %w", err)
	}

	query := "SELECT " + leaveColumns + " FROM leave_requests" + c.where() + " ORDER BY created_at DESC" + c.paginate(filter.Page, filter.Limit)
	rows, err := q.Query(ctx, query, c.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list leave requests: %w", err)
	}
	defer rows.Close()

	requests := make([]leave.Request, 0)
	for rows.Next() {
		req, err := scanLeave(rows)
		if err != nil {
			return nil, 0, err
		}
		requests = append(requests, req)
	}
	return requests, total, rows.Err()
}

// Review implements leave.LeaveRequestRepository.
// The pending guard lives in the WHERE clause so concurrent reviews cannot both win.
func (r *leaveRequestRepositoryImpl) Review(ctx context.Context, review leave.Review) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE leave_requests
		SET status = $1, reviewed_by = $2, review_comment = $3, reviewed_at = $4, updated_at = NOW()
		WHERE id = $5 AND status = $6
	`, string(review.Status), review.ReviewedBy, review.Comment, review.ReviewedAt, review.ID, string(approval.StatusPending))
	if err != nil {
		return fmt.Errorf("failed to review leave request with id %s: %w", review.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return approval.ErrAlreadyProcessed
	}
	return nil
}

// Delete implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM leave_requests WHERE id = $1 AND status = $2`, id, string(approval.StatusPending))
	if err != nil {
		return fmt.Errorf("failed to delete leave request with id %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return approval.ErrNotPending
	}
	return nil
}

// Statistics implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Statistics(ctx context.Context, scope access.Scope) (leave.Statistics, error) {
	q := GetQuerier(ctx, r.db)

	var c conditions
	applyScope(&c, scope, requestScopeColumns)

	var stats leave.Statistics
	err := q.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'approved'),
			COUNT(*) FILTER (WHERE status = 'rejected'),
			COALESCE(SUM(days) FILTER (WHERE status = 'approved'), 0)
		FROM leave_requests`+c.where(), c.args...).Scan(
		&stats.Total,
		&stats.Pending,
		&stats.Approved,
		&stats.Rejected,
		&stats.ApprovedDays,
	)
	if err != nil {
		return leave.Statistics{}, fmt.Errorf("failed to get leave statistics: %w", err)
	}
	return stats, nil
}

// SumApprovedAnnualDays implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) SumApprovedAnnualDays(ctx context.Context, userID string) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	var total decimal.Decimal
	err := q.QueryRow(ctx, `
		SELECT COALESCE(SUM(days), 0)
		FROM leave_requests
		WHERE user_id = $1 AND leave_type = $2 AND status = $3
	`, userID, string(leave.TypeAnnual), string(approval.StatusApproved)).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum approved annual leave: %w", err)
	}
	return total, nil
}
