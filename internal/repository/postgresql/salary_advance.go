package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/access"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/advance"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/approval"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type salaryAdvanceRepositoryImpl struct {
	db *database.DB
}

func NewSalaryAdvanceRepository(db *database.DB) advance.SalaryAdvanceRepository {
	return &salaryAdvanceRepositoryImpl{db: db}
}

const advanceColumns = `
	id, user_id, COALESCE(company_id::text, ''), amount, reason, request_date, status,
	reviewed_by::text, review_comment, reviewed_at, created_at, updated_at`

func scanAdvance(row pgx.Row) (advance.Request, error) {
	var r advance.Request
	err := row.Scan(
		&r.ID,
		&r.UserID,
		&r.CompanyID,
		&r.Amount,
		&r.Reason,
		&r.RequestDate,
		&r.Status,
		&r.ReviewedBy,
		&r.ReviewComment,
		&r.ReviewedAt,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	return r, err
}

// Create implements advance.SalaryAdvanceRepository.
func (r *salaryAdvanceRepositoryImpl) Create(ctx context.Context, req advance.Request) (advance.Request, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return advance.Request{}, err
	}

	query := `
		INSERT INTO salary_advances (id, user_id, company_id, amount, reason, request_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + advanceColumns

	created, err := scanAdvance(q.QueryRow(ctx, query,
		id.String(),
		req.UserID,
		nullIfEmpty(req.CompanyID),
		req.Amount,
		req.Reason,
		req.RequestDate,
		string(req.Status),
	))
	if err != nil {
		return advance.Request{}, fmt.Errorf("failed to insert salary advance: %w", err)
	}
	return created, nil
}

// GetByID implements advance.SalaryAdvanceRepository.
func (r *salaryAdvanceRepositoryImpl) GetByID(ctx context.Context, id string) (advance.Request, error) {
	if _, err := uuid.Parse(id); err != nil {
		return advance.Request{}, advance.ErrSalaryAdvanceNotFound
	}
	q := GetQuerier(ctx, r.db)
	req, err := scanAdvance(q.QueryRow(ctx, "SELECT "+advanceColumns+" FROM salary_advances WHERE id = $1", id))
	if err != nil {
		return advance.Request{}, notFound(err, advance.ErrSalaryAdvanceNotFound)
	}
	return req, nil
}

// List implements advance.SalaryAdvanceRepository.
func (r *salaryAdvanceRepositoryImpl) List(ctx context.Context, scope access.Scope, filter advance.AdvanceFilter) ([]advance.Request, int64, error) {
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

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM salary_advances"+c.where(), c.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count salary advances: %w", err)
	}

	query := "SELECT " + advanceColumns + " FROM salary_advances" + c.where() + " ORDER BY created_at DESC" + c.paginate(filter.Page, filter.Limit)
	rows, err := q.Query(ctx, query, c.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list salary advances: %w", err)
	}
	defer rows.Close()

	requests := make([]advance.Request, 0)
	for rows.Next() {
		req, err := scanAdvance(rows)
		if err != nil {
			return nil, 0, err
		}
		requests = append(requests, req)
	}
	return requests, total, rows.Err()
}

// Review implements advance.SalaryAdvanceRepository.
func (r *salaryAdvanceRepositoryImpl) Review(ctx context.Context, review advance.Review) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE salary_advances
		SET status = $1, reviewed_by = $2, review_comment = $3, reviewed_at = $4, updated_at = NOW()
		WHERE id = $5 AND status = $6
	`, string(review.Status), review.ReviewedBy, review.Comment, review.ReviewedAt, review.ID, string(approval.StatusPending))
	if err != nil {
		return fmt.Errorf("failed to review salary advance with id %s: %w", review.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return approval.ErrAlreadyProcessed
	}
	return nil
}

// Delete implements advance.SalaryAdvanceRepository.
func (r *salaryAdvanceRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM salary_advances WHERE id = $1 AND status = $2`, id, string(approval.StatusPending))
	if err != nil {
		return fmt.Errorf("failed to delete salary advance with id %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return approval.ErrNotPending
	}
	return nil
}

// Statistics implements advance.SalaryAdvanceRepository.
func (r *salaryAdvanceRepositoryImpl) Statistics(ctx context.Context, scope access.Scope) (advance.Statistics, error) {
	q := GetQuerier(ctx, r.db)

	var c conditions
	applyScope(&c, scope, requestScopeColumns)

	var stats advance.Statistics
	err := q.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'approved'),
			COUNT(*) FILTER (WHERE status = 'rejected'),
			COALESCE(SUM(amount) FILTER (WHERE status = 'approved'), 0)
		FROM salary_advances`+c.where(), c.args...).Scan(
		&stats.Total,
		&stats.Pending,
		&stats.Approved,
		&stats.Rejected,
		&stats.ApprovedAmount,
	)
	if err != nil {
		return advance.Statistics{}, fmt.Errorf("failed to get salary advance statistics: %w", err)
	}
	return stats, nil
}
