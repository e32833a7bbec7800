package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/access"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/company"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type companyRepositoryImpl struct {
	db *database.DB
}

func NewCompanyRepository(db *database.DB) company.CompanyRepository {
	return &companyRepositoryImpl{db: db}
}

const companyColumns = `id, name, address, annual_leave_days, sick_leave_days, unpaid_leave_days, created_at, updated_at`

func scanCompany(row pgx.Row) (company.Company, error) {
	var c company.Company
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Address,
		&c.AnnualLeaveDays,
		&c.SickLeaveDays,
		&c.UnpaidLeaveDays,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return c, err
}

// GetByID implements company.CompanyRepository.
func (r *companyRepositoryImpl) GetByID(ctx context.Context, id string) (company.Company, error) {
	if _, err := uuid.Parse(id); err != nil {
		return company.Company{}, company.ErrCompanyNotFound
	}
	q := GetQuerier(ctx, r.db)
	c, err := scanCompany(q.QueryRow(ctx, "SELECT "+companyColumns+" FROM companies WHERE id = $1", id))
	if err != nil {
		return company.Company{}, notFound(err, company.ErrCompanyNotFound)
	}
	return c, nil
}

// List implements company.CompanyRepository.
func (r *companyRepositoryImpl) List(ctx context.Context, scope access.Scope) ([]company.Company, error) {
	q := GetQuerier(ctx, r.db)

	var c conditions
	applyScope(&c, scope, scopeColumns{Company: "id::text"})

	rows, err := q.Query(ctx, "SELECT "+companyColumns+" FROM companies"+c.where()+" ORDER BY name", c.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	defer rows.Close()

	companies := make([]company.Company, 0)
	for rows.Next() {
		co, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, co)
	}
	return companies, rows.Err()
}

// Create implements company.CompanyRepository.
func (r *companyRepositoryImpl) Create(ctx context.Context, newCompany company.Company) (company.Company, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return company.Company{}, err
	}

	query := `
		INSERT INTO companies (id, name, address, annual_leave_days, sick_leave_days, unpaid_leave_days)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + companyColumns

	created, err := scanCompany(q.QueryRow(ctx, query,
		id.String(),
		newCompany.Name,
		newCompany.Address,
		newCompany.AnnualLeaveDays,
		newCompany.SickLeaveDays,
		newCompany.UnpaidLeaveDays,
	))
	if err != nil {
		if uniqueConstraint(err) != "" {
			return company.Company{}, company.ErrCompanyNameExists
		}
		return company.Company{}, fmt.Errorf("failed to insert company: %w", err)
	}
	return created, nil
}

// Update implements company.CompanyRepository.
func (r *companyRepositoryImpl) Update(ctx context.Context, req company.UpdateCompanyRequest) error {
	q := GetQuerier(ctx, r.db)

	updates := make([]string, 0)
	args := make([]interface{}, 0)
	set := func(column string, value interface{}) {
		args = append(args, value)
		updates = append(updates, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if req.Name != nil {
		set("name", *req.Name)
	}
	if req.Address != nil {
		set("address", *req.Address)
	}
	if req.AnnualLeaveDays != nil {
		set("annual_leave_days", *req.AnnualLeaveDays)
	}
	if req.SickLeaveDays != nil {
		set("sick_leave_days", *req.SickLeaveDays)
	}
	if req.UnpaidLeaveDays != nil {
		set("unpaid_leave_days", *req.UnpaidLeaveDays)
	}

	if len(updates) == 0 {
		return nil
	}
	args = append(args, req.ID)
	query := "UPDATE companies SET " + strings.Join(updates, ", ") + fmt.Sprintf(", updated_at = NOW() WHERE id = $%d", len(args))

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		if uniqueConstraint(err) != "" {
			return company.ErrCompanyNameExists
		}
		return fmt.Errorf("failed to update company with id %s: %w", req.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return company.ErrCompanyNotFound
	}
	return nil
}

// Delete implements company.CompanyRepository.
func (r *companyRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, "DELETE FROM companies WHERE id = $1", id)
	if err != nil {
		if stillReferenced(err) {
			return company.ErrCompanyInUse
		}
		return fmt.Errorf("failed to delete company with id %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return company.ErrCompanyNotFound
	}
	return nil
}
