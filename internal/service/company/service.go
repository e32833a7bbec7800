package company

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/access"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/company"
	"github.com/shopspring/decimal"
)

type CompanyServiceImpl struct {
	company.CompanyRepository
}

func NewCompanyService(companyRepository company.CompanyRepository) company.CompanyService {
	return &CompanyServiceImpl{CompanyRepository: companyRepository}
}

func orDefault(d *decimal.Decimal, fallback decimal.Decimal) decimal.Decimal {
	if d == nil {
		return fallback
	}
	return *d
}

// Create implements company.CompanyService.
// Subtle: this method shadows the method (CompanyRepository).Create of CompanyServiceImpl.CompanyRepository.
func (c *CompanyServiceImpl) Create(ctx context.Context, viewer access.Viewer, req company.CreateCompanyRequest) (company.CompanyResponse, error) {
	if viewer.Role != access.RoleAdmin {
		return company.CompanyResponse{}, access.ErrUnauthorized
	}
	if err := req.Validate(); err != nil {
		return company.CompanyResponse{}, err
	}

	created, err := c.CompanyRepository.Create(ctx, company.Company{
		Name:            req.Name,
		Address:         req.Address,
		AnnualLeaveDays: orDefault(req.AnnualLeaveDays, company.DefaultAnnualLeaveDays),
		SickLeaveDays:   orDefault(req.SickLeaveDays, company.DefaultSickLeaveDays),
		UnpaidLeaveDays: orDefault(req.UnpaidLeaveDays, company.DefaultUnpaidLeaveDays),
	})
	if err != nil {
		return company.CompanyResponse{}, fmt.Errorf("failed to create company: %w", err)
	}

	slog.Info("company created", "company_id", created.ID, "by", viewer.UserID)
	return company.ToResponse(created), nil
}

// Get implements company.CompanyService.
func (c *CompanyServiceImpl) Get(ctx context.Context, viewer access.Viewer, id string) (company.CompanyResponse, error) {
	data, err := c.CompanyRepository.GetByID(ctx, id)
	if err != nil {
		return company.CompanyResponse{}, err
	}
	if err := access.Authorize(viewer, access.ResourceCompany, access.Ownership{CompanyID: data.ID}); err != nil {
		return company.CompanyResponse{}, err
	}
	return company.ToResponse(data), nil
}

// List implements company.CompanyService.
func (c *CompanyServiceImpl) List(ctx context.Context, viewer access.Viewer) ([]company.CompanyResponse, error) {
	scope, err := access.ScopeFor(viewer, access.ResourceCompany)
	if err != nil {
		return nil, err
	}
	rows, err := c.CompanyRepository.List(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}

	companies := make([]company.CompanyResponse, 0, len(rows))
	for _, row := range rows {
		companies = append(companies, company.ToResponse(row))
	}
	return companies, nil
}

// Update implements company.CompanyService.
func (c *CompanyServiceImpl) Update(ctx context.Context, viewer access.Viewer, req company.UpdateCompanyRequest) (company.CompanyResponse, error) {
	if viewer.Role != access.RoleAdmin {
		return company.CompanyResponse{}, access.ErrUnauthorized
	}
	if err := req.Validate(); err != nil {
		return company.CompanyResponse{}, err
	}
	if _, err := c.CompanyRepository.GetByID(ctx, req.ID); err != nil {
		return company.CompanyResponse{}, err
	}
	if err := c.CompanyRepository.Update(ctx, req); err != nil {
		return company.CompanyResponse{}, fmt.Errorf("failed to update company: %w", err)
	}

	updated, err := c.CompanyRepository.GetByID(ctx, req.ID)
	if err != nil {
		return company.CompanyResponse{}, err
	}
	return company.ToResponse(updated), nil
}

func (c *CompanyServiceImpl) Delete(ctx context.Context, viewer access.Viewer, id string) error {
	if viewer.Role != access.RoleAdmin {
		return access.ErrUnauthorized
	}
	if err := c.CompanyRepository.Delete(ctx, id); err != nil {
		return err
	}

	slog.Info("company deleted", "company_id", id, "by", viewer.UserID)
	return nil
}
