package company

import (
	"context"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/access"
)

type CompanyRepository interface {
	GetByID(ctx context.Context, id string) (Company, error)
	List(ctx context.Context, scope access.Scope) ([]Company, error)
	Create(ctx context.Context, newCompany Company) (Company, error)
	Update(ctx context.Context, req UpdateCompanyRequest) error
	Delete(ctx context.Context, id string) error
}
