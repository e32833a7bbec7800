package company

import (
	"context"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/access"
)

type CompanyService interface {
	Create(ctx context.Context, viewer access.Viewer, req CreateCompanyRequest) (CompanyResponse, error)
	Get(ctx context.Context, viewer access.Viewer, id string) (CompanyResponse, error)
	List(ctx context.Context, viewer access.Viewer) ([]CompanyResponse, error)
	Update(ctx context.Context, viewer access.Viewer, req UpdateCompanyRequest) (CompanyResponse, error)
	Delete(ctx context.Context, viewer access.Viewer, id string) error
}
