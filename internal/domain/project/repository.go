package project

import (
	"context"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/access"
)

type ProjectRepository interface {
	Create(ctx context.Context, p Project) (Project, error)
	GetByID(ctx context.Context, id string) (Project, error)
	List(ctx context.Context, scope access.Scope, filter ProjectFilter) ([]Project, int64, error)
	Update(ctx context.Context, req UpdateProjectRequest) error
	Delete(ctx context.Context, id string) error
	AddMember(ctx context.Context, projectID, userID string) error
	RemoveMember(ctx context.Context, projectID, userID string) error
	CountActive(ctx context.Context, scope access.Scope) (int64, error)
}
