package project

import (
	"context"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/access"
)

type ProjectService interface {
	Create(ctx context.Context, viewer access.Viewer, req CreateProjectRequest) (ProjectResponse, error)
	Get(ctx context.Context, viewer access.Viewer, id string) (ProjectResponse, error)
	List(ctx context.Context, viewer access.Viewer, filter ProjectFilter) (ListProjectResponse, error)
	Update(ctx context.Context, viewer access.Viewer, req UpdateProjectRequest) (ProjectResponse, error)
	Delete(ctx context.Context, viewer access.Viewer, id string) error
	Assign(ctx context.Context, viewer access.Viewer, projectID, userID string) (ProjectResponse, error)
	Unassign(ctx context.Context, viewer access.Viewer, projectID, userID string) (ProjectResponse, error)
}
