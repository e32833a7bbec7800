package project

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/access"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/notification"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/project"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/user"
)

type ProjectServiceImpl struct {
	project.ProjectRepository
	users    user.UserRepository
	notifier notification.Publisher
}

func NewProjectService(projectRepository project.ProjectRepository, userRepository user.UserRepository, notifier notification.Publisher) project.ProjectService {
	return &ProjectServiceImpl{
		ProjectRepository: projectRepository,
		users:             userRepository,
		notifier:          notifier,
	}
}

// manageable loads a project the viewer may modify. Supervisors manage their
// own company's projects only.
func (s *ProjectServiceImpl) manageable(ctx context.Context, viewer access.Viewer, id string) (project.Project, error) {
	p, err := s.ProjectRepository.GetByID(ctx, id)
	if err != nil {
		return project.Project{}, err
	}
	if err := access.AuthorizeReview(viewer, p.CompanyID); err != nil {
		return project.Project{}, err
	}
	return p, nil
}

// Create implements project.ProjectService.
func (s *ProjectServiceImpl) Create(ctx context.Context, viewer access.Viewer, req project.CreateProjectRequest) (project.ProjectResponse, error) {
	if !viewer.Role.CanReview() {
		return project.ProjectResponse{}, access.ErrUnauthorized
	}
	if err := req.Validate(); err != nil {
		return project.ProjectResponse{}, err
	}

	companyID := viewer.CompanyID
	if req.CompanyID != nil {
		companyID = *req.CompanyID
	}
	if companyID == "" {
		return project.ProjectResponse{}, user.ErrCompanyIDRequired
	}
	if err := access.AuthorizeReview(viewer, companyID); err != nil {
		return project.ProjectResponse{}, err
	}

	created, err := s.ProjectRepository.Create(ctx, project.Project{
		CompanyID:   companyID,
		Name:        req.Name,
		Description: req.Description,
		Status:      req.ParsedStatus,
		StartDate:   req.Start,
		EndDate:     req.End,
		CreatedBy:   viewer.UserID,
	})
	if err != nil {
		return project.ProjectResponse{}, fmt.Errorf("failed to create project: %w", err)
	}

	slog.Info("project created", "project_id", created.ID, "company_id", created.CompanyID, "by", viewer.UserID)
	return project.ToResponse(created), nil
}

// Get implements project.ProjectService.
func (s *ProjectServiceImpl) Get(ctx context.Context, viewer access.Viewer, id string) (project.ProjectResponse, error) {
	p, err := s.ProjectRepository.GetByID(ctx, id)
	if err != nil {
		return project.ProjectResponse{}, err
	}
	if err := access.Authorize(viewer, access.ResourceProject, p.Ownership()); err != nil {
		return project.ProjectResponse{}, err
	}
	return project.ToResponse(p), nil
}

// List implements project.ProjectService.
func (s *ProjectServiceImpl) List(ctx context.Context, viewer access.Viewer, filter project.ProjectFilter) (project.ListProjectResponse, error) {
	filter.Normalize()
	scope, err := access.ScopeFor(viewer, access.ResourceProject)
	if err != nil {
		return project.ListProjectResponse{}, err
	}

	rows, total, err := s.ProjectRepository.List(ctx, scope, filter)
	if err != nil {
		return project.ListProjectResponse{}, fmt.Errorf("failed to list projects: %w", err)
	}

	projects := make([]project.ProjectResponse, 0, len(rows))
	for _, p := range rows {
		projects = append(projects, project.ToResponse(p))
	}
	return project.ListProjectResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Projects:   projects,
	}, nil
}

// Update implements project.ProjectService.
func (s *ProjectServiceImpl) Update(ctx context.Context, viewer access.Viewer, req project.UpdateProjectRequest) (project.ProjectResponse, error) {
	if err := req.Validate(); err != nil {
		return project.ProjectResponse{}, err
	}
	if _, err := s.manageable(ctx, viewer, req.ID); err != nil {
		return project.ProjectResponse{}, err
	}
	if err := s.ProjectRepository.Update(ctx, req); err != nil {
		return project.ProjectResponse{}, fmt.Errorf("failed to update project: %w", err)
	}

	updated, err := s.ProjectRepository.GetByID(ctx, req.ID)
	if err != nil {
		return project.ProjectResponse{}, err
	}
	return project.ToResponse(updated), nil
}

// Delete implements project.ProjectService.
func (s *ProjectServiceImpl) Delete(ctx context.Context, viewer access.Viewer, id string) error {
	if _, err := s.manageable(ctx, viewer, id); err != nil {
		return err
	}
	if err := s.ProjectRepository.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	slog.Info("project deleted", "project_id", id, "by", viewer.UserID)
	return nil
}

// Assign implements project.ProjectService.
func (s *ProjectServiceImpl) Assign(ctx context.Context, viewer access.Viewer, projectID, userID string) (project.ProjectResponse, error) {
	p, err := s.manageable(ctx, viewer, projectID)
	if err != nil {
		return project.ProjectResponse{}, err
	}
	member, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return project.ProjectResponse{}, err
	}
	if !member.IsActive() {
		return project.ProjectResponse{}, user.ErrUserInactive
	}
	if member.CompanyIDValue() != p.CompanyID {
		return project.ProjectResponse{}, project.ErrUserOutsideCompany
	}
	if p.IsAssigned(userID) {
		return project.ProjectResponse{}, project.ErrAlreadyAssigned
	}

	if err := s.ProjectRepository.AddMember(ctx, p.ID, userID); err != nil {
		return project.ProjectResponse{}, fmt.Errorf("failed to assign user: %w", err)
	}
	p.AssignedUserIDs = append(p.AssignedUserIDs, userID)

	err = s.notifier.Publish(ctx, notification.Personal(userID, notification.KindProjectAssignment,
		"Project Assignment", fmt.Sprintf("You have been assigned to project %s", p.Name), p.ID))
	if err != nil {
		slog.Error("failed to publish notification", "kind", notification.KindProjectAssignment, "error", err)
	}

	slog.Info("user assigned to project", "project_id", p.ID, "user_id", userID, "by", viewer.UserID)
	return project.ToResponse(p), nil
}

// Unassign implements project.ProjectService.
func (s *ProjectServiceImpl) Unassign(ctx context.Context, viewer access.Viewer, projectID, userID string) (project.ProjectResponse, error) {
	p, err := s.manageable(ctx, viewer, projectID)
	if err != nil {
		return project.ProjectResponse{}, err
	}
	if !p.IsAssigned(userID) {
		return project.ProjectResponse{}, project.ErrNotAssigned
	}
	if err := s.ProjectRepository.RemoveMember(ctx, p.ID, userID); err != nil {
		return project.ProjectResponse{}, fmt.Errorf("failed to remove user: %w", err)
	}

	members := make([]string, 0, len(p.AssignedUserIDs))
	for _, id := range p.AssignedUserIDs {
		if id != userID {
			members = append(members, id)
		}
	}
	p.AssignedUserIDs = members
	return project.ToResponse(p), nil
}
