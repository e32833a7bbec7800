package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/access"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/project"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type projectRepositoryImpl struct {
	db *database.DB
}

func NewProjectRepository(db *database.DB) project.ProjectRepository {
	return &projectRepositoryImpl{db: db}
}

// Member ids are aggregated in the same row so a list is a single query.
const projectColumns = `
	p.id, p.company_id::text, p.name, p.description, p.status, p.start_date, p.end_date,
	COALESCE((SELECT array_agg(pm.user_id::text ORDER BY pm.assigned_at)
	          FROM project_members pm WHERE pm.project_id = p.id), '{}'),
	p.created_by::text, p.created_at, p.updated_at`

var projectScopeColumns = scopeColumns{
	Company: "p.company_id::text",
	Member:  "EXISTS (SELECT 1 FROM project_members pm WHERE pm.project_id = p.id AND pm.user_id::text = $%d)",
}

func scanProject(row pgx.Row) (project.Project, error) {
	var p project.Project
	err := row.Scan(
		&p.ID,
		&p.CompanyID,
		&p.Name,
		&p.Description,
		&p.Status,
		&p.StartDate,
		&p.EndDate,
		&p.AssignedUserIDs,
		&p.CreatedBy,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

// Create implements project.ProjectRepository.
func (r *projectRepositoryImpl) Create(ctx context.Context, p project.Project) (project.Project, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return project.Project{}, err
	}

	_, err = q.Exec(ctx, `
		INSERT INTO projects (id, company_id, name, description, status, start_date, end_date, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, id.String(), p.CompanyID, p.Name, p.Description, string(p.Status), p.StartDate, p.EndDate, p.CreatedBy)
	if err != nil {
		return project.Project{}, fmt.Errorf("failed to insert project: %w", err)
	}
	return r.GetByID(ctx, id.String())
}

// GetByID implements project.ProjectRepository.
func (r *projectRepositoryImpl) GetByID(ctx context.Context, id string) (project.Project, error) {
	if _, err := uuid.Parse(id); err != nil {
		return project.Project{}, project.ErrProjectNotFound
	}
	q := GetQuerier(ctx, r.db)
	p, err := scanProject(q.QueryRow(ctx, "SELECT "+projectColumns+" FROM projects p WHERE p.id = $1", id))
	if err != nil {
		return project.Project{}, notFound(err, project.ErrProjectNotFound)
	}
	return p, nil
}

// List implements project.ProjectRepository.
func (r *projectRepositoryImpl) List(ctx context.Context, scope access.Scope, filter project.ProjectFilter) ([]project.Project, int64, error) {
	q := GetQuerier(ctx, r.db)
	filter.Normalize()

	var c conditions
	applyScope(&c, scope, projectScopeColumns)
	if filter.Status != nil {
		c.add("p.status = $%d", string(*filter.Status))
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM projects p"+c.where(), c.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count projects: %w", err)
	}

	query := "SELECT " + projectColumns + " FROM projects p" + c.where() + " ORDER BY p.created_at DESC" + c.paginate(filter.Page, filter.Limit)
	rows, err := q.Query(ctx, query, c.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := make([]project.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, 0, err
		}
		projects = append(projects, p)
	}
	return projects, total, rows.Err()
}

// Update implements project.ProjectRepository.
func (r *projectRepositoryImpl) Update(ctx context.Context, req project.UpdateProjectRequest) error {
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
	if req.Description != nil {
		set("description", *req.Description)
	}
	if req.ParsedStatus != nil {
		set("status", string(*req.ParsedStatus))
	}
	if req.Start != nil {
		set("start_date", *req.Start)
	}
	if req.End != nil {
		set("end_date", *req.End)
	}

	if len(updates) == 0 {
		return nil
	}
	args = append(args, req.ID)
	query := "UPDATE projects SET " + strings.Join(updates, ", ") + fmt.Sprintf(", updated_at = NOW() WHERE id = $%d", len(args))

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update project with id %s: %w", req.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return project.ErrProjectNotFound
	}
	return nil
}

// Delete implements project.ProjectRepository.
func (r *projectRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project with id %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return project.ErrProjectNotFound
	}
	return nil
}

// AddMember implements project.ProjectRepository.
func (r *projectRepositoryImpl) AddMember(ctx context.Context, projectID, userID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		INSERT INTO project_members (project_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (project_id, user_id) DO NOTHING
	`, projectID, userID)
	if err != nil {
		return fmt.Errorf("failed to assign user to project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return project.ErrAlreadyAssigned
	}
	return nil
}

// RemoveMember implements project.ProjectRepository.
func (r *projectRepositoryImpl) RemoveMember(ctx context.Context, projectID, userID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM project_members WHERE project_id = $1 AND user_id = $2`, projectID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove user from project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return project.ErrNotAssigned
	}
	return nil
}

// CountActive implements project.ProjectRepository.
func (r *projectRepositoryImpl) CountActive(ctx context.Context, scope access.Scope) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var c conditions
	applyScope(&c, scope, projectScopeColumns)
	c.add("p.status = $%d", string(project.StatusActive))

	var count int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM projects p"+c.where(), c.args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count active projects: %w", err)
	}
	return count, nil
}
